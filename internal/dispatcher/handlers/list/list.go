package list

import (
	"fmt"
	"sort"

	"github.com/dshills/richlist/internal/dispatcher/execctx"
	"github.com/dshills/richlist/internal/dispatcher/handler"
	listops "github.com/dshills/richlist/internal/engine/list"
	"github.com/dshills/richlist/internal/engine/transform"
	"github.com/dshills/richlist/internal/input"
)

// Namespace is the namespace all list actions live in.
const Namespace = "list"

// Action names for list operations.
const (
	ActionEnter             = "list.enter"             // Enter
	ActionBackspace         = "list.backspace"         // Backspace
	ActionIndent            = "list.indent"            // Tab
	ActionOutdent           = "list.outdent"           // Shift-Tab
	ActionMoveUp            = "list.moveUp"            // Alt-ArrowUp
	ActionMoveDown          = "list.moveDown"          // Alt-ArrowDown
	ActionToggleBulletList  = "list.toggleBulletList"  // Mod-Shift-8
	ActionToggleOrderedList = "list.toggleOrderedList" // Mod-Shift-9
	ActionInsertEmptyAbove  = "list.insertEmptyAbove"
	ActionInsertEmptyBelow  = "list.insertEmptyBelow"
	ActionToggleTodoList    = "list.toggleTodoList"    // Mod-Shift-7
	ActionToggleTodoChecked = "list.toggleTodoChecked" // Mod-Enter
)

// Commands maps the command names hosts use for key handlers to actions.
var Commands = map[string]string{
	"Enter":                ActionEnter,
	"Backspace":            ActionBackspace,
	"Tab":                  ActionIndent,
	"Shift-Tab":            ActionOutdent,
	"Alt-ArrowUp":          ActionMoveUp,
	"Alt-ArrowDown":        ActionMoveDown,
	"toggleBulletList":     ActionToggleBulletList,
	"toggleOrderedList":    ActionToggleOrderedList,
	"insertEmptyListAbove": ActionInsertEmptyAbove,
	"insertEmptyListBelow": ActionInsertEmptyBelow,
	"toggleTodoList":       ActionToggleTodoList,
	"toggleTodoChecked":    ActionToggleTodoChecked,
}

// ActionFor returns the action registered for a command name.
func ActionFor(command string) (string, bool) {
	action, ok := Commands[command]
	return action, ok
}

// step is one transform of a fallback chain.
type step struct {
	name string
	fn   listops.Transform
}

// Result data keys.
const (
	// DataApplied holds the number of times the chain applied.
	DataApplied = "applied"
	// DataTransform holds the name of the last transform that applied.
	DataTransform = "transform"
)

// Handler runs list transforms for list actions.
// Each action owns an ordered fallback chain; the first transform in the
// chain that applies wins.
type Handler struct {
	chains map[string][]step
}

// NewHandler creates a list handler with the default chains.
func NewHandler() *Handler {
	return &Handler{
		chains: map[string][]step{
			ActionEnter: {
				{"splitListItem", listops.SplitListItem},
			},
			ActionBackspace: {
				{"backspaceAtListItemStart", listops.BackspaceAtListItemStart},
				{"joinTextblockIntoPrecedingList", listops.JoinTextblockIntoPrecedingList},
			},
			ActionIndent:            {{"sinkListItem", listops.SinkListItem}},
			ActionOutdent:           {{"liftListItem", listops.LiftListItem}},
			ActionMoveUp:            {{"moveListItemUp", listops.MoveListItemUp}},
			ActionMoveDown:          {{"moveListItemDown", listops.MoveListItemDown}},
			ActionToggleBulletList:  {{"toggleBulletList", listops.ToggleBulletList}},
			ActionToggleOrderedList: {{"toggleOrderedList", listops.ToggleOrderedList}},
			ActionInsertEmptyAbove:  {{"insertEmptyListItemAbove", listops.InsertEmptyListItemAbove}},
			ActionInsertEmptyBelow:  {{"insertEmptyListItemBelow", listops.InsertEmptyListItemBelow}},
			ActionToggleTodoList:    {{"toggleTodoList", listops.ToggleTodoList}},
			ActionToggleTodoChecked: {{"toggleTodoChecked", listops.ToggleTodoChecked}},
		},
	}
}

// Namespace returns the list namespace.
func (h *Handler) Namespace() string {
	return Namespace
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	_, ok := h.chains[actionName]
	return ok
}

// Actions returns the handled action names, sorted.
func (h *Handler) Actions() []string {
	names := make([]string, 0, len(h.chains))
	for name := range h.chains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chain returns the transform names tried for an action, in order.
func (h *Handler) Chain(actionName string) []string {
	chain := h.chains[actionName]
	names := make([]string, len(chain))
	for i, s := range chain {
		names[i] = s.name
	}
	return names
}

// HandleAction runs the action's chain ctx.Count times, stopping early when
// no transform applies. Unless ctx.DryRun is set, every applied transaction
// is committed to the editor before the next round reads its state.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	chain, ok := h.chains[action.Name]
	if !ok {
		return handler.Errorf("unknown list action: %s", action.Name)
	}

	validate := ctx.ValidateForEdit
	if ctx.DryRun {
		validate = ctx.Validate
	}
	if err := validate(); err != nil {
		return handler.Error(err)
	}

	state, err := ctx.State()
	if err != nil {
		return handler.Error(err)
	}

	var (
		last    *transform.Transaction
		lastBy  string
		applied int
		reason  listops.Reason
	)
	for i := 0; i < ctx.GetCount(); i++ {
		res, by, err := runChain(chain, state, ctx.Roles)
		if err != nil {
			return handler.Error(fmt.Errorf("%s: %w", action.Name, err))
		}
		if !res.Applied() {
			reason = res.Reason()
			break
		}

		tr := res.Transaction()
		tr.SetMeta(transform.MetaOrigin, by)
		if !ctx.DryRun {
			if err := ctx.Editor.Apply(tr); err != nil {
				return handler.Error(fmt.Errorf("%s: %w", action.Name, err))
			}
		}
		ctx.Log().Debug("list action applied: action=%s transform=%s", action.Name, by)

		last, lastBy = tr, by
		applied++
		state = res.State()
	}

	if applied == 0 {
		ctx.Log().Debug("list action not applicable: action=%s reason=%s", action.Name, reason)
		return handler.NotApplicable(string(reason))
	}
	return handler.Applied(last).
		WithData(DataApplied, applied).
		WithData(DataTransform, lastBy)
}

// runChain returns the result of the first transform in chain that applies,
// or the result of the last one tried.
func runChain(chain []step, state listops.State, roles *listops.Roles) (listops.Result, string, error) {
	var res listops.Result
	for _, s := range chain {
		var err error
		res, err = s.fn(state, roles)
		if err != nil {
			return listops.Result{}, s.name, fmt.Errorf("%s: %w", s.name, err)
		}
		if res.Applied() {
			return res, s.name, nil
		}
	}
	return res, "", nil
}
