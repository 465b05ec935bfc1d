package hook

import (
	"strings"
	"sync"
	"time"

	"github.com/dshills/richlist/internal/dispatcher/execctx"
	"github.com/dshills/richlist/internal/dispatcher/handler"
	"github.com/dshills/richlist/internal/engine/transform"
	"github.com/dshills/richlist/internal/input"
)

// Standard hook priorities.
const (
	PriorityAudit      = 1000 // Runs first (pre) / last (post)
	PriorityCountLimit = 900  // Enforce count limits early
	PriorityValidation = 800  // Validate before processing
	PriorityFilter     = 700  // Drop disabled actions
	PriorityRepeat     = 500  // Capture for repeat command
	PriorityChangeLog  = 100  // Record committed transactions
)

// editPrefix is the namespace of actions that change the document.
const editPrefix = "list."

// AuditHook logs all dispatched actions.
type AuditHook struct {
	logger execctx.Logger
}

// NewAuditHook creates an audit hook with the given logger.
func NewAuditHook(logger execctx.Logger) *AuditHook {
	return &AuditHook{logger: logger}
}

// Name implements Hook.
func (h *AuditHook) Name() string { return "audit" }

// Priority implements Hook.
func (h *AuditHook) Priority() int { return PriorityAudit }

// PreDispatch logs the action being dispatched.
func (h *AuditHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	if h.logger != nil {
		h.logger.Debug("dispatch start: action=%s count=%d source=%s", action.Name, ctx.GetCount(), action.Source)
	}
	return true
}

// PostDispatch logs the dispatch result.
func (h *AuditHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if h.logger == nil {
		return
	}

	switch result.Status {
	case handler.StatusError:
		h.logger.Error("dispatch failed: action=%s error=%v", action.Name, result.Error)
	case handler.StatusOK:
		id := ""
		if result.Transaction != nil {
			id = result.Transaction.ID()
		}
		h.logger.Debug("dispatch complete: action=%s status=%s txn=%s", action.Name, result.Status, id)
	default:
		h.logger.Debug("dispatch complete: action=%s status=%s reason=%q", action.Name, result.Status, result.Reason)
	}
}

// RepeatHook captures the last applied editing action so it can be repeated.
type RepeatHook struct {
	mu         sync.RWMutex
	lastAction *input.Action
	lastCount  int
}

// NewRepeatHook creates a new repeat hook.
func NewRepeatHook() *RepeatHook {
	return &RepeatHook{}
}

// Name implements Hook.
func (h *RepeatHook) Name() string { return "repeat" }

// Priority implements Hook.
func (h *RepeatHook) Priority() int { return PriorityRepeat }

// PostDispatch captures applied editing actions.
func (h *RepeatHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if result.Status != handler.StatusOK || ctx.DryRun || !isRepeatable(action.Name) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastAction = copyAction(action)
	h.lastCount = ctx.GetCount()
}

// LastAction returns a copy of the last captured action and count.
// Returns nil if no action has been captured.
func (h *RepeatHook) LastAction() (*input.Action, int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.lastAction == nil {
		return nil, 0
	}
	return copyAction(h.lastAction), h.lastCount
}

// Clear clears the last captured action.
func (h *RepeatHook) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastAction = nil
	h.lastCount = 0
}

// copyAction creates a deep copy of an action including its Extra map.
func copyAction(action *input.Action) *input.Action {
	if action == nil {
		return nil
	}
	actionCopy := *action
	if action.Args.Extra != nil {
		actionCopy.Args.Extra = make(map[string]interface{}, len(action.Args.Extra))
		for k, v := range action.Args.Extra {
			actionCopy.Args.Extra[k] = v
		}
	}
	return &actionCopy
}

func isRepeatable(actionName string) bool {
	return strings.HasPrefix(actionName, editPrefix)
}

// ChangeRecord describes one committed transaction.
type ChangeRecord struct {
	Timestamp     time.Time
	Action        string
	TransactionID string
	Origin        string
	Steps         int
	Selection     string
}

// ChangeLogHook keeps a bounded log of committed transactions.
type ChangeLogHook struct {
	mu       sync.RWMutex
	changes  []ChangeRecord
	maxSize  int
	callback func(record ChangeRecord)
}

// NewChangeLogHook creates a change log hook.
// maxSize limits the number of changes retained (0 = unlimited).
func NewChangeLogHook(maxSize int) *ChangeLogHook {
	return &ChangeLogHook{maxSize: maxSize}
}

// Name implements Hook.
func (h *ChangeLogHook) Name() string { return "change-log" }

// Priority implements Hook.
func (h *ChangeLogHook) Priority() int { return PriorityChangeLog }

// PostDispatch records the transaction of an applied action. Dry runs are
// not recorded.
func (h *ChangeLogHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	if result.Status != handler.StatusOK || result.Transaction == nil || ctx.DryRun {
		return
	}
	tr := result.Transaction
	origin, _ := tr.Meta(transform.MetaOrigin).(string)
	record := ChangeRecord{
		Timestamp:     time.Now(),
		Action:        action.Name,
		TransactionID: tr.ID(),
		Origin:        origin,
		Steps:         len(tr.Steps()),
		Selection:     tr.Selection().String(),
	}

	h.mu.Lock()
	h.changes = append(h.changes, record)
	if h.maxSize > 0 && len(h.changes) > h.maxSize {
		h.changes = h.changes[len(h.changes)-h.maxSize:]
	}
	callback := h.callback
	h.mu.Unlock()

	if callback != nil {
		callback(record)
	}
}

// Changes returns a copy of all recorded changes.
func (h *ChangeLogHook) Changes() []ChangeRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]ChangeRecord(nil), h.changes...)
}

// RecentChanges returns the most recent n changes.
func (h *ChangeLogHook) RecentChanges(n int) []ChangeRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n > len(h.changes) {
		n = len(h.changes)
	}
	return append([]ChangeRecord(nil), h.changes[len(h.changes)-n:]...)
}

// SetCallback sets a callback to be called for each change.
func (h *ChangeLogHook) SetCallback(fn func(record ChangeRecord)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.callback = fn
}

// Clear removes all recorded changes.
func (h *ChangeLogHook) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.changes = nil
}

// CountLimitHook enforces a maximum repeat count to prevent runaway commands.
type CountLimitHook struct {
	maxCount int
}

// NewCountLimitHook creates a count limit hook.
func NewCountLimitHook(maxCount int) *CountLimitHook {
	return &CountLimitHook{maxCount: maxCount}
}

// Name implements Hook.
func (h *CountLimitHook) Name() string { return "count-limit" }

// Priority implements Hook.
func (h *CountLimitHook) Priority() int { return PriorityCountLimit }

// PreDispatch limits the repeat count.
func (h *CountLimitHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	if h.maxCount > 0 && ctx.Count > h.maxCount {
		ctx.Count = h.maxCount
	}
	return true
}

// ValidationHook validates actions before dispatch using a custom function.
type ValidationHook struct {
	name     string
	priority int
	validate func(action *input.Action, ctx *execctx.ExecutionContext) error
}

// NewValidationHook creates a validation hook.
func NewValidationHook(name string, priority int, validate func(*input.Action, *execctx.ExecutionContext) error) *ValidationHook {
	return &ValidationHook{name: name, priority: priority, validate: validate}
}

// NewSelectionValidationHook cancels editing actions whose editor state
// has no selection or a selection outside the document.
func NewSelectionValidationHook() *ValidationHook {
	return NewValidationHook("selection", PriorityValidation, func(action *input.Action, ctx *execctx.ExecutionContext) error {
		if !strings.HasPrefix(action.Name, editPrefix) {
			return nil
		}
		state, err := ctx.State()
		if err != nil {
			return err
		}
		return state.Validate()
	})
}

// Name implements Hook.
func (h *ValidationHook) Name() string { return h.name }

// Priority implements Hook.
func (h *ValidationHook) Priority() int { return h.priority }

// PreDispatch validates the action and cancels if invalid.
func (h *ValidationHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	if h.validate == nil {
		return true
	}
	if err := h.validate(action, ctx); err != nil {
		ctx.Log().Warn("action %s rejected by %s: %v", action.Name, h.name, err)
		return false
	}
	return true
}

// ReadOnlyHook prevents modifications to read-only documents.
type ReadOnlyHook struct{}

// NewReadOnlyHook creates a read-only enforcement hook.
func NewReadOnlyHook() *ReadOnlyHook {
	return &ReadOnlyHook{}
}

// Name implements Hook.
func (h *ReadOnlyHook) Name() string { return "read-only" }

// Priority implements Hook.
func (h *ReadOnlyHook) Priority() int { return PriorityValidation }

// PreDispatch cancels editing actions on read-only documents.
func (h *ReadOnlyHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	return !ctx.IsReadOnly() || !strings.HasPrefix(action.Name, editPrefix)
}

// TimingHook measures action execution time.
// Start times are stored on the ExecutionContext so concurrent dispatches
// do not share state.
type TimingHook struct {
	callback func(action string, duration time.Duration)
}

// timingStartKey is the context data key for timing start time.
const timingStartKey = "_timing_start"

// NewTimingHook creates a timing hook.
func NewTimingHook(callback func(action string, duration time.Duration)) *TimingHook {
	return &TimingHook{callback: callback}
}

// Name implements Hook.
func (h *TimingHook) Name() string { return "timing" }

// Priority implements Hook.
func (h *TimingHook) Priority() int { return PriorityAudit }

// PreDispatch records the start time on the context.
func (h *TimingHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	ctx.SetData(timingStartKey, time.Now())
	return true
}

// PostDispatch calculates and reports the duration.
func (h *TimingHook) PostDispatch(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	startVal, ok := ctx.GetData(timingStartKey)
	if !ok {
		return
	}
	if start, ok := startVal.(time.Time); ok && h.callback != nil {
		h.callback(action.Name, time.Since(start))
	}
}

// ActionFilterHook allows or blocks actions based on a filter function.
type ActionFilterHook struct {
	name     string
	priority int
	filter   func(action *input.Action, ctx *execctx.ExecutionContext) (allow bool, reason string)
}

// NewActionFilterHook creates an action filter hook.
func NewActionFilterHook(name string, priority int, filter func(*input.Action, *execctx.ExecutionContext) (bool, string)) *ActionFilterHook {
	return &ActionFilterHook{name: name, priority: priority, filter: filter}
}

// NewDisabledActionsHook blocks the named actions.
func NewDisabledActionsHook(disabled []string) *ActionFilterHook {
	set := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		set[name] = true
	}
	return NewActionFilterHook("disabled-actions", PriorityFilter, func(action *input.Action, ctx *execctx.ExecutionContext) (bool, string) {
		if set[action.Name] {
			return false, "action disabled by configuration"
		}
		return true, ""
	})
}

// Name implements Hook.
func (h *ActionFilterHook) Name() string { return h.name }

// Priority implements Hook.
func (h *ActionFilterHook) Priority() int { return h.priority }

// PreDispatch applies the filter. The reason for a block is stored on the
// action's Extra map under "filter_reason".
func (h *ActionFilterHook) PreDispatch(action *input.Action, ctx *execctx.ExecutionContext) bool {
	if h.filter == nil {
		return true
	}
	allow, reason := h.filter(action, ctx)
	if !allow && reason != "" {
		*action = action.WithExtra("filter_reason", reason)
	}
	return allow
}
