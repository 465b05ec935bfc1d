package list

import (
	"fmt"

	"github.com/dshills/richlist/internal/engine/model"
)

// Predicates describe the selection around a list item textblock. They key
// the Enter and Backspace decision tables.
type Predicates struct {
	// Collapsed is true for a cursor.
	Collapsed bool
	// AtBoundary is true at the end of the textblock for Enter and at the
	// start of the item's first textblock for Backspace.
	AtBoundary bool
	// ItemEmpty is true when the item holds a single empty textblock.
	ItemEmpty bool
	// Nested is true when the item's list sits inside another list item.
	Nested bool
	// HasSibling is true when the item has a next sibling (Enter) or a
	// previous sibling (Backspace).
	HasSibling bool
}

func (p Predicates) String() string {
	flag := func(b bool, c byte) byte {
		if b {
			return c
		}
		return '-'
	}
	return string([]byte{
		flag(p.Collapsed, 'C'),
		flag(p.AtBoundary, 'B'),
		flag(p.ItemEmpty, 'E'),
		flag(p.Nested, 'N'),
		flag(p.HasSibling, 'S'),
	})
}

// Action is the transform a decision table selects.
type Action uint8

// Actions selected by the decision tables.
const (
	// NoOp leaves the key to the host's default behaviour.
	NoOp Action = iota
	// SplitItem splits the item at the selection.
	SplitItem
	// OutdentItem lifts the item one level.
	OutdentItem
	// MergeWithPrevious joins the item into its previous sibling.
	MergeWithPrevious
	// LeaveList moves the item's first textblock out of a top-level list,
	// joining it into a preceding textblock when there is one.
	LeaveList
)

func (a Action) String() string {
	switch a {
	case NoOp:
		return "NoOp"
	case SplitItem:
		return "SplitItem"
	case OutdentItem:
		return "OutdentItem"
	case MergeWithPrevious:
		return "MergeWithPrevious"
	case LeaveList:
		return "LeaveList"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

// DecisionTable maps every predicate combination to an action.
type DecisionTable map[Predicates]Action

// Decide returns the action for p. Missing rows decide NoOp.
func (t DecisionTable) Decide(p Predicates) Action {
	return t[p]
}

// EnterTable decides what Enter does inside a list item.
//
//	Collapsed, AtBoundary, ItemEmpty, Nested, HasSibling
var EnterTable = DecisionTable{
	{true, true, true, true, true}:      OutdentItem,
	{true, true, true, true, false}:     OutdentItem,
	{true, true, true, false, true}:     OutdentItem,
	{true, true, true, false, false}:    OutdentItem,
	{true, true, false, true, true}:     SplitItem,
	{true, true, false, true, false}:    SplitItem,
	{true, true, false, false, true}:    SplitItem,
	{true, true, false, false, false}:   SplitItem,
	{true, false, true, true, true}:     OutdentItem,
	{true, false, true, true, false}:    OutdentItem,
	{true, false, true, false, true}:    OutdentItem,
	{true, false, true, false, false}:   OutdentItem,
	{true, false, false, true, true}:    SplitItem,
	{true, false, false, true, false}:   SplitItem,
	{true, false, false, false, true}:   SplitItem,
	{true, false, false, false, false}:  SplitItem,
	{false, true, true, true, true}:     NoOp,
	{false, true, true, true, false}:    NoOp,
	{false, true, true, false, true}:    NoOp,
	{false, true, true, false, false}:   NoOp,
	{false, true, false, true, true}:    SplitItem,
	{false, true, false, true, false}:   SplitItem,
	{false, true, false, false, true}:   SplitItem,
	{false, true, false, false, false}:  SplitItem,
	{false, false, true, true, true}:    NoOp,
	{false, false, true, true, false}:   NoOp,
	{false, false, true, false, true}:   NoOp,
	{false, false, true, false, false}:  NoOp,
	{false, false, false, true, true}:   SplitItem,
	{false, false, false, true, false}:  SplitItem,
	{false, false, false, false, true}:  SplitItem,
	{false, false, false, false, false}: SplitItem,
}

// BackspaceTable decides what Backspace does inside a list item.
//
//	Collapsed, AtBoundary, ItemEmpty, Nested, HasSibling
var BackspaceTable = DecisionTable{
	{true, true, true, true, true}:      MergeWithPrevious,
	{true, true, true, true, false}:     OutdentItem,
	{true, true, true, false, true}:     MergeWithPrevious,
	{true, true, true, false, false}:    LeaveList,
	{true, true, false, true, true}:     MergeWithPrevious,
	{true, true, false, true, false}:    OutdentItem,
	{true, true, false, false, true}:    MergeWithPrevious,
	{true, true, false, false, false}:   LeaveList,
	{true, false, true, true, true}:     NoOp,
	{true, false, true, true, false}:    NoOp,
	{true, false, true, false, true}:    NoOp,
	{true, false, true, false, false}:   NoOp,
	{true, false, false, true, true}:    NoOp,
	{true, false, false, true, false}:   NoOp,
	{true, false, false, false, true}:   NoOp,
	{true, false, false, false, false}:  NoOp,
	{false, true, true, true, true}:     NoOp,
	{false, true, true, true, false}:    NoOp,
	{false, true, true, false, true}:    NoOp,
	{false, true, true, false, false}:   NoOp,
	{false, true, false, true, true}:    NoOp,
	{false, true, false, true, false}:   NoOp,
	{false, true, false, false, true}:   NoOp,
	{false, true, false, false, false}:  NoOp,
	{false, false, true, true, true}:    NoOp,
	{false, false, true, true, false}:   NoOp,
	{false, false, true, false, true}:   NoOp,
	{false, false, true, false, false}:  NoOp,
	{false, false, false, true, true}:   NoOp,
	{false, false, false, true, false}:  NoOp,
	{false, false, false, false, true}:  NoOp,
	{false, false, false, false, false}: NoOp,
}

// EnterPredicates evaluates the Enter predicates for state. It reports
// false when the selection is not inside a single textblock of a list item.
func EnterPredicates(state State, roles *Roles) (Predicates, bool) {
	p, _, reason := roles.enterContext(state.Doc, state.Selection.From(), state.Selection.To())
	return p, reason == ReasonNone
}

// BackspacePredicates evaluates the Backspace predicates for state. It
// reports false when the selection is not inside a list item textblock.
func BackspacePredicates(state State, roles *Roles) (Predicates, bool) {
	p, _, reason := roles.backspaceContext(state.Doc, state.Selection.From(), state.Selection.To())
	return p, reason == ReasonNone
}

func (r *Roles) enterContext(doc *model.Node, from, to int) (Predicates, itemContext, Reason) {
	rpFrom, err := doc.Resolve(from)
	if err != nil {
		return Predicates{}, itemContext{}, ReasonNotInList
	}
	rpTo, err := doc.Resolve(to)
	if err != nil {
		return Predicates{}, itemContext{}, ReasonNotInList
	}
	ic, ok := r.itemAt(rpFrom)
	if !ok {
		return Predicates{}, itemContext{}, ReasonNotInList
	}
	if rpTo.Depth != rpFrom.Depth || rpTo.Start(rpTo.Depth) != rpFrom.Start(rpFrom.Depth) {
		return Predicates{}, itemContext{}, ReasonSelectionSpansBlocks
	}
	return Predicates{
		Collapsed:  from == to,
		AtBoundary: IsAtEndOfTextblock(rpTo),
		ItemEmpty:  IsEmptyItem(ic.item),
		Nested:     ic.nested(r),
		HasSibling: ic.itemIndex+1 < ic.list.ChildCount(),
	}, ic, ReasonNone
}

func (r *Roles) backspaceContext(doc *model.Node, from, to int) (Predicates, itemContext, Reason) {
	rpFrom, err := doc.Resolve(from)
	if err != nil {
		return Predicates{}, itemContext{}, ReasonNotInList
	}
	ic, ok := r.itemAt(rpFrom)
	if !ok {
		return Predicates{}, itemContext{}, ReasonNotInList
	}
	return Predicates{
		Collapsed:  from == to,
		AtBoundary: ic.blockIndex == 0 && rpFrom.ParentOffset == 0,
		ItemEmpty:  IsEmptyItem(ic.item),
		Nested:     ic.nested(r),
		HasSibling: ic.itemIndex > 0,
	}, ic, ReasonNone
}
