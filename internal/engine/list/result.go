package list

import (
	"fmt"

	"github.com/dshills/richlist/internal/engine/model"
	"github.com/dshills/richlist/internal/engine/selection"
	"github.com/dshills/richlist/internal/engine/transform"
)

// State is the input of every transform: a document and a selection in it.
type State struct {
	Doc       *model.Node
	Selection selection.Selection
}

// Validate checks that the selection lies inside the document.
func (s State) Validate() error {
	if s.Selection == nil {
		return ErrNoSelection
	}
	return selection.Validate(s.Selection, s.Doc)
}

// Transform is the signature shared by all list transforms.
type Transform func(state State, roles *Roles) (Result, error)

// Reason explains why a transform did not apply.
type Reason string

// Reasons reported by NotApplicable results.
const (
	ReasonNone                 Reason = ""
	ReasonNotInList            Reason = "selection is not inside a list item"
	ReasonNotAtStart           Reason = "cursor is not at the start of a list item"
	ReasonRangeSelection       Reason = "selection is not collapsed"
	ReasonSelectionSpansBlocks Reason = "selection spans several textblocks"
	ReasonNoPreviousSibling    Reason = "item has no previous sibling"
	ReasonMaxDepthExceeded     Reason = "maximum list depth exceeded"
	ReasonNoTextblock          Reason = "selection covers no textblock"
	ReasonNoMergeTarget        Reason = "no textblock to merge into"
	ReasonNotTodo              Reason = "item is not a todo item"
	ReasonNoPrecedingList      Reason = "textblock does not follow a list"
	ReasonUnchanged            Reason = "transform changed nothing"
)

// Result is the outcome of a transform: either Applied with a transaction
// holding the new document and selection, or NotApplicable with a reason.
type Result struct {
	tr     *transform.Transaction
	reason Reason
}

// Applied wraps a committed transaction.
func Applied(tr *transform.Transaction) Result {
	return Result{tr: tr}
}

// NotApplicable returns a result for a transform that did not apply.
func NotApplicable(reason Reason) Result {
	return Result{reason: reason}
}

// Applied reports whether the transform applied.
func (r Result) Applied() bool {
	return r.tr != nil
}

// Reason returns why the transform did not apply.
func (r Result) Reason() Reason {
	return r.reason
}

// Transaction returns the transaction of an applied result, or nil.
func (r Result) Transaction() *transform.Transaction {
	return r.tr
}

// Doc returns the new document of an applied result, or nil.
func (r Result) Doc() *model.Node {
	if r.tr == nil {
		return nil
	}
	return r.tr.Doc()
}

// Selection returns the new selection of an applied result, or nil.
func (r Result) Selection() selection.Selection {
	if r.tr == nil {
		return nil
	}
	return r.tr.Selection()
}

// State returns the state after an applied result.
func (r Result) State() State {
	return State{Doc: r.Doc(), Selection: r.Selection()}
}

func (r Result) String() string {
	if r.Applied() {
		return fmt.Sprintf("Applied(%d steps, %s)", len(r.tr.Steps()), r.Selection())
	}
	return fmt.Sprintf("NotApplicable(%s)", r.reason)
}
