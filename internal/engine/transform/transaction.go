package transform

import (
	"github.com/dshills/richlist/internal/engine/model"
	"github.com/dshills/richlist/internal/engine/selection"
)

// Transaction accumulates steps applied to a document along with the
// selection that should follow them.
type Transaction struct {
	before   *model.Node
	doc      *model.Node
	steps    []Step
	mapping  Mapping
	startSel selection.Selection
	sel      selection.Selection
	meta     map[string]any
}

// New starts a transaction on doc with the current selection sel.
func New(doc *model.Node, sel selection.Selection) *Transaction {
	return &Transaction{before: doc, doc: doc, startSel: sel}
}

// Before returns the document the transaction started from.
func (tr *Transaction) Before() *model.Node { return tr.before }

// Doc returns the current document.
func (tr *Transaction) Doc() *model.Node { return tr.doc }

// Steps returns the applied steps.
func (tr *Transaction) Steps() []Step {
	out := make([]Step, len(tr.steps))
	copy(out, tr.steps)
	return out
}

// Mapping returns the mapping from the starting document to the current one.
func (tr *Transaction) Mapping() *Mapping { return &tr.mapping }

// DocChanged reports whether any step was applied.
func (tr *Transaction) DocChanged() bool { return len(tr.steps) > 0 }

// Step applies a step to the current document.
func (tr *Transaction) Step(step Step) error {
	doc, err := step.Apply(tr.doc)
	if err != nil {
		return err
	}
	tr.doc = doc
	tr.steps = append(tr.steps, step)
	tr.mapping.Append(step.Map())
	return nil
}

// Replace replaces the content between two positions of the same parent.
func (tr *Transaction) Replace(from, to int, nodes ...*model.Node) error {
	return tr.Step(NewReplaceStep(from, to, nodes...))
}

// ReplaceChildren replaces the children [start, end) of parent, whose
// content starts at position contentStart, with nodes.
func (tr *Transaction) ReplaceChildren(contentStart int, parent *model.Node, start, end int, nodes ...*model.Node) error {
	from := contentStart + parent.Content().OffsetOf(start)
	to := contentStart + parent.Content().OffsetOf(end)
	return tr.Replace(from, to, nodes...)
}

// SetSelection sets the selection explicitly.
func (tr *Transaction) SetSelection(sel selection.Selection) {
	tr.sel = sel
}

// SelectionSet reports whether a selection was set explicitly.
func (tr *Transaction) SelectionSet() bool {
	return tr.sel != nil
}

// Selection returns the explicit selection, or the starting selection
// mapped through the transaction.
func (tr *Transaction) Selection() selection.Selection {
	if tr.sel != nil {
		return tr.sel
	}
	if tr.startSel == nil {
		return selection.Cursor(0)
	}
	if !tr.DocChanged() {
		return tr.startSel
	}
	return selection.Map(tr.startSel, tr.doc, &tr.mapping)
}

// SetMeta attaches a value to the transaction.
func (tr *Transaction) SetMeta(key string, value any) {
	if tr.meta == nil {
		tr.meta = make(map[string]any)
	}
	tr.meta[key] = value
}

// Meta returns a value attached with SetMeta.
func (tr *Transaction) Meta(key string) any {
	return tr.meta[key]
}

// Well-known meta keys.
const (
	// MetaID holds the identifier a host assigns when it commits the transaction.
	MetaID = "id"
	// MetaOrigin holds the name of the transform that built the transaction.
	MetaOrigin = "origin"
)

// ID returns the MetaID value, or "" when none was assigned.
func (tr *Transaction) ID() string {
	id, _ := tr.Meta(MetaID).(string)
	return id
}
