package list

import (
	"github.com/dshills/richlist/internal/engine/model"
	"github.com/dshills/richlist/internal/engine/selection"
	"github.com/dshills/richlist/internal/engine/transform"
)

// pin anchors a selection endpoint to the textblock holding it, so the
// endpoint can be found again after the tree around it was rebuilt.
type pin struct {
	block  *model.Node // nil when the position is not inside a textblock
	offset int
	pos    int // position in the starting document
}

func pinAt(doc *model.Node, pos int) pin {
	rp, err := doc.Resolve(pos)
	if err != nil {
		return pin{pos: pos}
	}
	if rp.Parent().IsTextblock() {
		return pin{block: rp.Parent(), offset: rp.ParentOffset, pos: pos}
	}
	return pin{pos: pos}
}

// edit is a transform in progress.
type edit struct {
	roles  *Roles
	tr     *transform.Transaction
	start  selection.Selection
	anchor *pin
	head   *pin
	pins   []*pin
}

func begin(state State, roles *Roles) (*edit, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	e := &edit{
		roles: roles,
		tr:    transform.New(state.Doc, state.Selection),
		start: state.Selection,
	}
	anchor, head := state.Selection.Anchor(), state.Selection.Head()
	if ns, ok := state.Selection.(selection.NodeSelection); ok {
		anchor, head = textRangeOfNode(ns.Node(), ns.From())
	}
	e.anchor = e.pin(anchor)
	e.head = e.pin(head)
	return e, nil
}

// textRangeOfNode returns the start of the first and the end of the last
// textblock inside node, which sits at pos.
func textRangeOfNode(node *model.Node, pos int) (int, int) {
	if node.IsTextblock() {
		return pos + 1, pos + 1 + node.ContentSize()
	}
	from, to := -1, -1
	node.Descendants(func(n *model.Node, p int, _ *model.Node, _ int) bool {
		if n.IsTextblock() {
			abs := pos + 1 + p
			if from < 0 {
				from = abs + 1
			}
			to = abs + 1 + n.ContentSize()
			return false
		}
		return true
	})
	if from < 0 {
		return pos, pos + node.Size()
	}
	return from, to
}

// pin registers a tracked position in the starting document.
func (e *edit) pin(pos int) *pin {
	p := pinAt(e.tr.Before(), pos)
	e.pins = append(e.pins, &p)
	return &p
}

// resolve finds a pinned position in the current document.
func (e *edit) resolve(p *pin) int {
	doc := e.tr.Doc()
	if p.block != nil {
		if pos, ok := transform.LocateText(doc, p.block, p.offset); ok {
			return pos
		}
	}
	pos := e.tr.Mapping().Map(p.pos, 1)
	return max(0, min(pos, doc.ContentSize()))
}

// relink moves pins from a textblock that was replaced to its replacement,
// shifting their offsets by shift.
func (e *edit) relink(old, replacement *model.Node, shift int) {
	for _, p := range e.pins {
		if p.block == old {
			p.block = replacement
			p.offset += shift
		}
	}
}

// selectionRange returns the current positions of the selection's ends in
// document order.
func (e *edit) selectionRange() (int, int) {
	a, h := e.resolve(e.anchor), e.resolve(e.head)
	if a > h {
		a, h = h, a
	}
	return a, h
}

// cursor places a collapsed selection in block at offset.
func (e *edit) cursor(block *model.Node, offset int) {
	if pos, ok := transform.LocateText(e.tr.Doc(), block, offset); ok {
		e.tr.SetSelection(selection.Cursor(pos))
	}
}

// finish turns the edit into a result, deriving the selection from the pins
// unless a transform set it explicitly.
func (e *edit) finish() Result {
	if !e.tr.DocChanged() || e.tr.Doc().Eq(e.tr.Before()) {
		return NotApplicable(ReasonUnchanged)
	}
	if !e.tr.SelectionSet() {
		e.tr.SetSelection(e.pinnedSelection())
	}
	return Applied(e.tr)
}

func (e *edit) pinnedSelection() selection.Selection {
	doc := e.tr.Doc()
	if ns, ok := e.start.(selection.NodeSelection); ok {
		if pos, found := transform.Locate(doc, ns.Node()); found {
			if sel, err := selection.NewNodeSelection(doc, pos); err == nil {
				return sel
			}
		}
		return selection.Cursor(e.resolve(e.anchor))
	}
	return selection.NewTextSelection(e.resolve(e.anchor), e.resolve(e.head))
}
