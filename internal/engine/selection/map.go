package selection

import "github.com/dshills/richlist/internal/engine/model"

// Mapper maps a position in an old document to the corresponding position
// in a new one. assoc < 0 keeps a position at an insertion point before the
// inserted content; assoc > 0 moves it after.
type Mapper interface {
	Map(pos, assoc int) int
}

// Map carries sel over an edit described by m into doc, the edited document.
//
// Transformation rules:
//   - Text selections map anchor and head independently, so direction is kept
//   - Node selections survive only if the node at the mapped position is the
//     node that was selected (by identity or structure); otherwise they
//     collapse to a cursor at the mapped position
func Map(sel Selection, doc *model.Node, m Mapper) Selection {
	switch s := sel.(type) {
	case NodeSelection:
		pos := clamp(m.Map(s.pos, 1), doc)
		if node := doc.NodeAt(pos); node != nil && (node == s.node || node.Eq(s.node)) {
			return NodeSelection{pos: pos, node: node}
		}
		return Cursor(pos)
	default:
		if sel.Empty() {
			return Cursor(clamp(m.Map(sel.Head(), 1), doc))
		}
		anchor := clamp(m.Map(sel.Anchor(), assocFor(sel, true)), doc)
		head := clamp(m.Map(sel.Head(), assocFor(sel, false)), doc)
		return NewTextSelection(anchor, head)
	}
}

// assocFor moves the lower bound past content inserted at it and keeps the
// upper bound before such content, so insertions at an edge stay outside.
func assocFor(sel Selection, anchor bool) int {
	forward := sel.Head() >= sel.Anchor()
	if anchor == forward {
		return 1
	}
	return -1
}

func clamp(pos int, doc *model.Node) int {
	if pos < 0 {
		return 0
	}
	if size := doc.ContentSize(); pos > size {
		return size
	}
	return pos
}
