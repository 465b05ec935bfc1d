package selection

import (
	"fmt"

	"github.com/dshills/richlist/internal/engine/model"
)

// Selection is either a TextSelection or a NodeSelection.
type Selection interface {
	// Anchor is the fixed side of the selection.
	Anchor() int
	// Head is the moving side of the selection.
	Head() int
	// From returns the lower bound.
	From() int
	// To returns the upper bound.
	To() int
	// Empty reports whether the selection covers nothing.
	Empty() bool
	// Eq reports whether two selections are identical.
	Eq(other Selection) bool
	String() string
}

// TextSelection is a range between two positions inside textblocks.
// TextSelection is an immutable value type.
type TextSelection struct {
	anchor int
	head   int
}

// NewTextSelection creates a selection from anchor to head.
func NewTextSelection(anchor, head int) TextSelection {
	return TextSelection{anchor: anchor, head: head}
}

// Cursor creates a collapsed selection at pos.
func Cursor(pos int) TextSelection {
	return TextSelection{anchor: pos, head: pos}
}

// Anchor returns where the selection started.
func (s TextSelection) Anchor() int { return s.anchor }

// Head returns the moving end of the selection.
func (s TextSelection) Head() int { return s.head }

// From returns the lower bound of the selection.
func (s TextSelection) From() int {
	if s.anchor <= s.head {
		return s.anchor
	}
	return s.head
}

// To returns the upper bound of the selection.
func (s TextSelection) To() int {
	if s.anchor >= s.head {
		return s.anchor
	}
	return s.head
}

// Empty returns true if the selection is a collapsed cursor.
func (s TextSelection) Empty() bool {
	return s.anchor == s.head
}

// IsForward returns true if the selection extends forward (head >= anchor).
func (s TextSelection) IsForward() bool {
	return s.head >= s.anchor
}

// Flip returns a selection with anchor and head swapped.
func (s TextSelection) Flip() TextSelection {
	return TextSelection{anchor: s.head, head: s.anchor}
}

// Collapse collapses the selection to a cursor at the head.
func (s TextSelection) Collapse() TextSelection {
	return Cursor(s.head)
}

// Contains returns true if pos is within [From, To].
func (s TextSelection) Contains(pos int) bool {
	return pos >= s.From() && pos <= s.To()
}

// Eq reports whether other is a text selection with the same anchor and head.
func (s TextSelection) Eq(other Selection) bool {
	o, ok := other.(TextSelection)
	return ok && o.anchor == s.anchor && o.head == s.head
}

// String returns a string representation of the selection.
func (s TextSelection) String() string {
	if s.Empty() {
		return fmt.Sprintf("Cursor(%d)", s.head)
	}
	dir := "→"
	if !s.IsForward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.anchor, dir, s.head)
}

// NodeSelection selects exactly the node after Pos.
type NodeSelection struct {
	pos  int
	node *model.Node
}

// NewNodeSelection selects the node starting at pos in doc.
func NewNodeSelection(doc *model.Node, pos int) (NodeSelection, error) {
	rp, err := doc.Resolve(pos)
	if err != nil {
		return NodeSelection{}, err
	}
	node := rp.NodeAfter()
	if node == nil {
		return NodeSelection{}, fmt.Errorf("%w: %d", ErrNoNode, pos)
	}
	if node.IsText() {
		return NodeSelection{}, fmt.Errorf("%w: %d", ErrTextNode, pos)
	}
	return NodeSelection{pos: pos, node: node}, nil
}

// Node returns the selected node.
func (s NodeSelection) Node() *model.Node { return s.node }

// Anchor returns the position before the node.
func (s NodeSelection) Anchor() int { return s.pos }

// Head returns the position after the node.
func (s NodeSelection) Head() int { return s.pos + s.node.Size() }

// From returns the position before the node.
func (s NodeSelection) From() int { return s.pos }

// To returns the position after the node.
func (s NodeSelection) To() int { return s.pos + s.node.Size() }

// Empty always returns false; a node selection covers its node.
func (s NodeSelection) Empty() bool { return false }

// Eq reports whether other selects the same node at the same position.
func (s NodeSelection) Eq(other Selection) bool {
	o, ok := other.(NodeSelection)
	return ok && o.pos == s.pos && o.node.Eq(s.node)
}

// String returns a string representation of the selection.
func (s NodeSelection) String() string {
	return fmt.Sprintf("Node(%d %s)", s.pos, s.node.Type().Name)
}

// Validate checks that every position of sel lies inside doc.
func Validate(sel Selection, doc *model.Node) error {
	for _, pos := range []int{sel.Anchor(), sel.Head()} {
		if _, err := doc.Resolve(pos); err != nil {
			return err
		}
	}
	if ns, ok := sel.(NodeSelection); ok {
		if doc.NodeAt(ns.pos) == nil {
			return fmt.Errorf("%w: %d", ErrNoNode, ns.pos)
		}
	}
	return nil
}
