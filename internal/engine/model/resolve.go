package model

import "fmt"

type resolvedLevel struct {
	node  *Node
	index int
	start int
}

// ResolvedPos is a position together with the chain of nodes around it.
// Depth 0 is the document; Depth is the innermost node whose content
// contains the position.
type ResolvedPos struct {
	Pos          int
	Depth        int
	ParentOffset int

	levels     []resolvedLevel
	textOffset int
}

// Resolve resolves a position in the document.
func (n *Node) Resolve(pos int) (*ResolvedPos, error) {
	if pos < 0 || pos > n.content.size {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, pos, n.content.size)
	}
	rp := &ResolvedPos{Pos: pos}
	start := 0
	parentOffset := pos
	node := n
	for {
		index, offset := node.content.FindIndex(parentOffset)
		rem := parentOffset - offset
		rp.levels = append(rp.levels, resolvedLevel{node: node, index: index, start: start})
		if rem == 0 {
			break
		}
		child := node.Child(index)
		if child.IsText() {
			rp.textOffset = rem
			break
		}
		parentOffset = rem - 1
		start += offset + 1
		node = child
	}
	rp.Depth = len(rp.levels) - 1
	rp.ParentOffset = pos - rp.levels[rp.Depth].start
	return rp, nil
}

// MustResolve is Resolve for positions known to be valid. It panics otherwise.
func (n *Node) MustResolve(pos int) *ResolvedPos {
	rp, err := n.Resolve(pos)
	if err != nil {
		panic(err)
	}
	return rp
}

func (rp *ResolvedPos) depth(d int) int {
	if d < 0 {
		return rp.Depth + d
	}
	return d
}

// Node returns the ancestor at depth d. Negative values count up from the
// innermost node.
func (rp *ResolvedPos) Node(d int) *Node {
	return rp.levels[rp.depth(d)].node
}

// Index returns the index into the ancestor at depth d.
func (rp *ResolvedPos) Index(d int) int {
	return rp.levels[rp.depth(d)].index
}

// IndexAfter returns the index pointing after this position in the ancestor
// at depth d.
func (rp *ResolvedPos) IndexAfter(d int) int {
	d = rp.depth(d)
	if d == rp.Depth && rp.textOffset == 0 {
		return rp.levels[d].index
	}
	return rp.levels[d].index + 1
}

// Start returns the position at the start of the content of the ancestor at
// depth d.
func (rp *ResolvedPos) Start(d int) int {
	return rp.levels[rp.depth(d)].start
}

// End returns the position at the end of the content of the ancestor at
// depth d.
func (rp *ResolvedPos) End(d int) int {
	d = rp.depth(d)
	return rp.levels[d].start + rp.levels[d].node.content.size
}

// Before returns the position before the ancestor at depth d (d >= 1).
func (rp *ResolvedPos) Before(d int) int {
	return rp.Start(d) - 1
}

// After returns the position after the ancestor at depth d (d >= 1).
func (rp *ResolvedPos) After(d int) int {
	return rp.End(d) + 1
}

// Parent returns the innermost ancestor.
func (rp *ResolvedPos) Parent() *Node {
	return rp.levels[rp.Depth].node
}

// Doc returns the root node.
func (rp *ResolvedPos) Doc() *Node {
	return rp.levels[0].node
}

// TextOffset returns the offset into the text node at the position, or 0
// when the position is on a node boundary.
func (rp *ResolvedPos) TextOffset() int {
	return rp.textOffset
}

// NodeAfter returns the node directly after the position, or nil.
func (rp *ResolvedPos) NodeAfter() *Node {
	parent := rp.Parent()
	index := rp.Index(rp.Depth)
	if index >= parent.ChildCount() {
		return nil
	}
	child := parent.Child(index)
	if rp.textOffset > 0 {
		return child.cutText(rp.textOffset, child.size)
	}
	return child
}

// NodeBefore returns the node directly before the position, or nil.
func (rp *ResolvedPos) NodeBefore() *Node {
	parent := rp.Parent()
	index := rp.Index(rp.Depth)
	if rp.textOffset > 0 {
		return parent.Child(index).cutText(0, rp.textOffset)
	}
	if index == 0 {
		return nil
	}
	return parent.Child(index - 1)
}

// PosAtIndex returns the position of the child at index in the ancestor at
// depth d.
func (rp *ResolvedPos) PosAtIndex(index, d int) int {
	d = rp.depth(d)
	return rp.levels[d].start + rp.levels[d].node.content.OffsetOf(index)
}

// SharedDepth returns the depth of the deepest ancestor whose content also
// contains pos.
func (rp *ResolvedPos) SharedDepth(pos int) int {
	for d := rp.Depth; d > 0; d-- {
		if rp.Start(d) <= pos && rp.End(d) >= pos {
			return d
		}
	}
	return 0
}

// BlockRange returns the range of sibling blocks around this position and
// other, at the deepest depth whose node satisfies pred (nil accepts any).
func (rp *ResolvedPos) BlockRange(other *ResolvedPos, pred func(*Node) bool) (NodeRange, bool) {
	if other.Pos < rp.Pos {
		return other.BlockRange(rp, pred)
	}
	d := rp.Depth
	if rp.Parent().IsTextblock() || rp.Pos == other.Pos {
		d--
	}
	for ; d >= 0; d-- {
		if other.Pos <= rp.End(d) && (pred == nil || pred(rp.Node(d))) {
			return NodeRange{From: rp, To: other, Depth: d}, true
		}
	}
	return NodeRange{}, false
}

func (rp *ResolvedPos) String() string {
	s := ""
	for d := 1; d <= rp.Depth; d++ {
		if s != "" {
			s += "/"
		}
		s += fmt.Sprintf("%s_%d", rp.Node(d).typ.Name, rp.Index(d-1))
	}
	return fmt.Sprintf("%s:%d", s, rp.ParentOffset)
}

// NodeRange is a flat range of siblings inside one parent.
type NodeRange struct {
	From  *ResolvedPos
	To    *ResolvedPos
	Depth int
}

// Parent returns the node holding the range.
func (r NodeRange) Parent() *Node {
	return r.From.Node(r.Depth)
}

// StartIndex returns the index of the first node in the range.
func (r NodeRange) StartIndex() int {
	return r.From.Index(r.Depth)
}

// EndIndex returns the index after the last node in the range.
func (r NodeRange) EndIndex() int {
	return r.To.IndexAfter(r.Depth)
}

// Start returns the position before the first node in the range.
func (r NodeRange) Start() int {
	return r.From.PosAtIndex(r.StartIndex(), r.Depth)
}

// End returns the position after the last node in the range.
func (r NodeRange) End() int {
	return r.From.PosAtIndex(r.EndIndex(), r.Depth)
}
