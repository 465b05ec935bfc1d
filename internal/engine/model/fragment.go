package model

import "strings"

// Fragment is an immutable sequence of sibling nodes.
type Fragment struct {
	nodes []*Node
	size  int
}

// NewFragment builds a fragment. Nil nodes are skipped and adjacent text
// nodes with the same marks are joined.
func NewFragment(nodes ...*Node) Fragment {
	var out []*Node
	size := 0
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if last := len(out) - 1; last >= 0 && n.IsText() && out[last].IsText() && SameMarkSet(n.marks, out[last].marks) {
			prev := out[last]
			out[last] = &Node{typ: prev.typ, text: prev.text + n.text, marks: prev.marks, size: prev.size + n.size}
		} else {
			out = append(out, n)
		}
		size += n.size
	}
	return Fragment{nodes: out, size: size}
}

// Size returns the total size of the fragment's nodes.
func (f Fragment) Size() int {
	return f.size
}

// ChildCount returns the number of nodes.
func (f Fragment) ChildCount() int {
	return len(f.nodes)
}

// Child returns the node at index i.
func (f Fragment) Child(i int) *Node {
	return f.nodes[i]
}

// FirstChild returns the first node or nil.
func (f Fragment) FirstChild() *Node {
	if len(f.nodes) == 0 {
		return nil
	}
	return f.nodes[0]
}

// LastChild returns the last node or nil.
func (f Fragment) LastChild() *Node {
	if len(f.nodes) == 0 {
		return nil
	}
	return f.nodes[len(f.nodes)-1]
}

// Nodes returns a copy of the fragment's node slice.
func (f Fragment) Nodes() []*Node {
	out := make([]*Node, len(f.nodes))
	copy(out, f.nodes)
	return out
}

// OffsetOf returns the offset of the child at index i.
func (f Fragment) OffsetOf(i int) int {
	offset := 0
	for j := 0; j < i && j < len(f.nodes); j++ {
		offset += f.nodes[j].size
	}
	return offset
}

// FindIndex returns the index of the child containing pos and the offset at
// which that child starts. A pos on a boundary yields the child after it.
func (f Fragment) FindIndex(pos int) (index, offset int) {
	if pos <= 0 {
		return 0, 0
	}
	if pos >= f.size {
		return len(f.nodes), f.size
	}
	cur := 0
	for i, child := range f.nodes {
		end := cur + child.size
		if end > pos {
			return i, cur
		}
		cur = end
	}
	return len(f.nodes), f.size
}

// Append returns the concatenation of two fragments.
func (f Fragment) Append(other Fragment) Fragment {
	if len(other.nodes) == 0 {
		return f
	}
	if len(f.nodes) == 0 {
		return other
	}
	nodes := make([]*Node, 0, len(f.nodes)+len(other.nodes))
	nodes = append(nodes, f.nodes...)
	nodes = append(nodes, other.nodes...)
	return NewFragment(nodes...)
}

// Cut returns the part of the fragment between two offsets. Nodes that are
// partially covered are cut as well.
func (f Fragment) Cut(from, to int) Fragment {
	if from <= 0 && to >= f.size {
		return f
	}
	var out []*Node
	pos := 0
	for _, child := range f.nodes {
		if pos >= to {
			break
		}
		end := pos + child.size
		if end > from {
			switch {
			case child.IsText():
				child = child.cutText(from-pos, to-pos)
			case pos < from || end > to:
				child = child.Copy(child.content.Cut(max(0, from-pos-1), min(child.content.size, to-pos-1)))
			}
			out = append(out, child)
		}
		pos = end
	}
	return NewFragment(out...)
}

// Splice replaces the children in [start, end) with nodes.
func (f Fragment) Splice(start, end int, nodes ...*Node) Fragment {
	out := make([]*Node, 0, len(f.nodes)-(end-start)+len(nodes))
	out = append(out, f.nodes[:start]...)
	out = append(out, nodes...)
	out = append(out, f.nodes[end:]...)
	return NewFragment(out...)
}

// ReplaceChild returns a fragment with the child at index i replaced.
func (f Fragment) ReplaceChild(i int, node *Node) Fragment {
	if f.nodes[i] == node {
		return f
	}
	return f.Splice(i, i+1, node)
}

// AddToEnd returns the fragment with nodes appended.
func (f Fragment) AddToEnd(nodes ...*Node) Fragment {
	return f.Splice(len(f.nodes), len(f.nodes), nodes...)
}

// Eq reports structural equality.
func (f Fragment) Eq(other Fragment) bool {
	if len(f.nodes) != len(other.nodes) {
		return false
	}
	for i := range f.nodes {
		if !f.nodes[i].Eq(other.nodes[i]) {
			return false
		}
	}
	return true
}

// ForEach calls fn for every child with its offset and index.
func (f Fragment) ForEach(fn func(node *Node, offset, index int)) {
	offset := 0
	for i, child := range f.nodes {
		fn(child, offset, i)
		offset += child.size
	}
}

// TextContent concatenates the text of all text nodes in the fragment.
func (f Fragment) TextContent() string {
	var b strings.Builder
	for _, child := range f.nodes {
		b.WriteString(child.TextContent())
	}
	return b.String()
}

func (f Fragment) nodesBetween(from, to int, fn func(*Node, int, *Node, int) bool, nodeStart int, parent *Node) {
	pos := 0
	for i, child := range f.nodes {
		if pos >= to {
			break
		}
		end := pos + child.size
		if end > from && fn(child, nodeStart+pos, parent, i) && child.content.size > 0 {
			start := pos + 1
			child.content.nodesBetween(max(0, from-start), min(child.content.size, to-start), fn, nodeStart+start, child)
		}
		pos = end
	}
}

func (f Fragment) String() string {
	var b strings.Builder
	f.writeString(&b)
	return "<" + b.String() + ">"
}

func (f Fragment) writeString(b *strings.Builder) {
	for i, child := range f.nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		child.writeString(b)
	}
}
