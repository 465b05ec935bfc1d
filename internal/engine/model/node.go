package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Node is an immutable document node.
type Node struct {
	typ     *NodeType
	attrs   Attrs
	content Fragment
	text    string
	marks   []Mark
	size    int
}

func newNode(t *NodeType, attrs Attrs, content Fragment) *Node {
	n := &Node{typ: t, attrs: attrs, content: content}
	switch {
	case t.IsLeaf():
		n.size = 1
	default:
		n.size = content.size + 2
	}
	return n
}

// Type returns the node's type.
func (n *Node) Type() *NodeType {
	return n.typ
}

// Attr returns a single attribute value, nil when unset.
func (n *Node) Attr(key string) any {
	return n.attrs[key]
}

// Attrs returns a copy of the node's attributes.
func (n *Node) Attrs() Attrs {
	return n.attrs.Clone()
}

// Content returns the node's children.
func (n *Node) Content() Fragment {
	return n.content
}

// Text returns the text of a text node.
func (n *Node) Text() string {
	return n.text
}

// Marks returns a copy of the marks of a text or inline node.
func (n *Node) Marks() []Mark {
	if len(n.marks) == 0 {
		return nil
	}
	out := make([]Mark, len(n.marks))
	copy(out, n.marks)
	return out
}

// Size returns the number of position tokens the node occupies.
func (n *Node) Size() int {
	return n.size
}

// ContentSize returns the size of the node's content.
func (n *Node) ContentSize() int {
	if n.IsText() {
		return n.size
	}
	return n.content.size
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.content.nodes)
}

// Child returns the child at index i.
func (n *Node) Child(i int) *Node {
	return n.content.nodes[i]
}

// MaybeChild returns the child at index i or nil when out of bounds.
func (n *Node) MaybeChild(i int) *Node {
	if i < 0 || i >= len(n.content.nodes) {
		return nil
	}
	return n.content.nodes[i]
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	return n.content.FirstChild()
}

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node {
	return n.content.LastChild()
}

// Children returns a copy of the node's child slice.
func (n *Node) Children() []*Node {
	return n.content.Nodes()
}

// IsText reports whether this is a text node.
func (n *Node) IsText() bool { return n.typ.IsText() }

// IsInline reports whether this is an inline node.
func (n *Node) IsInline() bool { return n.typ.IsInline() }

// IsBlock reports whether this is a block node.
func (n *Node) IsBlock() bool { return n.typ.IsBlock() }

// IsTextblock reports whether this is a block with inline content.
func (n *Node) IsTextblock() bool { return n.typ.IsTextblock() }

// IsLeaf reports whether the node's type allows no content.
func (n *Node) IsLeaf() bool { return n.typ.IsLeaf() }

// TextContent concatenates the text of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.text
	}
	return n.content.TextContent()
}

// Copy returns a node of the same type, attributes and marks with new content.
func (n *Node) Copy(content Fragment) *Node {
	if n.IsText() {
		return n
	}
	c := newNode(n.typ, n.attrs, content)
	c.marks = n.marks
	return c
}

// CopyNodes is Copy with a slice of children.
func (n *Node) CopyNodes(children ...*Node) *Node {
	return n.Copy(NewFragment(children...))
}

// WithAttrs returns a copy of the node with its attributes replaced. The
// attributes are recomputed against the type, so unknown keys are dropped.
func (n *Node) WithAttrs(attrs Attrs) *Node {
	computed, _ := computeAttrs(n.typ.attrs, attrs, false)
	c := *n
	c.attrs = computed
	return &c
}

// WithAttr returns a copy of the node with one attribute changed. The node
// itself is returned when the value is already equal.
func (n *Node) WithAttr(key string, value any) *Node {
	if cur, ok := n.attrs[key]; ok && attrValueEq(cur, value) {
		return n
	}
	attrs := n.attrs.Clone()
	if attrs == nil {
		attrs = Attrs{}
	}
	attrs[key] = value
	return n.WithAttrs(attrs)
}

// WithType returns a node of another type carrying this node's content.
// Attributes shared by both types are kept.
func (n *Node) WithType(t *NodeType, attrs Attrs) *Node {
	merged := Attrs{}
	for k, v := range n.attrs {
		if t.HasAttr(k) {
			merged[k] = v
		}
	}
	for k, v := range attrs {
		merged[k] = v
	}
	computed, _ := computeAttrs(t.attrs, merged, false)
	return newNode(t, computed, n.content)
}

// Cut returns the part of a text node or the content of a node between two
// content offsets.
func (n *Node) Cut(from, to int) *Node {
	if n.IsText() {
		return n.cutText(from, to)
	}
	if from == 0 && to == n.content.size {
		return n
	}
	return n.Copy(n.content.Cut(from, to))
}

func (n *Node) cutText(from, to int) *Node {
	if from <= 0 && to >= n.size {
		return n
	}
	if from < 0 {
		from = 0
	}
	if to > n.size {
		to = n.size
	}
	if from >= to {
		return nil
	}
	runes := []rune(n.text)
	text := string(runes[from:to])
	return &Node{typ: n.typ, text: text, marks: n.marks, size: utf8.RuneCountInString(text)}
}

// Eq reports structural equality.
func (n *Node) Eq(other *Node) bool {
	if n == other {
		return true
	}
	if n == nil || other == nil {
		return false
	}
	return n.typ == other.typ &&
		n.text == other.text &&
		n.attrs.Eq(other.attrs) &&
		SameMarkSet(n.marks, other.marks) &&
		n.content.Eq(other.content)
}

// Check validates the node's content against its type, recursively.
func (n *Node) Check() error {
	if n.IsText() {
		return nil
	}
	if !n.typ.ValidContent(n.content) {
		return fmt.Errorf("%w: invalid content for %s: %s", ErrSchemaViolation, n.typ.Name, n.content)
	}
	for _, child := range n.content.nodes {
		if len(child.marks) > 0 && !n.typ.marks {
			return fmt.Errorf("%w: marks not allowed in %s", ErrSchemaViolation, n.typ.Name)
		}
		if err := child.Check(); err != nil {
			return err
		}
	}
	return nil
}

// NodeAt returns the node starting at pos, or the text node containing it.
func (n *Node) NodeAt(pos int) *Node {
	node := n
	for {
		index, offset := node.content.FindIndex(pos)
		child := node.MaybeChild(index)
		if child == nil {
			return nil
		}
		if offset == pos || child.IsText() {
			return child
		}
		pos -= offset + 1
		node = child
	}
}

// NodesBetween calls fn for every descendant overlapping [from, to]. pos is
// the position before the node. Returning false skips the node's children.
func (n *Node) NodesBetween(from, to int, fn func(node *Node, pos int, parent *Node, index int) bool) {
	n.content.nodesBetween(from, to, fn, 0, n)
}

// Descendants calls fn for every descendant of the node.
func (n *Node) Descendants(fn func(node *Node, pos int, parent *Node, index int) bool) {
	n.NodesBetween(0, n.content.size, fn)
}

// TextBetween returns the text between two positions, with blockSep written
// between the text of consecutive textblocks.
func (n *Node) TextBetween(from, to int, blockSep string) string {
	var b strings.Builder
	first := true
	n.NodesBetween(from, to, func(node *Node, pos int, _ *Node, _ int) bool {
		switch {
		case node.IsText():
			start := max(from, pos) - pos
			end := min(to, pos+node.size) - pos
			if cut := node.cutText(start, end); cut != nil {
				b.WriteString(cut.text)
			}
		case node.IsTextblock():
			if !first {
				b.WriteString(blockSep)
			}
			first = false
		}
		return true
	})
	return b.String()
}

// String renders the node for debugging and test comparison, for example
// bullet_list(list_item(paragraph("one"))). Attributes are shown only when
// they differ from the type's defaults.
func (n *Node) String() string {
	var b strings.Builder
	n.writeString(&b)
	return b.String()
}

func (n *Node) writeString(b *strings.Builder) {
	if n.IsText() {
		text := strconv.Quote(n.text)
		if len(n.marks) > 0 {
			b.WriteString(formatMarks(n.marks))
			b.WriteString("(")
			b.WriteString(text)
			b.WriteString(")")
			return
		}
		b.WriteString(text)
		return
	}
	b.WriteString(n.typ.Name)
	changed := Attrs{}
	for k, v := range n.attrs {
		if !attrValueEq(v, n.typ.attrs[k].Default) {
			changed[k] = v
		}
	}
	if len(changed) > 0 {
		b.WriteString(changed.String())
	}
	if n.IsLeaf() {
		return
	}
	b.WriteString("(")
	n.content.writeString(b)
	b.WriteString(")")
}
