package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NodeSpec describes a node type when building a Schema.
type NodeSpec struct {
	Name string

	// Content is the content expression, empty for leaf nodes.
	Content string

	// Group is a space separated list of groups the type belongs to.
	Group string

	// Inline marks the type as inline content.
	Inline bool

	// Marks is "_" to allow every mark in the content, "" to allow none.
	Marks string

	Attrs map[string]AttributeSpec
}

// MarkSpec describes a mark type when building a Schema.
type MarkSpec struct {
	Name  string
	Attrs map[string]AttributeSpec
}

// Schema owns the node and mark types of a document.
type Schema struct {
	nodes     map[string]*NodeType
	nodeOrder []*NodeType
	marks     map[string]*MarkType
	markOrder []*MarkType
	top       *NodeType
	text      *NodeType
}

// NewSchema builds a schema. The first node spec is the top node type and a
// spec named "text" is required.
func NewSchema(nodes []NodeSpec, marks []MarkSpec) (*Schema, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: schema has no node types", ErrUnknownType)
	}
	s := &Schema{
		nodes: make(map[string]*NodeType, len(nodes)),
		marks: make(map[string]*MarkType, len(marks)),
	}

	for _, spec := range nodes {
		if _, dup := s.nodes[spec.Name]; dup {
			return nil, fmt.Errorf("model: duplicate node type %q", spec.Name)
		}
		expr, err := parseContent(spec.Content)
		if err != nil {
			return nil, fmt.Errorf("node type %q: %w", spec.Name, err)
		}
		nt := &NodeType{
			Name:    spec.Name,
			Groups:  strings.Fields(spec.Group),
			schema:  s,
			content: expr,
			attrs:   spec.Attrs,
			inline:  spec.Inline || spec.Name == "text",
			marks:   spec.Marks == "_",
		}
		s.nodes[spec.Name] = nt
		s.nodeOrder = append(s.nodeOrder, nt)
	}

	for i, spec := range marks {
		if _, dup := s.marks[spec.Name]; dup {
			return nil, fmt.Errorf("model: duplicate mark type %q", spec.Name)
		}
		mt := &MarkType{Name: spec.Name, rank: i, attrs: spec.Attrs, schema: s}
		s.marks[spec.Name] = mt
		s.markOrder = append(s.markOrder, mt)
	}

	text, ok := s.nodes["text"]
	if !ok {
		return nil, fmt.Errorf("%w: schema needs a text type", ErrUnknownType)
	}
	s.text = text
	s.top = s.nodeOrder[0]

	// Resolve names referenced by content expressions and derive which
	// types hold inline content.
	for _, nt := range s.nodeOrder {
		for _, term := range nt.content.terms {
			for _, name := range term.names {
				if !s.knownName(name) {
					return nil, fmt.Errorf("%w: %q in content of %q", ErrUnknownType, name, nt.Name)
				}
			}
			for _, other := range s.nodeOrder {
				if other.inline && term.accepts(other) {
					nt.inlineContent = true
				}
			}
		}
	}
	return s, nil
}

func (s *Schema) knownName(name string) bool {
	if _, ok := s.nodes[name]; ok {
		return true
	}
	for _, nt := range s.nodeOrder {
		if nt.InGroup(name) {
			return true
		}
	}
	return false
}

// TopNodeType returns the type of the document root.
func (s *Schema) TopNodeType() *NodeType {
	return s.top
}

// Node returns the node type with the given name.
func (s *Schema) Node(name string) (*NodeType, bool) {
	nt, ok := s.nodes[name]
	return nt, ok
}

// NodeType returns the named node type or an ErrUnknownType error.
func (s *Schema) NodeType(name string) (*NodeType, error) {
	nt, ok := s.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: node %q", ErrUnknownType, name)
	}
	return nt, nil
}

// MarkType returns the named mark type or an ErrUnknownType error.
func (s *Schema) MarkType(name string) (*MarkType, error) {
	mt, ok := s.marks[name]
	if !ok {
		return nil, fmt.Errorf("%w: mark %q", ErrUnknownType, name)
	}
	return mt, nil
}

// NodeTypes returns the node types in declaration order.
func (s *Schema) NodeTypes() []*NodeType {
	out := make([]*NodeType, len(s.nodeOrder))
	copy(out, s.nodeOrder)
	return out
}

// Text creates a text node. It returns nil for an empty string, since empty
// text nodes are not allowed in a document.
func (s *Schema) Text(text string, marks ...Mark) *Node {
	if text == "" {
		return nil
	}
	return &Node{
		typ:   s.text,
		text:  text,
		marks: normalizeMarks(marks),
		size:  utf8.RuneCountInString(text),
	}
}

// NodeType describes a kind of node in a schema.
type NodeType struct {
	Name   string
	Groups []string

	schema        *Schema
	content       contentExpr
	attrs         map[string]AttributeSpec
	inline        bool
	inlineContent bool
	marks         bool
}

// Schema returns the schema the type belongs to.
func (t *NodeType) Schema() *Schema {
	return t.schema
}

// InGroup reports whether the type belongs to the named group.
func (t *NodeType) InGroup(group string) bool {
	for _, g := range t.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// IsText reports whether this is the text type.
func (t *NodeType) IsText() bool {
	return t.schema.text == t
}

// IsInline reports whether nodes of this type are inline.
func (t *NodeType) IsInline() bool {
	return t.inline
}

// IsBlock reports whether nodes of this type are blocks.
func (t *NodeType) IsBlock() bool {
	return !t.inline
}

// IsLeaf reports whether the type allows no content.
func (t *NodeType) IsLeaf() bool {
	return t.content.empty()
}

// IsTextblock reports whether the type is a block holding inline content.
func (t *NodeType) IsTextblock() bool {
	return !t.inline && t.inlineContent
}

// AllowsMarks reports whether inline content of this type may carry marks.
func (t *NodeType) AllowsMarks() bool {
	return t.marks
}

// ContentExpr returns the source of the type's content expression.
func (t *NodeType) ContentExpr() string {
	return t.content.source
}

// HasAttr reports whether the type declares the attribute.
func (t *NodeType) HasAttr(name string) bool {
	_, ok := t.attrs[name]
	return ok
}

// DefaultAttr returns the declared default of an attribute.
func (t *NodeType) DefaultAttr(name string) any {
	return t.attrs[name].Default
}

// ValidContent reports whether content satisfies the type's content expression.
func (t *NodeType) ValidContent(content Fragment) bool {
	return t.content.match(content.nodes)
}

// Create builds a node of this type without validating its content.
// Missing attributes take their defaults and unknown attributes are dropped.
func (t *NodeType) Create(attrs Attrs, content ...*Node) *Node {
	computed, _ := computeAttrs(t.attrs, attrs, false)
	return newNode(t, computed, NewFragment(content...))
}

// CreateChecked builds a node, failing on missing required attributes or
// content that does not satisfy the type's content expression.
func (t *NodeType) CreateChecked(attrs Attrs, content ...*Node) (*Node, error) {
	computed, err := computeAttrs(t.attrs, attrs, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name, err)
	}
	n := newNode(t, computed, NewFragment(content...))
	if err := n.Check(); err != nil {
		return nil, err
	}
	return n, nil
}

func (t *NodeType) String() string {
	return t.Name
}

// DefaultSchema returns the schema used by richlist: the list node types
// together with the block and inline types commonly found around them.
func DefaultSchema() *Schema {
	s, err := NewSchema(defaultNodes, defaultMarks)
	if err != nil {
		panic(fmt.Sprintf("model: default schema: %v", err))
	}
	return s
}

var defaultNodes = []NodeSpec{
	{Name: "doc", Content: "block+"},
	{Name: "paragraph", Content: "inline*", Group: "block", Marks: "_"},
	{
		Name: "heading", Content: "inline*", Group: "block", Marks: "_",
		Attrs: map[string]AttributeSpec{"level": Optional(1)},
	},
	{Name: "blockquote", Content: "block+", Group: "block"},
	{Name: "code_block", Content: "text*", Group: "block"},
	{Name: "bullet_list", Content: "list_item+", Group: "block"},
	{
		Name: "ordered_list", Content: "list_item+", Group: "block",
		Attrs: map[string]AttributeSpec{"order": Optional(1)},
	},
	{
		Name: "list_item", Content: "paragraph block*",
		Attrs: map[string]AttributeSpec{"todoChecked": Optional(nil)},
	},
	{Name: "text", Group: "inline", Inline: true},
	{Name: "hard_break", Group: "inline", Inline: true},
}

var defaultMarks = []MarkSpec{
	{Name: "link", Attrs: map[string]AttributeSpec{"href": Required()}},
	{Name: "bold"},
	{Name: "italic"},
	{Name: "underline"},
	{Name: "strike"},
	{Name: "code"},
}
