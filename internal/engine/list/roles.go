package list

import (
	"fmt"

	"github.com/dshills/richlist/internal/engine/model"
)

// DefaultMaxDepth is the deepest list nesting level Tab may create.
const DefaultMaxDepth = 5

// RoleNames names the schema types that play each role in list editing.
type RoleNames struct {
	ListItem    string
	BulletList  string
	OrderedList string
	Paragraph   string
	// Heading may be empty when the schema has no heading type.
	Heading string
}

// DefaultRoleNames returns the role names of model.DefaultSchema.
func DefaultRoleNames() RoleNames {
	return RoleNames{
		ListItem:    "list_item",
		BulletList:  "bullet_list",
		OrderedList: "ordered_list",
		Paragraph:   "paragraph",
		Heading:     "heading",
	}
}

// Roles holds the resolved node types the transforms work with.
type Roles struct {
	ListItem    *model.NodeType
	BulletList  *model.NodeType
	OrderedList *model.NodeType
	Paragraph   *model.NodeType
	Heading     *model.NodeType

	// MaxDepth is the deepest list level an item may reach by sinking.
	MaxDepth int
}

// NewRoles resolves role names against schema. A maxDepth below 1 selects
// DefaultMaxDepth.
func NewRoles(schema *model.Schema, names RoleNames, maxDepth int) (*Roles, error) {
	lookup := func(role, name string) (*model.NodeType, error) {
		nt, ok := schema.Node(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s %q", ErrSchemaMismatch, role, name)
		}
		return nt, nil
	}

	r := &Roles{MaxDepth: maxDepth}
	if r.MaxDepth < 1 {
		r.MaxDepth = DefaultMaxDepth
	}
	var err error
	if r.ListItem, err = lookup("list item", names.ListItem); err != nil {
		return nil, err
	}
	if r.BulletList, err = lookup("bullet list", names.BulletList); err != nil {
		return nil, err
	}
	if r.OrderedList, err = lookup("ordered list", names.OrderedList); err != nil {
		return nil, err
	}
	if r.Paragraph, err = lookup("paragraph", names.Paragraph); err != nil {
		return nil, err
	}
	if names.Heading != "" {
		if r.Heading, err = lookup("heading", names.Heading); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRoles returns the roles of model.DefaultSchema-compatible schemas.
// It panics if the schema lacks one of the default type names.
func DefaultRoles(schema *model.Schema) *Roles {
	r, err := NewRoles(schema, DefaultRoleNames(), DefaultMaxDepth)
	if err != nil {
		panic(err)
	}
	return r
}

// IsList reports whether n is a bullet or ordered list.
func (r *Roles) IsList(n *model.Node) bool {
	return n != nil && (n.Type() == r.BulletList || n.Type() == r.OrderedList)
}

// IsItem reports whether n is a list item.
func (r *Roles) IsItem(n *model.Node) bool {
	return n != nil && n.Type() == r.ListItem
}

// isPlainTextblock reports whether n is a paragraph or heading, the
// textblocks that can become list item content.
func (r *Roles) isPlainTextblock(n *model.Node) bool {
	return n != nil && (n.Type() == r.Paragraph || (r.Heading != nil && n.Type() == r.Heading))
}

// paragraph builds a paragraph with the given inline content.
func (r *Roles) paragraph(content model.Fragment) *model.Node {
	return r.Paragraph.Create(nil).Copy(content)
}

// todoState returns the todoChecked attribute of an item: nil, false or true.
func todoState(item *model.Node) any {
	return item.Attr(todoAttr)
}

// isTodo reports whether item carries a todo checkbox.
func isTodo(item *model.Node) bool {
	return todoState(item) != nil
}

const todoAttr = "todoChecked"

// fitItem adapts an item to the list type it moves into: todo checkboxes
// only exist in bullet lists.
func (r *Roles) fitItem(item *model.Node, listType *model.NodeType) *model.Node {
	if listType != r.BulletList && isTodo(item) {
		return item.WithAttr(todoAttr, nil)
	}
	return item
}

// convertItem adapts an item to a list whose type was changed explicitly.
func (r *Roles) convertItem(item *model.Node) *model.Node {
	if isTodo(item) {
		return item.WithAttr(todoAttr, nil)
	}
	return item
}

// newItemFor returns an empty item to sit next to item.
func (r *Roles) newItemFor(item *model.Node, content ...*model.Node) *model.Node {
	var todo any
	if isTodo(item) {
		todo = false
	}
	if len(content) == 0 {
		content = []*model.Node{r.Paragraph.Create(nil)}
	}
	return r.ListItem.Create(model.Attrs{todoAttr: todo}, content...)
}
