// Package modeltest builds documents for tests.
//
// Text passed to the builders may contain position markers that Doc strips
// and records:
//
//	<|>  a collapsed cursor
//	<a>  the anchor of a range selection
//	<h>  the head of a range selection
//	<n>  the position before the node whose text contains it (used to build
//	     node selections; place it at the start of the node's first text)
//
// Builders use model.DefaultSchema.
package modeltest

import (
	"fmt"
	"strings"

	"github.com/dshills/richlist/internal/engine/model"
	"github.com/dshills/richlist/internal/engine/selection"
)

// Schema is the schema all builders use.
var Schema = model.DefaultSchema()

var markers = []string{"<|>", "<a>", "<h>"}

func nodeType(name string) *model.NodeType {
	nt, ok := Schema.Node(name)
	if !ok {
		panic("modeltest: unknown node type " + name)
	}
	return nt
}

func mark(name string, attrs model.Attrs) model.Mark {
	mt, err := Schema.MarkType(name)
	if err != nil {
		panic(err)
	}
	return mt.Create(attrs)
}

func inline(parts []any) []*model.Node {
	var out []*model.Node
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			out = append(out, Schema.Text(v))
		case *model.Node:
			out = append(out, v)
		default:
			panic(fmt.Sprintf("modeltest: unsupported inline part %T", p))
		}
	}
	return out
}

// P builds a paragraph from strings and inline nodes.
func P(parts ...any) *model.Node {
	return nodeType("paragraph").Create(nil, inline(parts)...)
}

// H builds a heading.
func H(level int, parts ...any) *model.Node {
	return nodeType("heading").Create(model.Attrs{"level": level}, inline(parts)...)
}

// Code builds a code block.
func Code(text string) *model.Node {
	return nodeType("code_block").Create(nil, Schema.Text(text))
}

// Quote builds a blockquote.
func Quote(children ...*model.Node) *model.Node {
	return nodeType("blockquote").Create(nil, children...)
}

// LI builds a plain list item.
func LI(children ...*model.Node) *model.Node {
	return nodeType("list_item").Create(nil, children...)
}

// Todo builds a todo list item.
func Todo(checked bool, children ...*model.Node) *model.Node {
	return nodeType("list_item").Create(model.Attrs{"todoChecked": checked}, children...)
}

// UL builds a bullet list.
func UL(items ...*model.Node) *model.Node {
	return nodeType("bullet_list").Create(nil, items...)
}

// OL builds an ordered list.
func OL(items ...*model.Node) *model.Node {
	return nodeType("ordered_list").Create(nil, items...)
}

// Br builds a hard break.
func Br() *model.Node {
	return nodeType("hard_break").Create(nil)
}

// Bold builds bold text.
func Bold(text string) *model.Node {
	return Schema.Text(text, mark("bold", nil))
}

// Italic builds italic text.
func Italic(text string) *model.Node {
	return Schema.Text(text, mark("italic", nil))
}

// Mono builds text with the code mark.
func Mono(text string) *model.Node {
	return Schema.Text(text, mark("code", nil))
}

// Link builds linked text.
func Link(href, text string) *model.Node {
	return Schema.Text(text, mark("link", model.Attrs{"href": href}))
}

// Fixture is a document with the positions of its markers.
type Fixture struct {
	Doc  *model.Node
	Tags map[string]int
}

// Doc builds a document and extracts its markers.
func Doc(children ...*model.Node) Fixture {
	tags := map[string]int{}
	var content []*model.Node
	pos := 0
	for _, child := range children {
		c := strip(child, pos, tags)
		content = append(content, c)
		pos += c.Size()
	}
	doc := Schema.TopNodeType().Create(nil, content...)
	return Fixture{Doc: doc, Tags: tags}
}

// strip removes markers from n, whose position in the document is pos.
func strip(n *model.Node, pos int, tags map[string]int) *model.Node {
	if n.IsLeaf() {
		return n
	}
	var out []*model.Node
	cur := pos + 1
	changed := false
	for _, child := range n.Children() {
		if !child.IsText() {
			c := strip(child, cur, tags)
			changed = changed || c != child
			out = append(out, c)
			cur += c.Size()
			continue
		}
		text := child.Text()
		if !strings.Contains(text, "<") {
			out = append(out, child)
			cur += child.Size()
			continue
		}
		changed = true
		clean := extract(text, cur, pos, tags)
		if clean != "" {
			out = append(out, Schema.Text(clean, child.Marks()...))
		}
		cur += len([]rune(clean))
	}
	if !changed {
		return n
	}
	return n.CopyNodes(out...)
}

// extract strips markers from text starting at position start and records
// them. nodePos is the position before the textblock holding the text.
func extract(text string, start, nodePos int, tags map[string]int) string {
	var b strings.Builder
	offset := 0
	for len(text) > 0 {
		matched := false
		for _, m := range markers {
			if strings.HasPrefix(text, m) {
				tags[m[1:2]] = start + offset
				text = text[len(m):]
				matched = true
				break
			}
		}
		if !matched && strings.HasPrefix(text, "<n>") {
			tags["n"] = nodePos
			text = text[3:]
			matched = true
		}
		if matched {
			continue
		}
		r := []rune(text)[0]
		b.WriteRune(r)
		text = text[len(string(r)):]
		offset++
	}
	return b.String()
}

// Pos returns the position recorded for a marker name ("|", "a", "h", "n").
func (f Fixture) Pos(tag string) int {
	pos, ok := f.Tags[tag]
	if !ok {
		panic("modeltest: no marker " + tag)
	}
	return pos
}

// Selection returns the selection described by the markers: a cursor for
// <|>, a range for <a> and <h>.
func (f Fixture) Selection() selection.Selection {
	if pos, ok := f.Tags["|"]; ok {
		return selection.Cursor(pos)
	}
	anchor, okA := f.Tags["a"]
	head, okH := f.Tags["h"]
	if okA && okH {
		return selection.NewTextSelection(anchor, head)
	}
	return selection.Cursor(0)
}

// NodeSelection returns a node selection at the <n> marker.
func (f Fixture) NodeSelection() selection.Selection {
	sel, err := selection.NewNodeSelection(f.Doc, f.Pos("n"))
	if err != nil {
		panic(err)
	}
	return sel
}
