// Package markdown converts between documents and CommonMark text.
//
// Parse reads markdown with goldmark, including GFM task list items and
// strikethrough, and builds a document in the richlist schema. Render
// writes the list-aware markdown used by the CLI and by golden tests.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/dshills/richlist/internal/engine/model"
)

// Parse converts markdown source into a document of schema. Constructs
// with no counterpart in the schema (thematic breaks, raw HTML, tables)
// are dropped.
func Parse(schema *model.Schema, src []byte) (*model.Node, error) {
	c, err := newConverter(schema, src)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.TaskList, extension.Strikethrough))
	root := md.Parser().Parse(text.NewReader(src))

	blocks := c.blocks(root)
	if len(blocks) == 0 {
		blocks = []*model.Node{c.paragraph.Create(nil)}
	}
	doc := schema.TopNodeType().Create(nil, blocks...)
	if err := doc.Check(); err != nil {
		return nil, fmt.Errorf("markdown: %w", err)
	}
	return doc, nil
}

type converter struct {
	schema *model.Schema
	src    []byte

	paragraph, heading, blockquote, codeBlock *model.NodeType
	bulletList, orderedList, listItem         *model.NodeType
	hardBreak                                 *model.NodeType

	bold, italic, strike, code, link *model.MarkType
}

func newConverter(schema *model.Schema, src []byte) (*converter, error) {
	c := &converter{schema: schema, src: src}
	nodes := []struct {
		name string
		dst  **model.NodeType
	}{
		{"paragraph", &c.paragraph},
		{"heading", &c.heading},
		{"blockquote", &c.blockquote},
		{"code_block", &c.codeBlock},
		{"bullet_list", &c.bulletList},
		{"ordered_list", &c.orderedList},
		{"list_item", &c.listItem},
		{"hard_break", &c.hardBreak},
	}
	for _, n := range nodes {
		nt, err := schema.NodeType(n.name)
		if err != nil {
			return nil, fmt.Errorf("markdown: %w", err)
		}
		*n.dst = nt
	}
	marks := []struct {
		name string
		dst  **model.MarkType
	}{
		{"bold", &c.bold},
		{"italic", &c.italic},
		{"strike", &c.strike},
		{"code", &c.code},
		{"link", &c.link},
	}
	for _, m := range marks {
		mt, err := schema.MarkType(m.name)
		if err != nil {
			return nil, fmt.Errorf("markdown: %w", err)
		}
		*m.dst = mt
	}
	return c, nil
}

// blocks converts the block children of parent.
func (c *converter) blocks(parent ast.Node) []*model.Node {
	var out []*model.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if b := c.block(n); b != nil {
			out = append(out, b)
		}
	}
	return out
}

func (c *converter) block(n ast.Node) *model.Node {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return c.paragraph.Create(nil, c.inlines(node)...)

	case *ast.Heading:
		return c.heading.Create(model.Attrs{"level": node.Level}, c.inlines(node)...)

	case *ast.Blockquote:
		children := c.blocks(node)
		if len(children) == 0 {
			children = []*model.Node{c.paragraph.Create(nil)}
		}
		return c.blockquote.Create(nil, children...)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var buf bytes.Buffer
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(c.src))
		}
		return c.codeBlock.Create(nil, c.schema.Text(strings.TrimRight(buf.String(), "\n")))

	case *ast.List:
		items := make([]*model.Node, 0, node.ChildCount())
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			items = append(items, c.item(item))
		}
		if node.IsOrdered() {
			return c.orderedList.Create(model.Attrs{"order": node.Start}, items...)
		}
		return c.bulletList.Create(nil, items...)

	default:
		return nil
	}
}

// item converts a list item. The first child must be a paragraph, so an
// item that starts with another block gets an empty one in front.
func (c *converter) item(n ast.Node) *model.Node {
	var attrs model.Attrs
	if first := n.FirstChild(); first != nil {
		if box, ok := first.FirstChild().(*east.TaskCheckBox); ok {
			attrs = model.Attrs{"todoChecked": box.IsChecked}
		}
	}

	children := c.blocks(n)
	if len(children) == 0 || children[0].Type() != c.paragraph {
		children = append([]*model.Node{c.paragraph.Create(nil)}, children...)
	}
	if attrs != nil {
		children[0] = c.paragraph.Create(nil, trimLeft(c.schema, children[0].Children())...)
	}
	return c.listItem.Create(attrs, children...)
}

// inlines converts the inline children of a textblock.
func (c *converter) inlines(parent ast.Node) []*model.Node {
	var out []*model.Node
	c.walkInline(parent, nil, &out)
	return trimRight(c.schema, out)
}

func (c *converter) walkInline(parent ast.Node, marks []model.Mark, out *[]*model.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Text:
			value := string(util.UnescapePunctuations(node.Segment.Value(c.src)))
			switch {
			case node.HardLineBreak():
				*out = trimRight(c.schema, append(*out, c.schema.Text(value, marks...)))
				*out = append(*out, c.hardBreak.Create(nil))
			case node.SoftLineBreak():
				*out = append(*out, c.schema.Text(value+" ", marks...))
			default:
				*out = append(*out, c.schema.Text(value, marks...))
			}

		case *ast.String:
			*out = append(*out, c.schema.Text(string(node.Value), marks...))

		case *ast.Emphasis:
			mt := c.italic
			if node.Level >= 2 {
				mt = c.bold
			}
			c.walkInline(node, withMark(marks, mt.Create(nil)), out)

		case *east.Strikethrough:
			c.walkInline(node, withMark(marks, c.strike.Create(nil)), out)

		case *ast.CodeSpan:
			// Backslashes are literal inside code.
			var b strings.Builder
			for t := node.FirstChild(); t != nil; t = t.NextSibling() {
				switch t := t.(type) {
				case *ast.Text:
					b.Write(t.Segment.Value(c.src))
					if t.SoftLineBreak() {
						b.WriteByte(' ')
					}
				case *ast.String:
					b.Write(t.Value)
				}
			}
			if b.Len() > 0 {
				*out = append(*out, c.schema.Text(b.String(), withMark(marks, c.code.Create(nil))...))
			}

		case *ast.Link:
			href := string(node.Destination)
			c.walkInline(node, withMark(marks, c.link.Create(model.Attrs{"href": href})), out)

		case *ast.AutoLink:
			url := string(node.URL(c.src))
			label := string(node.Label(c.src))
			*out = append(*out, c.schema.Text(label, withMark(marks, c.link.Create(model.Attrs{"href": url}))...))

		case *ast.Image:
			c.walkInline(node, marks, out)

		case *east.TaskCheckBox, *ast.RawHTML:
			// dropped

		default:
			c.walkInline(node, marks, out)
		}
	}
}

func withMark(marks []model.Mark, m model.Mark) []model.Mark {
	out := make([]model.Mark, 0, len(marks)+1)
	out = append(out, marks...)
	return append(out, m)
}

// trimRight strips trailing spaces from the last text node.
func trimRight(schema *model.Schema, nodes []*model.Node) []*model.Node {
	for len(nodes) > 0 {
		last := nodes[len(nodes)-1]
		if last == nil {
			nodes = nodes[:len(nodes)-1]
			continue
		}
		if !last.IsText() {
			return nodes
		}
		trimmed := strings.TrimRight(last.Text(), " \t")
		if trimmed == "" {
			nodes = nodes[:len(nodes)-1]
			continue
		}
		nodes[len(nodes)-1] = schema.Text(trimmed, last.Marks()...)
		return nodes
	}
	return nodes
}

// trimLeft strips leading spaces from the first text node.
func trimLeft(schema *model.Schema, nodes []*model.Node) []*model.Node {
	for len(nodes) > 0 {
		first := nodes[0]
		if !first.IsText() {
			return nodes
		}
		trimmed := strings.TrimLeft(first.Text(), " \t")
		if trimmed == "" {
			nodes = nodes[1:]
			continue
		}
		out := append([]*model.Node{schema.Text(trimmed, first.Marks()...)}, nodes[1:]...)
		return out
	}
	return nodes
}
