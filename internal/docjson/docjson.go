// Package docjson converts documents and selections to and from the
// ProseMirror JSON shape:
//
//	{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"hi","marks":[{"type":"bold"}]}]}]}
//
// Decoding reads with gjson, normalizes text to NFC and validates the
// result against the schema. Encoding builds the document with sjson.
package docjson

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/richlist/internal/engine/model"
)

// Errors returned by the codec.
var (
	// ErrInvalidJSON indicates input that is not well-formed JSON.
	ErrInvalidJSON = errors.New("docjson: invalid JSON")

	// ErrMissingType indicates a node or mark object without a "type".
	ErrMissingType = errors.New("docjson: missing type")

	// ErrEmptyText indicates a text node with no text.
	ErrEmptyText = errors.New("docjson: empty text node")
)

// DecodeError locates a decoding failure inside the JSON tree.
type DecodeError struct {
	// Path is the gjson path of the offending object, e.g. "content.0.content.1".
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode parses a JSON document and checks it against schema.
func Decode(schema *model.Schema, data []byte) (*model.Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return decodeRoot(schema, gjson.ParseBytes(data))
}

func decodeRoot(schema *model.Schema, res gjson.Result) (*model.Node, error) {
	doc, err := decodeNode(schema, res, "")
	if err != nil {
		return nil, err
	}
	if doc.Type() != schema.TopNodeType() {
		return nil, &DecodeError{Err: fmt.Errorf("%w: root is %s, want %s", model.ErrSchemaViolation, doc.Type().Name, schema.TopNodeType().Name)}
	}
	if err := doc.Check(); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return doc, nil
}

func decodeNode(schema *model.Schema, res gjson.Result, path string) (*model.Node, error) {
	typeName := res.Get("type").String()
	if typeName == "" {
		return nil, &DecodeError{Path: path, Err: ErrMissingType}
	}
	nt, err := schema.NodeType(typeName)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	if nt.IsText() {
		marks, err := decodeMarks(schema, res.Get("marks"), join(path, "marks"))
		if err != nil {
			return nil, err
		}
		text := norm.NFC.String(res.Get("text").String())
		if text == "" {
			return nil, &DecodeError{Path: path, Err: ErrEmptyText}
		}
		return schema.Text(text, marks...), nil
	}

	var children []*model.Node
	var childErr error
	res.Get("content").ForEach(func(key, child gjson.Result) bool {
		n, err := decodeNode(schema, child, join(path, "content."+key.String()))
		if err != nil {
			childErr = err
			return false
		}
		children = append(children, n)
		return true
	})
	if childErr != nil {
		return nil, childErr
	}

	return nt.Create(decodeAttrs(res.Get("attrs")), children...), nil
}

func decodeMarks(schema *model.Schema, res gjson.Result, path string) ([]model.Mark, error) {
	var marks []model.Mark
	var markErr error
	res.ForEach(func(key, m gjson.Result) bool {
		p := join(path, key.String())
		name := m.Get("type").String()
		if name == "" {
			markErr = &DecodeError{Path: p, Err: ErrMissingType}
			return false
		}
		mt, err := schema.MarkType(name)
		if err != nil {
			markErr = &DecodeError{Path: p, Err: err}
			return false
		}
		marks = append(marks, mt.Create(decodeAttrs(m.Get("attrs"))))
		return true
	})
	return marks, markErr
}

func decodeAttrs(res gjson.Result) model.Attrs {
	if !res.IsObject() {
		return nil
	}
	attrs := make(model.Attrs)
	res.ForEach(func(key, v gjson.Result) bool {
		attrs[key.String()] = attrValue(v)
		return true
	})
	return attrs
}

// attrValue converts a JSON value; integral numbers become int.
func attrValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		if f := v.Float(); f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
			return int(f)
		}
		return v.Float()
	case gjson.String:
		return v.String()
	default:
		return v.Value()
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// Encode renders a node as compact JSON.
func Encode(n *model.Node) ([]byte, error) {
	return encodeNode(n)
}

// EncodeIndent renders a node as indented JSON.
func EncodeIndent(n *model.Node) ([]byte, error) {
	data, err := encodeNode(n)
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(data, &pretty.Options{Indent: "  ", Width: 80}), nil
}

func encodeNode(n *model.Node) ([]byte, error) {
	out := []byte(`{}`)
	var err error

	if out, err = sjson.SetBytes(out, "type", n.Type().Name); err != nil {
		return nil, err
	}
	if n.IsText() {
		if out, err = sjson.SetBytes(out, "text", n.Text()); err != nil {
			return nil, err
		}
		for _, m := range n.Marks() {
			raw, err := encodeMark(m)
			if err != nil {
				return nil, err
			}
			if out, err = sjson.SetRawBytes(out, "marks.-1", raw); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	if out, err = setAttrs(out, n.Attrs()); err != nil {
		return nil, err
	}
	for _, child := range n.Children() {
		raw, err := encodeNode(child)
		if err != nil {
			return nil, err
		}
		if out, err = sjson.SetRawBytes(out, "content.-1", raw); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func encodeMark(m model.Mark) ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "type", m.Type().Name)
	if err != nil {
		return nil, err
	}
	return setAttrs(out, m.Attrs())
}

// setAttrs writes attributes in key order so output is deterministic.
func setAttrs(out []byte, attrs model.Attrs) ([]byte, error) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var err error
	for _, k := range keys {
		if out, err = sjson.SetBytes(out, "attrs."+escapeKey(k), attrs[k]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

var pathEscaper = strings.NewReplacer(`\`, `\\`, `.`, `\.`, `*`, `\*`, `?`, `\?`)

func escapeKey(k string) string {
	return pathEscaper.Replace(k)
}
