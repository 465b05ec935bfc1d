package docjson

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/richlist/internal/engine/list"
	"github.com/dshills/richlist/internal/engine/model"
	"github.com/dshills/richlist/internal/engine/selection"
)

// ErrUnknownSelection indicates a selection "type" other than text or node.
var ErrUnknownSelection = errors.New("docjson: unknown selection type")

// EncodeSelection renders a selection as
// {"type":"text","anchor":n,"head":m} or {"type":"node","anchor":n}.
func EncodeSelection(sel selection.Selection) ([]byte, error) {
	out := []byte(`{}`)
	var err error
	switch s := sel.(type) {
	case selection.NodeSelection:
		if out, err = sjson.SetBytes(out, "type", "node"); err != nil {
			return nil, err
		}
		return sjson.SetBytes(out, "anchor", s.Anchor())
	case selection.TextSelection:
		if out, err = sjson.SetBytes(out, "type", "text"); err != nil {
			return nil, err
		}
		if out, err = sjson.SetBytes(out, "anchor", s.Anchor()); err != nil {
			return nil, err
		}
		return sjson.SetBytes(out, "head", s.Head())
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownSelection, sel)
	}
}

// DecodeSelection parses a selection and checks it against doc. A text
// selection without "head" is a cursor at "anchor".
func DecodeSelection(doc *model.Node, data []byte) (selection.Selection, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return decodeSelection(doc, gjson.ParseBytes(data))
}

func decodeSelection(doc *model.Node, res gjson.Result) (selection.Selection, error) {
	anchor := int(res.Get("anchor").Int())

	var sel selection.Selection
	switch t := res.Get("type").String(); t {
	case "node":
		ns, err := selection.NewNodeSelection(doc, anchor)
		if err != nil {
			return nil, err
		}
		sel = ns
	case "text", "":
		head := anchor
		if h := res.Get("head"); h.Exists() {
			head = int(h.Int())
		}
		sel = selection.NewTextSelection(anchor, head)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSelection, t)
	}

	if err := selection.Validate(sel, doc); err != nil {
		return nil, err
	}
	return sel, nil
}

// EncodeState renders {"doc": ..., "selection": ...}, indented.
func EncodeState(state list.State) ([]byte, error) {
	doc, err := encodeNode(state.Doc)
	if err != nil {
		return nil, err
	}
	out, err := sjson.SetRawBytes([]byte(`{}`), "doc", doc)
	if err != nil {
		return nil, err
	}
	if state.Selection != nil {
		sel, err := EncodeSelection(state.Selection)
		if err != nil {
			return nil, err
		}
		if out, err = sjson.SetRawBytes(out, "selection", sel); err != nil {
			return nil, err
		}
	}
	return pretty.PrettyOptions(out, &pretty.Options{Indent: "  ", Width: 80}), nil
}

// DecodeState parses a state object. Input that has a top-level "type"
// is taken to be a bare document and gets a cursor at the start of its
// first textblock.
func DecodeState(schema *model.Schema, data []byte) (list.State, error) {
	if !gjson.ValidBytes(data) {
		return list.State{}, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)

	docRes := root.Get("doc")
	if root.Get("type").Exists() {
		docRes = root
	}
	doc, err := decodeRoot(schema, docRes)
	if err != nil {
		return list.State{}, err
	}

	state := list.State{Doc: doc}
	if selRes := root.Get("selection"); selRes.Exists() {
		if state.Selection, err = decodeSelection(doc, selRes); err != nil {
			return list.State{}, err
		}
	} else {
		state.Selection = StartCursor(doc)
	}
	return state, nil
}

// StartCursor returns a cursor at the start of the first textblock in
// doc, or nil when doc has none.
func StartCursor(doc *model.Node) selection.Selection {
	found := -1
	doc.Descendants(func(n *model.Node, pos int, _ *model.Node, _ int) bool {
		if found >= 0 {
			return false
		}
		if n.IsTextblock() {
			found = pos + 1
			return false
		}
		return true
	})
	if found < 0 {
		return nil
	}
	return selection.Cursor(found)
}
