package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/dshills/richlist/internal/docjson"
	"github.com/dshills/richlist/internal/engine/list"
	"github.com/dshills/richlist/internal/engine/model"
	"github.com/dshills/richlist/internal/markdown"
)

// Format is a document serialization.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts "markdown", "md" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// DetectFormat picks a format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Decode reads a state in format. Markdown carries no selection, so the
// cursor starts in the first textblock. JSON may be a bare document or a
// {"doc", "selection"} object.
func Decode(schema *model.Schema, data []byte, format Format) (list.State, error) {
	switch format {
	case FormatMarkdown:
		doc, err := markdown.Parse(schema, data)
		if err != nil {
			return list.State{}, err
		}
		return list.State{Doc: doc, Selection: docjson.StartCursor(doc)}, nil
	case FormatJSON:
		return docjson.DecodeState(schema, data)
	default:
		return list.State{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Encode writes a state in format. Markdown drops the selection.
func Encode(state list.State, format Format) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return []byte(markdown.Render(state.Doc)), nil
	case FormatJSON:
		return docjson.EncodeState(state)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Document is the file a session edits.
type Document struct {
	// Path is the file path (empty for scratch documents).
	Path string

	// Name is the display name (file name or "Untitled").
	Name string

	// Format is the serialization used to read and write Path.
	Format Format

	modified atomic.Bool
	version  atomic.Int64
}

// NewDocument creates a document for path, detecting its format.
func NewDocument(path string) (*Document, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	return &Document{Path: path, Name: filepath.Base(path), Format: format}, nil
}

// NewScratchDocument creates a document with no file.
func NewScratchDocument(format Format) *Document {
	return &Document{Name: "Untitled", Format: format}
}

// IsScratch returns true if the document has no file.
func (d *Document) IsScratch() bool {
	return d.Path == ""
}

// IsModified returns true if the document has unsaved changes.
func (d *Document) IsModified() bool {
	return d.modified.Load()
}

// SetModified sets the modified flag.
func (d *Document) SetModified(modified bool) {
	d.modified.Store(modified)
}

// Version counts committed transactions since the document was opened.
func (d *Document) Version() int64 {
	return d.version.Load()
}

// IncrementVersion increments and returns the new version.
func (d *Document) IncrementVersion() int64 {
	return d.version.Add(1)
}

// Read loads the document's file.
func (d *Document) Read(schema *model.Schema) (list.State, error) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return list.State{}, NewOperationError("open", d.Path, err)
	}
	state, err := Decode(schema, data, d.Format)
	if err != nil {
		return list.State{}, NewOperationError("open", d.Path, err)
	}
	return state, nil
}

// Write saves state to the document's file and clears the modified flag.
func (d *Document) Write(state list.State) error {
	if d.IsScratch() {
		return NewOperationError("save", d.Name, ErrNoPath)
	}
	data, err := Encode(state, d.Format)
	if err != nil {
		return NewOperationError("save", d.Path, err)
	}
	if err := os.WriteFile(d.Path, data, 0o644); err != nil {
		return NewOperationError("save", d.Path, err)
	}
	d.SetModified(false)
	return nil
}
