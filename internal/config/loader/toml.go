package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader reads a TOML configuration file. A missing file loads as
// nil without error.
type TOMLLoader struct {
	path     string
	readFile func(name string) ([]byte, error)
}

// NewTOMLLoader reads path from the operating system.
func NewTOMLLoader(path string) *TOMLLoader {
	return &TOMLLoader{path: path, readFile: os.ReadFile}
}

// NewTOMLLoaderFS reads name from fsys.
func NewTOMLLoaderFS(fsys fs.FS, name string) *TOMLLoader {
	return &TOMLLoader{
		path: name,
		readFile: func(name string) ([]byte, error) {
			return fs.ReadFile(fsys, name)
		},
	}
}

// Path returns the file the loader reads.
func (l *TOMLLoader) Path() string {
	return l.path
}

// Load reads and parses the file.
func (l *TOMLLoader) Load() (map[string]any, error) {
	if l.path == "" {
		return nil, nil
	}
	data, err := l.readFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
	}
	return parseTOML(l.path, data)
}

// LoadFromReader parses TOML from r instead of the file.
func (l *TOMLLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parseTOML("<reader>", data)
}

func parseTOML(source string, data []byte) (map[string]any, error) {
	settings := make(map[string]any)
	if err := toml.Unmarshal(data, &settings); err != nil {
		perr := &ParseError{Path: source, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return settings, nil
}

// ParseError locates a TOML syntax error.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: line %d, column %d: %v", e.Path, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
