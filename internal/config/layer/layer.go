// Package layer stacks configuration sources by priority.
//
// Each source (built-in defaults, the TOML file, RICHLIST_* variables and
// command-line flags) becomes a Layer holding a nested settings map. A
// Stack merges them lowest priority first, so higher layers override
// lower ones key by key, and can report which layer supplied a setting.
package layer

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/richlist/internal/config/loader"
)

// Source identifies where a layer came from.
type Source uint8

const (
	// SourceDefaults is the built-in configuration.
	SourceDefaults Source = iota
	// SourceFile is the user TOML file.
	SourceFile
	// SourceEnv is the RICHLIST_* environment.
	SourceEnv
	// SourceFlags is command-line overrides.
	SourceFlags
)

// String returns the layer name used for a source.
func (s Source) String() string {
	switch s {
	case SourceDefaults:
		return "defaults"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "environment"
	case SourceFlags:
		return "flags"
	default:
		return "unknown"
	}
}

// Standard priorities. Higher values override lower values.
const (
	PriorityDefaults = 0
	PriorityFile     = 100
	PriorityEnv      = 500
	PriorityFlags    = 600
)

// DefaultPriority returns the standard priority for a source.
func DefaultPriority(source Source) int {
	switch source {
	case SourceFile:
		return PriorityFile
	case SourceEnv:
		return PriorityEnv
	case SourceFlags:
		return PriorityFlags
	default:
		return PriorityDefaults
	}
}

// Layer is one configuration source.
type Layer struct {
	// Name identifies the layer; it defaults to the source name.
	Name string

	// Priority determines merge order (higher overrides lower).
	Priority int

	// Source indicates where the layer was loaded from.
	Source Source

	// Path is the file the layer was read from, if any.
	Path string

	// Data holds the settings as a nested map.
	Data map[string]any
}

// New creates a layer for source with its standard name and priority. A
// nil data map is replaced with an empty one.
func New(source Source, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{
		Name:     source.String(),
		Priority: DefaultPriority(source),
		Source:   source,
		Data:     data,
	}
}

// Clone returns a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	c := *l
	c.Data = cloneMap(l.Data)
	return &c
}

// Stack holds layers sorted by priority.
type Stack struct {
	mu     sync.RWMutex
	layers []*Layer
}

// NewStack creates a stack holding layers.
func NewStack(layers ...*Layer) *Stack {
	s := &Stack{}
	for _, l := range layers {
		s.Add(l)
	}
	return s
}

// Add inserts a layer, replacing any layer with the same name.
func (s *Stack) Add(l *Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(l)
}

func (s *Stack) add(l *Layer) {
	s.layers = slices.DeleteFunc(s.layers, func(old *Layer) bool { return old.Name == l.Name })
	s.layers = append(s.layers, l)
	sort.SliceStable(s.layers, func(i, j int) bool {
		return s.layers[i].Priority < s.layers[j].Priority
	})
}

// Layer returns the layer with the given name, or nil.
func (s *Stack) Layer(name string) *Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(name)
}

func (s *Stack) find(name string) *Layer {
	for _, l := range s.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Layers returns the layers from lowest to highest priority.
func (s *Stack) Layers() []*Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.layers)
}

// Set stores value at path in the layer for source, creating the layer
// when the stack has none.
func (s *Stack) Set(source Source, path string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.find(source.String())
	if l == nil {
		l = New(source, nil)
		s.add(l)
	}
	SetByPath(l.Data, path, value)
}

// Merge combines the layers, lowest priority first, into a new map.
func (s *Stack) Merge() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]any)
	for _, l := range s.layers {
		result = loader.DeepMerge(result, cloneMap(l.Data))
	}
	return result
}

// Lookup returns the value at path from the highest layer that sets it,
// together with that layer.
func (s *Stack) Lookup(path string) (any, *Layer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.layers) - 1; i >= 0; i-- {
		if val, ok := GetByPath(s.layers[i].Data, path); ok {
			return val, s.layers[i], true
		}
	}
	return nil, nil, false
}

// Clone returns a deep copy of the stack.
func (s *Stack) Clone() *Stack {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := &Stack{layers: make([]*Layer, len(s.layers))}
	for i, l := range s.layers {
		c.layers[i] = l.Clone()
	}
	return c
}

// GetByPath returns the value at a dot-separated path.
func GetByPath(data map[string]any, path string) (any, bool) {
	current := any(data)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		val, exists := m[part]
		if !exists {
			return nil, false
		}
		current = val
	}
	return current, true
}

// SetByPath stores value at a dot-separated path, creating tables on the
// way.
func SetByPath(data map[string]any, path string, value any) {
	if data == nil {
		return
	}
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// Flatten returns the leaf settings of data keyed by dot-separated path.
func Flatten(data map[string]any) map[string]any {
	out := make(map[string]any)
	flatten(data, "", out)
	return out
}

func flatten(data map[string]any, prefix string, out map[string]any) {
	for key, val := range data {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if sub, ok := val.(map[string]any); ok {
			flatten(sub, path, out)
			continue
		}
		out[path] = val
	}
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
	return dst
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
