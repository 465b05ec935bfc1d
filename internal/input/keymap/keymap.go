package keymap

import (
	"fmt"

	"github.com/dshills/richlist/internal/input/key"
)

// Keymap holds a named layer of key bindings.
type Keymap struct {
	// Name is the keymap identifier.
	Name string `yaml:"name"`

	// Bindings are the key-to-action mappings.
	Bindings []Binding `yaml:"bindings"`

	// Priority determines precedence when multiple keymaps match.
	// Higher priority wins. Default is 0.
	Priority int `yaml:"priority,omitempty"`

	// Source indicates where this keymap was defined.
	// Examples: "default", "user", "script"
	Source string `yaml:"source,omitempty"`
}

// NewKeymap creates a new keymap with the given name.
func NewKeymap(name string) *Keymap {
	return &Keymap{
		Name:     name,
		Bindings: make([]Binding, 0),
	}
}

// WithPriority sets the priority for this keymap.
func (k *Keymap) WithPriority(priority int) *Keymap {
	k.Priority = priority
	return k
}

// WithSource sets the source for this keymap.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// Add adds a binding to this keymap.
func (k *Keymap) Add(keys, action string) *Keymap {
	k.Bindings = append(k.Bindings, NewBinding(keys, action))
	return k
}

// AddBinding adds a fully configured binding to this keymap.
func (k *Keymap) AddBinding(binding Binding) *Keymap {
	k.Bindings = append(k.Bindings, binding)
	return k
}

// Validate checks that all bindings in the keymap are valid.
// An empty action is allowed and unbinds the chord in lower layers.
func (k *Keymap) Validate() error {
	for i, b := range k.Bindings {
		if b.Keys == "" {
			return fmt.Errorf("binding %d: empty keys", i)
		}
		if _, err := key.Parse(b.Keys); err != nil {
			return fmt.Errorf("binding %d (%s): %w", i, b.Keys, err)
		}
	}
	return nil
}

// ParsedKeymap is a keymap with pre-parsed chords.
type ParsedKeymap struct {
	*Keymap
	ParsedBindings []ParsedBinding
}

// Parse parses all bindings in the keymap.
func (k *Keymap) Parse() (*ParsedKeymap, error) {
	parsed := &ParsedKeymap{
		Keymap:         k,
		ParsedBindings: make([]ParsedBinding, 0, len(k.Bindings)),
	}

	for _, b := range k.Bindings {
		chord, err := key.Parse(b.Keys)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", b.Keys, err)
		}
		b.Keys = chord.String()
		parsed.ParsedBindings = append(parsed.ParsedBindings, ParsedBinding{
			Binding: b,
			Chord:   chord,
		})
	}

	return parsed, nil
}

// Merge overlays other onto k: bindings for a chord already present are
// replaced, new chords are appended. Chords are compared in canonical form.
func (k *Keymap) Merge(other *Keymap) error {
	index := make(map[string]int, len(k.Bindings))
	for i, b := range k.Bindings {
		norm, err := key.Normalize(b.Keys)
		if err != nil {
			return fmt.Errorf("binding %d (%s): %w", i, b.Keys, err)
		}
		index[norm] = i
	}

	for _, b := range other.Bindings {
		norm, err := key.Normalize(b.Keys)
		if err != nil {
			return fmt.Errorf("merging %q: %w", b.Keys, err)
		}
		if i, ok := index[norm]; ok {
			k.Bindings[i] = b
			continue
		}
		index[norm] = len(k.Bindings)
		k.Bindings = append(k.Bindings, b)
	}
	return nil
}

// Clone creates a deep copy of the keymap.
func (k *Keymap) Clone() *Keymap {
	clone := *k
	clone.Bindings = append([]Binding(nil), k.Bindings...)
	return &clone
}

// Actions returns the set of actions referenced by the keymap.
func (k *Keymap) Actions() map[string]bool {
	out := make(map[string]bool, len(k.Bindings))
	for _, b := range k.Bindings {
		if !b.IsUnbind() {
			out[b.Action] = true
		}
	}
	return out
}
