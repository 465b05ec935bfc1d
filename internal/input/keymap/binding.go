package keymap

import (
	"github.com/dshills/richlist/internal/input/key"
)

// Binding represents a single key-to-action mapping.
type Binding struct {
	// Keys is the chord that triggers this binding.
	// Formats: "Enter", "Shift-Tab", "Mod-Shift-8", "Ctrl+Alt+x"
	Keys string `yaml:"keys"`

	// Action is the dispatcher action to run.
	// Examples: "list.enter", "list.indent", "list.toggleBulletList"
	Action string `yaml:"action"`

	// Description provides documentation for the binding.
	Description string `yaml:"description,omitempty"`

	// Priority determines precedence when multiple bindings match.
	// Higher priority wins. Default is 0.
	Priority int `yaml:"priority,omitempty"`

	// Category groups bindings for display purposes.
	Category string `yaml:"category,omitempty"`
}

// NewBinding creates a new binding with the given keys and action.
func NewBinding(keys, action string) Binding {
	return Binding{
		Keys:   keys,
		Action: action,
	}
}

// WithPriority sets the priority for this binding.
func (b Binding) WithPriority(priority int) Binding {
	b.Priority = priority
	return b
}

// WithCategory sets the category for this binding.
func (b Binding) WithCategory(category string) Binding {
	b.Category = category
	return b
}

// ParsedBinding is a binding with a pre-parsed chord.
type ParsedBinding struct {
	Binding
	Chord key.Chord
}

// Match reports whether this binding's chord matches the pressed chord
// once both are resolved for the platform.
func (pb *ParsedBinding) Match(pressed key.Chord, mac bool) bool {
	return pb.Chord.Resolve(mac) == pressed.Resolve(mac)
}

// IsUnbind reports whether the binding removes an inherited mapping.
func (b Binding) IsUnbind() bool {
	return b.Action == ""
}

// BindingMatch represents a matched binding with its keymap.
type BindingMatch struct {
	*ParsedBinding

	// Keymap is the keymap containing the binding.
	Keymap *Keymap

	// Score is used for sorting matches by priority.
	Score int

	// order is the registration sequence of the keymap; later wins ties.
	order int
}

// Less returns true if this match should come before another.
// Higher scores come first, then later registrations.
func (bm BindingMatch) Less(other BindingMatch) bool {
	if bm.Score != other.Score {
		return bm.Score > other.Score
	}
	return bm.order > other.order
}

// CalculateScore calculates the priority score for this match.
func (bm *BindingMatch) CalculateScore() {
	if bm.Keymap == nil || bm.ParsedBinding == nil {
		bm.Score = 0
		return
	}
	bm.Score = bm.Keymap.Priority*100 + bm.ParsedBinding.Priority
}

// BindingCategory represents a category of bindings for display.
type BindingCategory struct {
	Name     string
	Bindings []Binding
}

// GroupByCategory groups bindings by their category, keeping first-seen order.
func GroupByCategory(bindings []Binding) []BindingCategory {
	categoryMap := make(map[string][]Binding)
	order := make([]string, 0)

	for _, b := range bindings {
		cat := b.Category
		if cat == "" {
			cat = "Other"
		}
		if _, exists := categoryMap[cat]; !exists {
			order = append(order, cat)
		}
		categoryMap[cat] = append(categoryMap[cat], b)
	}

	result := make([]BindingCategory, 0, len(order))
	for _, name := range order {
		result = append(result, BindingCategory{
			Name:     name,
			Bindings: categoryMap[name],
		})
	}
	return result
}
