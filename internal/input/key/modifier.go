package key

import "strings"

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModMod is the platform's primary modifier: Meta (Cmd) on macOS and
	// Ctrl elsewhere. It stays abstract until Resolve is called.
	ModMod Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModShift indicates the Shift key.
	ModShift
)

// modifierOrder is the canonical order modifiers are written in.
var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModMod, "Mod"},
	{ModCtrl, "Ctrl"},
	{ModMeta, "Meta"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
}

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// Resolve replaces ModMod with Meta on macOS and Ctrl elsewhere.
func (m Modifier) Resolve(mac bool) Modifier {
	if !m.Has(ModMod) {
		return m
	}
	if mac {
		return m.Without(ModMod).With(ModMeta)
	}
	return m.Without(ModMod).With(ModCtrl)
}

// String returns the modifiers in canonical order, joined by "-".
func (m Modifier) String() string {
	var parts []string
	for _, o := range modifierOrder {
		if m.Has(o.mod) {
			parts = append(parts, o.name)
		}
	}
	return strings.Join(parts, "-")
}

// modifierNames maps lowercase modifier names and aliases to Modifiers.
var modifierNames = map[string]Modifier{
	"mod":     ModMod,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"m":       ModMeta,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"a":       ModAlt,
	"shift":   ModShift,
	"s":       ModShift,
}

// ModifierFromName returns the Modifier for a name (case-insensitive).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	return modifierNames[strings.ToLower(strings.TrimSpace(name))]
}
