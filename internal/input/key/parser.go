package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("key: empty key specification")
	ErrInvalidSpec = errors.New("key: invalid key specification")
)

// Chord is one key press with its modifiers.
type Chord struct {
	Mods Modifier
	// Key is a canonical named key ("Enter", "ArrowUp") or one character.
	Key string
}

// String formats the chord in its canonical "Mod-Shift-8" form, which Parse
// accepts.
func (c Chord) String() string {
	if c.Mods.IsEmpty() {
		return c.Key
	}
	return c.Mods.String() + "-" + c.Key
}

// Resolve replaces the abstract Mod modifier for a platform.
func (c Chord) Resolve(mac bool) Chord {
	c.Mods = c.Mods.Resolve(mac)
	return c
}

// Parse parses a key specification such as "Enter", "Shift-Tab",
// "Alt-ArrowUp", "Mod-Shift-8" or "Ctrl+Alt+x".
//
// Modifiers are separated from the key by "-" or "+" and may appear in any
// order. Key and modifier names are case-insensitive and accept common
// aliases ("Up", "Cmd", "Return"). Single letters are lowercased; use the
// Shift modifier for capitals.
func Parse(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptySpec
	}

	parts := splitSpec(spec)
	keyPart := parts[len(parts)-1]

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidSpec, p, spec)
		}
		mods = mods.With(mod)
	}

	k, err := parseKey(keyPart)
	if err != nil {
		return Chord{}, fmt.Errorf("%w in %q", err, spec)
	}
	return Chord{Mods: mods, Key: k}, nil
}

// splitSpec splits on "-" and "+", treating a trailing separator as the key
// itself ("Mod--" is Mod with the minus key).
func splitSpec(spec string) []string {
	sep := func(r rune) bool { return r == '-' || r == '+' }
	parts := strings.FieldsFunc(spec, sep)
	if last, _ := utf8.DecodeLastRuneInString(spec); sep(last) {
		if len(spec) == 1 || sep(rune(spec[len(spec)-2])) {
			parts = append(parts, string(last))
		}
	}
	if len(parts) == 0 {
		parts = []string{spec}
	}
	return parts
}

func parseKey(s string) (string, error) {
	if name := NameFromString(s); name != "" {
		return name, nil
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		if r == ' ' {
			return Space, nil
		}
		return string(unicode.ToLower(r)), nil
	}
	return "", fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, s)
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Chord {
	c, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return c
}

// Normalize parses and re-formats a key specification to its canonical form.
func Normalize(spec string) (string, error) {
	c, err := Parse(spec)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}
