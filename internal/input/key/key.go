package key

import "strings"

// Named keys. Other keys are written as the single character they produce.
const (
	Enter      = "Enter"
	Backspace  = "Backspace"
	Delete     = "Delete"
	Tab        = "Tab"
	Escape     = "Escape"
	Space      = "Space"
	ArrowUp    = "ArrowUp"
	ArrowDown  = "ArrowDown"
	ArrowLeft  = "ArrowLeft"
	ArrowRight = "ArrowRight"
	Home       = "Home"
	End        = "End"
	PageUp     = "PageUp"
	PageDown   = "PageDown"
)

// keyNames maps lowercase key names and aliases to canonical key names.
var keyNames = map[string]string{
	"enter":      Enter,
	"return":     Enter,
	"cr":         Enter,
	"backspace":  Backspace,
	"bs":         Backspace,
	"delete":     Delete,
	"del":        Delete,
	"tab":        Tab,
	"escape":     Escape,
	"esc":        Escape,
	"space":      Space,
	"arrowup":    ArrowUp,
	"up":         ArrowUp,
	"arrowdown":  ArrowDown,
	"down":       ArrowDown,
	"arrowleft":  ArrowLeft,
	"left":       ArrowLeft,
	"arrowright": ArrowRight,
	"right":      ArrowRight,
	"home":       Home,
	"end":        End,
	"pageup":     PageUp,
	"pgup":       PageUp,
	"pagedown":   PageDown,
	"pgdn":       PageDown,
}

// NameFromString returns the canonical name of a named key, or "" if s
// names no key.
func NameFromString(s string) string {
	return keyNames[strings.ToLower(strings.TrimSpace(s))]
}

// IsNamed reports whether name is a canonical named key.
func IsNamed(name string) bool {
	return NameFromString(name) == name && name != ""
}
