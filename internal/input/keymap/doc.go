// Package keymap provides key binding management for list editing.
//
// The keymap system maps key chords to dispatcher actions. Keymaps are
// layered: the default list keymap sits at priority 0 and a user keymap
// loaded from YAML sits above it.
//
// # Key Concepts
//
// Keymap: A named collection of bindings with a priority and source.
//
// Binding: Maps a chord to an action. A binding with an empty action
// unbinds the chord in lower layers.
//
// Registry: Holds all keymaps and resolves a pressed chord to an action.
//
// # Binding Precedence
//
// When multiple bindings match a chord, precedence is determined by:
//  1. Keymap priority * 100 + binding priority (higher wins)
//  2. Registration order (later wins)
//
// # Chords
//
// Chords use the key package notation. The abstract Mod modifier resolves
// to Meta on macOS and Ctrl elsewhere, so "Mod-Enter" and "Ctrl-Enter" are
// the same chord on Linux.
//
// # Usage
//
//	reg, err := keymap.Load(cfg.Keymap.File)
//	if err != nil {
//	    return err
//	}
//	b, err := reg.Lookup("Mod-Shift-8")
//	if err == nil && b != nil {
//	    // dispatch b.Action
//	}
package keymap
