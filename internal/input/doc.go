// Package input defines the actions that flow from user input to the
// dispatcher.
//
// An Action names a command ("list.indent", "list.toggleBulletList") and
// carries the key chord that produced it, a repeat count and free-form
// arguments. Key chords are bound to action names by the keymap package;
// chord syntax lives in the key package.
//
// # Usage
//
//	action := input.NewAction("list.indent", input.SourceKeyboard).
//	    WithKey("Tab").
//	    WithCount(2)
//	result := dispatcher.Dispatch(action)
package input
