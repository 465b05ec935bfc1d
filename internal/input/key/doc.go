// Package key parses key chord specifications such as "Mod-Shift-8" and
// "Alt-ArrowUp" into Chords with a canonical string form.
//
// "Mod" stands for the platform's primary modifier and is kept abstract so
// one key map serves every platform; Chord.Resolve binds it to Meta on macOS
// and Ctrl elsewhere.
package key
