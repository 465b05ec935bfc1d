// Package list provides the dispatcher handler for list editing actions.
//
// Every action is backed by a fallback chain of transforms from the engine's
// list package. The chain is tried in order against the editor's current
// state and the first transform that applies wins: its transaction is
// committed through the editor and the action returns StatusOK with the
// transaction attached. When no transform applies the action returns
// StatusNoOp with the reason of the last transform tried, which tells a host
// to fall back to its default key behaviour.
//
// # Actions
//
//   - list.enter (Enter): split the item at the cursor. An empty item is
//     outdented, or leaves the list when it is already top level
//   - list.backspace (Backspace): at the start of an item, merge it into the
//     previous one or outdent it. At the start of a textblock directly after
//     a list, join the textblock into the list's last item
//   - list.indent (Tab): nest the selected items under their previous sibling
//   - list.outdent (Shift-Tab): lift the selected items one level
//   - list.moveUp (Alt-ArrowUp), list.moveDown (Alt-ArrowDown): swap the
//     selected items with their neighbour
//   - list.toggleBulletList, list.toggleOrderedList: wrap, convert or unwrap
//     the selected textblocks
//   - list.insertEmptyAbove, list.insertEmptyBelow: add an empty sibling item
//   - list.toggleTodoList: turn the selected items into todo items or back
//   - list.toggleTodoChecked: flip the checked state of a todo item
//
// Commands maps the command names used in key bindings ("Tab",
// "toggleBulletList", ...) to these action names.
//
// # Counts and dry runs
//
// The execution context's count repeats the chain, stopping at the first
// round in which nothing applies. The result's Data records how many rounds
// applied under DataApplied. With DryRun set nothing is committed; each
// round works on the previous round's output and the last transaction is
// returned for inspection.
package list
