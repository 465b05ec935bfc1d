// Package list implements the list editing transforms of richlist: Enter,
// Backspace, Tab, Shift-Tab, moving items, toggling bullet, ordered and todo
// lists, and inserting empty items.
//
// Every transform is a pure function over a State, the immutable document
// tree together with a selection:
//
//	res, err := list.SplitListItem(list.State{Doc: doc, Selection: sel}, roles)
//	if err != nil {
//		// malformed input: out-of-range selection or a schema mismatch
//	}
//	if res.Applied() {
//		doc, sel = res.Doc(), res.Selection()
//	}
//
// A transform that does not apply returns a NotApplicable result carrying a
// Reason instead of an error, so callers can chain fallbacks. Errors are
// reserved for selections outside the document (model.ErrOutOfRange) and for
// schemas lacking the node types named in Roles (ErrSchemaMismatch).
//
// # Roles
//
// Roles binds the transforms to the node types of a schema: the list item,
// the bullet and ordered lists, the paragraph and optionally a heading type.
// Roles.MaxDepth limits how deep Tab may nest a list.
//
// # Decision tables
//
// Enter and Backspace inside a list item are dispatched through explicit
// DecisionTables keyed by Predicates. Every one of the 32 predicate
// combinations maps to a single Action, which keeps the behaviour auditable.
//
// # Selections
//
// Transforms re-derive the resulting selection from the new tree. Selection
// endpoints are tracked by the textblock holding them, so a cursor follows
// its text when the text is moved into another item or list. The direction
// of a range selection is kept.
//
// # Todo items
//
// A list item's todoChecked attribute is nil for a plain item and false or
// true for a todo item. Changing a list's type strips it, moving or
// indenting an item keeps it, and items moving into an ordered list lose it.
package list
