// Package transform records edits to a document as a sequence of steps.
//
// A Transaction starts from a document and a selection. Each call to
// Replace applies a ReplaceStep immutably, producing a new document that
// shares every untouched subtree with the previous one, and appends the
// step's StepMap to the transaction's Mapping. The mapping carries positions
// from the starting document to the current one.
//
// Transforms that restructure the tree set the resulting selection
// explicitly, usually by locating a textblock in the new document by
// identity (see LocateText). When no selection is set, Selection maps the
// starting selection through the transaction.
package transform
