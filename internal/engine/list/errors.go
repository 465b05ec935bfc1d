package list

import "errors"

// Errors returned by list transforms. A transform that simply does not
// apply is not an error; see Result.
var (
	// ErrSchemaMismatch indicates a role type name the schema does not define.
	ErrSchemaMismatch = errors.New("list: schema does not define role type")

	// ErrNoSelection indicates a state without a selection.
	ErrNoSelection = errors.New("list: state has no selection")

	// ErrNoProgress indicates a transform loop that kept rewriting the
	// document without finishing, which only a malformed document causes.
	ErrNoProgress = errors.New("list: transform made no progress")
)
