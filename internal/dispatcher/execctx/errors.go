package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingEditor indicates the editor is required but not set.
	ErrMissingEditor = errors.New("execution context: editor is required")

	// ErrMissingRoles indicates the list roles are required but not set.
	ErrMissingRoles = errors.New("execution context: list roles are required")

	// ErrReadOnly indicates the document is read-only.
	ErrReadOnly = errors.New("execution context: document is read-only")
)

// ErrStaleTransaction indicates a transaction was built from a document
// that is no longer current.
var ErrStaleTransaction = errors.New("execution context: transaction does not start at the current document")
