package selection

import "errors"

// Errors returned by selection operations.
var (
	// ErrNoNode indicates a node selection at a position with no node after it.
	ErrNoNode = errors.New("selection: no node at position")

	// ErrTextNode indicates a node selection of a text node.
	ErrTextNode = errors.New("selection: cannot select a text node")
)
