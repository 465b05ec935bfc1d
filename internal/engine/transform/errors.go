package transform

import "errors"

// Errors returned by transform operations.
var (
	// ErrNotFlat indicates a replace whose endpoints do not share a parent.
	ErrNotFlat = errors.New("transform: replace endpoints are in different parents")

	// ErrRangeInvalid indicates a replace with from > to.
	ErrRangeInvalid = errors.New("transform: invalid range")
)
