package model

import "errors"

// Errors returned by model operations.
var (
	// ErrOutOfRange indicates a position outside the document's content.
	ErrOutOfRange = errors.New("model: position out of range")

	// ErrSchemaViolation indicates a node whose content does not match its type.
	ErrSchemaViolation = errors.New("model: schema violation")

	// ErrUnknownType indicates a node or mark type name the schema does not define.
	ErrUnknownType = errors.New("model: unknown type")

	// ErrInvalidContent indicates a malformed content expression.
	ErrInvalidContent = errors.New("model: invalid content expression")

	// ErrMissingAttr indicates a required attribute without a default was not given.
	ErrMissingAttr = errors.New("model: missing required attribute")
)
