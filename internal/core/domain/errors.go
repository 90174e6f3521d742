package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not available for a tracker.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown tracker, renderer or output format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidTemplate indicates a template document does not follow the grammar.
	ErrInvalidTemplate = errors.New("invalid template")

	// Authentication Errors.

	// ErrAuthRequired indicates the tracker requires authentication but none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Resource Resolution Errors.
	// These never abort a normalisation; they are reported per image.

	// ErrNoPatternMatch indicates an image reference matched no known attachment shape.
	ErrNoPatternMatch = errors.New("no attachment pattern matched")

	// ErrAttachmentNotFound indicates a referenced attachment is not part of the record.
	ErrAttachmentNotFound = errors.New("attachment not found")
)
