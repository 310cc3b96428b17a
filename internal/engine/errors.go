package engine

import "errors"

// Errors returned by programmatic engine operations. Platform delta
// processing never returns these; it clamps or ignores bad input instead.
var (
	// ErrOffsetOutOfRange is returned when a programmatic edit names an
	// offset outside [0, Len()].
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid is returned when a programmatic edit names an
	// inverted or out-of-bounds range.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrNotConfigured is returned when an operation requires a
	// collaborator the caller never registered.
	ErrNotConfigured = errors.New("engine not configured for operation")
)
