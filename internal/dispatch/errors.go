package dispatch

import "errors"

// Logical error kinds of the dispatch core. The HTTP boundary matches them
// with errors.Is and maps them to its own status vocabulary.
var (
	// ErrNotFound: the referenced incident does not exist.
	ErrNotFound = errors.New("incident not found")
	// ErrInvalidInput: a required field is missing or no candidate was selected.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidRadius: the query radius lies outside (0, 50].
	ErrInvalidRadius = errors.New("invalid radius")
	// ErrMissingLocation: the incident has no coordinate so distances cannot
	// be computed.
	ErrMissingLocation = errors.New("incident has no coordinates")
	// ErrPersistence: the write transaction failed and nothing was committed.
	ErrPersistence = errors.New("persistence failure")
)
