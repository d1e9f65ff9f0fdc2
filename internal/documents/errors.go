package documents

import "errors"

var (
	// ErrInvalidInput marks rejected caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a missing document.
	ErrNotFound = errors.New("document not found")
)
