// Package apperr defines the sentinel errors shared across Inkpot layers.
package apperr

import "errors"

var (
	// ErrNotFound: the operation referenced an id absent from the relevant
	// store or index, including restore attempts on a purged note.
	ErrNotFound = errors.New("not found")

	// ErrValidation: user-supplied input was rejected before it reached
	// the storage layer.
	ErrValidation = errors.New("validation failed")
)
