package mod

import "errors"

var (
	// ErrObjectNotFound is returned when an object id is not in the document.
	ErrObjectNotFound = errors.New("object not found")

	// ErrDuplicateObject is returned when adding an object whose id is taken.
	ErrDuplicateObject = errors.New("duplicate object id")

	// ErrEmptyID is returned when adding an object without an id.
	ErrEmptyID = errors.New("empty object id")
)
