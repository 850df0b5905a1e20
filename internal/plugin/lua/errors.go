package lua

import "errors"

// Errors for runtime operations.
var (
	// ErrStateClosed is returned when operating on a closed runtime.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a chunk runs past its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")
)
