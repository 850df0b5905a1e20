package undo

import (
	"errors"
	"fmt"
)

// Sentinel errors for transaction protocol violations.
var (
	// ErrNoOpenTransaction is returned when a mutation, commit or cancel is
	// attempted without an open transaction.
	ErrNoOpenTransaction = errors.New("no open transaction")

	// ErrTransactionAlreadyOpen is returned when a transaction is started
	// while another one is open on the same area or transaction context,
	// or while an area is replaying member callbacks.
	ErrTransactionAlreadyOpen = errors.New("transaction already open")

	// ErrInvalidHistoryBound is returned when the history bound is negative
	// or changed while a transaction is open.
	ErrInvalidHistoryBound = errors.New("invalid history bound")
)

// ProtocolError describes a violation of the start/mutate/commit protocol.
// It wraps ErrNoOpenTransaction or ErrTransactionAlreadyOpen.
type ProtocolError struct {
	// Area is the name of the area involved, if known.
	Area string

	// Op is the operation that was attempted (start, commit, enlist, ...).
	Op string

	// Err is the underlying sentinel error.
	Err error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	if e.Area == "" {
		return fmt.Sprintf("undo: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("undo: area %q: %s: %v", e.Area, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ConfigurationError describes an invalid area setting.
type ConfigurationError struct {
	Area    string
	Setting string
	Value   int
	Err     error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("undo: area %q: %s=%d: %v", e.Area, e.Setting, e.Value, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func protocolError(area, op string, err error) error {
	return &ProtocolError{Area: area, Op: op, Err: err}
}
