package tracked

import (
	"errors"
	"fmt"

	"github.com/dshills/modstudio/internal/engine/undo"
)

// ErrIndexOutOfRange is returned when a list index is outside the valid range.
var ErrIndexOutOfRange = errors.New("index out of range")

func indexError(op string, index, length int) error {
	return fmt.Errorf("%s: index %d with length %d: %w", op, index, length, ErrIndexOutOfRange)
}

// requireOpen rejects mutations outside an open transaction before any
// validation that could otherwise hide the protocol violation.
func requireOpen(tx *undo.Tx, op string) error {
	if !tx.Open() {
		return &undo.ProtocolError{Op: op, Err: undo.ErrNoOpenTransaction}
	}
	return nil
}
