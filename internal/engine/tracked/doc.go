// Package tracked provides containers that take part in undo transactions.
//
// Cell, List and Map wrap a plain value, slice or map. Every mutation takes
// the open *undo.Tx; the first mutation of a container inside a transaction
// enlists it and captures its prior state:
//
//   - Cell stores an undo.Pair with the value before and after.
//   - List stores an undo.Snapshot of the whole sequence, taken once per
//     transaction no matter how many mutations follow.
//   - Map stores an undo.MapLog of key-level operations, avoiding a copy of
//     the whole map.
//
// Mutating without an open transaction returns undo.ErrNoOpenTransaction.
// Containers are not safe for concurrent use.
package tracked
