// Package undo provides the transactional undo/redo engine of the studio.
//
// Arbitrary mutable state takes part in grouped, reversible changes by
// implementing the Trackable capability. Changes are isolated into Areas,
// each with its own history.
//
// # Transactions
//
// A transaction is opened on an Area and handed to every mutation:
//
//	tx, err := area.Start(ctx, "Move object")
//	if err != nil {
//	    return err
//	}
//	defer tx.Close() // cancels unless committed
//
//	if err := position.Set(tx, newPos); err != nil {
//	    return err
//	}
//	return tx.Commit()
//
// The first mutation of a member inside a transaction enlists it and
// captures its prior state; later mutations reuse that payload. Commit
// finalizes every payload from the members' live values and appends the
// command to history. Cancel rolls the mutations back.
//
// Only one transaction may be open per Area, and tx.Context() carries the
// open transaction so that starting a second one from the same call chain,
// on any Area, fails with ErrTransactionAlreadyOpen.
//
// # Payloads
//
// Members store one of three payload shapes: Pair (scalar before/after),
// Snapshot (sequence before/after) and MapLog (key-level change log).
//
// # Invisible commands and affinity
//
// StartInvisible opens a transaction whose changes are merged into the
// command at the cursor, so side effects such as a selection change undo
// together with the edit that caused them. Undo unwinds merged changes
// first; Redo reapplies them last.
//
// StartWithOwner merges a transaction into the previous command when the
// owner and caption repeat, collapsing a drag into one history entry.
//
// # Default area
//
// Package-level functions (Start, Commit, Undo, ...) forward to a
// process-wide default Area; see Default and SetDefault.
package undo
