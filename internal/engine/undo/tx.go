package undo

import (
	"context"
)

type txKey struct{}

// Tx is the handle of an open transaction. It is only created by the
// Start* methods of an Area and is consumed by Commit or Cancel.
//
// Tx doubles as a scope guard:
//
//	tx, err := area.Start(ctx, "Rename")
//	if err != nil {
//	    return err
//	}
//	defer tx.Close() // cancels unless committed
//	...
//	return tx.Commit()
type Tx struct {
	area *Area
	cmd  *Command
	ctx  context.Context
}

// Context returns a context carrying the transaction. Starting another
// transaction with it, on any area, fails with ErrTransactionAlreadyOpen
// while this transaction is open.
func (tx *Tx) Context() context.Context {
	return tx.ctx
}

// Area returns the area the transaction belongs to.
func (tx *Tx) Area() *Area {
	return tx.area
}

// Command returns the command under construction.
func (tx *Tx) Command() *Command {
	return tx.cmd
}

// Caption returns the transaction caption.
func (tx *Tx) Caption() string {
	return tx.cmd.caption
}

// Visible reports whether the transaction will get its own history entry.
func (tx *Tx) Visible() bool {
	return tx.cmd.visible
}

// Open reports whether the transaction still accepts mutations.
// A nil transaction is never open.
func (tx *Tx) Open() bool {
	return tx != nil && tx.cmd.IsOpen()
}

// Commit closes the transaction and records it in the area's history.
func (tx *Tx) Commit() error {
	if tx == nil {
		return protocolError("", "commit", ErrNoOpenTransaction)
	}
	return tx.area.commit(tx)
}

// Cancel rolls back every mutation made in the transaction and discards it.
func (tx *Tx) Cancel() error {
	if tx == nil {
		return protocolError("", "cancel", ErrNoOpenTransaction)
	}
	return tx.area.cancel(tx)
}

// Close cancels the transaction if it is still open.
// Safe to call multiple times and after Commit.
func (tx *Tx) Close() {
	if tx.Open() {
		_ = tx.Cancel()
	}
}

func (tx *Tx) areaName() string {
	if tx == nil || tx.area == nil {
		return ""
	}
	return tx.area.name
}

// FromContext returns the open transaction carried by ctx, if any.
func FromContext(ctx context.Context) (*Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txKey{}).(*Tx)
	if !ok || !tx.Open() {
		return nil, false
	}
	return tx, true
}
