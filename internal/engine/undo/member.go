package undo

import (
	"github.com/google/uuid"
)

// Member is anything that can be enlisted into a transaction.
// Members are identified by their handle, never compared by value.
type Member interface {
	MemberID() uuid.UUID
}

// Trackable is the capability a mutable container implements to receive
// notifications for the payload it stored in a command.
//
// OnCommit runs once after a transaction closes successfully and finalizes
// the payload from the member's live value; it must not mutate the member.
// OnUndo restores the captured prior state and OnRedo reapplies the final
// state. None of the three may start a transaction.
type Trackable[P Payload] interface {
	Member
	OnCommit(p P)
	OnUndo(p P)
	OnRedo(p P)
}

// Identity is a stable member handle. Containers embed it to satisfy Member.
type Identity struct {
	id uuid.UUID
}

// NewIdentity returns a fresh identity handle.
func NewIdentity() Identity {
	return Identity{id: uuid.New()}
}

// MemberID returns the handle's UUID.
func (i Identity) MemberID() uuid.UUID {
	return i.id
}
