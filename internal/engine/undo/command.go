package undo

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ErrPayloadMismatch is returned when a member is enlisted twice in the same
// command with different payload types.
var ErrPayloadMismatch = errors.New("payload type mismatch")

// entry is a type-erased enlistment stored in a change set.
type entry interface {
	memberID() uuid.UUID
	kind() Kind
	commit()
	undo()
	redo()
}

// enlistment binds a member to the payload it captured.
type enlistment[P Payload] struct {
	member  Trackable[P]
	payload P
}

func (e *enlistment[P]) memberID() uuid.UUID { return e.member.MemberID() }
func (e *enlistment[P]) kind() Kind          { return e.payload.Kind() }
func (e *enlistment[P]) commit()             { e.member.OnCommit(e.payload) }
func (e *enlistment[P]) undo()               { e.member.OnUndo(e.payload) }
func (e *enlistment[P]) redo()               { e.member.OnRedo(e.payload) }

// changeSet is an insertion-ordered member -> entry map.
type changeSet struct {
	order   []uuid.UUID
	entries map[uuid.UUID]entry
}

func newChangeSet() *changeSet {
	return &changeSet{entries: make(map[uuid.UUID]entry)}
}

func (s *changeSet) get(id uuid.UUID) (entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// put stores e. Replacing an existing member keeps its original position.
func (s *changeSet) put(e entry) {
	id := e.memberID()
	if _, ok := s.entries[id]; !ok {
		s.order = append(s.order, id)
	}
	s.entries[id] = e
}

func (s *changeSet) len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

func (s *changeSet) each(fn func(entry)) {
	if s == nil {
		return
	}
	for _, id := range s.order {
		fn(s.entries[id])
	}
}

// Command is a single transaction: the payloads captured for every member
// mutated while it was open, plus the payloads of invisible commands merged
// into it after it was committed.
type Command struct {
	id      uuid.UUID
	caption string
	visible bool
	area    *Area
	created time.Time

	open    atomic.Bool
	changes *changeSet
	merged  *changeSet
}

func newCommand(area *Area, caption string, visible bool) *Command {
	c := &Command{
		id:      uuid.New(),
		caption: caption,
		visible: visible,
		area:    area,
		created: time.Now(),
		changes: newChangeSet(),
	}
	c.open.Store(true)
	return c
}

// ID returns the command's unique identifier.
func (c *Command) ID() uuid.UUID { return c.id }

// Caption returns the user-visible caption.
func (c *Command) Caption() string { return c.caption }

// Visible reports whether the command gets its own history entry.
func (c *Command) Visible() bool { return c.visible }

// Area returns the area that owns the command.
func (c *Command) Area() *Area { return c.area }

// Created returns when the command was started.
func (c *Command) Created() time.Time { return c.created }

// IsOpen reports whether the command still accepts enlistments.
func (c *Command) IsOpen() bool { return c.open.Load() }

// IsEnlisted reports whether m already has a payload in this command.
func (c *Command) IsEnlisted(m Member) bool {
	_, ok := c.changes.get(m.MemberID())
	return ok
}

// HasChanges reports whether at least one member was enlisted.
func (c *Command) HasChanges() bool {
	return c.changes.len() > 0
}

// Members returns the number of members enlisted directly in the command.
func (c *Command) Members() int {
	return c.changes.len()
}

// Merged returns the number of members carried over from merged invisible
// commands.
func (c *Command) Merged() int {
	return c.merged.len()
}

// commit finalizes every payload from its member's live state.
func (c *Command) commit() {
	c.changes.each(func(e entry) { e.commit() })
}

// undo unwinds merged changes before the command's own changes.
func (c *Command) undo() {
	c.merged.each(func(e entry) { e.undo() })
	c.changes.each(func(e entry) { e.undo() })
}

// redo reapplies the command's own changes before merged changes.
func (c *Command) redo() {
	c.changes.each(func(e entry) { e.redo() })
	c.merged.each(func(e entry) { e.redo() })
}

// merge folds other's changes into the merged set. A later merge for the
// same member replaces the earlier payload.
func (c *Command) merge(other *Command) {
	if c.merged == nil {
		c.merged = newChangeSet()
	}
	other.changes.each(c.merged.put)
}

// Enlist returns the payload m holds in the transaction, capturing a new
// one with capture on first enlistment. Repeated mutations of the same
// member inside one transaction therefore accumulate into one payload.
func Enlist[P Payload](tx *Tx, m Trackable[P], capture func() P) (P, error) {
	var zero P
	if !tx.Open() {
		return zero, protocolError(tx.areaName(), "enlist", ErrNoOpenTransaction)
	}
	cmd := tx.cmd
	if e, ok := cmd.changes.get(m.MemberID()); ok {
		en, ok := e.(*enlistment[P])
		if !ok {
			return zero, fmt.Errorf("undo: member %s holds a %s payload: %w", m.MemberID(), e.kind(), ErrPayloadMismatch)
		}
		return en.payload, nil
	}
	p := capture()
	cmd.changes.put(&enlistment[P]{member: m, payload: p})
	return p, nil
}

// PayloadOf returns the payload m captured in cmd, if any.
func PayloadOf[P Payload](cmd *Command, m Trackable[P]) (P, bool) {
	var zero P
	e, ok := cmd.changes.get(m.MemberID())
	if !ok {
		return zero, false
	}
	en, ok := e.(*enlistment[P])
	if !ok {
		return zero, false
	}
	return en.payload, true
}
