package undo

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action identifies what completed in an area.
type Action int

const (
	// ActionCommit indicates a transaction was committed.
	ActionCommit Action = iota

	// ActionUndo indicates a command was undone.
	ActionUndo

	// ActionRedo indicates a command was redone.
	ActionRedo

	// ActionClear indicates the history was cleared.
	ActionClear

	// ActionTrim indicates a smaller history bound evicted commands.
	ActionTrim
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionCommit:
		return "commit"
	case ActionUndo:
		return "undo"
	case ActionRedo:
		return "redo"
	case ActionClear:
		return "clear"
	case ActionTrim:
		return "trim"
	default:
		return "unknown"
	}
}

// Done describes a completed action. Clear and trim events carry no
// command, so Caption and CommandID are zero.
type Done struct {
	// Area is the name of the area the action happened on.
	Area string

	// AreaID identifies the area.
	AreaID uuid.UUID

	// Action is what completed.
	Action Action

	// Caption is the caption of the affected command.
	Caption string

	// CommandID identifies the affected command.
	CommandID uuid.UUID

	// Visible is false for invisible commits that were merged or dropped.
	Visible bool

	// Cursor and HistoryLen describe the area after the action.
	Cursor     int
	HistoryLen int

	// Time is when the action completed.
	Time time.Time
}

// Observer is called when an action completes.
type Observer func(done Done)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type observerEntry struct {
	id       uint64
	observer Observer
}

// Notifier delivers Done events to subscribed observers synchronously, in
// subscription order.
type Notifier struct {
	mu        sync.RWMutex
	observers []observerEntry
	nextID    uint64
}

// NewNotifier creates a new Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers = append(n.observers, observerEntry{id: id, observer: observer})

	return &Subscription{id: id, notifier: n}
}

// Notify delivers done to every observer.
// The observer list is copied first so observers may unsubscribe.
func (n *Notifier) Notify(done Done) {
	n.mu.RLock()
	observers := make([]Observer, len(n.observers))
	for i, e := range n.observers {
		observers[i] = e.observer
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(done)
	}
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.observers)
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, e := range n.observers {
		if e.id == id {
			n.observers = append(n.observers[:i], n.observers[i+1:]...)
			return
		}
	}
}
