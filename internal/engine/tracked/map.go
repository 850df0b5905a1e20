package tracked

import (
	"iter"
	"maps"

	"github.com/dshills/modstudio/internal/engine/undo"
)

// Map is a trackable key-unique mapping.
//
// Mutations are recorded as a change log rather than a full snapshot:
// undo replays the log backwards, redo forwards.
type Map[K comparable, V any] struct {
	undo.Identity
	m map[K]V
}

// NewMap creates a map holding a copy of init.
func NewMap[K comparable, V any](init map[K]V) *Map[K, V] {
	m := maps.Clone(init)
	if m == nil {
		m = make(map[K]V)
	}
	return &Map[K, V]{Identity: undo.NewIdentity(), m: m}
}

// Get returns the value stored under k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.m[k]
	return v, ok
}

// Has reports whether k is present.
func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.m[k]
	return ok
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.m)
}

// Keys iterates over the keys in unspecified order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return maps.Keys(m.m)
}

// All iterates over the entries in unspecified order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return maps.All(m.m)
}

// Clone returns a copy of the entries.
func (m *Map[K, V]) Clone() map[K]V {
	return maps.Clone(m.m)
}

func (m *Map[K, V]) log(tx *undo.Tx) (*undo.MapLog[K, V], error) {
	return undo.Enlist[*undo.MapLog[K, V]](tx, m, undo.NewMapLog[K, V])
}

// Set stores v under k.
func (m *Map[K, V]) Set(tx *undo.Tx, k K, v V) error {
	log, err := m.log(tx)
	if err != nil {
		return err
	}
	old, had := m.m[k]
	m.m[k] = v
	log.Record(undo.MapOp[K, V]{Key: k, Old: old, HadOld: had, New: v, HasNew: true})
	return nil
}

// Delete removes k and reports whether it was present.
func (m *Map[K, V]) Delete(tx *undo.Tx, k K) (bool, error) {
	if err := requireOpen(tx, "delete"); err != nil {
		return false, err
	}
	old, had := m.m[k]
	if !had {
		return false, nil
	}
	log, err := m.log(tx)
	if err != nil {
		return false, err
	}
	delete(m.m, k)
	log.Record(undo.MapOp[K, V]{Key: k, Old: old, HadOld: true})
	return true, nil
}

// Clear removes every entry.
func (m *Map[K, V]) Clear(tx *undo.Tx) error {
	if err := requireOpen(tx, "clear"); err != nil {
		return err
	}
	if len(m.m) == 0 {
		return nil
	}
	log, err := m.log(tx)
	if err != nil {
		return err
	}
	for k, v := range m.m {
		log.Record(undo.MapOp[K, V]{Key: k, Old: v, HadOld: true})
	}
	clear(m.m)
	return nil
}

// OnCommit implements undo.Trackable. The log is already complete.
func (m *Map[K, V]) OnCommit(*undo.MapLog[K, V]) {}

// OnUndo implements undo.Trackable.
func (m *Map[K, V]) OnUndo(p *undo.MapLog[K, V]) {
	p.Unapply(m.m)
}

// OnRedo implements undo.Trackable.
func (m *Map[K, V]) OnRedo(p *undo.MapLog[K, V]) {
	p.Apply(m.m)
}
