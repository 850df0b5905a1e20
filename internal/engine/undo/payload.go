package undo

import "slices"

// Kind identifies the shape of a change payload.
type Kind uint8

const (
	// KindScalar is a before/after pair of a single value.
	KindScalar Kind = iota

	// KindSequence is a before/after snapshot of an ordered sequence.
	KindSequence

	// KindMapping is an ordered log of key-level map changes.
	KindMapping
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Payload is the closed set of change shapes a command can store:
// *Pair, *Snapshot and *MapLog.
type Payload interface {
	Kind() Kind
	sealed()
}

// Pair records a value before and after a transaction.
// New is filled in at commit time, not at mutation time.
type Pair[T any] struct {
	Old T
	New T
}

// NewPair returns a pair capturing old as the prior state.
func NewPair[T any](old T) *Pair[T] {
	return &Pair[T]{Old: old}
}

// Kind implements Payload.
func (*Pair[T]) Kind() Kind { return KindScalar }

func (*Pair[T]) sealed() {}

// Snapshot records the content of an ordered sequence before and after a
// transaction. Copies are shallow: element identities are preserved.
type Snapshot[T any] struct {
	Old []T
	New []T
}

// NewSnapshot returns a snapshot holding a copy of items as prior state.
func NewSnapshot[T any](items []T) *Snapshot[T] {
	return &Snapshot[T]{Old: slices.Clone(items)}
}

// Kind implements Payload.
func (*Snapshot[T]) Kind() Kind { return KindSequence }

func (*Snapshot[T]) sealed() {}

// MapOp is a single key-level change recorded in a MapLog.
type MapOp[K comparable, V any] struct {
	Key    K
	Old    V
	HadOld bool
	New    V
	HasNew bool
}

// MapLog records map mutations in the order they happened.
type MapLog[K comparable, V any] struct {
	ops []MapOp[K, V]
}

// NewMapLog returns an empty log.
func NewMapLog[K comparable, V any]() *MapLog[K, V] {
	return &MapLog[K, V]{}
}

// Kind implements Payload.
func (*MapLog[K, V]) Kind() Kind { return KindMapping }

func (*MapLog[K, V]) sealed() {}

// Record appends an operation to the log.
func (l *MapLog[K, V]) Record(op MapOp[K, V]) {
	l.ops = append(l.ops, op)
}

// Len returns the number of recorded operations.
func (l *MapLog[K, V]) Len() int {
	return len(l.ops)
}

// Ops returns a copy of the recorded operations.
func (l *MapLog[K, V]) Ops() []MapOp[K, V] {
	return slices.Clone(l.ops)
}

// Unapply reverts the log against m, newest operation first.
func (l *MapLog[K, V]) Unapply(m map[K]V) {
	for i := len(l.ops) - 1; i >= 0; i-- {
		op := l.ops[i]
		if op.HadOld {
			m[op.Key] = op.Old
		} else {
			delete(m, op.Key)
		}
	}
}

// Apply replays the log against m, oldest operation first.
func (l *MapLog[K, V]) Apply(m map[K]V) {
	for _, op := range l.ops {
		if op.HasNew {
			m[op.Key] = op.New
		} else {
			delete(m, op.Key)
		}
	}
}
