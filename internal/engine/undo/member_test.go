package undo_test

import (
	"github.com/dshills/modstudio/internal/engine/undo"
)

// recorder is a scalar member that traces its callbacks.
type recorder struct {
	undo.Identity
	name  string
	value int
	trace *[]string
}

func newRecorder(name string, v int, trace *[]string) *recorder {
	return &recorder{Identity: undo.NewIdentity(), name: name, value: v, trace: trace}
}

func (r *recorder) set(tx *undo.Tx, v int) error {
	_, err := undo.Enlist[*undo.Pair[int]](tx, r, func() *undo.Pair[int] {
		return undo.NewPair(r.value)
	})
	if err != nil {
		return err
	}
	r.value = v
	return nil
}

func (r *recorder) OnCommit(p *undo.Pair[int]) {
	p.New = r.value
	*r.trace = append(*r.trace, "commit "+r.name)
}

func (r *recorder) OnUndo(p *undo.Pair[int]) {
	r.value = p.Old
	*r.trace = append(*r.trace, "undo "+r.name)
}

func (r *recorder) OnRedo(p *undo.Pair[int]) {
	r.value = p.New
	*r.trace = append(*r.trace, "redo "+r.name)
}
