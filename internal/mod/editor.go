package mod

import (
	"context"
	"fmt"

	"github.com/dshills/modstudio/internal/engine/undo"
)

// Editor applies user gestures to a document as undoable commands.
type Editor struct {
	doc  *Document
	area *undo.Area
}

// NewEditor creates an editor recording into area.
func NewEditor(doc *Document, area *undo.Area) *Editor {
	return &Editor{doc: doc, area: area}
}

// Document returns the edited document.
func (e *Editor) Document() *Document {
	return e.doc
}

// Area returns the history the editor records into.
func (e *Editor) Area() *undo.Area {
	return e.area
}

// Do runs fn as one visible command. The command is canceled if fn fails.
func (e *Editor) Do(ctx context.Context, caption string, fn func(tx *undo.Tx, d *Document) error) error {
	return e.area.Transaction(ctx, caption, func(tx *undo.Tx) error {
		return fn(tx, e.doc)
	})
}

// Drag moves an object to pos. Consecutive drags of the same object with
// nothing recorded in between collapse into a single history entry.
func (e *Editor) Drag(ctx context.Context, id string, pos Vec3) error {
	o, err := e.doc.lookup(id)
	if err != nil {
		return err
	}
	tx, err := e.area.StartWithOwner(ctx, dragCaption(id), o)
	if err != nil {
		return err
	}
	defer tx.Close()

	if err := o.Position.Set(tx, pos); err != nil {
		return err
	}
	return tx.Commit()
}

func dragCaption(id string) string {
	return fmt.Sprintf("Drag %s", id)
}

// MoveAndSelect moves an object and makes it the selection. Only the move
// gets a history entry; undoing it also restores the previous selection.
func (e *Editor) MoveAndSelect(ctx context.Context, id string, pos Vec3) error {
	err := e.Do(ctx, "Move", func(tx *undo.Tx, d *Document) error {
		return d.MoveObject(tx, id, pos)
	})
	if err != nil {
		return err
	}

	tx, err := e.area.StartInvisible(ctx, "Select")
	if err != nil {
		return err
	}
	defer tx.Close()

	if err := e.doc.Select(tx, id); err != nil {
		return err
	}
	return tx.Commit()
}
