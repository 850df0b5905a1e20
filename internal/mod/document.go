package mod

import (
	"fmt"
	"slices"

	"github.com/dshills/modstudio/internal/engine/tracked"
	"github.com/dshills/modstudio/internal/engine/undo"
)

// Document is an editable scene.
type Document struct {
	// Title is the document title.
	Title *tracked.Cell[string]

	// Objects holds the scene objects in z-order.
	Objects *tracked.List[*Object]

	// Selection holds the ids of the selected objects.
	Selection *tracked.List[string]

	// Properties holds free-form document metadata.
	Properties *tracked.Map[string, string]
}

// NewDocument creates an empty document.
func NewDocument(title string) *Document {
	return &Document{
		Title:      tracked.NewCell(title),
		Objects:    tracked.NewList[*Object](),
		Selection:  tracked.NewList[string](),
		Properties: tracked.NewMap[string, string](nil),
	}
}

// Object returns the object with the given id.
func (d *Document) Object(id string) (*Object, bool) {
	i := d.index(id)
	if i < 0 {
		return nil, false
	}
	return d.Objects.At(i), true
}

func (d *Document) index(id string) int {
	return d.Objects.IndexFunc(func(o *Object) bool { return o.ID == id })
}

func (d *Document) lookup(id string) (*Object, error) {
	o, ok := d.Object(id)
	if !ok {
		return nil, fmt.Errorf("object %q: %w", id, ErrObjectNotFound)
	}
	return o, nil
}

// AddObject appends a new object named name.
func (d *Document) AddObject(tx *undo.Tx, id, name string) (*Object, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if d.index(id) >= 0 {
		return nil, fmt.Errorf("object %q: %w", id, ErrDuplicateObject)
	}
	o := NewObject(id, name)
	if err := d.Objects.Append(tx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// RemoveObject removes the object and drops it from the selection.
func (d *Document) RemoveObject(tx *undo.Tx, id string) error {
	i := d.index(id)
	if i < 0 {
		return fmt.Errorf("object %q: %w", id, ErrObjectNotFound)
	}
	if _, err := d.Objects.RemoveAt(tx, i); err != nil {
		return err
	}
	_, err := d.Selection.RemoveFunc(tx, func(s string) bool { return s == id })
	return err
}

// MoveObject sets the position of an object.
func (d *Document) MoveObject(tx *undo.Tx, id string, pos Vec3) error {
	o, err := d.lookup(id)
	if err != nil {
		return err
	}
	return o.Position.Set(tx, pos)
}

// RenameObject sets the display name of an object.
func (d *Document) RenameObject(tx *undo.Tx, id, name string) error {
	o, err := d.lookup(id)
	if err != nil {
		return err
	}
	return o.Name.Set(tx, name)
}

// Select replaces the selection with ids. Duplicates are dropped and every
// id must name an existing object.
func (d *Document) Select(tx *undo.Tx, ids ...string) error {
	sel := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := d.lookup(id); err != nil {
			return err
		}
		if !slices.Contains(sel, id) {
			sel = append(sel, id)
		}
	}
	return d.Selection.Replace(tx, sel)
}

// SetProperty stores a document property.
func (d *Document) SetProperty(tx *undo.Tx, key, value string) error {
	return d.Properties.Set(tx, key, value)
}

// DeleteProperty removes a document property and reports whether it existed.
func (d *Document) DeleteProperty(tx *undo.Tx, key string) (bool, error) {
	return d.Properties.Delete(tx, key)
}

// ObjectView is a read-only copy of an object.
type ObjectView struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Position Vec3   `yaml:"position"`
}

// View is a read-only copy of a document, suitable for printing.
type View struct {
	Title      string            `yaml:"title"`
	Objects    []ObjectView      `yaml:"objects"`
	Selection  []string          `yaml:"selection"`
	Properties map[string]string `yaml:"properties"`
}

// View returns a copy of the current document state.
func (d *Document) View() View {
	v := View{
		Title:      d.Title.Get(),
		Objects:    make([]ObjectView, 0, d.Objects.Len()),
		Selection:  d.Selection.Items(),
		Properties: d.Properties.Clone(),
	}
	for o := range d.Objects.Values() {
		v.Objects = append(v.Objects, ObjectView{
			ID:       o.ID,
			Name:     o.Name.Get(),
			Position: o.Position.Get(),
		})
	}
	if v.Selection == nil {
		v.Selection = []string{}
	}
	return v
}

// PropertyKeys returns the property keys in sorted order.
func (d *Document) PropertyKeys() []string {
	return slices.Sorted(d.Properties.Keys())
}
