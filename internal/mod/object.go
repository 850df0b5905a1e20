package mod

import "github.com/dshills/modstudio/internal/engine/tracked"

// Object is a named entity placed in the scene.
type Object struct {
	// ID is the stable identifier used by selection and lookups.
	ID string

	// Name is the display name.
	Name *tracked.Cell[string]

	// Position is the object's location.
	Position *tracked.Cell[Vec3]
}

// NewObject creates an object at the origin.
func NewObject(id, name string) *Object {
	return &Object{
		ID:       id,
		Name:     tracked.NewCell(name),
		Position: tracked.NewCell(Vec3{}),
	}
}
