package mod

import "fmt"

// Vec3 is a position in scene space.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Add returns v translated by d.
func (v Vec3) Add(d Vec3) Vec3 {
	return Vec3{X: v.X + d.X, Y: v.Y + d.Y, Z: v.Z + d.Z}
}

// String formats the vector as (x, y, z).
func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
