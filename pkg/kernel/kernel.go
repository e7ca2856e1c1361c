// Package kernel defines the abstract extrusion kernel interface.
// Implementations (sdfx, manifold) turn 2D outlines into solids and
// solids into triangle meshes. The kernel abstraction lets the pizza
// model swap backends without touching the geometry code.
package kernel

import "github.com/chazu/pizzamaker/pkg/geometry"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Extrude sweeps the outline (and its hole) along +Z, producing a prism
	// spanning z in [0, depth]. An empty outline yields an empty solid.
	Extrude(o geometry.Outline, depth float64) Solid

	Union(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// Exporter is implemented by kernels that can write a solid to an STL file.
type Exporter interface {
	ExportSTL(s Solid, path string) error
}

// emptySolid stands in for a solid extruded from an empty outline.
// It carries a field so distinct values never share an address.
type emptySolid struct {
	_ byte
}

func (*emptySolid) BoundingBox() (min, max [3]float64) {
	return min, max
}

// Empty returns a new solid with no volume. Every kernel transforms it to
// itself and tessellates it to an empty mesh.
func Empty() Solid {
	return &emptySolid{}
}

// IsEmpty reports whether s is nil or was produced by Empty.
func IsEmpty(s Solid) bool {
	if s == nil {
		return true
	}
	_, ok := s.(*emptySolid)
	return ok
}

// Reorient lays an extruded solid flat: the extrusion axis (+Z) becomes the
// up-axis (+Y) after a -90° rotation about X.
func Reorient(k Kernel, s Solid) Solid {
	return k.Rotate(s, -90, 0, 0)
}

// ExtrudeProfile extrudes a profile and reorients it so its flat faces lie
// horizontal.
func ExtrudeProfile(k Kernel, p geometry.Profile) Solid {
	if p.Outline.IsEmpty() {
		return Empty()
	}
	return Reorient(k, k.Extrude(p.Outline, p.Depth))
}
