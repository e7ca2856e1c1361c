// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/pizzamaker/pkg/geometry"
	"github.com/chazu/pizzamaker/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel   = (*SdfxKernel)(nil)
	_ kernel.Exporter = (*SdfxKernel)(nil)
)

// DefaultMeshCells controls marching cubes tessellation resolution along
// the longest side of the solid's bounding box.
const DefaultMeshCells = 200

// vertexTolerance merges consecutive outline points closer than this.
const vertexTolerance = 1e-9

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithMeshCells sets the marching cubes resolution. Values below 1 keep the
// default.
func WithMeshCells(n int) Option {
	return func(k *SdfxKernel) {
		if n > 0 {
			k.cells = n
		}
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{cells: DefaultMeshCells}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
// Empty solids unwrap to nil.
func unwrap(s kernel.Solid) sdf.SDF3 {
	if kernel.IsEmpty(s) {
		return nil
	}
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// cleanVertices drops repeated consecutive points, including a last point
// that repeats the first. sdfx polygons close themselves and a zero-length
// edge has no direction.
func cleanVertices(pts []v2.Vec) []v2.Vec {
	out := make([]v2.Vec, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && samePoint(out[len(out)-1], p) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && samePoint(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func samePoint(a, b v2.Vec) bool {
	return math.Abs(a.X-b.X) < vertexTolerance && math.Abs(a.Y-b.Y) < vertexTolerance
}

// polygon builds an SDF2 from a vertex list, or returns nil if fewer than
// three distinct vertices remain or sdfx rejects the outline.
func polygon(pts []v2.Vec) sdf.SDF2 {
	pts = cleanVertices(pts)
	if len(pts) < 3 {
		return nil
	}
	s, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil
	}
	return s
}

// Extrude sweeps the outline along Z. sdf.Extrude3D centers the prism on
// z=0, so it is shifted up by half the depth to start at the origin.
func (k *SdfxKernel) Extrude(o geometry.Outline, depth float64) kernel.Solid {
	if depth <= 0 {
		return kernel.Empty()
	}
	profile := polygon(o.Points)
	if profile == nil {
		return kernel.Empty()
	}
	if o.HasHole() {
		if hole := polygon(o.Hole); hole != nil {
			profile = sdf.Difference2D(profile, hole)
		}
	}
	s := sdf.Extrude3D(profile, depth)
	m := sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: depth / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	switch {
	case kernel.IsEmpty(a):
		return b
	case kernel.IsEmpty(b):
		return a
	}
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	if kernel.IsEmpty(s) {
		return s
	}
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	if kernel.IsEmpty(s) {
		return s
	}
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	if kernel.IsEmpty(s) {
		return &kernel.Mesh{}, nil
	}
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// ExportSTL renders the solid with marching cubes and writes it as STL.
func (k *SdfxKernel) ExportSTL(s kernel.Solid, path string) error {
	if kernel.IsEmpty(s) {
		return fmt.Errorf("sdfx: nothing to export to %s: solid is empty", path)
	}
	render.ToSTL(unwrap(s), path, render.NewMarchingCubesUniform(k.cells))
	return nil
}
