//go:build manifold

// Package manifold provides a CGo-based geometry kernel binding to the
// Manifold library (https://github.com/elalish/manifold). Manifold
// extrudes cross-sections into guaranteed-manifold meshes, which makes it
// a good fit for printing exported pizzas.
//
// This package requires the Manifold C library (manifoldc) to be installed.
// Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/chazu/pizzamaker/pkg/geometry"
	"github.com/chazu/pizzamaker/pkg/kernel"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*ManifoldKernel)(nil)
var _ kernel.Solid = (*manifoldSolid)(nil)

// manifoldSolid wraps a C ManifoldManifold pointer and implements kernel.Solid.
type manifoldSolid struct {
	ptr *C.ManifoldManifold
}

// BoundingBox returns the axis-aligned bounding box of the solid.
func (s *manifoldSolid) BoundingBox() (min, max [3]float64) {
	alloc := C.manifold_alloc_box()
	bbox := C.manifold_bounding_box(alloc, s.ptr)
	defer C.manifold_delete_box(bbox)

	min[0] = float64(C.manifold_box_min_x(bbox))
	min[1] = float64(C.manifold_box_min_y(bbox))
	min[2] = float64(C.manifold_box_min_z(bbox))
	max[0] = float64(C.manifold_box_max_x(bbox))
	max[1] = float64(C.manifold_box_max_y(bbox))
	max[2] = float64(C.manifold_box_max_z(bbox))
	return min, max
}

// newSolid wraps a C ManifoldManifold pointer with a finalizer that frees it.
func newSolid(ptr *C.ManifoldManifold) *manifoldSolid {
	s := &manifoldSolid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *manifoldSolid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

// ErrUnavailable is never returned when Manifold is linked in; it exists so
// callers can test for it regardless of build tags.
var ErrUnavailable = errors.New("manifold kernel not available: build with -tags=manifold")

// ManifoldKernel implements kernel.Kernel using the Manifold C library.
type ManifoldKernel struct{}

// New creates a new ManifoldKernel.
func New() (kernel.Kernel, error) {
	return &ManifoldKernel{}, nil
}

// simplePolygon copies a vertex ring into a C ManifoldSimplePolygon.
// The caller owns the result.
func simplePolygon(pts []v2.Vec) *C.ManifoldSimplePolygon {
	n := len(pts)
	buf := (*C.ManifoldVec2)(C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof(C.ManifoldVec2{}))))
	defer C.free(unsafe.Pointer(buf))
	ring := unsafe.Slice(buf, n)
	for i, p := range pts {
		ring[i] = C.ManifoldVec2{x: C.double(p.X), y: C.double(p.Y)}
	}
	return C.manifold_simple_polygon(C.manifold_alloc_simple_polygon(), buf, C.size_t(n))
}

// reversed returns the ring in opposite winding. Manifold fills with the
// positive rule, so holes must wind against the outer boundary.
func reversed(pts []v2.Vec) []v2.Vec {
	out := make([]v2.Vec, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// Extrude sweeps the outline along +Z from z=0 to z=depth.
func (k *ManifoldKernel) Extrude(o geometry.Outline, depth float64) kernel.Solid {
	if o.IsEmpty() || len(o.Points) < 3 || depth <= 0 {
		return kernel.Empty()
	}

	rings := []*C.ManifoldSimplePolygon{simplePolygon(o.Points)}
	if len(o.Hole) >= 3 {
		rings = append(rings, simplePolygon(reversed(o.Hole)))
	}
	defer func() {
		for _, r := range rings {
			C.manifold_delete_simple_polygon(r)
		}
	}()

	ringArr := (**C.ManifoldSimplePolygon)(C.malloc(C.size_t(len(rings)) * C.size_t(unsafe.Sizeof(uintptr(0)))))
	defer C.free(unsafe.Pointer(ringArr))
	copy(unsafe.Slice(ringArr, len(rings)), rings)

	polys := C.manifold_polygons(C.manifold_alloc_polygons(), ringArr, C.size_t(len(rings)))
	defer C.manifold_delete_polygons(polys)

	ptr := C.manifold_extrude(C.manifold_alloc_manifold(), polys,
		C.double(depth),
		C.int(0),    // slices
		C.double(0), // twist degrees
		C.double(1), // top scale x
		C.double(1), // top scale y
	)
	return newSolid(ptr)
}

// Union returns the boolean union of two solids.
func (k *ManifoldKernel) Union(a, b kernel.Solid) kernel.Solid {
	switch {
	case kernel.IsEmpty(a):
		return b
	case kernel.IsEmpty(b):
		return a
	}
	sa := a.(*manifoldSolid)
	sb := b.(*manifoldSolid)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_union(alloc, sa.ptr, sb.ptr)
	return newSolid(ptr)
}

// Translate moves the solid by (x, y, z).
func (k *ManifoldKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	if kernel.IsEmpty(s) {
		return s
	}
	ms := s.(*manifoldSolid)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_translate(alloc, ms.ptr,
		C.double(x), C.double(y), C.double(z),
	)
	return newSolid(ptr)
}

// Rotate rotates the solid by Euler angles (in degrees) around the X, Y, Z axes.
func (k *ManifoldKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	if kernel.IsEmpty(s) {
		return s
	}
	ms := s.(*manifoldSolid)
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_rotate(alloc, ms.ptr,
		C.double(x), C.double(y), C.double(z),
	)
	return newSolid(ptr)
}

// ToMesh extracts a triangle mesh from the solid using Manifold's MeshGL
// format, splitting the interleaved vertex properties into positions and
// normals.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	if kernel.IsEmpty(s) {
		return &kernel.Mesh{}, nil
	}
	ms := s.(*manifoldSolid)

	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_get_meshgl(meshAlloc, ms.ptr)
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))
	if numVert == 0 || numTri == 0 {
		return &kernel.Mesh{}, nil
	}

	// The first 3 properties are position; normals follow at 3..5 if present.
	numProp := int(C.manifold_meshgl_num_prop(meshGL))
	propData := make([]float32, numVert*numProp)
	C.manifold_meshgl_vert_properties(
		(*C.float)(unsafe.Pointer(&propData[0])),
		meshGL,
	)

	indices := make([]uint32, numTri*3)
	C.manifold_meshgl_tri_verts(
		(*C.uint32_t)(unsafe.Pointer(&indices[0])),
		meshGL,
	)

	vertices := make([]float32, numVert*3)
	var normals []float32
	hasNormals := numProp >= 6
	if hasNormals {
		normals = make([]float32, numVert*3)
	}
	for i := 0; i < numVert; i++ {
		base := i * numProp
		copy(vertices[i*3:i*3+3], propData[base:base+3])
		if hasNormals {
			copy(normals[i*3:i*3+3], propData[base+3:base+6])
		}
	}
	if !hasNormals {
		normals = vertexNormals(vertices, indices)
	}

	mesh := &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}
	if mesh.VertexCount() != numVert {
		return nil, fmt.Errorf("manifold: vertex count mismatch: got %d, expected %d",
			mesh.VertexCount(), numVert)
	}
	return mesh, nil
}

// vertexNormals averages the face normals incident on each vertex.
func vertexNormals(vertices []float32, indices []uint32) []float32 {
	normals := make([]float32, len(vertices))
	for t := 0; t+2 < len(indices); t += 3 {
		tri := indices[t : t+3]
		a := vertices[tri[0]*3 : tri[0]*3+3]
		b := vertices[tri[1]*3 : tri[1]*3+3]
		c := vertices[tri[2]*3 : tri[2]*3+3]

		e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		n := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		for _, idx := range tri {
			normals[idx*3+0] += n[0]
			normals[idx*3+1] += n[1]
			normals[idx*3+2] += n[2]
		}
	}
	for i := 0; i+2 < len(normals); i += 3 {
		l := math.Sqrt(float64(normals[i]*normals[i] + normals[i+1]*normals[i+1] + normals[i+2]*normals[i+2]))
		if l > 1e-12 {
			normals[i] = float32(float64(normals[i]) / l)
			normals[i+1] = float32(float64(normals[i+1]) / l)
			normals[i+2] = float32(float64(normals[i+2]) / l)
		}
	}
	return normals
}
