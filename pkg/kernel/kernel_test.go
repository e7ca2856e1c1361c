package kernel

import (
	"testing"

	"github.com/chazu/pizzamaker/pkg/geometry"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshBounds(t *testing.T) {
	m := &Mesh{Vertices: []float32{-1, 0, 2, 3, -4, 0, 0, 5, -6}}
	min, max := m.Bounds()
	if min != [3]float32{-1, -4, -6} {
		t.Errorf("min = %v, want [-1 -4 -6]", min)
	}
	if max != [3]float32{3, 5, 2} {
		t.Errorf("max = %v, want [3 5 2]", max)
	}

	min, max = (&Mesh{}).Bounds()
	if min != ([3]float32{}) || max != ([3]float32{}) {
		t.Errorf("empty mesh bounds = %v %v, want zero", min, max)
	}
}

// --- Empty solid ---

func TestEmptySolid(t *testing.T) {
	a, b := Empty(), Empty()
	if a == b {
		t.Error("Empty() returned the same handle twice")
	}
	if !IsEmpty(a) {
		t.Error("IsEmpty(Empty()) = false")
	}
	if !IsEmpty(nil) {
		t.Error("IsEmpty(nil) = false")
	}
	min, max := a.BoundingBox()
	if min != ([3]float64{}) || max != ([3]float64{}) {
		t.Errorf("empty bounding box = %v %v, want zero", min, max)
	}
}

// --- Stub kernel proving the interface is satisfiable ---

// stubSolid records how it was made.
type stubSolid struct {
	minBB, maxBB [3]float64
	rotation     [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel is a minimal Kernel implementation. Extrude returns the
// outline bounds and depth as a box.
type stubKernel struct {
	extrusions int
}

func (k *stubKernel) Extrude(o geometry.Outline, depth float64) Solid {
	k.extrusions++
	min, max := o.Bounds()
	return &stubSolid{
		minBB: [3]float64{min.X, min.Y, 0},
		maxBB: [3]float64{max.X, max.Y, depth},
	}
}

func (k *stubKernel) Union(a, _ Solid) Solid { return a }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }

func (k *stubKernel) Rotate(s Solid, x, y, z float64) Solid {
	ss, ok := s.(*stubSolid)
	if !ok {
		return s
	}
	out := *ss
	out.rotation = [3]float64{x, y, z}
	return &out
}

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestReorientRotatesAboutX(t *testing.T) {
	k := &stubKernel{}
	s := Reorient(k, k.Extrude(geometry.BodyOutline(geometry.DefaultParams()), 1))
	ss, ok := s.(*stubSolid)
	if !ok {
		t.Fatalf("Reorient returned %T", s)
	}
	if ss.rotation != [3]float64{-90, 0, 0} {
		t.Errorf("rotation = %v, want [-90 0 0]", ss.rotation)
	}
}

func TestExtrudeProfileSkipsEmptyOutline(t *testing.T) {
	k := &stubKernel{}
	s := ExtrudeProfile(k, geometry.Profile{Name: "crust", Depth: 1})
	if !IsEmpty(s) {
		t.Errorf("ExtrudeProfile(empty) = %T, want empty solid", s)
	}
	if k.extrusions != 0 {
		t.Errorf("kernel extruded %d times for an empty outline", k.extrusions)
	}

	pizza := geometry.Build(geometry.DefaultParams())
	s = ExtrudeProfile(k, pizza.Body)
	if IsEmpty(s) {
		t.Fatal("ExtrudeProfile(body) returned an empty solid")
	}
	_, max := s.BoundingBox()
	if max[2] != pizza.Body.Depth {
		t.Errorf("extruded depth = %f, want %f", max[2], pizza.Body.Depth)
	}
}
