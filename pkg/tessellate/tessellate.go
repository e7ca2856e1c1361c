// Package tessellate turns scene nodes into triangle meshes using a
// geometry kernel. One mesh is produced per node.
package tessellate

import (
	"fmt"

	"github.com/chazu/pizzamaker/pkg/kernel"
	"github.com/chazu/pizzamaker/pkg/scene"
)

// Part is a tessellated node: its mesh plus the display color.
type Part struct {
	Mesh  *kernel.Mesh
	Color string
}

// Tessellate produces one triangle mesh per node, in node order. Nodes
// holding an empty solid yield an empty mesh rather than being skipped, so
// indices line up with the input. The tessellator never mutates the nodes.
func Tessellate(nodes []*scene.Node, k kernel.Kernel) ([]*kernel.Mesh, error) {
	parts, err := Parts(nodes, k)
	if err != nil {
		return nil, err
	}
	meshes := make([]*kernel.Mesh, len(parts))
	for i, p := range parts {
		meshes[i] = p.Mesh
	}
	return meshes, nil
}

// Parts is like Tessellate but keeps each node's color alongside its mesh.
func Parts(nodes []*scene.Node, k kernel.Kernel) ([]Part, error) {
	parts := make([]Part, 0, len(nodes))
	for i, n := range nodes {
		if n == nil {
			return nil, fmt.Errorf("tessellate: node %d is nil", i)
		}
		mesh, err := k.ToMesh(n.Solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for node %q: %w", n.Name, err)
		}
		mesh.PartName = n.Name
		parts = append(parts, Part{Mesh: mesh, Color: n.Color})
	}
	return parts, nil
}

// Stats summarizes a set of meshes.
type Stats struct {
	Parts     int
	Vertices  int
	Triangles int
}

// Summarize counts the vertices and triangles of the meshes.
func Summarize(meshes []*kernel.Mesh) Stats {
	st := Stats{Parts: len(meshes)}
	for _, m := range meshes {
		st.Vertices += m.VertexCount()
		st.Triangles += m.TriangleCount()
	}
	return st
}
