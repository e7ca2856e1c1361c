// Package backend picks a geometry kernel by name.
package backend

import (
	"fmt"

	"github.com/chazu/pizzamaker/pkg/kernel"
	"github.com/chazu/pizzamaker/pkg/kernel/manifold"
	"github.com/chazu/pizzamaker/pkg/kernel/sdfx"
)

// Kernel names accepted by New.
const (
	SDFX     = "sdfx"
	Manifold = "manifold"
)

// New returns the named kernel. cells sets the sdfx marching cubes
// resolution and is ignored by manifold, which meshes exactly. The manifold
// kernel is only available in binaries built with -tags=manifold.
func New(name string, cells int) (kernel.Kernel, error) {
	switch name {
	case SDFX, "":
		return sdfx.New(sdfx.WithMeshCells(cells)), nil
	case Manifold:
		k, err := manifold.New()
		if err != nil {
			return nil, fmt.Errorf("backend %q: %w", name, err)
		}
		return k, nil
	}
	return nil, fmt.Errorf("unknown kernel backend %q", name)
}
