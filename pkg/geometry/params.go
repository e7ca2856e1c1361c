package geometry

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is wrapped by every error returned from Params.Validate.
var ErrInvalidParams = errors.New("invalid pizza parameters")

// Params are the five user-adjustable inputs of the pizza generator.
type Params struct {
	Sides           int     `yaml:"sides" json:"sides"`                     // polygon approximation of a circle
	ExtrusionHeight float64 `yaml:"extrusion_height" json:"extrusionHeight"` // body thickness
	CrustThickness  float64 `yaml:"crust_thickness" json:"crustThickness"`   // extra height of the crust ring
	CrustProportion float64 `yaml:"crust_proportion" json:"crustProportion"` // fraction of the radius taken by crust
	NumSlices       int     `yaml:"num_slices" json:"numSlices"`             // eighths of the pizza still present
}

// DefaultParams returns the parameters of a whole octagonal pizza.
func DefaultParams() Params {
	return Params{
		Sides:           8,
		ExtrusionHeight: 0.5,
		CrustThickness:  0.3,
		CrustProportion: 0.2,
		NumSlices:       WholeSlices,
	}
}

// Range is an inclusive slider interval with its step.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Ranges are the slider bounds the UI layer enforces.
var Ranges = struct {
	Sides           Range
	ExtrusionHeight Range
	CrustThickness  Range
	CrustProportion Range
	NumSlices       Range
}{
	Sides:           Range{Min: 3, Max: 32, Step: 1},
	ExtrusionHeight: Range{Min: 0.1, Max: 2, Step: 0.1},
	CrustThickness:  Range{Min: 0, Max: 1, Step: 0.05},
	CrustProportion: Range{Min: 0, Max: 0.9, Step: 0.05},
	NumSlices:       Range{Min: 1, Max: WholeSlices, Step: 1},
}

// Validate checks the domain invariants of every field. The generator
// itself never calls it; it is for the layers that accept user input.
func (p Params) Validate() error {
	switch {
	case p.Sides < 3:
		return fmt.Errorf("%w: sides must be at least 3, got %d", ErrInvalidParams, p.Sides)
	case p.ExtrusionHeight <= 0:
		return fmt.Errorf("%w: extrusion height must be positive, got %g", ErrInvalidParams, p.ExtrusionHeight)
	case p.CrustThickness < 0:
		return fmt.Errorf("%w: crust thickness must not be negative, got %g", ErrInvalidParams, p.CrustThickness)
	case p.CrustProportion < 0 || p.CrustProportion >= 1:
		return fmt.Errorf("%w: crust proportion must be in [0,1), got %g", ErrInvalidParams, p.CrustProportion)
	case p.NumSlices < 1 || p.NumSlices > WholeSlices:
		return fmt.Errorf("%w: slices must be in [1,%d], got %d", ErrInvalidParams, WholeSlices, p.NumSlices)
	}
	return nil
}

// Whole reports whether no slice has been taken.
func (p Params) Whole() bool {
	return p.NumSlices >= WholeSlices
}

func (p Params) String() string {
	return fmt.Sprintf("sides=%d height=%g crust=%g/%g slices=%d",
		p.Sides, p.ExtrusionHeight, p.CrustThickness, p.CrustProportion, p.NumSlices)
}
