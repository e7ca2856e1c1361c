package geometry

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Outline is a closed 2D polygon, optionally with one nested hole.
// The closing edge from the last point back to the first is implicit.
type Outline struct {
	Points []v2.Vec
	Hole   []v2.Vec
}

// IsEmpty reports whether the outline has no geometry to extrude.
func (o Outline) IsEmpty() bool {
	return len(o.Points) == 0
}

// HasHole reports whether the outline carries an inner hole.
func (o Outline) HasHole() bool {
	return len(o.Hole) > 0
}

// Area returns the enclosed area, with the hole subtracted.
func (o Outline) Area() float64 {
	return math.Abs(signedArea(o.Points)) - math.Abs(signedArea(o.Hole))
}

// Bounds returns the axis-aligned bounding rectangle of the outer polygon.
// An empty outline has zero bounds.
func (o Outline) Bounds() (min, max v2.Vec) {
	if o.IsEmpty() {
		return min, max
	}
	min, max = o.Points[0], o.Points[0]
	for _, p := range o.Points[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// signedArea is the shoelace sum; positive for counter-clockwise polygons.
func signedArea(pts []v2.Vec) float64 {
	if len(pts) < 3 {
		return 0
	}
	var sum float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// Profile is an outline paired with the depth it is extruded to.
type Profile struct {
	Name    string
	Outline Outline
	Depth   float64
}

// Pizza is the pair of profiles produced by Build.
type Pizza struct {
	Body  Profile
	Crust Profile
}
