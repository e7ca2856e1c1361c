package geometry

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

const (
	// WholeSlices is the slice count of an uncut pizza. The angular extent
	// is always measured in eighths, whatever the side count.
	WholeSlices = 8

	// OuterRadius is the fixed radius of the crust's outer edge.
	OuterRadius = 2.0

	BodyName  = "body"
	CrustName = "crust"
)

// EffectiveSlices normalizes the slice count for shapes with few sides.
// A triangle cannot show fewer than three eighths, and other shapes below
// eight sides cannot show a single eighth. The result only drives the
// angular extent; wedge-vs-whole decisions use the raw count.
func EffectiveSlices(sides, numSlices int) int {
	if sides == 3 && numSlices < 3 {
		return 3
	}
	if sides < 8 && numSlices == 1 {
		return 2
	}
	return numSlices
}

// TotalAngle is the angular extent, in radians, of n eighths.
func TotalAngle(n int) float64 {
	return float64(n) / WholeSlices * 2 * math.Pi
}

// BodyRadius is the radius of the body, which is also the crust's inner radius.
func BodyRadius(crustProportion float64) float64 {
	return OuterRadius * (1 - crustProportion)
}

// perimeterAngles walks the polygon's vertex angles starting at zero and
// stops once an angle passes the total extent. Body and crust share it so
// their point counts always agree.
func perimeterAngles(sides, n int) []float64 {
	if sides < 3 {
		return nil
	}
	total := TotalAngle(n)
	step := 2 * math.Pi / float64(sides)
	segments := int(math.Ceil(float64(sides) * float64(n) / WholeSlices))

	var angles []float64
	for i := 0; i <= segments; i++ {
		a := float64(i) * step
		if a > total {
			break
		}
		angles = append(angles, a)
	}
	return angles
}

func arc(angles []float64, radius float64) []v2.Vec {
	pts := make([]v2.Vec, len(angles))
	for i, a := range angles {
		pts[i] = v2.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return pts
}

// BodyOutline returns the outline of the pizza body. Sliced pizzas get a
// center point so the outline closes as a pie wedge.
func BodyOutline(p Params) Outline {
	if p.CrustProportion >= 1 {
		return Outline{}
	}
	angles := perimeterAngles(p.Sides, EffectiveSlices(p.Sides, p.NumSlices))
	if len(angles) == 0 {
		return Outline{}
	}

	pts := arc(angles, BodyRadius(p.CrustProportion))
	if !p.Whole() {
		pts = append(pts, v2.Vec{})
	}
	if len(pts) < 3 {
		return Outline{}
	}
	return Outline{Points: pts}
}

// CrustOutline returns the outline of the crust ring. A whole pizza gets an
// annulus (outer polygon plus hole); a sliced one gets a single wedge that
// runs out along the outer arc and back along the inner arc.
func CrustOutline(p Params) Outline {
	if p.CrustProportion <= 0 {
		return Outline{}
	}
	angles := perimeterAngles(p.Sides, EffectiveSlices(p.Sides, p.NumSlices))
	if len(angles) == 0 {
		return Outline{}
	}

	outer := arc(angles, OuterRadius)
	inner := arc(angles, BodyRadius(p.CrustProportion))

	if p.Whole() {
		if len(outer) < 3 {
			return Outline{}
		}
		return Outline{Points: outer, Hole: inner}
	}

	pts := make([]v2.Vec, 0, len(outer)+len(inner))
	pts = append(pts, outer...)
	for i := len(inner) - 1; i >= 0; i-- {
		pts = append(pts, inner[i])
	}
	if len(pts) < 3 {
		return Outline{}
	}
	return Outline{Points: pts}
}

// Build maps parameters to the body and crust profiles. The crust is
// extruded taller than the body by the crust thickness.
func Build(p Params) Pizza {
	return Pizza{
		Body: Profile{
			Name:    BodyName,
			Outline: BodyOutline(p),
			Depth:   p.ExtrusionHeight,
		},
		Crust: Profile{
			Name:    CrustName,
			Outline: CrustOutline(p),
			Depth:   p.ExtrusionHeight + p.CrustThickness,
		},
	}
}
