// Package geometry computes the 2D outlines of a parametric pizza.
// A regular N-gon approximates the circle, slices are cut away in eighths,
// and the crust is a ring between the body radius and a fixed outer radius.
// Everything here is pure; extrusion into solids happens in package kernel.
package geometry
