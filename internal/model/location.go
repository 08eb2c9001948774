package model

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Позиции в мире: r3.Vec (X, Y горизонталь, Z высота).
// Value type, передаётся по значению.

// Distance returns Euclidean distance between two points.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// AngleDeg returns the unsigned angle between two vectors in degrees (0..180).
// Returns 0 if either vector has zero length.
func AngleDeg(a, b r3.Vec) float64 {
	if r3.Norm2(a) == 0 || r3.Norm2(b) == 0 {
		return 0
	}
	// Cos can drift outside [-1, 1] by rounding
	c := math.Max(-1, math.Min(1, r3.Cos(a, b)))
	return math.Acos(c) * 180 / math.Pi
}

// Direction returns the unit vector pointing from a to b.
// Returns zero vector if points coincide.
func Direction(a, b r3.Vec) r3.Vec {
	d := r3.Sub(b, a)
	if r3.Norm2(d) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(d)
}
