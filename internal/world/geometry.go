package world

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// parallelEpsilon: ray components below this are treated as parallel to a slab.
const parallelEpsilon = 1e-12

// Box is an axis-aligned bounding box.
type Box struct {
	Min r3.Vec
	Max r3.Vec
}

// NewBox creates a box from two opposite corners in any order.
func NewBox(a, b r3.Vec) Box {
	return Box{
		Min: r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		Max: r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
	}
}

// Contains reports whether p lies inside or on the box.
func (b Box) Contains(p r3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectRay returns the distance along dir (unit) to the first point of
// the box, within [0, maxDist]. Slab method.
// A ray starting inside the box hits at distance 0.
func (b Box) IntersectRay(origin, dir r3.Vec, maxDist float64) (float64, bool) {
	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	tmin, tmax := 0.0, maxDist
	for i := range 3 {
		if math.Abs(d[i]) < parallelEpsilon {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / d[i]
		t1 := (lo[i] - o[i]) * inv
		t2 := (hi[i] - o[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// intersectSphere returns the distance along dir (unit) to the sphere
// surface within [0, maxDist]. A ray starting inside the sphere hits at
// distance 0, same as Box.IntersectRay.
func intersectSphere(origin, dir, center r3.Vec, radius, maxDist float64) (float64, bool) {
	oc := r3.Sub(origin, center)
	c := r3.Dot(oc, oc) - radius*radius
	if c <= 0 {
		return 0, true
	}
	b := r3.Dot(oc, dir)
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 || t > maxDist {
		return 0, false
	}
	return t, true
}

// Area is a flat walkable rectangle at height Z.
type Area struct {
	MinX, MinY float64
	MaxX, MaxY float64
	Z          float64
}

// closest returns the point of the area nearest to p.
func (a Area) closest(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: math.Max(a.MinX, math.Min(p.X, a.MaxX)),
		Y: math.Max(a.MinY, math.Min(p.Y, a.MaxY)),
		Z: a.Z,
	}
}
