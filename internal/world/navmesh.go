package world

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// NavMesh is the navigable surface: a set of flat walkable areas.
// Immutable after construction.
type NavMesh struct {
	areas []Area
}

// NewNavMesh creates a navmesh over the given areas.
func NewNavMesh(areas ...Area) *NavMesh {
	a := make([]Area, len(areas))
	copy(a, areas)
	return &NavMesh{areas: a}
}

// SampleNearest snaps p to the closest point of any area within tolerance.
// Returns false when no area is close enough (or the mesh is empty).
func (m *NavMesh) SampleNearest(p r3.Vec, tolerance float64) (r3.Vec, bool) {
	best := r3.Vec{}
	bestDist := math.Inf(1)

	for _, a := range m.areas {
		c := a.closest(p)
		if d := r3.Norm(r3.Sub(c, p)); d < bestDist {
			best, bestDist = c, d
		}
	}

	if bestDist > tolerance {
		return r3.Vec{}, false
	}
	return best, true
}

// AreaCount returns number of walkable areas.
func (m *NavMesh) AreaCount() int {
	return len(m.areas)
}
