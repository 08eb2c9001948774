package world

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Agent is an NPC body on the navmesh. It walks straight toward its
// destination and faces the direction of travel.
// Implements ai.Pose and ai.Navigator.
type Agent struct {
	ID   uuid.UUID
	Name string

	mesh      *NavMesh
	tolerance float64

	pos     r3.Vec
	fwd     r3.Vec
	dest    r3.Vec
	hasDest bool
	speed   float64
}

// Position returns current position.
func (a *Agent) Position() r3.Vec {
	return a.pos
}

// Forward returns the unit facing vector.
func (a *Agent) Forward() r3.Vec {
	return a.fwd
}

// Destination returns current destination and whether one is set.
func (a *Agent) Destination() (r3.Vec, bool) {
	return a.dest, a.hasDest
}

// SetDestination snaps p onto the navmesh and walks there.
// An unreachable point leaves the previous destination in place.
func (a *Agent) SetDestination(p r3.Vec) {
	snapped, ok := a.mesh.SampleNearest(p, a.tolerance)
	if !ok {
		return
	}
	a.dest = snapped
	a.hasDest = true
}

// RemainingDistance returns distance to destination, 0 without one.
func (a *Agent) RemainingDistance() float64 {
	if !a.hasDest {
		return 0
	}
	return r3.Norm(r3.Sub(a.dest, a.pos))
}

// SampleNearestNavigablePosition snaps p onto the navmesh.
func (a *Agent) SampleNearestNavigablePosition(p r3.Vec, tolerance float64) (r3.Vec, bool) {
	return a.mesh.SampleNearest(p, tolerance)
}

func (a *Agent) step(dt float64) {
	if !a.hasDest || a.speed <= 0 {
		return
	}
	delta := r3.Sub(a.dest, a.pos)
	// Face horizontal travel direction; keep facing when standing still
	if flat := (r3.Vec{X: delta.X, Y: delta.Y}); r3.Norm2(flat) > 0 {
		a.fwd = r3.Unit(flat)
	}
	a.pos, _ = moveToward(a.pos, a.dest, a.speed*dt)
}
