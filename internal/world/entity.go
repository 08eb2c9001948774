package world

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Entity is a tagged sphere in the world (e.g. the player).
// It optionally walks a closed path at constant speed.
type Entity struct {
	ID     uuid.UUID
	Tag    string
	Radius float64

	pos   r3.Vec
	path  []r3.Vec
	next  int
	speed float64
}

// Position returns current position.
func (e *Entity) Position() r3.Vec {
	return e.pos
}

// TargetPosition implements ai.TargetLocator.
func (e *Entity) TargetPosition() r3.Vec {
	return e.pos
}

// SetPosition teleports the entity.
func (e *Entity) SetPosition(p r3.Vec) {
	e.pos = p
}

// SetPath makes the entity walk the points in a loop at speed units/s.
func (e *Entity) SetPath(speed float64, path ...r3.Vec) {
	e.path = append(e.path[:0], path...)
	e.next = 0
	e.speed = speed
}

func (e *Entity) step(dt float64) {
	if len(e.path) == 0 || e.speed <= 0 {
		return
	}
	var reached bool
	e.pos, reached = moveToward(e.pos, e.path[e.next], e.speed*dt)
	if reached {
		e.next = (e.next + 1) % len(e.path)
	}
}

// moveToward moves pos toward goal by at most maxStep.
func moveToward(pos, goal r3.Vec, maxStep float64) (r3.Vec, bool) {
	delta := r3.Sub(goal, pos)
	dist := r3.Norm(delta)
	if dist <= maxStep {
		return goal, true
	}
	return r3.Add(pos, r3.Scale(maxStep/dist, delta)), false
}
