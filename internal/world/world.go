package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/udisondev/warden/internal/ai"
)

// ErrEntityNotFound is returned when no entity carries the requested tag.
var ErrEntityNotFound = errors.New("world: entity not found")

// Obstacle is a tagged box that blocks line of sight.
type Obstacle struct {
	Tag string
	Box Box
}

// World is a headless stand-in for a simulation engine: a navmesh,
// occluding boxes, tagged entities and NPC bodies.
// Not thread-safe: stepped and queried from the tick goroutine only.
type World struct {
	mesh      *NavMesh
	obstacles []Obstacle
	entities  []*Entity
	agents    []*Agent
}

// New creates an empty world over the navmesh.
func New(mesh *NavMesh) *World {
	if mesh == nil {
		mesh = NewNavMesh()
	}
	return &World{mesh: mesh}
}

// NavMesh returns the navigable surface.
func (w *World) NavMesh() *NavMesh {
	return w.mesh
}

// AddObstacle adds an occluding box.
func (w *World) AddObstacle(tag string, box Box) {
	w.obstacles = append(w.obstacles, Obstacle{Tag: tag, Box: box})
}

// AddEntity places a tagged sphere.
func (w *World) AddEntity(tag string, pos r3.Vec, radius float64) *Entity {
	e := &Entity{
		ID:     uuid.New(),
		Tag:    tag,
		Radius: radius,
		pos:    pos,
	}
	w.entities = append(w.entities, e)
	return e
}

// SpawnAgent places an NPC body. facing is normalized; a zero facing
// defaults to +X. tolerance bounds destination snapping.
func (w *World) SpawnAgent(id uuid.UUID, name string, pos, facing r3.Vec, speed, tolerance float64) *Agent {
	fwd := r3.Vec{X: 1}
	if r3.Norm2(facing) > 0 {
		fwd = r3.Unit(facing)
	}
	a := &Agent{
		ID:        id,
		Name:      name,
		mesh:      w.mesh,
		tolerance: tolerance,
		pos:       pos,
		fwd:       fwd,
		speed:     speed,
	}
	w.agents = append(w.agents, a)
	return a
}

// Despawn removes an agent body.
func (w *World) Despawn(id uuid.UUID) bool {
	for i, a := range w.agents {
		if a.ID == id {
			w.agents = append(w.agents[:i], w.agents[i+1:]...)
			return true
		}
	}
	return false
}

// Agents returns number of spawned agents.
func (w *World) Agents() int {
	return len(w.agents)
}

// Locate finds the first entity with tag.
func (w *World) Locate(tag string) (*Entity, error) {
	for _, e := range w.entities {
		if e.Tag == tag {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: tag %q", ErrEntityNotFound, tag)
}

// TestLineOfSight implements ai.VisibilityQuery: the nearest obstacle or
// entity hit by the ray within maxDistance. direction must be unit length.
func (w *World) TestLineOfSight(origin, direction r3.Vec, maxDistance float64) ai.LineOfSightHit {
	if r3.Norm2(direction) == 0 || maxDistance <= 0 {
		return ai.LineOfSightHit{}
	}

	bestT := math.Inf(1)
	bestTag := ""

	for _, o := range w.obstacles {
		if t, ok := o.Box.IntersectRay(origin, direction, maxDistance); ok && t < bestT {
			bestT, bestTag = t, o.Tag
		}
	}
	for _, e := range w.entities {
		if t, ok := intersectSphere(origin, direction, e.pos, e.Radius, maxDistance); ok && t < bestT {
			bestT, bestTag = t, e.Tag
		}
	}

	if math.IsInf(bestT, 1) {
		return ai.LineOfSightHit{}
	}
	return ai.LineOfSightHit{
		Hit:      true,
		Tag:      bestTag,
		Position: r3.Add(origin, r3.Scale(bestT, direction)),
	}
}

// Step advances entity paths and agent movement by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for _, e := range w.entities {
		e.step(dt)
	}
	for _, a := range w.agents {
		a.step(dt)
	}
}
