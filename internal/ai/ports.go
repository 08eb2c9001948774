package ai

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/udisondev/warden/internal/model"
)

// Clock supplies simulated seconds elapsed since the previous tick.
type Clock interface {
	ElapsedSinceLastTick() float64
}

// TargetLocator supplies the tracked target's current world position.
type TargetLocator interface {
	TargetPosition() r3.Vec
}

// LineOfSightHit is the result of a visibility query.
// Tag is empty when nothing was hit or the surface is untagged.
type LineOfSightHit struct {
	Hit      bool
	Tag      string
	Position r3.Vec
}

// VisibilityQuery casts a ray against world geometry.
type VisibilityQuery interface {
	TestLineOfSight(origin, direction r3.Vec, maxDistance float64) LineOfSightHit
}

// Navigator drives the controlled body along the navigable surface.
type Navigator interface {
	SetDestination(p r3.Vec)
	// RemainingDistance returns distance left to the current destination.
	RemainingDistance() float64
	// SampleNearestNavigablePosition snaps p onto the navigable surface.
	// Returns false if no surface lies within tolerance.
	SampleNearestNavigablePosition(p r3.Vec, tolerance float64) (r3.Vec, bool)
}

// Pose exposes the controlled body's position and facing.
type Pose interface {
	Position() r3.Vec
	Forward() r3.Vec
}

// AttackFunc is a callback to signal an NPC attack toward the target position.
// Injected by the host; damage resolution is not the controller's concern.
type AttackFunc func(npcID uuid.UUID, target r3.Vec)

// TransitionFunc receives every state change of a controller.
type TransitionFunc func(t model.Transition)

// Ports bundles the collaborators a BehaviorAI needs.
type Ports struct {
	Clock      Clock
	Target     TargetLocator
	Visibility VisibilityQuery
	Navigator  Navigator
	Pose       Pose
}
