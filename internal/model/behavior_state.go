package model

import "fmt"

// BehaviorState represents the current behavior of an NPC controller.
// Exactly one state is current at any time.
type BehaviorState int32

const (
	// StatePatrolling - NPC walks its patrol route
	StatePatrolling BehaviorState = iota
	// StateChasing - NPC follows a perceived target
	StateChasing
	// StateSearching - NPC probes random points around the last known target position
	StateSearching
	// StateWaiting - NPC idles at a waypoint
	StateWaiting
	// StateAttacking - NPC signals an attack, back to chasing on the next tick
	StateAttacking
)

// String returns human-readable state name
func (s BehaviorState) String() string {
	switch s {
	case StatePatrolling:
		return "PATROLLING"
	case StateChasing:
		return "CHASING"
	case StateSearching:
		return "SEARCHING"
	case StateWaiting:
		return "WAITING"
	case StateAttacking:
		return "ATTACKING"
	default:
		return "UNKNOWN"
	}
}

// ParseBehaviorState converts a name produced by String back to a state.
func ParseBehaviorState(s string) (BehaviorState, error) {
	switch s {
	case "PATROLLING":
		return StatePatrolling, nil
	case "CHASING":
		return StateChasing, nil
	case "SEARCHING":
		return StateSearching, nil
	case "WAITING":
		return StateWaiting, nil
	case "ATTACKING":
		return StateAttacking, nil
	default:
		return 0, fmt.Errorf("unknown behavior state %q", s)
	}
}
