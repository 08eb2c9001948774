package ai

import (
	"strings"

	"github.com/udisondev/warden/internal/model"
)

// Effect is a side effect requested by Step. The controller applies
// effects through its ports after the transition is decided.
type Effect uint8

const (
	// EffectChase - set destination to the target's current position
	EffectChase Effect = 1 << iota
	// EffectRememberTarget - overwrite last known position with target position
	EffectRememberTarget
	// EffectNextWaypoint - advance patrol route and set its destination
	EffectNextWaypoint
	// EffectResampleSearch - pick a new search point around last known position
	EffectResampleSearch
	// EffectAttack - signal attack toward the target
	EffectAttack
)

var effectNames = []struct {
	e    Effect
	name string
}{
	{EffectChase, "chase"},
	{EffectRememberTarget, "remember_target"},
	{EffectNextWaypoint, "next_waypoint"},
	{EffectResampleSearch, "resample_search"},
	{EffectAttack, "attack"},
}

// Has reports whether e contains all bits of other.
func (e Effect) Has(other Effect) bool {
	return e&other == other
}

// String returns effect names joined with "|", or "none".
func (e Effect) String() string {
	if e == 0 {
		return "none"
	}
	var parts []string
	for _, n := range effectNames {
		if e.Has(n.e) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Observation is what the controller sampled from its ports this tick.
// Fields the current state does not consult are left zero.
type Observation struct {
	Perceivable    bool
	Arrived        bool
	TargetDistance float64
}

// Needs lists which observations a state consults.
type Needs struct {
	Perception     bool
	Arrival        bool
	TargetDistance bool
}

// NeedsFor returns the observations consulted in state.
// Waiting and Attacking never sample perception, so they never touch
// the last known position.
func NeedsFor(state model.BehaviorState) Needs {
	switch state {
	case model.StatePatrolling:
		return Needs{Perception: true, Arrival: true}
	case model.StateChasing:
		return Needs{Perception: true, TargetDistance: true}
	case model.StateSearching:
		return Needs{Perception: true, Arrival: true}
	default:
		return Needs{}
	}
}

// StepInput is the full input of one transition.
type StepInput struct {
	State       model.BehaviorState
	Obs         Observation
	Dt          float64
	Search      model.SearchState
	Wait        model.WaitState
	AttackRange float64
}

// StepOutput is the next state, updated timers and requested effects.
type StepOutput struct {
	State   model.BehaviorState
	Search  model.SearchState
	Wait    model.WaitState
	Effects Effect
}

// Changed reports whether the step switched state.
func (o StepOutput) Changed(from model.BehaviorState) bool {
	return o.State != from
}

// Step computes one tick of the behavior state machine. It is pure: no
// ports are touched and the same input always yields the same output.
// Exactly one branch runs and at most one transition happens.
func Step(in StepInput) StepOutput {
	out := StepOutput{
		State:  in.State,
		Search: in.Search,
		Wait:   in.Wait,
	}

	switch in.State {
	case model.StatePatrolling:
		if in.Obs.Perceivable {
			out.State = model.StateChasing
			return out
		}
		if in.Obs.Arrived {
			out.State = model.StateWaiting
			out.Wait.Elapsed = 0
		}

	case model.StateWaiting:
		out.Wait.Elapsed += in.Dt
		if out.Wait.Expired() {
			out.State = model.StatePatrolling
			out.Effects |= EffectNextWaypoint
		}

	case model.StateChasing:
		if !in.Obs.Perceivable {
			out.State = model.StateSearching
			out.Search.Elapsed = 0
			out.Effects |= EffectRememberTarget
			return out
		}
		if in.Obs.TargetDistance < in.AttackRange {
			out.State = model.StateAttacking
			return out
		}
		out.Effects |= EffectChase

	case model.StateSearching:
		if in.Obs.Perceivable {
			out.State = model.StateChasing
			return out
		}
		// Timeout is checked before arrival.
		out.Search.Elapsed += in.Dt
		if !out.Search.Expired() {
			if in.Obs.Arrived {
				out.Effects |= EffectResampleSearch
			}
			return out
		}
		out.State = model.StatePatrolling
		out.Search.Elapsed = 0
		out.Effects |= EffectNextWaypoint

	case model.StateAttacking:
		out.State = model.StateChasing
		out.Effects |= EffectAttack
	}

	return out
}
