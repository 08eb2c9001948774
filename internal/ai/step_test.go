package ai

import (
	"testing"

	"github.com/udisondev/warden/internal/model"
)

func stepInput(state model.BehaviorState, obs Observation) StepInput {
	return StepInput{
		State:       state,
		Obs:         obs,
		Dt:          1,
		Search:      model.NewSearchState(),
		Wait:        model.NewWaitState(),
		AttackRange: DefaultAttackRange,
	}
}

func TestStep_Transitions(t *testing.T) {
	tests := []struct {
		name        string
		in          StepInput
		wantState   model.BehaviorState
		wantEffects Effect
	}{
		{
			name:      "patrol sees target",
			in:        stepInput(model.StatePatrolling, Observation{Perceivable: true, Arrived: true}),
			wantState: model.StateChasing,
		},
		{
			name:      "patrol arrives",
			in:        stepInput(model.StatePatrolling, Observation{Arrived: true}),
			wantState: model.StateWaiting,
		},
		{
			name:      "patrol in transit",
			in:        stepInput(model.StatePatrolling, Observation{}),
			wantState: model.StatePatrolling,
		},
		{
			name:      "wait not elapsed",
			in:        stepInput(model.StateWaiting, Observation{Perceivable: true}),
			wantState: model.StateWaiting,
		},
		{
			name: "wait elapsed",
			in: func() StepInput {
				in := stepInput(model.StateWaiting, Observation{})
				in.Wait.Elapsed = 4
				return in
			}(),
			wantState:   model.StatePatrolling,
			wantEffects: EffectNextWaypoint,
		},
		{
			name:        "chase loses target",
			in:          stepInput(model.StateChasing, Observation{TargetDistance: 1}),
			wantState:   model.StateSearching,
			wantEffects: EffectRememberTarget,
		},
		{
			name:      "chase close range",
			in:        stepInput(model.StateChasing, Observation{Perceivable: true, TargetDistance: 1.99}),
			wantState: model.StateAttacking,
		},
		{
			name:        "chase exactly at attack range keeps chasing",
			in:          stepInput(model.StateChasing, Observation{Perceivable: true, TargetDistance: 2}),
			wantState:   model.StateChasing,
			wantEffects: EffectChase,
		},
		{
			name:      "search sees target",
			in:        stepInput(model.StateSearching, Observation{Perceivable: true}),
			wantState: model.StateChasing,
		},
		{
			name:        "search arrives",
			in:          stepInput(model.StateSearching, Observation{Arrived: true}),
			wantState:   model.StateSearching,
			wantEffects: EffectResampleSearch,
		},
		{
			name: "search times out even when arrived",
			in: func() StepInput {
				in := stepInput(model.StateSearching, Observation{Arrived: true})
				in.Search.Elapsed = 14
				return in
			}(),
			wantState:   model.StatePatrolling,
			wantEffects: EffectNextWaypoint,
		},
		{
			name:        "attack always returns to chase",
			in:          stepInput(model.StateAttacking, Observation{}),
			wantState:   model.StateChasing,
			wantEffects: EffectAttack,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Step(tt.in)
			if out.State != tt.wantState {
				t.Errorf("State = %v, want %v", out.State, tt.wantState)
			}
			if out.Effects != tt.wantEffects {
				t.Errorf("Effects = %v, want %v", out.Effects, tt.wantEffects)
			}
		})
	}
}

func TestStep_Timers(t *testing.T) {
	// Entering Waiting resets the wait timer
	in := stepInput(model.StatePatrolling, Observation{Arrived: true})
	in.Wait.Elapsed = 3
	if out := Step(in); out.Wait.Elapsed != 0 {
		t.Errorf("wait elapsed on entry = %v, want 0", out.Wait.Elapsed)
	}

	// Entering Searching resets the search timer
	in = stepInput(model.StateChasing, Observation{})
	in.Search.Elapsed = 9
	if out := Step(in); out.Search.Elapsed != 0 {
		t.Errorf("search elapsed on entry = %v, want 0", out.Search.Elapsed)
	}

	// Search timer accumulates dt while active
	in = stepInput(model.StateSearching, Observation{})
	in.Search.Elapsed = 2
	in.Dt = 0.25
	if out := Step(in); out.Search.Elapsed != 2.25 {
		t.Errorf("search elapsed = %v, want 2.25", out.Search.Elapsed)
	}

	// Timeout resets the search timer
	in = stepInput(model.StateSearching, Observation{})
	in.Search.Elapsed = 15
	if out := Step(in); out.Search.Elapsed != 0 {
		t.Errorf("search elapsed after timeout = %v, want 0", out.Search.Elapsed)
	}

	// Perceiving in Searching does not advance the timer
	in = stepInput(model.StateSearching, Observation{Perceivable: true})
	in.Search.Elapsed = 5
	if out := Step(in); out.Search.Elapsed != 5 {
		t.Errorf("search elapsed after perceiving = %v, want 5", out.Search.Elapsed)
	}
}

func TestStep_Pure(t *testing.T) {
	in := stepInput(model.StateSearching, Observation{Arrived: true})
	in.Search.Elapsed = 3

	first := Step(in)
	second := Step(in)
	if first != second {
		t.Errorf("Step not deterministic: %+v vs %+v", first, second)
	}
	if in.Search.Elapsed != 3 {
		t.Errorf("Step mutated input: %v", in.Search.Elapsed)
	}
}

func TestNeedsFor(t *testing.T) {
	tests := []struct {
		state model.BehaviorState
		want  Needs
	}{
		{model.StatePatrolling, Needs{Perception: true, Arrival: true}},
		{model.StateChasing, Needs{Perception: true, TargetDistance: true}},
		{model.StateSearching, Needs{Perception: true, Arrival: true}},
		{model.StateWaiting, Needs{}},
		{model.StateAttacking, Needs{}},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := NeedsFor(tt.state); got != tt.want {
				t.Errorf("NeedsFor(%v) = %+v, want %+v", tt.state, got, tt.want)
			}
		})
	}
}

func TestEffect_String(t *testing.T) {
	if got := Effect(0).String(); got != "none" {
		t.Errorf("String() = %q, want none", got)
	}
	if got := (EffectChase | EffectAttack).String(); got != "chase|attack" {
		t.Errorf("String() = %q, want chase|attack", got)
	}
}
