package ai

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/udisondev/warden/internal/model"
)

// Tuning defaults.
const (
	DefaultAttackRange     = 2.0 // chase turns into attack below this distance
	DefaultArrivalDistance = 0.5 // remaining distance that counts as arrived
)

var (
	// ErrNoTarget is returned when the controller has nothing to track.
	ErrNoTarget = errors.New("ai: no target to track")
	// ErrMissingPort is returned when a required port is nil.
	ErrMissingPort = errors.New("ai: missing port")

	errInvalidTuning = errors.New("invalid tuning")
)

// Tuning holds timers and thresholds of the behavior state machine.
type Tuning struct {
	AttackRange     float64
	ArrivalDistance float64
	SearchTimeout   float64
	SearchRadius    float64
	WaitDuration    float64
	SnapTolerance   float64
}

// DefaultTuning returns attack 2.0, arrival 0.5, search 15s/10u, wait 5s, snap 4.
func DefaultTuning() Tuning {
	return Tuning{
		AttackRange:     DefaultAttackRange,
		ArrivalDistance: DefaultArrivalDistance,
		SearchTimeout:   model.DefaultSearchTimeout,
		SearchRadius:    model.DefaultSearchRadius,
		WaitDuration:    model.DefaultWaitDuration,
		SnapTolerance:   DefaultSnapTolerance,
	}
}

// Validate checks that every value is usable.
func (t Tuning) Validate() error {
	switch {
	case t.AttackRange < 0:
		return fmt.Errorf("%w: attack range %v < 0", errInvalidTuning, t.AttackRange)
	case t.ArrivalDistance <= 0:
		return fmt.Errorf("%w: arrival distance %v must be > 0", errInvalidTuning, t.ArrivalDistance)
	case t.SearchTimeout < 0:
		return fmt.Errorf("%w: search timeout %v < 0", errInvalidTuning, t.SearchTimeout)
	case t.SearchRadius < 0:
		return fmt.Errorf("%w: search radius %v < 0", errInvalidTuning, t.SearchRadius)
	case t.WaitDuration < 0:
		return fmt.Errorf("%w: wait duration %v < 0", errInvalidTuning, t.WaitDuration)
	case t.SnapTolerance <= 0:
		return fmt.Errorf("%w: snap tolerance %v must be > 0", errInvalidTuning, t.SnapTolerance)
	}
	return nil
}

// BehaviorAI implements the patrol/chase/search/wait/attack controller.
// State machine: PATROLLING → (perceive) CHASING → (lose) SEARCHING → (timeout) PATROLLING,
// PATROLLING → (arrive) WAITING → (timer) PATROLLING, CHASING → (close) ATTACKING → CHASING.
//
// Tick must be called from a single goroutine; State may be read concurrently.
type BehaviorAI struct {
	id        uuid.UUID
	isRunning atomic.Bool
	state     atomic.Int32

	route  *model.PatrolRoute
	search model.SearchState
	wait   model.WaitState
	tuning Tuning

	sensor    *Sensor
	generator *SearchPointGenerator
	ports     Ports

	ticks   uint64
	simTime float64

	// Callbacks (injected by host)
	attackFunc     AttackFunc
	transitionFunc TransitionFunc
}

// NewBehaviorAI creates a controller in PATROLLING state.
// route may be empty; a nil route is treated as empty.
// rng may be nil (random seed). Fails with ErrNoTarget if ports.Target is nil.
func NewBehaviorAI(
	id uuid.UUID,
	route *model.PatrolRoute,
	perception PerceptionConfig,
	tuning Tuning,
	ports Ports,
	rng *rand.Rand,
) (*BehaviorAI, error) {
	if ports.Target == nil {
		return nil, ErrNoTarget
	}
	switch {
	case ports.Clock == nil:
		return nil, fmt.Errorf("%w: clock", ErrMissingPort)
	case ports.Visibility == nil:
		return nil, fmt.Errorf("%w: visibility", ErrMissingPort)
	case ports.Navigator == nil:
		return nil, fmt.Errorf("%w: navigator", ErrMissingPort)
	case ports.Pose == nil:
		return nil, fmt.Errorf("%w: pose", ErrMissingPort)
	}
	if err := perception.Validate(); err != nil {
		return nil, err
	}
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	if route == nil {
		route = model.NewPatrolRoute()
	}

	ai := &BehaviorAI{
		id:        id,
		route:     route,
		search:    model.SearchState{Timeout: tuning.SearchTimeout, Radius: tuning.SearchRadius},
		wait:      model.WaitState{Duration: tuning.WaitDuration},
		tuning:    tuning,
		sensor:    NewSensor(perception, ports.Pose, ports.Target, ports.Visibility),
		generator: NewSearchPointGenerator(ports.Navigator, rng, tuning.SnapTolerance),
		ports:     ports,
	}
	ai.state.Store(int32(model.StatePatrolling))
	return ai, nil
}

// SetAttackFunc sets the attack signal callback.
func (ai *BehaviorAI) SetAttackFunc(fn AttackFunc) {
	ai.attackFunc = fn
}

// SetTransitionFunc sets the state change callback.
func (ai *BehaviorAI) SetTransitionFunc(fn TransitionFunc) {
	ai.transitionFunc = fn
}

// Start enters PATROLLING and issues the first waypoint (if route is non-empty).
func (ai *BehaviorAI) Start() {
	ai.isRunning.Store(true)
	ai.state.Store(int32(model.StatePatrolling))
	ai.nextPatrolPoint()

	if IsDebugEnabled() {
		slog.Debug("behavior AI started",
			"npc", ai.id,
			"waypoints", ai.route.Len(),
			"visionRange", ai.sensor.Config().VisionRange)
	}
}

// Stop stops the controller; further ticks are ignored.
func (ai *BehaviorAI) Stop() {
	ai.isRunning.Store(false)

	if IsDebugEnabled() {
		slog.Debug("behavior AI stopped", "npc", ai.id, "ticks", ai.ticks)
	}
}

// State returns current behavior state.
func (ai *BehaviorAI) State() model.BehaviorState {
	return model.BehaviorState(ai.state.Load())
}

// ID returns the NPC id.
func (ai *BehaviorAI) ID() uuid.UUID {
	return ai.id
}

// Ticks returns number of executed ticks.
func (ai *BehaviorAI) Ticks() uint64 {
	return ai.ticks
}

// LastKnownTargetPosition returns the cached target position.
func (ai *BehaviorAI) LastKnownTargetPosition() r3.Vec {
	return ai.search.LastKnown
}

// SearchElapsed returns seconds spent in the current search.
func (ai *BehaviorAI) SearchElapsed() float64 {
	return ai.search.Elapsed
}

// WaitElapsed returns seconds spent in the current wait.
func (ai *BehaviorAI) WaitElapsed() float64 {
	return ai.wait.Elapsed
}

// Route returns the patrol route.
func (ai *BehaviorAI) Route() *model.PatrolRoute {
	return ai.route
}

// IsTargetPerceivable evaluates perception and, on success only,
// overwrites the last known target position with the target's position.
func (ai *BehaviorAI) IsTargetPerceivable() bool {
	return ai.perceive().Perceivable
}

func (ai *BehaviorAI) perceive() Perception {
	p := ai.sensor.Evaluate()
	if p.Perceivable {
		ai.search.LastKnown = p.TargetPosition
	}
	return p
}

// Tick performs one evaluation: sample, step, apply effects.
func (ai *BehaviorAI) Tick() {
	if !ai.isRunning.Load() {
		return
	}

	dt := max(ai.ports.Clock.ElapsedSinceLastTick(), 0)
	ai.ticks++
	ai.simTime += dt

	from := ai.State()
	obs := ai.observe(from)

	out := Step(StepInput{
		State:       from,
		Obs:         obs,
		Dt:          dt,
		Search:      ai.search,
		Wait:        ai.wait,
		AttackRange: ai.tuning.AttackRange,
	})

	ai.search = out.Search
	ai.wait = out.Wait
	ai.apply(out.Effects)

	if out.Changed(from) {
		ai.state.Store(int32(out.State))
		ai.emitTransition(from, out.State)
	}
}

// observe samples only what the current state consults.
func (ai *BehaviorAI) observe(state model.BehaviorState) Observation {
	needs := NeedsFor(state)
	var obs Observation

	if needs.Perception {
		p := ai.perceive()
		obs.Perceivable = p.Perceivable
		obs.TargetDistance = p.Distance
	}
	if needs.Arrival {
		obs.Arrived = ai.ports.Navigator.RemainingDistance() < ai.tuning.ArrivalDistance
	}
	return obs
}

func (ai *BehaviorAI) apply(effects Effect) {
	if effects.Has(EffectRememberTarget) {
		ai.search.LastKnown = ai.ports.Target.TargetPosition()
	}

	if effects.Has(EffectChase) {
		ai.ports.Navigator.SetDestination(ai.ports.Target.TargetPosition())
	}

	if effects.Has(EffectNextWaypoint) {
		ai.nextPatrolPoint()
	}

	if effects.Has(EffectResampleSearch) {
		// On failure keep the previous destination, retry on a later tick
		if p, ok := ai.generator.TryGenerateSearchPoint(ai.search.LastKnown, ai.search.Radius); ok {
			ai.ports.Navigator.SetDestination(p)
		}
	}

	if effects.Has(EffectAttack) {
		target := ai.ports.Target.TargetPosition()
		slog.Info("NPC attacking", "npc", ai.id, "tick", ai.ticks)
		if ai.attackFunc != nil {
			ai.attackFunc(ai.id, target)
		}
	}
}

// nextPatrolPoint issues the next waypoint as destination. No-op on empty route.
func (ai *BehaviorAI) nextPatrolPoint() {
	wp, ok := ai.route.Advance()
	if !ok {
		return
	}
	ai.ports.Navigator.SetDestination(wp)

	if IsDebugEnabled() {
		slog.Debug("NPC next waypoint",
			"npc", ai.id,
			"x", wp.X,
			"y", wp.Y,
			"next", ai.route.CurrentIndex())
	}
}

func (ai *BehaviorAI) emitTransition(from, to model.BehaviorState) {
	t := model.Transition{
		NpcID:   ai.id,
		Tick:    ai.ticks,
		SimTime: ai.simTime,
		From:    from,
		To:      to,
	}

	if IsDebugEnabled() {
		slog.Debug("behavior state changed",
			"npc", ai.id,
			"tick", ai.ticks,
			"from", from,
			"to", to)
	}

	if ai.transitionFunc != nil {
		ai.transitionFunc(t)
	}
}
