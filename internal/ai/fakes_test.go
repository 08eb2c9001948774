package ai

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/udisondev/warden/internal/model"
)

// manualClock returns whatever dt the test sets.
type manualClock struct {
	dt float64
}

func (c *manualClock) ElapsedSinceLastTick() float64 { return c.dt }

type fakePose struct {
	pos r3.Vec
	fwd r3.Vec
}

func (p *fakePose) Position() r3.Vec { return p.pos }
func (p *fakePose) Forward() r3.Vec  { return p.fwd }

type fakeTarget struct {
	pos r3.Vec
}

func (t *fakeTarget) TargetPosition() r3.Vec { return t.pos }

// fakeVisibility returns a hit tagged tag, or nothing when blocked.
type fakeVisibility struct {
	tag     string
	blocked bool
	calls   int

	lastOrigin r3.Vec
	lastDir    r3.Vec
	lastMax    float64
}

func (v *fakeVisibility) TestLineOfSight(origin, direction r3.Vec, maxDistance float64) LineOfSightHit {
	v.calls++
	v.lastOrigin = origin
	v.lastDir = direction
	v.lastMax = maxDistance
	if v.blocked {
		return LineOfSightHit{}
	}
	return LineOfSightHit{
		Hit:      true,
		Tag:      v.tag,
		Position: r3.Add(origin, r3.Scale(maxDistance, direction)),
	}
}

// fakeNav records destinations. A new destination puts the body in
// transit (remaining = travel) until arrive is called.
type fakeNav struct {
	destinations []r3.Vec
	remaining    float64
	travel       float64

	sample      func(p r3.Vec, tolerance float64) (r3.Vec, bool)
	sampleCalls int
}

func newFakeNav() *fakeNav {
	return &fakeNav{travel: 10}
}

func (n *fakeNav) SetDestination(p r3.Vec) {
	n.destinations = append(n.destinations, p)
	n.remaining = n.travel
}

func (n *fakeNav) RemainingDistance() float64 { return n.remaining }

func (n *fakeNav) SampleNearestNavigablePosition(p r3.Vec, tolerance float64) (r3.Vec, bool) {
	n.sampleCalls++
	if n.sample == nil {
		return p, true
	}
	return n.sample(p, tolerance)
}

func (n *fakeNav) arrive() { n.remaining = 0 }

func (n *fakeNav) last() (r3.Vec, bool) {
	if len(n.destinations) == 0 {
		return r3.Vec{}, false
	}
	return n.destinations[len(n.destinations)-1], true
}

// harness wires a BehaviorAI to fake ports.
// Default pose: origin facing +X; target 50 units ahead (out of range 20).
type harness struct {
	clock       *manualClock
	pose        *fakePose
	target      *fakeTarget
	vis         *fakeVisibility
	nav         *fakeNav
	ai          *BehaviorAI
	transitions []model.Transition
	attacks     int
}

func newHarness(t *testing.T, tuning Tuning, waypoints ...r3.Vec) *harness {
	t.Helper()

	h := &harness{
		clock:  &manualClock{dt: 1},
		pose:   &fakePose{fwd: r3.Vec{X: 1}},
		target: &fakeTarget{pos: r3.Vec{X: 50}},
		vis:    &fakeVisibility{tag: DefaultTargetTag},
		nav:    newFakeNav(),
	}

	ai, err := NewBehaviorAI(
		uuid.New(),
		model.NewPatrolRoute(waypoints...),
		DefaultPerceptionConfig(),
		tuning,
		Ports{
			Clock:      h.clock,
			Target:     h.target,
			Visibility: h.vis,
			Navigator:  h.nav,
			Pose:       h.pose,
		},
		rand.New(rand.NewPCG(1, 2)),
	)
	if err != nil {
		t.Fatalf("NewBehaviorAI: %v", err)
	}
	ai.SetTransitionFunc(func(tr model.Transition) {
		h.transitions = append(h.transitions, tr)
	})
	ai.SetAttackFunc(func(uuid.UUID, r3.Vec) {
		h.attacks++
	})
	h.ai = ai
	return h
}

// showTarget places the target in plain view at distance d.
func (h *harness) showTarget(d float64) {
	h.target.pos = r3.Vec{X: d}
	h.vis.blocked = false
}

// hideTarget keeps the target in the cone but behind cover.
func (h *harness) hideTarget() {
	h.vis.blocked = true
}

func (h *harness) tickN(n int) {
	for range n {
		h.ai.Tick()
	}
}
