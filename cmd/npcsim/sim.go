package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/udisondev/warden/internal/ai"
	"github.com/udisondev/warden/internal/config"
	"github.com/udisondev/warden/internal/model"
	"github.com/udisondev/warden/internal/world"
)

// transitionSink receives every state change together with the NPC name.
type transitionSink func(name string, t model.Transition)

// npc binds a spawned agent to its controller.
type npc struct {
	name  string
	agent *world.Agent
	brain *ai.BehaviorAI
}

// simulation is the headless host: world, controllers and the tick manager.
type simulation struct {
	world   *world.World
	manager *ai.TickManager
	npcs    []*npc
}

// newSimulation builds the world from config, spawns every NPC and
// registers its controller. Fails if the target is missing from the world.
func newSimulation(cfg config.Simulation, sink transitionSink) (*simulation, error) {
	w, err := world.Build(cfg.World)
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}

	target, err := w.Locate(cfg.Behavior.TargetTag)
	if err != nil {
		return nil, fmt.Errorf("locating target %q: %w", cfg.Behavior.TargetTag, err)
	}

	perception := ai.PerceptionConfig{
		VisionRange: cfg.Behavior.VisionRange,
		VisionAngle: cfg.Behavior.VisionAngle,
		TargetTag:   cfg.Behavior.TargetTag,
	}
	tuning := ai.Tuning{
		AttackRange:     cfg.Behavior.AttackRange,
		ArrivalDistance: cfg.Behavior.ArrivalDistance,
		SearchTimeout:   cfg.Behavior.SearchTimeout,
		SearchRadius:    cfg.Behavior.SearchRadius,
		WaitDuration:    cfg.Behavior.WaitDuration,
		SnapTolerance:   cfg.Behavior.SnapTolerance,
	}

	mgr := ai.NewTickManager(cfg.TickInterval, ai.NewFrameClock(cfg.TimeScale))
	mgr.SetBeforeTick(w.Step)

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	sim := &simulation{world: w, manager: mgr}

	for i, nc := range cfg.World.Npcs {
		id := uuid.New()
		agent := w.SpawnAgent(id, nc.Name, nc.Position.Vec(), nc.Facing.Vec(), nc.Speed, tuning.SnapTolerance)

		brain, err := ai.NewBehaviorAI(
			id,
			model.NewPatrolRoute(config.Vecs(nc.Route)...),
			perception,
			tuning,
			ai.Ports{
				Clock:      mgr.Clock(),
				Target:     target,
				Visibility: w,
				Navigator:  agent,
				Pose:       agent,
			},
			rand.New(rand.NewPCG(seed, uint64(i))),
		)
		if err != nil {
			w.Despawn(id)
			return nil, fmt.Errorf("creating controller for %s: %w", nc.Name, err)
		}

		n := &npc{name: nc.Name, agent: agent, brain: brain}
		brain.SetAttackFunc(func(id uuid.UUID, at r3.Vec) {
			slog.Info("attack signal", "npc", n.name, "id", id, "target", at)
		})
		brain.SetTransitionFunc(func(t model.Transition) {
			if sink != nil {
				sink(n.name, t)
			}
		})

		sim.npcs = append(sim.npcs, n)
		mgr.Register(id, brain)
	}

	slog.Info("simulation ready",
		"npcs", len(sim.npcs),
		"areas", w.NavMesh().AreaCount(),
		"seed", seed)

	return sim, nil
}
