package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultTickInterval is the wall-clock period between ticks.
const DefaultTickInterval = 100 * time.Millisecond

// BeforeTickFunc runs once per frame before controllers are ticked.
// dt is the frame delta in simulated seconds.
type BeforeTickFunc func(dt float64)

// TickManager manages AI ticks for all registered NPCs.
// Controllers are ticked sequentially on the Start goroutine.
type TickManager struct {
	controllers     sync.Map // map[uuid.UUID]Controller
	controllerCount atomic.Int32
	interval        time.Duration
	clock           *FrameClock
	beforeTick      BeforeTickFunc
	frames          atomic.Uint64
	stopCh          chan struct{}
	stopOnce        sync.Once
}

// NewTickManager creates new AI tick manager.
// clock is advanced once per frame; controllers should read it as their Clock.
func NewTickManager(interval time.Duration, clock *FrameClock) *TickManager {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if clock == nil {
		clock = NewFrameClock(1)
	}
	return &TickManager{
		interval: interval,
		clock:    clock,
		stopCh:   make(chan struct{}),
	}
}

// SetBeforeTick sets the per-frame hook (e.g. world movement).
// Must be called before Start.
func (m *TickManager) SetBeforeTick(fn BeforeTickFunc) {
	m.beforeTick = fn
}

// Clock returns the frame clock shared by registered controllers.
func (m *TickManager) Clock() *FrameClock {
	return m.clock
}

// Register starts AI controller for NPC and publishes it to the tick loop.
// Start completes before the controller becomes visible to tickAll.
func (m *TickManager) Register(id uuid.UUID, controller Controller) {
	controller.Start()
	if _, loaded := m.controllers.LoadOrStore(id, controller); loaded {
		controller.Stop()
		slog.Warn("AI controller already registered", "npc", id)
		return
	}
	m.controllerCount.Add(1)

	slog.Debug("AI controller registered",
		"npc", id,
		"state", controller.State())
}

// Unregister stops and removes AI controller (NPC despawn)
func (m *TickManager) Unregister(id uuid.UUID) {
	value, ok := m.controllers.LoadAndDelete(id)
	if !ok {
		return
	}

	m.controllerCount.Add(-1)

	controller := value.(Controller)
	controller.Stop()

	slog.Debug("AI controller unregistered", "npc", id)
}

// Start starts AI tick loop (blocks until context is canceled or Stop is called)
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("AI tick manager started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("AI tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("AI tick manager stopped")
			return nil

		case now := <-ticker.C:
			m.Frame(now)
		}
	}
}

// Stop stops AI tick loop. Safe to call more than once.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Frame advances the clock, runs the before-tick hook and ticks every controller.
// Exported so hosts with their own loop (and tests) can drive frames directly.
func (m *TickManager) Frame(now time.Time) {
	dt := m.clock.Advance(now)
	if m.beforeTick != nil {
		m.beforeTick(dt)
	}
	m.tickAll()
	m.frames.Add(1)
}

// tickAll ticks all registered controllers
func (m *TickManager) tickAll() {
	count := 0

	m.controllers.Range(func(_, value any) bool {
		controller := value.(Controller)
		controller.Tick()
		count++
		return true
	})

	if count > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed", "controllers", count)
	}
}

// Count returns number of registered controllers (O(1) cached count)
func (m *TickManager) Count() int {
	return int(m.controllerCount.Load())
}

// Frames returns number of completed frames.
func (m *TickManager) Frames() uint64 {
	return m.frames.Load()
}

// GetController returns controller for NPC
func (m *TickManager) GetController(id uuid.UUID) (Controller, error) {
	value, ok := m.controllers.Load(id)
	if !ok {
		return nil, fmt.Errorf("controller not found for npc %s", id)
	}
	return value.(Controller), nil
}
