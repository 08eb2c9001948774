package ai

import "github.com/udisondev/warden/internal/model"

// Controller represents AI controller interface for NPCs
type Controller interface {
	// Start enters the initial state and issues the first destination
	Start()

	// Stop stops AI controller
	Stop()

	// State returns current behavior state
	State() model.BehaviorState

	// Tick performs one AI evaluation (called once per simulation tick)
	Tick()
}
