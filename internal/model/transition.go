package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Transition records a single state change of an NPC controller.
type Transition struct {
	NpcID   uuid.UUID
	Tick    uint64  // controller tick on which the change happened
	SimTime float64 // seconds of simulated time since controller start
	From    BehaviorState
	To      BehaviorState
}

// String returns compact representation for logs.
func (t Transition) String() string {
	return fmt.Sprintf("%s tick=%d %s->%s", t.NpcID, t.Tick, t.From, t.To)
}
