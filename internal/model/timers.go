package model

import "gonum.org/v1/gonum/spatial/r3"

// Default timer values.
const (
	DefaultSearchTimeout = 15.0 // seconds in Searching before giving up
	DefaultSearchRadius  = 10.0 // world units around last known position
	DefaultWaitDuration  = 5.0  // seconds idle at each waypoint
)

// SearchState holds the Searching bookkeeping.
// LastKnown is only ever overwritten, never cleared.
type SearchState struct {
	LastKnown r3.Vec
	Elapsed   float64
	Timeout   float64
	Radius    float64
}

// NewSearchState creates SearchState with default timeout and radius.
func NewSearchState() SearchState {
	return SearchState{
		Timeout: DefaultSearchTimeout,
		Radius:  DefaultSearchRadius,
	}
}

// Expired reports whether the search budget is used up.
func (s SearchState) Expired() bool {
	return s.Elapsed >= s.Timeout
}

// WaitState holds the Waiting bookkeeping.
type WaitState struct {
	Elapsed  float64
	Duration float64
}

// NewWaitState creates WaitState with default duration.
func NewWaitState() WaitState {
	return WaitState{Duration: DefaultWaitDuration}
}

// Expired reports whether the NPC waited long enough.
func (w WaitState) Expired() bool {
	return w.Elapsed >= w.Duration
}
