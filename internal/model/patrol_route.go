package model

import "gonum.org/v1/gonum/spatial/r3"

// PatrolRoute is an ordered, cyclic list of waypoints.
// Not thread-safe: owned and mutated by a single controller.
type PatrolRoute struct {
	waypoints []r3.Vec
	current   int
}

// NewPatrolRoute creates a route over the given waypoints.
// An empty route is valid: Advance becomes a no-op.
func NewPatrolRoute(waypoints ...r3.Vec) *PatrolRoute {
	wp := make([]r3.Vec, len(waypoints))
	copy(wp, waypoints)
	return &PatrolRoute{waypoints: wp}
}

// Advance returns the waypoint at the current index and moves the index
// to the next one, wrapping from last to first.
// Returns false and leaves the route untouched when it is empty.
func (r *PatrolRoute) Advance() (r3.Vec, bool) {
	if len(r.waypoints) == 0 {
		return r3.Vec{}, false
	}
	wp := r.waypoints[r.current]
	r.current = (r.current + 1) % len(r.waypoints)
	return wp, true
}

// CurrentIndex returns the index of the waypoint the next Advance will return.
func (r *PatrolRoute) CurrentIndex() int {
	return r.current
}

// Len returns number of waypoints.
func (r *PatrolRoute) Len() int {
	return len(r.waypoints)
}
