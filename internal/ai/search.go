package ai

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	searchPointAttempts  = 5   // samples per TryGenerateSearchPoint call
	DefaultSnapTolerance = 4.0 // max snap distance onto navigable surface
)

// SearchPointGenerator picks random navigable points around a center.
// Not thread-safe: rng is owned by the generator.
type SearchPointGenerator struct {
	nav       Navigator
	rng       *rand.Rand
	tolerance float64
}

// NewSearchPointGenerator creates a generator. If rng is nil, a randomly
// seeded source is used.
func NewSearchPointGenerator(nav Navigator, rng *rand.Rand, tolerance float64) *SearchPointGenerator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if tolerance <= 0 {
		tolerance = DefaultSnapTolerance
	}
	return &SearchPointGenerator{
		nav:       nav,
		rng:       rng,
		tolerance: tolerance,
	}
}

// TryGenerateSearchPoint samples up to 5 uniform points in the ball of
// radius around center and returns the first one that snaps onto the
// navigable surface and stays within radius of center.
// Returns (center, false) when every sample is rejected.
func (g *SearchPointGenerator) TryGenerateSearchPoint(center r3.Vec, radius float64) (r3.Vec, bool) {
	for attempt := range searchPointAttempts {
		candidate := r3.Add(center, r3.Scale(radius, g.insideUnitBall()))

		snapped, ok := g.nav.SampleNearestNavigablePosition(candidate, g.tolerance)
		if !ok {
			continue
		}
		if r3.Norm(r3.Sub(snapped, center)) > radius {
			continue
		}

		if IsDebugEnabled() {
			slog.Debug("search point found",
				"attempt", attempt+1,
				"x", snapped.X,
				"y", snapped.Y,
				"z", snapped.Z)
		}
		return snapped, true
	}

	return center, false
}

// insideUnitBall returns a point uniformly distributed in the unit ball.
// Direction from a normal sample, radius scaled by cube root for uniform volume.
func (g *SearchPointGenerator) insideUnitBall() r3.Vec {
	for {
		v := r3.Vec{X: g.rng.NormFloat64(), Y: g.rng.NormFloat64(), Z: g.rng.NormFloat64()}
		n := r3.Norm(v)
		if n == 0 {
			continue
		}
		return r3.Scale(math.Cbrt(g.rng.Float64())/n, v)
	}
}
