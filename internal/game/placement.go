package game

import (
	"math"
	"math/rand/v2"
)

type Sampler struct {
	rng        *rand.Rand
	halfExtent float64
}

func NewSampler(rng *rand.Rand, halfExtent float64) Sampler {
	return Sampler{rng: rng, halfExtent: halfExtent}
}

// Sample returns a ground-level point with X and Z uniform over [-halfExtent, halfExtent).
func (s Sampler) Sample() Point {
	return Point{
		X: s.rng.Float64()*2*s.halfExtent - s.halfExtent,
		Y: 0,
		Z: s.rng.Float64()*2*s.halfExtent - s.halfExtent,
	}
}

type Placer struct {
	rng   *rand.Rand
	rules PlacementRules
}

func NewPlacer(rng *rand.Rand, rules PlacementRules) Placer {
	return Placer{rng: rng, rules: rules}
}

// PlaceBehind walks a ring around ref looking for a point clear of every
// obstacle and, when other is set, far enough from other. ok is false when
// every trial failed; the returned point is then a best-effort offset from ref
// that may break both separations.
func (p Placer) PlaceBehind(ref Point, offset float64, obstacles []Point, other *Point) (Point, bool) {
	trials := max(p.rules.Trials, 1)
	base := p.rng.Float64() * 2 * math.Pi
	step := 2 * math.Pi / float64(trials)

	for i := 0; i < trials; i++ {
		angle := base + float64(i)*step
		dist := offset + p.rng.Float64()*p.rules.RadialJitter
		candidate := Point{
			X: ref.X + math.Cos(angle)*dist,
			Y: p.rules.CandidateHeight,
			Z: ref.Z + math.Sin(angle)*dist,
		}
		if p.Clear(candidate, obstacles, other) {
			return candidate, true
		}
	}

	return Point{
		X: ref.X + offset + p.rng.Float64()*p.rules.FallbackJitter,
		Y: p.rules.CandidateHeight,
		Z: ref.Z + offset + p.rng.Float64()*p.rules.FallbackJitter,
	}, false
}

func (p Placer) Clear(candidate Point, obstacles []Point, other *Point) bool {
	for _, o := range obstacles {
		if candidate.PlanarDistance(o) < p.rules.MinObstacleDistance {
			return false
		}
	}
	if other != nil && candidate.PlanarDistance(*other) < p.rules.MinSeparation {
		return false
	}
	return true
}
