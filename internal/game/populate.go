package game

import (
	"context"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
)

type Obstacle struct {
	ID       EntityID
	Name     string
	Kind     MarkerKind
	Position Point
}

type Populator struct {
	rng     *rand.Rand
	sampler Sampler
	catalog MarkerCatalog
}

func NewPopulator(rng *rand.Rand, sampler Sampler, catalog MarkerCatalog) *Populator {
	return &Populator{rng: rng, sampler: sampler, catalog: catalog}
}

// Populate creates trees then rocks and returns only once every marker is
// ready. The result keeps that order: trees occupy [0, trees).
func (p *Populator) Populate(ctx context.Context, scene Scene, trees, rocks int) ([]Obstacle, error) {
	// Specs are drawn up front so the RNG is never touched from the creation goroutines.
	specs := make([]MarkerSpec, 0, trees+rocks)
	for i := 0; i < trees; i++ {
		specs = append(specs, p.spec(KindTree, i))
	}
	for i := 0; i < rocks; i++ {
		specs = append(specs, p.spec(KindRock, i))
	}

	out := make([]Obstacle, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			id, err := scene.CreateMarker(gctx, spec)
			if err != nil {
				return fmt.Errorf("create %s: %w", spec.Name, err)
			}
			out[i] = Obstacle{ID: id, Name: spec.Name, Kind: spec.Kind, Position: spec.Position}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Populator) spec(kind MarkerKind, index int) MarkerSpec {
	model := p.catalog.Lookup(kind)
	return MarkerSpec{
		Name:      fmt.Sprintf("%s%d", kind, index),
		Kind:      kind,
		Model:     model.Model,
		Scale:     model.Scale,
		RotationY: p.rng.Float64() * 360,
		Position:  p.sampler.Sample(),
		Visible:   true,
	}
}

func obstaclePoints(obstacles []Obstacle) []Point {
	points := make([]Point, len(obstacles))
	for i, o := range obstacles {
		points[i] = o.Position
	}
	return points
}
