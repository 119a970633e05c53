package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/appengine-ltd/steelball/internal/logger"
)

var ErrNotStarted = errors.New("session not started")

// Session owns the ball, the target platform, the win zone and the scattered
// obstacles of one play field. It is not safe for concurrent use; a Runner
// serialises access to it.
type Session struct {
	rules   Rules
	scene   Scene
	effects Effects
	log     *logrus.Entry

	rng       *rand.Rand
	placer    Placer
	populator *Populator
	evaluator Evaluator

	obstacles []Obstacle
	ball      EntityID
	platform  EntityID
	zone      EntityID

	presses      int
	backdrop     Backdrop
	wins         int
	lastFallback bool
	ready        bool
}

type Snapshot struct {
	Ready        bool
	Obstacles    int
	Presses      int
	Backdrop     Backdrop
	Wins         int
	LastFallback bool
	Ball         Body
	Platform     Body
	Zone         Body
}

func NewSession(rules Rules, scene Scene, effects Effects) (*Session, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if scene == nil {
		return nil, errors.New("session needs a scene")
	}
	if effects == nil {
		effects = NopEffects{}
	}

	rng := NewRNG(rules.Seed)
	return &Session{
		rules:     rules,
		scene:     scene,
		effects:   effects,
		log:       logger.For("session"),
		rng:       rng,
		placer:    NewPlacer(rng, rules.Placement),
		populator: NewPopulator(rng, NewSampler(rng, rules.HalfExtent), rules.Catalog),
		evaluator: NewEvaluator(rules.Win),
	}, nil
}

func (s *Session) Rules() Rules {
	return s.rules
}

func (s *Session) Start(ctx context.Context) error {
	return s.Reset(ctx)
}

// Reset discards everything in the scene and builds a fresh play field. The
// session stays not-ready until every entity exists, so Evaluate never runs
// against a half-built field.
func (s *Session) Reset(ctx context.Context) error {
	s.ready = false
	s.scene.Clear()
	s.obstacles = nil
	s.ball, s.platform, s.zone = "", "", ""
	s.presses = 0
	s.backdrop = BackdropOriginal
	s.scene.SetBackdrop(s.rules.OriginalBackdrop, s.backdrop)

	obstacles, err := s.populator.Populate(ctx, s.scene, s.rules.Trees, s.rules.Rocks)
	if err != nil {
		return fmt.Errorf("populate: %w", err)
	}
	s.obstacles = obstacles

	target, ballAt, ok := s.placePair()
	if !ok {
		return fmt.Errorf("populate: got %d obstacles, want %d", len(obstacles), s.rules.Trees+s.rules.Rocks)
	}
	if err := s.createDynamic(ctx, target, ballAt); err != nil {
		return err
	}

	s.ready = true
	s.log.WithFields(logrus.Fields{
		"obstacles": len(s.obstacles),
		"target":    target,
		"ball":      ballAt,
		"fallback":  s.lastFallback,
	}).Info("play field ready")
	return nil
}

func (s *Session) createDynamic(ctx context.Context, target, ballAt Point) error {
	platformAt := target.Lift(s.rules.PlatformLift)
	// Platform modes toggle platform and ball together; zone mode toggles
	// them in opposite directions.
	specs := []MarkerSpec{
		s.dynamicSpec(KindPlatform, platformAt, !s.rules.Win.Mode.UsesZone()),
		s.dynamicSpec(KindBall, ballAt.Lift(s.rules.BallLift), true),
	}
	if s.rules.Win.Mode.UsesZone() {
		specs = append(specs, s.dynamicSpec(KindZone, platformAt, true))
	}

	ids := make([]EntityID, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			id, err := s.scene.CreateMarker(gctx, spec)
			if err != nil {
				return fmt.Errorf("create %s: %w", spec.Name, err)
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.platform, s.ball = ids[0], ids[1]
	if len(ids) > 2 {
		s.zone = ids[2]
	}
	return nil
}

func (s *Session) dynamicSpec(kind MarkerKind, at Point, visible bool) MarkerSpec {
	model := s.rules.Catalog.Lookup(kind)
	return MarkerSpec{
		Name:     string(kind),
		Kind:     kind,
		Model:    model.Model,
		Scale:    model.Scale,
		Position: at,
		Visible:  visible,
	}
}

// placePair picks a random tree and a random rock as anchors and places the
// target behind the tree and the ball behind the rock, away from the target.
func (s *Session) placePair() (target, ball Point, ok bool) {
	trees, rocks := s.rules.Trees, s.rules.Rocks
	if len(s.obstacles) < trees+rocks {
		return Point{}, Point{}, false
	}
	tree := s.obstacles[s.rng.IntN(trees)]
	rock := s.obstacles[trees+s.rng.IntN(rocks)]
	points := obstaclePoints(s.obstacles)
	offset := s.rules.Placement.Offset

	target, targetOK := s.placer.PlaceBehind(tree.Position, offset, points, nil)
	ball, ballOK := s.placer.PlaceBehind(rock.Position, offset, points, &target)

	s.lastFallback = !targetOK || !ballOK
	if s.lastFallback {
		s.log.WithFields(logrus.Fields{
			"tree":      tree.Name,
			"rock":      rock.Name,
			"target_ok": targetOK,
			"ball_ok":   ballOK,
		}).Warn("placement fell back to unchecked position")
	}
	return target, ball, true
}

func (s *Session) relocate() {
	target, ballAt, ok := s.placePair()
	if !ok {
		return
	}
	platformAt := target.Lift(s.rules.PlatformLift)
	s.scene.SetPosition(s.platform, platformAt)
	if s.zone != "" {
		s.scene.SetPosition(s.zone, platformAt)
	}
	s.scene.SetPosition(s.ball, ballAt.Lift(s.rules.BallLift))
	s.log.WithFields(logrus.Fields{"target": target, "ball": ballAt}).Debug("relocated")
}

// Trigger advances the press counter, relocating target and ball every
// TriggerThreshold presses, and flips visibility and backdrop on every press.
// It reports whether this press relocated.
func (s *Session) Trigger() (bool, error) {
	if !s.ready {
		return false, ErrNotStarted
	}

	relocated := false
	s.presses++
	if s.presses >= s.rules.TriggerThreshold {
		s.presses = 0
		s.relocate()
		relocated = true
	}

	platformShown := !s.visible(s.platform)
	s.scene.SetVisible(s.platform, platformShown)
	s.scene.SetVisible(s.ball, !s.visible(s.ball))
	if s.zone != "" {
		s.scene.SetVisible(s.zone, !platformShown)
	}

	s.backdrop = s.backdrop.Toggle()
	name := s.rules.OriginalBackdrop
	if s.backdrop == BackdropAlternate {
		name = s.rules.AlternateBackdrop
	}
	s.scene.SetBackdrop(name, s.backdrop)
	return relocated, nil
}

// Nudge moves the ball one step. A hidden ball does not move.
func (s *Session) Nudge(d Direction) bool {
	if !s.ready || !s.visible(s.ball) {
		return false
	}
	at, ok := s.scene.Position(s.ball)
	if !ok {
		return false
	}
	dx, dz := d.Delta()
	s.scene.SetPosition(s.ball, at.Shift(dx*s.rules.MoveStep, dz*s.rules.MoveStep))
	return true
}

func (s *Session) Evaluate() bool {
	if !s.ready {
		return false
	}
	return s.evaluator.Check(s.view())
}

// Win plays the win effects and rebuilds the play field from scratch.
func (s *Session) Win(ctx context.Context) error {
	s.wins++
	s.log.WithField("wins", s.wins).Info("ball reached the platform")
	s.effects.PlayAnimation(s.rules.Effects.Celebration)
	s.effects.PlaySound(s.rules.Effects.WinSound)
	s.effects.ShowOverlay(s.rules.Effects.WinOverlay, s.rules.Effects.OverlayDelay)
	return s.Reset(ctx)
}

func (s *Session) Snapshot() Snapshot {
	v := s.view()
	return Snapshot{
		Ready:        s.ready,
		Obstacles:    len(s.obstacles),
		Presses:      s.presses,
		Backdrop:     s.backdrop,
		Wins:         s.wins,
		LastFallback: s.lastFallback,
		Ball:         v.Ball,
		Platform:     v.Platform,
		Zone:         v.Zone,
	}
}

// LastFallback reports whether the latest placement skipped its clearance checks.
func (s *Session) LastFallback() bool {
	return s.lastFallback
}

func (s *Session) Obstacles() []Obstacle {
	out := make([]Obstacle, len(s.obstacles))
	copy(out, s.obstacles)
	return out
}

func (s *Session) view() View {
	return View{
		Ball:     s.body(s.ball),
		Platform: s.body(s.platform),
		Zone:     s.body(s.zone),
	}
}

func (s *Session) body(id EntityID) Body {
	if id == "" {
		return Body{}
	}
	at, ok := s.scene.Position(id)
	if !ok {
		return Body{}
	}
	visible, ok := s.scene.Visible(id)
	if !ok {
		return Body{}
	}
	return Body{Present: true, Visible: visible, Position: at}
}

func (s *Session) visible(id EntityID) bool {
	if id == "" {
		return false
	}
	v, ok := s.scene.Visible(id)
	return ok && v
}
