package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/appengine-ltd/steelball/internal/game"
	"github.com/appengine-ltd/steelball/internal/scene"
)

func newTestSession(t *testing.T, mutate func(*game.Rules), opts ...scene.Option) (*game.Session, *scene.Memory) {
	t.Helper()
	rules := game.DefaultRules()
	rules.Seed = 42
	if mutate != nil {
		mutate(&rules)
	}
	mem := scene.NewMemory(opts...)
	s, err := game.NewSession(rules, mem, nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, mem
}

func startSession(t *testing.T, s *game.Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
}

func entityOf(t *testing.T, mem *scene.Memory, kind game.MarkerKind) scene.Entity {
	t.Helper()
	for _, e := range mem.Entities() {
		if e.Spec.Kind == kind {
			return e
		}
	}
	t.Fatalf("no %s in scene", kind)
	return scene.Entity{}
}

func TestStartPopulatesEveryMarker(t *testing.T) {
	s, mem := newTestSession(t, nil)
	startSession(t, s)

	snap := s.Snapshot()
	if !snap.Ready {
		t.Fatalf("expected session ready after start")
	}
	if snap.Obstacles != 20 {
		t.Fatalf("expected 20 obstacles, got %d", snap.Obstacles)
	}
	if got := mem.CountKind(game.KindTree); got != 10 {
		t.Fatalf("expected 10 trees, got %d", got)
	}
	if got := mem.CountKind(game.KindRock); got != 10 {
		t.Fatalf("expected 10 rocks, got %d", got)
	}
	for _, kind := range []game.MarkerKind{game.KindBall, game.KindPlatform, game.KindZone} {
		if got := mem.CountKind(kind); got != 1 {
			t.Fatalf("expected one %s, got %d", kind, got)
		}
	}

	obstacles := s.Obstacles()
	for i := 0; i < 10; i++ {
		if obstacles[i].Kind != game.KindTree {
			t.Fatalf("expected trees first, obstacle %d is %s", i, obstacles[i].Kind)
		}
	}
	if obstacles[3].Name != "tree3" || obstacles[13].Name != "rock3" {
		t.Fatalf("unexpected marker names %q %q", obstacles[3].Name, obstacles[13].Name)
	}
}

func TestStartWaitsForEveryMarkerBeforePlacing(t *testing.T) {
	gate := make(chan struct{})
	s, mem := newTestSession(t, nil, scene.WithGate(gate))

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	deadline := time.Now().Add(5 * time.Second)
	for mem.Pending() < 20 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 20 concurrent creations in flight, got %d", mem.Pending())
		}
		time.Sleep(time.Millisecond)
	}
	if got := mem.CountKind(game.KindBall); got != 0 {
		t.Fatalf("ball created before obstacles were ready")
	}
	close(gate)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("start: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("start did not finish after gate opened")
	}
	if got := s.Snapshot().Obstacles; got != 20 {
		t.Fatalf("expected 20 obstacles, got %d", got)
	}
}

func TestStartHonoursCancellationWhileMarkersHang(t *testing.T) {
	gate := make(chan struct{})
	s, _ := newTestSession(t, nil, scene.WithGate(gate))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := s.Start(ctx); err == nil {
		t.Fatalf("expected start to fail once ctx expired")
	}
	if s.Snapshot().Ready {
		t.Fatalf("session must not be ready after a failed start")
	}
}

func TestInitialVisibilityAndSeparation(t *testing.T) {
	s, _ := newTestSession(t, nil)
	startSession(t, s)
	snap := s.Snapshot()

	if !snap.Ball.Visible || snap.Platform.Visible || !snap.Zone.Visible {
		t.Fatalf("expected ball and zone shown with platform hidden, got ball=%v platform=%v zone=%v",
			snap.Ball.Visible, snap.Platform.Visible, snap.Zone.Visible)
	}
	if snap.Zone.Position != snap.Platform.Position {
		t.Fatalf("expected zone at platform position, got %+v vs %+v", snap.Zone.Position, snap.Platform.Position)
	}
	if snap.Backdrop != game.BackdropOriginal || snap.Presses != 0 {
		t.Fatalf("expected original backdrop and zero presses, got %s %d", snap.Backdrop, snap.Presses)
	}
	if !snap.LastFallback {
		if d := snap.Ball.Position.PlanarDistance(snap.Platform.Position); d < 20 {
			t.Fatalf("expected ball at least 20 from target, got %.2f", d)
		}
	}
}

func TestTriggerTogglesAndRelocatesOnThirdPress(t *testing.T) {
	s, mem := newTestSession(t, nil)
	startSession(t, s)
	before := s.Snapshot()

	relocated, err := s.Trigger()
	if err != nil || relocated {
		t.Fatalf("first press: relocated=%v err=%v", relocated, err)
	}
	first := s.Snapshot()
	if first.Ball.Visible == before.Ball.Visible || first.Platform.Visible == before.Platform.Visible {
		t.Fatalf("expected first press to flip ball and platform")
	}
	if first.Zone.Visible != !first.Platform.Visible {
		t.Fatalf("expected zone visibility to be the inverse of the platform")
	}
	if first.Backdrop != game.BackdropAlternate {
		t.Fatalf("expected alternate backdrop after first press")
	}
	if name, _ := mem.Backdrop(); name != "new_sky_image" {
		t.Fatalf("expected alternate backdrop name, got %q", name)
	}

	if _, err := s.Trigger(); err != nil {
		t.Fatalf("second press: %v", err)
	}
	second := s.Snapshot()
	if second.Presses != 2 {
		t.Fatalf("expected counter 2, got %d", second.Presses)
	}
	if second.Ball != before.Ball || second.Platform != before.Platform || second.Zone != before.Zone {
		t.Fatalf("expected two presses to restore visibility and keep positions")
	}
	if second.Backdrop != game.BackdropOriginal {
		t.Fatalf("expected original backdrop after two presses")
	}

	relocated, err = s.Trigger()
	if err != nil || !relocated {
		t.Fatalf("third press: relocated=%v err=%v", relocated, err)
	}
	third := s.Snapshot()
	if third.Presses != 0 {
		t.Fatalf("expected counter reset to 0, got %d", third.Presses)
	}
	if third.Ball.Position == before.Ball.Position || third.Platform.Position == before.Platform.Position {
		t.Fatalf("expected third press to relocate ball and platform")
	}
	if third.Zone.Position != third.Platform.Position {
		t.Fatalf("expected zone to follow the platform")
	}
	if third.Ball.Visible == second.Ball.Visible {
		t.Fatalf("expected third press to flip visibility as well")
	}
}

func TestWinResetsEverything(t *testing.T) {
	s, mem := newTestSession(t, nil)
	startSession(t, s)
	if _, err := s.Trigger(); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	oldBall := entityOf(t, mem, game.KindBall).ID

	if err := s.Win(context.Background()); err != nil {
		t.Fatalf("win: %v", err)
	}
	snap := s.Snapshot()
	if snap.Backdrop != game.BackdropOriginal || snap.Presses != 0 {
		t.Fatalf("expected original backdrop and zero presses after win, got %s %d", snap.Backdrop, snap.Presses)
	}
	if snap.Wins != 1 {
		t.Fatalf("expected one win, got %d", snap.Wins)
	}
	if len(mem.Entities()) != 23 {
		t.Fatalf("expected a rebuilt field of 23 entities, got %d", len(mem.Entities()))
	}
	if entityOf(t, mem, game.KindBall).ID == oldBall {
		t.Fatalf("expected the ball to be recreated")
	}
	if name, mode := mem.Backdrop(); name != "sky" || mode != game.BackdropOriginal {
		t.Fatalf("expected original sky, got %q %s", name, mode)
	}
}

func TestBallOnZoneWins(t *testing.T) {
	s, mem := newTestSession(t, nil)
	startSession(t, s)
	if !s.Snapshot().LastFallback && s.Evaluate() {
		t.Fatalf("fresh field must not be won")
	}

	ball := entityOf(t, mem, game.KindBall)
	zone := entityOf(t, mem, game.KindZone)
	mem.SetPosition(ball.ID, zone.Position)

	if !s.Evaluate() {
		t.Fatalf("expected ball on the zone to win")
	}
}

func TestHiddenBallNeverWins(t *testing.T) {
	s, mem := newTestSession(t, nil)
	startSession(t, s)

	ball := entityOf(t, mem, game.KindBall)
	zone := entityOf(t, mem, game.KindZone)
	mem.SetPosition(ball.ID, zone.Position)
	mem.SetVisible(ball.ID, false)

	if s.Evaluate() {
		t.Fatalf("hidden ball must not win")
	}
}

func TestTriggeredPhaseNeverWins(t *testing.T) {
	s, mem := newTestSession(t, nil)
	startSession(t, s)
	if _, err := s.Trigger(); err != nil {
		t.Fatalf("trigger: %v", err)
	}

	ball := entityOf(t, mem, game.KindBall)
	zone := entityOf(t, mem, game.KindZone)
	mem.SetPosition(ball.ID, zone.Position)

	if s.Evaluate() {
		t.Fatalf("with the platform shown the ball and zone are hidden; no win expected")
	}
}

func TestNudgeMovesVisibleBallOnly(t *testing.T) {
	s, _ := newTestSession(t, nil)
	startSession(t, s)
	start := s.Snapshot().Ball.Position

	moves := []struct {
		dir    game.Direction
		dx, dz float64
	}{
		{game.DirUp, 0, -0.8},
		{game.DirDown, 0, 0.8},
		{game.DirLeft, -0.8, 0},
		{game.DirRight, 0.8, 0},
	}
	for _, m := range moves {
		before := s.Snapshot().Ball.Position
		if !s.Nudge(m.dir) {
			t.Fatalf("expected %s nudge to move the ball", m.dir)
		}
		after := s.Snapshot().Ball.Position
		if !almost(after.X-before.X, m.dx) {
			t.Fatalf("%s: dx=%v want %v", m.dir, after.X-before.X, m.dx)
		}
		if !almost(after.Z-before.Z, m.dz) {
			t.Fatalf("%s: dz=%v want %v", m.dir, after.Z-before.Z, m.dz)
		}
	}
	end := s.Snapshot().Ball.Position
	if !almost(end.X, start.X) || !almost(end.Z, start.Z) {
		t.Fatalf("expected round trip to return to start, got %+v vs %+v", end, start)
	}

	if _, err := s.Trigger(); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	hidden := s.Snapshot().Ball.Position
	if s.Nudge(game.DirLeft) {
		t.Fatalf("hidden ball must not move")
	}
	if s.Snapshot().Ball.Position != hidden {
		t.Fatalf("hidden ball position changed")
	}
}

func TestTouchingModeHasNoZone(t *testing.T) {
	s, mem := newTestSession(t, func(r *game.Rules) { r.Win = game.DefaultWinRules(game.WinTouching) })
	startSession(t, s)

	if got := mem.CountKind(game.KindZone); got != 0 {
		t.Fatalf("expected no win zone in touching mode, got %d", got)
	}
	if _, err := s.Trigger(); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	snap := s.Snapshot()
	if snap.Zone.Present {
		t.Fatalf("expected zone to stay absent")
	}
}

func TestPlatformModesWinWhileBallAndPlatformShow(t *testing.T) {
	for _, mode := range []game.WinMode{game.WinTouching, game.WinClassic} {
		t.Run(string(mode), func(t *testing.T) {
			s, mem := newTestSession(t, func(r *game.Rules) { r.Win = game.DefaultWinRules(mode) })
			startSession(t, s)
			surface := s.Rules().Win.SurfaceOffset

			wins := 0
			for press := 0; press < 6; press++ {
				ball := entityOf(t, mem, game.KindBall)
				platform := entityOf(t, mem, game.KindPlatform)
				if ball.Visible != platform.Visible {
					t.Fatalf("press %d: ball visible=%v platform visible=%v, want them toggled together", press, ball.Visible, platform.Visible)
				}

				mem.SetPosition(ball.ID, platform.Position.Lift(surface))
				won := s.Evaluate()
				if won != platform.Visible {
					t.Fatalf("press %d: won=%v with platform visible=%v", press, won, platform.Visible)
				}
				if won {
					wins++
				}
				if _, err := s.Trigger(); err != nil {
					t.Fatalf("trigger: %v", err)
				}
			}
			if wins != 3 {
				t.Fatalf("expected a win in every shown phase, got %d of 3", wins)
			}
		})
	}
}

func TestUnstartedSessionIsInert(t *testing.T) {
	s, _ := newTestSession(t, nil)
	if _, err := s.Trigger(); err != game.ErrNotStarted {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
	if s.Nudge(game.DirUp) || s.Evaluate() {
		t.Fatalf("unstarted session must ignore input and never win")
	}
}

func TestNewSessionRejectsBadRules(t *testing.T) {
	rules := game.DefaultRules()
	rules.Trees = 0
	if _, err := game.NewSession(rules, scene.NewMemory(), nil); err == nil {
		t.Fatalf("expected validation error for zero trees")
	}
	if _, err := game.NewSession(game.DefaultRules(), nil, nil); err == nil {
		t.Fatalf("expected error for missing scene")
	}
}

func almost(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

func TestLastFallbackMatchesSnapshot(t *testing.T) {
	s, _ := newTestSession(t, func(r *game.Rules) { r.Placement.Trials = 1 })
	for i := 0; i < 5; i++ {
		startSession(t, s)
		if s.LastFallback() != s.Snapshot().LastFallback {
			t.Fatalf("reset %d: LastFallback()=%v snapshot=%v", i, s.LastFallback(), s.Snapshot().LastFallback)
		}
	}
}
