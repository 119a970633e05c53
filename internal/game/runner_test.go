package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appengine-ltd/steelball/internal/game"
	"github.com/appengine-ltd/steelball/internal/scene"
)

type runHarness struct {
	runner *game.Runner
	mem    *scene.Memory
	cancel context.CancelFunc
	done   chan error
}

func startRunner(t *testing.T, interval time.Duration) *runHarness {
	t.Helper()
	rules := game.DefaultRules()
	rules.Seed = 7
	rules.Win.Interval = interval
	mem := scene.NewMemory()
	session, err := game.NewSession(rules, mem, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	h := &runHarness{runner: game.NewRunner(session, 64), mem: mem, cancel: cancel, done: make(chan error, 1)}
	go func() { h.done <- h.runner.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-h.done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Errorf("runner did not stop")
		}
	})

	h.await(t, game.EventStarted)
	return h
}

// await drains events until one of kind arrives.
func (h *runHarness) await(t *testing.T, kind game.EventKind) game.Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-h.runner.Events():
			if ev.Kind == kind {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", kind)
			return game.Event{}
		}
	}
}

func (h *runHarness) entity(t *testing.T, kind game.MarkerKind) scene.Entity {
	t.Helper()
	for _, e := range h.mem.Entities() {
		if e.Spec.Kind == kind {
			return e
		}
	}
	t.Fatalf("no %s in scene", kind)
	return scene.Entity{}
}

func TestRunnerStartsReadyField(t *testing.T) {
	h := startRunner(t, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	snap, ok := h.runner.Snapshot(ctx)
	require.True(t, ok)
	assert.True(t, snap.Ready)
	assert.Equal(t, 20, snap.Obstacles)
	assert.Equal(t, game.BackdropOriginal, snap.Backdrop)
}

func TestRunnerWinsOnTick(t *testing.T) {
	h := startRunner(t, 20*time.Millisecond)

	ball := h.entity(t, game.KindBall)
	zone := h.entity(t, game.KindZone)
	h.mem.SetPosition(ball.ID, zone.Position)

	ev := h.await(t, game.EventWon)
	assert.Equal(t, 1, ev.Snapshot.Wins)
	assert.Equal(t, 0, ev.Snapshot.Presses)
	assert.Equal(t, game.BackdropOriginal, ev.Snapshot.Backdrop)
	assert.True(t, ev.Snapshot.Ready)
}

func TestRunnerTriggerCycle(t *testing.T) {
	h := startRunner(t, time.Hour)

	h.runner.Enqueue(game.Trigger())
	first := h.await(t, game.EventTriggered)
	assert.Equal(t, 1, first.Snapshot.Presses)
	assert.Equal(t, game.BackdropAlternate, first.Snapshot.Backdrop)

	h.runner.Enqueue(game.Trigger())
	second := h.await(t, game.EventTriggered)
	assert.Equal(t, 2, second.Snapshot.Presses)

	h.runner.Enqueue(game.Trigger())
	relocated := h.await(t, game.EventRelocated)
	assert.Equal(t, 0, relocated.Snapshot.Presses)
	assert.NotEqual(t, second.Snapshot.Platform.Position, relocated.Snapshot.Platform.Position)
}

func TestRunnerNudgeAndRestart(t *testing.T) {
	h := startRunner(t, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	before, ok := h.runner.Snapshot(ctx)
	require.True(t, ok)

	h.runner.Enqueue(game.Nudge(game.DirRight))
	require.Eventually(t, func() bool {
		after, ok := h.runner.Snapshot(ctx)
		return ok && after.Ball.Position.X > before.Ball.Position.X+0.79
	}, 2*time.Second, 5*time.Millisecond)

	h.runner.Enqueue(game.Trigger())
	h.await(t, game.EventTriggered)
	h.runner.Enqueue(game.Restart())
	ev := h.await(t, game.EventRestarted)
	assert.Equal(t, 0, ev.Snapshot.Presses)
	assert.Equal(t, game.BackdropOriginal, ev.Snapshot.Backdrop)
	assert.Equal(t, 23, len(h.mem.Entities()))
}

func TestRunnerStopsWhenStartIsCancelled(t *testing.T) {
	gate := make(chan struct{})
	rules := game.DefaultRules()
	session, err := game.NewSession(rules, scene.NewMemory(scene.WithGate(gate)), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = game.NewRunner(session, 4).Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEnqueueDropsWhenSaturated(t *testing.T) {
	rules := game.DefaultRules()
	session, err := game.NewSession(rules, scene.NewMemory(), nil)
	require.NoError(t, err)
	r := game.NewRunner(session, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			r.Enqueue(game.Trigger())
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("enqueue blocked on a full queue")
	}

	var nilRunner *game.Runner
	nilRunner.Enqueue(game.Trigger())
}
