package ui

import (
	"context"
	"image/color"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/appengine-ltd/steelball/internal/game"
	"github.com/appengine-ltd/steelball/internal/scene"
)

func testModel(t *testing.T) (model, context.Context) {
	t.Helper()
	rules := game.DefaultRules()
	rules.Seed = 11
	mem := scene.NewMemory()
	session, err := game.NewSession(rules, mem, nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	runner := game.NewRunner(session, 32)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = runner.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case ev := <-runner.Events():
		if ev.Kind != game.EventStarted {
			t.Fatalf("expected started event, got %s", ev.Kind)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("runner did not start")
	}
	return newModel(ctx, AppConfig{Version: "test", Rules: rules}, runner, mem, newTermEffects(8)), ctx
}

func ballX(t *testing.T, m model, ctx context.Context) float64 {
	t.Helper()
	snap, ok := m.runner.Snapshot(ctx)
	if !ok {
		t.Fatalf("snapshot failed")
	}
	return snap.Ball.Position.X
}

func TestKeyIntentMapsArrowsAndLetters(t *testing.T) {
	tests := []struct {
		key  tea.KeyMsg
		want game.Intent
	}{
		{key: tea.KeyMsg{Type: tea.KeyUp}, want: game.Nudge(game.DirUp)},
		{key: tea.KeyMsg{Type: tea.KeyLeft}, want: game.Nudge(game.DirLeft)},
		{key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}}, want: game.Trigger()},
		{key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'R'}}, want: game.Restart()},
	}
	for _, tc := range tests {
		got, ok := keyIntent(tc.key)
		if !ok || got != tc.want {
			t.Fatalf("keyIntent(%q)=%+v,%v want %+v", tc.key.String(), got, ok, tc.want)
		}
	}
	if _, ok := keyIntent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}); ok {
		t.Fatalf("expected x to be unbound")
	}
}

func TestCommandLineMovesBall(t *testing.T) {
	m, ctx := testModel(t)
	start := ballX(t, m, ctx)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{':'}})
	m = next.(model)
	if !m.cmdMode {
		t.Fatalf("expected : to open the command line")
	}
	for _, r := range "right 2" {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		}
		next, _ = m.Update(msg)
		m = next.(model)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	if m.cmdMode {
		t.Fatalf("expected enter to close the command line")
	}
	if !strings.Contains(m.status, "right 2") {
		t.Fatalf("expected echo of parsed command, got %q", m.status)
	}

	deadline := time.Now().Add(2 * time.Second)
	for ballX(t, m, ctx) < start+1.59 {
		if time.Now().After(deadline) {
			t.Fatalf("expected ball to move right twice")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubmitQuitAndClarify(t *testing.T) {
	m, _ := testModel(t)

	next, cmd := m.submit("quit")
	if cmd == nil || !next.(model).quitting {
		t.Fatalf("expected quit to stop the program")
	}

	next, _ = m.submit("st")
	if !strings.Contains(next.(model).status, "Did you mean") {
		t.Fatalf("expected clarify prompt, got %q", next.(model).status)
	}

	next, _ = m.submit("help")
	if !strings.Contains(next.(model).status, "Commands:") {
		t.Fatalf("expected help text, got %q", next.(model).status)
	}
}

func TestEventsFeedTheLog(t *testing.T) {
	m, _ := testModel(t)
	m = m.applyEvent(game.Event{Kind: game.EventWon, Snapshot: game.Snapshot{Ready: true, Wins: 3}})
	if len(m.messages) != 1 || !strings.Contains(m.messages[0], "Win #3") {
		t.Fatalf("expected win message, got %+v", m.messages)
	}
	for i := 0; i < maxMessages+3; i++ {
		m.pushMessage("x")
	}
	if len(m.messages) != maxMessages {
		t.Fatalf("expected log capped at %d, got %d", maxMessages, len(m.messages))
	}
}

func TestOverlayEffectBecomesBanner(t *testing.T) {
	m, _ := testModel(t)
	m.effects.ShowOverlay("win", 0)
	msg := <-m.effects.out

	next, _ := m.Update(msg)
	m = next.(model)
	if m.banner != "WIN" {
		t.Fatalf("expected WIN banner, got %q", m.banner)
	}
	if !strings.Contains(m.View(), "WIN") {
		t.Fatalf("expected banner in view")
	}
}

func TestDrawFieldPlacesBallAtCentre(t *testing.T) {
	entities := []scene.Entity{
		{Spec: game.MarkerSpec{Kind: game.KindBall}, Position: game.Point{}, Visible: true},
		{Spec: game.MarkerSpec{Kind: game.KindPlatform}, Position: game.Point{X: 40, Z: 40}, Visible: false},
	}
	img := drawField(entities, game.BackdropOriginal, 50, 40, 40)

	r, g, b, _ := rgba8(img.At(20, 20))
	if (color.RGBA{r, g, b, 0xFF}) != ballColour {
		t.Fatalf("expected ball colour at centre, got %d,%d,%d", r, g, b)
	}
	r, g, b, _ = rgba8(img.At(36, 36))
	if (color.RGBA{r, g, b, 0xFF}) != groundOriginal {
		t.Fatalf("hidden platform must not be drawn, got %d,%d,%d", r, g, b)
	}

	alt := drawField(nil, game.BackdropAlternate, 50, 10, 10)
	r, g, b, _ = rgba8(alt.At(0, 0))
	if (color.RGBA{r, g, b, 0xFF}) != groundAlternate {
		t.Fatalf("expected alternate ground colour")
	}
}

func TestRenderFieldANSIRowCount(t *testing.T) {
	out := renderFieldANSI(nil, game.BackdropOriginal, 50, 20, 10)
	if got := len(strings.Split(out, "\n")); got != 10 {
		t.Fatalf("expected 10 rows, got %d", got)
	}
}

func TestStatusText(t *testing.T) {
	if got := statusText(game.Snapshot{}); got != "loading…" {
		t.Fatalf("expected loading text, got %q", got)
	}
	got := statusText(game.Snapshot{Ready: true, Presses: 2, Ball: game.Body{Present: true, Visible: true, Position: game.Point{X: 1.5, Z: -2}}})
	if !strings.Contains(got, "1.5, -2.0") || !strings.Contains(got, "presses:  2") || !strings.Contains(got, "platform: hidden") {
		t.Fatalf("unexpected status text %q", got)
	}
}
