package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/steelball/internal/game"
	uitheme "github.com/appengine-ltd/steelball/internal/ui/theme"
)

type hudState struct {
	snap      game.Snapshot
	threshold int
	message   string
}

func (h *hudState) apply(ev game.Event) {
	h.snap = ev.Snapshot
	switch ev.Kind {
	case game.EventStarted:
		h.message = "Roll the ball onto the platform"
	case game.EventTriggered:
		h.message = fmt.Sprintf("Flipped %d/%d", ev.Snapshot.Presses, h.threshold)
	case game.EventRelocated:
		h.message = "The platform moved"
	case game.EventWon:
		h.message = fmt.Sprintf("Win #%d", ev.Snapshot.Wins)
	case game.EventRestarted:
		h.message = "Restarted"
	case game.EventFallback:
		h.message = "Crowded field"
	}
}

func (h *hudState) draw(screenW int32, version string) {
	const panelW, panelH = 300, 210
	rect := rl.NewRectangle(float32(screenW)-panelW-uitheme.PaddingM, uitheme.PaddingM, panelW, panelH)
	uitheme.DrawPanel(rect)

	x := int32(rect.X + uitheme.PaddingM)
	y := int32(rect.Y + uitheme.PaddingS)
	w := int32(rect.Width - uitheme.PaddingM*2)
	uitheme.DrawHeader("Steel Ball", x, y)
	y += uitheme.Type.Header + 18

	if !h.snap.Ready {
		uitheme.DrawKeyValue("field", "loading", x, y, w, uitheme.TextMuted)
		return
	}
	ball := "hidden"
	if h.snap.Ball.Visible {
		ball = "shown"
	}
	platform := "hidden"
	if h.snap.Platform.Visible {
		platform = "shown"
	}
	rows := []struct {
		label, value string
		color        rl.Color
	}{
		{"ball", ball, uitheme.AccentSteel},
		{"platform", platform, uitheme.AccentEmber},
		{"presses", fmt.Sprintf("%d/%d", h.snap.Presses, h.threshold), uitheme.TextPrimary},
		{"wins", fmt.Sprintf("%d", h.snap.Wins), uitheme.TextPrimary},
	}
	for _, r := range rows {
		uitheme.DrawKeyValue(r.label, r.value, x, y, w, r.color)
		y += uitheme.Type.Body + 6
	}
	uitheme.DrawDivider(float32(x), float32(y+2), float32(x+w), float32(y+2))
	uitheme.DrawHintText(h.message, x, y+8)
	uitheme.DrawHintText("v"+version, x, int32(rect.Y+rect.Height)-uitheme.Type.Small-6)
}

func drawControls(screenH int32) {
	uitheme.DrawHintText("Arrows roll   E flip   R restart   Esc quit", int32(uitheme.PaddingM), screenH-uitheme.Type.Small-int32(uitheme.PaddingS))
}
