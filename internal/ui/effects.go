package ui

import (
	"fmt"
	"time"
)

type effectMsg struct {
	text   string
	banner bool
}

// termEffects turns game effects into status lines. Sends never block the
// runner; a full buffer drops the message.
type termEffects struct {
	out chan effectMsg
}

func newTermEffects(size int) *termEffects {
	return &termEffects{out: make(chan effectMsg, size)}
}

func (e *termEffects) send(m effectMsg) {
	select {
	case e.out <- m:
	default:
	}
}

func (e *termEffects) PlaySound(name string) {
	e.send(effectMsg{text: fmt.Sprintf("♪ %s", name)})
}

func (e *termEffects) ShowOverlay(name string, after time.Duration) {
	if after <= 0 {
		e.send(effectMsg{text: name, banner: true})
		return
	}
	time.AfterFunc(after, func() { e.send(effectMsg{text: name, banner: true}) })
}

func (e *termEffects) PlayAnimation(name string) {
	e.send(effectMsg{text: fmt.Sprintf("✶ %s ✶", name)})
}
