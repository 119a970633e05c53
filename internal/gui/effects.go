package gui

import "time"

type effectKind int

const (
	effectSound effectKind = iota
	effectOverlay
	effectAnimation
)

type effectRequest struct {
	kind  effectKind
	name  string
	after time.Duration
}

// Effects queues game effects for the render thread. Calls never block; a
// saturated queue drops the effect.
type Effects struct {
	ch chan effectRequest
}

func NewEffects(size int) *Effects {
	if size < 1 {
		size = 16
	}
	return &Effects{ch: make(chan effectRequest, size)}
}

func (e *Effects) push(req effectRequest) {
	select {
	case e.ch <- req:
	default:
	}
}

func (e *Effects) PlaySound(name string) {
	e.push(effectRequest{kind: effectSound, name: name})
}

func (e *Effects) ShowOverlay(name string, after time.Duration) {
	e.push(effectRequest{kind: effectOverlay, name: name, after: after})
}

func (e *Effects) PlayAnimation(name string) {
	e.push(effectRequest{kind: effectAnimation, name: name})
}

func (e *Effects) drain() []effectRequest {
	var out []effectRequest
	for {
		select {
		case req := <-e.ch:
			out = append(out, req)
		default:
			return out
		}
	}
}

// overlayState shows one named overlay for a fixed time once its delay has passed.
type overlayState struct {
	name    string
	showAt  time.Time
	hideAt  time.Time
	pending bool
}

func (o *overlayState) schedule(name string, now time.Time, after, duration time.Duration) {
	o.name = name
	o.showAt = now.Add(after)
	o.hideAt = o.showAt.Add(duration)
	o.pending = true
}

func (o *overlayState) active(now time.Time) (string, bool) {
	if !o.pending {
		return "", false
	}
	if now.After(o.hideAt) {
		o.pending = false
		return "", false
	}
	if now.Before(o.showAt) {
		return "", false
	}
	return o.name, true
}
