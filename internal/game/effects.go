package game

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/appengine-ltd/steelball/internal/logger"
)

// Effects are fire-and-forget; nothing they do feeds back into game state.
type Effects interface {
	PlaySound(name string)
	ShowOverlay(name string, after time.Duration)
	PlayAnimation(name string)
}

type NopEffects struct{}

func (NopEffects) PlaySound(string)                  {}
func (NopEffects) ShowOverlay(string, time.Duration) {}
func (NopEffects) PlayAnimation(string)              {}

type LogEffects struct {
	Log *logrus.Entry
}

func (e LogEffects) entry() *logrus.Entry {
	if e.Log != nil {
		return e.Log
	}
	return logger.For("effects")
}

func (e LogEffects) PlaySound(name string) {
	e.entry().WithField("sound", name).Debug("play sound")
}

func (e LogEffects) ShowOverlay(name string, after time.Duration) {
	e.entry().WithFields(logrus.Fields{"overlay": name, "after": after}).Debug("show overlay")
}

func (e LogEffects) PlayAnimation(name string) {
	e.entry().WithField("animation", name).Debug("play animation")
}

// MultiEffects fans every call out in order.
type MultiEffects []Effects

func (m MultiEffects) PlaySound(name string) {
	for _, e := range m {
		e.PlaySound(name)
	}
}

func (m MultiEffects) ShowOverlay(name string, after time.Duration) {
	for _, e := range m {
		e.ShowOverlay(name, after)
	}
}

func (m MultiEffects) PlayAnimation(name string) {
	for _, e := range m {
		e.PlayAnimation(name)
	}
}
