package game

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/appengine-ltd/steelball/internal/logger"
)

type EventKind int

const (
	EventStarted EventKind = iota
	EventTriggered
	EventRelocated
	EventWon
	EventRestarted
	EventFallback
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventTriggered:
		return "triggered"
	case EventRelocated:
		return "relocated"
	case EventWon:
		return "won"
	case EventRestarted:
		return "restarted"
	case EventFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind     EventKind
	At       time.Time
	Snapshot Snapshot
}

// Runner is the event loop around a Session. Input, ticks and resets all run
// on the goroutine that called Run, one at a time.
type Runner struct {
	session  *Session
	interval time.Duration
	intents  chan Intent
	events   chan Event
	snapshot chan chan Snapshot
	log      *logrus.Entry
}

func NewRunner(session *Session, queueSize int) *Runner {
	if queueSize < 1 {
		queueSize = 16
	}
	return &Runner{
		session:  session,
		interval: session.Rules().Win.Interval,
		intents:  make(chan Intent, queueSize),
		events:   make(chan Event, queueSize),
		snapshot: make(chan chan Snapshot),
		log:      logger.For("runner"),
	}
}

// Enqueue never blocks; intents are dropped while the queue is saturated.
func (r *Runner) Enqueue(intent Intent) {
	if r == nil {
		return
	}
	select {
	case r.intents <- intent:
	default:
	}
}

func (r *Runner) Events() <-chan Event {
	return r.events
}

// Snapshot asks the loop for the current session state. It returns false if
// ctx ends before the loop answers.
func (r *Runner) Snapshot(ctx context.Context) (Snapshot, bool) {
	reply := make(chan Snapshot, 1)
	select {
	case r.snapshot <- reply:
	case <-ctx.Done():
		return Snapshot{}, false
	}
	select {
	case snap := <-reply:
		return snap, true
	case <-ctx.Done():
		return Snapshot{}, false
	}
}

// Run builds the first play field and then serves intents and win checks
// until ctx is cancelled. Ticks that arrive during a reset are dropped by the
// ticker, so a check never sees a torn-down field.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.session.Start(ctx); err != nil {
		return err
	}
	r.publish(EventStarted)
	r.noteFallback()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case reply := <-r.snapshot:
			reply <- r.session.Snapshot()
		case intent := <-r.intents:
			if err := r.apply(ctx, intent); err != nil {
				return r.stopped(ctx, err)
			}
		case <-ticker.C:
			if err := r.evaluate(ctx); err != nil {
				return r.stopped(ctx, err)
			}
		}
	}
}

func (r *Runner) apply(ctx context.Context, intent Intent) error {
	switch intent.Kind {
	case IntentNudge:
		r.session.Nudge(intent.Direction)
		return nil
	case IntentTrigger:
		relocated, err := r.session.Trigger()
		if err != nil {
			r.log.WithError(err).Debug("trigger ignored")
			return nil
		}
		r.publish(EventTriggered)
		if relocated {
			r.publish(EventRelocated)
			r.noteFallback()
		}
		return r.evaluate(ctx)
	case IntentRestart:
		if err := r.session.Reset(ctx); err != nil {
			return err
		}
		r.publish(EventRestarted)
		r.noteFallback()
		return nil
	default:
		return nil
	}
}

func (r *Runner) evaluate(ctx context.Context) error {
	if !r.session.Evaluate() {
		return nil
	}
	if err := r.session.Win(ctx); err != nil {
		return err
	}
	r.publish(EventWon)
	r.noteFallback()
	return nil
}

func (r *Runner) noteFallback() {
	if r.session.LastFallback() {
		r.publish(EventFallback)
	}
}

func (r *Runner) publish(kind EventKind) {
	select {
	case r.events <- Event{Kind: kind, At: time.Now(), Snapshot: r.session.Snapshot()}:
	default:
	}
}

func (r *Runner) stopped(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}
