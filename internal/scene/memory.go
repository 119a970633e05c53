// Package scene provides a headless game.Scene that keeps entities in memory.
package scene

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/appengine-ltd/steelball/internal/game"
)

type Entity struct {
	ID       game.EntityID
	Spec     game.MarkerSpec
	Position game.Point
	Visible  bool
	seq      int
}

// Memory simulates a scene whose markers become ready asynchronously, after
// an optional load latency and, when a gate is set, only once the gate closes.
type Memory struct {
	mu       sync.Mutex
	entities map[game.EntityID]*Entity
	next     int
	pending  int
	backdrop string
	mode     game.Backdrop

	latency time.Duration
	gate    <-chan struct{}
}

type Option func(*Memory)

func WithLoadLatency(d time.Duration) Option {
	return func(m *Memory) { m.latency = d }
}

// WithGate holds every marker creation until gate is closed.
func WithGate(gate <-chan struct{}) Option {
	return func(m *Memory) { m.gate = gate }
}

func NewMemory(opts ...Option) *Memory {
	m := &Memory{entities: make(map[game.EntityID]*Entity)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) CreateMarker(ctx context.Context, spec game.MarkerSpec) (game.EntityID, error) {
	m.mu.Lock()
	m.pending++
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.pending--
		m.mu.Unlock()
	}()

	if m.latency > 0 {
		timer := time.NewTimer(m.latency)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		}
	}
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := game.EntityID(fmt.Sprintf("%s-%d", spec.Name, m.next))
	m.entities[id] = &Entity{
		ID:       id,
		Spec:     spec,
		Position: spec.Position,
		Visible:  spec.Visible,
		seq:      m.next,
	}
	return id, nil
}

func (m *Memory) SetPosition(id game.EntityID, p game.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entities[id]; ok {
		e.Position = p
	}
}

func (m *Memory) Position(id game.EntityID) (game.Point, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entities[id]
	if !ok {
		return game.Point{}, false
	}
	return e.Position, true
}

func (m *Memory) SetVisible(id game.EntityID, visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entities[id]; ok {
		e.Visible = visible
	}
}

func (m *Memory) Visible(id game.EntityID) (bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entities[id]
	if !ok {
		return false, false
	}
	return e.Visible, true
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities = make(map[game.EntityID]*Entity)
}

func (m *Memory) SetBackdrop(name string, mode game.Backdrop) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backdrop = name
	m.mode = mode
}

func (m *Memory) Backdrop() (string, game.Backdrop) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backdrop, m.mode
}

// Entities returns copies in creation order.
func (m *Memory) Entities() []Entity {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entity, 0, len(m.entities))
	for _, e := range m.entities {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (m *Memory) CountKind(kind game.MarkerKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entities {
		if e.Spec.Kind == kind {
			n++
		}
	}
	return n
}

// Pending is the number of creations issued but not yet ready.
func (m *Memory) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}
