package gui

import (
	"context"
	"fmt"
	"sort"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/steelball/internal/game"
)

type entity struct {
	id       game.EntityID
	spec     game.MarkerSpec
	position game.Point
	visible  bool
	model    rl.Model
	hasModel bool
	seq      int
}

type loadRequest struct {
	spec  game.MarkerSpec
	reply chan game.EntityID
}

// Scene is a game.Scene backed by raylib. Creation requests are queued and
// only turn into entities when the render thread calls serviceLoads, since
// model loading must happen on the thread that owns the GL context.
type Scene struct {
	mu       sync.Mutex
	entities map[game.EntityID]*entity
	next     int
	backdrop string
	mode     game.Backdrop

	loads  chan loadRequest
	assets *assetStore
}

func NewScene(assets *assetStore, queueSize int) *Scene {
	if queueSize < 1 {
		queueSize = 64
	}
	return &Scene{
		entities: make(map[game.EntityID]*entity),
		loads:    make(chan loadRequest, queueSize),
		assets:   assets,
	}
}

func (s *Scene) CreateMarker(ctx context.Context, spec game.MarkerSpec) (game.EntityID, error) {
	req := loadRequest{spec: spec, reply: make(chan game.EntityID, 1)}
	select {
	case s.loads <- req:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case id := <-req.reply:
		return id, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// serviceLoads resolves up to budget queued creations. Render thread only.
func (s *Scene) serviceLoads(budget int) int {
	done := 0
	for done < budget {
		select {
		case req := <-s.loads:
			req.reply <- s.materialise(req.spec)
			done++
		default:
			return done
		}
	}
	return done
}

func (s *Scene) materialise(spec game.MarkerSpec) game.EntityID {
	var model rl.Model
	hasModel := false
	if s.assets != nil && spec.Model != "" {
		model, hasModel = s.assets.Model(spec.Model)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	id := game.EntityID(fmt.Sprintf("%s-%d", spec.Name, s.next))
	s.entities[id] = &entity{
		id:       id,
		spec:     spec,
		position: spec.Position,
		visible:  spec.Visible,
		model:    model,
		hasModel: hasModel,
		seq:      s.next,
	}
	return id
}

func (s *Scene) SetPosition(id game.EntityID, p game.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entities[id]; ok {
		e.position = p
	}
}

func (s *Scene) Position(id game.EntityID) (game.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entities[id]
	if !ok {
		return game.Point{}, false
	}
	return e.position, true
}

func (s *Scene) SetVisible(id game.EntityID, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entities[id]; ok {
		e.visible = visible
	}
}

func (s *Scene) Visible(id game.EntityID) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entities[id]
	if !ok {
		return false, false
	}
	return e.visible, true
}

// Clear drops entities only. Models stay cached in the asset store.
func (s *Scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities = make(map[game.EntityID]*entity)
}

func (s *Scene) SetBackdrop(name string, mode game.Backdrop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backdrop = name
	s.mode = mode
}

func (s *Scene) backdropState() (string, game.Backdrop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backdrop, s.mode
}

// visibleEntities copies what the render pass needs, in creation order.
func (s *Scene) visibleEntities() []entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity, 0, len(s.entities))
	for _, e := range s.entities {
		if e.visible {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (s *Scene) find(kind game.MarkerKind) (entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entities {
		if e.spec.Kind == kind {
			return *e, true
		}
	}
	return entity{}, false
}
