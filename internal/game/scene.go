package game

import "context"

type EntityID string

type MarkerKind string

const (
	KindTree     MarkerKind = "tree"
	KindRock     MarkerKind = "rock"
	KindBall     MarkerKind = "ball"
	KindPlatform MarkerKind = "platform"
	KindZone     MarkerKind = "zone"
)

// MarkerSpec describes an entity for a Scene to create. Scale is uniform and
// RotationY is in degrees.
type MarkerSpec struct {
	Name      string
	Kind      MarkerKind
	Model     string
	Scale     float64
	RotationY float64
	Position  Point
	Visible   bool
}

type Backdrop int

const (
	BackdropOriginal Backdrop = iota
	BackdropAlternate
)

func (b Backdrop) Toggle() Backdrop {
	if b == BackdropOriginal {
		return BackdropAlternate
	}
	return BackdropOriginal
}

func (b Backdrop) String() string {
	if b == BackdropAlternate {
		return "alternate"
	}
	return "original"
}

// Scene is everything the game needs from a renderer. CreateMarker blocks until
// the marker reports ready or ctx is done. Lookups on unknown ids report
// ok=false and writes to unknown ids are ignored.
type Scene interface {
	CreateMarker(ctx context.Context, spec MarkerSpec) (EntityID, error)
	SetPosition(id EntityID, p Point)
	Position(id EntityID) (Point, bool)
	SetVisible(id EntityID, visible bool)
	Visible(id EntityID) (bool, bool)
	Clear()
	SetBackdrop(name string, mode Backdrop)
}
