package game

import (
	"fmt"
	"math"
	"time"
)

type WinMode string

const (
	// WinZone checks the ball against the win zone while the platform is hidden.
	WinZone WinMode = "zone"
	// WinTouching checks the ball against the visible platform with loose thresholds.
	WinTouching WinMode = "touching"
	// WinClassic is WinTouching with the tight thresholds of the first release.
	WinClassic WinMode = "classic"
)

func (m WinMode) UsesZone() bool {
	return m == WinZone
}

type Rules struct {
	Seed int64

	HalfExtent float64
	Trees      int
	Rocks      int
	Catalog    MarkerCatalog

	Placement PlacementRules

	PlatformLift float64
	BallLift     float64
	MoveStep     float64

	TriggerThreshold int

	Win     WinRules
	Effects EffectNames

	OriginalBackdrop  string
	AlternateBackdrop string
}

type PlacementRules struct {
	Trials              int
	Offset              float64
	RadialJitter        float64
	FallbackJitter      float64
	MinObstacleDistance float64
	MinSeparation       float64
	CandidateHeight     float64
}

type WinRules struct {
	Mode          WinMode
	Interval      time.Duration
	MaxPlanar     float64
	MaxVertical   float64
	SurfaceOffset float64
}

type EffectNames struct {
	WinSound     string
	WinOverlay   string
	Celebration  string
	OverlayDelay time.Duration
}

type ModelSpec struct {
	Model string
	Scale float64
}

type MarkerCatalog map[MarkerKind]ModelSpec

func (c MarkerCatalog) Lookup(kind MarkerKind) ModelSpec {
	if spec, ok := c[kind]; ok {
		return spec
	}
	return ModelSpec{Model: string(kind), Scale: 1}
}

func DefaultCatalog() MarkerCatalog {
	return MarkerCatalog{
		KindTree:     {Model: "tree", Scale: 0.8},
		KindRock:     {Model: "rock", Scale: 0.1},
		KindBall:     {Model: "steelball", Scale: 1},
		KindPlatform: {Model: "platform", Scale: 1},
		KindZone:     {Model: "winzone", Scale: 1},
	}
}

func DefaultPlacementRules() PlacementRules {
	return PlacementRules{
		Trials:              16,
		Offset:              4,
		RadialJitter:        2,
		FallbackJitter:      10,
		MinObstacleDistance: 3,
		MinSeparation:       20,
		CandidateHeight:     1,
	}
}

// DefaultWinRules returns the thresholds and polling cadence each release shipped with.
func DefaultWinRules(mode WinMode) WinRules {
	switch mode {
	case WinClassic:
		return WinRules{Mode: WinClassic, Interval: 100 * time.Millisecond, MaxPlanar: 0.5, MaxVertical: 0.1, SurfaceOffset: 0.1}
	case WinTouching:
		return WinRules{Mode: WinTouching, Interval: 100 * time.Millisecond, MaxPlanar: 2, MaxVertical: 0.2, SurfaceOffset: 0.1}
	default:
		return WinRules{Mode: WinZone, Interval: 500 * time.Millisecond, MaxPlanar: 2, MaxVertical: 0.3}
	}
}

func DefaultRules() Rules {
	return Rules{
		HalfExtent:       50,
		Trees:            10,
		Rocks:            10,
		Catalog:          DefaultCatalog(),
		Placement:        DefaultPlacementRules(),
		PlatformLift:     0.1,
		BallLift:         0.1,
		MoveStep:         0.8,
		TriggerThreshold: 3,
		Win:              DefaultWinRules(WinZone),
		Effects: EffectNames{
			WinSound:     "win",
			WinOverlay:   "win",
			Celebration:  "celebrate",
			OverlayDelay: 2 * time.Second,
		},
		OriginalBackdrop:  "sky",
		AlternateBackdrop: "new_sky_image",
	}
}

func (r Rules) Validate() error {
	if !(r.HalfExtent > 0) || math.IsInf(r.HalfExtent, 0) {
		return fmt.Errorf("half extent must be positive, got %v", r.HalfExtent)
	}
	if r.Trees < 1 || r.Rocks < 1 {
		return fmt.Errorf("need at least one tree and one rock, got %d trees and %d rocks", r.Trees, r.Rocks)
	}
	if r.Placement.Trials < 1 {
		return fmt.Errorf("placement trials must be at least 1, got %d", r.Placement.Trials)
	}
	if r.Placement.Offset < 0 || r.Placement.RadialJitter < 0 || r.Placement.FallbackJitter < 0 {
		return fmt.Errorf("placement offset and jitter must not be negative")
	}
	if r.Placement.MinObstacleDistance < 0 || r.Placement.MinSeparation < 0 {
		return fmt.Errorf("placement distances must not be negative")
	}
	if !(r.MoveStep > 0) {
		return fmt.Errorf("move step must be positive, got %v", r.MoveStep)
	}
	if r.TriggerThreshold < 1 {
		return fmt.Errorf("trigger threshold must be at least 1, got %d", r.TriggerThreshold)
	}
	switch r.Win.Mode {
	case WinZone, WinTouching, WinClassic:
	default:
		return fmt.Errorf("invalid win mode: %s", r.Win.Mode)
	}
	if r.Win.Interval <= 0 {
		return fmt.Errorf("win interval must be positive, got %s", r.Win.Interval)
	}
	if !(r.Win.MaxPlanar > 0) || !(r.Win.MaxVertical > 0) {
		return fmt.Errorf("win thresholds must be positive")
	}
	if r.Effects.OverlayDelay < 0 {
		return fmt.Errorf("overlay delay must not be negative, got %s", r.Effects.OverlayDelay)
	}
	if r.OriginalBackdrop == "" || r.AlternateBackdrop == "" {
		return fmt.Errorf("both backdrops must be named")
	}
	return nil
}
