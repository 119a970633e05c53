package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/appengine-ltd/steelball/internal/game"
)

// Default mirrors game.DefaultRules in file form.
func Default() Config {
	rules := game.DefaultRules()
	catalog := rules.Catalog
	model := func(kind game.MarkerKind) ModelConfig {
		spec := catalog.Lookup(kind)
		return ModelConfig{Model: spec.Model, Scale: spec.Scale}
	}

	return Config{
		Field: FieldConfig{
			HalfExtent: rules.HalfExtent,
			Trees:      rules.Trees,
			Rocks:      rules.Rocks,
		},
		Placement: PlacementConfig{
			Trials:              rules.Placement.Trials,
			Offset:              rules.Placement.Offset,
			RadialJitter:        rules.Placement.RadialJitter,
			FallbackJitter:      rules.Placement.FallbackJitter,
			MinObstacleDistance: rules.Placement.MinObstacleDistance,
			MinSeparation:       rules.Placement.MinSeparation,
			CandidateHeight:     rules.Placement.CandidateHeight,
		},
		Play: PlayConfig{
			PlatformLift:     rules.PlatformLift,
			BallLift:         rules.BallLift,
			MoveStep:         rules.MoveStep,
			TriggerThreshold: rules.TriggerThreshold,
		},
		Win: WinConfig{Mode: string(rules.Win.Mode)},
		Effects: EffectsConfig{
			WinSound:          rules.Effects.WinSound,
			WinOverlay:        rules.Effects.WinOverlay,
			Celebration:       rules.Effects.Celebration,
			OverlayDelay:      rules.Effects.OverlayDelay.String(),
			OriginalBackdrop:  rules.OriginalBackdrop,
			AlternateBackdrop: rules.AlternateBackdrop,
		},
		Models: ModelsConfig{
			Tree:     model(game.KindTree),
			Rock:     model(game.KindRock),
			Ball:     model(game.KindBall),
			Platform: model(game.KindPlatform),
			Zone:     model(game.KindZone),
		},
		Assets: AssetsConfig{Dir: "assets"},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Steel Ball",
			FPS:    60,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// WriteDefault writes Default to path through a temp file so a crash never
// leaves a half-written config behind.
func WriteDefault(path string) error {
	cfg := Default()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "steelball-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	cleanup = false
	return nil
}
