// Package config loads steelball settings from YAML, STEELBALL_* environment
// variables and built-in defaults, in that order of precedence after env.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/appengine-ltd/steelball/internal/game"
)

const EnvPrefix = "STEELBALL"

type Config struct {
	Seed      int64           `mapstructure:"seed" yaml:"seed"`
	Field     FieldConfig     `mapstructure:"field" yaml:"field"`
	Placement PlacementConfig `mapstructure:"placement" yaml:"placement"`
	Play      PlayConfig      `mapstructure:"play" yaml:"play"`
	Win       WinConfig       `mapstructure:"win" yaml:"win"`
	Effects   EffectsConfig   `mapstructure:"effects" yaml:"effects"`
	Models    ModelsConfig    `mapstructure:"models" yaml:"models"`
	Assets    AssetsConfig    `mapstructure:"assets" yaml:"assets"`
	Window    WindowConfig    `mapstructure:"window" yaml:"window"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

type FieldConfig struct {
	HalfExtent float64 `mapstructure:"halfExtent" yaml:"halfExtent"`
	Trees      int     `mapstructure:"trees" yaml:"trees"`
	Rocks      int     `mapstructure:"rocks" yaml:"rocks"`
}

type PlacementConfig struct {
	Trials              int     `mapstructure:"trials" yaml:"trials"`
	Offset              float64 `mapstructure:"offset" yaml:"offset"`
	RadialJitter        float64 `mapstructure:"radialJitter" yaml:"radialJitter"`
	FallbackJitter      float64 `mapstructure:"fallbackJitter" yaml:"fallbackJitter"`
	MinObstacleDistance float64 `mapstructure:"minObstacleDistance" yaml:"minObstacleDistance"`
	MinSeparation       float64 `mapstructure:"minSeparation" yaml:"minSeparation"`
	CandidateHeight     float64 `mapstructure:"candidateHeight" yaml:"candidateHeight"`
}

type PlayConfig struct {
	PlatformLift     float64 `mapstructure:"platformLift" yaml:"platformLift"`
	BallLift         float64 `mapstructure:"ballLift" yaml:"ballLift"`
	MoveStep         float64 `mapstructure:"moveStep" yaml:"moveStep"`
	TriggerThreshold int     `mapstructure:"triggerThreshold" yaml:"triggerThreshold"`
}

// WinConfig selects a rule mode. Zero thresholds and an empty interval take
// the mode's own defaults, so switching modes needs only the mode line.
type WinConfig struct {
	Mode          string  `mapstructure:"mode" yaml:"mode"`
	Interval      string  `mapstructure:"interval" yaml:"interval,omitempty"`
	MaxPlanar     float64 `mapstructure:"maxPlanar" yaml:"maxPlanar,omitempty"`
	MaxVertical   float64 `mapstructure:"maxVertical" yaml:"maxVertical,omitempty"`
	SurfaceOffset float64 `mapstructure:"surfaceOffset" yaml:"surfaceOffset,omitempty"`
}

type EffectsConfig struct {
	WinSound          string `mapstructure:"winSound" yaml:"winSound"`
	WinOverlay        string `mapstructure:"winOverlay" yaml:"winOverlay"`
	Celebration       string `mapstructure:"celebration" yaml:"celebration"`
	OverlayDelay      string `mapstructure:"overlayDelay" yaml:"overlayDelay"`
	OriginalBackdrop  string `mapstructure:"originalBackdrop" yaml:"originalBackdrop"`
	AlternateBackdrop string `mapstructure:"alternateBackdrop" yaml:"alternateBackdrop"`
}

type ModelConfig struct {
	Model string  `mapstructure:"model" yaml:"model"`
	Scale float64 `mapstructure:"scale" yaml:"scale"`
}

type ModelsConfig struct {
	Tree     ModelConfig `mapstructure:"tree" yaml:"tree"`
	Rock     ModelConfig `mapstructure:"rock" yaml:"rock"`
	Ball     ModelConfig `mapstructure:"ball" yaml:"ball"`
	Platform ModelConfig `mapstructure:"platform" yaml:"platform"`
	Zone     ModelConfig `mapstructure:"zone" yaml:"zone"`
}

type AssetsConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

type WindowConfig struct {
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
	Title  string `mapstructure:"title" yaml:"title"`
	FPS    int    `mapstructure:"fps" yaml:"fps"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads path when given, otherwise steelball.yaml from the working
// directory or the user config directory. A missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("steelball")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("seed", d.Seed)

	v.SetDefault("field.halfExtent", d.Field.HalfExtent)
	v.SetDefault("field.trees", d.Field.Trees)
	v.SetDefault("field.rocks", d.Field.Rocks)

	v.SetDefault("placement.trials", d.Placement.Trials)
	v.SetDefault("placement.offset", d.Placement.Offset)
	v.SetDefault("placement.radialJitter", d.Placement.RadialJitter)
	v.SetDefault("placement.fallbackJitter", d.Placement.FallbackJitter)
	v.SetDefault("placement.minObstacleDistance", d.Placement.MinObstacleDistance)
	v.SetDefault("placement.minSeparation", d.Placement.MinSeparation)
	v.SetDefault("placement.candidateHeight", d.Placement.CandidateHeight)

	v.SetDefault("play.platformLift", d.Play.PlatformLift)
	v.SetDefault("play.ballLift", d.Play.BallLift)
	v.SetDefault("play.moveStep", d.Play.MoveStep)
	v.SetDefault("play.triggerThreshold", d.Play.TriggerThreshold)

	v.SetDefault("win.mode", d.Win.Mode)
	v.SetDefault("win.interval", d.Win.Interval)
	v.SetDefault("win.maxPlanar", d.Win.MaxPlanar)
	v.SetDefault("win.maxVertical", d.Win.MaxVertical)
	v.SetDefault("win.surfaceOffset", d.Win.SurfaceOffset)

	v.SetDefault("effects.winSound", d.Effects.WinSound)
	v.SetDefault("effects.winOverlay", d.Effects.WinOverlay)
	v.SetDefault("effects.celebration", d.Effects.Celebration)
	v.SetDefault("effects.overlayDelay", d.Effects.OverlayDelay)
	v.SetDefault("effects.originalBackdrop", d.Effects.OriginalBackdrop)
	v.SetDefault("effects.alternateBackdrop", d.Effects.AlternateBackdrop)

	for name, m := range map[string]ModelConfig{
		"tree":     d.Models.Tree,
		"rock":     d.Models.Rock,
		"ball":     d.Models.Ball,
		"platform": d.Models.Platform,
		"zone":     d.Models.Zone,
	} {
		v.SetDefault("models."+name+".model", m.Model)
		v.SetDefault("models."+name+".scale", m.Scale)
	}

	v.SetDefault("assets.dir", d.Assets.Dir)

	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.fps", d.Window.FPS)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

func (c Config) Validate() error {
	if _, err := c.Rules(); err != nil {
		return err
	}
	if c.Window.Width < 1 || c.Window.Height < 1 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.FPS < 1 {
		return fmt.Errorf("window fps must be positive, got %d", c.Window.FPS)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}
	return nil
}

// Rules converts the file-level settings into validated game rules.
func (c Config) Rules() (game.Rules, error) {
	mode := game.WinMode(strings.ToLower(strings.TrimSpace(c.Win.Mode)))
	switch mode {
	case game.WinZone, game.WinTouching, game.WinClassic:
	default:
		return game.Rules{}, fmt.Errorf("invalid win mode: %s", c.Win.Mode)
	}
	win := game.DefaultWinRules(mode)
	if c.Win.Interval != "" {
		d, err := time.ParseDuration(c.Win.Interval)
		if err != nil {
			return game.Rules{}, fmt.Errorf("win interval: %w", err)
		}
		win.Interval = d
	}
	if c.Win.MaxPlanar != 0 {
		win.MaxPlanar = c.Win.MaxPlanar
	}
	if c.Win.MaxVertical != 0 {
		win.MaxVertical = c.Win.MaxVertical
	}
	if c.Win.SurfaceOffset != 0 {
		win.SurfaceOffset = c.Win.SurfaceOffset
	}

	var overlayDelay time.Duration
	if c.Effects.OverlayDelay != "" {
		d, err := time.ParseDuration(c.Effects.OverlayDelay)
		if err != nil {
			return game.Rules{}, fmt.Errorf("overlay delay: %w", err)
		}
		overlayDelay = d
	}

	rules := game.Rules{
		Seed:       c.Seed,
		HalfExtent: c.Field.HalfExtent,
		Trees:      c.Field.Trees,
		Rocks:      c.Field.Rocks,
		Catalog: game.MarkerCatalog{
			game.KindTree:     modelSpec(c.Models.Tree),
			game.KindRock:     modelSpec(c.Models.Rock),
			game.KindBall:     modelSpec(c.Models.Ball),
			game.KindPlatform: modelSpec(c.Models.Platform),
			game.KindZone:     modelSpec(c.Models.Zone),
		},
		Placement: game.PlacementRules{
			Trials:              c.Placement.Trials,
			Offset:              c.Placement.Offset,
			RadialJitter:        c.Placement.RadialJitter,
			FallbackJitter:      c.Placement.FallbackJitter,
			MinObstacleDistance: c.Placement.MinObstacleDistance,
			MinSeparation:       c.Placement.MinSeparation,
			CandidateHeight:     c.Placement.CandidateHeight,
		},
		PlatformLift:     c.Play.PlatformLift,
		BallLift:         c.Play.BallLift,
		MoveStep:         c.Play.MoveStep,
		TriggerThreshold: c.Play.TriggerThreshold,
		Win:              win,
		Effects: game.EffectNames{
			WinSound:     c.Effects.WinSound,
			WinOverlay:   c.Effects.WinOverlay,
			Celebration:  c.Effects.Celebration,
			OverlayDelay: overlayDelay,
		},
		OriginalBackdrop:  c.Effects.OriginalBackdrop,
		AlternateBackdrop: c.Effects.AlternateBackdrop,
	}
	if err := rules.Validate(); err != nil {
		return game.Rules{}, err
	}
	return rules, nil
}

func modelSpec(m ModelConfig) game.ModelSpec {
	scale := m.Scale
	if scale == 0 {
		scale = 1
	}
	return game.ModelSpec{Model: m.Model, Scale: scale}
}
