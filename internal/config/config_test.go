package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appengine-ltd/steelball/internal/game"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestLoadDefaultsMatchGameRules(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)

	rules, err := cfg.Rules()
	require.NoError(t, err)

	want := game.DefaultRules()
	assert.Equal(t, want.HalfExtent, rules.HalfExtent)
	assert.Equal(t, 10, rules.Trees)
	assert.Equal(t, 10, rules.Rocks)
	assert.Equal(t, want.Placement, rules.Placement)
	assert.Equal(t, 3, rules.TriggerThreshold)
	assert.Equal(t, 0.8, rules.MoveStep)
	assert.Equal(t, game.WinZone, rules.Win.Mode)
	assert.Equal(t, 500*time.Millisecond, rules.Win.Interval)
	assert.Equal(t, want.Effects, rules.Effects)
	assert.Equal(t, want.Catalog, rules.Catalog)
	assert.Equal(t, "sky", rules.OriginalBackdrop)
	assert.Equal(t, "new_sky_image", rules.AlternateBackdrop)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
seed: 99
field:
  trees: 4
win:
  mode: classic
window:
  title: Test
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, "Test", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width)

	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.Equal(t, 4, rules.Trees)
	assert.Equal(t, 10, rules.Rocks)
	assert.Equal(t, game.DefaultWinRules(game.WinClassic), rules.Win)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "steelball.yaml")
	require.NoError(t, os.WriteFile(path, []byte("field:\n  rocks: 6\n"), 0o644))
	t.Setenv("STEELBALL_FIELD_ROCKS", "8")
	t.Setenv("STEELBALL_WIN_INTERVAL", "250ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Field.Rocks)

	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, rules.Win.Interval)
	assert.Equal(t, 2.0, rules.Win.MaxPlanar)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"win mode":      func(c *Config) { c.Win.Mode = "teleport" },
		"interval":      func(c *Config) { c.Win.Interval = "soon" },
		"overlay delay": func(c *Config) { c.Effects.OverlayDelay = "later" },
		"no trees":      func(c *Config) { c.Field.Trees = 0 },
		"trials":        func(c *Config) { c.Placement.Trials = 0 },
		"move step":     func(c *Config) { c.Play.MoveStep = 0 },
		"threshold":     func(c *Config) { c.Play.TriggerThreshold = 0 },
		"window":        func(c *Config) { c.Window.Width = 0 },
		"fps":           func(c *Config) { c.Window.FPS = 0 },
		"log format":    func(c *Config) { c.Log.Format = "xml" },
		"backdrop":      func(c *Config) { c.Effects.AlternateBackdrop = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestWinOverridesApplyOnTopOfMode(t *testing.T) {
	cfg := Default()
	cfg.Win.Mode = "Touching"
	cfg.Win.MaxVertical = 0.25

	rules, err := cfg.Rules()
	require.NoError(t, err)
	assert.Equal(t, game.WinTouching, rules.Win.Mode)
	assert.Equal(t, 100*time.Millisecond, rules.Win.Interval)
	assert.Equal(t, 0.25, rules.Win.MaxVertical)
	assert.Equal(t, 0.1, rules.Win.SurfaceOffset)
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "steelball.yaml")
	require.NoError(t, WriteDefault(path))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file left behind")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDefaultPathUsesUserConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "steelball", "steelball.yaml"), path)
}
