//go:build cgo

package main

import (
	"context"
	"runtime"

	"github.com/appengine-ltd/steelball/internal/config"
	"github.com/appengine-ltd/steelball/internal/gui"
)

// raylib must be driven from the main OS thread.
func init() {
	runtime.LockOSThread()
}

func runPlay(ctx context.Context, cfg config.Config) error {
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	return gui.NewApp(gui.AppConfig{
		Version:   version,
		Rules:     rules,
		AssetsDir: cfg.Assets.Dir,
		Width:     int32(cfg.Window.Width),
		Height:    int32(cfg.Window.Height),
		Title:     cfg.Window.Title,
		FPS:       int32(cfg.Window.FPS),
	}).Run(ctx)
}
