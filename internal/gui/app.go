package gui

import (
	"context"
	"errors"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/appengine-ltd/steelball/internal/game"
	"github.com/appengine-ltd/steelball/internal/logger"
	uitheme "github.com/appengine-ltd/steelball/internal/ui/theme"
)

type AppConfig struct {
	Version   string
	Rules     game.Rules
	AssetsDir string
	Width     int32
	Height    int32
	Title     string
	FPS       int32
	QueueSize int
}

type App struct {
	cfg AppConfig
}

func NewApp(cfg AppConfig) *App {
	return &App{cfg: cfg}
}

const (
	loadsPerFrame   = 64
	overlayDuration = 3 * time.Second
	burstSize       = 120
)

type gameUI struct {
	cfg     AppConfig
	log     *logrus.Entry
	assets  *assetStore
	scene   *Scene
	effects *Effects
	runner  *game.Runner

	camera    rl.Camera3D
	particles *particleSystem
	overlay   overlayState
	hud       hudState
	lastTick  time.Time
	quit      bool
}

// Run opens the window and plays until it closes or ctx ends. It must be
// called from the main goroutine.
func (a *App) Run(ctx context.Context) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(a.cfg.Width, a.cfg.Height, a.cfg.Title)
	defer rl.CloseWindow()
	if !rl.IsWindowReady() {
		return errors.New("window failed to open")
	}
	rl.SetExitKey(rl.KeyEscape)
	rl.SetTargetFPS(a.cfg.FPS)

	rl.InitAudioDevice()
	audio := rl.IsAudioDeviceReady()
	if audio {
		defer rl.CloseAudioDevice()
	}

	initTypography(a.cfg.AssetsDir)
	defer shutdownTypography()

	ui := &gameUI{
		cfg:       a.cfg,
		log:       logger.For("gui"),
		assets:    newAssetStore(a.cfg.AssetsDir, audio),
		effects:   NewEffects(16),
		camera:    newCamera(),
		particles: newParticleSystem(game.NewRNG(a.cfg.Rules.Seed)),
		hud:       hudState{threshold: a.cfg.Rules.TriggerThreshold},
		lastTick:  time.Now(),
	}
	defer ui.assets.unload()
	ui.scene = NewScene(ui.assets, loadsPerFrame)

	session, err := game.NewSession(a.cfg.Rules, ui.scene, game.MultiEffects{
		game.LogEffects{Log: logger.For("effects")},
		ui.effects,
	})
	if err != nil {
		return err
	}
	ui.runner = game.NewRunner(session, a.cfg.QueueSize)

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ui.runner.Run(gctx)
	})

	ui.loop(gctx)

	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (ui *gameUI) loop(ctx context.Context) {
	for !ui.quit && !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return
		}
		now := time.Now()
		dt := float32(max(now.Sub(ui.lastTick), 0).Seconds())
		ui.lastTick = now

		ui.update(now, dt)

		rl.BeginDrawing()
		ui.draw(now)
		rl.EndDrawing()
	}
}

func (ui *gameUI) update(now time.Time, dt float32) {
	ui.scene.serviceLoads(loadsPerFrame)

	if ctrlDown() && rl.IsKeyPressed(rl.KeyQ) {
		ui.quit = true
		return
	}
	for _, intent := range pollIntents() {
		ui.runner.Enqueue(intent)
	}

	ui.drainEvents()
	for _, req := range ui.effects.drain() {
		ui.applyEffect(req, now)
	}

	if ball, ok := ui.scene.find(game.KindBall); ok {
		ui.camera = followCamera(ui.camera, ball.position, dt)
	}
	ui.particles.step(dt)
}

func (ui *gameUI) drainEvents() {
	for {
		select {
		case ev := <-ui.runner.Events():
			ui.hud.apply(ev)
			ui.log.WithField("event", ev.Kind.String()).Debug("runner event")
		default:
			return
		}
	}
}

func (ui *gameUI) applyEffect(req effectRequest, now time.Time) {
	switch req.kind {
	case effectSound:
		if snd, ok := ui.assets.Sound(req.name); ok {
			rl.PlaySound(snd)
		}
	case effectOverlay:
		ui.overlay.schedule(req.name, now, req.after, overlayDuration)
	case effectAnimation:
		origin := ui.camera.Target
		if ball, ok := ui.scene.find(game.KindBall); ok {
			origin = toVector(ball.position)
		}
		ui.particles.burst(origin, burstSize)
	}
}

func (ui *gameUI) draw(now time.Time) {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	name, mode := ui.scene.backdropState()
	drawBackdrop(ui.assets, name, mode, w, h)

	rl.BeginMode3D(ui.camera)
	drawGround(ui.cfg.Rules.HalfExtent)
	for _, e := range ui.scene.visibleEntities() {
		drawEntity(e, ui.cfg.Rules.Win.MaxPlanar)
	}
	ui.particles.draw()
	rl.EndMode3D()

	ui.hud.draw(w, ui.cfg.Version)
	drawControls(h)

	if overlay, ok := ui.overlay.active(now); ok {
		if tex, ok := ui.assets.Texture(overlay); ok {
			x := (w - tex.Width) / 2
			y := (h - tex.Height) / 2
			rl.DrawTexture(tex, x, y, rl.White)
		} else {
			uitheme.DrawBanner("YOU WIN", w, h)
		}
	}
}
