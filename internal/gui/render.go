package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/steelball/internal/game"
	uitheme "github.com/appengine-ltd/steelball/internal/ui/theme"
)

const (
	ballRadius    = 0.5
	platformSize  = 3.0
	platformThick = 0.2
)

// drawBackdrop fills the screen with the named sky texture, or a flat colour
// for the mode when the texture is missing.
func drawBackdrop(assets *assetStore, name string, mode game.Backdrop, w, h int32) {
	fallback := uitheme.SkyOriginal
	if mode == game.BackdropAlternate {
		fallback = uitheme.SkyAlternate
	}
	rl.ClearBackground(fallback)
	if assets == nil {
		return
	}
	tex, ok := assets.Texture(name)
	if !ok {
		return
	}
	src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
	dst := rl.NewRectangle(0, 0, float32(w), float32(h))
	rl.DrawTexturePro(tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
}

func drawGround(halfExtent float64) {
	size := float32(halfExtent * 2)
	rl.DrawPlane(rl.NewVector3(0, 0, 0), rl.NewVector2(size, size), uitheme.Ground)
	rl.DrawGrid(int32(halfExtent/5)*2, 5)
}

func drawEntity(e entity, zoneHalf float64) {
	pos := toVector(e.position)
	if e.hasModel {
		s := float32(e.spec.Scale)
		rl.DrawModelEx(e.model, pos, rl.NewVector3(0, 1, 0), float32(e.spec.RotationY), rl.NewVector3(s, s, s), rl.White)
		return
	}

	switch e.spec.Kind {
	case game.KindTree:
		rl.DrawCylinder(pos, 0.25, 0.3, 2.2, 8, uitheme.Trunk)
		rl.DrawSphere(rl.NewVector3(pos.X, pos.Y+2.8, pos.Z), 1.2, uitheme.Canopy)
	case game.KindRock:
		rl.DrawSphereEx(rl.NewVector3(pos.X, pos.Y+0.4, pos.Z), 0.8, 6, 8, uitheme.Rock)
	case game.KindPlatform:
		rl.DrawCube(pos, platformSize, platformThick, platformSize, uitheme.AccentEmber)
		rl.DrawCubeWires(pos, platformSize, platformThick, platformSize, rl.Black)
	case game.KindZone:
		side := float32(zoneHalf * 2)
		rl.DrawCubeWires(pos, side, 0.6, side, uitheme.AccentZone)
	case game.KindBall:
		rl.DrawSphere(rl.NewVector3(pos.X, pos.Y+ballRadius, pos.Z), ballRadius, uitheme.AccentSteel)
	}
}
