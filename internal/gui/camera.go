package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/steelball/internal/game"
)

var cameraOffset = rl.NewVector3(0, 14, 16)

const cameraFollowRate = 4.0

func newCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   cameraOffset,
		Target:     rl.NewVector3(0, 0, 0),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       55,
		Projection: rl.CameraPerspective,
	}
}

func toVector(p game.Point) rl.Vector3 {
	return rl.NewVector3(float32(p.X), float32(p.Y), float32(p.Z))
}

// followCamera eases the camera target toward focus and keeps the fixed
// offset behind it. dt is in seconds.
func followCamera(cam rl.Camera3D, focus game.Point, dt float32) rl.Camera3D {
	t := min(dt*cameraFollowRate, 1)
	if t < 0 {
		t = 0
	}
	cam.Target = rl.Vector3Lerp(cam.Target, toVector(focus), t)
	cam.Position = rl.Vector3Add(cam.Target, cameraOffset)
	return cam
}
