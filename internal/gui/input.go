package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/steelball/internal/game"
)

// keyCodes names raylib keys the way game.IntentForKeyCode expects them.
var keyCodes = []struct {
	key    int32
	code   string
	repeat bool
}{
	{key: rl.KeyUp, code: "ArrowUp", repeat: true},
	{key: rl.KeyDown, code: "ArrowDown", repeat: true},
	{key: rl.KeyLeft, code: "ArrowLeft", repeat: true},
	{key: rl.KeyRight, code: "ArrowRight", repeat: true},
	{key: rl.KeyE, code: "KeyE"},
	{key: rl.KeyR, code: "KeyR"},
}

type keyState func(key int32) bool

// collectIntents turns this frame's key presses into intents. Movement keys
// also fire on OS key repeat; trigger and restart only on the initial press.
func collectIntents(pressed, repeated keyState) []game.Intent {
	var out []game.Intent
	for _, k := range keyCodes {
		fired := pressed(k.key) || (k.repeat && repeated(k.key))
		if !fired {
			continue
		}
		if intent, ok := game.IntentForKeyCode(k.code); ok {
			out = append(out, intent)
		}
	}
	return out
}

func pollIntents() []game.Intent {
	return collectIntents(rl.IsKeyPressed, rl.IsKeyPressedRepeat)
}

func ctrlDown() bool {
	return rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
}
