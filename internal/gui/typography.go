package gui

import (
	"math"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	uitheme "github.com/appengine-ltd/steelball/internal/ui/theme"
)

type typographyState struct {
	base rl.Font
	owns bool
}

var uiType typographyState

// initTypography prefers a TTF from <assets>/fonts and falls back to the
// raylib default font.
func initTypography(assetsDir string) {
	uiType.base = rl.GetFontDefault()

	candidates := []string{
		filepath.Join(assetsDir, "fonts", "Inter-Regular.ttf"),
		filepath.Join(assetsDir, "fonts", "NotoSans-Regular.ttf"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		font := rl.LoadFontEx(path, 40, nil, 0)
		if font.Texture.ID == 0 {
			continue
		}
		uiType.base = font
		uiType.owns = true
		break
	}

	rl.SetTextureFilter(uiType.base.Texture, rl.FilterBilinear)
	uitheme.SetTextRenderer(drawText, measureText)
}

func shutdownTypography() {
	if uiType.owns && uiType.base.Texture.ID != 0 {
		rl.UnloadFont(uiType.base)
	}
	uiType = typographyState{}
}

func drawText(text string, x, y, fontSize int32, clr rl.Color) {
	if uiType.base.Texture.ID == 0 {
		rl.DrawText(text, x, y, fontSize, clr)
		return
	}
	rl.DrawTextEx(uiType.base, text, rl.Vector2{X: float32(x), Y: float32(y)}, float32(fontSize), 1, clr)
}

func measureText(text string, fontSize int32) int32 {
	if uiType.base.Texture.ID == 0 {
		return int32(rl.MeasureText(text, fontSize))
	}
	return int32(math.Round(float64(rl.MeasureTextEx(uiType.base, text, float32(fontSize), 1).X)))
}
