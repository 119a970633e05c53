package theme

import rl "github.com/gen2brain/raylib-go/raylib"

// TextRenderer draws and measures HUD text. The GUI swaps in its loaded font;
// until then raylib's default font is used.
type TextRenderer struct {
	Draw    func(text string, x, y, fontSize int32, clr rl.Color)
	Measure func(text string, fontSize int32) int32
}

var renderer = TextRenderer{
	Draw: func(s string, x, y, fontSize int32, clr rl.Color) {
		rl.DrawText(s, x, y, fontSize, clr)
	},
	Measure: func(s string, fontSize int32) int32 {
		return int32(rl.MeasureText(s, fontSize))
	},
}

// SetTextRenderer replaces whichever of draw and measure is non-nil.
func SetTextRenderer(draw func(string, int32, int32, int32, rl.Color), measure func(string, int32) int32) {
	if draw != nil {
		renderer.Draw = draw
	}
	if measure != nil {
		renderer.Measure = measure
	}
}

// CenterX returns the x that centres s within a span of width starting at left.
func CenterX(s string, fontSize, left, width int32) int32 {
	return left + (width-renderer.Measure(s, fontSize))/2
}

func drawText(s string, x, y, fontSize int32, clr rl.Color) {
	renderer.Draw(s, x, y, fontSize, clr)
}

func measureText(s string, fontSize int32) int32 {
	return renderer.Measure(s, fontSize)
}
