package theme

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	PaddingXS = float32(8)
	PaddingS  = float32(12)
	PaddingM  = float32(18)

	CornerRadius   = float32(0.08)
	CornerSegments = int32(8)
	BorderWidth    = float32(1.2)
)

func DrawPanel(rect rl.Rectangle) {
	rl.DrawRectangleRounded(rect, CornerRadius, CornerSegments, Panel)
	rl.DrawRectangleRoundedLinesEx(rect, CornerRadius, CornerSegments, BorderWidth, Border)
}

func DrawHeader(text string, x, y int32) {
	if text == "" {
		return
	}
	drawText(text, x, y, Type.Header, TextPrimary)
	w := max(int32(float32(measureText(text, Type.Header))*0.6), 44)
	drawLine(float32(x), float32(y+Type.Header+6), float32(x+w), float32(y+Type.Header+6), 2.0, AccentEmber)
}

// DrawKeyValue draws a label on the left and its value right-aligned within width.
func DrawKeyValue(label, value string, x, y, width int32, valueColor rl.Color) {
	drawText(label, x, y, Type.Body, TextSecondary)
	vw := measureText(value, Type.Body)
	drawText(value, x+width-vw, y, Type.Body, valueColor)
}

func DrawHintText(text string, x, y int32) {
	if text == "" {
		return
	}
	drawText(text, x, y, Type.Small, TextMuted)
}

// DrawBanner centres a large message in a raised panel.
func DrawBanner(text string, screenW, screenH int32) {
	tw := measureText(text, Type.Title)
	w := float32(tw) + PaddingM*4
	h := float32(Type.Title) + PaddingM*2
	rect := rl.NewRectangle((float32(screenW)-w)/2, (float32(screenH)-h)/2, w, h)
	rl.DrawRectangleRounded(rect, CornerRadius, CornerSegments, PanelRaised)
	rl.DrawRectangleRoundedLinesEx(rect, CornerRadius, CornerSegments, 2.0, AccentEmber)
	drawText(text, CenterX(text, Type.Title, int32(rect.X), int32(rect.Width)), int32(rect.Y+PaddingM), Type.Title, AccentEmber)
}

func DrawDivider(x1, y1, x2, y2 float32) {
	drawLine(x1, y1, x2, y2, 1.0, rl.Fade(Divider, 0.95))
}

func drawLine(x1, y1, x2, y2, thickness float32, clr rl.Color) {
	rl.DrawLineEx(rl.NewVector2(x1, y1), rl.NewVector2(x2, y2), thickness, clr)
}

// Mix blends a toward b by t in [0, 1].
func Mix(a, b rl.Color, t float32) rl.Color {
	t = max(0, min(1, t))
	inv := 1.0 - t
	return rl.NewColor(
		uint8(float32(a.R)*inv+float32(b.R)*t),
		uint8(float32(a.G)*inv+float32(b.G)*t),
		uint8(float32(a.B)*inv+float32(b.B)*t),
		uint8(float32(a.A)*inv+float32(b.A)*t),
	)
}
