package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"

	"github.com/appengine-ltd/steelball/internal/game"
	"github.com/appengine-ltd/steelball/internal/scene"
)

var (
	groundOriginal  = color.RGBA{0x2F, 0x5D, 0x42, 0xFF}
	groundAlternate = color.RGBA{0x3A, 0x2F, 0x5D, 0xFF}
	treeColour      = color.RGBA{0x4C, 0xAF, 0x50, 0xFF}
	rockColour      = color.RGBA{0x9E, 0x9E, 0x9E, 0xFF}
	platformColour  = color.RGBA{0xD4, 0x6A, 0x1E, 0xFF}
	zoneColour      = color.RGBA{0x4D, 0xD0, 0xE1, 0xFF}
	ballColour      = color.RGBA{0xEC, 0xEF, 0xF1, 0xFF}
)

// fieldProjection maps the X/Z ground plane onto pixel centres with -Z at the top.
type fieldProjection struct {
	halfExtent float64
	w, h       int
}

func (p fieldProjection) pixel(pt game.Point) (float64, float64) {
	span := 2 * p.halfExtent
	x := (pt.X + p.halfExtent) / span * float64(p.w)
	y := (pt.Z + p.halfExtent) / span * float64(p.h)
	return math.Floor(clampFloat(x, 0, float64(p.w-1))) + 0.5, math.Floor(clampFloat(y, 0, float64(p.h-1))) + 0.5
}

// drawField renders a top-down view of the scene entities. Hidden entities
// are skipped.
func drawField(entities []scene.Entity, backdrop game.Backdrop, halfExtent float64, w, h int) image.Image {
	dc := gg.NewContext(w, h)
	if backdrop == game.BackdropAlternate {
		dc.SetColor(groundAlternate)
	} else {
		dc.SetColor(groundOriginal)
	}
	dc.Clear()

	proj := fieldProjection{halfExtent: halfExtent, w: w, h: h}
	unit := math.Max(1, float64(min(w, h))/40)

	// Obstacles first so the ball is never hidden behind scenery.
	for _, pass := range []game.MarkerKind{game.KindTree, game.KindRock, game.KindZone, game.KindPlatform, game.KindBall} {
		for _, e := range entities {
			if e.Spec.Kind != pass || !e.Visible {
				continue
			}
			x, y := proj.pixel(e.Position)
			switch pass {
			case game.KindTree:
				dc.SetColor(treeColour)
				dc.DrawCircle(x, y, unit*1.2)
				dc.Fill()
			case game.KindRock:
				dc.SetColor(rockColour)
				dc.DrawRegularPolygon(3, x, y, unit*1.2, 0)
				dc.Fill()
			case game.KindZone:
				dc.SetColor(zoneColour)
				dc.SetLineWidth(1)
				dc.DrawRectangle(x-unit*1.5, y-unit*1.5, unit*3, unit*3)
				dc.Stroke()
			case game.KindPlatform:
				dc.SetColor(platformColour)
				dc.DrawRectangle(x-unit, y-unit, unit*2, unit*2)
				dc.Fill()
			case game.KindBall:
				dc.SetColor(ballColour)
				dc.DrawCircle(x, y, unit)
				dc.Fill()
			}
		}
	}
	return dc.Image()
}

func renderFieldANSI(entities []scene.Entity, backdrop game.Backdrop, halfExtent float64, widthChars, heightRows int) string {
	widthChars = clampInt(widthChars, 16, 160)
	heightRows = clampInt(heightRows, 8, 80)
	return rgbaImageToANSIHalfBlocks(drawField(entities, backdrop, halfExtent, widthChars, heightRows*2))
}

func rgbaImageToANSIHalfBlocks(img image.Image) string {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return ""
	}

	var out strings.Builder
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			tr, tg, tb, ta := rgba8(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			br, bg, bb, ba := uint8(0), uint8(0), uint8(0), uint8(0)
			if y+1 < height {
				br, bg, bb, ba = rgba8(img.At(bounds.Min.X+x, bounds.Min.Y+y+1))
			}

			if ta < 8 && ba < 8 {
				out.WriteByte(' ')
				continue
			}

			out.WriteString(fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", tr, tg, tb, br, bg, bb))
		}
		out.WriteString("\x1b[0m")
		if y+2 < height {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

func rgba8(c color.Color) (r, g, b, a uint8) {
	r16, g16, b16, a16 := c.RGBA()
	return uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8), uint8(a16 >> 8)
}

func clampFloat(v, minV, maxV float64) float64 {
	return math.Min(maxV, math.Max(minV, v))
}

func clampInt(v, minV, maxV int) int {
	return max(minV, min(maxV, v))
}
