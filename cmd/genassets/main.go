// Command genassets writes placeholder backdrop and overlay textures for the
// 3D client. Replace them with real art at any time.
//
//	go run ./cmd/genassets -out assets
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/appengine-ltd/steelball/internal/game"
	"github.com/appengine-ltd/steelball/internal/logger"
)

type texture struct {
	name   string
	width  int
	height int
	draw   func(dc *gg.Context)
}

func main() {
	out := flag.String("out", "assets", "Directory to write textures into")
	flag.Parse()

	logger.Init(logger.Options{})
	if err := generate(*out, placeholders(game.DefaultRules())); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func placeholders(rules game.Rules) []texture {
	return []texture{
		{name: rules.OriginalBackdrop, width: 512, height: 256, draw: func(dc *gg.Context) {
			skyGradient(dc, color.RGBA{0x5B, 0x9B, 0xD5, 0xFF}, color.RGBA{0xCF, 0xE8, 0xF7, 0xFF})
		}},
		{name: rules.AlternateBackdrop, width: 512, height: 256, draw: func(dc *gg.Context) {
			skyGradient(dc, color.RGBA{0x2B, 0x1B, 0x4A, 0xFF}, color.RGBA{0xE0, 0x7A, 0x5F, 0xFF})
		}},
		{name: rules.Effects.WinOverlay, width: 320, height: 96, draw: winBanner},
	}
}

func generate(dir string, textures []texture) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	log := logger.For("genassets")
	for _, tex := range textures {
		path := filepath.Join(dir, tex.name+".png")
		if err := gg.SavePNG(path, render(tex)); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.WithField("path", path).Info("texture written")
	}
	return nil
}

func render(tex texture) image.Image {
	dc := gg.NewContext(tex.width, tex.height)
	tex.draw(dc)
	return dc.Image()
}

// skyGradient fills top to bottom from zenith to horizon.
func skyGradient(dc *gg.Context, zenith, horizon color.Color) {
	grad := gg.NewLinearGradient(0, 0, 0, float64(dc.Height()))
	grad.AddColorStop(0, zenith)
	grad.AddColorStop(1, horizon)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(dc.Width()), float64(dc.Height()))
	dc.Fill()
}

func winBanner(dc *gg.Context) {
	w, h := float64(dc.Width()), float64(dc.Height())
	dc.SetRGBA255(0x1C, 0x23, 0x29, 0xE6)
	dc.DrawRoundedRectangle(0, 0, w, h, 12)
	dc.Fill()
	dc.SetRGB255(0xD8, 0xB2, 0x4A)
	dc.SetLineWidth(4)
	dc.DrawRoundedRectangle(2, 2, w-4, h-4, 10)
	dc.Stroke()
	dc.SetRGB255(0xF2, 0xEC, 0xDD)
	dc.DrawStringAnchored("YOU WIN", w/2, h/2, 0.5, 0.5)
}
