package theme

import rl "github.com/gen2brain/raylib-go/raylib"

// HUD palette. Panels sit over a 3D scene, so fills are translucent.
var (
	Panel         = rl.NewColor(0x14, 0x1A, 0x1F, 200)
	PanelRaised   = rl.NewColor(0x21, 0x2A, 0x31, 220)
	Border        = rl.NewColor(0x2E, 0x3A, 0x40, 255)
	Divider       = rl.NewColor(0x26, 0x30, 0x38, 255)
	TextPrimary   = rl.NewColor(0xE8, 0xE2, 0xD8, 255)
	TextSecondary = rl.NewColor(0xA6, 0xAD, 0xB1, 255)
	TextMuted     = rl.NewColor(0x7D, 0x85, 0x8A, 255)
	AccentEmber   = rl.NewColor(0xD4, 0x6A, 0x1E, 255)
	AccentSteel   = rl.NewColor(0xB0, 0xBE, 0xC5, 255)
	AccentZone    = rl.NewColor(0x4D, 0xD0, 0xE1, 255)

	SkyOriginal  = rl.NewColor(0x87, 0xCE, 0xEB, 255)
	SkyAlternate = rl.NewColor(0x2A, 0x1B, 0x3D, 255)
	Ground       = rl.NewColor(0x2F, 0x5D, 0x42, 255)
	Trunk        = rl.NewColor(0x6D, 0x4C, 0x41, 255)
	Canopy       = rl.NewColor(0x38, 0x8E, 0x3C, 255)
	Rock         = rl.NewColor(0x75, 0x75, 0x75, 255)
)
