package gui

import (
	"math"
	"math/rand/v2"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type particle struct {
	pos   rl.Vector3
	vel   rl.Vector3
	life  float32
	color rl.Color
}

type particleSystem struct {
	particles []particle
	gravity   float32
	rng       *rand.Rand
}

func newParticleSystem(rng *rand.Rand) *particleSystem {
	return &particleSystem{gravity: -9.8, rng: rng}
}

var burstPalette = []rl.Color{rl.Gold, rl.Orange, rl.SkyBlue, rl.White, rl.Lime}

// burst throws n particles upward in a cone around origin.
func (p *particleSystem) burst(origin rl.Vector3, n int) {
	for i := 0; i < n; i++ {
		angle := p.rng.Float64() * 2 * math.Pi
		speed := 2 + p.rng.Float64()*4
		p.particles = append(p.particles, particle{
			pos: origin,
			vel: rl.NewVector3(
				float32(math.Cos(angle)*speed),
				float32(5+p.rng.Float64()*5),
				float32(math.Sin(angle)*speed),
			),
			life:  float32(1 + p.rng.Float64()),
			color: burstPalette[i%len(burstPalette)],
		})
	}
}

func (p *particleSystem) step(dt float32) {
	alive := p.particles[:0]
	for _, pt := range p.particles {
		pt.life -= dt
		if pt.life <= 0 {
			continue
		}
		pt.vel.Y += p.gravity * dt
		pt.pos = rl.Vector3Add(pt.pos, rl.Vector3Scale(pt.vel, dt))
		alive = append(alive, pt)
	}
	p.particles = alive
}

func (p *particleSystem) draw() {
	for _, pt := range p.particles {
		rl.DrawSphere(pt.pos, 0.12, rl.Fade(pt.color, min(pt.life, 1)))
	}
}
