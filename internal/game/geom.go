package game

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PlanarDistance ignores Y.
func (p Point) PlanarDistance(o Point) float64 {
	dx := p.X - o.X
	dz := p.Z - o.Z
	return math.Sqrt(dx*dx + dz*dz)
}

func (p Point) Lift(dy float64) Point {
	p.Y += dy
	return p
}

func (p Point) Shift(dx, dz float64) Point {
	p.X += dx
	p.Z += dz
	return p
}
