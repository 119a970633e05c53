package game

import "math"

// Body is what the evaluator reads about one entity.
type Body struct {
	Present  bool
	Visible  bool
	Position Point
}

type View struct {
	Ball     Body
	Platform Body
	Zone     Body
}

type Evaluator struct {
	rules WinRules
}

func NewEvaluator(rules WinRules) Evaluator {
	return Evaluator{rules: rules}
}

func (e Evaluator) Rules() WinRules {
	return e.rules
}

func (e Evaluator) Check(v View) bool {
	if e.rules.Mode == WinZone {
		return e.checkZone(v)
	}
	return e.checkPlatform(v)
}

// checkZone only passes while the platform is hidden and the zone shown. The
// two are toggled in opposite directions, so this is the phase in which the
// ball is also visible.
func (e Evaluator) checkZone(v View) bool {
	if !v.Ball.Present || !v.Zone.Present || !v.Platform.Present {
		return false
	}
	if !v.Ball.Visible || !v.Zone.Visible || v.Platform.Visible {
		return false
	}
	ball, zone := v.Ball.Position, v.Zone.Position
	return math.Abs(ball.X-zone.X) < e.rules.MaxPlanar &&
		math.Abs(ball.Z-zone.Z) < e.rules.MaxPlanar &&
		// Height is measured from the zone, not from the ground.
		math.Abs(ball.Y-zone.Y) < e.rules.MaxVertical
}

func (e Evaluator) checkPlatform(v View) bool {
	if !v.Ball.Present || !v.Platform.Present {
		return false
	}
	if !v.Ball.Visible || !v.Platform.Visible {
		return false
	}
	ball, platform := v.Ball.Position, v.Platform.Position
	surface := platform.Y + e.rules.SurfaceOffset
	return ball.PlanarDistance(platform) < e.rules.MaxPlanar &&
		math.Abs(ball.Y-surface) < e.rules.MaxVertical
}
