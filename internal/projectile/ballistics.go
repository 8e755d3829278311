// Package projectile implements the ranged-weapon ballistic subsystem
// (§4.3): closed-form trajectory integration, ordered swept-segment
// collision against every hittable entity class, and the velocity
// solver used to aim gravity-affected shots at a target point.
package projectile

import (
	"survivalcore/internal/config"
	"survivalcore/internal/model"
)

// PositionAt evaluates the closed-form trajectory x(t)=x0+vx·t,
// y(t)=y0+vy·t+½·g·k·t² (§4.3 step 1). k is 0 for crossbow bolts and
// thrown weapons, 1 otherwise.
func PositionAt(p *model.Projectile, t float64) model.Vec2 {
	x := p.StartX + p.VelocityX*t
	y := p.StartY + p.VelocityY*t + 0.5*config.ProjectileGravity*p.GravityK*t*t
	return model.Vec2{X: x, Y: y}
}

// SweptSegment returns the previous and current positions of p given
// how long it has been in flight (elapsedSecs), using a fixed 50ms
// step clamped to ≥ 0 (§4.3 step 1: "'Previous' is t−0.05s clamped to
// ≥ 0").
func SweptSegment(p *model.Projectile, elapsedSecs float64) (prev, cur model.Vec2) {
	prevT := elapsedSecs - config.ProjectileTickIntervalMS/1000.0
	if prevT < 0 {
		prevT = 0
	}
	return PositionAt(p, prevT), PositionAt(p, elapsedSecs)
}
