// Package model defines every entity row the simulation core reads
// and writes (spec §3.1), plus the tagged-union types the spec calls
// out as discriminated unions (§9): ItemLocation, animal State,
// Species, EffectType, TargetType.
package model

import "math"

// Vec2 is a 2D world-space point or vector.
type Vec2 struct {
	X, Y float64
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Length returns the Euclidean magnitude of v.
func (v Vec2) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// LengthSquared avoids the sqrt for radius comparisons.
func (v Vec2) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y }

// Normalized returns a unit vector in the same direction, or the zero
// vector if v has zero length.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// DirectionFromString converts a facing string ("up","down","left","right",
// and the four diagonals) to a unit vector. Unknown strings default to
// facing right, matching the teacher's fallback-to-default convention.
func DirectionFromString(dir string) Vec2 {
	switch dir {
	case "up":
		return Vec2{0, -1}
	case "down":
		return Vec2{0, 1}
	case "left":
		return Vec2{-1, 0}
	case "right":
		return Vec2{1, 0}
	case "up_left":
		return Vec2{-0.7071, -0.7071}
	case "up_right":
		return Vec2{0.7071, -0.7071}
	case "down_left":
		return Vec2{-0.7071, 0.7071}
	case "down_right":
		return Vec2{0.7071, 0.7071}
	default:
		return Vec2{1, 0}
	}
}

// DirectionToString converts a movement vector to one of the 8
// direction labels used for facing/dodge-roll direction.
func DirectionToString(v Vec2) string {
	if v.X == 0 && v.Y == 0 {
		return "down"
	}
	angle := math.Atan2(v.Y, v.X)
	const eighth = math.Pi / 4
	switch {
	case angle > -eighth/2 && angle <= eighth/2:
		return "right"
	case angle > eighth/2 && angle <= eighth+eighth/2:
		return "down_right"
	case angle > eighth+eighth/2 && angle <= 2*eighth+eighth/2:
		return "down"
	case angle > 2*eighth+eighth/2 && angle <= 3*eighth+eighth/2:
		return "down_left"
	case angle > 3*eighth+eighth/2 || angle <= -3*eighth-eighth/2:
		return "left"
	case angle > -3*eighth-eighth/2 && angle <= -2*eighth-eighth/2:
		return "up_left"
	case angle > -2*eighth-eighth/2 && angle <= -eighth-eighth/2:
		return "up"
	default:
		return "up_right"
	}
}
