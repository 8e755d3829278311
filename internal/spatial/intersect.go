package spatial

import "math"

// AABB is an axis-aligned bounding box, used for shelter collision,
// line-of-sight occlusion, and projectile blocking.
type AABB struct {
	CenterX, CenterY   float64
	HalfWidth, HalfHeight float64
}

// Contains reports whether a point lies inside the box.
func (b AABB) Contains(x, y float64) bool {
	return math.Abs(x-b.CenterX) <= b.HalfWidth && math.Abs(y-b.CenterY) <= b.HalfHeight
}

// SegmentIntersectsCircle performs a swept-segment-vs-circle test
// between (x1,y1)->(x2,y2) and a circle of the given radius centered
// at (cx,cy). Used by projectile collision (§4.3) against trees,
// stones, campfires, boxes, stashes, bags, corpses, and players.
func SegmentIntersectsCircle(x1, y1, x2, y2, cx, cy, radius float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	fx := x1 - cx
	fy := y1 - cy

	a := dx*dx + dy*dy
	if a == 0 {
		// Degenerate segment: treat as a point check.
		return DistanceSquared(x1, y1, cx, cy) <= radius*radius
	}
	b := 2 * (fx*dx + fy*dy)
	c := fx*fx + fy*fy - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return false
	}
	disc = math.Sqrt(disc)
	t1 := (-b - disc) / (2 * a)
	t2 := (-b + disc) / (2 * a)

	if t1 >= 0 && t1 <= 1 {
		return true
	}
	if t2 >= 0 && t2 <= 1 {
		return true
	}
	// Segment could also start/end inside the circle.
	return c < 0
}

// SegmentIntersectsAABB performs a swept-segment-vs-AABB test using
// the slab method. Used for shelter LOS and projectile blocking.
func SegmentIntersectsAABB(x1, y1, x2, y2 float64, box AABB) bool {
	minX := box.CenterX - box.HalfWidth
	maxX := box.CenterX + box.HalfWidth
	minY := box.CenterY - box.HalfHeight
	maxY := box.CenterY + box.HalfHeight

	dx := x2 - x1
	dy := y2 - y1

	tMin, tMax := 0.0, 1.0

	if dx == 0 {
		if x1 < minX || x1 > maxX {
			return false
		}
	} else {
		t1 := (minX - x1) / dx
		t2 := (maxX - x1) / dx
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	if dy == 0 {
		if y1 < minY || y1 > maxY {
			return false
		}
	} else {
		t1 := (minY - y1) / dy
		t2 := (maxY - y1) / dy
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return false
		}
	}

	return true
}
