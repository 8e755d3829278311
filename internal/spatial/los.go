package spatial

// Obstacle couples an AABB with the identity that "owns" it, so
// callers can implement the owner-inside-to-outside exemption (shelter
// owners attacking from inside their own shelter are not blocked by
// their own walls when both ends are inside it).
type Obstacle struct {
	ID    uint64
	Box   AABB
	Owner uint64
}

// LineOfSightBlocked reports whether the segment from (x1,y1) to
// (x2,y2) is blocked by any obstacle in the list, subject to the
// exemption predicate: an obstacle is skipped if exempt(obstacle)
// returns true. Callers decide exemption (shelter ownership, attacker
// position) — this function only performs the geometric test and
// exemption filtering.
func LineOfSightBlocked(x1, y1, x2, y2 float64, obstacles []Obstacle, exempt func(Obstacle) bool) bool {
	for _, o := range obstacles {
		if exempt != nil && exempt(o) {
			continue
		}
		if SegmentIntersectsAABB(x1, y1, x2, y2, o.Box) {
			return true
		}
	}
	return false
}

// FirstAABBHit returns the index of the first obstacle in the list
// whose AABB is crossed by the swept segment, or -1 if none. Obstacles
// are tested in slice order, matching the spec's fixed collision
// ordering where shelters are checked before any other entity class.
func FirstAABBHit(x1, y1, x2, y2 float64, obstacles []Obstacle, exempt func(Obstacle) bool) int {
	for i, o := range obstacles {
		if exempt != nil && exempt(o) {
			continue
		}
		if SegmentIntersectsAABB(x1, y1, x2, y2, o.Box) {
			return i
		}
	}
	return -1
}
