package movement

import (
	"survivalcore/internal/config"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// circle is a solid obstacle for movement/knockback collision. Every
// obstacle in this package reduces to a circle: the spec's walking
// obstacle set names only players, trees, stones, and boxes (no
// shelter AABB — shelters block combat LOS and projectiles but are
// not listed as solid for walking, §4.5.1 step 5).
type circle struct {
	X, Y, Radius float64
}

func overlapsAny(pos model.Vec2, radius float64, obstacles []circle) bool {
	for _, o := range obstacles {
		d := model.Vec2{X: pos.X - o.X, Y: pos.Y - o.Y}
		minDist := radius + o.Radius
		if d.LengthSquared() < minDist*minDist {
			return true
		}
	}
	return false
}

// slide moves from toward proposed one axis at a time so a player
// grazing an obstacle keeps moving along it instead of stopping dead
// (§4.5.1 step 5: "swept slide along tangent"). Resolving X before Y
// is an approximation of a true tangent projection, good enough at
// this tick rate and obstacle density.
func slide(from, proposed model.Vec2, radius float64, obstacles []circle) model.Vec2 {
	moved := from
	tryX := model.Vec2{X: proposed.X, Y: from.Y}
	if !overlapsAny(tryX, radius, obstacles) {
		moved.X = proposed.X
	}
	tryY := model.Vec2{X: moved.X, Y: proposed.Y}
	if !overlapsAny(tryY, radius, obstacles) {
		moved.Y = proposed.Y
	}
	return moved
}

// pushOut resolves any remaining circle overlaps at pos by shoving the
// point out along the separating normal (§4.5.1 step 5: "push-out from
// any remaining overlaps"), generalizing the teacher's
// Player.ResolveCollisions push-apart to an arbitrary obstacle list. A
// few iterations handle the case of being wedged between two
// obstacles at once.
func pushOut(pos model.Vec2, radius float64, obstacles []circle) model.Vec2 {
	const iterations = 3
	for i := 0; i < iterations; i++ {
		resolvedAny := false
		for _, o := range obstacles {
			d := model.Vec2{X: pos.X - o.X, Y: pos.Y - o.Y}
			dist := d.Length()
			minDist := radius + o.Radius
			if dist >= minDist {
				continue
			}
			resolvedAny = true
			if dist == 0 {
				pos.X += minDist
				continue
			}
			overlap := minDist - dist
			pos = pos.Add(d.Normalized().Scale(overlap))
		}
		if !resolvedAny {
			break
		}
	}
	return pos
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampToWorld(pos model.Vec2, radius float64) model.Vec2 {
	world := config.DefaultWorld()
	return model.Vec2{
		X: clampF(pos.X, radius, world.WidthPx-radius),
		Y: clampF(pos.Y, radius, world.HeightPx-radius),
	}
}

// walkObstacles returns the §4.5.1 step 5 obstacle set for self's
// movement: other alive players, trees (offset by
// TreeCollisionYOffset), stones, and non-destroyed boxes. Physical
// collision radii for trees/stones/boxes reuse the same hit radii
// internal/projectile uses for their visual centers, since no
// separate walking-collision radius is defined anywhere in the pack.
func walkObstacles(w *store.World, self model.Identity) []circle {
	var out []circle
	for _, p := range w.Players.All() {
		if p.Identity == self || p.IsDead {
			continue
		}
		out = append(out, circle{p.X, p.Y, config.PlayerRadius})
	}
	for _, t := range w.Trees.All() {
		if t.Health <= 0 {
			continue
		}
		out = append(out, circle{t.X, t.Y + config.TreeCollisionYOffset, config.ProjectileTreeHitRadius})
	}
	for _, s := range w.Stones.All() {
		if s.Health <= 0 {
			continue
		}
		out = append(out, circle{s.X, s.Y, config.ProjectileStoneHitRadius})
	}
	for _, b := range w.StorageBoxes.All() {
		if b.IsDestroyed {
			continue
		}
		out = append(out, circle{b.X, b.Y, config.ProjectileBoxHitRadius})
	}
	return out
}

// knockbackObstacles is the §4.5.1 step 5 obstacle set for knockback
// reversion: players can be knocked back over campfires and sleeping
// bags, so the set is the same as walkObstacles (players/trees/stones/
// boxes), not a superset of it.
func knockbackObstacles(w *store.World, self model.Identity) []circle {
	return walkObstacles(w, self)
}
