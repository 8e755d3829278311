// Package deployable implements campfire fuel burn, shelter placement
// and protection, and the resource-respawn sweep (§4.6, §6.3).
package deployable

import (
	"survivalcore/internal/config"
	"survivalcore/internal/model"
	"survivalcore/internal/spatial"
	"survivalcore/internal/store"
)

// ShelterAABB returns a shelter's collision/LOS/projectile-blocking
// box (§4.6.2): center (pos_x, pos_y-200), half-size (150,100).
func ShelterAABB(s *model.Shelter) spatial.AABB {
	return spatial.AABB{
		CenterX:    s.X,
		CenterY:    s.Y - config.ShelterAABBCenterYOffset,
		HalfWidth:  config.ShelterAABBHalfWidth,
		HalfHeight: config.ShelterAABBHalfHeight,
	}
}

// ShelterObstacles returns every non-destroyed shelter as a spatial
// obstacle for LOS and projectile-blocking tests.
func ShelterObstacles(w *store.World) []spatial.Obstacle {
	shelters := w.Shelters.All()
	out := make([]spatial.Obstacle, 0, len(shelters))
	for _, s := range shelters {
		if s.IsDestroyed {
			continue
		}
		out = append(out, spatial.Obstacle{ID: s.ID, Box: ShelterAABB(s)})
	}
	return out
}

// LineOfSightClear implements the owner-inside-protection exemption
// (§4.2.1 step 3, §4.6.2): a shelter wall blocks LOS between from and
// to unless attacker owns that shelter and stands inside it.
func LineOfSightClear(w *store.World, attacker model.Identity, from, to model.Vec2) bool {
	obstacles := ShelterObstacles(w)
	exempt := func(o spatial.Obstacle) bool {
		sh, ok := w.Shelters.Get(o.ID)
		if !ok || sh.PlacedBy != attacker {
			return false
		}
		return ShelterAABB(sh).Contains(from.X, from.Y)
	}
	return !spatial.LineOfSightBlocked(from.X, from.Y, to.X, to.Y, obstacles, exempt)
}

// AttackAllowedFromInsideShelter rejects firing/throwing from inside
// the attacker's own shelter at a target outside it (§4.6.2).
func AttackAllowedFromInsideShelter(w *store.World, attacker model.Identity, attackerPos, targetPos model.Vec2) bool {
	for _, s := range w.Shelters.All() {
		if s.IsDestroyed || s.PlacedBy != attacker {
			continue
		}
		box := ShelterAABB(s)
		if box.Contains(attackerPos.X, attackerPos.Y) && !box.Contains(targetPos.X, targetPos.Y) {
			return false
		}
	}
	return true
}

// NearestShelterDistanceAlongLine returns the shortest distance from
// firingFrom to the nearest edge of any non-destroyed shelter AABB not
// placed by attacker (0 when firingFrom is inside one, -1 when there is
// none), used for the firing-line proximity rejection (§4.3 "reject if
// a shelter AABB is closer than 80 px along the firing line"). The
// firing direction is not used: the point-to-box distance is never
// greater than the distance along any firing line, so this rejects at
// least as often as a per-line test.
func NearestShelterDistanceAlongLine(w *store.World, attacker model.Identity, firingFrom model.Vec2) float64 {
	best := -1.0
	for _, s := range w.Shelters.All() {
		if s.IsDestroyed || s.PlacedBy == attacker {
			continue
		}
		box := ShelterAABB(s)
		dx := firingFrom.X - box.CenterX
		dy := firingFrom.Y - box.CenterY
		edgeDX := dx
		if edgeDX > box.HalfWidth {
			edgeDX -= box.HalfWidth
		} else if edgeDX < -box.HalfWidth {
			edgeDX += box.HalfWidth
		} else {
			edgeDX = 0
		}
		edgeDY := dy
		if edgeDY > box.HalfHeight {
			edgeDY -= box.HalfHeight
		} else if edgeDY < -box.HalfHeight {
			edgeDY += box.HalfHeight
		} else {
			edgeDY = 0
		}
		dist := model.Vec2{X: edgeDX, Y: edgeDY}.Length()
		if best < 0 || dist < best {
			best = dist
		}
	}
	return best
}
