package combat

import (
	"math"

	"survivalcore/internal/config"
	"survivalcore/internal/deployable"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// TargetCandidate is one entity considered by the targeting cone
// (§4.2.1), carrying the visual-center position the angular test uses.
type TargetCandidate struct {
	ID          model.TargetID
	Pos         model.Vec2
	RequiresLOS bool
}

// visualCenterOffset returns the per-type vertical offset applied to
// an entity's stored pos before the angular test (§4.2.1: "entities
// apply a per-type vertical offset to their pos before the angular
// test so attacks aim at the visual center"). Reuses the same
// per-type offsets the projectile subsystem uses for hit-center
// computation (§4.3), since both describe the same visual center.
func visualCenterOffset(t model.TargetType) float64 {
	switch t {
	case model.TargetTree:
		return config.ProjectileTreeYOffset
	case model.TargetStone:
		return config.ProjectileStoneYOffset
	case model.TargetCampfire:
		return config.ProjectileCampfireYOffset
	case model.TargetStorageBox:
		return config.ProjectileBoxYOffset
	case model.TargetStash:
		return config.ProjectileStashYOffset
	case model.TargetSleepingBag:
		return config.ProjectileBagYOffset
	default:
		return 0
	}
}

// isDeployableTargetType reports whether t is one of the deployable
// entity kinds (§4.2.2's "target is ... Deployable" grouping).
func isDeployableTargetType(t model.TargetType) bool {
	switch t {
	case model.TargetCampfire, model.TargetStorageBox, model.TargetStash, model.TargetSleepingBag, model.TargetShelter:
		return true
	default:
		return false
	}
}

// GatherCandidates enumerates every entity type the targeting cone
// considers (§4.2.1's entity list), excluding the attacker themself
// and bramble grass.
func GatherCandidates(w *store.World, attacker model.Identity) []TargetCandidate {
	var out []TargetCandidate

	for _, t := range w.Trees.All() {
		if t.Health <= 0 {
			continue
		}
		out = append(out, TargetCandidate{
			ID:  model.TargetID{Type: model.TargetTree, EntityID: t.ID},
			Pos: model.Vec2{X: t.X, Y: t.Y + visualCenterOffset(model.TargetTree)},
		})
	}
	for _, s := range w.Stones.All() {
		if s.Health <= 0 {
			continue
		}
		out = append(out, TargetCandidate{
			ID:  model.TargetID{Type: model.TargetStone, EntityID: s.ID},
			Pos: model.Vec2{X: s.X, Y: s.Y + visualCenterOffset(model.TargetStone)},
		})
	}
	for _, g := range w.Grass.All() {
		if g.IsBramble {
			continue
		}
		out = append(out, TargetCandidate{
			ID:  model.TargetID{Type: model.TargetGrass, EntityID: g.ID},
			Pos: model.Vec2{X: g.X, Y: g.Y},
		})
	}
	for _, m := range w.Mushrooms.All() {
		if m.Health <= 0 {
			continue
		}
		out = append(out, TargetCandidate{
			ID:  model.TargetID{Type: model.TargetMushroom, EntityID: m.ID},
			Pos: model.Vec2{X: m.X, Y: m.Y},
		})
	}
	for _, c := range w.Crops.All() {
		if c.Health <= 0 {
			continue
		}
		out = append(out, TargetCandidate{
			ID:  model.TargetID{Type: model.TargetCrop, EntityID: c.ID},
			Pos: model.Vec2{X: c.X, Y: c.Y},
		})
	}
	for _, p := range w.Players.All() {
		if p.Identity == attacker || p.IsDead {
			continue
		}
		out = append(out, TargetCandidate{
			ID:          model.TargetID{Type: model.TargetPlayer, Player: p.Identity},
			Pos:         model.Vec2{X: p.X, Y: p.Y},
			RequiresLOS: true,
		})
	}
	for _, a := range w.Animals.All() {
		if a.Health <= 0 || a.TamedBy != nil {
			continue
		}
		out = append(out, TargetCandidate{
			ID:  model.TargetID{Type: model.TargetAnimal, EntityID: a.ID},
			Pos: model.Vec2{X: a.X, Y: a.Y},
		})
	}
	for _, c := range w.Campfires.All() {
		if c.IsDestroyed {
			continue
		}
		out = append(out, TargetCandidate{
			ID:          model.TargetID{Type: model.TargetCampfire, EntityID: c.ID},
			Pos:         model.Vec2{X: c.X, Y: c.Y + visualCenterOffset(model.TargetCampfire)},
			RequiresLOS: true,
		})
	}
	for _, b := range w.StorageBoxes.All() {
		if b.IsDestroyed {
			continue
		}
		out = append(out, TargetCandidate{
			ID:          model.TargetID{Type: model.TargetStorageBox, EntityID: b.ID},
			Pos:         model.Vec2{X: b.X, Y: b.Y + visualCenterOffset(model.TargetStorageBox)},
			RequiresLOS: true,
		})
	}
	for _, s := range w.Stashes.All() {
		if s.IsDestroyed {
			continue
		}
		out = append(out, TargetCandidate{
			ID:          model.TargetID{Type: model.TargetStash, EntityID: s.ID},
			Pos:         model.Vec2{X: s.X, Y: s.Y + visualCenterOffset(model.TargetStash)},
			RequiresLOS: true,
		})
	}
	for _, b := range w.SleepingBags.All() {
		if b.IsDestroyed {
			continue
		}
		out = append(out, TargetCandidate{
			ID:          model.TargetID{Type: model.TargetSleepingBag, EntityID: b.ID},
			Pos:         model.Vec2{X: b.X, Y: b.Y + visualCenterOffset(model.TargetSleepingBag)},
			RequiresLOS: true,
		})
	}
	for _, s := range w.Shelters.All() {
		if s.IsDestroyed {
			continue
		}
		out = append(out, TargetCandidate{
			ID:          model.TargetID{Type: model.TargetShelter, EntityID: s.ID},
			Pos:         model.Vec2{X: s.X, Y: s.Y},
			RequiresLOS: true,
		})
	}
	for _, c := range w.Corpses.All() {
		if c.IsDestroyed || c.Health <= 0 {
			continue
		}
		out = append(out, TargetCandidate{
			ID:          model.TargetID{Type: model.TargetPlayerCorpse, EntityID: c.ID},
			Pos:         model.Vec2{X: c.X, Y: c.Y},
			RequiresLOS: true,
		})
	}
	return out
}

// inCone reports whether candidate c lies within range rangeR and
// half-angle halfAngle of an attacker at pos facing dir (§4.2.1 steps
// 1-2).
func inCone(pos, dir, cPos model.Vec2, rangeR, halfAngle float64) bool {
	d := cPos.Sub(pos)
	distSq := d.LengthSquared()
	if distSq > rangeR*rangeR || distSq == 0 {
		return false
	}
	cosAlpha := dir.Normalized().Dot(d.Normalized())
	// clamp for float safety before Acos-free comparison via cos(halfAngle)
	if cosAlpha > 1 {
		cosAlpha = 1
	}
	if cosAlpha < -1 {
		cosAlpha = -1
	}
	return cosAlpha >= math.Cos(halfAngle)
}

// SelectBestTarget implements §4.2.1's targeting cone and best-target
// selection in one pass: gather candidates in range/angle/LOS, then
// pick (1) the first whose type matches the item's primary target,
// else (2) the first Player if the item defines PvP damage, else (3)
// the closest candidate of any type. Ties within a category are
// broken by distance (closest first) for determinism, since the spec
// does not define an iteration order over entity rows.
func SelectBestTarget(w *store.World, attacker model.Identity, attackerPos model.Vec2, facing model.Vec2, rangeR, halfAngle float64, def *model.ItemDefinition) *TargetCandidate {
	candidates := GatherCandidates(w, attacker)

	var inRange []TargetCandidate
	for _, c := range candidates {
		if !inCone(attackerPos, facing, c.Pos, rangeR, halfAngle) {
			continue
		}
		if c.RequiresLOS && !deployable.LineOfSightClear(w, attacker, attackerPos, c.Pos) {
			continue
		}
		inRange = append(inRange, c)
	}
	if len(inRange) == 0 {
		return nil
	}

	closest := func(set []TargetCandidate) *TargetCandidate {
		var best *TargetCandidate
		bestDist := -1.0
		for i := range set {
			d := set[i].Pos.Sub(attackerPos).LengthSquared()
			if best == nil || d < bestDist {
				best = &set[i]
				bestDist = d
			}
		}
		return best
	}

	if def.PrimaryTargetType != nil {
		var matching []TargetCandidate
		for _, c := range inRange {
			if c.ID.Type == *def.PrimaryTargetType {
				matching = append(matching, c)
			}
		}
		if len(matching) > 0 {
			return closest(matching)
		}
	}

	if def.PvPDamage != nil {
		var players []TargetCandidate
		for _, c := range inRange {
			if c.ID.Type == model.TargetPlayer {
				players = append(players, c)
			}
		}
		if len(players) > 0 {
			return closest(players)
		}
	}

	return closest(inRange)
}
