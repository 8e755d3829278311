package projectile

import (
	"survivalcore/internal/config"
	"survivalcore/internal/deployable"
	"survivalcore/internal/model"
	"survivalcore/internal/spatial"
	"survivalcore/internal/store"
)

// Hit describes a swept-segment collision (§4.3 step 2): which entity
// class and row it struck, at what point, and whether it was merely
// absorbed (shelter owner's own wall) versus a damaging hit.
type Hit struct {
	Target   model.TargetID
	Point    model.Vec2
	Absorbed bool // true for an owner's-own-shelter absorption: no damage, just consumed
}

// FindCollision walks the fixed entity-class order from §4.3 step 2
// (shelter → trees → stones → campfires/boxes/stashes/bags/corpses →
// animals → players) and returns the first swept-segment hit, or nil if the
// segment is clear.
func FindCollision(w *store.World, owner model.Identity, prev, cur model.Vec2) *Hit {
	px, py, cx, cy := prev.X, prev.Y, cur.X, cur.Y

	for _, s := range w.Shelters.All() {
		if s.IsDestroyed {
			continue
		}
		box := deployable.ShelterAABB(s)
		if !spatial.SegmentIntersectsAABB(px, py, cx, cy, box) {
			continue
		}
		absorbed := s.PlacedBy == owner && box.Contains(px, py)
		return &Hit{Target: model.TargetID{Type: model.TargetShelter, EntityID: s.ID}, Point: cur, Absorbed: absorbed}
	}

	for _, t := range w.Trees.All() {
		if t.Health <= 0 {
			continue
		}
		if spatial.SegmentIntersectsCircle(px, py, cx, cy, t.X, t.Y+config.ProjectileTreeYOffset, config.ProjectileTreeHitRadius) {
			return &Hit{Target: model.TargetID{Type: model.TargetTree, EntityID: t.ID}, Point: cur}
		}
	}
	for _, s := range w.Stones.All() {
		if s.Health <= 0 {
			continue
		}
		if spatial.SegmentIntersectsCircle(px, py, cx, cy, s.X, s.Y+config.ProjectileStoneYOffset, config.ProjectileStoneHitRadius) {
			return &Hit{Target: model.TargetID{Type: model.TargetStone, EntityID: s.ID}, Point: cur}
		}
	}

	for _, c := range w.Campfires.All() {
		if c.IsDestroyed {
			continue
		}
		if spatial.SegmentIntersectsCircle(px, py, cx, cy, c.X, c.Y+config.ProjectileCampfireYOffset, config.ProjectileCampfireHitRadius) {
			return &Hit{Target: model.TargetID{Type: model.TargetCampfire, EntityID: c.ID}, Point: cur}
		}
	}
	for _, b := range w.StorageBoxes.All() {
		if b.IsDestroyed {
			continue
		}
		if spatial.SegmentIntersectsCircle(px, py, cx, cy, b.X, b.Y+config.ProjectileBoxYOffset, config.ProjectileBoxHitRadius) {
			return &Hit{Target: model.TargetID{Type: model.TargetStorageBox, EntityID: b.ID}, Point: cur}
		}
	}
	for _, s := range w.Stashes.All() {
		if s.IsDestroyed {
			continue
		}
		if spatial.SegmentIntersectsCircle(px, py, cx, cy, s.X, s.Y+config.ProjectileStashYOffset, config.ProjectileStashHitRadius) {
			return &Hit{Target: model.TargetID{Type: model.TargetStash, EntityID: s.ID}, Point: cur}
		}
	}
	for _, b := range w.SleepingBags.All() {
		if b.IsDestroyed {
			continue
		}
		if spatial.SegmentIntersectsCircle(px, py, cx, cy, b.X, b.Y+config.ProjectileBagYOffset, config.ProjectileBagHitRadius) {
			return &Hit{Target: model.TargetID{Type: model.TargetSleepingBag, EntityID: b.ID}, Point: cur}
		}
	}
	for _, c := range w.Corpses.All() {
		if c.IsDestroyed || c.Health <= 0 {
			continue
		}
		if spatial.SegmentIntersectsCircle(px, py, cx, cy, c.X, c.Y+config.ProjectileCorpseYOffset, config.ProjectileCorpseHitRadius) {
			return &Hit{Target: model.TargetID{Type: model.TargetPlayerCorpse, EntityID: c.ID}, Point: cur}
		}
	}

	for _, a := range w.Animals.All() {
		if a.Health <= 0 || a.TamedBy != nil {
			continue
		}
		if spatial.SegmentIntersectsCircle(px, py, cx, cy, a.X, a.Y, config.PlayerRadius) {
			return &Hit{Target: model.TargetID{Type: model.TargetAnimal, EntityID: a.ID}, Point: cur}
		}
	}

	for _, p := range w.Players.All() {
		if p.Identity == owner || p.IsDead {
			continue
		}
		if spatial.SegmentIntersectsCircle(px, py, cx, cy, p.X, p.Y, config.PlayerRadius) {
			return &Hit{Target: model.TargetID{Type: model.TargetPlayer, Player: p.Identity}, Point: cur}
		}
	}

	return nil
}
