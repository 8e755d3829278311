package projectile

import (
	"math/rand"
	"time"

	"survivalcore/internal/combat"
	"survivalcore/internal/config"
	"survivalcore/internal/container"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// damageableTarget reports whether a struck entity class takes damage
// from a projectile hit (§4.3 step 3: "on any entity hit carrying
// health"). Trees, stones, and shelters are hard stops that consume
// the projectile without damaging it (§4.3 step 2a/2b: "absorbed with
// no damage" / "hard stop, no damage") — only the deployables listed
// in step 2c, wild animals, and players in step 2d apply damage.
func damageableTarget(t model.TargetType) bool {
	switch t {
	case model.TargetCampfire, model.TargetStorageBox, model.TargetStash, model.TargetSleepingBag, model.TargetPlayerCorpse, model.TargetPlayer, model.TargetAnimal:
		return true
	default:
		return false
	}
}

func rollRange(rng *rand.Rand, r model.Range) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Tick advances every live projectile by one 50ms step (§4.3). notify,
// if non-nil, is called for the purely cosmetic ArrowBreakEvent client
// particle effect (§4.3 step 5) — it carries no gameplay state, so a
// nil notify silently skips it rather than requiring a persisted row.
func Tick(w *store.World, rng *rand.Rand, now time.Time, notify func(pos model.Vec2)) {
	var expired []uint64

	for _, p := range w.Projectiles.All() {
		elapsed := now.Sub(p.StartTime).Seconds()
		prev, cur := SweptSegment(p, elapsed)

		traveled := cur.Sub(model.Vec2{X: p.StartX, Y: p.StartY}).Length()
		timedOut := elapsed >= config.ProjectileHardCapSecs || (p.MaxRange > 0 && traveled >= p.MaxRange)

		hit := FindCollision(w, p.Owner, prev, cur)
		if hit == nil && !timedOut {
			continue
		}

		expired = append(expired, p.ID)

		impact := cur
		if hit != nil {
			impact = hit.Point
			if !hit.Absorbed && damageableTarget(hit.Target.Type) {
				applyProjectileDamage(w, rng, now, p, hit.Target)
			}
		}

		resolveMissOutcome(w, rng, p, impact, notify)
	}

	for _, id := range expired {
		w.Projectiles.Delete(id)
	}
}

// applyProjectileDamage implements §4.3 steps 3-4: damage =
// weapon_damage + ammo_damage (independently rolled), with Fire Arrow
// using ammo damage only and a thrown weapon (ammo_def_id ==
// weapon_def_id) using 2x weapon damage; on a player hit, apply the
// ammo's bleed definition if present.
func applyProjectileDamage(w *store.World, rng *rand.Rand, now time.Time, p *model.Projectile, target model.TargetID) {
	weaponDef, ok := w.ItemDefinitions.Get(p.WeaponDefID)
	if !ok {
		return
	}
	ammoDef, ok := w.ItemDefinitions.Get(p.AmmoDefID)
	if !ok {
		return
	}

	var damage float64
	switch {
	case ammoDef.Name == "Fire Arrow":
		if ammoDef.PvPDamage != nil {
			damage = rollRange(rng, *ammoDef.PvPDamage)
		}
	case p.AmmoDefID == p.WeaponDefID: // thrown: ammo def IS the weapon def
		if weaponDef.PvPDamage != nil {
			damage = 2 * rollRange(rng, *weaponDef.PvPDamage)
		}
	default:
		if weaponDef.PvPDamage != nil {
			damage += rollRange(rng, *weaponDef.PvPDamage)
		}
		if ammoDef.PvPDamage != nil {
			damage += rollRange(rng, *ammoDef.PvPDamage)
		}
	}

	switch target.Type {
	case model.TargetPlayer:
		if victim, ok := w.Players.Get(target.Player); ok {
			outcome := combat.Outcome{Damage: damage}
			_ = combat.ApplyToPlayer(w, now, p.Owner, victim, ammoDef, outcome, nil)
		}
	case model.TargetAnimal:
		if a, ok := w.Animals.Get(target.EntityID); ok {
			combat.ApplyToAnimal(w, p.Owner, a, now, damage)
		}
	case model.TargetPlayerCorpse:
		if c, ok := w.Corpses.Get(target.EntityID); ok {
			combat.ApplyToCorpse(w, rng, p.Owner, c, nil, damage)
		}
	case model.TargetCampfire:
		if c, ok := w.Campfires.Get(target.EntityID); ok {
			combat.ApplyToDeployable(w, rng, combat.CampfireTarget{C: c}, container.Campfire{C: c}, model.Vec2{X: c.X, Y: c.Y}, damage, func() {
				w.Campfires.Delete(c.ID)
				w.Scheduler.Cancel(c.ID)
			})
		}
	case model.TargetStorageBox:
		if b, ok := w.StorageBoxes.Get(target.EntityID); ok {
			combat.ApplyToDeployable(w, rng, combat.StorageBoxTarget{C: b}, container.StorageBox{C: b}, model.Vec2{X: b.X, Y: b.Y}, damage, func() {
				w.StorageBoxes.Delete(b.ID)
			})
		}
	case model.TargetStash:
		if s, ok := w.Stashes.Get(target.EntityID); ok {
			combat.ApplyToDeployable(w, rng, combat.StashTarget{C: s}, container.Stash{C: s}, model.Vec2{X: s.X, Y: s.Y}, damage, func() {
				w.Stashes.Delete(s.ID)
			})
		}
	case model.TargetSleepingBag:
		if b, ok := w.SleepingBags.Get(target.EntityID); ok {
			combat.ApplyToDeployable(w, rng, combat.SleepingBagTarget{C: b}, nil, model.Vec2{X: b.X, Y: b.Y}, damage, func() {
				w.SleepingBags.Delete(b.ID)
			})
		}
	}
}

// resolveMissOutcome implements §4.3 step 5: on any terminal event the
// ammo either shatters (cosmetic notify, no dropped item) or is
// recovered as a DroppedItem at the impact point.
func resolveMissOutcome(w *store.World, rng *rand.Rand, p *model.Projectile, impact model.Vec2, notify func(pos model.Vec2)) {
	isThrown := p.AmmoDefID == p.WeaponDefID
	chance := config.ArrowBreakChance
	if isThrown {
		chance = config.ThrownBreakChance
	}
	if rng.Float64() < chance {
		if notify != nil {
			notify(impact)
		}
		return
	}
	container.SpawnDropped(w, rng, p.AmmoDefID, 1, impact)
}
