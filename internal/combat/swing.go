package combat

import (
	"math/rand"
	"time"

	"survivalcore/internal/config"
	"survivalcore/internal/container"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// ResolvePush resolves a proposed knockback/recoil position against
// the solid obstacle set, reverting to from on collision (§4.2.3). It
// is supplied by internal/movement so this package has no direct
// dependency on movement's collision code.
type ResolvePush func(from, proposed model.Vec2) (resolved model.Vec2, moved bool)

// Swing implements the melee ordering from §5: "attack-speed gate →
// target scan → best-target selection → damage apply → knockback →
// effects." It is the body of the use_equipped_item reducer for
// non-ranged, non-consumable items.
func Swing(w *store.World, rng *rand.Rand, now time.Time, attacker model.Identity, itemDef *model.ItemDefinition, push ResolvePush) (*TargetCandidate, error) {
	if err := CheckCadence(w, attacker, itemDef.ID, itemDef.AttackIntervalSecs, now); err != nil {
		return nil, err
	}

	attackerRow, ok := w.Players.Get(attacker)
	if !ok {
		return nil, fail(ErrNotFound, "attacker not found")
	}
	if attackerRow.IsDead {
		return nil, fail(ErrValidation, "Cannot attack while dead")
	}

	rangeR := itemDef.AttackRange
	if rangeR <= 0 {
		rangeR = config.DefaultAttackRange
	}
	halfAngle := itemDef.AttackHalfAngleRad
	if halfAngle <= 0 {
		halfAngle = config.DefaultAttackHalfAngle
	}

	attackerPos := model.Vec2{X: attackerRow.X, Y: attackerRow.Y}
	facing := model.DirectionFromString(attackerRow.Direction)

	target := SelectBestTarget(w, attacker, attackerPos, facing, rangeR, halfAngle, itemDef)
	if target == nil {
		RecordAttack(w, attacker, itemDef.ID, now)
		return nil, fail(ErrValidation, "No target in range")
	}

	outcome := DamageFor(rng, itemDef, target.ID.Type)
	applyToTarget(w, rng, now, attacker, attackerPos, itemDef, target.ID, outcome, push)

	RecordAttack(w, attacker, itemDef.ID, now)
	return target, nil
}

func applyToTarget(w *store.World, rng *rand.Rand, now time.Time, attacker model.Identity, attackerPos model.Vec2, itemDef *model.ItemDefinition, id model.TargetID, outcome Outcome, push ResolvePush) {
	switch id.Type {
	case model.TargetTree:
		if t, ok := w.Trees.Get(id.EntityID); ok {
			ApplyToTree(w, rng, attacker, t, attackerPos, outcome)
		}
	case model.TargetStone:
		if s, ok := w.Stones.Get(id.EntityID); ok {
			ApplyToStone(w, rng, attacker, s, attackerPos, outcome)
		}
	case model.TargetGrass:
		if g, ok := w.Grass.Get(id.EntityID); ok {
			ApplyToGrass(rng, g)
		}
	case model.TargetPlayer:
		if p, ok := w.Players.Get(id.Player); ok {
			_ = ApplyToPlayer(w, now, attacker, p, itemDef, outcome, push)
		}
	case model.TargetAnimal:
		if a, ok := w.Animals.Get(id.EntityID); ok {
			ApplyToAnimal(w, attacker, a, now, outcome.Damage)
		}
	case model.TargetPlayerCorpse:
		if c, ok := w.Corpses.Get(id.EntityID); ok {
			ApplyToCorpse(w, rng, attacker, c, itemDef, outcome.Damage)
		}
	case model.TargetCampfire:
		if c, ok := w.Campfires.Get(id.EntityID); ok {
			ApplyToDeployable(w, rng, CampfireTarget{c}, container.Campfire{C: c}, model.Vec2{X: c.X, Y: c.Y}, outcome.Damage, func() {
				w.Campfires.Delete(c.ID)
				w.Scheduler.Cancel(c.ID)
			})
		}
	case model.TargetStorageBox:
		if b, ok := w.StorageBoxes.Get(id.EntityID); ok {
			ApplyToDeployable(w, rng, StorageBoxTarget{b}, container.StorageBox{C: b}, model.Vec2{X: b.X, Y: b.Y}, outcome.Damage, func() {
				w.StorageBoxes.Delete(b.ID)
			})
		}
	case model.TargetStash:
		if s, ok := w.Stashes.Get(id.EntityID); ok {
			ApplyToDeployable(w, rng, StashTarget{s}, container.Stash{C: s}, model.Vec2{X: s.X, Y: s.Y}, outcome.Damage, func() {
				w.Stashes.Delete(s.ID)
			})
		}
	case model.TargetSleepingBag:
		if b, ok := w.SleepingBags.Get(id.EntityID); ok {
			ApplyToDeployable(w, rng, SleepingBagTarget{b}, nil, model.Vec2{X: b.X, Y: b.Y}, outcome.Damage, func() {
				w.SleepingBags.Delete(b.ID)
			})
		}
	case model.TargetShelter:
		if s, ok := w.Shelters.Get(id.EntityID); ok {
			if itemDef.Name == "Repair Hammer" {
				s.Health += outcome.Damage
				if s.Health > s.MaxHealth {
					s.Health = s.MaxHealth
				}
				return
			}
			ApplyToDeployable(w, rng, ShelterTarget{s}, nil, model.Vec2{X: s.X, Y: s.Y}, outcome.Damage, func() {
				w.Shelters.Delete(s.ID)
			})
		}
	}
}
