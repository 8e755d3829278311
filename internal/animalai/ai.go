// Tick is the per-AI-tick orchestrator (§4.4.1). cmd/server drives it
// from its own ticker loop at config.AITickIntervalMS, the same way it
// drives internal/projectile.Tick; only internal/deployable's campfire
// fuel burn is registered with the store.Scheduler.
package animalai

import (
	"fmt"
	"math/rand"
	"time"

	"survivalcore/internal/combat"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

const aiDt = 0.125 // seconds, matches config.AITickIntervalMS

// Tick implements §4.4.1's 8-step per-animal loop.
func Tick(w *store.World, rng *rand.Rand, now time.Time) {
	for _, animal := range w.Animals.All() {
		beh := ForSpecies(animal.Species)
		stats := beh.Stats()

		players := nearbyPlayers(w, animal, stats)

		if !applyMandatoryTransitions(w, rng, animal, stats, beh, players, now) {
			detected := detectPlayer(animal, stats, animal.Species, players)
			beh.UpdateAIStateLogic(w, rng, animal, detected, now)
		}

		processPackBehavior(w, rng, animal, now)
		processTamingBehavior(w, beh, animal, now)

		if animal.State == model.StateChasing && animal.TargetPlayer != nil {
			if target, ok := w.Players.Get(*animal.TargetPlayer); ok && !target.IsDead {
				dist := model.Vec2{X: animal.X, Y: animal.Y}.Sub(model.Vec2{X: target.X, Y: target.Y}).Length()
				if dist <= stats.AttackRange && canAttack(animal, stats, now) {
					executeAnimalAttack(w, rng, now, animal, beh, target)
				}
			} else {
				transitionTo(animal, model.StatePatrolling, now, nil)
			}
		}

		if animal.State == model.StateProtecting {
			if threat := handleTamedProtecting(w, beh, animal, stats, now, aiDt); threat != nil {
				executeAnimalThreatAttack(w, rng, now, animal, beh, stats, *threat)
			}
		}

		executeMovement(w, rng, animal, beh, stats, now)
		clampToWorldBounds(animal)
	}
}

// executeMovement dispatches per-state movement (§4.4.1 step 7).
func executeMovement(w *store.World, rng *rand.Rand, animal *model.WildAnimal, beh Behavior, stats Stats, now time.Time) {
	switch animal.State {
	case model.StatePatrolling:
		if target, ok := packCohesionTarget(w, animal); ok {
			moveTowards(animal, target, stats.MovementSpeed, aiDt)
			return
		}
		beh.ExecutePatrolLogic(animal, aiDt, rng)
	case model.StateChasing:
		if animal.TargetPlayer == nil {
			return
		}
		target, ok := w.Players.Get(*animal.TargetPlayer)
		if !ok {
			return
		}
		dist := model.Vec2{X: animal.X, Y: animal.Y}.Sub(model.Vec2{X: target.X, Y: target.Y}).Length()
		if dist > stats.AttackRange*0.9 {
			moveTowards(animal, model.Vec2{X: target.X, Y: target.Y}, stats.SprintSpeed, aiDt)
		}
	case model.StateInvestigating:
		if animal.InvestigationPos != nil {
			speed := stats.MovementSpeed * 1.2
			if animal.Species == model.SpeciesCableViper {
				speed = stats.SprintSpeed * 0.8
			}
			moveTowards(animal, *animal.InvestigationPos, speed, aiDt)
			if (model.Vec2{X: animal.X, Y: animal.Y}).Sub(*animal.InvestigationPos).Length() <= 20 {
				animal.InvestigationPos = nil
			}
		}
	case model.StateFleeing:
		beh.ExecuteFleeLogic(animal, aiDt, now, rng)
	case model.StateFollowing:
		handleTamedFollowing(w, animal, stats, now, aiDt)
		// Protecting movement is folded into the attack-threat handling
		// above so threat position stays current within this tick.
	}
}

// executeAnimalAttack implements §4.4.1 step 6 / §4.4.6: apply
// species-specific damage to the target player through
// internal/combat's existing player-damage pipeline (armor resistance,
// bleed, knockout/death/corpse transition), reusing an ephemeral
// ItemDefinition as the damage+bleed carrier the same way
// internal/projectile's tick.go reuses it for ammo-rolled damage.
func executeAnimalAttack(w *store.World, rng *rand.Rand, now time.Time, animal *model.WildAnimal, beh Behavior, target *model.Player) {
	animal.LastAttackTime = &now
	damage := beh.ExecuteAttackEffects(w, rng, animal, target, now)
	def := &model.ItemDefinition{
		Name:      animal.Species.String() + " Attack",
		Category:  model.CategoryOther,
		PvPDamage: &model.Range{Min: damage, Max: damage},
	}
	if animal.Species == model.SpeciesCableViper {
		bleed := VenomBleed
		def.Bleed = &bleed
	}

	outcome := combat.Outcome{Damage: damage}
	attackerIdentity := model.Identity(fmt.Sprintf("animal:%d", animal.ID))
	_ = combat.ApplyToPlayer(w, now, attackerIdentity, target, def, outcome, nil)
	if target.Health > 0 {
		applyKnockback(animal, target, beh.KnockbackDistance())
	}

	if animal.Species == model.SpeciesCinderFox && target.Health > 0 {
		healthPct := target.Health / 100.0
		executeHitAndRun(animal, model.Vec2{X: target.X, Y: target.Y}, healthPct, now)
	}
}

// executeAnimalThreatAttack implements the Protecting-state attack
// path (§4.4.5): the threat may be a player or another wild animal.
func executeAnimalThreatAttack(w *store.World, rng *rand.Rand, now time.Time, animal *model.WildAnimal, beh Behavior, stats Stats, threat model.TargetID) {
	switch threat.Type {
	case model.TargetPlayer:
		if target, ok := w.Players.Get(threat.Player); ok {
			executeAnimalAttack(w, rng, now, animal, beh, target)
		}
	case model.TargetAnimal:
		if target, ok := w.Animals.Get(threat.EntityID); ok {
			damage := beh.ExecuteAttackEffects(w, rng, animal, nil, now)
			target.Health -= damage
			if target.Health <= 0 {
				w.Animals.Delete(target.ID)
			}
			animal.LastAttackTime = &now
		}
	}
}
