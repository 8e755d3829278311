package animalai

import (
	"math/rand"
	"time"

	"survivalcore/internal/config"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// wolfBehavior is TundraWolf (§4.4.2, §4.4.4): the only pack-forming
// species, with a 30% double-strike chance on attack (§4.4.6).
type wolfBehavior struct{}

func (wolfBehavior) Stats() Stats {
	return Stats{
		MaxHealth:            140,
		AttackDamage:         18,
		AttackRange:          56,
		AttackCooldown:       1100 * time.Millisecond,
		MovementSpeed:        110,
		SprintSpeed:          260,
		PerceptionRange:      380,
		PerceptionAngle:      160,
		PatrolRadius:         500,
		ChaseTriggerRange:    750,
		FleeTriggerHealthPct: 0.20,
	}
}

func (wolfBehavior) MovementPattern() MovementPattern { return PatternLoop }

func (wolfBehavior) FleeDistance() float64      { return 950 }
func (wolfBehavior) KnockbackDistance() float64 { return config.AnimalWolfKnockback }

// ExecuteAttackEffects implements the wolf's 30% double-strike chance
// (§4.4.6): on a proc, reset the attack cooldown instead of stamping
// it, so the next tick may attack again immediately.
func (w wolfBehavior) ExecuteAttackEffects(world *store.World, rng *rand.Rand, animal *model.WildAnimal, target *model.Player, now time.Time) float64 {
	stats := w.Stats()
	if rng.Float64() < 0.30 {
		animal.LastAttackTime = nil
	}
	return stats.AttackDamage
}

func (w wolfBehavior) UpdateAIStateLogic(world *store.World, rng *rand.Rand, animal *model.WildAnimal, detected *model.Player, now time.Time) {
	if detected == nil {
		if animal.State == model.StateChasing || animal.State == model.StateAttacking {
			transitionTo(animal, model.StatePatrolling, now, nil)
		}
		return
	}
	if w.ShouldChasePlayer(animal, detected) {
		id := detected.Identity
		transitionTo(animal, model.StateChasing, now, &id)
	}
}

func (w wolfBehavior) ExecuteFleeLogic(animal *model.WildAnimal, dt float64, now time.Time, rng *rand.Rand) {
	executeStandardFlee(animal, w.Stats(), dt, now, 4*time.Second, rng)
}

// ExecutePatrolLogic wanders. Pack cohesion (§4.4.2), where a
// non-leader pack member steers toward its alpha, is applied before
// this is reached, by executeMovement through packCohesionTarget.
func (w wolfBehavior) ExecutePatrolLogic(animal *model.WildAnimal, dt float64, rng *rand.Rand) {
	stats := w.Stats()
	executeWander(animal, stats, dt, rng)
}

func (w wolfBehavior) ShouldChasePlayer(animal *model.WildAnimal, player *model.Player) bool {
	stats := w.Stats()
	d := model.Vec2{X: player.X, Y: player.Y}.Sub(model.Vec2{X: animal.X, Y: animal.Y}).Length()
	return d <= stats.ChaseTriggerRange
}

func (wolfBehavior) CanBeTamed() bool          { return false }
func (wolfBehavior) TamingFoods() []string     { return nil }
func (wolfBehavior) ChaseAbandonMultiplier() float64 { return config.ChaseAbandonDefaultMultiplier }
