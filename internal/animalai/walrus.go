package animalai

import (
	"math/rand"
	"time"

	"survivalcore/internal/config"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// walrusBehavior is ArcticWalrus (§4.4.2): ignores fire entirely
// (FleeDistance returns 0) and hits hardest, with the largest
// knockback of the four species (§4.4.6).
type walrusBehavior struct{}

func (walrusBehavior) Stats() Stats {
	return Stats{
		MaxHealth:            260,
		AttackDamage:         26,
		AttackRange:          64,
		AttackCooldown:       1600 * time.Millisecond,
		MovementSpeed:        55,
		SprintSpeed:          120,
		PerceptionRange:      200,
		PerceptionAngle:      180,
		PatrolRadius:         220,
		ChaseTriggerRange:    260,
		FleeTriggerHealthPct: 0.15,
	}
}

func (walrusBehavior) MovementPattern() MovementPattern { return PatternLoop }

// FleeDistance is 0: walruses ignore fire (§4.4.2 "ArcticWalrus => 0.0
// // Walruses ignore fire").
func (walrusBehavior) FleeDistance() float64      { return 0 }
func (walrusBehavior) KnockbackDistance() float64 { return config.AnimalWalrusKnockback }

func (w walrusBehavior) ExecuteAttackEffects(world *store.World, rng *rand.Rand, animal *model.WildAnimal, target *model.Player, now time.Time) float64 {
	return w.Stats().AttackDamage
}

func (w walrusBehavior) UpdateAIStateLogic(world *store.World, rng *rand.Rand, animal *model.WildAnimal, detected *model.Player, now time.Time) {
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

// ExecuteFleeLogic: walruses "barely flee (defensive positioning
// only)" in the teacher source; a short 1s flee window is kept for the
// mandatory low-health flee transition even though FleeDistance is 0
// for the fire-fear path.
func (w walrusBehavior) ExecuteFleeLogic(animal *model.WildAnimal, dt float64, now time.Time, rng *rand.Rand) {
	executeStandardFlee(animal, w.Stats(), dt, now, 1*time.Second, rng)
}

func (w walrusBehavior) ExecutePatrolLogic(animal *model.WildAnimal, dt float64, rng *rand.Rand) {
	executeWander(animal, w.Stats(), dt, rng)
}

func (w walrusBehavior) ShouldChasePlayer(animal *model.WildAnimal, player *model.Player) bool {
	stats := w.Stats()
	d := model.Vec2{X: player.X, Y: player.Y}.Sub(model.Vec2{X: animal.X, Y: animal.Y}).Length()
	return d <= stats.ChaseTriggerRange
}

func (walrusBehavior) CanBeTamed() bool          { return false }
func (walrusBehavior) TamingFoods() []string     { return nil }
func (walrusBehavior) ChaseAbandonMultiplier() float64 { return config.ChaseAbandonDefaultMultiplier }
