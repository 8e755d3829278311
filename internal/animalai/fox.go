package animalai

import (
	"math/rand"
	"time"

	"survivalcore/internal/config"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// foxBehavior is CinderFox (§4.4.2): a hit-and-run skirmisher, the
// species the taming system's example dialogue ("Species that return
// can_be_tamed()=true") is grounded against — species-specific taming
// foods are not recoverable from the pack (fox.rs wasn't retrieved), so
// the whitelist below is a documented judgment call.
type foxBehavior struct{}

const foxCorneredDistance = 240.0

func (foxBehavior) Stats() Stats {
	return Stats{
		MaxHealth:            60,
		AttackDamage:         12,
		AttackRange:          48,
		AttackCooldown:       900 * time.Millisecond,
		MovementSpeed:        90,
		SprintSpeed:          210,
		PerceptionRange:      260,
		PerceptionAngle:      140,
		PatrolRadius:         300,
		ChaseTriggerRange:    240,
		FleeTriggerHealthPct: 0.35,
	}
}

func (foxBehavior) MovementPattern() MovementPattern { return PatternWander }

func (foxBehavior) FleeDistance() float64      { return 640 }
func (foxBehavior) KnockbackDistance() float64 { return config.AnimalFoxKnockback }

func (foxBehavior) ExecuteAttackEffects(w *store.World, rng *rand.Rand, animal *model.WildAnimal, target *model.Player, now time.Time) float64 {
	stats := foxBehavior{}.Stats()
	return stats.AttackDamage
}

// UpdateAIStateLogic: chase a detected player within range, else patrol.
func (f foxBehavior) UpdateAIStateLogic(w *store.World, rng *rand.Rand, animal *model.WildAnimal, detected *model.Player, now time.Time) {
	if detected == nil {
		if animal.State == model.StateChasing || animal.State == model.StateAttacking {
			transitionTo(animal, model.StatePatrolling, now, nil)
		}
		return
	}
	dPos := model.Vec2{X: detected.X, Y: detected.Y}
	if f.ShouldChasePlayer(animal, detected) {
		id := detected.Identity
		transitionTo(animal, model.StateChasing, now, &id)
		return
	}
	if isCornered(animal, dPos, foxCorneredDistance) {
		id := detected.Identity
		transitionTo(animal, model.StateChasing, now, &id)
	}
}

func (f foxBehavior) ExecuteFleeLogic(animal *model.WildAnimal, dt float64, now time.Time, rng *rand.Rand) {
	executeStandardFlee(animal, f.Stats(), dt, now, 3*time.Second, rng)
}

func (f foxBehavior) ExecutePatrolLogic(animal *model.WildAnimal, dt float64, rng *rand.Rand) {
	stats := f.Stats()
	executeWander(animal, stats, dt, rng)
}

func (f foxBehavior) ShouldChasePlayer(animal *model.WildAnimal, player *model.Player) bool {
	stats := f.Stats()
	d := model.Vec2{X: player.X, Y: player.Y}.Sub(model.Vec2{X: animal.X, Y: animal.Y}).Length()
	return d <= stats.ChaseTriggerRange
}

func (foxBehavior) CanBeTamed() bool { return true }

func (foxBehavior) TamingFoods() []string { return []string{"Cooked Meat", "Raw Meat"} }

func (foxBehavior) ChaseAbandonMultiplier() float64 { return config.ChaseAbandonDefaultMultiplier }

// executeHitAndRun implements the fox's post-attack behavior (§4.4.2
// "Hit-and-run (fox): after attack, jump back ~80 px and flee if target
// is healthy/moderate; stay aggressive on weak targets").
func executeHitAndRun(animal *model.WildAnimal, targetPos model.Vec2, targetHealthPct float64, now time.Time) {
	away := model.Vec2{X: animal.X, Y: animal.Y}.Sub(targetPos)
	if away.LengthSquared() < 0.0001 {
		away = model.Vec2{X: -1, Y: 0}
	} else {
		away = away.Normalized()
	}
	animal.X += away.X * 80
	animal.Y += away.Y * 80
	clampToWorldBounds(animal)

	if targetHealthPct > 0.3 {
		transitionTo(animal, model.StateFleeing, now, nil)
		dest := model.Vec2{X: animal.X, Y: animal.Y}.Add(away.Scale(200))
		animal.InvestigationPos = &dest
	}
}
