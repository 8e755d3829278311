package animalai

import (
	"math/rand"
	"time"

	"survivalcore/internal/config"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// viperBehavior is CableViper (§4.4.2, §4.4.3): 360-degree perception,
// no cone test, with a venom bleed applied on hit (§4.4.6).
type viperBehavior struct{}

func (viperBehavior) Stats() Stats {
	return Stats{
		MaxHealth:            45,
		AttackDamage:         9,
		AttackRange:          40,
		AttackCooldown:       1300 * time.Millisecond,
		MovementSpeed:        70,
		SprintSpeed:          160,
		PerceptionRange:      220,
		PerceptionAngle:      360,
		PatrolRadius:         180,
		ChaseTriggerRange:    350,
		FleeTriggerHealthPct: 0.40,
	}
}

func (viperBehavior) MovementPattern() MovementPattern { return PatternFigureEight }

func (viperBehavior) FleeDistance() float64      { return 500 }
func (viperBehavior) KnockbackDistance() float64 { return config.AnimalViperKnockback }

// VenomBleed is the bleed profile applied on a successful viper bite
// (§4.4.6 "viper applies venom via a Bleed/Burn-like effect"),
// expressed with the same BleedDef shape weapons use (§4.2.3) so
// callers can drive it through the existing effect-ticking machinery.
var VenomBleed = model.BleedDef{
	DamagePerTick: 2,
	Duration:      6 * time.Second,
	Interval:      time.Second,
}

func (v viperBehavior) ExecuteAttackEffects(world *store.World, rng *rand.Rand, animal *model.WildAnimal, target *model.Player, now time.Time) float64 {
	stats := v.Stats()
	return stats.AttackDamage
}

func (v viperBehavior) UpdateAIStateLogic(world *store.World, rng *rand.Rand, animal *model.WildAnimal, detected *model.Player, now time.Time) {
	stats := v.Stats()
	if detected == nil {
		if animal.State == model.StateChasing || animal.State == model.StateAttacking || animal.State == model.StateInvestigating {
			transitionTo(animal, model.StatePatrolling, now, nil)
		}
		return
	}
	dPos := model.Vec2{X: detected.X, Y: detected.Y}
	if v.ShouldChasePlayer(animal, detected) {
		id := detected.Identity
		transitionTo(animal, model.StateInvestigating, now, &id)
		dist := model.Vec2{X: animal.X, Y: animal.Y}.Sub(dPos).Length()
		strafeAngle := (rng.Float64() - 0.5) * 2
		dir := dPos.Sub(model.Vec2{X: animal.X, Y: animal.Y})
		if dir.LengthSquared() > 0.0001 {
			dir = dir.Normalized()
		}
		perp := model.Vec2{X: -dir.Y, Y: dir.X}.Scale(strafeAngle * 40)
		strafeTarget := model.Vec2{X: animal.X, Y: animal.Y}.Add(dir.Scale(dist * 0.5)).Add(perp)
		animal.InvestigationPos = &strafeTarget
	}
	if canAttack(animal, stats, now) && (model.Vec2{X: animal.X, Y: animal.Y}).Sub(dPos).Length() <= stats.AttackRange {
		id := detected.Identity
		transitionTo(animal, model.StateChasing, now, &id)
	}
}

func (v viperBehavior) ExecuteFleeLogic(animal *model.WildAnimal, dt float64, now time.Time, rng *rand.Rand) {
	executeStandardFlee(animal, v.Stats(), dt, now, 3*time.Second, rng)
}

func (v viperBehavior) ExecutePatrolLogic(animal *model.WildAnimal, dt float64, rng *rand.Rand) {
	executeWander(animal, v.Stats(), dt, rng)
}

func (v viperBehavior) ShouldChasePlayer(animal *model.WildAnimal, player *model.Player) bool {
	stats := v.Stats()
	d := model.Vec2{X: player.X, Y: player.Y}.Sub(model.Vec2{X: animal.X, Y: animal.Y}).Length()
	return d <= stats.ChaseTriggerRange
}

func (viperBehavior) CanBeTamed() bool          { return false }
func (viperBehavior) TamingFoods() []string     { return nil }
func (viperBehavior) ChaseAbandonMultiplier() float64 { return config.ChaseAbandonDefaultMultiplier }
