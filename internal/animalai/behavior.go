// Package animalai implements the wild-animal AI tick (§4.4): a single
// scheduled reducer sweeps every live WildAnimal row, advancing its FSM,
// its pack membership (wolves), and its taming progress, then resolves
// attacks and movement for the tick.
//
// Grounded on original_source/server/src/wild_animal_npc/core.rs's
// AnimalBehavior trait and AnimalBehaviorEnum dispatcher, translated to
// a Go interface + a switch-based ForSpecies lookup (the idiomatic substitute
// for a Rust enum-of-structs dispatch table), generalizing the teacher
// repo's per-command handler-map pattern in internal/commands.
package animalai

import (
	"math/rand"
	"time"

	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// Stats is the per-species numeric profile a Behavior reports (§4.4.2:
// "each providing: stats (health, damage, ranges, speeds, perception)").
//
// Exact figures are not recoverable from the distilled spec or from
// original_source (species-specific files such as fox.rs/wolf.rs were
// not included in the retrieval pack — only the shared core.rs was).
// The numbers below are an invented, internally-consistent balance
// pass documented here as a judgment call rather than a grounded fact.
type Stats struct {
	MaxHealth     float64
	AttackDamage  float64
	AttackRange   float64
	AttackCooldown time.Duration

	MovementSpeed float64
	SprintSpeed   float64

	PerceptionRange float64
	PerceptionAngle float64 // degrees; >=360 means omnidirectional

	PatrolRadius          float64
	ChaseTriggerRange     float64
	FleeTriggerHealthPct  float64
}

// Behavior is the per-species strategy interface (§4.4.2).
type Behavior interface {
	Stats() Stats
	MovementPattern() MovementPattern

	// ExecuteAttackEffects applies species-specific attack effects and
	// returns the damage dealt (§4.4.6).
	ExecuteAttackEffects(w *store.World, rng *rand.Rand, animal *model.WildAnimal, target *model.Player, now time.Time) float64

	// UpdateAIStateLogic runs the species' own state-transition logic
	// once the shared mandatory transitions (low health, fire fear) have
	// been ruled out (§4.4.2).
	UpdateAIStateLogic(w *store.World, rng *rand.Rand, animal *model.WildAnimal, detected *model.Player, now time.Time)

	// ExecuteFleeLogic advances a Fleeing animal toward its flee
	// destination, returning to Patrolling once it arrives or times out.
	ExecuteFleeLogic(animal *model.WildAnimal, dt float64, now time.Time, rng *rand.Rand)

	// ExecutePatrolLogic advances a Patrolling animal along its
	// MovementPattern.
	ExecutePatrolLogic(animal *model.WildAnimal, dt float64, rng *rand.Rand)

	ShouldChasePlayer(animal *model.WildAnimal, player *model.Player) bool

	CanBeTamed() bool
	TamingFoods() []string

	// ChaseAbandonMultiplier reports the species' chase-abandon factor
	// relative to ChaseTriggerRange (§4.4.2, default 2.5x). No code in
	// this package reads it; chases end through UpdateAIStateLogic.
	ChaseAbandonMultiplier() float64

	// FleeDistance is how far the animal computes its flee destination
	// away from a fire source (§4.4.2 "species-dependent"); zero means
	// the species ignores fire (ArcticWalrus).
	FleeDistance() float64

	// KnockbackDistance is the species-specific post-hit player
	// knockback magnitude (§4.4.6).
	KnockbackDistance() float64
}

// MovementPattern mirrors the teacher source's Loop/Wander/FigureEight
// patrol shapes (§4.4.2).
type MovementPattern int

const (
	PatternLoop MovementPattern = iota
	PatternWander
	PatternFigureEight
)

// ForSpecies returns the Behavior implementation for a species.
func ForSpecies(s model.Species) Behavior {
	switch s {
	case model.SpeciesCinderFox:
		return foxBehavior{}
	case model.SpeciesTundraWolf:
		return wolfBehavior{}
	case model.SpeciesCableViper:
		return viperBehavior{}
	case model.SpeciesArcticWalrus:
		return walrusBehavior{}
	default:
		return foxBehavior{}
	}
}
