package animalai

import (
	"math"
	"math/rand"
	"time"

	"survivalcore/internal/model"
)

// executeWander implements the shared "standard patrol" movement
// (§4.4.2 Loop/Wander/FigureEight patrol patterns collapse to the same
// wander-with-direction-jitter shape at this level of detail; species
// differ only in how often they change direction, mirroring
// maybe_change_patrol_direction's per-species chance table).
func executeWander(animal *model.WildAnimal, stats Stats, dt float64, rng *rand.Rand) {
	if rng.Float64() < patrolDirectionChangeChance(animal) {
		animal.Direction = rng.Float64() * 2 * math.Pi
	}
	dir := directionVec(animal)
	target := model.Vec2{X: animal.X, Y: animal.Y}.Add(dir.Scale(stats.MovementSpeed * dt))

	spawn := model.Vec2{X: animal.SpawnX, Y: animal.SpawnY}
	if target.Sub(spawn).Length() > stats.PatrolRadius {
		facePoint(animal, spawn)
		dir = directionVec(animal)
		target = model.Vec2{X: animal.X, Y: animal.Y}.Add(dir.Scale(stats.MovementSpeed * dt))
	}
	moveTowards(animal, target, stats.MovementSpeed, dt)
}

// patrolDirectionChangeChance mirrors the teacher's per-species table:
// foxes are skittish (18%), wolves purposeful (12%, 8% for alphas),
// vipers moderate (15%), walruses slow and deliberate (6%).
func patrolDirectionChangeChance(animal *model.WildAnimal) float64 {
	switch animal.Species {
	case model.SpeciesCinderFox:
		return 0.18
	case model.SpeciesTundraWolf:
		if animal.IsPackLeader {
			return 0.08
		}
		return 0.12
	case model.SpeciesCableViper:
		return 0.15
	case model.SpeciesArcticWalrus:
		return 0.06
	default:
		return 0.12
	}
}

// executeStandardFlee moves toward InvestigationPos at sprint speed and
// returns to Patrolling once within 50px or maxFleeTime has elapsed
// (§4.4.2's shared flee movement).
func executeStandardFlee(animal *model.WildAnimal, stats Stats, dt float64, now time.Time, maxFleeTime time.Duration, rng *rand.Rand) {
	if animal.InvestigationPos == nil {
		angle := rng.Float64() * 2 * math.Pi
		dest := model.Vec2{X: animal.X + math.Cos(angle) * 300, Y: animal.Y + math.Sin(angle) * 300}
		animal.InvestigationPos = &dest
	}
	target := *animal.InvestigationPos
	moveTowards(animal, target, stats.SprintSpeed, dt)

	distToTarget := target.Sub(model.Vec2{X: animal.X, Y: animal.Y}).Length()
	if distToTarget <= 50 || now.Sub(animal.StateChangeTime) > maxFleeTime {
		transitionTo(animal, model.StatePatrolling, now, nil)
		animal.InvestigationPos = nil
	}
}
