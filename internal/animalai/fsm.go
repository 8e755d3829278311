package animalai

import (
	"math"
	"math/rand"
	"time"

	"survivalcore/internal/config"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// directionVec converts an animal's facing (radians) to a unit vector.
func directionVec(a *model.WildAnimal) model.Vec2 {
	return model.Vec2{X: math.Cos(a.Direction), Y: math.Sin(a.Direction)}
}

func facePoint(a *model.WildAnimal, target model.Vec2) {
	d := target.Sub(model.Vec2{X: a.X, Y: a.Y})
	if d.LengthSquared() < 0.0001 {
		return
	}
	a.Direction = math.Atan2(d.Y, d.X)
}

// transitionTo changes an animal's state, stamping StateChangeTime and
// updating TargetPlayer, and clears FireFearOverriddenBy on a return to
// Patrolling (§4.4.2 "Returning to Patrolling clears
// fire_fear_overridden_by").
func transitionTo(a *model.WildAnimal, state model.AnimalState, now time.Time, target *model.Identity) {
	a.State = state
	a.StateChangeTime = now
	a.TargetPlayer = target
	if state == model.StatePatrolling {
		a.FireFearOverriddenBy = nil
	}
}

// setFleeDestination computes a flee destination directly away from a
// threat position, at distance fleeDistance, with a small random spread
// so multiple fleeing animals don't stack (§4.4.2).
func setFleeDestination(a *model.WildAnimal, threat model.Vec2, fleeDistance float64, rng *rand.Rand) {
	away := model.Vec2{X: a.X, Y: a.Y}.Sub(threat)
	if away.LengthSquared() < 0.0001 {
		angle := rng.Float64() * 2 * math.Pi
		away = model.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
	} else {
		away = away.Normalized()
	}
	jitter := (rng.Float64() - 0.5) * 0.5 // +/- ~14 degrees
	cos, sin := math.Cos(jitter), math.Sin(jitter)
	away = model.Vec2{X: away.X*cos - away.Y*sin, Y: away.X*sin + away.Y*cos}
	dest := model.Vec2{X: a.X, Y: a.Y}.Add(away.Scale(fleeDistance))
	a.InvestigationPos = &dest
}

// isWithinPerceptionCone implements §4.4.3's angle test; >=360 degrees
// (vipers) always passes.
func isWithinPerceptionCone(a *model.WildAnimal, playerPos model.Vec2, angleDeg float64) bool {
	if angleDeg >= 360 {
		return true
	}
	toPlayer := playerPos.Sub(model.Vec2{X: a.X, Y: a.Y})
	if toPlayer.LengthSquared() < 0.0001 {
		return true
	}
	dot := directionVec(a).Dot(toPlayer.Normalized())
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	angle := math.Acos(dot)
	return angle <= (angleDeg*math.Pi/180)/2
}

// detectPlayer implements §4.4.3: distance <= perception_range (halved
// if crouching) and within the perception cone (vipers always pass).
func detectPlayer(a *model.WildAnimal, stats Stats, species model.Species, candidates []*model.Player) *model.Player {
	for _, p := range candidates {
		perceptionRange := stats.PerceptionRange
		if p.IsCrouching {
			perceptionRange *= 0.5
		}
		d := model.Vec2{X: p.X, Y: p.Y}.Sub(model.Vec2{X: a.X, Y: a.Y})
		if d.LengthSquared() > perceptionRange*perceptionRange {
			continue
		}
		if species == model.SpeciesCableViper || isWithinPerceptionCone(a, model.Vec2{X: p.X, Y: p.Y}, stats.PerceptionAngle) {
			return p
		}
	}
	return nil
}

// nearbyPlayers returns live players within 1.5x perception_range
// (§4.4.1 step 2), the candidate pool perception/cone checks narrow.
func nearbyPlayers(w *store.World, a *model.WildAnimal, stats Stats) []*model.Player {
	radius := stats.PerceptionRange * 1.5
	var out []*model.Player
	for _, p := range w.Players.All() {
		if p.IsDead {
			continue
		}
		d := model.Vec2{X: p.X, Y: p.Y}.Sub(model.Vec2{X: a.X, Y: a.Y})
		if d.LengthSquared() <= radius*radius {
			out = append(out, p)
		}
	}
	return out
}

// fireNearPos reports whether a burning, non-destroyed campfire is
// within radius of the given position. Lit torches are not considered.
func fireNearPos(w *store.World, pos model.Vec2, radius float64) bool {
	for _, c := range w.Campfires.All() {
		if !c.IsBurning || c.IsDestroyed {
			continue
		}
		if (model.Vec2{X: c.X, Y: c.Y}).Sub(pos).LengthSquared() <= radius*radius {
			return true
		}
	}
	return false
}

func closestFirePos(w *store.World, pos model.Vec2) (model.Vec2, bool) {
	var best model.Vec2
	bestDist := math.MaxFloat64
	found := false
	for _, c := range w.Campfires.All() {
		if !c.IsBurning || c.IsDestroyed {
			continue
		}
		p := model.Vec2{X: c.X, Y: c.Y}
		d := p.Sub(pos).LengthSquared()
		if d < bestDist {
			bestDist = d
			best = p
			found = true
		}
	}
	return best, found
}

// applyMandatoryTransitions implements §4.4.2's shared, non-overridable
// transitions: low-health flee, then fire fear with per-attacker
// override. Returns true if it took over the tick (caller should skip
// the species' own state logic).
func applyMandatoryTransitions(w *store.World, rng *rand.Rand, a *model.WildAnimal, stats Stats, beh Behavior, players []*model.Player, now time.Time) bool {
	healthPct := 0.0
	if stats.MaxHealth > 0 {
		healthPct = a.Health / stats.MaxHealth
	}
	if healthPct < stats.FleeTriggerHealthPct && a.State != model.StateFleeing {
		transitionTo(a, model.StateFleeing, now, nil)
		a.FireFearOverriddenBy = nil
		return true
	}

	fleeDistance := beh.FleeDistance()
	if fleeDistance <= 0 {
		return false
	}
	for _, p := range players {
		if !p.TorchLit {
			continue
		}
		if (model.Vec2{X: p.X, Y: p.Y}).Sub(model.Vec2{X: a.X, Y: a.Y}).LengthSquared() > config.TorchFearRadius*config.TorchFearRadius {
			continue
		}
		if a.FireFearOverriddenBy != nil && *a.FireFearOverriddenBy == p.Identity {
			continue
		}
		transitionTo(a, model.StateFleeing, now, nil)
		setFleeDestination(a, model.Vec2{X: p.X, Y: p.Y}, fleeDistance, rng)
		return true
	}
	if firePos, ok := closestFirePos(w, model.Vec2{X: a.X, Y: a.Y}); ok {
		if (model.Vec2{X: a.X, Y: a.Y}).Sub(firePos).LengthSquared() <= config.FireFearRadius*config.FireFearRadius {
			overridden := false
			if a.FireFearOverriddenBy != nil {
				for _, p := range w.Players.All() {
					if p.Identity == *a.FireFearOverriddenBy && !p.IsDead {
						nearPlayer := model.Vec2{X: a.X, Y: a.Y}.Sub(model.Vec2{X: p.X, Y: p.Y}).Length() <= 300
						nearFire := model.Vec2{X: p.X, Y: p.Y}.Sub(firePos).LengthSquared() <= config.FireFearRadius*config.FireFearRadius
						if nearPlayer && nearFire {
							overridden = true
						}
					}
				}
			}
			if !overridden {
				transitionTo(a, model.StateFleeing, now, nil)
				setFleeDestination(a, firePos, fleeDistance, rng)
				return true
			}
		}
	}
	return false
}

// canAttack gates an attack on the species' attack cooldown (§4.4.1
// step 6), mirroring internal/combat's cadence gate but keyed directly
// off the animal row rather than the shared LastAttack table, since
// animals aren't attackers in that table's (player, item) keyspace.
func canAttack(a *model.WildAnimal, stats Stats, now time.Time) bool {
	if a.LastAttackTime == nil {
		return true
	}
	return now.Sub(*a.LastAttackTime) >= stats.AttackCooldown
}

// isCornered implements the shared cornered check (§4.4.2): an animal
// that would otherwise flee still fights if the threat is within
// corneredDistance.
func isCornered(a *model.WildAnimal, threat model.Vec2, corneredDistance float64) bool {
	return model.Vec2{X: a.X, Y: a.Y}.Sub(threat).Length() <= corneredDistance
}

func clampToWorldBounds(a *model.WildAnimal) {
	world := config.DefaultWorld()
	if a.X < 0 {
		a.X = 0
	} else if a.X > world.WidthPx {
		a.X = world.WidthPx
	}
	if a.Y < 0 {
		a.Y = 0
	} else if a.Y > world.HeightPx {
		a.Y = world.HeightPx
	}
}

// moveTowards steps an animal toward (target) at speed px/sec over dt
// seconds, updating its facing.
func moveTowards(a *model.WildAnimal, target model.Vec2, speed, dt float64) {
	d := target.Sub(model.Vec2{X: a.X, Y: a.Y})
	dist := d.Length()
	if dist < 0.01 {
		return
	}
	facePoint(a, target)
	step := speed * dt
	if step >= dist {
		a.X, a.Y = target.X, target.Y
		return
	}
	dir := d.Scale(1 / dist)
	a.X += dir.X * step
	a.Y += dir.Y * step
}

// applyKnockback pushes a hit player away from the animal, clamped to
// world bounds (§4.4.6 "Common post-hit").
func applyKnockback(a *model.WildAnimal, target *model.Player, distance float64) {
	dir := model.Vec2{X: target.X, Y: target.Y}.Sub(model.Vec2{X: a.X, Y: a.Y})
	if dir.LengthSquared() < 0.0001 {
		dir = model.Vec2{X: 1, Y: 0}
	} else {
		dir = dir.Normalized()
	}
	world := config.DefaultWorld()
	target.X += dir.X * distance
	target.Y += dir.Y * distance
	if target.X < 0 {
		target.X = 0
	} else if target.X > world.WidthPx {
		target.X = world.WidthPx
	}
	if target.Y < 0 {
		target.Y = 0
	} else if target.Y > world.HeightPx {
		target.Y = world.HeightPx
	}
}
