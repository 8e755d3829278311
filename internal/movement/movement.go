// Package movement implements the two player-position reducers
// (§4.5.1/§4.5.2), the dodge-roll override (§4.5.3), and facing-
// direction resolution (§4.5.4), plus the collision-aware push
// resolver internal/combat and internal/projectile call back into for
// knockback.
//
// Grounded on the teacher's Player.ResolveCollisions spatial-grid
// push-apart pattern (internal/game/player.go), generalized from
// player-vs-player only to the full obstacle set the spec names, and
// on original_source/server/src/player_movement.rs's constant/helper
// imports where the reducer bodies themselves were not retrieved.
package movement

import (
	"time"

	"survivalcore/internal/config"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// IsPlayerJumping reports whether p is within the jump's water-speed-
// penalty bypass window (§4.5.1 step 2's "water(...and not jumping)").
func IsPlayerJumping(p *model.Player, now time.Time) bool {
	if p.JumpStartTimeMs == 0 {
		return false
	}
	elapsed := now.UnixMilli() - p.JumpStartTimeMs
	return elapsed >= 0 && elapsed < config.JumpWaterBypassMS
}

// EffectiveSpeed implements §4.5.1 step 2's speed-modifier chain.
func EffectiveSpeed(p *model.Player, now time.Time) float64 {
	speed := config.PlayerSpeed
	if p.IsSprinting && p.Stamina > 0 {
		speed *= config.SprintMultiplier
	}
	if p.IsKnockedOut {
		speed *= config.KnockedOutSpeedFactor
	}
	if p.IsCrouching {
		speed *= config.CrouchSpeedFactor
	}
	if p.OnWater && !IsPlayerJumping(p, now) {
		speed *= config.WaterSpeedFactor
	}
	if p.Thirst < config.LowThirstThreshold {
		speed *= config.LowThirstSpeedFactor
	}
	if p.Warmth < config.LowWarmthThreshold {
		speed *= config.LowWarmthSpeedFactor
	}
	return speed
}

// EffectivePlayerRadius is the radius world-bounds clamping uses
// (§4.5.1 step 4's "effective_radius(crouching)"). The pack only
// surfaces the helper's name (get_effective_player_radius, imported
// but not defined in the retrieved player_movement.rs), with no
// numeric crouch reduction named anywhere in the spec, so crouching is
// treated as not changing the bounds radius — a judgment call, not a
// recovered figure.
func EffectivePlayerRadius(p *model.Player) float64 {
	return config.PlayerRadius
}

// UpdatePlayerPosition implements the server-authoritative movement
// reducer (§4.5.1). moveX/moveY are the raw {-1,0,1} input axes.
func UpdatePlayerPosition(w *store.World, now time.Time, identity model.Identity, moveX, moveY float64) error {
	p, ok := w.Players.Get(identity)
	if !ok {
		return fail(ErrNotFound, "player not found")
	}
	if p.IsDead {
		return fail(ErrValidation, "cannot move while dead")
	}

	// Step 7: an active dodge roll supersedes ordinary movement.
	if roll, ok := w.DodgeRolls.Get(identity); ok {
		advanceDodgeRoll(w, now, roll, p)
		return nil
	}

	dt := now.Sub(p.LastUpdate).Seconds()
	if dt < 0 {
		dt = 0
	}
	if dt > 0.05 {
		dt = 0.05
	}
	p.LastUpdate = now

	move := model.Vec2{X: moveX, Y: moveY}.Normalized()
	if move.LengthSquared() > 0 {
		p.LastMoveInputTime = now
		p.Direction = model.DirectionToString(move)
	}
	speed := EffectiveSpeed(p, now)
	radius := EffectivePlayerRadius(p)

	proposed := model.Vec2{X: p.X, Y: p.Y}.Add(move.Scale(speed * dt))
	proposed = clampToWorld(proposed, radius)

	obstacles := walkObstacles(w, identity)
	moved := slide(model.Vec2{X: p.X, Y: p.Y}, proposed, radius, obstacles)
	moved = pushOut(moved, radius, obstacles)
	moved = clampToWorld(moved, radius)

	p.X, p.Y = moved.X, moved.Y

	if p.OnWater && p.IsCrouching {
		p.IsCrouching = false
	}

	return nil
}

// ResolveKnockback builds a internal/combat.ResolvePush-compatible
// closure: a proposed knockback/recoil position is clamped to world
// bounds and pushed out of the knockback obstacle set (§4.5.1 step 5's
// "solid for knockback reversion" list). The closure captures the
// obstacle set once so a single attack's knockback and recoil calls
// share a consistent view of the world.
func ResolveKnockback(w *store.World, self model.Identity) func(from, proposed model.Vec2) (model.Vec2, bool) {
	obstacles := knockbackObstacles(w, self)
	const radius = config.PlayerRadius
	return func(from, proposed model.Vec2) (model.Vec2, bool) {
		clamped := clampToWorld(proposed, radius)
		resolved := pushOut(clamped, radius, obstacles)
		if resolved != clamped {
			return from, false
		}
		return resolved, true
	}
}

// Jump starts the brief on-water speed-penalty bypass window (§4.5.1
// step 2, jump() in the movement reducer list).
func Jump(w *store.World, now time.Time, identity model.Identity) error {
	p, ok := w.Players.Get(identity)
	if !ok {
		return fail(ErrNotFound, "player not found")
	}
	p.JumpStartTimeMs = now.UnixMilli()
	return nil
}

// SetSprinting implements the set_sprinting(bool) reducer.
func SetSprinting(w *store.World, identity model.Identity, sprinting bool) error {
	p, ok := w.Players.Get(identity)
	if !ok {
		return fail(ErrNotFound, "player not found")
	}
	p.IsSprinting = sprinting
	return nil
}

// ToggleCrouch implements the toggle_crouch() reducer.
func ToggleCrouch(w *store.World, identity model.Identity) error {
	p, ok := w.Players.Get(identity)
	if !ok {
		return fail(ErrNotFound, "player not found")
	}
	p.IsCrouching = !p.IsCrouching
	return nil
}
