package movement

import (
	"math"
	"time"

	"survivalcore/internal/config"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// StartDodgeRoll implements dodge_roll(mx,my) (§4.5.3): begins a roll
// toward the normalized input direction if the player is eligible and
// off cooldown. moveX/moveY are the same raw input axes
// update_player_position takes, not a mouse position (the spec's
// dodge_roll(mx,my) naming is about aim/input direction, not a click
// target, matching toggle_crouch()/set_sprinting() taking no mouse
// coordinate either).
func StartDodgeRoll(w *store.World, now time.Time, identity model.Identity, moveX, moveY float64) error {
	p, ok := w.Players.Get(identity)
	if !ok {
		return fail(ErrNotFound, "player not found")
	}
	if p.IsDead || p.IsKnockedOut || p.IsCrouching || p.OnWater {
		return fail(ErrValidation, "cannot dodge roll in this state")
	}
	if now.Sub(p.LastDodgeTime).Seconds() < config.DodgeRollCooldownS {
		return fail(ErrValidation, "dodge roll on cooldown")
	}
	input := model.Vec2{X: moveX, Y: moveY}.Normalized()
	if input.LengthSquared() == 0 {
		return fail(ErrValidation, "dodge roll requires a movement direction")
	}

	start := model.Vec2{X: p.X, Y: p.Y}
	target := start.Add(input.Scale(config.DodgeRollDistance))

	w.DodgeRolls.Insert(identity, &model.DodgeRoll{
		Player:        identity,
		StartTimeMS:   now.UnixMilli(),
		StartPos:      start,
		TargetPos:     target,
		Direction:     model.DirectionToString(input),
		LastDodgeTime: p.LastDodgeTime,
	})
	p.LastDodgeTime = now
	p.Direction = model.DirectionToString(input)
	return nil
}

// advanceDodgeRoll implements the per-tick roll advancement (§4.5.3):
// an eased lerp from start to target, clamped and push-out-resolved,
// with facing locked to the roll's direction. Called from
// UpdatePlayerPosition once a roll row exists for the player, since
// the spec frames the roll as superseding ordinary movement input
// rather than as its own separately-ticked reducer.
func advanceDodgeRoll(w *store.World, now time.Time, roll *model.DodgeRoll, p *model.Player) {
	elapsedMs := now.UnixMilli() - roll.StartTimeMS
	if elapsedMs >= config.DodgeRollDurationMS {
		w.DodgeRolls.Delete(roll.Player)
		return
	}

	progress := float64(elapsedMs) / float64(config.DodgeRollDurationMS)
	eased := 1 - math.Pow(1-progress, 3)

	pos := roll.StartPos.Add(roll.TargetPos.Sub(roll.StartPos).Scale(eased))
	radius := EffectivePlayerRadius(p)
	pos = clampToWorld(pos, radius)
	pos = pushOut(pos, radius, walkObstacles(w, roll.Player))

	p.X, p.Y = pos.X, pos.Y
	p.Direction = roll.Direction
}
