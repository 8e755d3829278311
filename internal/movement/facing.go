package movement

import (
	"math"
	"time"

	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// recentMovementWindow is the §4.5.4 "moved within the last 100ms"
// guard that keeps a stationary mouse from flipping facing while the
// player is actively walking.
const recentMovementWindow = 100 * time.Millisecond

// UpdatePlayerFacingDirection implements update_player_facing_direction
// (§4.5.4): if the player moved recently, movement already set facing
// and the mouse position is ignored; otherwise facing follows the
// dominant axis of (mouseWorldPos - player). Suppressed entirely
// during a dodge roll, whose direction is locked for the roll's
// duration (§4.5.3).
func UpdatePlayerFacingDirection(w *store.World, now time.Time, identity model.Identity, mouseWorldPos model.Vec2) error {
	p, ok := w.Players.Get(identity)
	if !ok {
		return fail(ErrNotFound, "player not found")
	}
	if _, rolling := w.DodgeRolls.Get(identity); rolling {
		return nil
	}
	if now.Sub(p.LastMoveInputTime) < recentMovementWindow {
		return nil
	}

	toMouse := mouseWorldPos.Sub(model.Vec2{X: p.X, Y: p.Y})
	if toMouse.LengthSquared() == 0 {
		return nil
	}
	if math.Abs(toMouse.Y) > math.Abs(toMouse.X) {
		if toMouse.Y < 0 {
			p.Direction = "up"
		} else {
			p.Direction = "down"
		}
	} else if toMouse.X < 0 {
		p.Direction = "left"
	} else {
		p.Direction = "right"
	}
	return nil
}
