package movement

import (
	"time"

	"survivalcore/internal/config"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// UpdatePlayerPositionSimple implements the client-authoritative
// movement reducer (§4.5.2): the client submits its own simulated
// position, and the server only rejects updates that look impossible
// rather than recomputing the position itself. Used for low-stakes,
// high-frequency position sync where full server-side simulation
// would be wasted work; update_player_position (§4.5.1) remains the
// path anything combat/collision-sensitive goes through.
func UpdatePlayerPositionSimple(w *store.World, now time.Time, identity model.Identity, x, y float64, clientTsMs int64, sprinting bool, facing string) error {
	p, ok := w.Players.Get(identity)
	if !ok {
		return fail(ErrNotFound, "player not found")
	}
	if p.IsDead {
		return fail(ErrValidation, "cannot move while dead")
	}

	if now.UnixMilli()-clientTsMs > int64(config.SimpleMoveStaleSecs*1000) {
		return fail(ErrValidation, "stale client timestamp")
	}

	radius := EffectivePlayerRadius(p)
	world := config.DefaultWorld()
	if x < radius || x > world.WidthPx-radius || y < radius || y > world.HeightPx-radius {
		return fail(ErrValidation, "position outside world bounds")
	}

	from := model.Vec2{X: p.X, Y: p.Y}
	proposed := model.Vec2{X: x, Y: y}
	delta := proposed.Sub(from).Length()

	if delta > config.MaxTeleportDistance {
		return fail(ErrValidation, "teleport distance exceeded")
	}

	elapsed := now.Sub(p.LastUpdate).Seconds()
	if elapsed >= config.SimpleMoveMinWindowS && delta > config.SimpleMoveMinPixels {
		maxSpeed := config.PlayerSpeed * config.SprintMultiplier * config.SimpleMoveSpeedMult
		if delta/elapsed > maxSpeed {
			return fail(ErrValidation, "movement speed exceeded")
		}
	}

	obstacles := walkObstacles(w, identity)
	resolved := pushOut(proposed, radius, obstacles)
	resolved = clampToWorld(resolved, radius)

	p.X, p.Y = resolved.X, resolved.Y
	p.LastUpdate = now
	p.IsSprinting = sprinting
	if facing != "" {
		p.Direction = facing
	}

	return nil
}
