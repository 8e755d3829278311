package deployable

import (
	"time"

	"survivalcore/internal/store"
)

// Tick implements the periodic resource-respawn scan (§6.3
// check_resource_respawns): un-deplete every tree/stone whose
// respawn_at has elapsed, and drain the grass/mushroom/crop respawn
// gate. Matches internal/animalai.Tick and internal/projectile.Tick's
// shape — a plain function driven by cmd/server's own ticker loop,
// rather than a per-entity Scheduler row, since this is a single
// global sweep run on a fixed cadence
// (config.ResourceRespawnScanIntervalSecs) rather than something that
// needs independent per-row scheduling the way a campfire's fuel burn
// does.
//
// Trees and stones get full health restored, matching
// original_source/server/src/environment.rs's check_resource_respawns;
// grass has no health field and mushroom/crop have no max-health field
// to restore to on this side, so (matching
// the original's mushroom/corn/potato/pumpkin/hemp/reed branches,
// which only clear respawn_at with no health reset) only the
// respawn_at gate is cleared for them.
func Tick(w *store.World, now time.Time) {
	for _, t := range w.Trees.All() {
		if t.RespawnAt != nil && !now.Before(*t.RespawnAt) {
			t.Health = t.MaxHealth
			t.RespawnAt = nil
		}
	}
	for _, s := range w.Stones.All() {
		if s.RespawnAt != nil && !now.Before(*s.RespawnAt) {
			s.Health = s.MaxHealth
			s.RespawnAt = nil
		}
	}
	for _, g := range w.Grass.All() {
		if g.RespawnAt != nil && !now.Before(*g.RespawnAt) {
			g.RespawnAt = nil
		}
	}
	for _, m := range w.Mushrooms.All() {
		if m.RespawnAt != nil && !now.Before(*m.RespawnAt) {
			m.RespawnAt = nil
		}
	}
	for _, c := range w.Crops.All() {
		if c.RespawnAt != nil && !now.Before(*c.RespawnAt) {
			c.RespawnAt = nil
		}
	}
}
