package combat

import (
	"time"

	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// CheckCadence implements §4.2.4: a swing is rejected if less than
// intervalSecs has elapsed since the attacker's last recorded attack
// with this item. intervalSecs<=0 means the item has no cadence gate
// (§4.3's reload_time_secs reuses this same table for ranged weapons).
func CheckCadence(w *store.World, attacker model.Identity, itemDefID uint64, intervalSecs float64, now time.Time) error {
	if intervalSecs <= 0 {
		return nil
	}
	last, ok := w.LastAttack.Get(store.LastAttackKey{Attacker: attacker, ItemDefID: itemDefID})
	if !ok {
		return nil
	}
	if now.Sub(time.Unix(0, last)).Seconds() < intervalSecs {
		return fail(ErrValidation, "Attacking too quickly")
	}
	return nil
}

// RecordAttack stamps the attacker's last-attack time for this item,
// gating the next CheckCadence call.
func RecordAttack(w *store.World, attacker model.Identity, itemDefID uint64, now time.Time) {
	w.LastAttack.Insert(store.LastAttackKey{Attacker: attacker, ItemDefID: itemDefID}, now.UnixNano())
}
