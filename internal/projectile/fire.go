package projectile

import (
	"math/rand"
	"time"

	"survivalcore/internal/combat"
	"survivalcore/internal/config"
	"survivalcore/internal/deployable"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// ErrNotReady, ErrTooSoon, ErrShelterBlocked are the reject reasons
// named by §4.3's "Firing constraints".
var (
	ErrNotReady          = combat.ValidationError("Weapon is not ready to fire")
	ErrTooSoon           = combat.ValidationError("Reloading")
	ErrShelterBlocked    = combat.ValidationError("Cannot fire from inside your own shelter at a target outside it")
	ErrTooCloseToShelter = combat.ValidationError("Too close to a shelter to fire")
	ErrOutOfAmmo         = combat.ValidationError("Out of ammo")
)

// Fire implements §4.3's firing constraints and spawns the Projectile
// row: weapon must be loaded, reload_time_secs gates cadence via the
// same last-attack table melee cadence uses, firing from inside one's
// own shelter at an outside target is rejected, firing within
// MinFiringDistanceFromShelter of another shelter is rejected, one unit
// of ammo is consumed, and the solver picks a velocity aimed at
// targetPos.
func Fire(w *store.World, rng *rand.Rand, now time.Time, shooter model.Identity, targetPos model.Vec2) (*model.Projectile, error) {
	shooterRow, ok := w.Players.Get(shooter)
	if !ok {
		return nil, combat.ValidationError("Shooter not found")
	}
	eq, ok := w.ActiveEquipment.Get(shooter)
	if !ok || eq.EquippedItemDefID == nil {
		return nil, ErrNotReady
	}
	weaponDef, ok := w.ItemDefinitions.Get(*eq.EquippedItemDefID)
	if !ok || weaponDef.Category != model.CategoryRangedWeapon {
		return nil, ErrNotReady
	}
	if !eq.IsReadyToFire || eq.LoadedAmmoDefID == nil {
		return nil, ErrNotReady
	}
	if err := combat.CheckCadence(w, shooter, weaponDef.ID, weaponDef.ReloadTimeSecs, now); err != nil {
		return nil, ErrTooSoon
	}

	shooterPos := model.Vec2{X: shooterRow.X, Y: shooterRow.Y}
	if !deployable.AttackAllowedFromInsideShelter(w, shooter, shooterPos, targetPos) {
		return nil, ErrShelterBlocked
	}
	if d := deployable.NearestShelterDistanceAlongLine(w, shooter, shooterPos); d >= 0 && d < config.MinFiringDistanceFromShelter {
		return nil, ErrTooCloseToShelter
	}

	ammoDefID := *eq.LoadedAmmoDefID
	if _, ok := w.ItemDefinitions.Get(ammoDefID); !ok {
		return nil, ErrOutOfAmmo
	}
	if !consumeAmmo(w, shooter, ammoDefID) {
		return nil, ErrOutOfAmmo
	}

	// k=0 for crossbow bolts and thrown weapons, k=1 otherwise (§4.3
	// step 1): the weapon definition is the single source of truth,
	// since a weapon's gravity affinity does not vary by loaded ammo.
	gravityAffected := weaponDef.GravityAffected
	vx, vy, err := SolveVelocity(shooterPos, targetPos, weaponDef.ProjectileSpeed, gravityAffected)
	if err != nil {
		return nil, err
	}

	gravityK := 0.0
	if gravityAffected {
		gravityK = 1.0
	}

	p := &model.Projectile{
		ID:          w.Projectiles.NextAutoIncrement(),
		Owner:       shooter,
		WeaponDefID: weaponDef.ID,
		AmmoDefID:   ammoDefID,
		StartTime:   now,
		StartX:      shooterPos.X,
		StartY:      shooterPos.Y,
		VelocityX:   vx,
		VelocityY:   vy,
		MaxRange:    weaponDef.ProjectileSpeed * config.ProjectileHardCapSecs,
		GravityK:    gravityK,
	}
	w.Projectiles.Insert(p.ID, p)
	combat.RecordAttack(w, shooter, weaponDef.ID, now)
	return p, nil
}

// consumeAmmo deducts one unit of ammoDefID from the shooter's
// inventory/hotbar, deleting the stack on exhaustion (§4.3 "Consume
// one unit of ammo ... on exhaustion the instance is deleted").
func consumeAmmo(w *store.World, shooter model.Identity, ammoDefID uint64) bool {
	var found *model.InventoryItem
	w.InventoryItems.Each(func(_ uint64, it *model.InventoryItem) bool {
		if it.ItemDefID == ammoDefID && it.Location.IsPlayerHeld(shooter) {
			found = it
			return false
		}
		return true
	})
	if found == nil {
		return false
	}
	found.Quantity--
	if found.Quantity <= 0 {
		w.InventoryItems.Delete(found.InstanceID)
	}
	return true
}
