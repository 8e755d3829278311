package projectile_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survivalcore/internal/model"
	"survivalcore/internal/projectile"
	"survivalcore/internal/store"
)

const (
	crossbowDefID uint64 = 1
	boltDefID     uint64 = 2
	bowDefID      uint64 = 3
	arrowDefID    uint64 = 4
	spearThrowDefID uint64 = 5
)

func newTestWorld() *store.World {
	w := store.NewWorld(store.NewScheduler(0, 1))
	w.ItemDefinitions.Insert(crossbowDefID, &model.ItemDefinition{
		ID: crossbowDefID, Name: "Crossbow", Category: model.CategoryRangedWeapon,
		ProjectileSpeed: 800, GravityAffected: false, ReloadTimeSecs: 1,
	})
	w.ItemDefinitions.Insert(boltDefID, &model.ItemDefinition{
		ID: boltDefID, Name: "Bolt", Category: model.CategoryAmmunition,
		PvPDamage: &model.Range{Min: 40, Max: 40},
	})
	w.ItemDefinitions.Insert(bowDefID, &model.ItemDefinition{
		ID: bowDefID, Name: "Hunting Bow", Category: model.CategoryRangedWeapon,
		ProjectileSpeed: 500, GravityAffected: true, ReloadTimeSecs: 1,
		PvPDamage: &model.Range{Min: 10, Max: 10},
	})
	w.ItemDefinitions.Insert(arrowDefID, &model.ItemDefinition{
		ID: arrowDefID, Name: "Wooden Arrow", Category: model.CategoryAmmunition,
		PvPDamage: &model.Range{Min: 15, Max: 15},
	})
	w.ItemDefinitions.Insert(spearThrowDefID, &model.ItemDefinition{
		ID: spearThrowDefID, Name: "Throwing Spear", Category: model.CategoryWeapon,
		ProjectileSpeed: 600, GravityAffected: false,
		PvPDamage: &model.Range{Min: 25, Max: 25},
	})
	return w
}

func equip(w *store.World, owner model.Identity, weaponDefID, ammoDefID uint64) {
	w.Players.Insert(owner, &model.Player{Identity: owner, Health: 100, MaxHealth: 100})
	w.ActiveEquipment.Insert(owner, &model.ActiveEquipment{
		PlayerIdentity:    owner,
		EquippedItemDefID: &weaponDefID,
		IsReadyToFire:     true,
		LoadedAmmoDefID:   &ammoDefID,
	})
	ammo := &model.InventoryItem{
		InstanceID: w.InventoryItems.NextAutoIncrement(),
		ItemDefID:  ammoDefID,
		Quantity:   10,
		Location:   model.NewHotbarLocation(owner, 0),
	}
	w.InventoryItems.Insert(ammo.InstanceID, ammo)
}

func TestSolveVelocity_StraightLineForGravitylessWeapon(t *testing.T) {
	vx, vy, err := projectile.SolveVelocity(model.Vec2{X: 0, Y: 0}, model.Vec2{X: 100, Y: 0}, 800, false)
	require.NoError(t, err)
	assert.InDelta(t, 800, vx, 0.001)
	assert.InDelta(t, 0, vy, 0.001)
}

func TestSolveVelocity_GravityArcReachesTarget(t *testing.T) {
	vx, vy, err := projectile.SolveVelocity(model.Vec2{X: 0, Y: 0}, model.Vec2{X: 300, Y: 0}, 500, true)
	require.NoError(t, err)
	assert.Greater(t, vx, 0.0)
	assert.Less(t, vy, 0.0, "must angle upward (negative Y) to arc back down to a same-height target")
}

func TestSolveVelocity_UnreachableReturnsError(t *testing.T) {
	_, _, err := projectile.SolveVelocity(model.Vec2{X: 0, Y: 0}, model.Vec2{X: 100000, Y: 0}, 1, true)
	assert.ErrorIs(t, err, projectile.ErrUnreachable)
}

func TestFire_ConsumesOneAmmoAndCreatesProjectile(t *testing.T) {
	w := newTestWorld()
	equip(w, "alice", crossbowDefID, boltDefID)

	p, err := projectile.Fire(w, rand.New(rand.NewSource(1)), time.Now(), "alice", model.Vec2{X: 200, Y: 0})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, crossbowDefID, p.WeaponDefID)
	assert.Equal(t, boltDefID, p.AmmoDefID)
	assert.Equal(t, 0.0, p.GravityK, "crossbow bolts are not gravity-affected")

	var totalBolts int
	w.InventoryItems.Each(func(_ uint64, it *model.InventoryItem) bool {
		if it.ItemDefID == boltDefID {
			totalBolts += it.Quantity
		}
		return true
	})
	assert.Equal(t, 9, totalBolts)
}

func TestFire_RejectsWhileReloading(t *testing.T) {
	w := newTestWorld()
	equip(w, "alice", crossbowDefID, boltDefID)

	now := time.Now()
	_, err := projectile.Fire(w, rand.New(rand.NewSource(1)), now, "alice", model.Vec2{X: 200, Y: 0})
	require.NoError(t, err)

	_, err = projectile.Fire(w, rand.New(rand.NewSource(1)), now.Add(100*time.Millisecond), "alice", model.Vec2{X: 200, Y: 0})
	assert.ErrorIs(t, err, projectile.ErrTooSoon)
}

func TestFire_RejectsWhenNotReadyToFire(t *testing.T) {
	w := newTestWorld()
	equip(w, "alice", crossbowDefID, boltDefID)
	eq, _ := w.ActiveEquipment.Get("alice")
	eq.IsReadyToFire = false

	_, err := projectile.Fire(w, rand.New(rand.NewSource(1)), time.Now(), "alice", model.Vec2{X: 200, Y: 0})
	assert.ErrorIs(t, err, projectile.ErrNotReady)
}

func TestTick_ArrowHitsPlayerAndAppliesWeaponPlusAmmoDamage(t *testing.T) {
	w := newTestWorld()
	equip(w, "alice", bowDefID, arrowDefID)
	w.Players.Insert("bob", &model.Player{Identity: "bob", X: 100, Y: 0, Health: 100, MaxHealth: 100})

	now := time.Now()
	p, err := projectile.Fire(w, rand.New(rand.NewSource(1)), now, "alice", model.Vec2{X: 100, Y: 0})
	require.NoError(t, err)

	// Force a deterministic straight shot at bob's exact position so the
	// swept segment on the first tick crosses him regardless of the
	// gravity arc solver's chosen angle.
	p.StartX, p.StartY = 0, 0
	p.VelocityX, p.VelocityY = 2000, 0
	p.GravityK = 0

	rng := rand.New(rand.NewSource(1))
	projectile.Tick(w, rng, now.Add(50*time.Millisecond), nil)

	bob, ok := w.Players.Get("bob")
	require.True(t, ok)
	assert.Less(t, bob.Health, 100.0, "bow damage plus arrow damage should have been applied")

	_, stillLive := w.Projectiles.Get(p.ID)
	assert.False(t, stillLive, "projectile is consumed on hit")
}

func TestTick_ExpiresAfterHardCap(t *testing.T) {
	w := newTestWorld()
	equip(w, "alice", crossbowDefID, boltDefID)

	now := time.Now()
	p, err := projectile.Fire(w, rand.New(rand.NewSource(1)), now, "alice", model.Vec2{X: 1, Y: 0})
	require.NoError(t, err)

	projectile.Tick(w, rand.New(rand.NewSource(1)), now.Add(11*time.Second), nil)

	_, stillLive := w.Projectiles.Get(p.ID)
	assert.False(t, stillLive, "projectile must expire once it exceeds the hard time cap")
}
