package deployable_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survivalcore/internal/deployable"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

const (
	woodDefID     uint64 = 1
	charcoalDefID uint64 = 2
	stoneDefID    uint64 = 3
	shelterDefID  uint64 = 4
)

func newTestWorld() *store.World {
	w := store.NewWorld(store.NewScheduler(0, 1))
	w.ItemDefinitions.Insert(woodDefID, &model.ItemDefinition{
		ID: woodDefID, Name: "Wood", IsStackable: true, StackSize: 100, FuelBurnDurationSecs: 10,
	})
	w.ItemDefinitions.Insert(charcoalDefID, &model.ItemDefinition{
		ID: charcoalDefID, Name: "Charcoal", IsStackable: true, StackSize: 100,
	})
	w.ItemDefinitions.Insert(stoneDefID, &model.ItemDefinition{
		ID: stoneDefID, Name: "Stone", IsStackable: true, StackSize: 100,
	})
	w.ItemDefinitions.Insert(shelterDefID, &model.ItemDefinition{
		ID: shelterDefID, Name: "Shelter", IsStackable: false, StackSize: 1,
	})
	return w
}

func newCampfireWithWood(w *store.World, x, y float64, qty int) *model.Campfire {
	cf := &model.Campfire{ID: w.Campfires.NextAutoIncrement(), X: x, Y: y, Health: 100, MaxHealth: 100}
	itemID := w.InventoryItems.NextAutoIncrement()
	item := &model.InventoryItem{InstanceID: itemID, ItemDefID: woodDefID, Quantity: qty,
		Location: model.NewContainerLocation(model.ContainerCampfire, cf.ID, 0)}
	w.InventoryItems.Insert(itemID, item)
	cf.FuelSlots[0] = model.ContainerSlot{InstanceID: &itemID, DefID: &woodDefID}
	w.Campfires.Insert(cf.ID, cf)
	return cf
}

func TestToggleCampfireBurning_RequiresFuelToLight(t *testing.T) {
	w := newTestWorld()
	cf := &model.Campfire{ID: w.Campfires.NextAutoIncrement(), X: 0, Y: 0, Health: 100, MaxHealth: 100}
	w.Campfires.Insert(cf.ID, cf)
	p := &model.Player{Identity: "alice", X: 0, Y: 0, Health: 100}
	w.Players.Insert("alice", p)

	err := deployable.ToggleCampfireBurning(w, "alice", cf.ID)
	assert.Error(t, err)
}

func TestToggleCampfireBurning_LightsAndSchedules(t *testing.T) {
	w := newTestWorld()
	cf := newCampfireWithWood(w, 0, 0, 5)
	p := &model.Player{Identity: "alice", X: 10, Y: 10, Health: 100}
	w.Players.Insert("alice", p)

	require.NoError(t, deployable.ToggleCampfireBurning(w, "alice", cf.ID))
	assert.True(t, cf.IsBurning)
	assert.True(t, w.Scheduler.Exists(cf.ID))
}

func TestToggleCampfireBurning_RejectsTooFar(t *testing.T) {
	w := newTestWorld()
	cf := newCampfireWithWood(w, 0, 0, 5)
	p := &model.Player{Identity: "alice", X: 1000, Y: 1000, Health: 100}
	w.Players.Insert("alice", p)

	err := deployable.ToggleCampfireBurning(w, "alice", cf.ID)
	assert.Error(t, err)
}

func TestProcessCampfireLogic_ConsumesFuelOverTime(t *testing.T) {
	w := newTestWorld()
	cf := newCampfireWithWood(w, 0, 0, 2)
	p := &model.Player{Identity: "alice", X: 0, Y: 0, Health: 100}
	w.Players.Insert("alice", p)
	require.NoError(t, deployable.ToggleCampfireBurning(w, "alice", cf.ID))
	assert.Nil(t, cf.RemainingFuelBurnTimeSecs, "burn timer is seeded by the first scheduled tick, not by lighting")

	reducer := deployable.ProcessCampfireLogic(w)
	ctx := &store.ReducerContext{Caller: store.SystemIdentity, Now: time.Now(), Rng: rand.New(rand.NewSource(1))}

	require.NoError(t, reducer(ctx, store.ScheduleRow{PK: cf.ID}))
	require.NotNil(t, cf.RemainingFuelBurnTimeSecs)
	assert.InDelta(t, 10.0, *cf.RemainingFuelBurnTimeSecs, 0.01)

	// Two 10s wood units at 1s/tick: 10 ticks exhausts the first unit
	// (reloading the timer from the same stack), 10 more exhausts the
	// second and clears the slot.
	for i := 0; i < 20; i++ {
		require.NoError(t, reducer(ctx, store.ScheduleRow{PK: cf.ID}))
	}

	assert.False(t, cf.IsBurning, "campfire goes out once every fuel unit is consumed")
	assert.False(t, w.Scheduler.Exists(cf.ID), "schedule row is cleared once not burning")
	assert.Nil(t, cf.CurrentFuelDefID)
	assert.True(t, cf.FuelSlots[0].Empty())
}

func TestProcessCampfireLogic_RejectsNonSystemCaller(t *testing.T) {
	w := newTestWorld()
	cf := newCampfireWithWood(w, 0, 0, 1)
	reducer := deployable.ProcessCampfireLogic(w)
	ctx := &store.ReducerContext{Caller: "alice", Now: time.Now()}

	err := reducer(ctx, store.ScheduleRow{PK: cf.ID})
	assert.Error(t, err)
}
