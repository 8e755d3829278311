package deployable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survivalcore/internal/deployable"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

func newShelterItem(w *store.World, owner model.Identity) uint64 {
	id := w.InventoryItems.NextAutoIncrement()
	w.InventoryItems.Insert(id, &model.InventoryItem{
		InstanceID: id, ItemDefID: shelterDefID, Quantity: 1,
		Location: model.NewHotbarLocation(owner, 0),
	})
	return id
}

func TestPlaceShelter_Success(t *testing.T) {
	w := newTestWorld()
	p := &model.Player{Identity: "alice", X: 100, Y: 100, Health: 100}
	w.Players.Insert("alice", p)
	itemID := newShelterItem(w, "alice")

	require.NoError(t, deployable.PlaceShelter(w, "alice", itemID, 120, 120))

	_, stillExists := w.InventoryItems.Get(itemID)
	assert.False(t, stillExists, "the placed item is consumed")

	var placed *model.Shelter
	w.Shelters.Each(func(_ uint64, s *model.Shelter) bool {
		placed = s
		return false
	})
	require.NotNil(t, placed)
	assert.Equal(t, model.Identity("alice"), placed.PlacedBy)
	assert.Greater(t, placed.Health, 0.0)
	assert.Equal(t, placed.MaxHealth, placed.Health)
}

func TestPlaceShelter_RejectsTooFar(t *testing.T) {
	w := newTestWorld()
	p := &model.Player{Identity: "alice", X: 0, Y: 0, Health: 100}
	w.Players.Insert("alice", p)
	itemID := newShelterItem(w, "alice")

	err := deployable.PlaceShelter(w, "alice", itemID, 5000, 5000)
	assert.Error(t, err)
	_, stillExists := w.InventoryItems.Get(itemID)
	assert.True(t, stillExists, "rejected placement must not consume the item")
}

func TestPlaceShelter_RejectsWhileDead(t *testing.T) {
	w := newTestWorld()
	p := &model.Player{Identity: "alice", X: 0, Y: 0, Health: 0, IsDead: true}
	w.Players.Insert("alice", p)
	itemID := newShelterItem(w, "alice")

	err := deployable.PlaceShelter(w, "alice", itemID, 10, 10)
	assert.Error(t, err)
}

func TestPlaceShelter_RejectsWhileKnockedOut(t *testing.T) {
	w := newTestWorld()
	p := &model.Player{Identity: "alice", X: 0, Y: 0, Health: 10, IsKnockedOut: true}
	w.Players.Insert("alice", p)
	itemID := newShelterItem(w, "alice")

	err := deployable.PlaceShelter(w, "alice", itemID, 10, 10)
	assert.Error(t, err)
}

func TestPlaceShelter_RejectsNonShelterItem(t *testing.T) {
	w := newTestWorld()
	p := &model.Player{Identity: "alice", X: 0, Y: 0, Health: 100}
	w.Players.Insert("alice", p)
	itemID := w.InventoryItems.NextAutoIncrement()
	w.InventoryItems.Insert(itemID, &model.InventoryItem{
		InstanceID: itemID, ItemDefID: woodDefID, Quantity: 1,
		Location: model.NewHotbarLocation("alice", 0),
	})

	err := deployable.PlaceShelter(w, "alice", itemID, 10, 10)
	assert.Error(t, err)
}

func TestPlaceShelter_ClearsResourcesInFootprint(t *testing.T) {
	w := newTestWorld()
	p := &model.Player{Identity: "alice", X: 0, Y: 0, Health: 100}
	w.Players.Insert("alice", p)
	itemID := newShelterItem(w, "alice")

	treeID := w.Trees.NextAutoIncrement()
	w.Trees.Insert(treeID, &model.Tree{ID: treeID, X: 0, Y: 0, Health: 100, MaxHealth: 100})
	farTreeID := w.Trees.NextAutoIncrement()
	w.Trees.Insert(farTreeID, &model.Tree{ID: farTreeID, X: 5000, Y: 5000, Health: 100, MaxHealth: 100})

	require.NoError(t, deployable.PlaceShelter(w, "alice", itemID, 0, 0))

	_, nearStillExists := w.Trees.Get(treeID)
	assert.False(t, nearStillExists, "trees under the shelter footprint are cleared")
	_, farStillExists := w.Trees.Get(farTreeID)
	assert.True(t, farStillExists, "trees outside the footprint survive")
}
