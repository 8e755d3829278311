package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survivalcore/internal/container"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

const (
	woodDefID  uint64 = 1
	stoneDefID uint64 = 2
	axeDefID   uint64 = 3
)

func newTestWorld() *store.World {
	w := store.NewWorld(store.NewScheduler(0, 1))
	w.ItemDefinitions.Insert(woodDefID, &model.ItemDefinition{ID: woodDefID, Name: "Wood", IsStackable: true, StackSize: 1000})
	w.ItemDefinitions.Insert(stoneDefID, &model.ItemDefinition{ID: stoneDefID, Name: "Stone", IsStackable: true, StackSize: 1000})
	w.ItemDefinitions.Insert(axeDefID, &model.ItemDefinition{ID: axeDefID, Name: "Stone Hatchet", IsStackable: false, StackSize: 1})
	return w
}

func insertItem(w *store.World, defID uint64, qty int, loc model.ItemLocation) *model.InventoryItem {
	item := &model.InventoryItem{
		InstanceID: w.InventoryItems.NextAutoIncrement(),
		ItemDefID:  defID,
		Quantity:   qty,
		Location:   loc,
	}
	w.InventoryItems.Insert(item.InstanceID, item)
	return item
}

func newBox(w *store.World) *model.WoodenStorageBox {
	box := &model.WoodenStorageBox{
		ID:     w.StorageBoxes.NextAutoIncrement(),
		Owner:  "alice",
		Health: 200,
	}
	w.StorageBoxes.Insert(box.ID, box)
	return box
}

func TestPlaceIntoSlot_EmptySlot(t *testing.T) {
	w := newTestWorld()
	box := newBox(w)
	adapter := container.StorageBox{C: box}

	item := insertItem(w, woodDefID, 50, model.NewInventoryLocation("alice", 0))

	err := container.PlaceIntoSlot(w, "alice", item.InstanceID, adapter, 3)
	require.NoError(t, err)

	slot := adapter.GetSlot(3)
	require.False(t, slot.Empty())
	assert.Equal(t, item.InstanceID, *slot.InstanceID)
	assert.Equal(t, model.LocContainer, item.Location.Kind)
	assert.Equal(t, model.ContainerStorageBox, item.Location.ContainerType)
	assert.Equal(t, box.ID, item.Location.ContainerID)
	assert.Equal(t, 3, item.Location.Slot)
}

func TestPlaceIntoSlot_MergeUnderStackSize(t *testing.T) {
	w := newTestWorld()
	box := newBox(w)
	adapter := container.StorageBox{C: box}

	existing := insertItem(w, woodDefID, 400, model.NewContainerLocation(model.ContainerStorageBox, box.ID, 0))
	adapter.SetSlot(0, &existing.InstanceID, &existing.ItemDefID)

	incoming := insertItem(w, woodDefID, 300, model.NewInventoryLocation("alice", 0))

	err := container.PlaceIntoSlot(w, "alice", incoming.InstanceID, adapter, 0)
	require.NoError(t, err)

	assert.Equal(t, 700, existing.Quantity)
	_, stillExists := w.InventoryItems.Get(incoming.InstanceID)
	assert.False(t, stillExists, "merged source instance should be deleted")
}

func TestPlaceIntoSlot_MergeOverflowsKeepsRemainder(t *testing.T) {
	w := newTestWorld()
	box := newBox(w)
	adapter := container.StorageBox{C: box}

	existing := insertItem(w, woodDefID, 900, model.NewContainerLocation(model.ContainerStorageBox, box.ID, 0))
	adapter.SetSlot(0, &existing.InstanceID, &existing.ItemDefID)

	incoming := insertItem(w, woodDefID, 500, model.NewInventoryLocation("alice", 0))

	err := container.PlaceIntoSlot(w, "alice", incoming.InstanceID, adapter, 0)
	require.NoError(t, err)

	assert.Equal(t, 1000, existing.Quantity)
	remaining, ok := w.InventoryItems.Get(incoming.InstanceID)
	require.True(t, ok, "source should survive with remainder")
	assert.Equal(t, 400, remaining.Quantity)
}

func TestPlaceIntoSlot_SwapWhenNotMergeable(t *testing.T) {
	w := newTestWorld()
	box := newBox(w)
	adapter := container.StorageBox{C: box}

	stoneItem := insertItem(w, stoneDefID, 100, model.NewContainerLocation(model.ContainerStorageBox, box.ID, 0))
	adapter.SetSlot(0, &stoneItem.InstanceID, &stoneItem.ItemDefID)

	woodItem := insertItem(w, woodDefID, 50, model.NewInventoryLocation("alice", 2))

	err := container.PlaceIntoSlot(w, "alice", woodItem.InstanceID, adapter, 0)
	require.NoError(t, err)

	assert.Equal(t, model.LocInventory, stoneItem.Location.Kind)
	assert.Equal(t, 2, stoneItem.Location.Slot)
	assert.Equal(t, model.LocContainer, woodItem.Location.Kind)
	assert.Equal(t, 0, woodItem.Location.Slot)
}

func TestPlaceIntoSlot_RejectsUnownedItem(t *testing.T) {
	w := newTestWorld()
	box := newBox(w)
	adapter := container.StorageBox{C: box}

	item := insertItem(w, woodDefID, 50, model.NewInventoryLocation("bob", 0))

	err := container.PlaceIntoSlot(w, "alice", item.InstanceID, adapter, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrValidation)
}

func TestMoveWithinContainer_SwapAndMerge(t *testing.T) {
	w := newTestWorld()
	box := newBox(w)
	adapter := container.StorageBox{C: box}

	a := insertItem(w, woodDefID, 100, model.NewContainerLocation(model.ContainerStorageBox, box.ID, 0))
	b := insertItem(w, stoneDefID, 50, model.NewContainerLocation(model.ContainerStorageBox, box.ID, 1))
	adapter.SetSlot(0, &a.InstanceID, &a.ItemDefID)
	adapter.SetSlot(1, &b.InstanceID, &b.ItemDefID)

	require.NoError(t, container.MoveWithinContainer(w, adapter, 0, 1))
	assert.Equal(t, 1, a.Location.Slot)
	assert.Equal(t, 0, b.Location.Slot)

	c := insertItem(w, woodDefID, 40, model.NewContainerLocation(model.ContainerStorageBox, box.ID, 5))
	adapter.SetSlot(5, &c.InstanceID, &c.ItemDefID)
	require.NoError(t, container.MoveWithinContainer(w, adapter, 1, 5))
	assert.Equal(t, 140, c.Quantity)
	_, exists := w.InventoryItems.Get(a.InstanceID)
	assert.False(t, exists)
}

func TestSplitIntoContainerSlot(t *testing.T) {
	w := newTestWorld()
	box := newBox(w)
	adapter := container.StorageBox{C: box}

	source := insertItem(w, woodDefID, 100, model.NewInventoryLocation("alice", 0))

	err := container.SplitIntoContainerSlot(w, "alice", source.InstanceID, 30, adapter, 4)
	require.NoError(t, err)

	assert.Equal(t, 70, source.Quantity)
	slot := adapter.GetSlot(4)
	require.False(t, slot.Empty())
	newItem, ok := w.InventoryItems.Get(*slot.InstanceID)
	require.True(t, ok)
	assert.Equal(t, 30, newItem.Quantity)
}

func TestSplitIntoContainerSlot_RejectsFullQuantity(t *testing.T) {
	w := newTestWorld()
	box := newBox(w)
	adapter := container.StorageBox{C: box}

	source := insertItem(w, woodDefID, 100, model.NewInventoryLocation("alice", 0))

	err := container.SplitIntoContainerSlot(w, "alice", source.InstanceID, 100, adapter, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrValidation)
	assert.Equal(t, 100, source.Quantity, "rejected split must not mutate source")
}

func TestQuickMoveToContainer_PrefersMergeableSlot(t *testing.T) {
	w := newTestWorld()
	box := newBox(w)
	adapter := container.StorageBox{C: box}

	existing := insertItem(w, woodDefID, 10, model.NewContainerLocation(model.ContainerStorageBox, box.ID, 7))
	adapter.SetSlot(7, &existing.InstanceID, &existing.ItemDefID)

	incoming := insertItem(w, woodDefID, 5, model.NewInventoryLocation("alice", 0))

	err := container.QuickMoveToContainer(w, "alice", incoming.InstanceID, adapter)
	require.NoError(t, err)
	assert.Equal(t, 15, existing.Quantity)
}

func TestQuickMoveToContainer_FullContainerFails(t *testing.T) {
	w := newTestWorld()
	box := newBox(w)
	adapter := container.StorageBox{C: box}

	for i := 0; i < model.WoodenStorageBoxSlots; i++ {
		it := insertItem(w, axeDefID, 1, model.NewContainerLocation(model.ContainerStorageBox, box.ID, i))
		adapter.SetSlot(i, &it.InstanceID, &it.ItemDefID)
	}

	incoming := insertItem(w, woodDefID, 5, model.NewInventoryLocation("alice", 0))
	err := container.QuickMoveToContainer(w, "alice", incoming.InstanceID, adapter)
	require.Error(t, err)
	assert.ErrorIs(t, err, container.ErrExhaustion)
}

func TestDropFromSlot(t *testing.T) {
	w := newTestWorld()
	box := newBox(w)
	adapter := container.StorageBox{C: box}

	item := insertItem(w, woodDefID, 20, model.NewContainerLocation(model.ContainerStorageBox, box.ID, 0))
	adapter.SetSlot(0, &item.InstanceID, &item.ItemDefID)

	err := container.DropFromSlot(w, nil, adapter, 0, model.Vec2{X: 100, Y: 200})
	require.NoError(t, err)

	assert.True(t, adapter.GetSlot(0).Empty())
	_, exists := w.InventoryItems.Get(item.InstanceID)
	assert.False(t, exists)
	assert.Equal(t, 1, w.DroppedItems.Len())
}

func TestSplitAndDrop(t *testing.T) {
	w := newTestWorld()
	box := newBox(w)
	adapter := container.StorageBox{C: box}

	item := insertItem(w, woodDefID, 50, model.NewContainerLocation(model.ContainerStorageBox, box.ID, 0))
	adapter.SetSlot(0, &item.InstanceID, &item.ItemDefID)

	err := container.SplitAndDrop(w, nil, adapter, 0, 20, model.Vec2{X: 0, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, 30, item.Quantity)
	assert.Equal(t, 1, w.DroppedItems.Len())
}

func TestMoveToPlayer_MergeIntoExistingInventoryStack(t *testing.T) {
	w := newTestWorld()
	box := newBox(w)
	adapter := container.StorageBox{C: box}

	boxItem := insertItem(w, woodDefID, 30, model.NewContainerLocation(model.ContainerStorageBox, box.ID, 0))
	adapter.SetSlot(0, &boxItem.InstanceID, &boxItem.ItemDefID)

	invItem := insertItem(w, woodDefID, 10, model.NewInventoryLocation("alice", 2))

	err := container.MoveToPlayer(w, adapter, 0, model.LocInventory, "alice", 2)
	require.NoError(t, err)

	assert.Equal(t, 40, invItem.Quantity)
	assert.True(t, adapter.GetSlot(0).Empty())
	_, exists := w.InventoryItems.Get(boxItem.InstanceID)
	assert.False(t, exists)
}

func TestPlaceIntoSlot_ClearsEquipSlotWhenMovingEquippedItem(t *testing.T) {
	w := newTestWorld()
	box := newBox(w)
	adapter := container.StorageBox{C: box}

	axe := insertItem(w, axeDefID, 1, model.NewEquippedLocation("alice", model.SlotNone))
	eq := &model.ActiveEquipment{PlayerIdentity: "alice", EquippedItemInstanceID: &axe.InstanceID, EquippedItemDefID: &axe.ItemDefID}
	w.ActiveEquipment.Insert("alice", eq)

	err := container.PlaceIntoSlot(w, "alice", axe.InstanceID, adapter, 0)
	require.NoError(t, err)

	assert.Nil(t, eq.EquippedItemInstanceID)
	assert.Nil(t, eq.EquippedItemDefID)
}
