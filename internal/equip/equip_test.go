package equip_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survivalcore/internal/equip"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

const (
	hatchetDefID  uint64 = 1
	bowDefID      uint64 = 2
	woodenArrowID uint64 = 3
	boneArrowID   uint64 = 4
	torchDefID    uint64 = 5
	helmetDefID   uint64 = 6
	bandageDefID  uint64 = 7
)

func newTestWorld() *store.World {
	w := store.NewWorld(store.NewScheduler(0, 1))
	w.ItemDefinitions.Insert(hatchetDefID, &model.ItemDefinition{
		ID: hatchetDefID, Name: "Stone Hatchet", Category: model.CategoryTool,
		IsEquippable: true, AttackIntervalSecs: 0.5,
	})
	w.ItemDefinitions.Insert(bowDefID, &model.ItemDefinition{
		ID: bowDefID, Name: "Hunting Bow", Category: model.CategoryRangedWeapon, IsEquippable: true,
	})
	w.ItemDefinitions.Insert(woodenArrowID, &model.ItemDefinition{
		ID: woodenArrowID, Name: "Wooden Arrow", Category: model.CategoryAmmunition, IsStackable: true, StackSize: 20,
	})
	w.ItemDefinitions.Insert(boneArrowID, &model.ItemDefinition{
		ID: boneArrowID, Name: "Bone Arrow", Category: model.CategoryAmmunition, IsStackable: true, StackSize: 20,
	})
	w.ItemDefinitions.Insert(torchDefID, &model.ItemDefinition{
		ID: torchDefID, Name: "Torch", Category: model.CategoryTool, IsEquippable: true,
	})
	w.ItemDefinitions.Insert(helmetDefID, &model.ItemDefinition{
		ID: helmetDefID, Name: "Leather Cap", Category: model.CategoryArmor,
		IsEquippable: true, EquipSlot: model.SlotHead,
	})
	w.ItemDefinitions.Insert(bandageDefID, &model.ItemDefinition{
		ID: bandageDefID, Name: "Bandage", Category: model.CategoryConsumable, IsStackable: true, StackSize: 5,
	})
	return w
}

func newHeldItem(w *store.World, owner model.Identity, defID uint64, qty int) uint64 {
	id := w.InventoryItems.NextAutoIncrement()
	w.InventoryItems.Insert(id, &model.InventoryItem{
		InstanceID: id, ItemDefID: defID, Quantity: qty,
		Location: model.NewHotbarLocation(owner, 0),
	})
	return id
}

func newAlivePlayer(w *store.World, identity model.Identity) {
	w.Players.Insert(identity, &model.Player{Identity: identity, Health: 100, MaxHealth: 100})
}

func TestSetActiveItem_WieldsToolFromHotbar(t *testing.T) {
	w := newTestWorld()
	newAlivePlayer(w, "alice")
	itemID := newHeldItem(w, "alice", hatchetDefID, 1)

	require.NoError(t, equip.SetActiveItem(w, "alice", itemID))

	eq, ok := w.ActiveEquipment.Get("alice")
	require.True(t, ok)
	require.NotNil(t, eq.EquippedItemInstanceID)
	assert.Equal(t, itemID, *eq.EquippedItemInstanceID)
	assert.Equal(t, hatchetDefID, *eq.EquippedItemDefID)
}

func TestSetActiveItem_RejectsArmor(t *testing.T) {
	w := newTestWorld()
	newAlivePlayer(w, "alice")
	itemID := newHeldItem(w, "alice", helmetDefID, 1)

	err := equip.SetActiveItem(w, "alice", itemID)
	assert.Error(t, err)
}

func TestSetActiveItem_RejectsWhileDead(t *testing.T) {
	w := newTestWorld()
	w.Players.Insert("alice", &model.Player{Identity: "alice", IsDead: true})
	itemID := newHeldItem(w, "alice", hatchetDefID, 1)

	err := equip.SetActiveItem(w, "alice", itemID)
	assert.Error(t, err)
}

func TestSetActiveItem_ExtinguishesPreviouslyLitTorch(t *testing.T) {
	w := newTestWorld()
	newAlivePlayer(w, "alice")
	torchID := newHeldItem(w, "alice", torchDefID, 1)
	require.NoError(t, equip.SetActiveItem(w, "alice", torchID))

	p, _ := w.Players.Get("alice")
	p.TorchLit = true

	hatchetID := newHeldItem(w, "alice", hatchetDefID, 1)
	require.NoError(t, equip.SetActiveItem(w, "alice", hatchetID))

	p, _ = w.Players.Get("alice")
	assert.False(t, p.TorchLit)
}

func TestClearActiveItem_ExtinguishesLitTorch(t *testing.T) {
	w := newTestWorld()
	newAlivePlayer(w, "alice")
	torchID := newHeldItem(w, "alice", torchDefID, 1)
	require.NoError(t, equip.SetActiveItem(w, "alice", torchID))
	p, _ := w.Players.Get("alice")
	p.TorchLit = true

	require.NoError(t, equip.ClearActiveItem(w, "alice"))

	eq, _ := w.ActiveEquipment.Get("alice")
	assert.Nil(t, eq.EquippedItemInstanceID)
	p, _ = w.Players.Get("alice")
	assert.False(t, p.TorchLit)
}

func TestLoadRangedWeapon_RequiresAmmo(t *testing.T) {
	w := newTestWorld()
	newAlivePlayer(w, "alice")
	bowID := newHeldItem(w, "alice", bowDefID, 1)
	require.NoError(t, equip.SetActiveItem(w, "alice", bowID))

	err := equip.LoadRangedWeapon(w, "alice")
	assert.Error(t, err)
}

func TestLoadRangedWeapon_LoadsPreferredThenCyclesOnRepeatedCalls(t *testing.T) {
	w := newTestWorld()
	newAlivePlayer(w, "alice")
	bowID := newHeldItem(w, "alice", bowDefID, 1)
	require.NoError(t, equip.SetActiveItem(w, "alice", bowID))
	newHeldItem(w, "alice", woodenArrowID, 5)
	newHeldItem(w, "alice", boneArrowID, 5)

	require.NoError(t, equip.LoadRangedWeapon(w, "alice"))
	eq, _ := w.ActiveEquipment.Get("alice")
	require.NotNil(t, eq.LoadedAmmoDefID)
	assert.Equal(t, woodenArrowID, *eq.LoadedAmmoDefID)

	require.NoError(t, equip.LoadRangedWeapon(w, "alice"))
	eq, _ = w.ActiveEquipment.Get("alice")
	assert.Equal(t, boneArrowID, *eq.LoadedAmmoDefID)
}

func TestUseEquippedItem_RejectsConsumable(t *testing.T) {
	w := newTestWorld()
	newAlivePlayer(w, "alice")
	bandageID := newHeldItem(w, "alice", bandageDefID, 1)
	require.Error(t, equip.SetActiveItem(w, "alice", bandageID), "consumables cannot be set active")
	defID := bandageDefID
	instID := bandageID
	w.ActiveEquipment.Insert("alice", &model.ActiveEquipment{PlayerIdentity: "alice", EquippedItemInstanceID: &instID, EquippedItemDefID: &defID})

	push := func(from, proposed model.Vec2) (model.Vec2, bool) { return proposed, true }
	_, err := equip.UseEquippedItem(w, nil, time.Time{}, "alice", push)
	assert.Error(t, err)
}

func TestUseEquippedItem_RejectsRangedWeapon(t *testing.T) {
	w := newTestWorld()
	newAlivePlayer(w, "alice")
	bowID := newHeldItem(w, "alice", bowDefID, 1)
	require.NoError(t, equip.SetActiveItem(w, "alice", bowID))

	push := func(from, proposed model.Vec2) (model.Vec2, bool) { return proposed, true }
	_, err := equip.UseEquippedItem(w, nil, time.Time{}, "alice", push)
	assert.Error(t, err)
}

func TestEquipArmor_MovesItemIntoSlotAndReturnsPrevious(t *testing.T) {
	w := newTestWorld()
	newAlivePlayer(w, "alice")
	firstCap := newHeldItem(w, "alice", helmetDefID, 1)
	require.NoError(t, equip.EquipArmor(w, "alice", firstCap))

	eq, _ := w.ActiveEquipment.Get("alice")
	require.NotNil(t, eq.ArmorSlotInstanceIDs[model.SlotHead-1])
	assert.Equal(t, firstCap, *eq.ArmorSlotInstanceIDs[model.SlotHead-1])

	secondCap := newHeldItem(w, "alice", helmetDefID, 1)
	require.NoError(t, equip.EquipArmor(w, "alice", secondCap))

	eq, _ = w.ActiveEquipment.Get("alice")
	assert.Equal(t, secondCap, *eq.ArmorSlotInstanceIDs[model.SlotHead-1])

	prevItem, ok := w.InventoryItems.Get(firstCap)
	require.True(t, ok)
	assert.Equal(t, model.LocInventory, prevItem.Location.Kind)
}

func TestEquipArmor_RejectsNonArmorItem(t *testing.T) {
	w := newTestWorld()
	newAlivePlayer(w, "alice")
	itemID := newHeldItem(w, "alice", hatchetDefID, 1)

	err := equip.EquipArmor(w, "alice", itemID)
	assert.Error(t, err)
}
