package combat_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survivalcore/internal/combat"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

const (
	axeDefID    uint64 = 1
	pickaxeDefID uint64 = 2
	spearDefID  uint64 = 3
	woodDefID   uint64 = 4
	stoneDefID  uint64 = 5
	boneKnifeDefID uint64 = 6
)

func newTestWorld() *store.World {
	w := store.NewWorld(store.NewScheduler(0, 1))

	treeType := model.TargetTree
	w.ItemDefinitions.Insert(axeDefID, &model.ItemDefinition{
		ID: axeDefID, Name: "Stone Hatchet", Category: model.CategoryTool,
		PrimaryTargetType:  &treeType,
		PrimaryDamage:      model.Range{Min: 10, Max: 10},
		PrimaryYield:       model.YieldRange{Min: 5, Max: 5, Resource: "Wood"},
		AttackIntervalSecs: 1,
		AttackRange:        50,
		AttackHalfAngleRad: 0.9,
	})
	stoneType := model.TargetStone
	w.ItemDefinitions.Insert(pickaxeDefID, &model.ItemDefinition{
		ID: pickaxeDefID, Name: "Stone Pickaxe", Category: model.CategoryTool,
		PrimaryTargetType:  &stoneType,
		PrimaryDamage:      model.Range{Min: 8, Max: 8},
		PrimaryYield:       model.YieldRange{Min: 3, Max: 3, Resource: "Stone"},
		AttackIntervalSecs: 1,
		AttackRange:        50,
		AttackHalfAngleRad: 0.9,
	})
	w.ItemDefinitions.Insert(spearDefID, &model.ItemDefinition{
		ID: spearDefID, Name: "Spear", Category: model.CategoryWeapon,
		PvPDamage:          &model.Range{Min: 20, Max: 20},
		AttackIntervalSecs: 1,
		AttackRange:        60,
		AttackHalfAngleRad: 0.9,
	})
	w.ItemDefinitions.Insert(woodDefID, &model.ItemDefinition{ID: woodDefID, Name: "Wood", IsStackable: true, StackSize: 1000})
	w.ItemDefinitions.Insert(stoneDefID, &model.ItemDefinition{ID: stoneDefID, Name: "Stone", IsStackable: true, StackSize: 1000})
	w.ItemDefinitions.Insert(boneKnifeDefID, &model.ItemDefinition{ID: boneKnifeDefID, Name: "Bone Knife", Category: model.CategoryTool})

	return w
}

func newAttacker(w *store.World, id model.Identity, x, y float64) *model.Player {
	p := &model.Player{Identity: id, X: x, Y: y, Direction: "right", Health: 100, MaxHealth: 100}
	w.Players.Insert(id, p)
	return p
}

func TestInCone_RejectsBehindAttacker(t *testing.T) {
	w := newTestWorld()
	newAttacker(w, "alice", 0, 0)
	w.Trees.Insert(1, &model.Tree{ID: 1, X: -30, Y: 0, Health: 100, MaxHealth: 100})

	def, _ := w.ItemDefinitions.Get(axeDefID)
	target := combat.SelectBestTarget(w, "alice", model.Vec2{X: 0, Y: 0}, model.DirectionFromString("right"), def.AttackRange, def.AttackHalfAngleRad, def)
	assert.Nil(t, target, "tree behind the attacker's facing should not be selected")
}

func TestInCone_AcceptsInFrontWithinRange(t *testing.T) {
	w := newTestWorld()
	newAttacker(w, "alice", 0, 0)
	w.Trees.Insert(1, &model.Tree{ID: 1, X: 30, Y: 0, Health: 100, MaxHealth: 100})

	def, _ := w.ItemDefinitions.Get(axeDefID)
	target := combat.SelectBestTarget(w, "alice", model.Vec2{X: 0, Y: 0}, model.DirectionFromString("right"), def.AttackRange, def.AttackHalfAngleRad, def)
	require.NotNil(t, target)
	assert.Equal(t, model.TargetTree, target.ID.Type)
	assert.Equal(t, uint64(1), target.ID.EntityID)
}

func TestSelectBestTarget_PrefersMatchingPrimaryType(t *testing.T) {
	w := newTestWorld()
	newAttacker(w, "alice", 0, 0)
	w.Trees.Insert(1, &model.Tree{ID: 1, X: 20, Y: 0, Health: 100, MaxHealth: 100})
	w.Stones.Insert(1, &model.Stone{ID: 1, X: 15, Y: 0, Health: 100, MaxHealth: 100})

	def, _ := w.ItemDefinitions.Get(axeDefID) // primary target is Tree
	target := combat.SelectBestTarget(w, "alice", model.Vec2{X: 0, Y: 0}, model.DirectionFromString("right"), def.AttackRange, def.AttackHalfAngleRad, def)
	require.NotNil(t, target)
	assert.Equal(t, model.TargetTree, target.ID.Type, "axe should prefer the tree even though the stone is closer")
}

func TestSelectBestTarget_PvPItemPrefersPlayerOverCloserResource(t *testing.T) {
	w := newTestWorld()
	newAttacker(w, "alice", 0, 0)
	newAttacker(w, "bob", 40, 0)
	w.Trees.Insert(1, &model.Tree{ID: 1, X: 10, Y: 0, Health: 100, MaxHealth: 100})

	def, _ := w.ItemDefinitions.Get(spearDefID)
	target := combat.SelectBestTarget(w, "alice", model.Vec2{X: 0, Y: 0}, model.DirectionFromString("right"), def.AttackRange, def.AttackHalfAngleRad, def)
	require.NotNil(t, target)
	assert.Equal(t, model.TargetPlayer, target.ID.Type)
	assert.Equal(t, model.Identity("bob"), target.ID.Player)
}

func TestDamageFor_PrimaryTypeMatch(t *testing.T) {
	w := newTestWorld()
	def, _ := w.ItemDefinitions.Get(axeDefID)
	rng := rand.New(rand.NewSource(1))

	outcome := combat.DamageFor(rng, def, model.TargetTree)
	assert.Equal(t, 10.0, outcome.Damage)
	assert.Equal(t, 5, outcome.YieldQuantity)
	assert.Equal(t, "Wood", outcome.YieldResource)
}

func TestDamageFor_GenericToolFallbackOnWrongResource(t *testing.T) {
	w := newTestWorld()
	def, _ := w.ItemDefinitions.Get(axeDefID) // axe's primary is Tree, hitting Stone falls to generic tool chip damage
	rng := rand.New(rand.NewSource(1))

	outcome := combat.DamageFor(rng, def, model.TargetStone)
	assert.Equal(t, 0.5*def.PrimaryDamage.Min, outcome.Damage)
	assert.Equal(t, "Stone", outcome.YieldResource)
}

func TestDamageFor_NonToolNonPrimaryFallsBackToOneDamage(t *testing.T) {
	w := newTestWorld()
	def, _ := w.ItemDefinitions.Get(spearDefID)
	rng := rand.New(rand.NewSource(1))

	outcome := combat.DamageFor(rng, def, model.TargetTree)
	assert.Equal(t, 1.0, outcome.Damage)
}

func TestDamageFor_PlayerCorpseFixedDamage(t *testing.T) {
	w := newTestWorld()
	def, _ := w.ItemDefinitions.Get(boneKnifeDefID)
	rng := rand.New(rand.NewSource(1))

	outcome := combat.DamageFor(rng, def, model.TargetPlayerCorpse)
	assert.Equal(t, 25.0, outcome.Damage)
}

func TestSwing_HarvestsTreeAndGrantsWood(t *testing.T) {
	w := newTestWorld()
	newAttacker(w, "alice", 0, 0)
	w.Trees.Insert(1, &model.Tree{ID: 1, X: 20, Y: 0, Health: 10, MaxHealth: 100})
	def, _ := w.ItemDefinitions.Get(axeDefID)
	rng := rand.New(rand.NewSource(1))

	target, err := combat.Swing(w, rng, time.Now(), "alice", def, nil)
	require.NoError(t, err)
	require.NotNil(t, target)

	tree, ok := w.Trees.Get(1)
	require.True(t, ok)
	assert.Equal(t, 0.0, tree.Health, "tree depleted by a single full-damage hit")
	require.NotNil(t, tree.RespawnAt, "depleted tree should schedule a respawn")

	var grantedWood int
	w.InventoryItems.Each(func(_ uint64, it *model.InventoryItem) bool {
		if it.ItemDefID == woodDefID {
			grantedWood += it.Quantity
		}
		return true
	})
	assert.Equal(t, 5, grantedWood)
}

func TestSwing_RejectsSecondSwingWithinCadence(t *testing.T) {
	w := newTestWorld()
	newAttacker(w, "alice", 0, 0)
	w.Trees.Insert(1, &model.Tree{ID: 1, X: 20, Y: 0, Health: 100, MaxHealth: 100})
	def, _ := w.ItemDefinitions.Get(axeDefID)
	rng := rand.New(rand.NewSource(1))

	now := time.Now()
	_, err := combat.Swing(w, rng, now, "alice", def, nil)
	require.NoError(t, err)

	_, err = combat.Swing(w, rng, now.Add(100*time.Millisecond), "alice", def, nil)
	require.Error(t, err, "swinging again before AttackIntervalSecs elapses must be rejected")
}

func TestSwing_PvPDamageAppliesArmorResistance(t *testing.T) {
	w := newTestWorld()
	newAttacker(w, "alice", 0, 0)
	bob := newAttacker(w, "bob", 30, 0)

	armorDefID := uint64(100)
	w.ItemDefinitions.Insert(armorDefID, &model.ItemDefinition{ID: armorDefID, Name: "Metal Chestplate", Category: model.CategoryArmor, ArmorDamageResistance: 0.5})
	armorItem := &model.InventoryItem{InstanceID: w.InventoryItems.NextAutoIncrement(), ItemDefID: armorDefID, Quantity: 1, Location: model.NewContainerLocation(model.ContainerType(0), 0, 0)}
	w.InventoryItems.Insert(armorItem.InstanceID, armorItem)
	w.ActiveEquipment.Insert("bob", &model.ActiveEquipment{PlayerIdentity: "bob", ArmorSlotInstanceIDs: [6]*uint64{&armorItem.InstanceID}})

	def, _ := w.ItemDefinitions.Get(spearDefID)
	rng := rand.New(rand.NewSource(1))

	target, err := combat.Swing(w, rng, time.Now(), "alice", def, nil)
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.Equal(t, model.TargetPlayer, target.ID.Type)

	updated, ok := w.Players.Get("bob")
	require.True(t, ok)
	assert.Equal(t, bob.MaxHealth-10, updated.Health, "20 PvP damage halved by 0.5 resistance")
}

func TestApplyToCorpse_DestroysAndScattersOnDepletion(t *testing.T) {
	w := newTestWorld()
	corpse := &model.PlayerCorpse{ID: 1, X: 0, Y: 0, Owner: "bob", Health: 25, MaxHealth: 100}
	dropped := &model.InventoryItem{InstanceID: w.InventoryItems.NextAutoIncrement(), ItemDefID: woodDefID, Quantity: 10, Location: model.NewContainerLocation(model.ContainerCorpse, corpse.ID, 0)}
	w.InventoryItems.Insert(dropped.InstanceID, dropped)
	corpse.Slots[0] = model.ContainerSlot{InstanceID: &dropped.InstanceID, DefID: &dropped.ItemDefID}
	w.Corpses.Insert(corpse.ID, corpse)

	toolDef, _ := w.ItemDefinitions.Get(boneKnifeDefID)
	rng := rand.New(rand.NewSource(1))

	combat.ApplyToCorpse(w, rng, "alice", corpse, toolDef, 25)

	_, stillExists := w.Corpses.Get(1)
	assert.False(t, stillExists, "corpse depleted to 0 health must be deleted")
	_, itemStillInCorpse := w.InventoryItems.Get(dropped.InstanceID)
	assert.False(t, itemStillInCorpse, "contained item is deleted once scattered as a dropped item")

	var dropCount int
	w.DroppedItems.Each(func(_ uint64, d *model.DroppedItem) bool {
		if d.ItemDefID == woodDefID {
			dropCount++
		}
		return true
	})
	assert.Equal(t, 1, dropCount, "scattered wood stack becomes one dropped item")
}
