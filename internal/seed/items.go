// Package seed populates a World's ItemDefinitions table at startup.
//
// No item catalog survives in the retrieval pack (original_source's
// file list has no items.rs), so these rows are an invented but
// internally-consistent catalog sized to exercise every item name the
// reducers in internal/equip, internal/combat, internal/projectile,
// internal/deployable and internal/animalai reference by string.
package seed

import (
	"survivalcore/internal/config"
	"survivalcore/internal/model"
)

func targetType(t model.TargetType) *model.TargetType { return &t }

func rng(min, max float64) model.Range { return model.Range{Min: min, Max: max} }

// DefaultItemDefinitions returns the catalog to load into a fresh
// World's ItemDefinitions table, keyed by the returned ID.
func DefaultItemDefinitions() []*model.ItemDefinition {
	defs := []*model.ItemDefinition{
		{
			Name: "Bone Knife", Category: model.CategoryTool,
			StackSize: 1, IsEquippable: true,
			PrimaryTargetType:  targetType(model.TargetPlayerCorpse),
			PrimaryDamage:      rng(8, 14),
			PvPDamage:          &model.Range{Min: 6, Max: 10},
			AttackIntervalSecs: 0.6,
			AttackRange:        128,
		},
		{
			Name: "Bone Club", Category: model.CategoryWeapon,
			StackSize: 1, IsEquippable: true,
			PrimaryTargetType:  targetType(model.TargetPlayer),
			PrimaryDamage:      rng(10, 16),
			PvPDamage:          &model.Range{Min: 14, Max: 20},
			AttackIntervalSecs: 0.8,
			AttackRange:        160,
		},
		{
			Name: "Stone Hatchet", Category: model.CategoryTool,
			StackSize: 1, IsEquippable: true,
			PrimaryTargetType:  targetType(model.TargetTree),
			PrimaryDamage:      rng(12, 18),
			PrimaryYield:       model.YieldRange{Min: 8, Max: 14, Resource: "Wood"},
			PvPDamage:          &model.Range{Min: 8, Max: 12},
			AttackIntervalSecs: 0.7,
			AttackRange:        150,
		},
		{
			Name: "Stone Pickaxe", Category: model.CategoryTool,
			StackSize: 1, IsEquippable: true,
			PrimaryTargetType:  targetType(model.TargetStone),
			PrimaryDamage:      rng(12, 18),
			PrimaryYield:       model.YieldRange{Min: 6, Max: 12, Resource: "Stone"},
			PvPDamage:          &model.Range{Min: 8, Max: 12},
			AttackIntervalSecs: 0.7,
			AttackRange:        150,
		},
		{
			Name: "Wooden Spear", Category: model.CategoryWeapon,
			StackSize: 1, IsEquippable: true,
			PrimaryTargetType:  targetType(model.TargetPlayer),
			PrimaryDamage:      rng(14, 22),
			PvPDamage:          &model.Range{Min: 20, Max: 28},
			Bleed:              &model.BleedDef{DamagePerTick: 2, Duration: 6_000_000_000, Interval: 1_000_000_000},
			AttackIntervalSecs: 1.1,
			AttackRange:        config.SpearAttackRange,
			AttackHalfAngleRad: config.SpearAttackHalfAngle,
		},
		{
			Name: "Repair Hammer", Category: model.CategoryTool,
			StackSize: 1, IsEquippable: true,
			PrimaryTargetType:  targetType(model.TargetShelter),
			PrimaryDamage:      rng(0, 0),
			AttackIntervalSecs: 1.0,
			AttackRange:        150,
		},
		{
			Name: "Torch", Category: model.CategoryTool,
			StackSize: 1, IsEquippable: true, EquipSlot: model.SlotNone,
			AttackIntervalSecs: 0.6,
			AttackRange:        120,
			PrimaryDamage:      rng(3, 5),
		},

		// Bow + arrows
		{
			Name: "Hunting Bow", Category: model.CategoryRangedWeapon,
			StackSize: 1, IsEquippable: true,
			ProjectileSpeed: 900, GravityAffected: true,
			ReloadTimeSecs: 1.2,
		},
		{
			Name: "Wooden Arrow", Category: model.CategoryAmmunition,
			StackSize: 20, IsStackable: true,
			PrimaryDamage: rng(10, 16),
			PvPDamage:     &model.Range{Min: 10, Max: 16},
		},
		{
			Name: "Bone Arrow", Category: model.CategoryAmmunition,
			StackSize: 20, IsStackable: true,
			PrimaryDamage: rng(14, 20),
			PvPDamage:     &model.Range{Min: 14, Max: 20},
		},
		{
			Name: "Fire Arrow", Category: model.CategoryAmmunition,
			StackSize: 20, IsStackable: true,
			PrimaryDamage: rng(12, 18),
			PvPDamage:     &model.Range{Min: 12, Max: 18},
			Bleed:         &model.BleedDef{DamagePerTick: 3, Duration: 4_000_000_000, Interval: 1_000_000_000},
		},

		// Armor, one per slot
		{Name: "Leather Cap", Category: model.CategoryArmor, StackSize: 1, IsEquippable: true, EquipSlot: model.SlotHead, ArmorDamageResistance: 0.1},
		{Name: "Leather Chest", Category: model.CategoryArmor, StackSize: 1, IsEquippable: true, EquipSlot: model.SlotChest, ArmorDamageResistance: 0.2},
		{Name: "Leather Pants", Category: model.CategoryArmor, StackSize: 1, IsEquippable: true, EquipSlot: model.SlotLegs, ArmorDamageResistance: 0.15},
		{Name: "Leather Gloves", Category: model.CategoryArmor, StackSize: 1, IsEquippable: true, EquipSlot: model.SlotHands, ArmorDamageResistance: 0.05},
		{Name: "Leather Boots", Category: model.CategoryArmor, StackSize: 1, IsEquippable: true, EquipSlot: model.SlotFeet, ArmorDamageResistance: 0.05},
		{Name: "Leather Backpack", Category: model.CategoryArmor, StackSize: 1, IsEquippable: true, EquipSlot: model.SlotBack, ArmorDamageResistance: 0.0},

		// Consumables (not yet actionable via internal/equip, see DESIGN.md)
		{Name: "Cooked Meat", Category: model.CategoryConsumable, StackSize: 10, IsStackable: true},
		{Name: "Raw Meat", Category: model.CategoryConsumable, StackSize: 10, IsStackable: true},

		// Raw materials / corpse yields
		{Name: "Wood", Category: model.CategoryOther, StackSize: 100, IsStackable: true, FuelBurnDurationSecs: 20},
		{Name: "Stone", Category: model.CategoryOther, StackSize: 100, IsStackable: true},
		{Name: "Charcoal", Category: model.CategoryOther, StackSize: 100, IsStackable: true, FuelBurnDurationSecs: 45},
		{Name: "Animal Fat", Category: model.CategoryOther, StackSize: 50, IsStackable: true},
		{Name: "Animal Bone", Category: model.CategoryOther, StackSize: 50, IsStackable: true},
		{Name: "Raw Human Flesh", Category: model.CategoryOther, StackSize: 50, IsStackable: true},
		{Name: "Human Skull", Category: model.CategoryOther, StackSize: 20, IsStackable: true},

		// Deployables
		{Name: "Shelter", Category: model.CategoryOther, StackSize: 1, IsEquippable: false},
	}

	for i, d := range defs {
		d.ID = uint64(i + 1)
	}
	return defs
}
