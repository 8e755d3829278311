// Package equip implements the active-equipment reducers: which item
// a player is currently wielding, ranged-weapon ammo loading, armor
// slots, and the use-equipped-item dispatch to a melee swing.
// Grounded on original_source/server/src/active_equipment.rs.
package equip

import (
	"math/rand"
	"time"

	"survivalcore/internal/combat"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

func getOrCreateEquipment(w *store.World, identity model.Identity) *model.ActiveEquipment {
	eq, ok := w.ActiveEquipment.Get(identity)
	if !ok {
		eq = &model.ActiveEquipment{PlayerIdentity: identity}
		w.ActiveEquipment.Insert(identity, eq)
	}
	return eq
}

func requireAlive(w *store.World, identity model.Identity, verb string) (*model.Player, error) {
	p, ok := w.Players.Get(identity)
	if !ok {
		return nil, fail(ErrNotFound, "player not found")
	}
	if p.IsDead {
		return nil, fail(ErrValidation, "Cannot "+verb+" while dead")
	}
	if p.IsKnockedOut {
		return nil, fail(ErrValidation, "Cannot "+verb+" while knocked out")
	}
	return p, nil
}

// extinguishTorchIfLit turns off a lit torch when it stops being the
// active item, matching the original's torch-specific equip/clear
// handling.
func extinguishTorchIfLit(p *model.Player) {
	if p.TorchLit {
		p.TorchLit = false
	}
}

// SetActiveItem implements set_active_item_reducer: wield a Tool,
// Weapon, or RangedWeapon already held in inventory/hotbar. It does not
// move the item; it only updates ActiveEquipment.
func SetActiveItem(w *store.World, identity model.Identity, itemInstanceID uint64) error {
	p, err := requireAlive(w, identity, "equip items")
	if err != nil {
		return err
	}

	item, ok := w.InventoryItems.Get(itemInstanceID)
	if !ok {
		return fail(ErrNotFound, "inventory item not found")
	}
	if item.Quantity == 0 {
		return fail(ErrValidation, "cannot equip a consumed item")
	}
	if !item.Location.IsPlayerHeld(identity) {
		return fail(ErrValidation, "item must be in inventory or hotbar to be made active")
	}

	def, ok := w.ItemDefinitions.Get(item.ItemDefID)
	if !ok {
		return fail(ErrNotFound, "item definition not found")
	}
	switch def.Category {
	case model.CategoryTool, model.CategoryWeapon, model.CategoryRangedWeapon:
	default:
		return fail(ErrValidation, "item '"+def.Name+"' is not a Tool, Weapon, or Ranged Weapon")
	}
	if !def.IsEquippable {
		return fail(ErrValidation, "item '"+def.Name+"' cannot be set as active")
	}
	if def.Category == model.CategoryArmor {
		return fail(ErrValidation, "armor cannot be set as active; use EquipArmor")
	}

	eq := getOrCreateEquipment(w, identity)
	if eq.EquippedItemInstanceID != nil && *eq.EquippedItemInstanceID == itemInstanceID {
		return nil
	}

	extinguishTorchIfLit(p)

	defID := def.ID
	instID := itemInstanceID
	eq.EquippedItemDefID = &defID
	eq.EquippedItemInstanceID = &instID
	eq.SwingStartTimeMs = 0
	eq.LoadedAmmoDefID = nil
	eq.IsReadyToFire = false
	return nil
}

// ClearActiveItem implements clear_active_item_reducer: unwield
// whatever is currently active, extinguishing a lit torch.
func ClearActiveItem(w *store.World, identity model.Identity) error {
	eq, ok := w.ActiveEquipment.Get(identity)
	if !ok || eq.EquippedItemInstanceID == nil {
		return nil
	}

	oldDefID := eq.EquippedItemDefID
	eq.EquippedItemDefID = nil
	eq.EquippedItemInstanceID = nil
	eq.SwingStartTimeMs = 0
	eq.LoadedAmmoDefID = nil
	eq.IsReadyToFire = false

	if oldDefID != nil {
		if def, ok := w.ItemDefinitions.Get(*oldDefID); ok && def.Name == "Torch" {
			if p, ok := w.Players.Get(identity); ok {
				extinguishTorchIfLit(p)
			}
		}
	}
	return nil
}

// preferredArrowOrder is the arrow-cycling order load_ranged_weapon
// walks through when no ammo preference is recorded yet.
var preferredArrowOrder = []string{"Wooden Arrow", "Bone Arrow", "Fire Arrow"}

// LoadRangedWeapon implements load_ranged_weapon: load the equipped
// ranged weapon with an arrow the player is carrying, cycling to the
// next available type on repeated calls.
func LoadRangedWeapon(w *store.World, identity model.Identity) error {
	if _, err := requireAlive(w, identity, "load weapons"); err != nil {
		return err
	}

	eq, ok := w.ActiveEquipment.Get(identity)
	if !ok || eq.EquippedItemDefID == nil {
		return fail(ErrValidation, "no item equipped to load")
	}
	weaponDef, ok := w.ItemDefinitions.Get(*eq.EquippedItemDefID)
	if !ok || weaponDef.Category != model.CategoryRangedWeapon {
		return fail(ErrValidation, "equipped item is not a ranged weapon")
	}

	type candidate struct {
		name  string
		defID uint64
	}
	var available []candidate
	for _, arrowName := range preferredArrowOrder {
		def, ok := findItemDefByName(w, arrowName)
		if !ok {
			continue
		}
		if playerHasAmmo(w, identity, def.ID) {
			available = append(available, candidate{arrowName, def.ID})
		}
	}
	if len(available) == 0 {
		return fail(ErrValidation, "you need at least 1 arrow to load the weapon")
	}

	var selected candidate
	switch {
	case eq.IsReadyToFire && eq.LoadedAmmoDefID != nil:
		idx := -1
		for i, c := range available {
			if c.defID == *eq.LoadedAmmoDefID {
				idx = i
				break
			}
		}
		if idx == -1 {
			selected = available[0]
		} else {
			selected = available[(idx+1)%len(available)]
		}
	case eq.PreferredArrowType != nil:
		selected = available[0]
		for _, c := range available {
			if c.defID == *eq.PreferredArrowType {
				selected = c
				break
			}
		}
	default:
		selected = available[0]
	}

	defID := selected.defID
	eq.LoadedAmmoDefID = &defID
	eq.IsReadyToFire = true
	eq.PreferredArrowType = &defID
	return nil
}

func playerHasAmmo(w *store.World, identity model.Identity, ammoDefID uint64) bool {
	found := false
	w.InventoryItems.Each(func(_ uint64, item *model.InventoryItem) bool {
		if item.ItemDefID == ammoDefID && item.Quantity > 0 && item.Location.IsPlayerHeld(identity) {
			found = true
			return false
		}
		return true
	})
	return found
}

func findItemDefByName(w *store.World, name string) (*model.ItemDefinition, bool) {
	var found *model.ItemDefinition
	w.ItemDefinitions.Each(func(_ uint64, d *model.ItemDefinition) bool {
		if d.Name == name {
			found = d
			return false
		}
		return true
	})
	return found, found != nil
}

// UseEquippedItem implements use_equipped_item for the Tool/Weapon
// melee path, dispatching to combat.Swing with the currently equipped
// item definition. Consumable and ranged-weapon use (bandaging,
// firing) are reducers of their own (fire_projectile, the not-yet-built
// consumable-effect pipeline) and are rejected here rather than
// silently no-opped.
func UseEquippedItem(w *store.World, rng *rand.Rand, now time.Time, identity model.Identity, push combat.ResolvePush) (*combat.TargetCandidate, error) {
	if _, err := requireAlive(w, identity, "use items"); err != nil {
		return nil, err
	}

	eq, ok := w.ActiveEquipment.Get(identity)
	if !ok || eq.EquippedItemDefID == nil {
		return nil, fail(ErrValidation, "no item equipped")
	}
	def, ok := w.ItemDefinitions.Get(*eq.EquippedItemDefID)
	if !ok {
		return nil, fail(ErrNotFound, "equipped item definition not found")
	}

	switch def.Category {
	case model.CategoryTool, model.CategoryWeapon:
		return combat.Swing(w, rng, now, identity, def, push)
	case model.CategoryConsumable:
		return nil, fail(ErrValidation, "consumable use is not supported")
	case model.CategoryRangedWeapon:
		return nil, fail(ErrValidation, "use load_ranged_weapon and fire_projectile for ranged weapons")
	default:
		return nil, fail(ErrValidation, "item '"+def.Name+"' cannot be used")
	}
}

var armorSlotField = map[model.EquipSlotType]func(*model.ActiveEquipment) **uint64{
	model.SlotHead:  func(e *model.ActiveEquipment) **uint64 { return &e.ArmorSlotInstanceIDs[model.SlotHead-1] },
	model.SlotChest: func(e *model.ActiveEquipment) **uint64 { return &e.ArmorSlotInstanceIDs[model.SlotChest-1] },
	model.SlotLegs:  func(e *model.ActiveEquipment) **uint64 { return &e.ArmorSlotInstanceIDs[model.SlotLegs-1] },
	model.SlotHands: func(e *model.ActiveEquipment) **uint64 { return &e.ArmorSlotInstanceIDs[model.SlotHands-1] },
	model.SlotFeet:  func(e *model.ActiveEquipment) **uint64 { return &e.ArmorSlotInstanceIDs[model.SlotFeet-1] },
	model.SlotBack:  func(e *model.ActiveEquipment) **uint64 { return &e.ArmorSlotInstanceIDs[model.SlotBack-1] },
}

// EquipArmor implements equip_armor: move an armor item from
// inventory/hotbar into its armor slot, swapping out and returning
// whatever previously occupied that slot to the player's inventory.
func EquipArmor(w *store.World, identity model.Identity, itemInstanceID uint64) error {
	if _, err := requireAlive(w, identity, "equip armor"); err != nil {
		return err
	}

	item, ok := w.InventoryItems.Get(itemInstanceID)
	if !ok {
		return fail(ErrNotFound, "item instance not found")
	}
	if item.Location.Kind != model.LocInventory && item.Location.Kind != model.LocHotbar && item.Location.Kind != model.LocUnknown {
		return fail(ErrValidation, "item cannot be equipped from its current location")
	}

	def, ok := w.ItemDefinitions.Get(item.ItemDefID)
	if !ok {
		return fail(ErrNotFound, "item definition not found")
	}
	if def.Category != model.CategoryArmor {
		return fail(ErrValidation, "item '"+def.Name+"' is not armor")
	}
	if def.EquipSlot == model.SlotNone {
		return fail(ErrValidation, "armor '"+def.Name+"' has no defined equipment slot")
	}
	slotField, ok := armorSlotField[def.EquipSlot]
	if !ok {
		return fail(ErrValidation, "unsupported armor slot")
	}

	eq := getOrCreateEquipment(w, identity)
	slot := slotField(eq)
	previous := *slot
	*slot = &itemInstanceID

	item.Location = model.NewEquippedLocation(identity, def.EquipSlot)

	if previous != nil {
		if prevItem, ok := w.InventoryItems.Get(*previous); ok {
			prevItem.Location = model.NewInventoryLocation(identity, -1)
		}
	}
	return nil
}
