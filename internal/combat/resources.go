package combat

import (
	"math/rand"

	"survivalcore/internal/config"
	"survivalcore/internal/container"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// FindItemDefByName scans ItemDefinitions for the row with the given
// display name. Definitions are few and static, so a linear scan
// (rather than a dedicated name index) matches the scale of this
// table.
func FindItemDefByName(w *store.World, name string) (*model.ItemDefinition, bool) {
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

// GrantToPlayer implements the harvest-grant rule (§4.1, §4.2.3): try
// to stack the yield into an existing matching hotbar/inventory stack,
// else into an empty hotbar/inventory slot, else drop it to the
// ground at pos.
func GrantToPlayer(w *store.World, rng *rand.Rand, owner model.Identity, resourceName string, qty int, pos model.Vec2) {
	if qty <= 0 {
		return
	}
	def, ok := FindItemDefByName(w, resourceName)
	if !ok {
		return
	}

	remaining := qty
	if def.IsStackable {
		var candidates []*model.InventoryItem
		w.InventoryItems.Each(func(_ uint64, it *model.InventoryItem) bool {
			if it.ItemDefID == def.ID && it.Location.IsPlayerHeld(owner) && it.Quantity < def.StackSize {
				candidates = append(candidates, it)
			}
			return true
		})
		for _, it := range candidates {
			room := def.StackSize - it.Quantity
			if room <= 0 {
				continue
			}
			add := remaining
			if add > room {
				add = room
			}
			it.Quantity += add
			remaining -= add
			if remaining == 0 {
				return
			}
		}
	}

	for slot := 0; slot < config.PlayerHotbarSlots && remaining > 0; slot++ {
		loc := model.ItemLocation{Kind: model.LocHotbar, Owner: owner, Slot: slot}
		if findPlayerSlotItem(w, loc) == nil {
			newItem := &model.InventoryItem{
				InstanceID: w.InventoryItems.NextAutoIncrement(),
				ItemDefID:  def.ID,
				Quantity:   remaining,
				Location:   loc,
			}
			w.InventoryItems.Insert(newItem.InstanceID, newItem)
			return
		}
	}
	for slot := 0; slot < config.PlayerInventorySlots && remaining > 0; slot++ {
		loc := model.ItemLocation{Kind: model.LocInventory, Owner: owner, Slot: slot}
		if findPlayerSlotItem(w, loc) == nil {
			newItem := &model.InventoryItem{
				InstanceID: w.InventoryItems.NextAutoIncrement(),
				ItemDefID:  def.ID,
				Quantity:   remaining,
				Location:   loc,
			}
			w.InventoryItems.Insert(newItem.InstanceID, newItem)
			return
		}
	}

	container.SpawnDropped(w, rng, def.ID, remaining, pos)
}

func findPlayerSlotItem(w *store.World, loc model.ItemLocation) *model.InventoryItem {
	var found *model.InventoryItem
	w.InventoryItems.Each(func(_ uint64, it *model.InventoryItem) bool {
		if it.Location.Kind == loc.Kind && it.Location.Owner == loc.Owner && it.Location.Slot == loc.Slot {
			found = it
			return false
		}
		return true
	})
	return found
}
