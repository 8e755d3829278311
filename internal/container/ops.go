package container

import (
	"math/rand"

	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// World is the subset of store.World the container layer touches.
// Declared as a type alias so ops read naturally; kept separate from
// store.World to avoid an import cycle concern if the store package
// ever needs container types (it doesn't today, but the indirection
// costs nothing).
type World = store.World

// newInstanceID allocates a fresh InventoryItem primary key.
func newInstanceID(w *World) uint64 {
	return w.InventoryItems.NextAutoIncrement()
}

// locationsEqual compares the player-held subset of an ItemLocation
// (Inventory/Hotbar by owner+slot) used to find "what's currently in
// this player slot".
func locationsEqual(a, b model.ItemLocation) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case model.LocInventory, model.LocHotbar:
		return a.Owner == b.Owner && a.Slot == b.Slot
	case model.LocEquipped:
		return a.Owner == b.Owner && a.SlotType == b.SlotType
	case model.LocContainer:
		return a.ContainerType == b.ContainerType && a.ContainerID == b.ContainerID && a.Slot == b.Slot
	default:
		return false
	}
}

// findItemAtLocation scans InventoryItems for the row currently
// occupying loc. Player inventory/hotbar slots have no materialized
// array (only Container locations do, per §3.2's invariant), so
// locating "what's in slot N of a player's inventory" is a lookup
// over the InventoryItem rows themselves.
func findItemAtLocation(w *World, loc model.ItemLocation) *model.InventoryItem {
	var found *model.InventoryItem
	w.InventoryItems.Each(func(_ uint64, it *model.InventoryItem) bool {
		if locationsEqual(it.Location, loc) {
			found = it
			return false
		}
		return true
	})
	return found
}

// requireSenderOwns validates that instanceID belongs to sender and is
// currently held in Inventory, Hotbar, or Equipped (§4.1 place_into_slot).
func requireSenderOwns(w *World, sender model.Identity, instanceID uint64) (*model.InventoryItem, *model.ItemDefinition, error) {
	item, ok := w.InventoryItems.Get(instanceID)
	if !ok {
		return nil, nil, fail(ErrNotFound, "item instance not found")
	}
	loc := item.Location
	owned := (loc.Kind == model.LocInventory || loc.Kind == model.LocHotbar || loc.Kind == model.LocEquipped) && loc.Owner == sender
	if !owned {
		return nil, nil, fail(ErrValidation, "item is not in sender's inventory, hotbar, or equipment")
	}
	def, ok := w.ItemDefinitions.Get(item.ItemDefID)
	if !ok {
		return nil, nil, fail(ErrNotFound, "item definition not found")
	}
	return item, def, nil
}

// clearEquipIfEquipped clears ActiveEquipment's reference to instanceID
// when the item being moved was equipped (§4.1 place_into_slot).
func clearEquipIfEquipped(w *World, item *model.InventoryItem) {
	if item.Location.Kind != model.LocEquipped {
		return
	}
	eq, ok := w.ActiveEquipment.Get(item.Location.Owner)
	if !ok {
		return
	}
	if eq.EquippedItemInstanceID != nil && *eq.EquippedItemInstanceID == item.InstanceID {
		eq.EquippedItemInstanceID = nil
		eq.EquippedItemDefID = nil
	}
	for i, slot := range eq.ArmorSlotInstanceIDs {
		if slot != nil && *slot == item.InstanceID {
			eq.ArmorSlotInstanceIDs[i] = nil
		}
	}
}

// mergeStacks applies the merge rule (§4.1): new target quantity is
// min(stackSize, source.qty+target.qty); source is deleted iff the
// unclamped sum fits within stackSize, otherwise source keeps the
// remainder.
func mergeStacks(w *World, source, target *model.InventoryItem, stackSize int) {
	sum := source.Quantity + target.Quantity
	if sum <= stackSize {
		target.Quantity = sum
		w.InventoryItems.Delete(source.InstanceID)
	} else {
		target.Quantity = stackSize
		source.Quantity = sum - stackSize
	}
}

func refPtr(id uint64) *uint64 { v := id; return &v }

// PlaceIntoSlot implements §4.1 place_into_slot.
func PlaceIntoSlot(w *World, sender model.Identity, itemInstanceID uint64, target Container, slotIndex int) error {
	item, def, err := requireSenderOwns(w, sender, itemInstanceID)
	if err != nil {
		return err
	}
	if slotIndex < 0 || slotIndex >= target.NumSlots() {
		return fail(ErrValidation, "slot index out of bounds")
	}

	prevLocation := item.Location
	targetSlot := target.GetSlot(slotIndex)

	if targetSlot.Empty() {
		clearEquipIfEquipped(w, item)
		target.SetSlot(slotIndex, refPtr(item.InstanceID), refPtr(item.ItemDefID))
		item.Location = model.NewContainerLocation(target.ContainerType(), target.ContainerID(), slotIndex)
		return nil
	}

	targetItem, ok := w.InventoryItems.Get(*targetSlot.InstanceID)
	if !ok {
		return fail(ErrConsistency, "slot holds a nonexistent instance")
	}

	if targetItem.ItemDefID == item.ItemDefID && def.IsStackable && targetItem.Quantity < def.StackSize {
		mergeStacks(w, item, targetItem, def.StackSize)
		clearEquipIfEquipped(w, item)
		return nil
	}

	// Swap: target item adopts source's prior location, source takes the slot.
	clearEquipIfEquipped(w, item)
	targetItem.Location = prevLocation
	item.Location = model.NewContainerLocation(target.ContainerType(), target.ContainerID(), slotIndex)
	target.SetSlot(slotIndex, refPtr(item.InstanceID), refPtr(item.ItemDefID))
	return nil
}

// MoveToPlayer implements §4.1 move_to_player: clear the source
// container slot first, then delegate to the player-inventory move
// (merge/swap), rolling back the source-slot clear on failure.
func MoveToPlayer(w *World, source Container, sourceSlot int, destKind model.LocationKind, owner model.Identity, destSlot int) error {
	if sourceSlot < 0 || sourceSlot >= source.NumSlots() {
		return fail(ErrValidation, "source slot index out of bounds")
	}
	slot := source.GetSlot(sourceSlot)
	if slot.Empty() {
		return fail(ErrValidation, "source slot is empty")
	}
	item, ok := w.InventoryItems.Get(*slot.InstanceID)
	if !ok {
		return fail(ErrConsistency, "slot holds a nonexistent instance")
	}
	def, ok := w.ItemDefinitions.Get(item.ItemDefID)
	if !ok {
		return fail(ErrNotFound, "item definition not found")
	}

	// Clear source slot first (§4.1).
	source.SetSlot(sourceSlot, nil, nil)

	destLoc := model.NewInventoryLocation(owner, destSlot)
	if destKind == model.LocHotbar {
		destLoc = model.NewHotbarLocation(owner, destSlot)
	}

	existing := findItemAtLocation(w, destLoc)
	if existing == nil {
		item.Location = destLoc
		return nil
	}

	if existing.ItemDefID == item.ItemDefID && def.IsStackable && existing.Quantity < def.StackSize {
		mergeStacks(w, item, existing, def.StackSize)
		return nil
	}

	// Swap: existing item goes back into the now-empty container slot.
	existing.Location = model.NewContainerLocation(source.ContainerType(), source.ContainerID(), sourceSlot)
	source.SetSlot(sourceSlot, refPtr(existing.InstanceID), refPtr(existing.ItemDefID))
	item.Location = destLoc
	return nil
}

// MoveWithinContainer implements §4.1 move_within_container: merge if
// possible, else swap, else move to empty.
func MoveWithinContainer(w *World, holder Container, i, j int) error {
	if i < 0 || i >= holder.NumSlots() || j < 0 || j >= holder.NumSlots() {
		return fail(ErrValidation, "slot index out of bounds")
	}
	if i == j {
		return nil
	}
	from := holder.GetSlot(i)
	if from.Empty() {
		return fail(ErrValidation, "source slot is empty")
	}
	fromItem, ok := w.InventoryItems.Get(*from.InstanceID)
	if !ok {
		return fail(ErrConsistency, "slot holds a nonexistent instance")
	}
	def, _ := w.ItemDefinitions.Get(fromItem.ItemDefID)

	to := holder.GetSlot(j)
	if to.Empty() {
		holder.SetSlot(j, refPtr(fromItem.InstanceID), refPtr(fromItem.ItemDefID))
		holder.SetSlot(i, nil, nil)
		fromItem.Location = model.NewContainerLocation(holder.ContainerType(), holder.ContainerID(), j)
		return nil
	}

	toItem, ok := w.InventoryItems.Get(*to.InstanceID)
	if !ok {
		return fail(ErrConsistency, "slot holds a nonexistent instance")
	}
	if def != nil && toItem.ItemDefID == fromItem.ItemDefID && def.IsStackable && toItem.Quantity < def.StackSize {
		mergeStacks(w, fromItem, toItem, def.StackSize)
		holder.SetSlot(i, nil, nil)
		return nil
	}

	// Swap in place.
	holder.SetSlot(i, refPtr(toItem.InstanceID), refPtr(toItem.ItemDefID))
	holder.SetSlot(j, refPtr(fromItem.InstanceID), refPtr(fromItem.ItemDefID))
	fromItem.Location = model.NewContainerLocation(holder.ContainerType(), holder.ContainerID(), j)
	toItem.Location = model.NewContainerLocation(holder.ContainerType(), holder.ContainerID(), i)
	return nil
}

// splitSource decrements source by qty and inserts a new InventoryItem
// at newLocation with quantity qty (§4.1 split rule). Returns the new
// item, or an error if the split is invalid.
func splitSource(w *World, source *model.InventoryItem, def *model.ItemDefinition, qty int, newLocation model.ItemLocation) (*model.InventoryItem, error) {
	if !def.IsStackable {
		return nil, fail(ErrValidation, "item is not stackable")
	}
	if qty <= 0 || qty >= source.Quantity {
		return nil, fail(ErrValidation, "split quantity must be between 1 and source quantity - 1")
	}
	source.Quantity -= qty
	newItem := &model.InventoryItem{
		InstanceID: newInstanceID(w),
		ItemDefID:  source.ItemDefID,
		Quantity:   qty,
		Location:   newLocation,
	}
	w.InventoryItems.Insert(newItem.InstanceID, newItem)
	return newItem, nil
}

// SplitIntoContainerSlot implements §4.1 split_into_container_slot.
// On placement failure the new instance is deleted and the source
// quantity is refunded, per the component's rollback discipline (§7).
func SplitIntoContainerSlot(w *World, sender model.Identity, sourceInstanceID uint64, qty int, target Container, slotIndex int) error {
	source, def, err := requireSenderOwns(w, sender, sourceInstanceID)
	if err != nil {
		return err
	}
	if slotIndex < 0 || slotIndex >= target.NumSlots() {
		return fail(ErrValidation, "slot index out of bounds")
	}

	placeholderLoc := source.Location
	newItem, err := splitSource(w, source, def, qty, placeholderLoc)
	if err != nil {
		return err
	}

	if placeErr := PlaceIntoSlot(w, sender, newItem.InstanceID, target, slotIndex); placeErr != nil {
		// Rollback: delete the new instance, refund the source quantity.
		w.InventoryItems.Delete(newItem.InstanceID)
		source.Quantity += qty
		return placeErr
	}
	return nil
}

// SplitFromContainer implements §4.1 split_from_container, the mirror
// of SplitIntoContainerSlot: split out of a container slot into a
// player inventory/hotbar slot.
func SplitFromContainer(w *World, holder Container, slotIndex int, qty int, destKind model.LocationKind, owner model.Identity, destSlot int) error {
	if slotIndex < 0 || slotIndex >= holder.NumSlots() {
		return fail(ErrValidation, "slot index out of bounds")
	}
	slot := holder.GetSlot(slotIndex)
	if slot.Empty() {
		return fail(ErrValidation, "source slot is empty")
	}
	source, ok := w.InventoryItems.Get(*slot.InstanceID)
	if !ok {
		return fail(ErrConsistency, "slot holds a nonexistent instance")
	}
	def, ok := w.ItemDefinitions.Get(source.ItemDefID)
	if !ok {
		return fail(ErrNotFound, "item definition not found")
	}

	destLoc := model.NewInventoryLocation(owner, destSlot)
	if destKind == model.LocHotbar {
		destLoc = model.NewHotbarLocation(owner, destSlot)
	}

	newItem, err := splitSource(w, source, def, qty, destLoc)
	if err != nil {
		return err
	}

	existing := findItemAtLocation(w, destLoc)
	if existing != nil && existing.InstanceID != newItem.InstanceID {
		if existing.ItemDefID == newItem.ItemDefID && def.IsStackable && existing.Quantity < def.StackSize {
			mergeStacks(w, newItem, existing, def.StackSize)
			return nil
		}
		// Destination occupied by a non-mergeable stack: rollback.
		w.InventoryItems.Delete(newItem.InstanceID)
		source.Quantity += qty
		return fail(ErrExhaustion, "destination slot occupied by an incompatible stack")
	}
	return nil
}

// QuickMoveToContainer implements §4.1 quick_move_to_container:
// prefer a stackable partial slot, otherwise the first empty slot.
func QuickMoveToContainer(w *World, sender model.Identity, itemInstanceID uint64, target Container) error {
	item, def, err := requireSenderOwns(w, sender, itemInstanceID)
	if err != nil {
		return err
	}

	firstEmpty := -1
	for i := 0; i < target.NumSlots(); i++ {
		slot := target.GetSlot(i)
		if slot.Empty() {
			if firstEmpty == -1 {
				firstEmpty = i
			}
			continue
		}
		if def.IsStackable && *slot.DefID == item.ItemDefID {
			existing, ok := w.InventoryItems.Get(*slot.InstanceID)
			if ok && existing.Quantity < def.StackSize {
				return PlaceIntoSlot(w, sender, itemInstanceID, target, i)
			}
		}
	}
	if firstEmpty == -1 {
		return fail(ErrExhaustion, "container is full")
	}
	return PlaceIntoSlot(w, sender, itemInstanceID, target, firstEmpty)
}

// QuickMoveFromContainer implements §4.1 quick_move_from_container:
// first empty or mergeable player slot, trying hotbar then inventory.
func QuickMoveFromContainer(w *World, holder Container, slotIndex int, owner model.Identity, hotbarSize, inventorySize int) error {
	if slotIndex < 0 || slotIndex >= holder.NumSlots() {
		return fail(ErrValidation, "slot index out of bounds")
	}
	slot := holder.GetSlot(slotIndex)
	if slot.Empty() {
		return fail(ErrValidation, "source slot is empty")
	}
	item, ok := w.InventoryItems.Get(*slot.InstanceID)
	if !ok {
		return fail(ErrConsistency, "slot holds a nonexistent instance")
	}
	def, _ := w.ItemDefinitions.Get(item.ItemDefID)

	tryKind := func(kind model.LocationKind, size int) (int, bool) {
		firstEmpty := -1
		for i := 0; i < size; i++ {
			loc := model.NewInventoryLocation(owner, i)
			if kind == model.LocHotbar {
				loc = model.NewHotbarLocation(owner, i)
			}
			existing := findItemAtLocation(w, loc)
			if existing == nil {
				if firstEmpty == -1 {
					firstEmpty = i
				}
				continue
			}
			if def != nil && def.IsStackable && existing.ItemDefID == item.ItemDefID && existing.Quantity < def.StackSize {
				return i, true
			}
		}
		return firstEmpty, firstEmpty != -1
	}

	if i, ok := tryKind(model.LocHotbar, hotbarSize); ok {
		return MoveToPlayer(w, holder, slotIndex, model.LocHotbar, owner, i)
	}
	if i, ok := tryKind(model.LocInventory, inventorySize); ok {
		return MoveToPlayer(w, holder, slotIndex, model.LocInventory, owner, i)
	}
	return fail(ErrExhaustion, "player inventory and hotbar are full")
}

// SpawnDropped creates a DroppedItem near pos with a small random
// offset, used by drop/split-and-drop here and by combat/deployable
// destruction scatter elsewhere.
func SpawnDropped(w *World, rng *rand.Rand, itemDefID uint64, qty int, pos model.Vec2) *model.DroppedItem {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	offsetX := (rng.Float64()*2 - 1) * 20
	offsetY := (rng.Float64()*2 - 1) * 20
	d := &model.DroppedItem{
		ID:        w.DroppedItems.NextAutoIncrement(),
		X:         pos.X + offsetX,
		Y:         pos.Y + offsetY,
		ItemDefID: itemDefID,
		Quantity:  qty,
	}
	w.DroppedItems.Insert(d.ID, d)
	return d
}

// DropFromSlot implements §4.1 drop_from_slot for a container slot.
func DropFromSlot(w *World, rng *rand.Rand, holder Container, slotIndex int, pos model.Vec2) error {
	if slotIndex < 0 || slotIndex >= holder.NumSlots() {
		return fail(ErrValidation, "slot index out of bounds")
	}
	slot := holder.GetSlot(slotIndex)
	if slot.Empty() {
		return fail(ErrValidation, "slot is empty")
	}
	item, ok := w.InventoryItems.Get(*slot.InstanceID)
	if !ok {
		return fail(ErrConsistency, "slot holds a nonexistent instance")
	}
	SpawnDropped(w, rng, item.ItemDefID, item.Quantity, pos)
	w.InventoryItems.Delete(item.InstanceID)
	holder.SetSlot(slotIndex, nil, nil)
	return nil
}

// SplitAndDrop implements §4.1 split_and_drop for a container slot.
func SplitAndDrop(w *World, rng *rand.Rand, holder Container, slotIndex int, qty int, pos model.Vec2) error {
	if slotIndex < 0 || slotIndex >= holder.NumSlots() {
		return fail(ErrValidation, "slot index out of bounds")
	}
	slot := holder.GetSlot(slotIndex)
	if slot.Empty() {
		return fail(ErrValidation, "slot is empty")
	}
	source, ok := w.InventoryItems.Get(*slot.InstanceID)
	if !ok {
		return fail(ErrConsistency, "slot holds a nonexistent instance")
	}
	def, ok := w.ItemDefinitions.Get(source.ItemDefID)
	if !ok {
		return fail(ErrNotFound, "item definition not found")
	}
	if qty <= 0 || qty >= source.Quantity || !def.IsStackable {
		return fail(ErrValidation, "invalid split quantity")
	}
	source.Quantity -= qty
	SpawnDropped(w, rng, source.ItemDefID, qty, pos)
	return nil
}

// DropFromPlayerSlot drops an item directly held by a player
// (Inventory/Hotbar/Equipped), the player-side counterpart of
// DropFromSlot used by the equivalent player-facing reducer.
func DropFromPlayerSlot(w *World, rng *rand.Rand, sender model.Identity, itemInstanceID uint64, pos model.Vec2) error {
	item, ok := w.InventoryItems.Get(itemInstanceID)
	if !ok {
		return fail(ErrNotFound, "item instance not found")
	}
	if !item.Location.IsPlayerHeld(sender) && !(item.Location.Kind == model.LocEquipped && item.Location.Owner == sender) {
		return fail(ErrValidation, "item is not in sender's inventory, hotbar, or equipment")
	}
	clearEquipIfEquipped(w, item)
	SpawnDropped(w, rng, item.ItemDefID, item.Quantity, pos)
	w.InventoryItems.Delete(itemInstanceID)
	return nil
}

// SplitAndDropFromPlayer is the player-side counterpart of SplitAndDrop.
func SplitAndDropFromPlayer(w *World, rng *rand.Rand, sender model.Identity, itemInstanceID uint64, qty int, pos model.Vec2) error {
	item, def, err := requireSenderOwns(w, sender, itemInstanceID)
	if err != nil {
		return err
	}
	if qty <= 0 || qty >= item.Quantity || !def.IsStackable {
		return fail(ErrValidation, "invalid split quantity")
	}
	item.Quantity -= qty
	SpawnDropped(w, rng, item.ItemDefID, qty, pos)
	return nil
}
