package deployable

import (
	"math/rand"
	"time"

	"survivalcore/internal/config"
	"survivalcore/internal/container"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// campfireSchedulerName is the reducer name registered for per-campfire
// fuel-burn processing (§4.6.1, §6.3). The row's PK doubles as the
// campfire ID, matching the original schedule table's
// campfire_id_for_schedule primary key.
const campfireSchedulerName = "process_campfire_logic_scheduled"

// findItemDefByName duplicates combat.FindItemDefByName's linear scan.
// internal/combat already imports internal/deployable (for shelter LOS),
// so deployable cannot import combat back without a cycle; the
// definitions table is small and static enough that a second copy of
// this scan costs nothing.
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

// ValidateCampfireInteraction implements the shared precondition every
// campfire reducer opens with: the player exists, is alive, and is
// within interaction range of a non-destroyed campfire.
func ValidateCampfireInteraction(w *store.World, identity model.Identity, campfireID uint64) (*model.Player, *model.Campfire, error) {
	p, ok := w.Players.Get(identity)
	if !ok {
		return nil, nil, fail(ErrNotFound, "player not found")
	}
	if p.IsDead {
		return nil, nil, fail(ErrValidation, "cannot interact with a campfire while dead")
	}
	cf, ok := w.Campfires.Get(campfireID)
	if !ok || cf.IsDestroyed {
		return nil, nil, fail(ErrNotFound, "campfire not found")
	}
	dist := (model.Vec2{X: p.X, Y: p.Y}).Sub(model.Vec2{X: cf.X, Y: cf.Y}).Length()
	if dist > config.CampfireInteractionDistance {
		return nil, nil, fail(ErrValidation, "too far from campfire")
	}
	return p, cf, nil
}

// campfireHasFuel reports whether any fuel slot holds an item whose
// definition burns (§4.6.1 step 3's "scan slots for one with
// fuel_burn_duration_secs > 0").
func campfireHasFuel(w *store.World, cf *model.Campfire) bool {
	for _, slot := range cf.FuelSlots {
		if slot.Empty() {
			continue
		}
		def, ok := w.ItemDefinitions.Get(*slot.DefID)
		if ok && def.FuelBurnDurationSecs > 0 {
			return true
		}
	}
	return false
}

// RescheduleCampfireProcessing implements §4.6.1 step 4: a schedule row
// for this campfire exists iff it is burning and still has fuel.
// Called after every reducer that changes a campfire's fuel slots or
// burning state.
func RescheduleCampfireProcessing(w *store.World, cf *model.Campfire) {
	if cf.IsBurning && campfireHasFuel(w, cf) {
		w.Scheduler.ScheduleEvery(cf.ID, config.CampfireProcessIntervalSecs*time.Second, campfireSchedulerName)
	} else {
		w.Scheduler.Cancel(cf.ID)
	}
}

// ToggleCampfireBurning implements toggle_campfire_burning (§6.2):
// extinguish if lit, otherwise light it provided it has fuel.
func ToggleCampfireBurning(w *store.World, identity model.Identity, campfireID uint64) error {
	_, cf, err := ValidateCampfireInteraction(w, identity, campfireID)
	if err != nil {
		return err
	}
	if cf.IsBurning {
		cf.IsBurning = false
		cf.CurrentFuelDefID = nil
		cf.RemainingFuelBurnTimeSecs = nil
	} else {
		if !campfireHasFuel(w, cf) {
			return fail(ErrValidation, "campfire requires fuel to light")
		}
		cf.IsBurning = true
	}
	RescheduleCampfireProcessing(w, cf)
	return nil
}

// tryAddCharcoalToCampfireOrDrop implements §4.6.1 step 2's charcoal
// placement: stack into an existing Charcoal slot up to stack size,
// else the first empty slot, else drop at the campfire's position.
func tryAddCharcoalToCampfireOrDrop(w *store.World, rng *rand.Rand, cf *model.Campfire, charcoalDef *model.ItemDefinition) {
	firstEmpty := -1
	for i, slot := range cf.FuelSlots {
		if slot.Empty() {
			if firstEmpty == -1 {
				firstEmpty = i
			}
			continue
		}
		if *slot.DefID != charcoalDef.ID {
			continue
		}
		item, ok := w.InventoryItems.Get(*slot.InstanceID)
		if ok && item.Quantity < charcoalDef.StackSize {
			item.Quantity++
			return
		}
	}
	if firstEmpty != -1 {
		id := w.InventoryItems.NextAutoIncrement()
		item := &model.InventoryItem{
			InstanceID: id,
			ItemDefID:  charcoalDef.ID,
			Quantity:   1,
			Location:   model.NewContainerLocation(model.ContainerCampfire, cf.ID, firstEmpty),
		}
		w.InventoryItems.Insert(id, item)
		adapter := container.Campfire{C: cf}
		adapter.SetSlot(firstEmpty, &id, &charcoalDef.ID)
		return
	}
	container.SpawnDropped(w, rng, charcoalDef.ID, 1, model.Vec2{X: cf.X, Y: cf.Y})
}

// ProcessCampfireLogic builds the store.ReducerFunc for a campfire's
// scheduled fuel-burn tick (§4.6.1 steps 1-4), closing over the World
// the way movement.ResolveKnockback closes over it for
// internal/combat's callback contract.
func ProcessCampfireLogic(w *store.World) store.ReducerFunc {
	return func(ctx *store.ReducerContext, row store.ScheduleRow) error {
		if !ctx.IsSystemCall() {
			return fail(ErrValidation, "unauthorized scheduler invocation")
		}
		cf, ok := w.Campfires.Get(row.PK)
		if !ok {
			w.Scheduler.Cancel(row.PK)
			return nil
		}
		if !cf.IsBurning {
			return nil
		}

		if cf.RemainingFuelBurnTimeSecs != nil && *cf.RemainingFuelBurnTimeSecs > 0 {
			remaining := *cf.RemainingFuelBurnTimeSecs - config.CampfireProcessIntervalSecs
			cf.RemainingFuelBurnTimeSecs = &remaining

			if remaining <= 0 {
				consumeCurrentFuelUnit(w, ctx, cf)
			}
		}

		if cf.CurrentFuelDefID == nil {
			selectNextFuel(w, cf)
		}

		RescheduleCampfireProcessing(w, cf)
		return nil
	}
}

// consumeCurrentFuelUnit implements §4.6.1 step 2: decrement the
// burning item's quantity (deleting it if it was the last unit), and
// roll for charcoal production if it was Wood.
func consumeCurrentFuelUnit(w *store.World, ctx *store.ReducerContext, cf *model.Campfire) {
	slotIdx, instanceID := findSlotForDef(cf, *cf.CurrentFuelDefID)
	if slotIdx == -1 {
		cf.CurrentFuelDefID = nil
		cf.RemainingFuelBurnTimeSecs = nil
		return
	}

	item, ok := w.InventoryItems.Get(instanceID)
	if !ok {
		cf.CurrentFuelDefID = nil
		cf.RemainingFuelBurnTimeSecs = nil
		return
	}
	def, defOK := w.ItemDefinitions.Get(item.ItemDefID)
	wasWood := defOK && def.Name == "Wood"

	if item.Quantity > 1 {
		item.Quantity--
		if defOK && def.FuelBurnDurationSecs > 0 {
			next := def.FuelBurnDurationSecs
			cf.RemainingFuelBurnTimeSecs = &next
		}
	} else {
		w.InventoryItems.Delete(instanceID)
		adapter := container.Campfire{C: cf}
		adapter.SetSlot(slotIdx, nil, nil)
		cf.CurrentFuelDefID = nil
		cf.RemainingFuelBurnTimeSecs = nil
	}

	if wasWood && ctx.Rng.Float64() < config.CharcoalProductionChance {
		if charcoalDef, ok := findItemDefByName(w, "Charcoal"); ok {
			tryAddCharcoalToCampfireOrDrop(w, ctx.Rng, cf, charcoalDef)
		}
	}
}

// findSlotForDef returns the fuel slot index and instance ID currently
// holding defID, or (-1, 0) if none does.
func findSlotForDef(cf *model.Campfire, defID uint64) (int, uint64) {
	for i, slot := range cf.FuelSlots {
		if !slot.Empty() && *slot.DefID == defID {
			return i, *slot.InstanceID
		}
	}
	return -1, 0
}

// selectNextFuel implements §4.6.1 step 3: scan for a slot whose item
// still burns and adopt it as the current fuel unit; if none, the
// campfire goes out.
func selectNextFuel(w *store.World, cf *model.Campfire) {
	for _, slot := range cf.FuelSlots {
		if slot.Empty() {
			continue
		}
		def, ok := w.ItemDefinitions.Get(*slot.DefID)
		if ok && def.FuelBurnDurationSecs > 0 {
			cf.CurrentFuelDefID = slot.DefID
			duration := def.FuelBurnDurationSecs
			cf.RemainingFuelBurnTimeSecs = &duration
			return
		}
	}
	cf.IsBurning = false
}
