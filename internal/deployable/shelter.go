package deployable

import (
	"survivalcore/internal/config"
	"survivalcore/internal/model"
	"survivalcore/internal/spatial"
	"survivalcore/internal/store"
)

// chunkIndex computes a world position's chunk_index using the
// configured world width (§3.2's chunk_index == f(pos_x, pos_y)
// invariant), the same spatial.ChunkIndex helper the spec names for
// every spatially located entity.
func chunkIndex(x, y float64) int64 {
	world := config.DefaultWorld()
	widthChunks := int(world.WidthPx / spatial.ChunkSize)
	if widthChunks < 1 {
		widthChunks = 1
	}
	return spatial.ChunkIndex(x, y, widthChunks)
}

// PlaceShelter implements place_shelter(instance_id, x, y) (§4.6.2,
// §6.2). The stored Y is offset by the client's render offset so the
// collision AABB (computed separately from pos_y) lines up with the
// sprite, per original_source/server/src/shelter.rs's
// SHELTER_VISUAL_RENDER_OFFSET_Y comment.
func PlaceShelter(w *store.World, identity model.Identity, itemInstanceID uint64, worldX, worldY float64) error {
	p, ok := w.Players.Get(identity)
	if !ok {
		return fail(ErrNotFound, "player not found")
	}
	if p.IsDead {
		return fail(ErrValidation, "cannot place shelter while dead")
	}
	if p.IsKnockedOut {
		return fail(ErrValidation, "cannot place shelter while knocked out")
	}

	dist := (model.Vec2{X: worldX, Y: worldY}).Sub(model.Vec2{X: p.X, Y: p.Y}).Length()
	if dist > config.ShelterPlacementMaxDistance {
		return fail(ErrValidation, "placement too far away")
	}

	item, ok := w.InventoryItems.Get(itemInstanceID)
	if !ok {
		return fail(ErrNotFound, "item instance not found")
	}
	if !item.Location.IsPlayerHeld(identity) {
		return fail(ErrValidation, "shelter item must be in inventory or hotbar to be placed")
	}
	def, ok := w.ItemDefinitions.Get(item.ItemDefID)
	if !ok || def.Name != "Shelter" {
		return fail(ErrValidation, "item is not a Shelter")
	}

	w.InventoryItems.Delete(itemInstanceID)

	adjustedY := worldY + config.ShelterClickYRenderOffset
	sh := &model.Shelter{
		ID:        w.Shelters.NextAutoIncrement(),
		X:         worldX,
		Y:         adjustedY,
		Chunk:     chunkIndex(worldX, adjustedY),
		PlacedBy:  identity,
		Health:    config.ShelterInitialMaxHealth,
		MaxHealth: config.ShelterInitialMaxHealth,
	}
	w.Shelters.Insert(sh.ID, sh)

	clearResourcesInShelterFootprint(w, worldX, adjustedY)
	return nil
}

// clearResourcesInShelterFootprint implements §4.6.2's placement-time
// cleanup: delete every tree, stone, grass (and its respawn schedule),
// and mushroom whose position falls within the shelter's AABB expanded
// by the resource-clearing buffer.
func clearResourcesInShelterFootprint(w *store.World, shelterX, adjustedShelterY float64) {
	centerY := adjustedShelterY - config.ShelterAABBCenterYOffset
	left := shelterX - config.ShelterAABBHalfWidth - config.ShelterResourceClearBuffer
	right := shelterX + config.ShelterAABBHalfWidth + config.ShelterResourceClearBuffer
	top := centerY - config.ShelterAABBHalfHeight - config.ShelterResourceClearBuffer
	bottom := centerY + config.ShelterAABBHalfHeight + config.ShelterResourceClearBuffer

	inside := func(x, y float64) bool {
		return x >= left && x <= right && y >= top && y <= bottom
	}

	var treeIDs, stoneIDs, grassIDs, mushroomIDs []uint64
	for _, t := range w.Trees.All() {
		if inside(t.X, t.Y) {
			treeIDs = append(treeIDs, t.ID)
		}
	}
	for _, s := range w.Stones.All() {
		if inside(s.X, s.Y) {
			stoneIDs = append(stoneIDs, s.ID)
		}
	}
	for _, g := range w.Grass.All() {
		if inside(g.X, g.Y) {
			grassIDs = append(grassIDs, g.ID)
		}
	}
	for _, m := range w.Mushrooms.All() {
		if inside(m.X, m.Y) {
			mushroomIDs = append(mushroomIDs, m.ID)
		}
	}

	for _, id := range treeIDs {
		w.Trees.Delete(id)
	}
	for _, id := range stoneIDs {
		w.Stones.Delete(id)
	}
	for _, id := range grassIDs {
		w.Grass.Delete(id)
	}
	for _, id := range mushroomIDs {
		w.Mushrooms.Delete(id)
	}
}
