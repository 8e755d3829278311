package deployable_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"survivalcore/internal/deployable"
	"survivalcore/internal/model"
)

func TestTick_RespawnsTreeAndStoneHealth(t *testing.T) {
	w := newTestWorld()
	now := time.Now()
	past := now.Add(-time.Second)

	tree := &model.Tree{ID: 1, X: 0, Y: 0, Health: 0, MaxHealth: 100, RespawnAt: &past}
	w.Trees.Insert(tree.ID, tree)
	stone := &model.Stone{ID: 1, X: 0, Y: 0, Health: 0, MaxHealth: 50, RespawnAt: &past}
	w.Stones.Insert(stone.ID, stone)

	deployable.Tick(w, now)

	assert.Equal(t, 100.0, tree.Health)
	assert.Nil(t, tree.RespawnAt)
	assert.Equal(t, 50.0, stone.Health)
	assert.Nil(t, stone.RespawnAt)
}

func TestTick_ClearsGrassMushroomCropWithoutHealthReset(t *testing.T) {
	w := newTestWorld()
	now := time.Now()
	past := now.Add(-time.Second)

	grass := &model.Grass{ID: 1, X: 0, Y: 0, RespawnAt: &past}
	w.Grass.Insert(grass.ID, grass)
	mushroom := &model.Mushroom{ID: 1, X: 0, Y: 0, Health: 0, RespawnAt: &past}
	w.Mushrooms.Insert(mushroom.ID, mushroom)
	crop := &model.Crop{ID: 1, X: 0, Y: 0, Health: 0, RespawnAt: &past}
	w.Crops.Insert(crop.ID, crop)

	deployable.Tick(w, now)

	assert.Nil(t, grass.RespawnAt)
	assert.Nil(t, mushroom.RespawnAt)
	assert.Equal(t, 0.0, mushroom.Health, "mushroom has no max-health field to restore to")
	assert.Nil(t, crop.RespawnAt)
}

func TestTick_LeavesFutureRespawnsUntouched(t *testing.T) {
	w := newTestWorld()
	now := time.Now()
	future := now.Add(time.Minute)

	tree := &model.Tree{ID: 1, X: 0, Y: 0, Health: 0, MaxHealth: 100, RespawnAt: &future}
	w.Trees.Insert(tree.ID, tree)

	deployable.Tick(w, now)

	assert.Equal(t, 0.0, tree.Health)
	assert.NotNil(t, tree.RespawnAt)
}

func TestTick_IgnoresEntitiesWithNoRespawnPending(t *testing.T) {
	w := newTestWorld()
	tree := &model.Tree{ID: 1, X: 0, Y: 0, Health: 42, MaxHealth: 100, RespawnAt: nil}
	w.Trees.Insert(tree.ID, tree)

	deployable.Tick(w, time.Now())

	assert.Equal(t, 42.0, tree.Health)
}
