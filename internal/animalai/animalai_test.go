package animalai_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survivalcore/internal/animalai"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

func newTestWorld() *store.World {
	return store.NewWorld(store.NewScheduler(0, 1))
}

func newWolf(w *store.World, id uint64, x, y float64) *model.WildAnimal {
	a := &model.WildAnimal{
		ID: id, Species: model.SpeciesTundraWolf,
		X: x, Y: y, SpawnX: x, SpawnY: y,
		Health: 140, MaxHealth: 140,
		State: model.StatePatrolling,
	}
	w.Animals.Insert(id, a)
	return a
}

func TestForSpecies_ReturnsDistinctBehaviorPerSpecies(t *testing.T) {
	assert.NotEqual(t, animalai.ForSpecies(model.SpeciesCinderFox).Stats(), animalai.ForSpecies(model.SpeciesTundraWolf).Stats())
	assert.True(t, animalai.ForSpecies(model.SpeciesCinderFox).CanBeTamed())
	assert.False(t, animalai.ForSpecies(model.SpeciesTundraWolf).CanBeTamed())
	assert.Equal(t, 360.0, animalai.ForSpecies(model.SpeciesCableViper).Stats().PerceptionAngle)
}

func TestTick_ChasesNearbyPlayerWithinPerceptionRange(t *testing.T) {
	w := newTestWorld()
	a := newWolf(w, 1, 0, 0)
	w.Players.Insert("alice", &model.Player{Identity: "alice", X: 100, Y: 0, Health: 100, MaxHealth: 100})

	now := time.Now()
	animalai.Tick(w, rand.New(rand.NewSource(1)), now)

	assert.Equal(t, model.StateChasing, a.State)
	require.NotNil(t, a.TargetPlayer)
	assert.Equal(t, model.Identity("alice"), *a.TargetPlayer)
}

func TestTick_IgnoresPlayerOutsidePerceptionRange(t *testing.T) {
	w := newTestWorld()
	a := newWolf(w, 1, 0, 0)
	w.Players.Insert("alice", &model.Player{Identity: "alice", X: 5000, Y: 0, Health: 100, MaxHealth: 100})

	animalai.Tick(w, rand.New(rand.NewSource(1)), time.Now())

	assert.Equal(t, model.StatePatrolling, a.State)
}

func TestTick_LowHealthForcesFlee(t *testing.T) {
	w := newTestWorld()
	a := newWolf(w, 1, 0, 0)
	a.Health = 1 // far below wolf's 20% flee threshold

	animalai.Tick(w, rand.New(rand.NewSource(1)), time.Now())

	assert.Equal(t, model.StateFleeing, a.State)
}

func TestTick_AttacksPlayerInRangeAndAppliesKnockback(t *testing.T) {
	w := newTestWorld()
	a := newWolf(w, 1, 0, 0)
	a.State = model.StateChasing
	target := model.Identity("alice")
	a.TargetPlayer = &target
	w.Players.Insert("alice", &model.Player{Identity: "alice", X: 30, Y: 0, Health: 100, MaxHealth: 100})

	now := time.Now()
	animalai.Tick(w, rand.New(rand.NewSource(1)), now)

	p, _ := w.Players.Get("alice")
	assert.Less(t, p.Health, 100.0, "in-range chase should land an attack")
	assert.NotEqual(t, 30.0, p.X, "a successful hit should apply species knockback")
	require.NotNil(t, a.LastAttackTime)
}

func TestTick_TamableFoxEatsNearbyFoodAndFollowsTamer(t *testing.T) {
	w := newTestWorld()
	fox := &model.WildAnimal{
		ID: 1, Species: model.SpeciesCinderFox,
		X: 0, Y: 0, SpawnX: 0, SpawnY: 0,
		Health: 60, MaxHealth: 60,
		State: model.StatePatrolling,
	}
	w.Animals.Insert(fox.ID, fox)
	w.Players.Insert("alice", &model.Player{Identity: "alice", X: 10, Y: 0, Health: 100, MaxHealth: 100})
	const meatDefID uint64 = 1
	w.ItemDefinitions.Insert(meatDefID, &model.ItemDefinition{ID: meatDefID, Name: "Raw Meat"})
	w.DroppedItems.Insert(100, &model.DroppedItem{ID: 100, X: 5, Y: 0, ItemDefID: meatDefID, Quantity: 1})

	now := time.Now()
	animalai.Tick(w, rand.New(rand.NewSource(1)), now)

	require.NotNil(t, fox.TamedBy)
	assert.Equal(t, model.Identity("alice"), *fox.TamedBy)
	assert.Equal(t, model.StateFollowing, fox.State)
	_, stillDropped := w.DroppedItems.Get(100)
	assert.False(t, stillDropped, "eaten food is removed from the ground")
}

func TestTick_TamedAnimalRevertsToWildAfterOwnerDeathGrace(t *testing.T) {
	w := newTestWorld()
	owner := model.Identity("alice")
	w.Players.Insert(owner, &model.Player{Identity: owner, X: 0, Y: 0, IsDead: true, DeathTimestamp: time.Now().Add(-2 * time.Minute)})
	fox := &model.WildAnimal{
		ID: 1, Species: model.SpeciesCinderFox,
		X: 10, Y: 0, SpawnX: 10, SpawnY: 0,
		Health: 60, MaxHealth: 60,
		State: model.StateFollowing, TamedBy: &owner,
	}
	w.Animals.Insert(fox.ID, fox)

	animalai.Tick(w, rand.New(rand.NewSource(1)), time.Now())

	assert.Nil(t, fox.TamedBy)
	assert.Equal(t, model.StatePatrolling, fox.State)
}

func TestTick_PackFormationJoinsTwoSoloWolves(t *testing.T) {
	w := newTestWorld()
	a := newWolf(w, 1, 0, 0)
	b := newWolf(w, 2, 50, 0)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500 && a.PackID == nil; i++ {
		animalai.Tick(w, rng, time.Now().Add(time.Duration(i+1)*6*time.Second))
	}

	require.NotNil(t, a.PackID)
	require.NotNil(t, b.PackID)
	assert.Equal(t, *a.PackID, *b.PackID)
	assert.True(t, a.IsPackLeader != b.IsPackLeader, "exactly one of the pair becomes the alpha")
}

func TestTick_FireFearMakesNonWalrusFlee(t *testing.T) {
	w := newTestWorld()
	a := newWolf(w, 1, 50, 0)
	w.Campfires.Insert(1, &model.Campfire{ID: 1, X: 0, Y: 0, IsBurning: true})

	animalai.Tick(w, rand.New(rand.NewSource(1)), time.Now())

	assert.Equal(t, model.StateFleeing, a.State)
}

func TestTick_WalrusIgnoresFire(t *testing.T) {
	w := newTestWorld()
	walrus := &model.WildAnimal{
		ID: 1, Species: model.SpeciesArcticWalrus,
		X: 50, Y: 0, SpawnX: 50, SpawnY: 0,
		Health: 260, MaxHealth: 260,
		State: model.StatePatrolling,
	}
	w.Animals.Insert(walrus.ID, walrus)
	w.Campfires.Insert(1, &model.Campfire{ID: 1, X: 0, Y: 0, IsBurning: true})

	animalai.Tick(w, rand.New(rand.NewSource(1)), time.Now())

	assert.NotEqual(t, model.StateFleeing, walrus.State)
}
