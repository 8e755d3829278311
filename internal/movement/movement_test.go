package movement_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survivalcore/internal/model"
	"survivalcore/internal/movement"
	"survivalcore/internal/store"
)

func newTestWorld() *store.World {
	return store.NewWorld(store.NewScheduler(0, 1))
}

func newPlayer(w *store.World, id model.Identity, x, y float64) *model.Player {
	p := &model.Player{Identity: id, X: x, Y: y, Health: 100, MaxHealth: 100, Stamina: 100, MaxStamina: 100, Thirst: 100, Warmth: 100}
	w.Players.Insert(id, p)
	return p
}

func TestEffectiveSpeed_StacksModifiers(t *testing.T) {
	p := &model.Player{Thirst: 100, Warmth: 100}
	base := movement.EffectiveSpeed(p, time.Now())
	assert.Equal(t, 200.0, base)

	p.IsCrouching = true
	assert.Equal(t, 100.0, movement.EffectiveSpeed(p, time.Now()))

	p.IsCrouching = false
	p.IsSprinting = true
	p.Stamina = 50
	assert.Equal(t, 300.0, movement.EffectiveSpeed(p, time.Now()))

	p.IsSprinting = false
	p.Thirst = 5
	assert.Equal(t, 150.0, movement.EffectiveSpeed(p, time.Now()))
}

func TestUpdatePlayerPosition_MovesAndSetsFacing(t *testing.T) {
	w := newTestWorld()
	p := newPlayer(w, "alice", 1000, 1000)

	err := movement.UpdatePlayerPosition(w, time.Now(), "alice", 1, 0)
	require.NoError(t, err)
	assert.Greater(t, p.X, 1000.0)
	assert.Equal(t, "right", p.Direction)
}

func TestUpdatePlayerPosition_RejectsDeadPlayer(t *testing.T) {
	w := newTestWorld()
	p := newPlayer(w, "alice", 1000, 1000)
	p.IsDead = true

	err := movement.UpdatePlayerPosition(w, time.Now(), "alice", 1, 0)
	assert.Error(t, err)
}

func TestUpdatePlayerPosition_PushesOutOfTreeOverlap(t *testing.T) {
	w := newTestWorld()
	p := newPlayer(w, "alice", 1000, 1000)
	w.Trees.Insert(1, &model.Tree{ID: 1, X: 1005, Y: 990, Health: 100, MaxHealth: 100})

	err := movement.UpdatePlayerPosition(w, time.Now(), "alice", 0, 0)
	require.NoError(t, err)

	dist := math.Hypot(p.X-1005, p.Y-1000) // tree's effective collision center is (X, Y+TreeCollisionYOffset)
	assert.InDelta(t, 32.0+30.0, dist, 0.5, "player should be pushed exactly to the collision radius sum")
}

func TestUpdatePlayerPosition_AutoUncrouchesOnWater(t *testing.T) {
	w := newTestWorld()
	p := newPlayer(w, "alice", 1000, 1000)
	p.IsCrouching = true
	p.OnWater = true

	require.NoError(t, movement.UpdatePlayerPosition(w, time.Now(), "alice", 0, 0))
	assert.False(t, p.IsCrouching)
}

func TestUpdatePlayerPositionSimple_RejectsTeleport(t *testing.T) {
	w := newTestWorld()
	newPlayer(w, "alice", 1000, 1000)
	now := time.Now()

	err := movement.UpdatePlayerPositionSimple(w, now, "alice", 5000, 5000, now.UnixMilli(), false, "down")
	assert.Error(t, err)
}

func TestUpdatePlayerPositionSimple_RejectsStaleTimestamp(t *testing.T) {
	w := newTestWorld()
	newPlayer(w, "alice", 1000, 1000)
	now := time.Now()

	err := movement.UpdatePlayerPositionSimple(w, now, "alice", 1010, 1000, now.Add(-20*time.Second).UnixMilli(), false, "right")
	assert.Error(t, err)
}

func TestUpdatePlayerPositionSimple_RejectsImpossibleSpeed(t *testing.T) {
	w := newTestWorld()
	p := newPlayer(w, "alice", 1000, 1000)
	p.LastUpdate = time.Now()
	later := p.LastUpdate.Add(100 * time.Millisecond)

	err := movement.UpdatePlayerPositionSimple(w, later, "alice", 1350, 1000, later.UnixMilli(), true, "right")
	assert.Error(t, err)
}

func TestUpdatePlayerPositionSimple_AcceptsPlausibleMove(t *testing.T) {
	w := newTestWorld()
	p := newPlayer(w, "alice", 1000, 1000)
	p.LastUpdate = time.Now()
	later := p.LastUpdate.Add(200 * time.Millisecond)

	err := movement.UpdatePlayerPositionSimple(w, later, "alice", 1040, 1000, later.UnixMilli(), false, "right")
	require.NoError(t, err)
	assert.Equal(t, 1040.0, p.X)
	assert.Equal(t, "right", p.Direction)
}

func TestDodgeRoll_StartAdvanceAndComplete(t *testing.T) {
	w := newTestWorld()
	p := newPlayer(w, "alice", 1000, 1000)
	now := time.Now()

	require.NoError(t, movement.StartDodgeRoll(w, now, "alice", 1, 0))
	roll, ok := w.DodgeRolls.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "right", roll.Direction)

	mid := now.Add(100 * time.Millisecond)
	require.NoError(t, movement.UpdatePlayerPosition(w, mid, "alice", 0, -1))
	assert.Greater(t, p.X, 1000.0)
	assert.Equal(t, "right", p.Direction, "facing stays locked to the roll direction mid-roll")
	_, stillRolling := w.DodgeRolls.Get("alice")
	assert.True(t, stillRolling)

	done := now.Add(400 * time.Millisecond)
	require.NoError(t, movement.UpdatePlayerPosition(w, done, "alice", 0, 0))
	_, stillRolling = w.DodgeRolls.Get("alice")
	assert.False(t, stillRolling, "roll state is deleted once its duration elapses")
}

func TestDodgeRoll_RejectsWhileCrouching(t *testing.T) {
	w := newTestWorld()
	p := newPlayer(w, "alice", 1000, 1000)
	p.IsCrouching = true

	err := movement.StartDodgeRoll(w, time.Now(), "alice", 1, 0)
	assert.Error(t, err)
}

func TestDodgeRoll_RejectsOnCooldown(t *testing.T) {
	w := newTestWorld()
	newPlayer(w, "alice", 1000, 1000)
	now := time.Now()
	require.NoError(t, movement.StartDodgeRoll(w, now, "alice", 1, 0))
	require.NoError(t, movement.UpdatePlayerPosition(w, now.Add(400*time.Millisecond), "alice", 0, 0))

	err := movement.StartDodgeRoll(w, now.Add(500*time.Millisecond), "alice", 1, 0)
	assert.Error(t, err)

	err = movement.StartDodgeRoll(w, now.Add(1100*time.Millisecond), "alice", 1, 0)
	assert.NoError(t, err)
}

func TestUpdatePlayerFacingDirection_IgnoredWhileRecentlyMoving(t *testing.T) {
	w := newTestWorld()
	p := newPlayer(w, "alice", 1000, 1000)
	now := time.Now()
	require.NoError(t, movement.UpdatePlayerPosition(w, now, "alice", 1, 0))
	assert.Equal(t, "right", p.Direction)

	err := movement.UpdatePlayerFacingDirection(w, now.Add(50*time.Millisecond), "alice", model.Vec2{X: 1000, Y: 900})
	require.NoError(t, err)
	assert.Equal(t, "right", p.Direction, "mouse facing is suppressed within 100ms of movement")
}

func TestUpdatePlayerFacingDirection_FollowsMouseWhenIdle(t *testing.T) {
	w := newTestWorld()
	p := newPlayer(w, "alice", 1000, 1000)
	now := time.Now()
	require.NoError(t, movement.UpdatePlayerPosition(w, now, "alice", 1, 0))

	err := movement.UpdatePlayerFacingDirection(w, now.Add(200*time.Millisecond), "alice", model.Vec2{X: 1000, Y: 900})
	require.NoError(t, err)
	assert.Equal(t, "up", p.Direction)
}
