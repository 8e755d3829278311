package api

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"survivalcore/internal/config"
	"survivalcore/internal/container"
	"survivalcore/internal/deployable"
	"survivalcore/internal/equip"
	"survivalcore/internal/model"
	"survivalcore/internal/movement"
	"survivalcore/internal/projectile"
)

// withIdentity is embedded in every reducer request body: the caller
// identity the runtime would otherwise derive from the authenticated
// connection (§6.1's ReducerContext.Caller).
type withIdentity struct {
	Identity model.Identity `json:"identity"`
}

func (h *routerHandlers) resolveContainer(kind model.ContainerType, id uint64) (container.Container, error) {
	switch kind {
	case model.ContainerCampfire:
		c, ok := h.world.Campfires.Get(id)
		if !ok {
			return nil, errors.New("campfire not found")
		}
		return container.Campfire{C: c}, nil
	case model.ContainerStorageBox:
		c, ok := h.world.StorageBoxes.Get(id)
		if !ok {
			return nil, errors.New("storage box not found")
		}
		return container.StorageBox{C: c}, nil
	case model.ContainerStash:
		c, ok := h.world.Stashes.Get(id)
		if !ok {
			return nil, errors.New("stash not found")
		}
		return container.Stash{C: c}, nil
	case model.ContainerCorpse:
		c, ok := h.world.Corpses.Get(id)
		if !ok {
			return nil, errors.New("corpse not found")
		}
		return container.Corpse{C: c}, nil
	default:
		return nil, errors.New("unknown container type")
	}
}

// reduce runs fn under the world lock and maps its error to an HTTP
// response, matching §7's "every reducer returns either success or a
// human-readable failure" propagation policy.
func (h *routerHandlers) reduce(w http.ResponseWriter, label string, fn func() error) {
	h.world.Mu.Lock()
	err := fn()
	h.world.Mu.Unlock()

	if err != nil {
		RecordReducerRejected(label)
		writeError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// --- player lifecycle (§3.3 "created on first connect") ----------------

// handleConnect creates the player row for an identity on first
// contact, or clears is_dead on an existing corpse-state row — the
// reducer equivalent of the teacher's Engine.AddPlayer join/respawn
// branch (internal/game/engine.go).
func (h *routerHandlers) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req withIdentity
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "connect", func() error {
		if req.Identity == "" {
			return errors.New("identity required")
		}
		if _, ok := h.world.Players.Get(req.Identity); !ok && h.world.Players.Len() >= config.DefaultLimits().MaxPlayers {
			return errors.New("player limit reached")
		}
		if p, ok := h.world.Players.Get(req.Identity); ok {
			if p.IsDead {
				h.world.Players.Update(req.Identity, func(p *model.Player) *model.Player {
					p.IsDead = false
					p.IsKnockedOut = false
					p.Health = p.MaxHealth
					p.X, p.Y = spawnPoint(h.rng)
					return p
				})
			}
			return nil
		}
		h.world.Players.Insert(req.Identity, newPlayer(req.Identity, h.rng, h.now()))
		return nil
	})
}

func spawnPoint(rng *rand.Rand) (float64, float64) {
	const worldW, worldH = 8000, 8000
	return rng.Float64()*worldW*0.8 + worldW*0.1, rng.Float64()*worldH*0.8 + worldH*0.1
}

func newPlayer(identity model.Identity, rng *rand.Rand, now time.Time) *model.Player {
	x, y := spawnPoint(rng)
	return &model.Player{
		Identity:   identity,
		X:          x,
		Y:          y,
		Direction:  "down",
		LastUpdate: now,
		Health:     100, MaxHealth: 100,
		Stamina: 100, MaxStamina: 100,
		Thirst: 100, Warmth: 100,
		Online: true,
	}
}

// --- state / stats -----------------------------------------------------

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.snapshot())
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"playerCount":     h.world.Players.Len(),
		"projectileCount": h.world.Projectiles.Len(),
		"animalCount":     h.world.Animals.Len(),
		"wsConnections":   h.wsHub.ClientCount(),
	})
}

// --- active equipment (§6.2) --------------------------------------------

func (h *routerHandlers) handleSetActiveItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		withIdentity
		ItemInstanceID uint64 `json:"instance_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "set_active_item", func() error {
		return equip.SetActiveItem(h.world, req.Identity, req.ItemInstanceID)
	})
}

func (h *routerHandlers) handleClearActiveItem(w http.ResponseWriter, r *http.Request) {
	var req withIdentity
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "clear_active_item", func() error {
		return equip.ClearActiveItem(h.world, req.Identity)
	})
}

func (h *routerHandlers) handleLoadRangedWeapon(w http.ResponseWriter, r *http.Request) {
	var req withIdentity
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "load_ranged_weapon", func() error {
		return equip.LoadRangedWeapon(h.world, req.Identity)
	})
}

func (h *routerHandlers) handleUseEquippedItem(w http.ResponseWriter, r *http.Request) {
	var req withIdentity
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "use_equipped_item", func() error {
		push := movement.ResolveKnockback(h.world, req.Identity)
		_, err := equip.UseEquippedItem(h.world, h.rng, h.now(), req.Identity, push)
		return err
	})
}

func (h *routerHandlers) handleEquipArmor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		withIdentity
		ItemInstanceID uint64 `json:"instance_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "equip_armor", func() error {
		return equip.EquipArmor(h.world, req.Identity, req.ItemInstanceID)
	})
}

// --- projectiles (§4.3) -------------------------------------------------

func (h *routerHandlers) handleFireProjectile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		withIdentity
		TX float64 `json:"tx"`
		TY float64 `json:"ty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "fire_projectile", func() error {
		_, err := projectile.Fire(h.world, h.rng, h.now(), req.Identity, model.Vec2{X: req.TX, Y: req.TY})
		return err
	})
}

// --- movement (§4.5) ----------------------------------------------------

func (h *routerHandlers) handleUpdatePlayerPosition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		withIdentity
		MoveX float64 `json:"move_x"`
		MoveY float64 `json:"move_y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "update_player_position", func() error {
		return movement.UpdatePlayerPosition(h.world, h.now(), req.Identity, req.MoveX, req.MoveY)
	})
}

func (h *routerHandlers) handleUpdatePlayerPositionSimple(w http.ResponseWriter, r *http.Request) {
	var req struct {
		withIdentity
		X          float64 `json:"x"`
		Y          float64 `json:"y"`
		ClientTsMs int64   `json:"client_ts_ms"`
		Sprinting  bool    `json:"sprinting"`
		Facing     string  `json:"facing"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "update_player_position_simple", func() error {
		return movement.UpdatePlayerPositionSimple(h.world, h.now(), req.Identity, req.X, req.Y, req.ClientTsMs, req.Sprinting, req.Facing)
	})
}

func (h *routerHandlers) handleUpdatePlayerFacingDirection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		withIdentity
		MouseWorldX float64 `json:"mouse_world_x"`
		MouseWorldY float64 `json:"mouse_world_y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "update_player_facing_direction", func() error {
		return movement.UpdatePlayerFacingDirection(h.world, h.now(), req.Identity, model.Vec2{X: req.MouseWorldX, Y: req.MouseWorldY})
	})
}

func (h *routerHandlers) handleSetSprinting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		withIdentity
		Sprinting bool `json:"sprinting"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "set_sprinting", func() error {
		return movement.SetSprinting(h.world, req.Identity, req.Sprinting)
	})
}

func (h *routerHandlers) handleToggleCrouch(w http.ResponseWriter, r *http.Request) {
	var req withIdentity
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "toggle_crouch", func() error {
		return movement.ToggleCrouch(h.world, req.Identity)
	})
}

func (h *routerHandlers) handleJump(w http.ResponseWriter, r *http.Request) {
	var req withIdentity
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "jump", func() error {
		return movement.Jump(h.world, h.now(), req.Identity)
	})
}

func (h *routerHandlers) handleDodgeRoll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		withIdentity
		MoveX float64 `json:"move_x"`
		MoveY float64 `json:"move_y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "dodge_roll", func() error {
		return movement.StartDodgeRoll(h.world, h.now(), req.Identity, req.MoveX, req.MoveY)
	})
}

// --- deployables (§4.6) -------------------------------------------------

func (h *routerHandlers) handlePlaceShelter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		withIdentity
		ItemInstanceID uint64  `json:"instance_id"`
		X              float64 `json:"x"`
		Y              float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "place_shelter", func() error {
		return deployable.PlaceShelter(h.world, req.Identity, req.ItemInstanceID, req.X, req.Y)
	})
}

func (h *routerHandlers) handleToggleCampfireBurning(w http.ResponseWriter, r *http.Request) {
	var req struct {
		withIdentity
		CampfireID uint64 `json:"campfire_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "toggle_campfire_burning", func() error {
		return deployable.ToggleCampfireBurning(h.world, req.Identity, req.CampfireID)
	})
}

// --- container / inventory (§4.1) ---------------------------------------

func (h *routerHandlers) handleQuickMoveToContainer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		withIdentity
		ItemInstanceID uint64              `json:"instance_id"`
		ContainerType  model.ContainerType `json:"container_type"`
		ContainerID    uint64              `json:"container_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "quick_move_to_container", func() error {
		target, err := h.resolveContainer(req.ContainerType, req.ContainerID)
		if err != nil {
			return err
		}
		return container.QuickMoveToContainer(h.world, req.Identity, req.ItemInstanceID, target)
	})
}

func (h *routerHandlers) handleQuickMoveFromContainer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		withIdentity
		ContainerType model.ContainerType `json:"container_type"`
		ContainerID   uint64              `json:"container_id"`
		SlotIndex     int                 `json:"slot_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "quick_move_from_container", func() error {
		holder, err := h.resolveContainer(req.ContainerType, req.ContainerID)
		if err != nil {
			return err
		}
		return container.QuickMoveFromContainer(h.world, holder, req.SlotIndex, req.Identity, config.PlayerHotbarSlots, config.PlayerInventorySlots)
	})
}

func (h *routerHandlers) handleDropFromPlayerSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		withIdentity
		ItemInstanceID uint64  `json:"instance_id"`
		X              float64 `json:"x"`
		Y              float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	h.reduce(w, "drop_from_player_slot", func() error {
		return container.DropFromPlayerSlot(h.world, h.rng, req.Identity, req.ItemInstanceID, model.Vec2{X: req.X, Y: req.Y})
	})
}

// --- helpers -------------------------------------------------------------

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
