package combat

import (
	"math"
	"math/rand"
	"time"

	"survivalcore/internal/config"
	"survivalcore/internal/container"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// ApplyToTree implements §4.2.3's Tree case: subtract damage, grant
// the rolled yield to the attacker, and on depletion schedule a
// respawn window.
func ApplyToTree(w *store.World, rng *rand.Rand, attacker model.Identity, tree *model.Tree, attackerPos model.Vec2, outcome Outcome) {
	tree.Health -= outcome.Damage
	if tree.Health < 0 {
		tree.Health = 0
	}
	GrantToPlayer(w, rng, attacker, outcome.YieldResource, outcome.YieldQuantity, attackerPos)
	if tree.Health == 0 && tree.RespawnAt == nil {
		at := time.Now().Add(randomDuration(rng, config.TreeRespawnMinSecs, config.TreeRespawnMaxSecs))
		tree.RespawnAt = &at
	}
}

// ApplyToStone mirrors ApplyToTree for Stone targets.
func ApplyToStone(w *store.World, rng *rand.Rand, attacker model.Identity, stone *model.Stone, attackerPos model.Vec2, outcome Outcome) {
	stone.Health -= outcome.Damage
	if stone.Health < 0 {
		stone.Health = 0
	}
	GrantToPlayer(w, rng, attacker, outcome.YieldResource, outcome.YieldQuantity, attackerPos)
	if stone.Health == 0 && stone.RespawnAt == nil {
		at := time.Now().Add(randomDuration(rng, config.StoneRespawnMinSecs, config.StoneRespawnMaxSecs))
		stone.RespawnAt = &at
	}
}

// ApplyToGrass implements §4.2.3's Grass case: destroyed on any
// damage, with a respawn window scheduled immediately.
func ApplyToGrass(rng *rand.Rand, grass *model.Grass) {
	if grass.RespawnAt != nil {
		return
	}
	at := time.Now().Add(randomDuration(rng, config.GrassRespawnMinSecs, config.GrassRespawnMaxSecs))
	grass.RespawnAt = &at
}

func randomDuration(rng *rand.Rand, minSecs, maxSecs float64) time.Duration {
	if maxSecs <= minSecs {
		return time.Duration(minSecs * float64(time.Second))
	}
	secs := minSecs + rng.Float64()*(maxSecs-minSecs)
	return time.Duration(secs * float64(time.Second))
}

// ApplyToAnimal implements §4.2.2/§4.2.3's Animal case: subtract PvP
// damage, no yield, delete the row on death, and otherwise, if the
// animal is Fleeing, apply §4.4.2's mandatory damage-response rule (set
// fire_fear_overridden_by and transition to Chasing the attacker,
// unless the species is ArcticWalrus). An animal in any other state
// only loses health. internal/animalai is not imported here: the walrus
// exception is the one piece of that rule every species shares, so
// it's inlined rather than pulled in through the Behavior interface,
// which would create an import cycle (animalai already depends on
// this package to apply animal-on-player damage).
func ApplyToAnimal(w *store.World, attacker model.Identity, animal *model.WildAnimal, now time.Time, damage float64) {
	animal.Health -= damage
	if animal.Health <= 0 {
		w.Animals.Delete(animal.ID)
		return
	}
	if animal.State == model.StateFleeing && animal.Species != model.SpeciesArcticWalrus {
		animal.FireFearOverriddenBy = &attacker
		animal.State = model.StateChasing
		animal.StateChangeTime = now
		animal.TargetPlayer = &attacker
	}
}

// TotalArmorResistance sums the equipped armor pieces' damage
// resistance fractions for a player, capped at 0.8 so damage is never
// fully negated.
func TotalArmorResistance(w *store.World, victim model.Identity) float64 {
	eq, ok := w.ActiveEquipment.Get(victim)
	if !ok {
		return 0
	}
	total := 0.0
	for _, slot := range eq.ArmorSlotInstanceIDs {
		if slot == nil {
			continue
		}
		item, ok := w.InventoryItems.Get(*slot)
		if !ok {
			continue
		}
		def, ok := w.ItemDefinitions.Get(item.ItemDefID)
		if !ok {
			continue
		}
		total += def.ArmorDamageResistance
	}
	if total > 0.8 {
		total = 0.8
	}
	return total
}

// ApplyToPlayer implements §4.2.3's Player case: armor resistance,
// last_hit_time, clamp, knockback with collision-aware push-out,
// attacker recoil for non-ranged weapons, bleed application, and the
// knocked-out/death transition.
//
// resolvePush is supplied by the movement package (which owns
// collision resolution against the shared obstacle set) so this
// package does not need to depend on it; it receives a proposed
// position and returns the collision-resolved one, or the original
// position if the move must be fully reverted.
func ApplyToPlayer(
	w *store.World,
	now time.Time,
	attacker model.Identity,
	victim *model.Player,
	def *model.ItemDefinition,
	outcome Outcome,
	resolvePush func(from, proposed model.Vec2) (model.Vec2, bool),
) error {
	resistance := TotalArmorResistance(w, victim.Identity)
	damage := outcome.Damage * (1 - resistance)

	victim.Health -= damage
	if victim.Health < 0 {
		victim.Health = 0
	}
	victim.LastHitTime = now

	if damage > 0 {
		attackerRow, ok := w.Players.Get(attacker)
		if ok {
			dir := model.Vec2{X: victim.X, Y: victim.Y}.Sub(model.Vec2{X: attackerRow.X, Y: attackerRow.Y}).Normalized()
			if dir.LengthSquared() == 0 {
				dir = model.Vec2{X: 1}
			}
			proposed := model.Vec2{X: victim.X, Y: victim.Y}.Add(dir.Scale(config.PvPKnockbackDistance))
			if resolvePush != nil {
				resolved, ok := resolvePush(model.Vec2{X: victim.X, Y: victim.Y}, proposed)
				if ok {
					victim.X, victim.Y = resolved.X, resolved.Y
				}
			}
			if def.Category != model.CategoryRangedWeapon {
				recoilProposed := model.Vec2{X: attackerRow.X, Y: attackerRow.Y}.Sub(dir.Scale(config.PvPKnockbackDistance * config.RecoilFraction))
				if resolvePush != nil {
					resolved, ok := resolvePush(model.Vec2{X: attackerRow.X, Y: attackerRow.Y}, recoilProposed)
					if ok {
						attackerRow.X, attackerRow.Y = resolved.X, resolved.Y
					}
				}
			}
		}
	}

	if def.Bleed != nil {
		cancelBandageBurst(w, victim.Identity)
		ticks := int(math.Ceil(float64(def.Bleed.Duration) / float64(def.Bleed.Interval)))
		if def.Bleed.Interval > 0 && ticks < 1 {
			ticks = 1
		}
		total := def.Bleed.DamagePerTick * float64(ticks)
		effectID := w.Effects.NextAutoIncrement()
		w.Effects.Insert(effectID, &model.ActiveConsumableEffect{
			ID:           effectID,
			PlayerID:     victim.Identity,
			EffectType:   model.EffectBleed,
			StartedAt:    now,
			EndsAt:       now.Add(def.Bleed.Duration),
			TickInterval: def.Bleed.Interval,
			NextTickAt:   now.Add(def.Bleed.Interval),
			TotalAmount:  &total,
		})
	}

	if victim.Health == 0 {
		if victim.IsKnockedOut {
			victim.IsDead = true
			victim.IsKnockedOut = false
			victim.DeathTimestamp = now
			spawnCorpse(w, victim, now)
		} else {
			victim.IsKnockedOut = true
			victim.Health = 1
			victim.KnockedOutAt = now
		}
	}
	return nil
}

func cancelBandageBurst(w *store.World, victim model.Identity) {
	var toCancel []uint64
	w.Effects.Each(func(id uint64, e *model.ActiveConsumableEffect) bool {
		if e.PlayerID == victim && e.EffectType == model.EffectBandageBurst {
			toCancel = append(toCancel, id)
		}
		return true
	})
	for _, id := range toCancel {
		w.Effects.Delete(id)
	}
}

func spawnCorpse(w *store.World, victim *model.Player, now time.Time) {
	corpse := &model.PlayerCorpse{
		ID:        w.Corpses.NextAutoIncrement(),
		X:         victim.X,
		Y:         victim.Y,
		Owner:     victim.Identity,
		Health:    100,
		MaxHealth: 100,
		CreatedAt: now,
	}
	slot := 0
	w.InventoryItems.Each(func(_ uint64, it *model.InventoryItem) bool {
		if !it.Location.IsPlayerHeld(victim.Identity) || slot >= model.PlayerCorpseSlots {
			return true
		}
		corpse.Slots[slot] = model.ContainerSlot{InstanceID: &it.InstanceID, DefID: &it.ItemDefID}
		it.Location = model.NewContainerLocation(model.ContainerCorpse, corpse.ID, slot)
		slot++
		return true
	})
	w.Corpses.Insert(corpse.ID, corpse)
}

// Destroyable is the minimal capability a deployable damage target
// needs to share the clamp/destroy/scatter path (§4.2.3's Deployables
// bullet).
type Destroyable interface {
	ApplyDamage(d float64) (destroyed bool)
}

// ApplyToDeployable clamps health on target and, if it crosses to
// destroyed, scatters holder's container contents as DroppedItems and
// invokes remove to delete the entity row (and any schedule row it
// owns). holder may be nil for deployables with no inventory
// (sleeping bag, shelter).
func ApplyToDeployable(w *store.World, rng *rand.Rand, target Destroyable, holder container.Container, pos model.Vec2, damage float64, remove func()) bool {
	destroyed := target.ApplyDamage(damage)
	if !destroyed {
		return false
	}
	if holder != nil {
		for i := 0; i < holder.NumSlots(); i++ {
			slot := holder.GetSlot(i)
			if slot.Empty() {
				continue
			}
			item, ok := w.InventoryItems.Get(*slot.InstanceID)
			if !ok {
				continue
			}
			container.SpawnDropped(w, rng, item.ItemDefID, item.Quantity, pos)
			w.InventoryItems.Delete(item.InstanceID)
		}
	}
	if remove != nil {
		remove()
	}
	return true
}

// corpseLootRoll is one entry in the PlayerCorpse loot table (§4.2.3).
type corpseLootRoll struct {
	resource    string
	probability float64
	qtyMin      int
	qtyMax      int
}

// toolTier classifies the attacker's equipped tool for the corpse
// loot multiplier/quantity table (§4.2.3).
type toolTier int

const (
	toolTierNone toolTier = iota
	toolTierBoneKnife
	toolTierBoneClub
	toolTierPrimaryCorpse
	toolTierOtherTool
)

func classifyCorpseTool(def *model.ItemDefinition) toolTier {
	if def == nil {
		return toolTierNone
	}
	switch def.Name {
	case "Bone Knife":
		return toolTierBoneKnife
	case "Bone Club":
		return toolTierBoneClub
	}
	if def.PrimaryTargetType != nil && *def.PrimaryTargetType == model.TargetPlayerCorpse {
		return toolTierPrimaryCorpse
	}
	if def.Category == model.CategoryTool {
		return toolTierOtherTool
	}
	return toolTierNone
}

func (t toolTier) yieldMultiplier() float64 {
	switch t {
	case toolTierBoneKnife:
		return 5
	case toolTierBoneClub:
		return 3
	case toolTierPrimaryCorpse:
		return 1
	default:
		return 0.1
	}
}

func (t toolTier) quantityRange() (int, int) {
	switch t {
	case toolTierBoneKnife:
		return 3, 5
	case toolTierBoneClub:
		return 2, 4
	case toolTierPrimaryCorpse:
		return 1, 2
	default:
		return 1, 1
	}
}

func (t toolTier) skullCount() int {
	switch t {
	case toolTierBoneKnife:
		return 3
	case toolTierBoneClub:
		return 2
	case toolTierPrimaryCorpse:
		return 1
	default:
		return 0
	}
}

var corpseLootTable = []corpseLootRoll{
	{resource: "Animal Fat", probability: 0.5},
	{resource: "Raw Human Flesh", probability: 0.3},
	{resource: "Animal Bone", probability: 0.2},
}

// ApplyToCorpse implements §4.2.3's PlayerCorpse case: fixed damage,
// probabilistic per-resource loot rolls scaled by tool tier, and
// skull/scatter/delete on depletion.
func ApplyToCorpse(w *store.World, rng *rand.Rand, attacker model.Identity, corpse *model.PlayerCorpse, toolDef *model.ItemDefinition, fixedDamage float64) {
	corpse.Health -= fixedDamage
	if corpse.Health < 0 {
		corpse.Health = 0
	}

	tier := classifyCorpseTool(toolDef)
	mult := tier.yieldMultiplier()
	qMin, qMax := tier.quantityRange()

	for _, roll := range corpseLootTable {
		if rng.Float64() >= roll.probability {
			continue
		}
		qty := qMin
		if qMax > qMin {
			qty = qMin + rng.Intn(qMax-qMin+1)
		}
		qty = int(float64(qty) * mult)
		if qty < 1 {
			qty = 1
		}
		GrantToPlayer(w, rng, attacker, roll.resource, qty, model.Vec2{X: corpse.X, Y: corpse.Y})
	}

	if corpse.Health == 0 {
		skulls := tier.skullCount()
		if skulls > 0 && toolDef != nil && toolDef.Category == model.CategoryTool {
			GrantToPlayer(w, rng, attacker, "Human Skull", skulls, model.Vec2{X: corpse.X, Y: corpse.Y})
		}
		for i := 0; i < model.PlayerCorpseSlots; i++ {
			slot := corpse.Slots[i]
			if slot.Empty() {
				continue
			}
			item, ok := w.InventoryItems.Get(*slot.InstanceID)
			if !ok {
				continue
			}
			container.SpawnDropped(w, rng, item.ItemDefID, item.Quantity, model.Vec2{X: corpse.X, Y: corpse.Y})
			w.InventoryItems.Delete(item.InstanceID)
		}
		w.Corpses.Delete(corpse.ID)
		w.Scheduler.Cancel(corpse.ID)
	}
}
