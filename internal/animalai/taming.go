// Taming processor (§4.4.5), grounded on
// original_source/server/src/wild_animal_npc/core.rs's
// process_taming_behavior/handle_animal_eat_food/handle_tamed_following/
// handle_tamed_protecting family.
package animalai

import (
	"time"

	"survivalcore/internal/config"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// processTamingBehavior implements §4.4.5's food-detection loop,
// throttled to at most once per TamingCheckIntervalMS per animal.
func processTamingBehavior(w *store.World, beh Behavior, animal *model.WildAnimal, now time.Time) {
	interval := time.Duration(config.TamingCheckIntervalMS) * time.Millisecond
	if !animal.LastTamingCheckAt.IsZero() && now.Sub(animal.LastTamingCheckAt) < interval {
		return
	}
	animal.LastTamingCheckAt = now

	if animal.TamedBy != nil || !beh.CanBeTamed() {
		return
	}

	food := findNearbyTamingFood(w, beh, animal)
	if food == nil {
		return
	}
	foodPos := model.Vec2{X: food.X, Y: food.Y}
	dist := model.Vec2{X: animal.X, Y: animal.Y}.Sub(foodPos).Length()
	if dist > config.TamingEatDistance {
		transitionTo(animal, model.StateInvestigating, now, nil)
		animal.InvestigationPos = &foodPos
		return
	}
	eatTamingFood(w, animal, food, now)
}

func findNearbyTamingFood(w *store.World, beh Behavior, animal *model.WildAnimal) *model.DroppedItem {
	for _, item := range w.DroppedItems.All() {
		d := model.Vec2{X: item.X, Y: item.Y}.Sub(model.Vec2{X: animal.X, Y: animal.Y}).Length()
		if d > config.TamingFoodDetectionRadius {
			continue
		}
		if isValidTamingFood(w, beh, item.ItemDefID) {
			return item
		}
	}
	return nil
}

func isValidTamingFood(w *store.World, beh Behavior, itemDefID uint64) bool {
	if !beh.CanBeTamed() {
		return false
	}
	def, ok := w.ItemDefinitions.Get(itemDefID)
	if !ok {
		return false
	}
	for _, name := range beh.TamingFoods() {
		if def.Name == name {
			return true
		}
	}
	return false
}

// eatTamingFood implements §4.4.5's taming-on-eat: pick the closest
// live player within 200px of the food, tame the animal to them, start
// the heart effect, delete the food, and transition to Following.
func eatTamingFood(w *store.World, animal *model.WildAnimal, food *model.DroppedItem, now time.Time) {
	foodPos := model.Vec2{X: food.X, Y: food.Y}
	var tamer *model.Player
	bestDist := 200.0
	for _, p := range w.Players.All() {
		if p.IsDead {
			continue
		}
		d := model.Vec2{X: p.X, Y: p.Y}.Sub(foodPos).Length()
		if d <= bestDist {
			bestDist = d
			tamer = p
		}
	}

	w.DroppedItems.Delete(food.ID)

	if tamer == nil {
		return
	}
	id := tamer.Identity
	animal.TamedBy = &id
	animal.TamedAt = &now
	until := now.Add(config.TamingHeartEffectDurationS * time.Second)
	animal.HeartEffectUntil = &until
	transitionTo(animal, model.StateFollowing, now, &id)
	animal.FireFearOverriddenBy = nil
}

// handleTamedFollowing implements §4.4.5's Following state: revert to
// wild if the owner has been dead for over TamedOwnerDeathGraceSecs,
// otherwise stay within TamingFollowDistance and switch to Protecting
// if a threat is detected.
func handleTamedFollowing(w *store.World, animal *model.WildAnimal, stats Stats, now time.Time, dt float64) {
	owner, ok := w.Players.Get(*animal.TamedBy)
	if !ok {
		animal.TamedBy = nil
		transitionTo(animal, model.StatePatrolling, now, nil)
		return
	}
	if owner.IsDead {
		if now.Sub(owner.DeathTimestamp).Seconds() > config.TamedOwnerDeathGraceSecs {
			animal.TamedBy = nil
			transitionTo(animal, model.StatePatrolling, now, nil)
		}
		return
	}

	if detectThreatsToOwner(w, animal, owner) != nil {
		transitionTo(animal, model.StateProtecting, now, animal.TamedBy)
		return
	}

	ownerPos := model.Vec2{X: owner.X, Y: owner.Y}
	if (model.Vec2{X: animal.X, Y: animal.Y}).Sub(ownerPos).Length() > config.TamingFollowDistance {
		moveTowards(animal, ownerPos, stats.MovementSpeed, dt)
	}
}

// detectThreatsToOwner implements §4.4.5's Protecting threat
// definition: other players within 100px of the owner, or wild animals
// actively targeting the owner within TamingProtectRadius.
func detectThreatsToOwner(w *store.World, animal *model.WildAnimal, owner *model.Player) *model.TargetID {
	ownerPos := model.Vec2{X: owner.X, Y: owner.Y}
	for _, p := range w.Players.All() {
		if p.Identity == owner.Identity || p.IsDead {
			continue
		}
		if (model.Vec2{X: p.X, Y: p.Y}).Sub(ownerPos).Length() <= 100 {
			id := model.TargetID{Type: model.TargetPlayer, Player: p.Identity}
			return &id
		}
	}
	for _, other := range w.Animals.All() {
		if other.ID == animal.ID || other.TargetPlayer == nil || *other.TargetPlayer != owner.Identity {
			continue
		}
		if (model.Vec2{X: other.X, Y: other.Y}).Sub(ownerPos).Length() <= config.TamingProtectRadius {
			id := model.TargetID{Type: model.TargetAnimal, EntityID: other.ID}
			return &id
		}
	}
	return nil
}

// handleTamedProtecting implements §4.4.5's Protecting state: engage
// the detected threat on normal attack cadence, reverting to Following
// once no threat remains in range.
func handleTamedProtecting(w *store.World, beh Behavior, animal *model.WildAnimal, stats Stats, now time.Time, dt float64) *model.TargetID {
	owner, ok := w.Players.Get(*animal.TamedBy)
	if !ok || owner.IsDead {
		transitionTo(animal, model.StateFollowing, now, animal.TamedBy)
		return nil
	}
	threat := detectThreatsToOwner(w, animal, owner)
	if threat == nil {
		transitionTo(animal, model.StateFollowing, now, animal.TamedBy)
		return nil
	}

	var threatPos model.Vec2
	switch threat.Type {
	case model.TargetPlayer:
		if p, ok := w.Players.Get(threat.Player); ok {
			threatPos = model.Vec2{X: p.X, Y: p.Y}
		}
	case model.TargetAnimal:
		if a, ok := w.Animals.Get(threat.EntityID); ok {
			threatPos = model.Vec2{X: a.X, Y: a.Y}
		}
	}

	dist := model.Vec2{X: animal.X, Y: animal.Y}.Sub(threatPos).Length()
	if dist > stats.AttackRange {
		moveTowards(animal, threatPos, stats.SprintSpeed, dt)
		return nil
	}
	if canAttack(animal, stats, now) {
		return threat
	}
	return nil
}
