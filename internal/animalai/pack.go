// Pack manager for TundraWolf (§4.4.4), grounded on
// original_source/server/src/wild_animal_npc/core.rs's
// process_pack_behavior/attempt_pack_formation/merge_packs family.
package animalai

import (
	"math/rand"
	"time"

	"survivalcore/internal/config"
	"survivalcore/internal/model"
	"survivalcore/internal/store"
)

// processPackBehavior runs the wolf-only pack formation/dissolution
// check, throttled to at most once per PackCheckIntervalS per wolf
// (§4.4.4).
func processPackBehavior(w *store.World, rng *rand.Rand, animal *model.WildAnimal, now time.Time) {
	if animal.Species != model.SpeciesTundraWolf {
		return
	}
	if !animal.LastPackCheckAt.IsZero() && now.Sub(animal.LastPackCheckAt).Seconds() < config.PackCheckIntervalS {
		return
	}
	animal.LastPackCheckAt = now

	if animal.PackID != nil {
		if shouldLeavePack(w, rng, animal) {
			leavePack(w, animal, now)
		}
		return
	}
	if other := findNearbyPackableWolf(w, animal); other != nil {
		attemptPackFormation(w, rng, animal, other, now)
	}
}

func packMembers(w *store.World, packID uint64) []*model.WildAnimal {
	var out []*model.WildAnimal
	for _, a := range w.Animals.All() {
		if a.PackID != nil && *a.PackID == packID {
			out = append(out, a)
		}
	}
	return out
}

// shouldLeavePack implements §4.4.4's dissolution chance (3%, 15% of
// that for leaders): a pack with only the one member left always
// dissolves, otherwise leaving is purely the per-tick roll above.
func shouldLeavePack(w *store.World, rng *rand.Rand, animal *model.WildAnimal) bool {
	chance := config.PackDissolutionChance
	if animal.IsPackLeader {
		chance *= config.PackLeaderDissolutionFactor
	}
	if rng.Float64() < chance {
		return true
	}
	if animal.PackID == nil {
		return false
	}
	members := packMembers(w, *animal.PackID)
	return len(members) <= 1
}

func leavePack(w *store.World, animal *model.WildAnimal, now time.Time) {
	oldPackID := animal.PackID
	animal.PackID = nil
	animal.IsPackLeader = false
	animal.PackJoinTime = time.Time{}
	if oldPackID != nil {
		promoteNewAlpha(w, *oldPackID, now)
	}
}

// promoteNewAlpha promotes the oldest remaining member (by
// PackJoinTime) of a pack that lost its leader (§4.4.4 "If a leader
// leaves, the oldest remaining non-leader member is promoted").
func promoteNewAlpha(w *store.World, packID uint64, now time.Time) {
	members := packMembers(w, packID)
	if len(members) == 0 {
		return
	}
	var oldest *model.WildAnimal
	for _, m := range members {
		if m.IsPackLeader {
			return // pack already has a leader
		}
		if oldest == nil || m.PackJoinTime.Before(oldest.PackJoinTime) {
			oldest = m
		}
	}
	if oldest != nil {
		oldest.IsPackLeader = true
	}
}

// findNearbyPackableWolf implements §4.4.4's four encounter cases:
// solo+solo, solo+pack (room permitting), pack+solo, and two alphas
// whose combined size would still fit under MaxPackSize.
func findNearbyPackableWolf(w *store.World, animal *model.WildAnimal) *model.WildAnimal {
	for _, other := range w.Animals.All() {
		if other.ID == animal.ID || other.Species != model.SpeciesTundraWolf {
			continue
		}
		d := model.Vec2{X: animal.X, Y: animal.Y}.Sub(model.Vec2{X: other.X, Y: other.Y}).Length()
		if d > config.PackFormationRadius {
			continue
		}
		switch {
		case animal.PackID == nil && other.PackID == nil:
			return other
		case animal.PackID == nil && other.PackID != nil:
			if len(packMembers(w, *other.PackID)) < config.MaxPackSize {
				return other
			}
		case animal.PackID != nil && other.PackID == nil:
			if len(packMembers(w, *animal.PackID)) < config.MaxPackSize {
				return other
			}
		case animal.PackID != nil && other.PackID != nil && *animal.PackID != *other.PackID:
			if animal.IsPackLeader && other.IsPackLeader {
				if len(packMembers(w, *animal.PackID))+len(packMembers(w, *other.PackID)) <= config.MaxPackSize {
					return other
				}
			}
		}
	}
	return nil
}

// attemptPackFormation implements §4.4.4's formation chance and the
// four encounter outcomes: new pack, join, absorb, or alpha challenge.
func attemptPackFormation(w *store.World, rng *rand.Rand, animal, other *model.WildAnimal, now time.Time) {
	chance := config.PackFormationChance
	if animal.IsPackLeader && other.IsPackLeader {
		chance *= 0.6
	}
	if rng.Float64() > chance {
		return
	}

	switch {
	case animal.PackID == nil && other.PackID == nil:
		packID := animal.ID
		if other.ID > packID {
			packID = other.ID
		}
		animalIsAlpha := rng.Float64() < 0.5
		animal.PackID, other.PackID = &packID, &packID
		animal.IsPackLeader, other.IsPackLeader = animalIsAlpha, !animalIsAlpha
		animal.PackJoinTime, other.PackJoinTime = now, now

	case animal.PackID == nil && other.PackID != nil:
		animal.PackID = other.PackID
		animal.IsPackLeader = false
		animal.PackJoinTime = now

	case animal.PackID != nil && other.PackID == nil:
		other.PackID = animal.PackID
		other.IsPackLeader = false
		other.PackJoinTime = now

	case animal.PackID != nil && other.PackID != nil && *animal.PackID != *other.PackID:
		if animal.IsPackLeader && other.IsPackLeader {
			packA, packB := *animal.PackID, *other.PackID
			aDominance := float64(len(packMembers(w, packA)))*10 + animal.Health*0.1 + rng.Float64()*20
			bDominance := float64(len(packMembers(w, packB)))*10 + other.Health*0.1 + rng.Float64()*20
			if aDominance > bDominance {
				mergePacks(w, packA, packB, now)
			} else {
				mergePacks(w, packB, packA, now)
			}
		}
	}
}

// mergePacks folds losingPack into winningPack, demotes the losing
// alpha to a follower, and if the merged size exceeds MaxPackSize,
// the newest non-leader members (by PackJoinTime) leave back to solo
// (§4.4.4).
func mergePacks(w *store.World, winningPack, losingPack uint64, now time.Time) {
	losingMembers := packMembers(w, losingPack)
	for _, m := range losingMembers {
		m.PackID = &winningPack
		if m.IsPackLeader {
			m.IsPackLeader = false
		}
	}

	members := packMembers(w, winningPack)
	if len(members) <= config.MaxPackSize {
		return
	}
	excess := len(members) - config.MaxPackSize
	followers := make([]*model.WildAnimal, 0, len(members))
	for _, m := range members {
		if !m.IsPackLeader {
			followers = append(followers, m)
		}
	}
	for i := 0; i < len(followers)-1; i++ {
		for j := i + 1; j < len(followers); j++ {
			if followers[j].PackJoinTime.After(followers[i].PackJoinTime) {
				followers[i], followers[j] = followers[j], followers[i]
			}
		}
	}
	for i := 0; i < excess && i < len(followers); i++ {
		followers[i].PackID = nil
		followers[i].IsPackLeader = false
		followers[i].PackJoinTime = time.Time{}
	}
}

// packCohesionTarget implements §4.4.2's "Pack cohesion (wolf)": a
// non-leader steers toward its alpha once outside PackCohesionRadius,
// but only while the alpha is patrolling or alert.
func packCohesionTarget(w *store.World, animal *model.WildAnimal) (model.Vec2, bool) {
	if animal.IsPackLeader || animal.PackID == nil {
		return model.Vec2{}, false
	}
	for _, alpha := range w.Animals.All() {
		if alpha.PackID == nil || *alpha.PackID != *animal.PackID || !alpha.IsPackLeader {
			continue
		}
		if alpha.State != model.StatePatrolling && alpha.State != model.StateAlert {
			return model.Vec2{}, false
		}
		alphaPos := model.Vec2{X: alpha.X, Y: alpha.Y}
		if alphaPos.Sub(model.Vec2{X: animal.X, Y: animal.Y}).Length() > config.PackCohesionRadius {
			return alphaPos, true
		}
		return model.Vec2{}, false
	}
	return model.Vec2{}, false
}
