package store

import (
	"sync"

	"survivalcore/internal/model"
)

// World aggregates every table the simulation core reads and writes
// (§3.1), plus two secondary indexes (by chunk and by owning player
// identity); there is no tile-position index. It is the concrete implementation
// of the entity-store capability the spec treats as an external
// collaborator — in production this would be backed by the
// replicated table runtime; here it is the in-memory store that
// satisfies the same contract so the core is runnable and testable.
type World struct {
	Players           *Table[model.Identity, *model.Player]
	InventoryItems    *Table[uint64, *model.InventoryItem]
	ItemDefinitions   *Table[uint64, *model.ItemDefinition]
	ActiveEquipment   *Table[model.Identity, *model.ActiveEquipment]
	Projectiles       *Table[uint64, *model.Projectile]
	Animals           *Table[uint64, *model.WildAnimal]
	Campfires         *Table[uint64, *model.Campfire]
	Shelters          *Table[uint64, *model.Shelter]
	StorageBoxes      *Table[uint64, *model.WoodenStorageBox]
	Stashes           *Table[uint64, *model.Stash]
	SleepingBags      *Table[uint64, *model.SleepingBag]
	Corpses           *Table[uint64, *model.PlayerCorpse]
	Trees             *Table[uint64, *model.Tree]
	Stones            *Table[uint64, *model.Stone]
	Grass             *Table[uint64, *model.Grass]
	Mushrooms         *Table[uint64, *model.Mushroom]
	Crops             *Table[uint64, *model.Crop]
	DroppedItems      *Table[uint64, *model.DroppedItem]
	Effects           *Table[uint64, *model.ActiveConsumableEffect]
	DodgeRolls        *Table[model.Identity, *model.DodgeRoll]

	// LastAttack is the per-(player, weapon-def) attack-cadence index
	// the spec calls "a per-player table" (§4.2.4) and reuses for
	// per-weapon reload cadence (§4.3 firing constraints).
	LastAttack *Table[LastAttackKey, int64] // value = unix-nano of last attack

	// ByChunk indexes spatially located entity IDs by chunk_index
	// (§3.2). No package in this module adds entries to it; spatial
	// lookups scan the tables directly.
	ByChunk *Index[uint64]

	// ByOwner indexes container/deployable IDs by the owning player
	// identity string. No package in this module adds entries to it.
	ByOwner *Index[uint64]

	Scheduler *Scheduler

	// Mu is the per-world reducer lock. Every reducer entry point —
	// player-invoked or scheduled — takes Mu for its entire duration,
	// which is what makes "no two reducers interleave" (§5) true of
	// this in-memory store: the teacher relies on a single goroutine
	// driving Engine.tick() under Engine.mu; reducers here can be
	// invoked concurrently from HTTP handlers, so the same mutex
	// discipline is applied explicitly at the world level instead.
	Mu sync.Mutex
}

// LastAttackKey identifies a (attacker, item) pair for cadence gating.
type LastAttackKey struct {
	Attacker model.Identity
	ItemDefID uint64
}

// NewWorld constructs an empty World with its scheduler wired in.
func NewWorld(scheduler *Scheduler) *World {
	return &World{
		Players:         NewTable[model.Identity, *model.Player](),
		InventoryItems:  NewTable[uint64, *model.InventoryItem](),
		ItemDefinitions: NewTable[uint64, *model.ItemDefinition](),
		ActiveEquipment: NewTable[model.Identity, *model.ActiveEquipment](),
		Projectiles:     NewTable[uint64, *model.Projectile](),
		Animals:         NewTable[uint64, *model.WildAnimal](),
		Campfires:       NewTable[uint64, *model.Campfire](),
		Shelters:        NewTable[uint64, *model.Shelter](),
		StorageBoxes:    NewTable[uint64, *model.WoodenStorageBox](),
		Stashes:         NewTable[uint64, *model.Stash](),
		SleepingBags:    NewTable[uint64, *model.SleepingBag](),
		Corpses:         NewTable[uint64, *model.PlayerCorpse](),
		Trees:           NewTable[uint64, *model.Tree](),
		Stones:          NewTable[uint64, *model.Stone](),
		Grass:           NewTable[uint64, *model.Grass](),
		Mushrooms:       NewTable[uint64, *model.Mushroom](),
		Crops:           NewTable[uint64, *model.Crop](),
		DroppedItems:    NewTable[uint64, *model.DroppedItem](),
		Effects:         NewTable[uint64, *model.ActiveConsumableEffect](),
		DodgeRolls:      NewTable[model.Identity, *model.DodgeRoll](),
		LastAttack:      NewTable[LastAttackKey, int64](),
		ByChunk:         NewIndex[uint64](),
		ByOwner:         NewIndex[uint64](),
		Scheduler:       scheduler,
	}
}
