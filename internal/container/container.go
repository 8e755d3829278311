// Package container implements the polymorphic container/inventory
// transaction layer (§4.1): a uniform slot capability plus the
// move/split/merge/swap/drop operations every holder type shares.
//
// §9: "do not branch on concrete container types in the handlers" —
// every operation in ops.go is written purely against the Container
// interface below. campfire/box/stash/corpse each get a thin adapter
// here; none of ops.go imports a concrete deployable type.
package container

import "survivalcore/internal/model"

// Container is the capability required of any item holder (§4.1).
type Container interface {
	NumSlots() int
	GetSlot(i int) model.ContainerSlot
	SetSlot(i int, instanceID, defID *uint64)
	ContainerType() model.ContainerType
	ContainerID() uint64
}

// Campfire adapts *model.Campfire to the Container capability.
type Campfire struct{ C *model.Campfire }

func (a Campfire) NumSlots() int                       { return len(a.C.FuelSlots) }
func (a Campfire) GetSlot(i int) model.ContainerSlot    { return a.C.FuelSlots[i] }
func (a Campfire) ContainerType() model.ContainerType   { return model.ContainerCampfire }
func (a Campfire) ContainerID() uint64                  { return a.C.ID }
func (a Campfire) SetSlot(i int, instanceID, defID *uint64) {
	a.C.FuelSlots[i] = model.ContainerSlot{InstanceID: instanceID, DefID: defID}
}

// StorageBox adapts *model.WoodenStorageBox to the Container capability.
type StorageBox struct{ C *model.WoodenStorageBox }

func (a StorageBox) NumSlots() int                     { return len(a.C.Slots) }
func (a StorageBox) GetSlot(i int) model.ContainerSlot  { return a.C.Slots[i] }
func (a StorageBox) ContainerType() model.ContainerType { return model.ContainerStorageBox }
func (a StorageBox) ContainerID() uint64                { return a.C.ID }
func (a StorageBox) SetSlot(i int, instanceID, defID *uint64) {
	a.C.Slots[i] = model.ContainerSlot{InstanceID: instanceID, DefID: defID}
}

// Stash adapts *model.Stash to the Container capability.
type Stash struct{ C *model.Stash }

func (a Stash) NumSlots() int                     { return len(a.C.Slots) }
func (a Stash) GetSlot(i int) model.ContainerSlot  { return a.C.Slots[i] }
func (a Stash) ContainerType() model.ContainerType { return model.ContainerStash }
func (a Stash) ContainerID() uint64                { return a.C.ID }
func (a Stash) SetSlot(i int, instanceID, defID *uint64) {
	a.C.Slots[i] = model.ContainerSlot{InstanceID: instanceID, DefID: defID}
}

// Corpse adapts *model.PlayerCorpse to the Container capability.
type Corpse struct{ C *model.PlayerCorpse }

func (a Corpse) NumSlots() int                     { return len(a.C.Slots) }
func (a Corpse) GetSlot(i int) model.ContainerSlot  { return a.C.Slots[i] }
func (a Corpse) ContainerType() model.ContainerType { return model.ContainerCorpse }
func (a Corpse) ContainerID() uint64                { return a.C.ID }
func (a Corpse) SetSlot(i int, instanceID, defID *uint64) {
	a.C.Slots[i] = model.ContainerSlot{InstanceID: instanceID, DefID: defID}
}

// Player inventory and hotbar slots are not addressed through a
// fixed-size struct array the way deployables are (§3.2 only names a
// materialized slot array for container locations); ops.go locates
// "what's in player slot N" by scanning InventoryItem rows for a
// matching location instead of adapting a synthetic Container.
