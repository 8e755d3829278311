package model

import "time"

// Player is the per-identity row (§3.1). Never deleted once created;
// IsDead toggles across the lifecycle in §3.3.
type Player struct {
	Identity Identity

	X, Y       float64
	Direction  string // facing label, one of the 8-way strings
	LastUpdate time.Time

	Health, MaxHealth   float64
	Stamina, MaxStamina float64
	Thirst, Warmth      float64

	IsDead       bool
	IsKnockedOut bool
	Online       bool
	IsSprinting  bool
	IsCrouching  bool
	TorchLit     bool
	OnWater      bool

	JumpStartTimeMs int64
	DeathTimestamp  time.Time
	KnockedOutAt    time.Time
	LastHitTime     time.Time
	LastDodgeTime   time.Time

	// LastMoveInputTime is the last time update_player_position saw a
	// nonzero movement vector (§4.5.4: "if the player moved within the
	// last 100ms"), distinct from LastUpdate which advances on every
	// call regardless of input so dt stays accurate.
	LastMoveInputTime time.Time
}

// InventoryItem is a single stack of items (§3.1). Quantity is always
// >= 1 while the row exists; reaching 0 deletes it (§3.2).
type InventoryItem struct {
	InstanceID uint64
	ItemDefID  uint64
	Quantity   int
	Location   ItemLocation
}

// ItemCategory classifies an ItemDefinition (§3.1).
type ItemCategory int

const (
	CategoryTool ItemCategory = iota
	CategoryWeapon
	CategoryRangedWeapon
	CategoryArmor
	CategoryConsumable
	CategoryAmmunition
	CategoryOther
)

// Range is an inclusive [Min, Max] used for damage and yield rolls.
type Range struct {
	Min, Max float64
}

// YieldRange is a Range of item quantity plus the resource it produces.
type YieldRange struct {
	Min, Max int
	Resource string
}

// BleedDef is the (damage_per_tick, duration, interval) tuple a weapon
// or ammo definition may carry (§4.2.3, §4.3 step 4).
type BleedDef struct {
	DamagePerTick float64
	Duration      time.Duration
	Interval      time.Duration
}

// ItemDefinition is the static, shared definition row referenced by
// InventoryItem.ItemDefID (§3.1).
type ItemDefinition struct {
	ID       uint64
	Name     string
	Category ItemCategory

	StackSize    int
	IsStackable  bool
	IsEquippable bool
	EquipSlot    EquipSlotType

	// Combat
	PrimaryTargetType *TargetType
	PrimaryDamage     Range
	PrimaryYield      YieldRange
	PvPDamage         *Range // nil if item defines no PvP damage
	Bleed             *BleedDef
	AttackIntervalSecs float64
	AttackRange        float64
	AttackHalfAngleRad float64

	// Ranged weapon / ammo
	ProjectileSpeed   float64 // px/sec
	GravityAffected   bool    // false for crossbow bolts and thrown weapons (k=0)
	ReloadTimeSecs    float64

	// Deployable fuel
	FuelBurnDurationSecs float64

	// Armor damage resistance, a fraction in [0,1] this piece subtracts
	// from incoming PvP/animal damage when equipped (§4.2.3 "apply armor
	// resistance factor"). Zero for non-armor items.
	ArmorDamageResistance float64

	Icon string
}

// IsGenericTool reports whether an item is a Tool outside the small
// blocklist exempted from the generic chip-damage fallback (§4.2.2).
func (d ItemDefinition) IsGenericTool() bool {
	if d.Category != CategoryTool {
		return false
	}
	switch d.Name {
	case "Repair Hammer", "Blueprint", "Bone Knife", "Bandage", "Torch":
		return false
	default:
		return true
	}
}

// ActiveEquipment is the per-player equipped-item/loadout row (§3.1),
// field-for-field from original_source/active_equipment.rs.
type ActiveEquipment struct {
	PlayerIdentity Identity

	EquippedItemInstanceID *uint64
	EquippedItemDefID      *uint64
	SwingStartTimeMs       int64

	LoadedAmmoDefID    *uint64
	IsReadyToFire      bool
	PreferredArrowType *uint64

	// Six armor slots, indexed by EquipSlotType-1 (SlotHead..SlotBack).
	ArmorSlotInstanceIDs [6]*uint64
}

// Projectile is an in-flight arrow/thrown weapon (§3.1).
type Projectile struct {
	ID          uint64
	Owner       Identity
	WeaponDefID uint64
	AmmoDefID   uint64
	StartTime   time.Time
	StartX      float64
	StartY      float64
	VelocityX   float64
	VelocityY   float64
	MaxRange    float64
	GravityK    float64 // 0 for crossbow/thrown, 1 otherwise
}

// WildAnimal is a live NPC animal row (§3.1).
type WildAnimal struct {
	ID      uint64
	Species Species

	X, Y      float64
	Direction float64 // facing, radians
	State     AnimalState

	Health, MaxHealth float64
	SpawnX, SpawnY    float64

	TargetPlayer    *Identity
	LastAttackTime  *time.Time
	StateChangeTime time.Time

	InvestigationPos *Vec2
	PatrolPhase      float64

	Chunk int64

	PackID       *uint64
	IsPackLeader bool
	PackJoinTime time.Time

	FireFearOverriddenBy *Identity

	TamedBy          *Identity
	TamedAt          *time.Time
	HeartEffectUntil *time.Time

	// Cadence gates for the sub-systems that run less often than the
	// 125ms AI tick (§4.4.4 pack checks every >=5s, §4.4.5 taming scans
	// every >=500ms).
	LastPackCheckAt   time.Time
	LastTamingCheckAt time.Time
}

// ContainerSlot is a single slot of a polymorphic container, holding
// either (instanceID, defID) or (nil, nil) when empty (§3.2).
type ContainerSlot struct {
	InstanceID *uint64
	DefID      *uint64
}

func (s ContainerSlot) Empty() bool { return s.InstanceID == nil }

// Campfire is a deployable with scheduled fuel burn (§3.1, §4.6.1).
type Campfire struct {
	ID       uint64
	X, Y     float64
	Chunk    int64
	PlacedBy Identity

	IsBurning   bool
	IsDestroyed bool
	Health      float64
	MaxHealth   float64

	FuelSlots [CampfireFuelSlots]ContainerSlot

	CurrentFuelDefID          *uint64
	RemainingFuelBurnTimeSecs *float64
}

// CampfireFuelSlots is the fixed fuel-slot count (§3.1: "five fuel slots").
const CampfireFuelSlots = 5

// Shelter is a deployable with an AABB used for collision, LOS, and
// projectile blocking (§3.2, §4.6.2).
type Shelter struct {
	ID        uint64
	X, Y      float64
	Chunk     int64
	PlacedBy  Identity
	Health    float64
	MaxHealth float64

	IsDestroyed bool
}

// WoodenStorageBoxSlots is the box's slot count.
const WoodenStorageBoxSlots = 24

type WoodenStorageBox struct {
	ID          uint64
	X, Y        float64
	Chunk       int64
	Owner       Identity
	Health      float64
	MaxHealth   float64
	IsDestroyed bool
	Slots       [WoodenStorageBoxSlots]ContainerSlot
}

// StashSlots is the stash's slot count.
const StashSlots = 6

type Stash struct {
	ID          uint64
	X, Y        float64
	Chunk       int64
	Owner       Identity
	Health      float64
	MaxHealth   float64
	IsDestroyed bool
	Hidden      bool
	Slots       [StashSlots]ContainerSlot
}

// SleepingBag is a respawn-point deployable. It does not implement the
// Container capability (§4.1 names campfire/box/stash/corpse only).
type SleepingBag struct {
	ID          uint64
	X, Y        float64
	Chunk       int64
	Owner       Identity
	Health      float64
	MaxHealth   float64
	IsDestroyed bool
}

// PlayerCorpseSlots is the corpse's slot count, matching player
// inventory+hotbar capacity at time of death.
const PlayerCorpseSlots = 30

type PlayerCorpse struct {
	ID          uint64
	X, Y        float64
	Chunk       int64
	Owner       Identity
	Health      float64
	MaxHealth   float64
	IsDestroyed bool
	Slots       [PlayerCorpseSlots]ContainerSlot
	CreatedAt   time.Time
}

// Tree is a harvestable resource node (§3.1).
type Tree struct {
	ID         uint64
	X, Y       float64
	Chunk      int64
	Health     float64
	MaxHealth  float64
	RespawnAt  *time.Time
	Appearance string
}

type Stone struct {
	ID         uint64
	X, Y       float64
	Chunk      int64
	Health     float64
	MaxHealth  float64
	RespawnAt  *time.Time
	Appearance string
}

// Grass is destroyed on any damage (§4.2.3): the hit sets RespawnAt on
// the row itself, which keeps its appearance data, and the resource
// respawn sweep (deployable.Tick) clears RespawnAt once it is due.
type Grass struct {
	ID         uint64
	X, Y       float64
	Chunk      int64
	IsBramble  bool
	RespawnAt  *time.Time
	Appearance string
}

type Mushroom struct {
	ID         uint64
	X, Y       float64
	Chunk      int64
	Health     float64
	RespawnAt  *time.Time
	Appearance string
}

type Crop struct {
	ID         uint64
	X, Y       float64
	Chunk      int64
	Health     float64
	RespawnAt  *time.Time
	Appearance string
}

// DroppedItem is a loose item lying on the ground (§3.1).
type DroppedItem struct {
	ID        uint64
	X, Y      float64
	ItemDefID uint64
	Quantity  int
}

// ActiveConsumableEffect is a ticking status effect row (§3.1).
type ActiveConsumableEffect struct {
	ID               uint64
	PlayerID         Identity // the effect's owner row
	TargetPlayerID   *Identity
	EffectType       EffectType
	StartedAt        time.Time
	EndsAt           time.Time
	TickInterval     time.Duration
	NextTickAt       time.Time
	TotalAmount      *float64
	AmountAppliedSoFar float64
}

// DodgeRoll is the per-player state row for an in-progress dodge roll
// (§4.5.3), keyed by the rolling player's Identity. The row is deleted
// once the roll completes.
type DodgeRoll struct {
	Player      Identity
	StartTimeMS int64
	StartPos    Vec2
	TargetPos   Vec2
	Direction   string // locked 8-way facing label for the roll's duration

	// LastDodgeTime is a copy of the player's pre-roll cooldown
	// timestamp (§4.5.3: "a copy of last_dodge_time_ms"). The
	// authoritative cooldown gate lives on Player.LastDodgeTime, which
	// outlives this row; this copy is carried for client display only.
	LastDodgeTime time.Time
}
