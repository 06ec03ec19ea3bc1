// Package arena is the authoritative per-room simulation core: components,
// the input buffer, the tick loop and its systems, and the snapshot and
// debug-render builders.
package arena

import (
	"github.com/google/uuid"

	"cosmic-arena/internal/ecs"
	"cosmic-arena/internal/physics"
)

// PlayerID is a stable external player identity, a 128-bit UUID.
type PlayerID = uuid.UUID

// NewPlayerID mints a fresh player identity.
func NewPlayerID() PlayerID {
	return uuid.New()
}

// Transform is position and rotation, mirrored from physics every tick.
type Transform struct {
	X, Y     float64
	Rotation float64
}

// Velocity is linear and angular velocity, mirrored from physics every tick.
type Velocity struct {
	VX, VY float64
	Omega  float64
}

// Health tracks hull and shield. Invariants: 0 <= Current <= Max,
// 0 <= Shield <= ShieldMax. LastDamageTime and simulation time are both in
// simulation-time seconds, never wall-clock.
type Health struct {
	Current             float64
	Max                 float64
	Armor               float64
	Shield              float64
	ShieldMax           float64
	ShieldRechargeRate  float64
	ShieldRechargeDelay float64
	LastDamageTime       float64
}

// DefaultHealth returns a full-health, full-shield ship loadout.
func DefaultHealth() Health {
	return Health{
		Current:             100,
		Max:                 100,
		Armor:               0,
		Shield:              50,
		ShieldMax:           50,
		ShieldRechargeRate:  10,
		ShieldRechargeDelay: 3,
	}
}

// PlayerIdentity names the player behind a ship and carries their running
// totals. Credits is restored from the original source's economy hooks —
// dropped by the distillation, excluded by nothing.
type PlayerIdentity struct {
	PlayerID PlayerID
	Name     string
	Score    int
	Kills    int
	Deaths   int
	Credits  int
}

// Ship holds a player ship's movement characteristics. Mass and Size are
// reconciled from the physics body at spawn time.
type Ship struct {
	ThrustPower float64
	TurnRate    float64
	MaxSpeed    float64
	Mass        float64
	Size        float64
}

// DefaultShip returns the stock ship loadout.
func DefaultShip() Ship {
	return Ship{
		ThrustPower: 500,
		TurnRate:    3.0,
		MaxSpeed:    200,
		Mass:        1.0,
		Size:        8.0,
	}
}

// WeaponVariant tags which firing behavior a Weapon resolves to.
type WeaponVariant int

const (
	RapidFire WeaponVariant = iota
	Beam
	Spread
	Homing
	AreaNuke
)

// RapidFireParams is the only variant ProcessWeaponFiring resolves into a
// projectile spawn.
type RapidFireParams struct {
	Rate   float64
	Damage float64
	Speed  float64
}

// BeamParams, SpreadParams, HomingParams, and AreaNukeParams are reserved:
// a Weapon can carry any of these variants and the snapshot/debug layer
// reports them correctly, but firing one is a cooldown-gated no-op.
type BeamParams struct {
	DamagePerSecond float64
	Range           float64
}

type SpreadParams struct {
	Count       int
	SpreadAngle float64
	Damage      float64
	Speed       float64
}

type HomingParams struct {
	Damage   float64
	Speed    float64
	TurnRate float64
}

type AreaNukeParams struct {
	Damage float64
	Radius float64
}

// Weapon is a ship's armament. Variant selects which *Params field applies.
type Weapon struct {
	Variant      WeaponVariant
	RapidFire    RapidFireParams
	Beam         BeamParams
	Spread       SpreadParams
	Homing       HomingParams
	AreaNuke     AreaNukeParams
	LastFireTime float64
	Ammo         int
	Cooldown     float64
}

// DefaultRapidFireWeapon returns the stock RapidFire loadout. LastFireTime
// starts at -Cooldown, not the zero value, so a fire request on the very
// first tick (simTime 0) isn't gated by simultaneity with its own cooldown.
func DefaultRapidFireWeapon() Weapon {
	return Weapon{
		Variant:      RapidFire,
		Cooldown:     DefaultWeaponCooldown,
		LastFireTime: -DefaultWeaponCooldown,
		RapidFire: RapidFireParams{
			Rate:   5,
			Damage: 10,
			Speed:  300,
		},
	}
}

// Projectile is a fired shot's combat data.
type Projectile struct {
	Damage          float64
	LifetimeInitial float64
	Speed           float64
	OwnerEntityID   PlayerID
}

// Lifetime counts down to despawn.
type Lifetime struct {
	Remaining float64
}

// PhysicsLink binds an entity to its physics body and (optional) collider.
// The store maintains entity<->body as a bijection: despawn must remove
// both sides atomically.
type PhysicsLink struct {
	Body     physics.BodyHandle
	Collider physics.ColliderHandle
}

// EnemyVariant tags a reserved NPC archetype. No AI system runs against it
// yet — see the Enemy/NPC extension point decision in DESIGN.md.
type EnemyVariant int

const (
	Chaser EnemyVariant = iota
	Shooter
)

// EnemyAIState is a reserved NPC's behavior state.
type EnemyAIState int

const (
	Idle EnemyAIState = iota
	Seeking
	Attacking
	Fleeing
)

// Enemy is the reserved NPC component. Nothing spawns one yet.
type Enemy struct {
	Variant         EnemyVariant
	ChaserSpeed     float64
	ShooterRange    float64
	ShooterFireRate float64
	State           EnemyAIState
	Target          *ecs.Entity
}
