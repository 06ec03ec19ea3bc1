package arena

import "time"

const (
	// SimRate is the fixed simulation tick rate in Hz. Snapshot rate equals
	// sim rate by design — every tick produces a snapshot.
	SimRate = 15

	// SimPeriod is the fixed simulation period, 1/SimRate seconds.
	SimPeriod = time.Second / SimRate

	// DefaultArenaWidth and DefaultArenaHeight define the arena rectangle,
	// centered at the origin.
	DefaultArenaWidth  = 1920
	DefaultArenaHeight = 1080

	// DefaultWeaponCooldown is the stock ship's firing cooldown in seconds.
	DefaultWeaponCooldown = 0.2

	// ProjectileLifetime is how long a fired projectile survives, in seconds.
	ProjectileLifetime = 3.0

	// MaxPlayersPerRoom caps concurrent players in a single room.
	MaxPlayersPerRoom = 10

	// ShipLinearDamping and ShipAngularDamping give ships their arcade feel;
	// an older build used 0.5/2.0, but 0.4/1.0 is the maintained path.
	ShipLinearDamping  = 0.4
	ShipAngularDamping = 1.0

	// ProjectileColliderRadius, ProjectileColliderDensity are the ball
	// collider parameters for a fired shot.
	ProjectileColliderRadius  = 2.0
	ProjectileColliderDensity = 0.1

	// ShipColliderDensity, ShipColliderFriction, ShipColliderRestitution are
	// the ball collider parameters for a player ship.
	ShipColliderDensity     = 1.0
	ShipColliderFriction    = 0.0
	ShipColliderRestitution = 0.8

	// MuzzleOffset is how far ahead of the ship's nose a projectile spawns.
	MuzzleOffset = 15.0

	// TorqueScale matches the original turn-to-torque conversion factor.
	TorqueScale = 100.0
)
