package arena

import (
	"log"
	"math"

	"cosmic-arena/internal/ecs"
	"cosmic-arena/internal/physics"
)

// processWeaponFiring resolves primary-fire requests into projectile spawns.
// Only RapidFire is fully implemented; the other variants are accepted,
// their cooldown gate still runs so fire-rate telemetry stays consistent,
// but no projectile spawns — a deliberate extension point, not a gap.
func (s *Simulation) processWeaponFiring() {
	now := s.simTime()
	type spawnRequest struct {
		origin physics.Vec2
		facing float64
		owner  PlayerID
		params RapidFireParams
	}
	var spawns []spawnRequest

	ecs.Each4(s.store, func(_ ecs.Entity, transform *Transform, ident *PlayerIdentity, buf *InputBuffer, weapon *Weapon) {
		frame, ok := buf.Peek()
		if !ok || !frame.PrimaryFire {
			if ok && frame.SecondaryFire {
				log.Printf("secondary fire requested by %s: reserved, ignored", ident.Name)
			}
			return
		}

		// Epsilon guards against float64 rounding landing a tick boundary
		// just on the wrong side of the cooldown threshold.
		if now-weapon.LastFireTime < weapon.Cooldown-1e-9 {
			return
		}
		weapon.LastFireTime = now

		if weapon.Variant != RapidFire {
			log.Printf("weapon variant %d fired by %s: not yet implemented, no projectile spawned", weapon.Variant, ident.Name)
			return
		}

		spawns = append(spawns, spawnRequest{
			origin: physics.Vec2{X: transform.X, Y: transform.Y},
			facing: transform.Rotation,
			owner:  ident.PlayerID,
			params: weapon.RapidFire,
		})
	})

	for _, req := range spawns {
		if s.store.Len() >= s.maxEntities {
			log.Printf("entity cap %d reached, projectile not spawned", s.maxEntities)
			break
		}
		s.spawnProjectile(req.origin, req.facing, req.owner, req.params)
	}
}

// spawnProjectile creates a kinematic-velocity projectile entity 15 units
// ahead of the firing ship's nose, moving at the weapon's muzzle velocity.
func (s *Simulation) spawnProjectile(origin physics.Vec2, facing float64, owner PlayerID, params RapidFireParams) {
	dir := physics.VecFromAngle(facing)
	spawnPos := origin.Add(dir.Scale(MuzzleOffset))
	muzzleVelocity := dir.Scale(params.Speed)

	body := s.world.AddKinematicVelocityBody(spawnPos, muzzleVelocity)
	_, _ = s.world.AttachBallCollider(body, ProjectileColliderRadius, ProjectileColliderDensity, 0, 0)

	e := s.store.Spawn()
	s.linkEntityToBody(e, body)

	ecs.Set(s.store, e, Transform{
		X:        spawnPos.X,
		Y:        spawnPos.Y,
		Rotation: math.Atan2(muzzleVelocity.Y, muzzleVelocity.X),
	})
	ecs.Set(s.store, e, Velocity{VX: muzzleVelocity.X, VY: muzzleVelocity.Y})
	ecs.Set(s.store, e, Projectile{
		Damage:          params.Damage,
		LifetimeInitial: ProjectileLifetime,
		Speed:           muzzleVelocity.Len(),
		OwnerEntityID:   owner,
	})
	ecs.Set(s.store, e, Lifetime{Remaining: ProjectileLifetime})
	ecs.Set(s.store, e, PhysicsLink{Body: body})

	s.eventLog.EmitSimple(EventTypeProjectileFired, s.tick, owner.String(), ProjectileFiredPayload{
		OwnerID: owner.String(),
		X:       spawnPos.X,
		Y:       spawnPos.Y,
	})
}
