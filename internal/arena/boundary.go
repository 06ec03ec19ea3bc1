package arena

import (
	"cosmic-arena/internal/ecs"
	"cosmic-arena/internal/physics"
)

// boundarySystem clamps every Transform into the arena rectangle. A clamp
// that moves a physics-linked entity is mirrored back into the body via
// SetTranslation, and linear velocity is damped by 0.5 (a soft wall) on both
// the body and the ECS Velocity, so the ECS and physics state agree at the
// end of the tick.
func (s *Simulation) boundarySystem() {
	halfW := s.bounds.Width / 2
	halfH := s.bounds.Height / 2

	ecs.Each1(s.store, func(e ecs.Entity, t *Transform) {
		x, y := t.X, t.Y
		clamped := false

		if x < -halfW {
			x = -halfW
			clamped = true
		} else if x > halfW {
			x = halfW
			clamped = true
		}
		if y < -halfH {
			y = -halfH
			clamped = true
		} else if y > halfH {
			y = halfH
			clamped = true
		}

		if !clamped {
			return
		}

		t.X, t.Y = x, y

		link, ok := ecs.Get[PhysicsLink](s.store, e)
		if !ok {
			return
		}

		s.world.SetTranslation(link.Body, physics.Vec2{X: x, Y: y})

		if state, ok := s.world.Query(link.Body); ok {
			damped := state.LinearVelocity.Scale(0.5)
			s.world.SetLinearVelocity(link.Body, damped)
			ecs.Mutate(s.store, e, func(v *Velocity) {
				v.VX, v.VY = damped.X, damped.Y
			})
		}
	})
}
