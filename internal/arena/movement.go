package arena

import (
	"math"

	"cosmic-arena/internal/ecs"
	"cosmic-arena/internal/physics"
)

// applyMovementForces reads each ship's single pending input frame and
// turns it into force/torque on its physics body. Grounded on the original
// source's update_movement. Forces are always reset first so a prior tick's
// thrust never silently persists — the firing model is "thrusters on/off",
// not accumulating.
func (s *Simulation) applyMovementForces() {
	ecs.Each4(s.store, func(_ ecs.Entity, ship *Ship, link *PhysicsLink, buf *InputBuffer, transform *Transform) {
		s.world.ResetForces(link.Body)
		s.world.ResetTorques(link.Body)

		frame, ok := buf.Peek()
		if !ok {
			return
		}

		if frame.Thrust != 0 {
			dir := physics.VecFromAngle(transform.Rotation)
			s.world.AddForce(link.Body, dir.Scale(ship.ThrustPower*frame.Thrust))
		}

		if frame.Turn != 0 {
			torque := -frame.Turn * ship.TurnRate * ship.Mass * TorqueScale
			s.world.AddTorque(link.Body, torque)
		}

		buf.Clear()
	})
}

// mirrorPhysicsToECS copies every linked body's translation/rotation and
// velocity back into the ECS Transform/Velocity components.
func (s *Simulation) mirrorPhysicsToECS() {
	ecs.Each1(s.store, func(e ecs.Entity, link *PhysicsLink) {
		state, ok := s.world.Query(link.Body)
		if !ok {
			return
		}

		ecs.Set(s.store, e, Transform{
			X:        state.Translation.X,
			Y:        state.Translation.Y,
			Rotation: math.Mod(state.Rotation, 2*math.Pi),
		})
		ecs.Set(s.store, e, Velocity{
			VX:    state.LinearVelocity.X,
			VY:    state.LinearVelocity.Y,
			Omega: state.AngularVelocity,
		})
	})
}
