// Package physics is a minimal 2D rigid-body world: a body set, a collider
// set, and a fixed-step exponential-damping integrator. There is no
// collision detection or resolution: Step never checks colliders for
// overlap, so no CollisionEvent is ever recorded.
package physics

import "math"

// JointHandle identifies a joint between two bodies. No operation currently
// creates joints; the type exists so the debug-render builder has something
// stable to report against if joints are introduced later.
type JointHandle uint64

// Joint is a fixed constraint between two bodies, anchored at each body's
// current translation.
type Joint struct {
	Handle  JointHandle
	BodyA   BodyHandle
	BodyB   BodyHandle
	AnchorA Vec2
	AnchorB Vec2
}

// CollisionEvent describes two overlapping bodies. No code in this package
// creates one, and no system reads them; there is no projectile-on-ship hit
// resolution.
type CollisionEvent struct {
	A, B BodyHandle
}

// World holds all rigid bodies and colliders for one room's simulation. Zero
// gravity throughout — this is a top-down arena, not a platformer.
type World struct {
	nextBody     uint64
	nextCollider uint64

	bodies        map[BodyHandle]*body
	colliders     map[ColliderHandle]*Collider
	bodyColliders map[BodyHandle][]ColliderHandle
	joints        []Joint

	events []CollisionEvent
}

// Collider is collider geometry and material attached to a body.
type Collider struct {
	Handle      ColliderHandle
	Body        BodyHandle
	Shape       Shape
	Density     float64
	Friction    float64
	Restitution float64
}

// NewWorld returns an empty physics world.
func NewWorld() *World {
	return &World{
		bodies:        make(map[BodyHandle]*body),
		colliders:     make(map[ColliderHandle]*Collider),
		bodyColliders: make(map[BodyHandle][]ColliderHandle),
	}
}

// AddDynamicBody creates a force/torque-driven body at position, with the
// given linear and angular damping coefficients.
func (w *World) AddDynamicBody(position Vec2, linearDamping, angularDamping float64) BodyHandle {
	w.nextBody++
	h := BodyHandle(w.nextBody)
	w.bodies[h] = &body{
		handle:  h,
		kind:    Dynamic,
		transl:  position,
		linDamp: linearDamping,
		angDamp: angularDamping,
	}
	return h
}

// AddKinematicVelocityBody creates a body that moves at a fixed linear
// velocity every step, ignoring forces and damping entirely. Projectiles use
// this so their muzzle velocity never decays.
func (w *World) AddKinematicVelocityBody(position, linearVelocity Vec2) BodyHandle {
	w.nextBody++
	h := BodyHandle(w.nextBody)
	w.bodies[h] = &body{
		handle: h,
		kind:   KinematicVelocity,
		transl: position,
		linvel: linearVelocity,
	}
	return h
}

// AttachBallCollider attaches a circular collider to body and, for dynamic
// bodies, derives mass from density * area (rapier-style automatic mass).
func (w *World) AttachBallCollider(bodyHandle BodyHandle, radius, density, friction, restitution float64) (ColliderHandle, bool) {
	b, ok := w.bodies[bodyHandle]
	if !ok {
		return 0, false
	}

	w.nextCollider++
	ch := ColliderHandle(w.nextCollider)
	w.colliders[ch] = &Collider{
		Handle:      ch,
		Body:        bodyHandle,
		Shape:       Ball{Radius: radius},
		Density:     density,
		Friction:    friction,
		Restitution: restitution,
	}
	w.bodyColliders[bodyHandle] = append(w.bodyColliders[bodyHandle], ch)

	if b.kind == Dynamic {
		mass := density * math.Pi * radius * radius
		b.mass = mass
		if mass > 0 {
			b.invMass = 1 / mass
		}
	}

	return ch, true
}

// RemoveBody deletes body and every collider and joint attached to it.
func (w *World) RemoveBody(h BodyHandle) {
	if _, ok := w.bodies[h]; !ok {
		return
	}
	for _, ch := range w.bodyColliders[h] {
		delete(w.colliders, ch)
	}
	delete(w.bodyColliders, h)
	delete(w.bodies, h)

	kept := w.joints[:0]
	for _, j := range w.joints {
		if j.BodyA != h && j.BodyB != h {
			kept = append(kept, j)
		}
	}
	w.joints = kept
}

// AddForce accumulates a force on body, to be consumed at the next Step.
func (w *World) AddForce(h BodyHandle, force Vec2) {
	if b, ok := w.bodies[h]; ok {
		b.force = b.force.Add(force)
	}
}

// AddTorque accumulates torque on body, to be consumed at the next Step.
func (w *World) AddTorque(h BodyHandle, torque float64) {
	if b, ok := w.bodies[h]; ok {
		b.torque += torque
	}
}

// ResetForces zeroes body's accumulated force. Must run before each tick's
// input application, or prior thrust silently persists.
func (w *World) ResetForces(h BodyHandle) {
	if b, ok := w.bodies[h]; ok {
		b.force = Vec2{}
	}
}

// ResetTorques zeroes body's accumulated torque.
func (w *World) ResetTorques(h BodyHandle) {
	if b, ok := w.bodies[h]; ok {
		b.torque = 0
	}
}

// SetTranslation forcibly overrides body's position, used by the boundary
// system to clamp a body back inside the arena.
func (w *World) SetTranslation(h BodyHandle, position Vec2) {
	if b, ok := w.bodies[h]; ok {
		b.transl = position
	}
}

// SetLinearVelocity forcibly overrides body's linear velocity.
func (w *World) SetLinearVelocity(h BodyHandle, v Vec2) {
	if b, ok := w.bodies[h]; ok {
		b.linvel = v
	}
}

// Query returns body's current state, or false if the handle is unknown.
func (w *World) Query(h BodyHandle) (BodyState, bool) {
	b, ok := w.bodies[h]
	if !ok {
		return BodyState{}, false
	}
	return BodyState{
		Translation:     b.transl,
		Rotation:        b.rot,
		LinearVelocity:  b.linvel,
		AngularVelocity: b.angvel,
		Mass:            b.mass,
		LinearDamping:   b.linDamp,
		AngularDamping:  b.angDamp,
		Type:            b.kind,
	}, true
}

// Force returns body's currently accumulated force and torque, for the
// debug-render builder. Not reset until the next tick's ResetForces call.
func (w *World) Force(h BodyHandle) (force Vec2, torque float64, ok bool) {
	b, ok := w.bodies[h]
	if !ok {
		return Vec2{}, 0, false
	}
	return b.force, b.torque, true
}

// Step integrates every body forward by dt.
func (w *World) Step(dt float64) {
	for _, b := range w.bodies {
		b.integrate(dt)
	}
}

// Bodies returns the handles of every live body, for the debug-render
// builder's independent walk of the world.
func (w *World) Bodies() []BodyHandle {
	out := make([]BodyHandle, 0, len(w.bodies))
	for h := range w.bodies {
		out = append(out, h)
	}
	return out
}

// Colliders returns every live collider, for the debug-render builder.
func (w *World) Colliders() []*Collider {
	out := make([]*Collider, 0, len(w.colliders))
	for _, c := range w.colliders {
		out = append(out, c)
	}
	return out
}

// Joints returns every joint in the world. Always empty today: no operation
// creates one, but the debug-render schema reserves a slot for them.
func (w *World) Joints() []Joint {
	return w.joints
}

// Events returns the world's collision events without draining them. Step
// performs no collision detection, so the slice is always empty.
func (w *World) Events() []CollisionEvent {
	return w.events
}
