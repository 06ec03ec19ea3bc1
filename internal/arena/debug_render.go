package arena

import (
	"math"

	"cosmic-arena/internal/physics"
)

// DebugBodyKind mirrors physics.BodyType for the wire-facing debug schema,
// kept separate so the physics package's internal numbering can change
// without renumbering a format clients may have parsed.
type DebugBodyKind int

const (
	DebugBodyDynamic DebugBodyKind = iota
	DebugBodyKinematicVelocity
	DebugBodyStatic
)

func toDebugBodyKind(t physics.BodyType) DebugBodyKind {
	switch t {
	case physics.KinematicVelocity:
		return DebugBodyKinematicVelocity
	case physics.Static:
		return DebugBodyStatic
	default:
		return DebugBodyDynamic
	}
}

// DebugRigidBody is one body's state, handle flattened to a plain number so
// the debug viewer doesn't need to know physics.BodyHandle's type.
type DebugRigidBody struct {
	Handle         uint32
	Position       physics.Vec2
	Rotation       float64
	Kind           DebugBodyKind
	Mass           float64
	LinearDamping  float64
	AngularDamping float64
}

// DebugColliderShape tags which geometry a DebugCollider carries. Only Ball
// is ever produced today — ships and projectiles are both circles — but the
// tag keeps the schema open to the other physics.Shape variants.
type DebugColliderShape int

const (
	DebugShapeBall DebugColliderShape = iota
	DebugShapeCuboid
	DebugShapeTriangle
	DebugShapePolygon
)

// DebugCollider is one collider's geometry. Position and Rotation are its
// parent body's world translation and rotation; colliders carry no offset
// from their body.
type DebugCollider struct {
	Handle   uint32
	Parent   uint32
	Shape    DebugColliderShape
	Radius   float64 // valid when Shape == DebugShapeBall
	Position physics.Vec2
	Rotation float64
}

// DebugForce is a body's currently accumulated force/torque, sampled before
// the next tick's ResetForces call clears it.
type DebugForce struct {
	Body   uint32
	Force  physics.Vec2
	Torque float64
}

// DebugVelocity is included only for bodies whose linear speed or angular
// speed exceeds 0.01 — a body at rest doesn't need a velocity vector drawn
// on top of it.
type DebugVelocity struct {
	Body    uint32
	Linear  physics.Vec2
	Angular float64
}

// DebugJoint anchors two bodies at their current translations. Nothing
// creates a physics.Joint yet, so this is always empty; it exists so the
// schema doesn't need to change the day one is introduced.
type DebugJoint struct {
	Handle  uint32
	BodyA   uint32
	BodyB   uint32
	AnchorA physics.Vec2
	AnchorB physics.Vec2
	Type    string // always "fixed" today
}

// DebugRenderData is an independent, sequence-stamped walk of the physics
// world for debug visualization — it reads physics.World directly rather
// than the ECS, so it reflects exactly what the physics engine believes,
// not what the simulation has mirrored back yet.
type DebugRenderData struct {
	Sequence    uint64
	RigidBodies []DebugRigidBody
	Colliders   []DebugCollider
	Forces      []DebugForce
	Velocities  []DebugVelocity
	Joints      []DebugJoint
}

const debugVelocityThreshold = 0.01

func buildDebugRenderData(w *physics.World, sequence uint64) DebugRenderData {
	data := DebugRenderData{Sequence: sequence}

	for _, h := range w.Bodies() {
		state, ok := w.Query(h)
		if !ok {
			continue
		}

		data.RigidBodies = append(data.RigidBodies, DebugRigidBody{
			Handle:         uint32(h),
			Position:       state.Translation,
			Rotation:       state.Rotation,
			Kind:           toDebugBodyKind(state.Type),
			Mass:           state.Mass,
			LinearDamping:  state.LinearDamping,
			AngularDamping: state.AngularDamping,
		})

		if force, torque, ok := w.Force(h); ok {
			data.Forces = append(data.Forces, DebugForce{
				Body:   uint32(h),
				Force:  force,
				Torque: torque,
			})
		}

		if state.LinearVelocity.Len() > debugVelocityThreshold || math.Abs(state.AngularVelocity) > debugVelocityThreshold {
			data.Velocities = append(data.Velocities, DebugVelocity{
				Body:    uint32(h),
				Linear:  state.LinearVelocity,
				Angular: state.AngularVelocity,
			})
		}
	}

	for _, c := range w.Colliders() {
		parentState, ok := w.Query(c.Body)
		if !ok {
			continue
		}

		dc := DebugCollider{
			Handle:   uint32(c.Handle),
			Parent:   uint32(c.Body),
			Position: parentState.Translation,
			Rotation: parentState.Rotation,
		}

		switch shape := c.Shape.(type) {
		case physics.Ball:
			dc.Shape = DebugShapeBall
			dc.Radius = shape.Radius
		case physics.Cuboid:
			dc.Shape = DebugShapeCuboid
		case physics.Triangle:
			dc.Shape = DebugShapeTriangle
		case physics.Polygon:
			dc.Shape = DebugShapePolygon
		}

		data.Colliders = append(data.Colliders, dc)
	}

	for _, j := range w.Joints() {
		stateA, okA := w.Query(j.BodyA)
		stateB, okB := w.Query(j.BodyB)
		if !okA || !okB {
			continue
		}
		data.Joints = append(data.Joints, DebugJoint{
			Handle:  uint32(j.Handle),
			BodyA:   uint32(j.BodyA),
			BodyB:   uint32(j.BodyB),
			AnchorA: stateA.Translation,
			AnchorB: stateB.Translation,
			Type:    "fixed",
		})
	}

	return data
}
