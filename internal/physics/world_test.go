package physics

import (
	"math"
	"testing"
)

func TestDampingDecaysVelocityTowardsZero(t *testing.T) {
	w := NewWorld()
	h := w.AddDynamicBody(Vec2{}, 0.4, 1.0)
	w.SetLinearVelocity(h, Vec2{X: 10})

	prevSpeed := math.Inf(1)
	for i := 0; i < 300; i++ {
		w.Step(1.0 / 15)
		state, _ := w.Query(h)
		speed := state.LinearVelocity.Len()
		if speed > prevSpeed+1e-9 {
			t.Fatalf("speed increased at step %d: %v -> %v", i, prevSpeed, speed)
		}
		prevSpeed = speed
	}

	state, _ := w.Query(h)
	if state.LinearVelocity.Len() >= 0.01 {
		t.Fatalf("expected velocity to decay near zero, got %v", state.LinearVelocity.Len())
	}
}

func TestKinematicVelocityBodyIgnoresForce(t *testing.T) {
	w := NewWorld()
	h := w.AddKinematicVelocityBody(Vec2{}, Vec2{X: 300})
	w.AddForce(h, Vec2{Y: 1000})

	w.Step(1.0 / 15)

	state, _ := w.Query(h)
	if state.LinearVelocity.X != 300 || state.LinearVelocity.Y != 0 {
		t.Fatalf("expected kinematic body velocity unaffected by force, got %+v", state.LinearVelocity)
	}
	if state.Translation.X <= 0 {
		t.Fatalf("expected kinematic body to move along its velocity, got %+v", state.Translation)
	}
}

func TestAttachBallColliderSetsMass(t *testing.T) {
	w := NewWorld()
	h := w.AddDynamicBody(Vec2{}, 0.4, 1.0)
	if _, ok := w.AttachBallCollider(h, 8.0, 1.0, 0.0, 0.8); !ok {
		t.Fatal("expected AttachBallCollider to succeed for a known body")
	}

	state, _ := w.Query(h)
	expected := math.Pi * 8.0 * 8.0
	if math.Abs(state.Mass-expected) > 1e-6 {
		t.Fatalf("expected mass %v, got %v", expected, state.Mass)
	}
}

func TestRemoveBodyRemovesCollidersAndJoints(t *testing.T) {
	w := NewWorld()
	h := w.AddDynamicBody(Vec2{}, 0.4, 1.0)
	ch, _ := w.AttachBallCollider(h, 8, 1, 0, 0.8)
	w.joints = append(w.joints, Joint{Handle: 1, BodyA: h, BodyB: h})

	w.RemoveBody(h)

	if _, ok := w.Query(h); ok {
		t.Fatal("expected body to be gone")
	}
	for _, c := range w.Colliders() {
		if c.Handle == ch {
			t.Fatal("expected collider to be removed with its body")
		}
	}
	if len(w.Joints()) != 0 {
		t.Fatal("expected joints referencing the removed body to be gone")
	}
}

func TestResetForcesClearsAccumulator(t *testing.T) {
	w := NewWorld()
	h := w.AddDynamicBody(Vec2{}, 0, 0)
	w.AttachBallCollider(h, 8, 1, 0, 0.8)
	w.AddForce(h, Vec2{X: 500})
	w.ResetForces(h)

	w.Step(1.0 / 15)

	state, _ := w.Query(h)
	if state.LinearVelocity.X != 0 {
		t.Fatalf("expected reset force to not be applied, velocity.X=%v", state.LinearVelocity.X)
	}
}

func TestAddForceAccumulatesAcrossCalls(t *testing.T) {
	w := NewWorld()
	h := w.AddDynamicBody(Vec2{}, 0, 0)
	w.AttachBallCollider(h, 8, 1, 0, 0.8)

	w.AddForce(h, Vec2{X: 1})
	w.AddForce(h, Vec2{X: 1})
	w.Step(1.0 / 15)

	state, _ := w.Query(h)
	if state.LinearVelocity.X <= 0 {
		t.Fatalf("expected accumulated force to produce positive velocity, got %v", state.LinearVelocity.X)
	}
}
