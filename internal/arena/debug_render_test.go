package arena

import (
	"testing"

	"cosmic-arena/internal/ecs"
)

// A body spinning in place with negligible linear velocity must still show
// up in the debug-render velocity feed.
func TestDebugRenderIncludesAngularOnlyVelocity(t *testing.T) {
	sim := NewSimulation(DefaultBounds())
	_, e := spawnTestShip(t, sim, 0, 0)

	link, ok := ecs.Get[PhysicsLink](sim.store, e)
	if !ok {
		t.Fatal("spawned ship has no PhysicsLink")
	}

	sim.world.AddTorque(link.Body, 500)
	sim.world.Step(SimPeriod.Seconds())

	state, ok := sim.world.Query(link.Body)
	if !ok {
		t.Fatal("body vanished after Step")
	}
	if state.LinearVelocity.Len() > debugVelocityThreshold {
		t.Fatalf("expected negligible linear velocity, got %v", state.LinearVelocity)
	}
	if state.AngularVelocity <= debugVelocityThreshold {
		t.Fatalf("expected angular velocity above threshold, got %v", state.AngularVelocity)
	}

	data := sim.GenerateDebugRenderData()
	for _, v := range data.Velocities {
		if v.Body == uint32(link.Body) {
			return
		}
	}
	t.Fatalf("angular-only body missing from debug render velocities: %+v", data.Velocities)
}
