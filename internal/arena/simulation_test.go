package arena

import (
	"math"
	"testing"
	"time"

	"cosmic-arena/internal/ecs"
	"cosmic-arena/internal/physics"
)

func spawnTestShip(t *testing.T, sim *Simulation, x, y float64) (PlayerID, ecs.Entity) {
	t.Helper()
	id := NewPlayerID()
	e, err := sim.SpawnPlayerShip(id, "tester", physics.Vec2{X: x, Y: y})
	if err != nil {
		t.Fatalf("SpawnPlayerShip: %v", err)
	}
	return id, e
}

func step(sim *Simulation) StepResult {
	return sim.Step(SimPeriod)
}

// Scenario 1: Spawn & idle. A stationary ship with no inputs stays put and
// its shield (already full) does not change.
func TestSpawnAndIdle(t *testing.T) {
	sim := NewSimulation(DefaultBounds())
	_, e := spawnTestShip(t, sim, 100, 0)

	var result StepResult
	for i := 0; i < 15; i++ {
		result = step(sim)
	}

	if result.Tick != 15 {
		t.Fatalf("want tick=15, got %d", result.Tick)
	}
	if result.Snapshot == nil {
		t.Fatal("expected a snapshot every tick")
	}

	transform, ok := ecs.Get[Transform](sim.store, e)
	if !ok {
		t.Fatal("ship entity lost its Transform")
	}
	if math.Abs(transform.X-100) > 1e-3 || math.Abs(transform.Y) > 1e-3 {
		t.Fatalf("expected position ~(100,0), got (%v,%v)", transform.X, transform.Y)
	}

	velocity, ok := ecs.Get[Velocity](sim.store, e)
	if !ok || math.Hypot(velocity.VX, velocity.VY) > 1e-3 {
		t.Fatalf("expected ~zero velocity, got %+v", velocity)
	}

	health, ok := ecs.Get[Health](sim.store, e)
	if !ok || health.Shield != health.ShieldMax {
		t.Fatalf("expected shield unchanged at max, got %+v", health)
	}
}

// Scenario 2: Full-thrust forward. Feeding thrust=1 every tick pushes the
// ship forward along its facing (rotation 0 means +x) with velocity bounded
// by damping, and negligible drift off the x-axis.
func TestFullThrustForward(t *testing.T) {
	sim := NewSimulation(DefaultBounds())
	id, e := spawnTestShip(t, sim, 0, 0)

	var lastX float64
	for i := 0; i < 15; i++ {
		sim.AddPlayerInput(id, InputFrame{Sequence: uint32(i + 1), Thrust: 1})
		step(sim)

		transform, _ := ecs.Get[Transform](sim.store, e)
		if transform.X <= lastX-1e-9 {
			t.Fatalf("tick %d: x did not increase monotonically: prev=%v now=%v", i, lastX, transform.X)
		}
		if math.Abs(transform.Y) > 1e-3 {
			t.Fatalf("tick %d: expected y≈0, got %v", i, transform.Y)
		}
		lastX = transform.X
	}

	velocity, _ := ecs.Get[Velocity](sim.store, e)
	ship, _ := ecs.Get[Ship](sim.store, e)
	if math.Hypot(velocity.VX, velocity.VY) > ship.MaxSpeed+1 {
		t.Fatalf("velocity exceeded steady-state bound: %+v", velocity)
	}
}

// Scenario 3: Latest-wins input. Of three inputs pushed between steps, only
// the highest-sequence frame's thrust is applied; the other two are counted
// as discarded.
func TestLatestWinsInputAtSimulationLevel(t *testing.T) {
	sim := NewSimulation(DefaultBounds())
	id, e := spawnTestShip(t, sim, 0, 0)

	ecs.Mutate(sim.store, e, func(buf *InputBuffer) {
		buf.lastProcessedSequence = 4
	})

	sim.AddPlayerInput(id, InputFrame{Sequence: 5, Thrust: 0.2})
	sim.AddPlayerInput(id, InputFrame{Sequence: 6, Thrust: 0.5})
	sim.AddPlayerInput(id, InputFrame{Sequence: 7, Thrust: 1.0})

	before := sim.DiscardedInputsTotal()
	step(sim)
	after := sim.DiscardedInputsTotal()

	if after-before != 2 {
		t.Fatalf("expected 2 discarded inputs, got %d", after-before)
	}

	velocity, _ := ecs.Get[Velocity](sim.store, e)
	if velocity.VX <= 0 {
		t.Fatalf("expected forward motion from thrust=1.0, got velocity %+v", velocity)
	}
}

// Scenario 4: Fire cadence. With the default RapidFire cooldown of 0.2s at
// 15Hz, holding primary fire down spawns exactly one projectile every 3
// ticks, each with the expected lifetime, speed, and muzzle offset.
func TestFireCadence(t *testing.T) {
	sim := NewSimulation(DefaultBounds())
	id, _ := spawnTestShip(t, sim, 0, 0)

	spawnedAtTick := []uint64{}
	for i := 0; i < 12; i++ {
		sim.AddPlayerInput(id, InputFrame{Sequence: uint32(i + 1), PrimaryFire: true})
		before := ecs.Count[Projectile](sim.store)
		result := step(sim)
		after := ecs.Count[Projectile](sim.store)
		if after > before {
			spawnedAtTick = append(spawnedAtTick, result.Tick)
		}
	}

	if len(spawnedAtTick) != 4 {
		t.Fatalf("expected 4 projectiles over 12 ticks (every 3), got %d spawns at %v", len(spawnedAtTick), spawnedAtTick)
	}
	for i := 1; i < len(spawnedAtTick); i++ {
		if spawnedAtTick[i]-spawnedAtTick[i-1] != 3 {
			t.Fatalf("expected 3-tick spacing between shots, got %v", spawnedAtTick)
		}
	}

	var found bool
	ecs.Each2(sim.store, func(e ecs.Entity, proj *Projectile, transform *Transform) {
		found = true
		// Each projectile has flown at its muzzle speed for as long as its
		// lifetime has been counting down, starting from the muzzle offset.
		lifetime, _ := ecs.Get[Lifetime](sim.store, e)
		wantX := MuzzleOffset + proj.Speed*(ProjectileLifetime-lifetime.Remaining)
		if proj.LifetimeInitial != ProjectileLifetime {
			t.Fatalf("expected lifetime_initial=%v, got %v", ProjectileLifetime, proj.LifetimeInitial)
		}
		if math.Abs(proj.Speed-300) > 1e-6 {
			t.Fatalf("expected |velocity|=300, got %v", proj.Speed)
		}
		if math.Abs(transform.X-wantX) > 1e-6 {
			t.Fatalf("expected spawn %v ahead of origin plus flight, x=%v, got x=%v", MuzzleOffset, wantX, transform.X)
		}
	})
	if !found {
		t.Fatal("expected at least one live projectile")
	}
}

// Scenario 5: Projectile expiry. A projectile despawns exactly 45 ticks (3s
// at 15Hz) after it spawns, and never reappears in a snapshot afterward.
func TestProjectileExpiry(t *testing.T) {
	sim := NewSimulation(DefaultBounds())
	id, _ := spawnTestShip(t, sim, 0, 0)

	sim.AddPlayerInput(id, InputFrame{Sequence: 1, PrimaryFire: true})
	step(sim)

	if ecs.Count[Projectile](sim.store) != 1 {
		t.Fatalf("expected exactly one live projectile after firing")
	}

	var projectileEntity ecs.Entity
	ecs.Each1(sim.store, func(e ecs.Entity, _ *Projectile) { projectileEntity = e })

	var result StepResult
	for i := 0; i < 45; i++ {
		result = step(sim)
	}

	if ecs.Count[Projectile](sim.store) != 0 {
		t.Fatalf("expected projectile despawned after 45 ticks, %d remain", ecs.Count[Projectile](sim.store))
	}
	for _, snap := range result.Snapshot.Entities {
		if snap.EntityID == uint64(projectileEntity) {
			t.Fatal("expired projectile still present in snapshot")
		}
	}
}

// Scenario 6: Boundary clamp. A ship thrusting toward the arena edge is
// clamped to the boundary and its velocity damped on collision with it. The
// speed just before the clamp is bounded by the previous tick's speed plus
// one tick of thrust.
func TestBoundaryClamp(t *testing.T) {
	sim := NewSimulation(DefaultBounds())
	id, e := spawnTestShip(t, sim, 959, 0)

	var transform Transform
	var velocityBeforeClamp, velocityAfterClamp float64
	clamped := false
	for i := 0; i < 200 && !clamped; i++ {
		sim.AddPlayerInput(id, InputFrame{Sequence: uint32(i + 1), Thrust: 1})
		v, _ := ecs.Get[Velocity](sim.store, e)
		ship, _ := ecs.Get[Ship](sim.store, e)
		velocityBeforeClamp = math.Hypot(v.VX, v.VY) + ship.ThrustPower/ship.Mass*SimPeriod.Seconds()

		step(sim)

		transform, _ = ecs.Get[Transform](sim.store, e)
		if transform.X >= DefaultArenaWidth/2 {
			clamped = true
			v2, _ := ecs.Get[Velocity](sim.store, e)
			velocityAfterClamp = math.Hypot(v2.VX, v2.VY)
		}
	}

	if !clamped {
		t.Fatal("ship never reached the boundary")
	}
	if transform.X != DefaultArenaWidth/2 {
		t.Fatalf("expected x clamped to %v, got %v", DefaultArenaWidth/2, transform.X)
	}
	if velocityAfterClamp > 0.5*velocityBeforeClamp+1e-9 {
		t.Fatalf("expected velocity damped to ≤half on boundary hit: before=%v after=%v", velocityBeforeClamp, velocityAfterClamp)
	}
}

// Idempotent despawn: calling DespawnEntity twice is a no-op the second time.
func TestDespawnIsIdempotent(t *testing.T) {
	sim := NewSimulation(DefaultBounds())
	_, e := spawnTestShip(t, sim, 0, 0)

	before := sim.EntityCount()
	sim.DespawnEntity(e)
	afterFirst := sim.EntityCount()
	sim.DespawnEntity(e)
	afterSecond := sim.EntityCount()

	if afterFirst != before-1 {
		t.Fatalf("expected entity count to drop by one, got %d -> %d", before, afterFirst)
	}
	if afterSecond != afterFirst {
		t.Fatalf("expected second despawn to be a no-op, got %d -> %d", afterFirst, afterSecond)
	}
}

// No-force stationary decay: with damping and no input, speed never
// increases and converges near zero.
func TestNoForceStationaryDecay(t *testing.T) {
	sim := NewSimulation(DefaultBounds())
	id, e := spawnTestShip(t, sim, 0, 0)

	sim.AddPlayerInput(id, InputFrame{Sequence: 1, Thrust: 1})
	step(sim)

	v, _ := ecs.Get[Velocity](sim.store, e)
	lastSpeed := math.Hypot(v.VX, v.VY)
	if lastSpeed <= 0 {
		t.Fatal("expected ship to have nonzero speed after thrusting once")
	}

	for i := 0; i < 120; i++ {
		step(sim)
		v, _ = ecs.Get[Velocity](sim.store, e)
		speed := math.Hypot(v.VX, v.VY)
		if speed > lastSpeed+1e-9 {
			t.Fatalf("speed increased with no input: %v -> %v", lastSpeed, speed)
		}
		lastSpeed = speed
	}

	if lastSpeed > 1e-2 {
		t.Fatalf("expected speed to converge near zero, got %v", lastSpeed)
	}
}

// Cooldown law: consecutive rapid-fire shots from the same ship are spaced
// by at least weapon.Cooldown of simulation time.
func TestCooldownLaw(t *testing.T) {
	sim := NewSimulation(DefaultBounds())
	id, _ := spawnTestShip(t, sim, 0, 0)

	var fireTimes []float64
	for i := 0; i < 30; i++ {
		before := ecs.Count[Projectile](sim.store)
		sim.AddPlayerInput(id, InputFrame{Sequence: uint32(i + 1), PrimaryFire: true})
		step(sim)
		after := ecs.Count[Projectile](sim.store)
		if after > before {
			fireTimes = append(fireTimes, sim.simTime())
		}
	}

	for i := 1; i < len(fireTimes); i++ {
		gap := fireTimes[i] - fireTimes[i-1]
		if gap < DefaultWeaponCooldown-1e-9 {
			t.Fatalf("fire gap %v below cooldown %v", gap, DefaultWeaponCooldown)
		}
	}
}

func TestSnapshotSequenceAndTickStrictlyIncrease(t *testing.T) {
	sim := NewSimulation(DefaultBounds())
	spawnTestShip(t, sim, 0, 0)

	var lastSeq, lastTick uint64
	for i := 0; i < 10; i++ {
		result := step(sim)
		if result.Snapshot.Sequence <= lastSeq && i > 0 {
			t.Fatalf("snapshot sequence did not strictly increase: %d -> %d", lastSeq, result.Snapshot.Sequence)
		}
		if result.Tick <= lastTick && i > 0 {
			t.Fatalf("tick did not strictly increase: %d -> %d", lastTick, result.Tick)
		}
		lastSeq = result.Snapshot.Sequence
		lastTick = result.Tick
	}
}

func TestRoomFullReturnsError(t *testing.T) {
	sim := NewSimulation(DefaultBounds())
	for i := 0; i < MaxPlayersPerRoom; i++ {
		if _, err := sim.SpawnPlayerShip(NewPlayerID(), "p", physics.Vec2{}); err != nil {
			t.Fatalf("unexpected error spawning player %d: %v", i, err)
		}
	}
	if _, err := sim.SpawnPlayerShip(NewPlayerID(), "overflow", physics.Vec2{}); err != ErrRoomFull {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
}

func TestStepAdvancesWallClockIndependently(t *testing.T) {
	sim := NewSimulation(DefaultBounds())
	spawnTestShip(t, sim, 0, 0)

	start := time.Now()
	for i := 0; i < 5; i++ {
		step(sim)
	}
	if time.Since(start) > time.Second {
		t.Fatal("simulation stepping should not block on wall-clock time")
	}
	if sim.Tick() != 5 {
		t.Fatalf("expected tick 5, got %d", sim.Tick())
	}
}
