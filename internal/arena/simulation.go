package arena

import (
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"

	"cosmic-arena/internal/ecs"
	"cosmic-arena/internal/physics"
)

// Bounds is the arena rectangle, centered at the origin.
type Bounds struct {
	Width, Height float64
}

// DefaultBounds returns the stock 1920x1080 arena.
func DefaultBounds() Bounds {
	return Bounds{Width: DefaultArenaWidth, Height: DefaultArenaHeight}
}

// StepResult is what one Step call reports back to its caller.
type StepResult struct {
	Tick         uint64
	StepDuration time.Duration
	EntityCount  int
	Snapshot     *GameSnapshot
}

// ErrRoomFull is returned by SpawnPlayerShip when MaxPlayersPerRoom is
// already reached.
var ErrRoomFull = errors.New("room is full")

// Simulation is one room's authoritative world: physics, ECS store, input
// buffers, and the tick loop that drives them. Grounded on the teacher's
// Engine (sync.RWMutex-guarded state, ticker-driven tick goroutine,
// resource-limit caps), generalized from melee-fighter entities to
// ship/projectile entities.
type Simulation struct {
	mu sync.RWMutex

	world *physics.World
	store *ecs.Store

	entityToBody map[ecs.Entity]physics.BodyHandle
	bodyToEntity map[physics.BodyHandle]ecs.Entity
	playerEntity map[PlayerID]ecs.Entity

	bounds Bounds

	tick           uint64
	snapshotSeq    uint64
	discardedTotal uint64

	pool     *SnapshotPool
	eventLog *EventLog

	maxEntities int

	ticker   *time.Ticker
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSimulation returns an empty simulation for one room.
func NewSimulation(bounds Bounds) *Simulation {
	return &Simulation{
		world:        physics.NewWorld(),
		store:        ecs.NewStore(),
		entityToBody: make(map[ecs.Entity]physics.BodyHandle),
		bodyToEntity: make(map[physics.BodyHandle]ecs.Entity),
		playerEntity: make(map[PlayerID]ecs.Entity),
		bounds:       bounds,
		pool:         NewSnapshotPool(),
		eventLog:     NewEventLog(),
		maxEntities:  10_000, // DoS cap: wildly more than MaxPlayersPerRoom*projectiles could ever need
	}
}

// EventLog returns the simulation's event log, so the owning room can Start
// and Stop it alongside the tick loop.
func (s *Simulation) EventLog() *EventLog {
	return s.eventLog
}

// linkEntityToBody records the entity<->body bijection.
func (s *Simulation) linkEntityToBody(e ecs.Entity, b physics.BodyHandle) {
	s.entityToBody[e] = b
	s.bodyToEntity[b] = e
}

// SpawnPlayerShip creates a ship entity wired to a new dynamic physics body.
// Returns ErrRoomFull once MaxPlayersPerRoom live ships already exist.
func (s *Simulation) SpawnPlayerShip(id PlayerID, name string, spawnPosition physics.Vec2) (ecs.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ecs.Count[PlayerIdentity](s.store) >= MaxPlayersPerRoom {
		return 0, ErrRoomFull
	}

	ship := DefaultShip()
	body := s.world.AddDynamicBody(spawnPosition, ShipLinearDamping, ShipAngularDamping)
	_, _ = s.world.AttachBallCollider(body, ship.Size, ShipColliderDensity, ShipColliderFriction, ShipColliderRestitution)

	if st, ok := s.world.Query(body); ok {
		ship.Mass = st.Mass
	}

	e := s.store.Spawn()
	s.linkEntityToBody(e, body)

	ecs.Set(s.store, e, Transform{X: spawnPosition.X, Y: spawnPosition.Y})
	ecs.Set(s.store, e, Velocity{})
	ecs.Set(s.store, e, DefaultHealth())
	ecs.Set(s.store, e, PlayerIdentity{PlayerID: id, Name: name})
	ecs.Set(s.store, e, InputBuffer{})
	ecs.Set(s.store, e, ship)
	ecs.Set(s.store, e, DefaultRapidFireWeapon())
	ecs.Set(s.store, e, PhysicsLink{Body: body})

	s.playerEntity[id] = e
	log.Printf("🚀 player %s (%s) spawned as entity %d at (%.1f, %.1f)", name, id, e, spawnPosition.X, spawnPosition.Y)

	s.eventLog.EmitSimple(EventTypePlayerJoin, s.tick, id.String(), PlayerJoinPayload{
		PlayerID:   id.String(),
		PlayerName: name,
		SpawnX:     spawnPosition.X,
		SpawnY:     spawnPosition.Y,
	})

	return e, nil
}

// DespawnEntity removes e's components, unlinking and removing its physics
// body first. Idempotent against an unknown or already-despawned entity.
func (s *Simulation) DespawnEntity(e ecs.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.despawnEntityLocked(e)
}

func (s *Simulation) despawnEntityLocked(e ecs.Entity) {
	if !s.store.Alive(e) {
		return
	}

	if link, ok := ecs.Get[PhysicsLink](s.store, e); ok {
		s.world.RemoveBody(link.Body)
		delete(s.bodyToEntity, link.Body)
		delete(s.entityToBody, e)
	}

	if ident, ok := ecs.Get[PlayerIdentity](s.store, e); ok {
		delete(s.playerEntity, ident.PlayerID)
		s.eventLog.EmitSimple(EventTypePlayerLeave, s.tick, ident.PlayerID.String(), DespawnPayload{EntityID: uint64(e)})
	} else {
		s.eventLog.EmitSimple(EventTypeDespawn, s.tick, "", DespawnPayload{EntityID: uint64(e)})
	}

	s.store.Despawn(e)
}

// AddPlayerInput enqueues frame into id's ship's input buffer. Dropped with
// a warning log if the player has no live ship (room-not-found-on-input is
// a transport-layer concern; this is the entity-not-found analogue).
func (s *Simulation) AddPlayerInput(id PlayerID, frame InputFrame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.playerEntity[id]
	if !ok {
		log.Printf("⚠️ input for unknown player %s dropped", id)
		return
	}

	ecs.Mutate(s.store, e, func(b *InputBuffer) {
		b.AddInput(frame)
	})
}

// Step runs exactly one tick: prepare inputs, fire weapons, apply forces,
// step physics, mirror physics into the ECS, run lifetime/health/boundary
// systems, then produce a snapshot. dt overrides the physics integrator's
// timestep for this call only; logical tick count always advances by one.
func (s *Simulation) Step(dt time.Duration) StepResult {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	seconds := dt.Seconds()

	s.prepareInputs()
	s.processWeaponFiring()
	s.applyMovementForces()
	s.world.Step(seconds)
	s.mirrorPhysicsToECS()
	s.lifetimeSystem(seconds)
	s.healthSystem(seconds)
	s.boundarySystem()

	s.tick++
	s.snapshotSeq++
	snapshot := s.buildSnapshot()

	s.eventLog.EmitSimple(EventTypeTick, s.tick, "", TickPayload{PlayerCount: len(s.playerEntity)})

	return StepResult{
		Tick:         s.tick,
		StepDuration: time.Since(start),
		EntityCount:  s.store.Len(),
		Snapshot:     snapshot,
	}
}

// prepareInputs drains each ship's buffer down to its single newest frame,
// counting discarded older ones.
func (s *Simulation) prepareInputs() {
	ecs.Each3(s.store, func(_ ecs.Entity, _ *PlayerIdentity, buf *InputBuffer, _ *Ship) {
		var latest InputFrame
		var found bool
		discarded := 0

		for {
			f, ok := buf.GetNextInput()
			if !ok {
				break
			}
			if found {
				discarded++
			}
			latest = f
			found = true
		}

		if found {
			buf.Set(latest)
			buf.discardedOlderInputs += uint64(discarded)
			s.discardedTotal += uint64(discarded)
		}
	})
}

// simTime returns the deterministic simulation-time clock, tick*(1/SimRate).
// Never wall-clock, so firing cadence stays reproducible under load.
func (s *Simulation) simTime() float64 {
	return float64(s.tick) / float64(SimRate)
}

// Tick returns the current tick count.
func (s *Simulation) Tick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// EntityCount returns the number of live entities.
func (s *Simulation) EntityCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Len()
}

// DiscardedInputsTotal returns the running count of inputs collapsed away by
// the latest-wins strategy.
func (s *Simulation) DiscardedInputsTotal() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.discardedTotal
}

// GenerateDebugRenderData walks the physics world independently of the ECS.
func (s *Simulation) GenerateDebugRenderData() DebugRenderData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return buildDebugRenderData(s.world, s.snapshotSeq)
}

// Start runs the tick loop on a fixed-period timer until Stop is called.
// Grounded on the teacher's Engine.Start/Stop ticker-goroutine shape.
func (s *Simulation) Start() {
	s.mu.Lock()
	if s.ticker != nil {
		s.mu.Unlock()
		return
	}
	s.ticker = time.NewTicker(SimPeriod)
	s.stopCh = make(chan struct{})
	ticker := s.ticker
	stop := s.stopCh
	s.mu.Unlock()

	_ = s.eventLog.Start("")

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Step(SimPeriod)
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the tick loop. Safe to call multiple times.
func (s *Simulation) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		if s.ticker != nil {
			s.ticker.Stop()
		}
		if s.stopCh != nil {
			close(s.stopCh)
		}
		s.mu.Unlock()
		s.eventLog.Stop()
	})
}
