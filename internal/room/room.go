// Package room restores the room-directory layer the arena package treats
// as an external collaborator: one Room binds a single arena.Simulation to
// its own tick scheduler and connected-player set; Directory maps room
// codes to rooms behind a single coarse lock.
package room

import (
	"log"
	"math"
	"sync"
	"time"

	"cosmic-arena/internal/arena"
	"cosmic-arena/internal/ecs"
	"cosmic-arena/internal/physics"
)

// EmptyRoomGC is how long an empty room survives before the directory
// sweeper reaps it.
const EmptyRoomGC = 300 * time.Second

// PlayerIdleGC is how long a connected player may go without sending input
// before the room sweeper despawns their ship.
const PlayerIdleGC = 120 * time.Second

// spawnSlots is how many distinguishable spawn positions the default
// policy generates around the origin before slots start repeating.
const spawnSlots = 8

// spawnRadius is the distance from the origin each slot sits at.
const spawnRadius = 100.0

// SpawnPosition returns the i-th joining player's default spawn position:
// (cos(i·2π/8)·100, sin(i·2π/8)·100), cycling every 8 joins.
func SpawnPosition(i int) (x, y float64) {
	alpha := float64(i%spawnSlots) * 2 * math.Pi / spawnSlots
	return math.Cos(alpha) * spawnRadius, math.Sin(alpha) * spawnRadius
}

// ConnectedPlayer is a room's bookkeeping on one joined player, independent
// of their ship's ECS components.
type ConnectedPlayer struct {
	ID          arena.PlayerID
	Name        string
	Entity      ecs.Entity
	JoinedAt    time.Time
	LastInputAt time.Time
}

// Room owns one arena.Simulation, its own fixed-period tick goroutine, and
// the set of players currently connected to it. Grounded on the teacher's
// Engine.Start/Stop ticker shape, composed one level up so each room gets
// its own scheduler instead of sharing the teacher's single global one.
type Room struct {
	Code      string
	Sim       *arena.Simulation
	CreatedAt time.Time

	mu            sync.Mutex
	players       map[arena.PlayerID]*ConnectedPlayer
	lastActivity  time.Time
	nextSpawnSlot int

	ticker *time.Ticker
	stopCh chan struct{}

	// OnSnapshot, if set, is invoked with every tick's published snapshot —
	// the hook internal/transport uses to broadcast to connected clients.
	// Never called while the caller holds Room's lock.
	OnSnapshot func(*arena.GameSnapshot)
}

// New returns an unstarted room with the given code.
func New(code string) *Room {
	now := time.Now()
	return &Room{
		Code:         code,
		Sim:          arena.NewSimulation(arena.DefaultBounds()),
		CreatedAt:    now,
		lastActivity: now,
		players:      make(map[arena.PlayerID]*ConnectedPlayer),
	}
}

// Join spawns a new ship for id at the next default spawn slot and records
// the player as connected. Returns arena.ErrRoomFull if the room is full.
func (r *Room) Join(id arena.PlayerID, name string) (ecs.Entity, error) {
	r.mu.Lock()
	slot := r.nextSpawnSlot
	r.mu.Unlock()

	x, y := SpawnPosition(slot)
	entity, err := r.Sim.SpawnPlayerShip(id, name, physics.Vec2{X: x, Y: y})
	if err != nil {
		return 0, err
	}

	now := time.Now()
	r.mu.Lock()
	r.nextSpawnSlot++
	r.players[id] = &ConnectedPlayer{ID: id, Name: name, Entity: entity, JoinedAt: now, LastInputAt: now}
	r.lastActivity = now
	r.mu.Unlock()

	return entity, nil
}

// Leave despawns id's ship and removes them from the connected set.
// Idempotent against an unknown player.
func (r *Room) Leave(id arena.PlayerID) {
	r.mu.Lock()
	p, ok := r.players[id]
	if ok {
		delete(r.players, id)
		r.lastActivity = time.Now()
	}
	r.mu.Unlock()

	if ok {
		r.Sim.DespawnEntity(p.Entity)
	}
}

// RecordInput marks id as having sent input just now, resetting their idle
// timer, and forwards the frame to the simulation.
func (r *Room) RecordInput(id arena.PlayerID, frame arena.InputFrame) {
	now := time.Now()
	r.mu.Lock()
	if p, ok := r.players[id]; ok {
		p.LastInputAt = now
	}
	r.lastActivity = now
	r.mu.Unlock()

	r.Sim.AddPlayerInput(id, frame)
}

// PlayerCount returns the number of currently connected players.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// IdleFor reports how long the room has gone without any join/leave/input
// activity — used by the directory sweeper's empty-room GC.
func (r *Room) IdleFor(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return now.Sub(r.lastActivity)
}

// SweepIdlePlayers despawns any connected player whose last input predates
// PlayerIdleGC, per spec's per-player liveness policy.
func (r *Room) SweepIdlePlayers(now time.Time) {
	r.mu.Lock()
	var idle []arena.PlayerID
	for id, p := range r.players {
		if now.Sub(p.LastInputAt) > PlayerIdleGC {
			idle = append(idle, id)
		}
	}
	r.mu.Unlock()

	for _, id := range idle {
		log.Printf("room %s: player %s idle past %s, disconnecting", r.Code, id, PlayerIdleGC)
		r.Leave(id)
	}
}

// Start launches the room's tick goroutine at the simulation rate, calling
// Step and invoking OnSnapshot with the result each tick. Safe to call once;
// a second call is a no-op.
func (r *Room) Start() {
	r.mu.Lock()
	if r.ticker != nil {
		r.mu.Unlock()
		return
	}
	r.ticker = time.NewTicker(arena.SimPeriod)
	r.stopCh = make(chan struct{})
	ticker := r.ticker
	stop := r.stopCh
	r.mu.Unlock()

	_ = r.Sim.EventLog().Start("")

	go func() {
		for {
			select {
			case <-ticker.C:
				result := r.Sim.Step(arena.SimPeriod)
				if r.OnSnapshot != nil && result.Snapshot != nil {
					r.OnSnapshot(result.Snapshot)
				}
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the tick goroutine and the simulation's event log.
func (r *Room) Stop() {
	r.mu.Lock()
	if r.ticker != nil {
		r.ticker.Stop()
	}
	if r.stopCh != nil {
		close(r.stopCh)
	}
	r.mu.Unlock()

	r.Sim.EventLog().Stop()
}
