package arena

import (
	"sync/atomic"
	"time"

	"cosmic-arena/internal/ecs"
)

// EntityType tags what kind of thing an EntitySnapshot describes.
type EntityType int

const (
	EntityPlayer EntityType = iota
	EntityProjectile
	// EntityEnemy is reserved for the NPC extension point; nothing spawns
	// one yet, but the tag keeps the snapshot schema open to it.
	EntityEnemy
)

// EntitySnapshot is the structural, network-ready view of one entity.
// Health is default-valued (zero) for entities that carry no Health
// component; Ship is non-nil only for players.
type EntitySnapshot struct {
	EntityID uint64
	Type     EntityType

	Identity       *PlayerIdentity
	ProjectileData *Projectile

	Transform Transform
	Velocity  Velocity
	Health    Health
	Ship      *Ship
}

// GameSnapshot is a versioned, sequence-numbered view of every player- and
// projectile-visible entity in a room. TimestampMs is wall-clock, for client
// clock reconciliation — never simulation time.
type GameSnapshot struct {
	Sequence    uint64
	Tick        uint64
	TimestampMs int64
	Entities    []EntitySnapshot
}

// SnapshotPool is a lock-free triple buffer separating the single producer
// (the room's step goroutine) from concurrent readers (the broadcast path).
// Grounded on the teacher's SnapshotPool: three pre-allocated slots and
// atomically swapped read/write indices, generalized from
// fighter/particle entities to player-ship/projectile entities.
type SnapshotPool struct {
	buffers  [3]GameSnapshot
	writeIdx int32
	readIdx  int32
	sequence uint64
}

// NewSnapshotPool returns a pool with its slots pre-allocated to avoid GC
// pressure on the per-tick hot path.
func NewSnapshotPool() *SnapshotPool {
	p := &SnapshotPool{writeIdx: 1, readIdx: 0}
	for i := range p.buffers {
		p.buffers[i].Entities = make([]EntitySnapshot, 0, 64)
	}
	return p
}

// AcquireWrite returns the buffer the producer should fill for this tick,
// resetting its entity slice and stamping a fresh sequence and timestamp.
func (p *SnapshotPool) AcquireWrite(tick uint64) *GameSnapshot {
	idx := atomic.LoadInt32(&p.writeIdx)
	buf := &p.buffers[idx]
	buf.Entities = buf.Entities[:0]
	buf.Sequence = atomic.AddUint64(&p.sequence, 1)
	buf.Tick = tick
	buf.TimestampMs = time.Now().UnixMilli()
	return buf
}

// PublishWrite makes the just-filled buffer visible to readers and rotates
// the write slot to whichever buffer is neither the new read slot nor the
// prior one, so the next write never lands on a snapshot published within
// the last two publishes. A reader holding a snapshot across two further
// publishes sees its slot reused.
func (p *SnapshotPool) PublishWrite() {
	cur := atomic.LoadInt32(&p.writeIdx)
	old := atomic.SwapInt32(&p.readIdx, cur)

	var next int32
	for i := int32(0); i < 3; i++ {
		if i != cur && i != old {
			next = i
			break
		}
	}
	atomic.StoreInt32(&p.writeIdx, next)
}

// AcquireRead returns the most recently published snapshot.
func (p *SnapshotPool) AcquireRead() *GameSnapshot {
	idx := atomic.LoadInt32(&p.readIdx)
	return &p.buffers[idx]
}

// buildSnapshot walks the ECS for every (Transform, PlayerIdentity) or
// (Transform, Projectile) entity and publishes the result through the pool.
func (s *Simulation) buildSnapshot() *GameSnapshot {
	buf := s.pool.AcquireWrite(s.tick)

	ecs.Each2(s.store, func(e ecs.Entity, t *Transform, ident *PlayerIdentity) {
		health, _ := ecs.Get[Health](s.store, e)
		velocity, _ := ecs.Get[Velocity](s.store, e)

		var ship *Ship
		if sh, ok := ecs.Get[Ship](s.store, e); ok {
			ship = &sh
		}

		identCopy := *ident
		buf.Entities = append(buf.Entities, EntitySnapshot{
			EntityID:  uint64(e),
			Type:      EntityPlayer,
			Identity:  &identCopy,
			Transform: *t,
			Velocity:  velocity,
			Health:    health,
			Ship:      ship,
		})
	})

	ecs.Each2(s.store, func(e ecs.Entity, t *Transform, proj *Projectile) {
		velocity, _ := ecs.Get[Velocity](s.store, e)

		projCopy := *proj
		buf.Entities = append(buf.Entities, EntitySnapshot{
			EntityID:       uint64(e),
			Type:           EntityProjectile,
			ProjectileData: &projCopy,
			Transform:      *t,
			Velocity:       velocity,
		})
	})

	p := *buf
	s.pool.PublishWrite()
	return &p
}

// LatestSnapshot returns the most recently published snapshot without
// touching the simulation's mutex — safe to call from a broadcast loop
// running concurrently with Step.
func (s *Simulation) LatestSnapshot() *GameSnapshot {
	return s.pool.AcquireRead()
}
