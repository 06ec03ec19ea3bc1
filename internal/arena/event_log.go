package arena

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	EventBufferSize      = 1024
	MaxEventsPerSec      = 10000
	MaxEventsPerPlayer   = 100
	BatchFlushSize       = 64
	BatchFlushInterval   = 100 * time.Millisecond
	PlayerLimiterCleanup = 5 * time.Minute
)

// EventType classifies an Event. Narrowed from the teacher's melee-combat
// set: this domain has no resolved-hit path yet, so there is no damage or
// kill event — only lifecycle and firing.
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick
	EventTypePlayerJoin
	EventTypePlayerLeave
	EventTypeProjectileFired
	EventTypeDespawn
)

func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypePlayerJoin:
		return "player_join"
	case EventTypePlayerLeave:
		return "player_leave"
	case EventTypeProjectileFired:
		return "projectile_fired"
	case EventTypeDespawn:
		return "despawn"
	default:
		return "unknown"
	}
}

const EventVersion uint8 = 1

// Event is one entry in an EventLog, with a JSON-encoded, type-specific
// payload.
type Event struct {
	Version   uint8     `json:"version"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Sequence  uint64    `json:"sequence"`
	TickNum   uint64    `json:"tickNum"`
	PlayerID  string    `json:"playerId"`
	Payload   []byte    `json:"payload"`
}

// TickPayload marks a tick boundary for replay/telemetry.
type TickPayload struct {
	PlayerCount int `json:"playerCount"`
}

// PlayerJoinPayload records a player's spawn.
type PlayerJoinPayload struct {
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	SpawnX     float64 `json:"spawnX"`
	SpawnY     float64 `json:"spawnY"`
}

// ProjectileFiredPayload records a resolved RapidFire shot.
type ProjectileFiredPayload struct {
	OwnerID string  `json:"ownerId"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// DespawnPayload records an entity leaving the simulation.
type DespawnPayload struct {
	EntityID uint64 `json:"entityId"`
}

func encodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

func newEvent(eventType EventType, tickNum uint64, playerID string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		PlayerID:  playerID,
		Payload:   encodePayload(payload),
	}
}

type playerLimiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// EventLog is a bounded, rate-limited event stream with an async batch
// writer. Grounded on the teacher's internal/game/event_log.go: a
// lock-free single-producer circular buffer with global and per-player
// rate limits for DoS protection, drained by a periodic file-flush
// goroutine. Narrowed to this domain's event set — no damage/kill payloads.
type EventLog struct {
	buffer    [EventBufferSize]Event
	writeHead uint64
	readHead  uint64

	globalLimiter  *rate.Limiter
	playerLimiters sync.Map

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	filePath string
	file     *os.File
	fileMu   sync.Mutex

	droppedCount uint64
	totalCount   uint64
}

// NewEventLog returns a stopped event log ready for Start.
func NewEventLog() *EventLog {
	return &EventLog{
		globalLimiter: rate.NewLimiter(MaxEventsPerSec, MaxEventsPerSec/10),
		stopChan:      make(chan struct{}),
	}
}

// Start begins the async writer and limiter-cleanup goroutines. filePath
// may be empty to run the log in memory-only mode (useful for tests).
func (el *EventLog) Start(filePath string) error {
	if el.running.Load() {
		return nil
	}

	el.filePath = filePath
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		el.file = file
	}

	el.running.Store(true)
	el.writerWg.Add(2)
	go el.writerLoop()
	go el.cleanupLoop()
	return nil
}

// Stop drains remaining events to disk and shuts down. Safe to call more
// than once.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()

		el.fileMu.Lock()
		if el.file != nil {
			el.file.Close()
		}
		el.fileMu.Unlock()
	})
}

// Emit appends event, subject to global and per-player rate limiting, and
// reports whether it was accepted.
func (el *EventLog) Emit(event Event) bool {
	if !el.running.Load() {
		return false
	}

	if !el.globalLimiter.Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}

	if event.PlayerID != "" {
		if !el.playerLimiter(event.PlayerID).Allow() {
			atomic.AddUint64(&el.droppedCount, 1)
			return false
		}
	}

	head := atomic.AddUint64(&el.writeHead, 1)
	tail := atomic.LoadUint64(&el.readHead)
	if head-tail >= EventBufferSize {
		atomic.AddUint64(&el.readHead, 1)
		atomic.AddUint64(&el.droppedCount, 1)
	}

	event.Sequence = head
	el.buffer[head%EventBufferSize] = event

	atomic.AddUint64(&el.totalCount, 1)
	return true
}

// EmitSimple builds and emits an event in one call.
func (el *EventLog) EmitSimple(eventType EventType, tickNum uint64, playerID string, payload interface{}) bool {
	return el.Emit(newEvent(eventType, tickNum, playerID, payload))
}

func (el *EventLog) playerLimiter(playerID string) *rate.Limiter {
	if entry, ok := el.playerLimiters.Load(playerID); ok {
		e := entry.(*playerLimiterEntry)
		e.lastUsed = time.Now()
		return e.limiter
	}

	entry := &playerLimiterEntry{
		limiter:  rate.NewLimiter(MaxEventsPerPlayer, MaxEventsPerPlayer/10),
		lastUsed: time.Now(),
	}
	actual, _ := el.playerLimiters.LoadOrStore(playerID, entry)
	return actual.(*playerLimiterEntry).limiter
}

func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(BatchFlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, BatchFlushSize)

	for {
		select {
		case <-el.stopChan:
			for {
				batch = el.collectBatch(batch[:0])
				if len(batch) == 0 {
					return
				}
				el.flushBatch(batch)
			}
		case <-ticker.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
		}
	}
}

func (el *EventLog) cleanupLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(PlayerLimiterCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-el.stopChan:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-PlayerLimiterCleanup)
			el.playerLimiters.Range(func(key, value interface{}) bool {
				if value.(*playerLimiterEntry).lastUsed.Before(cutoff) {
					el.playerLimiters.Delete(key)
				}
				return true
			})
		}
	}
}

func (el *EventLog) collectBatch(batch []Event) []Event {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	for i := tail; i < head && len(batch) < BatchFlushSize; i++ {
		batch = append(batch, el.buffer[i%EventBufferSize])
	}
	if len(batch) > 0 {
		atomic.AddUint64(&el.readHead, uint64(len(batch)))
	}
	return batch
}

func (el *EventLog) flushBatch(batch []Event) {
	el.fileMu.Lock()
	defer el.fileMu.Unlock()

	if el.file == nil {
		return
	}
	for _, event := range batch {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		el.file.Write(data)
		el.file.Write([]byte("\n"))
	}
}

// Stats reports event-log throughput for observability.
func (el *EventLog) Stats() (total, dropped, pending uint64, running bool) {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)
	return atomic.LoadUint64(&el.totalCount), atomic.LoadUint64(&el.droppedCount), head - tail, el.running.Load()
}
