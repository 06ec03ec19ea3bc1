package api

import (
	"log"
	"sync"

	"cosmic-arena/internal/arena"
	"cosmic-arena/internal/room"
	"cosmic-arena/internal/transport"
)

// HubRegistry lazily creates and tracks one transport.Hub per live room,
// wiring each new room's Room.OnSnapshot to broadcast through its hub. A
// room only gets a hub the first time a client connects to it, since most
// rooms created via POST /api/rooms never see a WebSocket connection
// before being garbage-collected.
type HubRegistry struct {
	mu   sync.Mutex
	hubs map[string]*hubEntry
}

type hubEntry struct {
	hub  *transport.Hub
	stop chan struct{}
}

// NewHubRegistry returns an empty registry.
func NewHubRegistry() *HubRegistry {
	return &HubRegistry{hubs: make(map[string]*hubEntry)}
}

// Get returns the hub for code, creating and starting one (and wiring
// target.OnSnapshot to broadcast snapshots through it) on first use.
func (reg *HubRegistry) Get(code string, target *room.Room) *transport.Hub {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if entry, ok := reg.hubs[code]; ok {
		return entry.hub
	}

	hub := transport.NewHub()
	stop := make(chan struct{})
	reg.hubs[code] = &hubEntry{hub: hub, stop: stop}

	target.OnSnapshot = func(snapshot *arena.GameSnapshot) {
		encoded, err := transport.EncodeSnapshot(snapshot)
		if err != nil {
			log.Printf("room %s: failed to encode snapshot: %v", code, err)
			return
		}
		hub.Broadcast(encoded)
	}

	go hub.Run(stop)
	return hub
}

// TotalClientCount sums ClientCount across every live hub, for the
// server-wide WebSocket connection cap.
func (reg *HubRegistry) TotalClientCount() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	total := 0
	for _, entry := range reg.hubs {
		total += entry.hub.ClientCount()
	}
	return total
}

// Remove stops and forgets the hub for code, if any. The directory's
// empty-room GC does not call it, so a reaped room's hub stays registered
// until Remove is called for its code.
func (reg *HubRegistry) Remove(code string) {
	reg.mu.Lock()
	entry, ok := reg.hubs[code]
	if ok {
		delete(reg.hubs, code)
	}
	reg.mu.Unlock()

	if ok {
		close(entry.stop)
	}
}
