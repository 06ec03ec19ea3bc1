package room

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ErrRoomNotFound is returned when a code names no live room.
var ErrRoomNotFound = errors.New("room not found")

// sweepInterval is how often the directory's background goroutine checks
// for empty rooms and idle players.
const sweepInterval = time.Second

// Directory maps room codes to live Rooms behind a single coarse lock —
// spec.md's explicitly documented starting point (see DESIGN.md's Open
// Question decision on directory sharding).
type Directory struct {
	mu    sync.Mutex
	rooms map[string]*Room

	stopCh chan struct{}
}

// NewDirectory returns an empty, unstarted directory.
func NewDirectory() *Directory {
	return &Directory{rooms: make(map[string]*Room)}
}

// Create mints a fresh room code (retrying on the astronomically unlikely
// collision) and starts a new room under it.
func (d *Directory) Create() *Room {
	d.mu.Lock()
	defer d.mu.Unlock()

	var code string
	for {
		code = NewCode()
		if _, exists := d.rooms[code]; !exists {
			break
		}
	}

	r := New(code)
	d.rooms[code] = r
	r.Start()
	return r
}

// Get returns the room for code, or ErrRoomNotFound.
func (d *Directory) Get(code string) (*Room, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// List returns every live room's code, in no particular order.
func (d *Directory) List() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	codes := make([]string, 0, len(d.rooms))
	for code := range d.rooms {
		codes = append(codes, code)
	}
	return codes
}

// Remove stops and deletes the room under code, if any.
func (d *Directory) Remove(code string) {
	d.mu.Lock()
	r, ok := d.rooms[code]
	if ok {
		delete(d.rooms, code)
	}
	d.mu.Unlock()

	if ok {
		r.Stop()
	}
}

// StartSweeper launches the background goroutine that enforces empty-room
// and idle-player GC once a second, until Stop is called.
func (d *Directory) StartSweeper() {
	d.mu.Lock()
	if d.stopCh != nil {
		d.mu.Unlock()
		return
	}
	d.stopCh = make(chan struct{})
	stop := d.stopCh
	d.mu.Unlock()

	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				d.sweep()
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the sweeper and every room it manages.
func (d *Directory) Stop() {
	d.mu.Lock()
	if d.stopCh != nil {
		close(d.stopCh)
		d.stopCh = nil
	}
	rooms := make([]*Room, 0, len(d.rooms))
	for _, r := range d.rooms {
		rooms = append(rooms, r)
	}
	d.mu.Unlock()

	for _, r := range rooms {
		r.Stop()
	}
}

func (d *Directory) sweep() {
	now := time.Now()

	d.mu.Lock()
	var expired []*Room
	var live []*Room
	for code, r := range d.rooms {
		if r.PlayerCount() == 0 && r.IdleFor(now) > EmptyRoomGC {
			expired = append(expired, r)
			delete(d.rooms, code)
			continue
		}
		live = append(live, r)
	}
	d.mu.Unlock()

	for _, r := range expired {
		r.Stop()
	}
	for _, r := range live {
		r.SweepIdlePlayers(now)
	}
}
