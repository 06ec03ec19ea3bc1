package transport

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"cosmic-arena/internal/arena"
	"cosmic-arena/internal/room"
	"cosmic-arena/internal/wire"
)

// Upgrader is shared across rooms. CheckOrigin defaults to same-origin-only
// (gorilla's zero value rejects cross-origin requests outright); the api
// package overwrites it at startup with the CORS-configured origin checker
// before any connection is accepted.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Connection is one client's WebSocket session, bound to a single room for
// its whole lifetime — a client that wants a different room reconnects.
type Connection struct {
	conn *websocket.Conn
	hub  *Hub
	room *room.Room

	playerID arena.PlayerID
	joined   bool
	release  func()
}

// HandleConnection upgrades r into a WebSocket, binds it to target, and
// runs its read loop until the client disconnects. Intended to be called
// from an http.HandlerFunc after the caller has already resolved the room
// code from the URL and reserved a connection slot.
//
// release, if non-nil, is called exactly once to free that reserved slot:
// immediately if the upgrade itself fails, otherwise when the read loop
// exits.
func HandleConnection(w http.ResponseWriter, r *http.Request, hub *Hub, target *room.Room, release func()) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		if release != nil {
			release()
		}
		return
	}

	c := &Connection{conn: conn, hub: hub, room: target, playerID: arena.NewPlayerID(), release: release}
	hub.register <- c

	go c.readLoop()
}

func (c *Connection) readLoop() {
	defer func() {
		c.hub.unregister <- c
		if c.joined {
			c.room.Leave(c.playerID)
			c.broadcastToOthers(wire.TypePlayerLeft, wire.PlayerLeft{PlayerID: c.playerID.String()})
		}
		if c.release != nil {
			c.release()
		}
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env wire.Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			log.Printf("room %s: malformed frame from client, dropped", c.room.Code)
			continue
		}

		if err := c.dispatch(env); err != nil {
			log.Printf("room %s: handling %q failed: %v", c.room.Code, env.Type, err)
		}
	}
}

func (c *Connection) dispatch(env wire.Envelope) error {
	switch env.Type {
	case wire.TypeJoin:
		var payload wire.Join
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return err
		}
		return c.handleJoin(payload)

	case wire.TypeInput:
		var payload wire.Input
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return err
		}
		return c.handleInput(payload)

	case wire.TypePing:
		var payload wire.Ping
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return err
		}
		return c.send(wire.TypePong, wire.Pong{Timestamp: payload.Timestamp})

	case wire.TypeRequestDebugRender:
		return c.handleDebugRenderRequest()

	case wire.TypeLeave:
		c.room.Leave(c.playerID)
		c.joined = false
		c.broadcastToOthers(wire.TypePlayerLeft, wire.PlayerLeft{PlayerID: c.playerID.String()})
		return nil

	default:
		log.Printf("room %s: unknown message type %q, dropped", c.room.Code, env.Type)
		return nil
	}
}

func (c *Connection) handleJoin(payload wire.Join) error {
	entity, err := c.room.Join(c.playerID, payload.PlayerName)
	if err != nil {
		return c.send(wire.TypeError, wire.Error{Message: "Room is full"})
	}
	c.joined = true

	if err := c.send(wire.TypeRoomJoined, wire.RoomJoined{
		RoomCode: c.room.Code,
		PlayerID: c.playerID.String(),
		EntityID: uint64(entity),
	}); err != nil {
		return err
	}

	c.broadcastToOthers(wire.TypePlayerJoined, wire.PlayerJoined{
		PlayerID: c.playerID.String(),
		Name:     payload.PlayerName,
	})
	return nil
}

func (c *Connection) handleInput(payload wire.Input) error {
	var frame arena.InputFrame
	if err := json.Unmarshal(payload.Data, &frame); err != nil {
		log.Printf("room %s: malformed input frame from %s, dropped", c.room.Code, c.playerID)
		return nil
	}
	frame.Sequence = payload.Sequence
	frame.ClientTimestamp = payload.ClientTimestamp
	c.room.RecordInput(c.playerID, frame)
	return nil
}

func (c *Connection) handleDebugRenderRequest() error {
	data := c.room.Sim.GenerateDebugRenderData()
	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.send(wire.TypeDebugRender, wire.DebugRender{
		Sequence:  data.Sequence,
		Timestamp: time.Now().UnixMilli(),
		Data:      encoded,
	})
}

func (c *Connection) send(msgType string, payload interface{}) error {
	env, err := wire.Encode(msgType, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// broadcastToOthers fans a message out to the room's hub. It currently
// reaches every connection including the sender — clients are expected to
// de-duplicate their own join/leave locally, matching the teacher's
// broadcast-to-all Hub.Broadcast semantics.
func (c *Connection) broadcastToOthers(msgType string, payload interface{}) {
	env, err := wire.Encode(msgType, payload)
	if err != nil {
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		return
	}
	c.hub.Broadcast(data)
}
