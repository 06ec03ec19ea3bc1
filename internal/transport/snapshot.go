package transport

import (
	"encoding/json"
	"time"

	"cosmic-arena/internal/arena"
	"cosmic-arena/internal/wire"
)

// EncodeSnapshot wraps one tick's GameSnapshot into a ready-to-broadcast
// wire.Envelope, for wiring room.Room.OnSnapshot to a Hub.Broadcast.
func EncodeSnapshot(snapshot *arena.GameSnapshot) ([]byte, error) {
	inner, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}

	env, err := wire.Encode(wire.TypeSnapshot, wire.Snapshot{
		Sequence:  snapshot.Sequence,
		Timestamp: time.Now().UnixMilli(),
		Data:      inner,
	})
	if err != nil {
		return nil, err
	}

	return json.Marshal(env)
}
