package transport

import (
	"encoding/json"
	"testing"

	"cosmic-arena/internal/arena"
	"cosmic-arena/internal/wire"
)

func TestEncodeSnapshotWrapsInSnapshotEnvelope(t *testing.T) {
	snapshot := &arena.GameSnapshot{Sequence: 7, Tick: 7}

	encoded, err := EncodeSnapshot(snapshot)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}

	var env wire.Envelope
	if err := json.Unmarshal(encoded, &env); err != nil {
		t.Fatalf("Unmarshal envelope: %v", err)
	}
	if env.Type != wire.TypeSnapshot {
		t.Fatalf("expected type %q, got %q", wire.TypeSnapshot, env.Type)
	}

	var payload wire.Snapshot
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("Unmarshal payload: %v", err)
	}
	if payload.Sequence != 7 {
		t.Fatalf("expected sequence 7, got %d", payload.Sequence)
	}

	var inner arena.GameSnapshot
	if err := json.Unmarshal(payload.Data, &inner); err != nil {
		t.Fatalf("Unmarshal inner snapshot: %v", err)
	}
	if inner.Sequence != 7 || inner.Tick != 7 {
		t.Fatalf("inner snapshot mismatch: %+v", inner)
	}
}
