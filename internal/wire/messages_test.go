package wire

import (
	"encoding/json"
	"testing"
)

func TestEncodeRoundTrip(t *testing.T) {
	env, err := Encode(TypeJoin, Join{RoomCode: "ABCD1234", PlayerName: "nova"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if env.Type != TypeJoin {
		t.Fatalf("expected type %q, got %q", TypeJoin, env.Type)
	}

	var payload Join
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("Unmarshal payload: %v", err)
	}
	if payload.RoomCode != "ABCD1234" || payload.PlayerName != "nova" {
		t.Fatalf("round-trip mismatch: %+v", payload)
	}
}

func TestEnvelopeMarshalsTypeTag(t *testing.T) {
	env, err := Encode(TypePong, Pong{Timestamp: 42})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Envelope
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Type != TypePong {
		t.Fatalf("expected type %q after full round trip, got %q", TypePong, decoded.Type)
	}

	var pong Pong
	if err := json.Unmarshal(decoded.Data, &pong); err != nil {
		t.Fatalf("Unmarshal Pong: %v", err)
	}
	if pong.Timestamp != 42 {
		t.Fatalf("expected timestamp 42, got %d", pong.Timestamp)
	}
}

func TestLeaveHasNoDataPayload(t *testing.T) {
	env, err := Encode(TypeLeave, Leave{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if env.Type != TypeLeave {
		t.Fatalf("expected type %q, got %q", TypeLeave, env.Type)
	}
	if string(env.Data) != "{}" {
		t.Fatalf("expected empty-object payload, got %q", env.Data)
	}
}
