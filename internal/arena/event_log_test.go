package arena

import "testing"

func TestEmitRejectedBeforeStart(t *testing.T) {
	el := NewEventLog()
	if el.EmitSimple(EventTypeTick, 1, "", TickPayload{PlayerCount: 0}) {
		t.Fatal("expected Emit to reject events before Start")
	}
}

func TestEmitAcceptsAfterStart(t *testing.T) {
	el := NewEventLog()
	if err := el.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer el.Stop()

	if !el.EmitSimple(EventTypeTick, 1, "", TickPayload{PlayerCount: 1}) {
		t.Fatal("expected Emit to accept an event after Start")
	}

	total, _, _, running := el.Stats()
	if !running {
		t.Fatal("expected running=true after Start")
	}
	if total != 1 {
		t.Fatalf("expected total=1, got %d", total)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	el := NewEventLog()
	if err := el.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	el.Stop()
	el.Stop() // must not panic or block
}

func TestEventTypeStringNamesEveryNarrowedType(t *testing.T) {
	cases := map[EventType]string{
		EventTypeTick:            "tick",
		EventTypePlayerJoin:      "player_join",
		EventTypePlayerLeave:     "player_leave",
		EventTypeProjectileFired: "projectile_fired",
		EventTypeDespawn:         "despawn",
		EventTypeUnknown:         "unknown",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Fatalf("EventType(%d).String() = %q, want %q", typ, got, want)
		}
	}
}
