package room

import (
	"testing"
)

func TestDirectoryCreateGetList(t *testing.T) {
	d := NewDirectory()
	r := d.Create()
	defer r.Stop()

	got, err := d.Get(r.Code)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != r {
		t.Fatal("Get returned a different room than Create produced")
	}

	codes := d.List()
	if len(codes) != 1 || codes[0] != r.Code {
		t.Fatalf("expected List to report exactly [%s], got %v", r.Code, codes)
	}
}

func TestDirectoryGetUnknownCode(t *testing.T) {
	d := NewDirectory()
	if _, err := d.Get("NOSUCHROOM"); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestDirectoryRemoveStopsRoom(t *testing.T) {
	d := NewDirectory()
	r := d.Create()

	d.Remove(r.Code)

	if _, err := d.Get(r.Code); err != ErrRoomNotFound {
		t.Fatalf("expected room gone after Remove, got err=%v", err)
	}
	select {
	case <-r.stopCh:
	default:
		t.Fatal("expected Remove to stop the room's tick loop")
	}
}

func TestDirectoryCreateNeverCollides(t *testing.T) {
	d := NewDirectory()
	codes := map[string]bool{}
	for i := 0; i < 25; i++ {
		r := d.Create()
		if codes[r.Code] {
			t.Fatalf("duplicate room code %q", r.Code)
		}
		codes[r.Code] = true
		r.Stop()
	}
}
