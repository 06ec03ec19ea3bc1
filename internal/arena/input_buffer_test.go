package arena

import "testing"

func TestAddInputKeepsSequenceOrder(t *testing.T) {
	var b InputBuffer
	b.AddInput(InputFrame{Sequence: 5})
	b.AddInput(InputFrame{Sequence: 2})
	b.AddInput(InputFrame{Sequence: 8})
	b.AddInput(InputFrame{Sequence: 3})

	want := []uint32{2, 3, 5, 8}
	for i, seq := range want {
		if b.frames[i].Sequence != seq {
			t.Fatalf("frame %d: want sequence %d, got %d", i, seq, b.frames[i].Sequence)
		}
	}
}

func TestAddInputDropsFromHeadWhenOverCapacity(t *testing.T) {
	var b InputBuffer
	for i := 0; i < InputBufferCapacity+5; i++ {
		b.AddInput(InputFrame{Sequence: uint32(i)})
	}

	if b.Len() != InputBufferCapacity {
		t.Fatalf("expected buffer capped at %d, got %d", InputBufferCapacity, b.Len())
	}
	if b.frames[0].Sequence != 5 {
		t.Fatalf("expected lowest surviving sequence to be 5, got %d", b.frames[0].Sequence)
	}
}

func TestGetNextInputRequiresStrictSuccessor(t *testing.T) {
	var b InputBuffer
	b.lastProcessedSequence = 4
	b.AddInput(InputFrame{Sequence: 6})

	if _, ok := b.GetNextInput(); ok {
		t.Fatal("expected GetNextInput to refuse a non-contiguous sequence")
	}

	b.AddInput(InputFrame{Sequence: 5})
	frame, ok := b.GetNextInput()
	if !ok || frame.Sequence != 5 {
		t.Fatalf("expected to consume sequence 5, got %+v ok=%v", frame, ok)
	}
	if b.LastProcessedSequence() != 5 {
		t.Fatalf("expected lastProcessedSequence to advance to 5, got %d", b.LastProcessedSequence())
	}

	frame, ok = b.GetNextInput()
	if !ok || frame.Sequence != 6 {
		t.Fatalf("expected to then consume sequence 6, got %+v ok=%v", frame, ok)
	}
}

func TestClearOldInputsDropsBelowThreshold(t *testing.T) {
	var b InputBuffer
	b.AddInput(InputFrame{Sequence: 1})
	b.AddInput(InputFrame{Sequence: 2})
	b.AddInput(InputFrame{Sequence: 3})

	b.ClearOldInputs(3)

	if b.Len() != 1 || b.frames[0].Sequence != 3 {
		t.Fatalf("expected only sequence 3 to survive, got %+v", b.frames)
	}
}

func TestLatestWinsCollapse(t *testing.T) {
	var b InputBuffer
	b.lastProcessedSequence = 4
	b.AddInput(InputFrame{Sequence: 5, Thrust: 0.2})
	b.AddInput(InputFrame{Sequence: 6, Thrust: 0.5})
	b.AddInput(InputFrame{Sequence: 7, Thrust: 1.0})

	var latest InputFrame
	var got bool
	discarded := 0
	for {
		f, ok := b.GetNextInput()
		if !ok {
			break
		}
		if got {
			discarded++
		}
		latest = f
		got = true
	}

	if !got || latest.Thrust != 1.0 {
		t.Fatalf("expected latest frame thrust=1.0, got %+v", latest)
	}
	if discarded != 2 {
		t.Fatalf("expected discard count 2, got %d", discarded)
	}
}
