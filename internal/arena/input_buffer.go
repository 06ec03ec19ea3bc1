package arena

// InputBufferCapacity bounds how many InputFrames a ship's InputBuffer holds.
const InputBufferCapacity = 60

// InputFrame is one sampled client control state, tagged with a monotone
// sequence number.
type InputFrame struct {
	Sequence        uint32
	ClientTimestamp uint64
	Thrust          float64
	Turn            float64
	PrimaryFire     bool
	SecondaryFire   bool
}

// InputBuffer is a per-ship sequence-sorted queue of InputFrames, bounded by
// InputBufferCapacity.
type InputBuffer struct {
	frames                []InputFrame
	lastProcessedSequence uint32
	discardedOlderInputs  uint64
}

// AddInput inserts frame in sequence order. If the buffer exceeds capacity
// afterward, the lowest-sequence frame is dropped.
func (b *InputBuffer) AddInput(frame InputFrame) {
	i := len(b.frames)
	for i > 0 && b.frames[i-1].Sequence > frame.Sequence {
		i--
	}
	b.frames = append(b.frames, InputFrame{})
	copy(b.frames[i+1:], b.frames[i:])
	b.frames[i] = frame

	if len(b.frames) > InputBufferCapacity {
		b.frames = b.frames[1:]
	}
}

// GetNextInput returns and removes the head frame only if its sequence is
// exactly lastProcessedSequence+1, advancing lastProcessedSequence.
func (b *InputBuffer) GetNextInput() (InputFrame, bool) {
	if len(b.frames) == 0 {
		return InputFrame{}, false
	}
	head := b.frames[0]
	if head.Sequence != b.lastProcessedSequence+1 {
		return InputFrame{}, false
	}
	b.frames = b.frames[1:]
	b.lastProcessedSequence = head.Sequence
	return head, true
}

// ClearOldInputs drops every buffered frame with sequence < minSeq.
func (b *InputBuffer) ClearOldInputs(minSeq uint32) {
	i := 0
	for i < len(b.frames) && b.frames[i].Sequence < minSeq {
		i++
	}
	b.frames = b.frames[i:]
}

// Len reports how many frames are currently buffered.
func (b *InputBuffer) Len() int {
	return len(b.frames)
}

// LastProcessedSequence reports the highest sequence consumed so far.
func (b *InputBuffer) LastProcessedSequence() uint32 {
	return b.lastProcessedSequence
}

// Clear empties the buffer without advancing lastProcessedSequence, used by
// applyMovementForces to discard the collapsed frame once applied.
func (b *InputBuffer) Clear() {
	b.frames = nil
}

// Set replaces the buffer's contents with exactly one frame, the "latest
// wins" collapse prepare_inputs performs each tick.
func (b *InputBuffer) Set(frame InputFrame) {
	b.frames = []InputFrame{frame}
}

// Peek returns the current single pending frame, if any, without removing it.
func (b *InputBuffer) Peek() (InputFrame, bool) {
	if len(b.frames) == 0 {
		return InputFrame{}, false
	}
	return b.frames[0], true
}

// DiscardedOlderInputs is the running count of inputs dropped because a
// newer one collapsed over them during prepare_inputs — an observability
// signal, not an error condition.
func (b *InputBuffer) DiscardedOlderInputs() uint64 {
	return b.discardedOlderInputs
}
