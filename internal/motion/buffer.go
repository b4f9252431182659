package motion

import (
	"gocv.io/x/gocv"

	"dice-reader/internal/segment"
	"dice-reader/internal/video"
)

// Run is a buffered stretch of frames judged to show the dice at rest.
type Run struct {
	Frames []video.Frame
	// Mask is the red mask captured when the buffer reached SnapshotAt frames;
	// Representative is the frame it came from.
	Mask           gocv.Mat
	Representative video.Frame
}

// Start returns the index of the first frame in the run.
func (r Run) Start() int {
	if len(r.Frames) == 0 {
		return -1
	}
	return r.Frames[0].Index
}

// End returns the index of the last frame in the run.
func (r Run) End() int {
	if len(r.Frames) == 0 {
		return -1
	}
	return r.Frames[len(r.Frames)-1].Index
}

// Handler receives frames as the Buffer decides what they are. Frames are
// closed by the Buffer once the call returns and must not be retained.
type Handler interface {
	// Pass receives frames that are written unchanged.
	Pass(frames []video.Frame) error
	// Settle receives a run of more than MinSettled still frames.
	Settle(run Run) error
}

// Buffer is the streaming stability state machine.
//
// Frames arrive with their red mask. Frames whose mask stays within
// DiffThreshold pixels of the previous one accumulate in the buffer and earn
// slack; slack lets a long buffer absorb brief mask flicker. A genuine change
// closes the buffer out as a settled run or as pass-through frames, and the
// changed frame starts the next buffer.
type Buffer struct {
	params  BufferParams
	handler Handler

	prev    gocv.Mat
	hasPrev bool
	buffer  []video.Frame
	slack   int

	snapMask  gocv.Mat
	snapFrame video.Frame
	hasSnap   bool

	settled int
}

// NewBuffer creates a state machine that reports to h.
func NewBuffer(params BufferParams, h Handler) *Buffer {
	return &Buffer{params: params, handler: h}
}

// Push feeds one frame and its red mask. The Buffer takes ownership of both.
func (b *Buffer) Push(frame video.Frame, mask gocv.Mat) error {
	if segment.IsEmpty(mask) {
		mask.Close()
		if err := b.flush(false); err != nil {
			frame.Close()
			return err
		}
		return b.pass(frame)
	}

	similar := b.hasPrev && segment.Difference(b.prev, mask) <= b.params.DiffThreshold

	switch {
	case similar:
		b.setPrev(mask)
		if b.slack < b.params.MaxSlack {
			b.slack++
		}
		b.append(frame)

	case b.hasPrev && b.slack > 0 && len(b.buffer) > b.params.SnapshotAt:
		// Flicker: keep comparing against the last still mask.
		mask.Close()
		b.slack--
		b.buffer = append(b.buffer, frame)

	default:
		b.setPrev(mask)
		if err := b.flush(true); err != nil {
			frame.Close()
			return err
		}
		b.slack = 0
		b.append(frame)
	}
	return nil
}

// Finish closes out whatever is still buffered at end of stream.
func (b *Buffer) Finish() error {
	return b.flush(true)
}

// Buffered returns the number of frames currently held.
func (b *Buffer) Buffered() int {
	return len(b.buffer)
}

// Slack returns the remaining flicker budget.
func (b *Buffer) Slack() int {
	return b.slack
}

// Settled returns how many runs have been handed to Settle.
func (b *Buffer) Settled() int {
	return b.settled
}

// Close releases held frames and masks without notifying the handler.
func (b *Buffer) Close() {
	video.CloseFrames(b.buffer)
	b.buffer = nil
	b.dropSnapshot()
	if b.hasPrev {
		b.prev.Close()
		b.hasPrev = false
	}
}

func (b *Buffer) append(frame video.Frame) {
	b.buffer = append(b.buffer, frame)
	if len(b.buffer) == b.params.SnapshotAt {
		b.dropSnapshot()
		b.snapMask = b.prev.Clone()
		b.snapFrame = frame.Clone()
		b.hasSnap = true
	}
}

func (b *Buffer) setPrev(mask gocv.Mat) {
	if b.hasPrev {
		b.prev.Close()
	}
	b.prev = mask
	b.hasPrev = true
}

// flush empties the buffer. With allowSettle, a run longer than MinSettled
// goes to Settle; everything else goes to Pass.
func (b *Buffer) flush(allowSettle bool) error {
	frames := b.buffer
	b.buffer = nil
	defer video.CloseFrames(frames)
	defer b.dropSnapshot()

	if len(frames) == 0 {
		return nil
	}
	if allowSettle && b.hasSnap && len(frames) > b.params.MinSettled {
		b.settled++
		return b.handler.Settle(Run{Frames: frames, Mask: b.snapMask, Representative: b.snapFrame})
	}
	return b.handler.Pass(frames)
}

func (b *Buffer) pass(frame video.Frame) error {
	defer frame.Close()
	return b.handler.Pass([]video.Frame{frame})
}

func (b *Buffer) dropSnapshot() {
	if !b.hasSnap {
		return
	}
	b.snapMask.Close()
	b.snapFrame.Close()
	b.hasSnap = false
}
