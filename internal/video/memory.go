package video

import (
	"fmt"
	"io"

	"gocv.io/x/gocv"
)

// MemorySource replays a fixed list of frames. It owns the Mats it is given.
type MemorySource struct {
	props  Properties
	frames []gocv.Mat
	next   int
}

// NewMemorySource builds a source over frames that all share one size.
func NewMemorySource(fps float64, frames []gocv.Mat) *MemorySource {
	props := Properties{FPS: fps, FrameCount: len(frames)}
	if len(frames) > 0 {
		props.Width = frames[0].Cols()
		props.Height = frames[0].Rows()
	}
	if props.FPS <= 0 {
		props.FPS = DefaultFPS
	}
	return &MemorySource{props: props, frames: frames}
}

// Properties returns the stream geometry.
func (s *MemorySource) Properties() Properties {
	return s.props
}

// Next returns a copy of the next frame.
func (s *MemorySource) Next() (Frame, error) {
	if s.next >= len(s.frames) {
		if len(s.frames) == 0 {
			return Frame{}, fmt.Errorf("%w: empty stream", ErrDecode)
		}
		return Frame{}, io.EOF
	}
	frame := Frame{Index: s.next, Mat: s.frames[s.next].Clone()}
	s.next++
	return frame, nil
}

// Rewind restarts playback from the first frame.
func (s *MemorySource) Rewind() {
	s.next = 0
}

// Close releases the stored frames.
func (s *MemorySource) Close() error {
	for _, m := range s.frames {
		m.Close()
	}
	s.frames = nil
	return nil
}

// MemorySink keeps copies of everything written to it.
type MemorySink struct {
	props  Properties
	frames []gocv.Mat
	closed bool
}

// NewMemorySink creates a sink that enforces the given frame size.
func NewMemorySink(props Properties) *MemorySink {
	return &MemorySink{props: props}
}

// Write stores a copy of the frame.
func (s *MemorySink) Write(frame gocv.Mat) error {
	if s.closed {
		return fmt.Errorf("%w: write after close", ErrEncode)
	}
	if frame.Cols() != s.props.Width || frame.Rows() != s.props.Height {
		return fmt.Errorf("%w: frame %d is %dx%d, expected %dx%d",
			ErrEncode, len(s.frames), frame.Cols(), frame.Rows(), s.props.Width, s.props.Height)
	}
	s.frames = append(s.frames, frame.Clone())
	return nil
}

// Close marks the sink finished. Stored frames stay readable until Release.
func (s *MemorySink) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *MemorySink) Closed() bool {
	return s.closed
}

// Frames returns the stored frames in write order.
func (s *MemorySink) Frames() []gocv.Mat {
	return s.frames
}

// Properties returns the size the sink was created with.
func (s *MemorySink) Properties() Properties {
	return s.props
}

// Release frees the stored frames.
func (s *MemorySink) Release() {
	for _, m := range s.frames {
		m.Close()
	}
	s.frames = nil
}
