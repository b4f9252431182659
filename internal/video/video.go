// Package video reads and writes frame streams for the dice pipeline.
//
// Sources hand out frames one at a time; the caller owns every Frame it
// receives and must Close it. Sinks copy or encode what they are given and
// never retain the caller's Mat.
package video

import (
	"errors"

	"gocv.io/x/gocv"
)

var (
	// ErrNotFound is returned when an input file does not exist.
	ErrNotFound = errors.New("video not found")
	// ErrOpen is returned when a source exists but cannot be opened.
	ErrOpen = errors.New("video open failed")
	// ErrDecode is returned for unreadable or malformed frames.
	ErrDecode = errors.New("video decode failure")
	// ErrEncode is returned when an output stream cannot be created or written.
	ErrEncode = errors.New("video encode failure")
)

// DefaultFPS is used when a container does not report a frame rate.
const DefaultFPS = 30.0

// Properties describes the geometry and timing of a stream.
type Properties struct {
	Width      int
	Height     int
	FPS        float64
	FrameCount int // As reported by the container; may be 0 or approximate
}

// Frame is one decoded BGR image and its position in the stream.
type Frame struct {
	Index int
	Mat   gocv.Mat
}

// Close releases the frame's pixels.
func (f Frame) Close() error {
	return f.Mat.Close()
}

// Clone returns a deep copy that must be closed independently.
func (f Frame) Clone() Frame {
	return Frame{Index: f.Index, Mat: f.Mat.Clone()}
}

// Source produces frames in order. Next returns io.EOF after the last frame.
type Source interface {
	Properties() Properties
	Next() (Frame, error)
	Close() error
}

// Sink consumes frames in order.
type Sink interface {
	Write(frame gocv.Mat) error
	Close() error
}

// CloseFrames closes every frame in the slice.
func CloseFrames(frames []Frame) {
	for _, f := range frames {
		f.Close()
	}
}
