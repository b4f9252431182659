package video

import (
	"fmt"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
)

// DefaultCodec is the FOURCC used for annotated output.
const DefaultCodec = "mp4v"

// FileSink encodes frames to a video file with OpenCV.
type FileSink struct {
	path   string
	writer *gocv.VideoWriter
	props  Properties
	count  int
	closed bool
}

// CreateFile opens an encoder whose size and frame rate match props.
func CreateFile(path, codec string, props Properties) (*FileSink, error) {
	if codec == "" {
		codec = DefaultCodec
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	writer, err := gocv.VideoWriterFile(path, codec, props.FPS, props.Width, props.Height, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEncode, path, err)
	}
	if !writer.IsOpened() {
		writer.Close()
		return nil, fmt.Errorf("%w: %s: codec %q not available", ErrEncode, path, codec)
	}

	return &FileSink{path: path, writer: writer, props: props}, nil
}

// Write encodes one frame. Frames must match the sink's size.
func (s *FileSink) Write(frame gocv.Mat) error {
	if frame.Cols() != s.props.Width || frame.Rows() != s.props.Height {
		return fmt.Errorf("%w: %s frame %d is %dx%d, expected %dx%d",
			ErrEncode, s.path, s.count, frame.Cols(), frame.Rows(), s.props.Width, s.props.Height)
	}
	if err := s.writer.Write(frame); err != nil {
		return fmt.Errorf("%w: %s frame %d: %v", ErrEncode, s.path, s.count, err)
	}
	s.count++
	return nil
}

// Close flushes and releases the encoder. Later calls are no-ops.
func (s *FileSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.writer.Close()
}
