package video

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gocv.io/x/gocv"
)

// FileSource decodes a video file with OpenCV.
type FileSource struct {
	path    string
	capture *gocv.VideoCapture
	props   Properties
	next    int
	closed  bool
}

// OpenFile opens a video file for sequential reading.
func OpenFile(path string) (*FileSource, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: %s", ErrOpen, path)
	}

	props := Properties{
		Width:      int(capture.Get(gocv.VideoCaptureFrameWidth)),
		Height:     int(capture.Get(gocv.VideoCaptureFrameHeight)),
		FPS:        capture.Get(gocv.VideoCaptureFPS),
		FrameCount: int(capture.Get(gocv.VideoCaptureFrameCount)),
	}
	if props.Width <= 0 || props.Height <= 0 {
		capture.Close()
		return nil, fmt.Errorf("%w: %s reports size %dx%d", ErrDecode, path, props.Width, props.Height)
	}
	if props.FPS <= 0 {
		props.FPS = DefaultFPS
	}

	return &FileSource{path: path, capture: capture, props: props}, nil
}

// Properties returns the stream geometry reported by the container.
func (s *FileSource) Properties() Properties {
	return s.props
}

// Next decodes the next frame.
func (s *FileSource) Next() (Frame, error) {
	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		if s.next == 0 {
			return Frame{}, fmt.Errorf("%w: %s: no frames decoded", ErrDecode, s.path)
		}
		return Frame{}, io.EOF
	}
	if mat.Cols() != s.props.Width || mat.Rows() != s.props.Height {
		got := fmt.Sprintf("%dx%d", mat.Cols(), mat.Rows())
		mat.Close()
		return Frame{}, fmt.Errorf("%w: %s frame %d is %s, expected %dx%d",
			ErrDecode, s.path, s.next, got, s.props.Width, s.props.Height)
	}

	frame := Frame{Index: s.next, Mat: mat}
	s.next++
	return frame, nil
}

// Close releases the capture handle. Later calls are no-ops.
func (s *FileSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.capture.Close()
}
