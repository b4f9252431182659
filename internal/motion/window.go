// Package motion decides which frames of a throw show the dice at rest.
//
// Two strategies are provided. Window scans a whole clip and picks the
// stretch with the lowest median movement. Buffer is a streaming state
// machine over red masks that hands settled runs to a Handler as soon as
// they end.
package motion

import (
	"errors"
	"fmt"
	"sort"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"dice-reader/internal/video"
)

// ErrInsufficientFrames is returned when a clip is too short for the window.
var ErrInsufficientFrames = errors.New("insufficient frames")

// Static is the first frame of the most static window.
type Static struct {
	Frame  video.Frame
	Median float64 // Median movement score of the winning window
}

// Window finds the most static stretch of a clip.
//
// Movement score k is the mean absolute grayscale difference between frames
// k-1 and k. Windows slide over the scores; the earliest one with the lowest
// median wins and its first frame is reported.
type Window struct {
	params WindowParams

	prevGray gocv.Mat
	hasPrev  bool
	recent   []video.Frame
	scores   []float64

	best    video.Frame
	median  float64
	hasBest bool
}

// NewWindow creates a sliding-window detector.
func NewWindow(params WindowParams) *Window {
	if params.Size < 1 {
		params.Size = DefaultWindowParams().Size
	}
	return &Window{params: params}
}

// Observe consumes one frame. The Window takes ownership of it.
func (w *Window) Observe(frame video.Frame) {
	gray := gocv.NewMat()
	gocv.CvtColor(frame.Mat, &gray, gocv.ColorBGRToGray)

	if !w.hasPrev {
		w.prevGray = gray
		w.hasPrev = true
		frame.Close()
		return
	}

	w.scores = append(w.scores, Movement(w.prevGray, gray))
	w.prevGray.Close()
	w.prevGray = gray

	w.recent = append(w.recent, frame)
	if len(w.recent) > w.params.Size {
		w.recent[0].Close()
		w.recent = w.recent[1:]
	}

	if len(w.scores) < w.params.Size {
		return
	}
	m := Median(w.scores[len(w.scores)-w.params.Size:])
	if !w.hasBest || m < w.median {
		if w.hasBest {
			w.best.Close()
		}
		w.best = w.recent[0].Clone()
		w.median = m
		w.hasBest = true
	}
}

// Scores returns the movement scores seen so far; index i scores frame i+1.
func (w *Window) Scores() []float64 {
	return w.scores
}

// Result returns the winning frame. Ownership of Static.Frame passes to the caller.
func (w *Window) Result() (Static, error) {
	if len(w.scores) < w.params.Size || !w.hasBest {
		return Static{}, fmt.Errorf("%w: %d movement scores, window needs %d (at least %d frames)",
			ErrInsufficientFrames, len(w.scores), w.params.Size, w.params.Size+1)
	}
	res := Static{Frame: w.best, Median: w.median}
	w.best = video.Frame{}
	w.hasBest = false
	return res, nil
}

// Close releases every frame the Window still holds.
func (w *Window) Close() {
	if w.hasPrev {
		w.prevGray.Close()
		w.hasPrev = false
	}
	video.CloseFrames(w.recent)
	w.recent = nil
	if w.hasBest {
		w.best.Close()
		w.hasBest = false
	}
}

// LowestMedianWindow returns the start score index and median of the earliest
// window with the lowest median.
func LowestMedianWindow(scores []float64, size int) (int, float64, error) {
	if size < 1 || len(scores) < size {
		return 0, 0, fmt.Errorf("%w: %d scores, window needs %d", ErrInsufficientFrames, len(scores), size)
	}
	medians := make([]float64, len(scores)-size+1)
	for i := range medians {
		medians[i] = Median(scores[i : i+size])
	}
	start := floats.MinIdx(medians)
	return start, medians[start], nil
}

// Median returns the median, averaging the two middle values for even lengths.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return stat.Mean(sorted[n/2-1:n/2+1], nil)
}

// Movement is the mean absolute difference between two grayscale frames.
func Movement(prev, cur gocv.Mat) float64 {
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(prev, cur, &diff)
	return diff.Mean().Val1
}
