package motion

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"dice-reader/internal/video"
	"dice-reader/pkg/colorutil"
)

// squareMask returns a 40x40 mask with a 10x10 square at (x, y).
func squareMask(x, y int) gocv.Mat {
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 40, 40, gocv.MatTypeCV8U)
	roi := m.Region(image.Rect(x, y, x+10, y+10))
	roi.SetTo(gocv.NewScalar(255, 0, 0, 0))
	roi.Close()
	return m
}

func emptyMask() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 40, 40, gocv.MatTypeCV8U)
}

func tinyFrame(index int) video.Frame {
	return video.Frame{
		Index: index,
		Mat:   gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 4, 4, gocv.MatTypeCV8UC3),
	}
}

type settledRun struct {
	start, end     int
	representative int
	maskPixels     int
}

type recorder struct {
	passed  []int
	settled []settledRun
}

func (r *recorder) Pass(frames []video.Frame) error {
	for _, f := range frames {
		r.passed = append(r.passed, f.Index)
	}
	return nil
}

func (r *recorder) Settle(run Run) error {
	r.settled = append(r.settled, settledRun{
		start:          run.Start(),
		end:            run.End(),
		representative: run.Representative.Index,
		maskPixels:     gocv.CountNonZero(run.Mask),
	})
	return nil
}

func feed(t *testing.T, b *Buffer, index int, mask gocv.Mat) {
	t.Helper()
	require.NoError(t, b.Push(tinyFrame(index), mask))
}

func TestBufferIdenticalMasksSettleOnce(t *testing.T) {
	rec := &recorder{}
	b := NewBuffer(DefaultBufferParams(), rec)
	defer b.Close()

	for i := 0; i < 12; i++ {
		feed(t, b, i, squareMask(5, 5))
	}
	require.NoError(t, b.Finish())

	require.Len(t, rec.settled, 1)
	assert.Empty(t, rec.passed)
	assert.Equal(t, settledRun{start: 0, end: 11, representative: 4, maskPixels: 100}, rec.settled[0])
	assert.Equal(t, 1, b.Settled())
}

func TestBufferExactlyMinSettledIsPassThrough(t *testing.T) {
	rec := &recorder{}
	b := NewBuffer(DefaultBufferParams(), rec)
	defer b.Close()

	for i := 0; i < 10; i++ {
		feed(t, b, i, squareMask(5, 5))
	}
	require.NoError(t, b.Finish())

	assert.Empty(t, rec.settled)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, rec.passed)
}

func TestBufferShortStillRunThenChangePassesThrough(t *testing.T) {
	rec := &recorder{}
	b := NewBuffer(DefaultBufferParams(), rec)
	defer b.Close()

	for i := 0; i < 9; i++ {
		feed(t, b, i, squareMask(5, 5))
	}
	feed(t, b, 9, squareMask(25, 25))
	require.NoError(t, b.Finish())

	assert.Empty(t, rec.settled)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, rec.passed)
}

func TestBufferChangeWithoutSlackClosesOut(t *testing.T) {
	rec := &recorder{}
	b := NewBuffer(DefaultBufferParams(), rec)
	defer b.Close()

	for i := 0; i < 5; i++ {
		feed(t, b, i, squareMask(5, 5))
	}
	// Buffer holds exactly SnapshotAt frames, so slack cannot be spent.
	feed(t, b, 5, squareMask(25, 25))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, rec.passed)
	assert.Equal(t, 1, b.Buffered())
	assert.Zero(t, b.Slack())

	require.NoError(t, b.Finish())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, rec.passed)
}

func TestBufferSlackAbsorbsFlicker(t *testing.T) {
	rec := &recorder{}
	b := NewBuffer(DefaultBufferParams(), rec)
	defer b.Close()

	for i := 0; i < 8; i++ {
		feed(t, b, i, squareMask(5, 5))
	}
	require.Equal(t, 5, b.Slack())

	feed(t, b, 8, squareMask(25, 25))
	assert.Equal(t, 4, b.Slack())

	for i := 9; i < 15; i++ {
		feed(t, b, i, squareMask(5, 5))
	}
	require.NoError(t, b.Finish())

	require.Len(t, rec.settled, 1)
	assert.Equal(t, 0, rec.settled[0].start)
	assert.Equal(t, 14, rec.settled[0].end)
	assert.Empty(t, rec.passed)
}

func TestBufferSlackExhaustionClosesSettledRun(t *testing.T) {
	rec := &recorder{}
	b := NewBuffer(DefaultBufferParams(), rec)
	defer b.Close()

	for i := 0; i < 12; i++ {
		feed(t, b, i, squareMask(5, 5))
	}
	// Five moving frames spend the slack, the sixth closes the run.
	positions := []int{8, 11, 14, 17, 20, 23}
	for k, p := range positions {
		feed(t, b, 12+k, squareMask(p, p))
	}

	require.Len(t, rec.settled, 1)
	assert.Equal(t, 0, rec.settled[0].start)
	assert.Equal(t, 16, rec.settled[0].end)
	assert.Equal(t, 1, b.Buffered())

	require.NoError(t, b.Finish())
	assert.Equal(t, []int{17}, rec.passed)
}

func TestBufferEmptyMaskFlushesUnprocessed(t *testing.T) {
	rec := &recorder{}
	b := NewBuffer(DefaultBufferParams(), rec)
	defer b.Close()

	for i := 0; i < 12; i++ {
		feed(t, b, i, squareMask(5, 5))
	}
	feed(t, b, 12, emptyMask())

	assert.Empty(t, rec.settled)
	assert.Len(t, rec.passed, 13)
	assert.Equal(t, 12, rec.passed[12])
	assert.Equal(t, 5, b.Slack(), "empty masks do not reset slack")

	require.NoError(t, b.Finish())
	assert.Len(t, rec.passed, 13)
}

// movingClip builds 40x30 gray frames with a white square that moves for
// frames 0-4, rests for 5-14 and moves again for 15-19.
func movingClip() []video.Frame {
	var frames []video.Frame
	for i := 0; i < 20; i++ {
		x := 14
		switch {
		case i < 5:
			x = 2 + 2*i
		case i >= 15:
			x = 14 + 2*(i-14)
		}
		m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 40, 40, 0), 30, 40, gocv.MatTypeCV8UC3)
		gocv.Rectangle(&m, image.Rect(x, 10, x+8, 18), colorutil.White, -1)
		frames = append(frames, video.Frame{Index: i, Mat: m})
	}
	return frames
}

func TestWindowFindsFirstStaticFrame(t *testing.T) {
	w := NewWindow(DefaultWindowParams())
	defer w.Close()

	for _, f := range movingClip() {
		w.Observe(f)
	}
	require.Len(t, w.Scores(), 19)

	res, err := w.Result()
	require.NoError(t, err)
	defer res.Frame.Close()

	assert.Equal(t, 5, res.Frame.Index)
	assert.Zero(t, res.Median)

	start, median, err := LowestMedianWindow(w.Scores(), 4)
	require.NoError(t, err)
	assert.Equal(t, res.Frame.Index, start+1)
	assert.Zero(t, median)
}

func TestWindowInsufficientFrames(t *testing.T) {
	w := NewWindow(DefaultWindowParams())
	defer w.Close()

	clip := movingClip()
	for _, f := range clip[:4] {
		w.Observe(f)
	}
	video.CloseFrames(clip[4:])
	_, err := w.Result()
	assert.ErrorIs(t, err, ErrInsufficientFrames)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
	assert.Zero(t, Median(nil))

	_, _, err := LowestMedianWindow([]float64{1, 2}, 4)
	assert.ErrorIs(t, err, ErrInsufficientFrames)
}

func TestLowestMedianWindowKeepsEarliestTie(t *testing.T) {
	scores := []float64{9, 1, 1, 9, 9, 1, 1, 9}
	start, median, err := LowestMedianWindow(scores, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, start)
	assert.Equal(t, 1.0, median)

	start, median, err = LowestMedianWindow([]float64{5, 4, 3, 2}, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, start)
	assert.Equal(t, 3.5, median)
}
