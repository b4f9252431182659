package video

import (
	"errors"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func solidFrame(w, h int, b, g, r float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(b, g, r, 0), h, w, gocv.MatTypeCV8UC3)
}

func TestMemorySourceReplaysInOrder(t *testing.T) {
	src := NewMemorySource(25, []gocv.Mat{
		solidFrame(8, 6, 10, 10, 10),
		solidFrame(8, 6, 20, 20, 20),
	})
	defer src.Close()

	props := src.Properties()
	assert.Equal(t, Properties{Width: 8, Height: 6, FPS: 25, FrameCount: 2}, props)

	for want := 0; want < 2; want++ {
		f, err := src.Next()
		require.NoError(t, err)
		assert.Equal(t, want, f.Index)
		assert.Equal(t, uint8(10*(want+1)), f.Mat.GetUCharAt(0, 0))
		f.Close()
	}
	_, err := src.Next()
	assert.ErrorIs(t, err, io.EOF)

	src.Rewind()
	f, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, f.Index)
	f.Close()
}

func TestMemorySourceEmptyIsDecodeFailure(t *testing.T) {
	src := NewMemorySource(0, nil)
	defer src.Close()

	_, err := src.Next()
	assert.ErrorIs(t, err, ErrDecode)
	assert.Equal(t, DefaultFPS, src.Properties().FPS)
}

func TestMemorySinkRejectsWrongSize(t *testing.T) {
	sink := NewMemorySink(Properties{Width: 8, Height: 6, FPS: 30})
	defer sink.Release()

	good := solidFrame(8, 6, 0, 0, 0)
	defer good.Close()
	bad := solidFrame(4, 6, 0, 0, 0)
	defer bad.Close()

	require.NoError(t, sink.Write(good))
	assert.ErrorIs(t, sink.Write(bad), ErrEncode)
	assert.Len(t, sink.Frames(), 1)

	require.NoError(t, sink.Close())
	assert.True(t, sink.Closed())
	assert.ErrorIs(t, sink.Write(good), ErrEncode)
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.mp4"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileRoundTripKeepsSizeAndCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.avi")
	props := Properties{Width: 64, Height: 48, FPS: 10}

	sink, err := CreateFile(path, "MJPG", props)
	if errors.Is(err, ErrEncode) {
		t.Skipf("MJPG encoder unavailable: %v", err)
	}
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		frame := solidFrame(64, 48, float64(i*40), 80, 120)
		require.NoError(t, sink.Write(frame))
		frame.Close()
	}
	require.NoError(t, sink.Close())

	src, err := OpenFile(path)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 64, src.Properties().Width)
	assert.Equal(t, 48, src.Properties().Height)

	count := 0
	for {
		f, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		count++
		f.Close()
	}
	assert.Equal(t, 5, count)
}

func TestImageMatRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 3))
	img.Set(1, 2, color.RGBA{R: 200, G: 10, B: 30, A: 255})

	mat, err := ImageToMat(img)
	require.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, uint8(30), mat.GetUCharAt(2, 1*3+0))
	assert.Equal(t, uint8(200), mat.GetUCharAt(2, 1*3+2))

	back, err := MatToImage(mat)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 200, G: 10, B: 30, A: 255}, back.RGBAAt(1, 2))
}
