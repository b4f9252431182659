package dice

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"dice-reader/internal/segment"
	"dice-reader/pkg/colorutil"
	"dice-reader/pkg/geometry"
)

func blankMask(w, h int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), h, w, gocv.MatTypeCV8U)
}

func bgr(c color.RGBA) gocv.Scalar {
	return gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0)
}

func fill(m *gocv.Mat, r image.Rectangle, s gocv.Scalar) {
	roi := m.Region(r)
	roi.SetTo(s)
	roi.Close()
}

func on() gocv.Scalar { return gocv.NewScalar(255, 0, 0, 0) }

// redFace returns a size x size red die face with the given white pip centres.
func redFace(size int, pips []image.Point, radius int) gocv.Mat {
	face := gocv.NewMatWithSizeFromScalar(bgr(colorutil.Red), size, size, gocv.MatTypeCV8UC3)
	for _, p := range pips {
		gocv.Circle(&face, p, radius, colorutil.White, -1)
	}
	return face
}

func TestLocateContoursFiltersAreaAndAspect(t *testing.T) {
	mask := blankMask(400, 300)
	defer mask.Close()

	fill(&mask, image.Rect(200, 20, 250, 70), on())   // 50x50 die
	fill(&mask, image.Rect(20, 30, 80, 90), on())     // 60x60 die
	fill(&mask, image.Rect(20, 200, 140, 230), on())  // 120x30, too elongated
	fill(&mask, image.Rect(300, 200, 310, 210), on()) // 10x10, too small
	fill(&mask, image.Rect(160, 140, 280, 260), on()) // 120x120, too large

	params := DefaultParams()
	boxes := LocateContours(mask, params)
	require.Len(t, boxes, 2)

	assert.Equal(t, geometry.NewRectInt(200, 20, 50, 50), boxes[0])
	assert.Equal(t, geometry.NewRectInt(20, 30, 60, 60), boxes[1])

	for _, b := range boxes {
		assert.GreaterOrEqual(t, b.AspectRatio(), params.AspectMin)
		assert.LessOrEqual(t, b.AspectRatio(), params.AspectMax)
		assert.LessOrEqual(t, float64(b.Area()), 1.1*params.AreaMax)
	}
}

func TestLocateContoursEmptyMask(t *testing.T) {
	mask := blankMask(100, 100)
	defer mask.Close()

	assert.Empty(t, LocateContours(mask, DefaultParams()))
}

func TestLocateComponentsScalesAndPads(t *testing.T) {
	mask := blankMask(50, 40)
	defer mask.Close()

	fill(&mask, image.Rect(10, 10, 25, 25), on()) // 15x15 at 1/4 scale
	fill(&mask, image.Rect(40, 2, 42, 4), on())   // debris

	boxes := LocateComponents(mask, 4, 200, 160, DefaultParams())
	require.Len(t, boxes, 1)
	assert.Equal(t, geometry.NewRectInt(20, 20, 100, 100), boxes[0])
}

func TestLocateComponentsClampsAtFrameEdge(t *testing.T) {
	mask := blankMask(50, 40)
	defer mask.Close()

	fill(&mask, image.Rect(0, 0, 15, 15), on())

	boxes := LocateComponents(mask, 4, 200, 160, DefaultParams())
	require.Len(t, boxes, 1)
	assert.Equal(t, geometry.NewRectInt(0, 0, 80, 80), boxes[0])
}

func TestCountPipsBandedAndRaw(t *testing.T) {
	face := redFace(120, []image.Point{{20, 20}, {60, 60}, {100, 100}}, 5)
	defer face.Close()
	fill(&face, image.Rect(80, 10, 104, 34), bgr(colorutil.White)) // 576 px glare patch

	seg := segment.DefaultParams()

	assert.Equal(t, 3, CountPips(face, seg, DefaultParams()))
	assert.Equal(t, 4, CountPips(face, seg, DefaultParams().WithPipMode(PipModeRaw)))
}

func TestCountPipsIgnoresComponentsOutsideBand(t *testing.T) {
	seg := segment.DefaultParams()
	params := DefaultParams()

	large := redFace(120, []image.Point{{60, 60}}, 14) // ~615 px, above the band
	defer large.Close()
	assert.Zero(t, CountPips(large, seg, params))

	inBand := redFace(120, []image.Point{{60, 60}}, 8) // ~200 px
	defer inBand.Close()
	assert.Equal(t, 1, CountPips(inBand, seg, params))
}

func TestCountPipsNoWhiteIsZero(t *testing.T) {
	face := redFace(60, nil, 0)
	defer face.Close()

	assert.Zero(t, CountPips(face, segment.DefaultParams(), DefaultParams()))
	assert.Zero(t, CountPips(face, segment.DefaultParams(), DefaultParams().WithPipMode(PipModeRaw)))
}

func TestReadCountsEachBox(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(bgr(colorutil.Gray), 200, 300, gocv.MatTypeCV8UC3)
	defer frame.Close()

	two := redFace(60, []image.Point{{15, 15}, {45, 45}}, 5)
	defer two.Close()
	five := redFace(60, []image.Point{{15, 15}, {45, 15}, {30, 30}, {15, 45}, {45, 45}}, 5)
	defer five.Close()

	dst := frame.Region(image.Rect(20, 20, 80, 80))
	two.CopyTo(&dst)
	dst.Close()
	dst = frame.Region(image.Rect(200, 100, 260, 160))
	five.CopyTo(&dst)
	dst.Close()

	boxes := []geometry.RectInt{
		geometry.NewRectInt(10, 10, 80, 80),
		geometry.NewRectInt(190, 90, 80, 80),
		geometry.NewRectInt(400, 400, 10, 10), // off-frame
	}
	dice := Read(frame, boxes, segment.DefaultParams(), DefaultParams())
	require.Len(t, dice, 2)
	assert.Equal(t, []int{2, 5}, Values(dice))
}

func TestParsePipMode(t *testing.T) {
	m, err := ParsePipMode("RAW")
	require.NoError(t, err)
	assert.Equal(t, PipModeRaw, m)

	m, err = ParsePipMode("")
	require.NoError(t, err)
	assert.Equal(t, PipModeBanded, m)

	_, err = ParsePipMode("octal")
	assert.Error(t, err)
	assert.Equal(t, "banded", PipModeBanded.String())
}
