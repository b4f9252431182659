// Package annotate draws die boxes and values onto frames and writes stills.
package annotate

import (
	"image"
	"image/color"
	"strconv"

	"gocv.io/x/gocv"

	"dice-reader/internal/dice"
	"dice-reader/pkg/colorutil"
)

// Style controls how dice are drawn.
type Style struct {
	BoxColor      color.RGBA
	BoxThickness  int
	LabelColor    color.RGBA
	FontScale     float64
	FontThickness int
	LabelOffset   int // Baseline distance above the box top
}

// DefaultStyle returns cyan boxes with large yellow values.
func DefaultStyle() Style {
	return Style{
		BoxColor:      colorutil.BoxColor,
		BoxThickness:  3,
		LabelColor:    colorutil.LabelColor,
		FontScale:     1.5,
		FontThickness: 3,
		LabelOffset:   10,
	}
}

// Draw overlays every die box and value onto frame in place.
func Draw(frame *gocv.Mat, dice []dice.Die, style Style) {
	for _, d := range dice {
		gocv.Rectangle(frame, d.Box.ToImage(), style.BoxColor, style.BoxThickness)

		label := strconv.Itoa(d.Value)
		size := gocv.GetTextSize(label, gocv.FontHersheySimplex, style.FontScale, style.FontThickness)
		origin := image.Point{X: d.Box.X, Y: d.Box.Y - style.LabelOffset}
		if origin.Y < size.Y {
			// No room above the box; put the value just inside it.
			origin.Y = d.Box.Y + size.Y + style.LabelOffset
		}
		gocv.PutText(frame, label, origin,
			gocv.FontHersheySimplex, style.FontScale, style.LabelColor, style.FontThickness)
	}
}

// Annotated returns an annotated copy of frame; the caller must Close it.
func Annotated(frame gocv.Mat, dice []dice.Die, style Style) gocv.Mat {
	out := frame.Clone()
	Draw(&out, dice, style)
	return out
}
