// Package colorutil provides shared color utilities for the dice reader.
package colorutil

import "image/color"

// Overlay and fixture colors. gocv converts these to BGR when drawing.
var (
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Gray   = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	Red    = color.RGBA{R: 210, G: 20, B: 25, A: 255}
	Cyan   = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// Annotation defaults: cyan die boxes with yellow value labels.
var (
	BoxColor   = Cyan
	LabelColor = Yellow
)
