// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"image"
)

// RectInt represents a rectangle with integer coordinates.
type RectInt struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRectInt creates a new RectInt.
func NewRectInt(x, y, width, height int) RectInt {
	return RectInt{X: x, Y: y, Width: width, Height: height}
}

// FromImageRect converts an image.Rectangle (Min inclusive, Max exclusive).
func FromImageRect(r image.Rectangle) RectInt {
	return RectInt{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// ToImage converts to an image.Rectangle.
func (r RectInt) ToImage() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Area returns width * height.
func (r RectInt) Area() int {
	return r.Width * r.Height
}

// AspectRatio returns width / height, or 0 for a degenerate rectangle.
func (r RectInt) AspectRatio() float64 {
	if r.Height == 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}

// Empty reports whether the rectangle covers no pixels.
func (r RectInt) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Pad grows the rectangle by n pixels on every side.
func (r RectInt) Pad(n int) RectInt {
	return RectInt{X: r.X - n, Y: r.Y - n, Width: r.Width + 2*n, Height: r.Height + 2*n}
}

// Scale multiplies position and size by an integer factor.
func (r RectInt) Scale(factor int) RectInt {
	return RectInt{X: r.X * factor, Y: r.Y * factor, Width: r.Width * factor, Height: r.Height * factor}
}

// Clamp returns the part of the rectangle that lies inside a width x height frame.
func (r RectInt) Clamp(width, height int) RectInt {
	clipped := r.ToImage().Intersect(image.Rect(0, 0, width, height))
	if clipped.Empty() {
		return RectInt{}
	}
	return FromImageRect(clipped)
}

// Less orders rectangles by their top-left corner, row first.
func (r RectInt) Less(other RectInt) bool {
	if r.Y != other.Y {
		return r.Y < other.Y
	}
	return r.X < other.X
}
