// Package segment turns BGR frames into binary red (die body) and white (pip) masks.
package segment

import (
	"image"

	"gocv.io/x/gocv"
)

// RedMask returns a single-channel mask (0/255) of red regions in a BGR frame.
// The mask always has the frame's size; the caller must Close it.
func RedMask(frame gocv.Mat, params Params) gocv.Mat {
	src := frame
	if params.BlurKernel > 1 {
		blurred := gocv.NewMat()
		defer blurred.Close()
		k := oddKernel(params.BlurKernel)
		gocv.GaussianBlur(frame, &blurred, image.Point{k, k}, 0, 0, gocv.BorderDefault)
		src = blurred
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(src, &hsv, gocv.ColorBGRToHSV)

	low := inRange(hsv, params.RedLow)
	defer low.Close()
	high := inRange(hsv, params.RedHigh)
	defer high.Close()

	mask := gocv.NewMat()
	gocv.BitwiseOr(low, high, &mask)

	morph(&mask, gocv.MorphClose, gocv.MorphRect, params.CloseKernel)
	morph(&mask, gocv.MorphOpen, gocv.MorphRect, params.OpenKernel)

	return mask
}

// WhiteMask returns a mask of low-saturation, high-value pixels (pips).
func WhiteMask(roi gocv.Mat, params Params) gocv.Mat {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(roi, &hsv, gocv.ColorBGRToHSV)

	mask := inRange(hsv, params.White)
	morph(&mask, gocv.MorphOpen, gocv.MorphEllipse, params.WhiteOpenKernel)
	return mask
}

// IsEmpty reports whether a mask has no set pixels.
func IsEmpty(mask gocv.Mat) bool {
	return mask.Empty() || gocv.CountNonZero(mask) == 0
}

// Difference counts the pixels that differ between two masks of equal size.
func Difference(a, b gocv.Mat) int {
	delta := gocv.NewMat()
	defer delta.Close()
	gocv.AbsDiff(a, b, &delta)
	return gocv.CountNonZero(delta)
}

// Downscale shrinks a frame by an integer factor with bilinear interpolation.
// A factor of 1 or less returns a clone.
func Downscale(frame gocv.Mat, factor int) gocv.Mat {
	if factor <= 1 {
		return frame.Clone()
	}
	small := gocv.NewMat()
	size := image.Point{X: frame.Cols() / factor, Y: frame.Rows() / factor}
	gocv.Resize(frame, &small, size, 0, 0, gocv.InterpolationLinear)
	return small
}

func inRange(hsv gocv.Mat, r HSVRange) gocv.Mat {
	mask := gocv.NewMat()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(r.HueMin, r.SatMin, r.ValMin, 0),
		gocv.NewScalar(r.HueMax, r.SatMax, r.ValMax, 0),
		&mask)
	return mask
}

func morph(mask *gocv.Mat, op gocv.MorphType, shape gocv.MorphShape, size int) {
	if size <= 1 {
		return
	}
	kernel := gocv.GetStructuringElement(shape, image.Point{size, size})
	defer kernel.Close()
	gocv.MorphologyEx(*mask, mask, op, kernel)
}

func oddKernel(k int) int {
	if k%2 == 0 {
		return k + 1
	}
	return k
}
