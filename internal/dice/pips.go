package dice

import (
	"gocv.io/x/gocv"

	"dice-reader/internal/segment"
)

// CountPips counts white pips in a die ROI.
//
// The white mask is split into 8-connected components. In PipModeRaw every
// non-background component counts; in PipModeBanded only components whose
// area is inside [PipAreaMin, PipAreaMax] do. A result of zero is valid.
func CountPips(roi gocv.Mat, seg segment.Params, params Params) int {
	if roi.Empty() {
		return 0
	}

	white := segment.WhiteMask(roi, seg)
	defer white.Close()

	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	n := gocv.ConnectedComponentsWithStats(white, &labels, &stats, &centroids)
	if n <= 1 {
		return 0
	}

	if params.PipMode == PipModeRaw {
		return n - 1
	}

	count := 0
	for i := 1; i < n; i++ {
		area := int(stats.GetIntAt(i, int(gocv.CCStatArea)))
		if area >= params.PipAreaMin && area <= params.PipAreaMax {
			count++
		}
	}
	return count
}
