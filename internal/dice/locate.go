package dice

import (
	"gocv.io/x/gocv"

	"dice-reader/pkg/geometry"
)

// LocateContours finds die faces as external contours of a full-resolution
// red mask. Contour area and bounding-box aspect must fall inside the bands.
func LocateContours(mask gocv.Mat, params Params) []geometry.RectInt {
	if mask.Empty() {
		return nil
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var boxes []geometry.RectInt
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		if !params.areaOK(gocv.ContourArea(contour)) {
			continue
		}
		box := geometry.FromImageRect(gocv.BoundingRect(contour))
		if !params.aspectOK(box.AspectRatio()) {
			continue
		}
		boxes = append(boxes, box)
	}

	SortBoxes(boxes)
	return boxes
}

// LocateComponents finds die faces as connected components of a mask that was
// computed at 1/scale of the frame. Boxes are padded in mask pixels, scaled
// back up and clipped to a frameW x frameH frame.
func LocateComponents(mask gocv.Mat, scale, frameW, frameH int, params Params) []geometry.RectInt {
	if mask.Empty() {
		return nil
	}
	if scale < 1 {
		scale = 1
	}

	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	n := gocv.ConnectedComponentsWithStats(mask, &labels, &stats, &centroids)

	var boxes []geometry.RectInt
	for i := 1; i < n; i++ {
		area := float64(stats.GetIntAt(i, int(gocv.CCStatArea))) * float64(scale*scale)
		if !params.areaOK(area) {
			continue
		}

		box := geometry.NewRectInt(
			int(stats.GetIntAt(i, int(gocv.CCStatLeft))),
			int(stats.GetIntAt(i, int(gocv.CCStatTop))),
			int(stats.GetIntAt(i, int(gocv.CCStatWidth))),
			int(stats.GetIntAt(i, int(gocv.CCStatHeight))),
		).Pad(params.Padding).Scale(scale)
		if !params.aspectOK(box.AspectRatio()) {
			continue
		}

		box = box.Clamp(frameW, frameH)
		if box.Empty() {
			continue
		}
		boxes = append(boxes, box)
	}

	SortBoxes(boxes)
	return boxes
}
