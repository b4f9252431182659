// Package dice finds red die faces in a mask and reads their pip counts.
package dice

import (
	"fmt"
	"sort"

	"gocv.io/x/gocv"

	"dice-reader/internal/segment"
	"dice-reader/pkg/geometry"
)

// Die is one located face and its value.
//
// Value is the pip count as measured. Zero and values above six are
// possible and are left to the caller to interpret; a "1" face whose single
// pip is larger than the pip band is a known miss.
type Die struct {
	Box   geometry.RectInt `json:"box"`
	Value int              `json:"value"`
}

func (d Die) String() string {
	return fmt.Sprintf("die@(%d,%d %dx%d)=%d", d.Box.X, d.Box.Y, d.Box.Width, d.Box.Height, d.Value)
}

// Values returns the face values in order.
func Values(dice []Die) []int {
	out := make([]int, len(dice))
	for i, d := range dice {
		out[i] = d.Value
	}
	return out
}

// Read counts the pips inside each box of frame.
func Read(frame gocv.Mat, boxes []geometry.RectInt, seg segment.Params, params Params) []Die {
	dice := make([]Die, 0, len(boxes))
	for _, box := range boxes {
		clipped := box.Clamp(frame.Cols(), frame.Rows())
		if clipped.Empty() {
			continue
		}
		roi := frame.Region(clipped.ToImage())
		value := CountPips(roi, seg, params)
		roi.Close()
		dice = append(dice, Die{Box: box, Value: value})
	}
	return dice
}

// SortBoxes orders boxes by top-left corner, row first.
func SortBoxes(boxes []geometry.RectInt) {
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].Less(boxes[j])
	})
}
