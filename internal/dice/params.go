package dice

import (
	"fmt"
	"strings"
)

// PipMode selects how white components are turned into a face value.
type PipMode int

const (
	// PipModeBanded counts components whose area lies in the pip band.
	PipModeBanded PipMode = iota
	// PipModeRaw counts every component except the background label.
	PipModeRaw
)

func (m PipMode) String() string {
	switch m {
	case PipModeBanded:
		return "banded"
	case PipModeRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// ParsePipMode parses "banded" or "raw".
func ParsePipMode(s string) (PipMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "banded", "":
		return PipModeBanded, nil
	case "raw":
		return PipModeRaw, nil
	default:
		return PipModeBanded, fmt.Errorf("unknown pip mode %q (want banded or raw)", s)
	}
}

// Params holds die localization and pip counting thresholds.
type Params struct {
	// Die face size in full-resolution pixels. Contour area for contour
	// search, component pixel count times scale² for component search.
	AreaMin float64
	AreaMax float64

	// Width/height band that rejects merged blobs and debris
	AspectMin float64
	AspectMax float64

	// Padding around component boxes, in downscaled pixels
	Padding int

	PipMode    PipMode
	PipAreaMin int // Smallest white component counted as a pip
	PipAreaMax int // Largest white component counted as a pip
}

// DefaultParams returns thresholds for dice roughly 25-100 px wide.
func DefaultParams() Params {
	return Params{
		AreaMin: 500,
		AreaMax: 10000,

		AspectMin: 0.7,
		AspectMax: 1.3,

		Padding: 5,

		PipMode:    PipModeBanded,
		PipAreaMin: 30,
		PipAreaMax: 400,
	}
}

// WithAreaRange returns a copy of params with a custom die area band.
func (p Params) WithAreaRange(minArea, maxArea float64) Params {
	p.AreaMin = minArea
	p.AreaMax = maxArea
	return p
}

// WithPipMode returns a copy of params using the given pip counting mode.
func (p Params) WithPipMode(mode PipMode) Params {
	p.PipMode = mode
	return p
}

func (p Params) areaOK(area float64) bool {
	return area >= p.AreaMin && area <= p.AreaMax
}

func (p Params) aspectOK(ratio float64) bool {
	return ratio >= p.AspectMin && ratio <= p.AspectMax
}
