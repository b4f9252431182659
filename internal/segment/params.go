package segment

// HSVRange is an inclusive OpenCV-scaled HSV box (H 0-180, S/V 0-255).
type HSVRange struct {
	HueMin, HueMax float64
	SatMin, SatMax float64
	ValMin, ValMax float64
}

// Params holds the red and white segmentation thresholds.
type Params struct {
	// Gaussian blur applied before HSV conversion; 0 disables it.
	BlurKernel int

	// Red wraps the hue origin, so two bands are thresholded and unioned.
	RedLow  HSVRange
	RedHigh HSVRange

	// Morphology on the red mask: a large close merges the die face and
	// swallows its pips, a small open removes table speckle.
	CloseKernel int
	OpenKernel  int

	// White pip mask and the elliptical open that cleans it.
	White           HSVRange
	WhiteOpenKernel int
}

// DefaultParams returns thresholds tuned for red dice on a dark table.
func DefaultParams() Params {
	return Params{
		BlurKernel: 7,

		RedLow:  HSVRange{HueMin: 0, HueMax: 5, SatMin: 120, SatMax: 255, ValMin: 100, ValMax: 255},
		RedHigh: HSVRange{HueMin: 175, HueMax: 180, SatMin: 120, SatMax: 255, ValMin: 100, ValMax: 255},

		CloseKernel: 11,
		OpenKernel:  5,

		White:           HSVRange{HueMin: 0, HueMax: 180, SatMin: 0, SatMax: 60, ValMin: 180, ValMax: 255},
		WhiteOpenKernel: 5,
	}
}

// WithBlur returns a copy of params with a different pre-blur kernel.
func (p Params) WithBlur(kernel int) Params {
	p.BlurKernel = kernel
	return p
}

// WithMorphology returns a copy of params with custom close/open kernel sizes.
func (p Params) WithMorphology(closeKernel, openKernel int) Params {
	p.CloseKernel = closeKernel
	p.OpenKernel = openKernel
	return p
}
