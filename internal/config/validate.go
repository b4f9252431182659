package config

import (
	"fmt"

	"dice-reader/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	if err := c.validateSegment(); err != nil {
		return err
	}
	if err := c.validateBuffer(); err != nil {
		return err
	}
	if c.Pips.AreaMin < 0 {
		return fmt.Errorf("pips.area_min must be >= 0")
	}
	p, err := c.ToPipeline()
	if err != nil {
		return fmt.Errorf("pips.mode: %w", err)
	}
	return p.Validate()
}

func (c *Config) validateSegment() error {
	bands := map[string]HSVBand{
		"segment.red_low":  c.Segment.RedLow,
		"segment.red_high": c.Segment.RedHigh,
		"segment.white":    c.Segment.White,
	}
	for name, b := range bands {
		if err := validateBand(b); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	for name, k := range map[string]int{
		"segment.blur_kernel":       c.Segment.BlurKernel,
		"segment.close_kernel":      c.Segment.CloseKernel,
		"segment.open_kernel":       c.Segment.OpenKernel,
		"segment.white_open_kernel": c.Segment.WhiteOpenKernel,
	} {
		if k < 0 {
			return fmt.Errorf("%s must be >= 0, got %d", name, k)
		}
	}
	return nil
}

func validateBand(b HSVBand) error {
	switch {
	case b.HueMin < 0 || b.HueMax > 180 || b.HueMin > b.HueMax:
		return fmt.Errorf("hue range [%g, %g] must lie within [0, 180]", b.HueMin, b.HueMax)
	case b.SatMin < 0 || b.SatMax > 255 || b.SatMin > b.SatMax:
		return fmt.Errorf("saturation range [%g, %g] must lie within [0, 255]", b.SatMin, b.SatMax)
	case b.ValMin < 0 || b.ValMax > 255 || b.ValMin > b.ValMax:
		return fmt.Errorf("value range [%g, %g] must lie within [0, 255]", b.ValMin, b.ValMax)
	}
	return nil
}

func (c *Config) validateBuffer() error {
	if c.Buffer.DiffThreshold < 0 {
		return fmt.Errorf("buffer.diff_threshold must be >= 0")
	}
	if c.Buffer.MaxSlack < 0 {
		return fmt.Errorf("buffer.max_slack must be >= 0")
	}
	return nil
}
