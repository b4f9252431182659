package pipeline

import (
	"fmt"
	"strings"

	"dice-reader/internal/annotate"
	"dice-reader/internal/dice"
	"dice-reader/internal/motion"
	"dice-reader/internal/segment"
	"dice-reader/internal/video"
)

// Strategy names accepted by NewStrategy.
const (
	StrategyWindow = "window"
	StrategyBuffer = "buffer"
)

// OutputOptions controls where annotated files go.
type OutputOptions struct {
	Dir         string // Empty writes next to each input
	Suffix      string // Appended to the input stem
	Codec       string // FOURCC for the output video
	Still       bool   // Also write an annotated still image
	StillFormat string // png, jpg or tiff
}

// Config is everything a Runner needs besides its inputs.
type Config struct {
	Strategy  string
	Output    OutputOptions
	Segment   segment.Params
	Window    motion.WindowParams
	Buffer    motion.BufferParams
	Downscale int // Mask scale divisor for the buffer strategy
	Dice      dice.Params
	Style     annotate.Style
}

// DefaultConfig returns the buffer strategy with every default threshold.
func DefaultConfig() Config {
	return Config{
		Strategy: StrategyBuffer,
		Output: OutputOptions{
			Suffix:      "-annotated",
			Codec:       video.DefaultCodec,
			StillFormat: "png",
		},
		Segment:   segment.DefaultParams(),
		Window:    motion.DefaultWindowParams(),
		Buffer:    motion.DefaultBufferParams(),
		Downscale: 4,
		Dice:      dice.DefaultParams(),
		Style:     annotate.DefaultStyle(),
	}
}

// Validate checks the values a strategy depends on.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyWindow, StrategyBuffer:
	default:
		return fmt.Errorf("unknown strategy %q (want %s or %s)", c.Strategy, StrategyWindow, StrategyBuffer)
	}
	if c.Output.Suffix == "" && c.Output.Dir == "" {
		return fmt.Errorf("output suffix must be set when writing next to the inputs")
	}
	if c.Output.Still && !validStillFormat(c.Output.StillFormat) {
		return fmt.Errorf("unsupported still format %q (want one of %s)",
			c.Output.StillFormat, strings.Join(annotate.StillFormats, ", "))
	}
	if c.Window.Size < 1 {
		return fmt.Errorf("window size must be at least 1, got %d", c.Window.Size)
	}
	if c.Downscale < 1 {
		return fmt.Errorf("downscale must be at least 1, got %d", c.Downscale)
	}
	if c.Buffer.SnapshotAt < 1 || c.Buffer.MinSettled < c.Buffer.SnapshotAt {
		return fmt.Errorf("buffer min_settled (%d) must be >= snapshot_at (%d) >= 1",
			c.Buffer.MinSettled, c.Buffer.SnapshotAt)
	}
	if c.Dice.AreaMin > c.Dice.AreaMax || c.Dice.AspectMin > c.Dice.AspectMax {
		return fmt.Errorf("die area/aspect bands are inverted")
	}
	if c.Dice.PipAreaMin > c.Dice.PipAreaMax {
		return fmt.Errorf("pip area band is inverted")
	}
	return nil
}

func validStillFormat(format string) bool {
	for _, f := range annotate.StillFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}
