package config

import (
	"dice-reader/internal/annotate"
	"dice-reader/internal/dice"
	"dice-reader/internal/motion"
	"dice-reader/internal/pipeline"
	"dice-reader/internal/segment"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

// DefaultVideos is the throw batch processed when nothing else is named.
var DefaultVideos = []string{"tirada_*.mp4"}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	p := pipeline.DefaultConfig()
	return Config{
		Strategy: p.Strategy,
		Input:    Input{Videos: append([]string(nil), DefaultVideos...)},
		Output: Output{
			Dir:         p.Output.Dir,
			Suffix:      p.Output.Suffix,
			Codec:       p.Output.Codec,
			Still:       p.Output.Still,
			StillFormat: p.Output.StillFormat,
		},
		Logging: Logging{Level: defaultLogLevel, Format: defaultLogFormat},
		Segment: fromSegment(p.Segment),
		Window:  Window{Size: p.Window.Size},
		Buffer: Buffer{
			Downscale:     p.Downscale,
			DiffThreshold: p.Buffer.DiffThreshold,
			MaxSlack:      p.Buffer.MaxSlack,
			SnapshotAt:    p.Buffer.SnapshotAt,
			MinSettled:    p.Buffer.MinSettled,
		},
		Dice: Dice{
			AreaMin:   p.Dice.AreaMin,
			AreaMax:   p.Dice.AreaMax,
			AspectMin: p.Dice.AspectMin,
			AspectMax: p.Dice.AspectMax,
			Padding:   p.Dice.Padding,
		},
		Pips: Pips{
			Mode:    p.Dice.PipMode.String(),
			AreaMin: p.Dice.PipAreaMin,
			AreaMax: p.Dice.PipAreaMax,
		},
		Annotate: Annotate{
			BoxThickness:  p.Style.BoxThickness,
			FontScale:     p.Style.FontScale,
			FontThickness: p.Style.FontThickness,
			LabelOffset:   p.Style.LabelOffset,
		},
	}
}

// ToPipeline converts the config into the runner's parameter structs.
func (c *Config) ToPipeline() (pipeline.Config, error) {
	mode, err := dice.ParsePipMode(c.Pips.Mode)
	if err != nil {
		return pipeline.Config{}, err
	}

	style := annotate.DefaultStyle()
	style.BoxThickness = c.Annotate.BoxThickness
	style.FontScale = c.Annotate.FontScale
	style.FontThickness = c.Annotate.FontThickness
	style.LabelOffset = c.Annotate.LabelOffset

	return pipeline.Config{
		Strategy: c.Strategy,
		Output: pipeline.OutputOptions{
			Dir:         c.Output.Dir,
			Suffix:      c.Output.Suffix,
			Codec:       c.Output.Codec,
			Still:       c.Output.Still,
			StillFormat: c.Output.StillFormat,
		},
		Segment: segment.Params{
			BlurKernel:      c.Segment.BlurKernel,
			RedLow:          toRange(c.Segment.RedLow),
			RedHigh:         toRange(c.Segment.RedHigh),
			CloseKernel:     c.Segment.CloseKernel,
			OpenKernel:      c.Segment.OpenKernel,
			White:           toRange(c.Segment.White),
			WhiteOpenKernel: c.Segment.WhiteOpenKernel,
		},
		Window: motion.WindowParams{Size: c.Window.Size},
		Buffer: motion.BufferParams{
			DiffThreshold: c.Buffer.DiffThreshold,
			MaxSlack:      c.Buffer.MaxSlack,
			SnapshotAt:    c.Buffer.SnapshotAt,
			MinSettled:    c.Buffer.MinSettled,
		},
		Downscale: c.Buffer.Downscale,
		Dice: dice.Params{
			AreaMin:    c.Dice.AreaMin,
			AreaMax:    c.Dice.AreaMax,
			AspectMin:  c.Dice.AspectMin,
			AspectMax:  c.Dice.AspectMax,
			Padding:    c.Dice.Padding,
			PipMode:    mode,
			PipAreaMin: c.Pips.AreaMin,
			PipAreaMax: c.Pips.AreaMax,
		},
		Style: style,
	}, nil
}

func fromSegment(p segment.Params) Segment {
	return Segment{
		BlurKernel:      p.BlurKernel,
		RedLow:          fromRange(p.RedLow),
		RedHigh:         fromRange(p.RedHigh),
		CloseKernel:     p.CloseKernel,
		OpenKernel:      p.OpenKernel,
		White:           fromRange(p.White),
		WhiteOpenKernel: p.WhiteOpenKernel,
	}
}

func fromRange(r segment.HSVRange) HSVBand {
	return HSVBand{
		HueMin: r.HueMin, HueMax: r.HueMax,
		SatMin: r.SatMin, SatMax: r.SatMax,
		ValMin: r.ValMin, ValMax: r.ValMax,
	}
}

func toRange(b HSVBand) segment.HSVRange {
	return segment.HSVRange{
		HueMin: b.HueMin, HueMax: b.HueMax,
		SatMin: b.SatMin, SatMax: b.SatMax,
		ValMin: b.ValMin, ValMax: b.ValMax,
	}
}
