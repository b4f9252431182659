package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"dice-reader/internal/annotate"
	"dice-reader/internal/dice"
	"dice-reader/internal/video"
)

// Job is one video as a strategy sees it.
type Job struct {
	Input  string
	Output string
	Still  string // Empty disables the still image

	Open   func() (video.Source, error)
	Create func(props video.Properties) (video.Sink, error)

	Logger   *slog.Logger
	Progress Progress
}

// StabilityStrategy turns one input video into an annotated output.
//
// Process fills in Frames and Runs on the returned Result even when it also
// returns an error, so callers can report what was done before the failure.
type StabilityStrategy interface {
	Name() string
	Process(ctx context.Context, job Job) (Result, error)
}

// NewStrategy returns the strategy named by cfg.Strategy.
func NewStrategy(cfg Config) (StabilityStrategy, error) {
	switch cfg.Strategy {
	case StrategyWindow:
		return &windowStrategy{cfg: cfg}, nil
	case StrategyBuffer:
		return &bufferStrategy{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", cfg.Strategy)
	}
}

// next reads one frame, translating io.EOF into ok=false.
func next(ctx context.Context, src video.Source) (video.Frame, bool, error) {
	if err := ctx.Err(); err != nil {
		return video.Frame{}, false, err
	}
	frame, err := src.Next()
	if errors.Is(err, io.EOF) {
		return video.Frame{}, false, nil
	}
	if err != nil {
		return video.Frame{}, false, err
	}
	return frame, true, nil
}

func logDice(logger *slog.Logger, start, end int, found []dice.Die) {
	for i, d := range found {
		logger.Info("die identified",
			"run_start", start,
			"run_end", end,
			"die", i+1,
			"value", d.Value,
			"x", d.Box.X,
			"y", d.Box.Y,
			"width", d.Box.Width,
			"height", d.Box.Height)
	}
}

func writeStill(job Job, frame video.Frame, found []dice.Die, style annotate.Style) (string, error) {
	if job.Still == "" {
		return "", nil
	}
	still := annotate.Annotated(frame.Mat, found, style)
	defer still.Close()
	if err := annotate.WriteStill(job.Still, still); err != nil {
		return "", err
	}
	job.Logger.Info("annotated still written", "path", job.Still, "frame", frame.Index)
	return job.Still, nil
}
