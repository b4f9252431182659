package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"dice-reader/internal/annotate"
	"dice-reader/internal/dice"
	"dice-reader/internal/motion"
	"dice-reader/internal/segment"
	"dice-reader/internal/video"
)

// bufferStrategy streams the clip once through motion.Buffer and annotates
// the frames of every settled run as they are written.
type bufferStrategy struct {
	cfg Config
}

func (s *bufferStrategy) Name() string { return StrategyBuffer }

func (s *bufferStrategy) Process(ctx context.Context, job Job) (Result, error) {
	res := Result{Strategy: StrategyBuffer}

	src, err := job.Open()
	if err != nil {
		return res, err
	}
	defer src.Close()
	props := src.Properties()

	sink, err := job.Create(props)
	if err != nil {
		return res, err
	}
	defer sink.Close()

	w := &runWriter{
		cfg:    s.cfg,
		job:    job,
		sink:   sink,
		width:  props.Width,
		height: props.Height,
	}
	buf := motion.NewBuffer(s.cfg.Buffer, w)
	defer buf.Close()

	job.Progress.Begin("stream", props.FrameCount)
	defer job.Progress.End()

	read := 0
	for {
		frame, ok, err := next(ctx, src)
		if err != nil {
			res.Frames, res.Runs = w.written, w.runs
			return res, fmt.Errorf("stream frame %d: %w", read, err)
		}
		if !ok {
			break
		}
		read++
		small := segment.Downscale(frame.Mat, s.cfg.Downscale)
		mask := segment.RedMask(small, s.cfg.Segment)
		small.Close()
		if err := buf.Push(frame, mask); err != nil {
			res.Frames, res.Runs = w.written, w.runs
			return res, err
		}
		job.Progress.Step()
	}
	err = buf.Finish()
	res.Frames, res.Runs, res.Still = w.written, w.runs, w.still
	if err != nil {
		return res, err
	}
	if err := sink.Close(); err != nil {
		return res, err
	}
	if w.written != read {
		return res, fmt.Errorf("%w: wrote %d of %d frames", video.ErrEncode, w.written, read)
	}
	res.Output = job.Output

	if len(res.Dice()) == 0 {
		return res, fmt.Errorf("%w: %d settled runs", ErrNoDice, len(w.runs))
	}
	return res, nil
}

// runWriter is the motion.Handler that writes frames to the output sink.
type runWriter struct {
	cfg    Config
	job    Job
	sink   video.Sink
	width  int
	height int

	written int
	runs    []Run
	still   string
}

func (w *runWriter) Pass(frames []video.Frame) error {
	for _, f := range frames {
		if err := w.sink.Write(f.Mat); err != nil {
			return err
		}
		w.written++
	}
	return nil
}

func (w *runWriter) Settle(run motion.Run) error {
	start, end := run.Start(), run.End()
	logger := w.job.Logger.With(slog.Int("run_start", start), slog.Int("run_end", end))
	logger.Info("settled run", "start", start, "end", end, "frames", len(run.Frames))

	boxes := dice.LocateComponents(run.Mask, w.cfg.Downscale, w.width, w.height, w.cfg.Dice)
	// Boxes come from the snapshot mask; pips are read on the run's first frame.
	found := dice.Read(run.Frames[0].Mat, boxes, w.cfg.Segment, w.cfg.Dice)
	if len(found) == 0 {
		logger.Warn("settled run has no dice", "snapshot", run.Representative.Index)
	}
	logDice(w.job.Logger, start, end, found)
	w.runs = append(w.runs, Run{Start: start, End: end, Dice: found})

	for _, f := range run.Frames {
		annotate.Draw(&f.Mat, found, w.cfg.Style)
		if err := w.sink.Write(f.Mat); err != nil {
			return err
		}
		w.written++
	}

	// One still per video: the first settled run that produced dice.
	if w.still == "" && len(found) > 0 {
		still, err := writeStill(w.job, run.Representative, found, w.cfg.Style)
		if err != nil {
			return err
		}
		w.still = still
	}
	return nil
}
