package pipeline

import (
	"context"
	"fmt"

	"dice-reader/internal/annotate"
	"dice-reader/internal/dice"
	"dice-reader/internal/motion"
	"dice-reader/internal/segment"
	"dice-reader/internal/video"
)

// windowStrategy scans the clip for its most static window, reads the dice
// on that frame and replays the clip with every later frame annotated.
type windowStrategy struct {
	cfg Config
}

func (s *windowStrategy) Name() string { return StrategyWindow }

func (s *windowStrategy) Process(ctx context.Context, job Job) (Result, error) {
	res := Result{Strategy: StrategyWindow}

	static, scanned, err := s.scan(ctx, job)
	if err != nil {
		return res, err
	}
	defer static.Frame.Close()

	job.Logger.Info("static frame selected",
		"frame", static.Frame.Index,
		"median_movement", static.Median,
		"frames_scanned", scanned)

	mask := segment.RedMask(static.Frame.Mat, s.cfg.Segment)
	boxes := dice.LocateContours(mask, s.cfg.Dice)
	mask.Close()
	if len(boxes) == 0 {
		return res, fmt.Errorf("%w: static frame %d", ErrNoDice, static.Frame.Index)
	}

	found := dice.Read(static.Frame.Mat, boxes, s.cfg.Segment, s.cfg.Dice)
	logDice(job.Logger, static.Frame.Index, scanned-1, found)
	res.Runs = []Run{{Start: static.Frame.Index, End: scanned - 1, Dice: found}}

	written, err := s.replay(ctx, job, static.Frame.Index, found)
	res.Frames = written
	if err != nil {
		return res, err
	}
	if written != scanned {
		return res, fmt.Errorf("%w: replay produced %d frames, scan saw %d", video.ErrDecode, written, scanned)
	}
	res.Output = job.Output

	still, err := writeStill(job, static.Frame, found, s.cfg.Style)
	if err != nil {
		return res, err
	}
	res.Still = still
	return res, nil
}

// scan runs the first pass and returns the static frame and frame count.
func (s *windowStrategy) scan(ctx context.Context, job Job) (motion.Static, int, error) {
	src, err := job.Open()
	if err != nil {
		return motion.Static{}, 0, err
	}
	defer src.Close()

	det := motion.NewWindow(s.cfg.Window)
	defer det.Close()

	job.Progress.Begin("scan", src.Properties().FrameCount)
	defer job.Progress.End()

	count := 0
	for {
		frame, ok, err := next(ctx, src)
		if err != nil {
			return motion.Static{}, count, fmt.Errorf("scan frame %d: %w", count, err)
		}
		if !ok {
			break
		}
		det.Observe(frame)
		count++
		job.Progress.Step()
	}

	static, err := det.Result()
	return static, count, err
}

// replay reopens the source and writes every frame, annotating from start on.
func (s *windowStrategy) replay(ctx context.Context, job Job, start int, found []dice.Die) (int, error) {
	src, err := job.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	sink, err := job.Create(src.Properties())
	if err != nil {
		return 0, err
	}
	defer sink.Close()

	job.Progress.Begin("annotate", src.Properties().FrameCount)
	defer job.Progress.End()

	written := 0
	for {
		frame, ok, err := next(ctx, src)
		if err != nil {
			return written, fmt.Errorf("replay frame %d: %w", written, err)
		}
		if !ok {
			break
		}
		if frame.Index >= start {
			annotate.Draw(&frame.Mat, found, s.cfg.Style)
		}
		err = sink.Write(frame.Mat)
		frame.Close()
		if err != nil {
			return written, err
		}
		written++
		job.Progress.Step()
	}
	return written, sink.Close()
}
