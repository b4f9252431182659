package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"dice-reader/internal/video"
)

// LockName is the lock file created in every output directory.
const LockName = ".dice-reader.lock"

// OpenFunc opens an input video.
type OpenFunc func(path string) (video.Source, error)

// CreateFunc creates an output video.
type CreateFunc func(path, codec string, props video.Properties) (video.Sink, error)

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithProgress sets the per-pass progress reporter.
func WithProgress(p Progress) Option {
	return func(r *Runner) {
		if p != nil {
			r.progress = p
		}
	}
}

// WithOpener replaces video.OpenFile.
func WithOpener(open OpenFunc) Option {
	return func(r *Runner) {
		if open != nil {
			r.open = open
		}
	}
}

// WithCreator replaces video.CreateFile.
func WithCreator(create CreateFunc) Option {
	return func(r *Runner) {
		if create != nil {
			r.create = create
		}
	}
}

// Runner processes videos one after another with a single strategy.
type Runner struct {
	cfg      Config
	strategy StabilityStrategy
	logger   *slog.Logger
	progress Progress
	open     OpenFunc
	create   CreateFunc
}

// NewRunner validates cfg and builds its strategy.
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	strategy, err := NewStrategy(cfg)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:      cfg,
		strategy: strategy,
		logger:   slog.New(slog.DiscardHandler),
		progress: nopProgress{},
		open: func(path string) (video.Source, error) {
			return video.OpenFile(path)
		},
		create: func(path, codec string, props video.Properties) (video.Sink, error) {
			return video.CreateFile(path, codec, props)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Strategy returns the configured strategy name.
func (r *Runner) Strategy() string {
	return r.strategy.Name()
}

// RunBatch processes inputs in order. A failed video is recorded on its
// Result and the batch moves on; only cancellation stops it early, in which
// case the remaining inputs carry the context error.
func (r *Runner) RunBatch(ctx context.Context, inputs []string) []Result {
	results := make([]Result, 0, len(inputs))
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Input: input, Strategy: r.strategy.Name(), Err: err})
			continue
		}
		results = append(results, r.RunVideo(ctx, input))
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	r.logger.Info("batch complete", "videos", len(results), "failed", failed)
	return results
}

// RunVideo processes a single input.
func (r *Runner) RunVideo(ctx context.Context, input string) Result {
	started := time.Now()
	logger := r.logger.With("video", input, "strategy", r.strategy.Name())

	res, err := r.runVideo(ctx, input, logger)
	res.Input = input
	res.Strategy = r.strategy.Name()
	res.Elapsed = time.Since(started)
	res.Err = err

	switch {
	case err == nil:
		logger.Info("annotated video written",
			"output", res.Output,
			"frames", res.Frames,
			"dice", len(res.Dice()),
			"elapsed", res.Elapsed)
	case errors.Is(err, video.ErrNotFound):
		logger.Warn("video not found; skipping", "error", err)
	case errors.Is(err, ErrNoDice):
		logger.Warn("no dice detected", "error", err)
	default:
		logger.Error("video failed", "error", err)
	}
	return res
}

func (r *Runner) runVideo(ctx context.Context, input string, logger *slog.Logger) (Result, error) {
	if _, err := os.Stat(input); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %s", video.ErrNotFound, input)
		}
		return Result{}, fmt.Errorf("stat %s: %w", input, err)
	}

	output := OutputPath(input, r.cfg.Output)
	if err := checkDistinct(input, output); err != nil {
		return Result{}, err
	}
	unlock, err := lockDir(filepath.Dir(output))
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	created := false
	job := Job{
		Input:  input,
		Output: output,
		Open: func() (video.Source, error) {
			return r.open(input)
		},
		Create: func(props video.Properties) (video.Sink, error) {
			sink, err := r.create(output, r.cfg.Output.Codec, props)
			created = created || err == nil
			return sink, err
		},
		Logger:   logger,
		Progress: r.progress,
	}
	if r.cfg.Output.Still {
		job.Still = StillPath(input, r.cfg.Output)
	}

	logger.Info("processing video", "output", output)
	res, err := r.strategy.Process(ctx, job)
	if err != nil && created && res.Output == "" {
		removePartial(output, logger)
	}
	if res.Output != "" {
		if info, statErr := os.Stat(res.Output); statErr == nil {
			res.OutputBytes = info.Size()
		}
	}
	return res, err
}

// checkDistinct refuses an output path that names the input file.
func checkDistinct(input, output string) error {
	in, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", input, err)
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", output, err)
	}
	if in == out {
		return fmt.Errorf("%w: %s", ErrOverwrite, out)
	}
	return nil
}

// lockDir takes the run lock of an output directory.
func lockDir(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, LockName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBusy, path)
	}
	return func() { _ = lock.Unlock() }, nil
}

func removePartial(path string, logger *slog.Logger) {
	err := os.Remove(path)
	if err == nil {
		logger.Debug("removed partial output", "path", path)
		return
	}
	if !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to remove partial output", "path", path, "error", err)
	}
}
