package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"dice-reader/internal/config"
	"dice-reader/internal/logging"
	"dice-reader/internal/pipeline"
)

type runFlags struct {
	strategy    string
	outputDir   string
	still       bool
	stillFormat string
	logLevel    string
	logFormat   string
	noProgress  bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run [videos...]",
		Short: "Annotate the dice in one or more throw videos",
		Long: "Process each video in order and write an annotated copy next to it (or to --output-dir).\n" +
			"With no arguments the [input] videos from the config are used (default tirada_*.mp4).",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg, flags); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}
			return runBatch(cmd, ctx, cfg, args, flags.noProgress)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.strategy, "strategy", "", "Stability strategy: buffer or window")
	f.StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory for annotated output (default: next to each input)")
	f.BoolVar(&flags.still, "still", false, "Also write an annotated still image")
	f.StringVar(&flags.stillFormat, "still-format", "", "Still image format: png, jpg or tiff")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	f.StringVar(&flags.logFormat, "log-format", "", "Log format: console or json")
	f.BoolVar(&flags.noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}

// applyRunFlags copies explicitly set flags over the loaded config.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, flags runFlags) error {
	changed := cmd.Flags().Changed
	if changed("strategy") {
		cfg.Strategy = strings.ToLower(strings.TrimSpace(flags.strategy))
	}
	if changed("output-dir") {
		dir, err := config.ExpandPath(flags.outputDir)
		if err != nil {
			return fmt.Errorf("resolve --output-dir: %w", err)
		}
		cfg.Output.Dir = dir
	}
	if changed("still") {
		cfg.Output.Still = flags.still
	}
	if changed("still-format") {
		cfg.Output.StillFormat = strings.ToLower(strings.TrimPrefix(flags.stillFormat, "."))
	}
	if changed("log-level") {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(flags.logLevel))
	}
	if changed("log-format") {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(flags.logFormat))
	}
	return nil
}

func runBatch(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, args []string, noProgress bool) error {
	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
		File:   cfg.Logging.File,
	})
	if err != nil {
		return err
	}
	defer closeLog()
	logger = logger.With("run_id", uuid.NewString())

	pcfg, err := cfg.ToPipeline()
	if err != nil {
		return err
	}
	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if !noProgress && isTerminal(cmd.ErrOrStderr()) {
		opts = append(opts, pipeline.WithProgress(newBarProgress(cmd.ErrOrStderr())))
	}
	runner, err := pipeline.NewRunner(pcfg, opts...)
	if err != nil {
		return err
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.Input.Videos
	}
	inputs, err := pipeline.ExpandInputs(patterns)
	if err != nil {
		return fmt.Errorf("expand inputs: %w", err)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input videos match %s", strings.Join(patterns, ", "))
	}

	configSource := "defaults"
	if ctx.configExists {
		configSource = ctx.configPath
	}
	logger.Info("batch started",
		"videos", len(inputs),
		"strategy", runner.Strategy(),
		"config", configSource)

	results := runner.RunBatch(cmd.Context(), inputs)
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(results))

	if err := cmd.Context().Err(); err != nil {
		return err
	}
	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d videos failed", failed, len(results))
	}
	return nil
}

func isTerminal(w any) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
