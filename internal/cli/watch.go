package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/tokfilter/internal/config"
	"github.com/hupe1980/tokfilter/internal/logging"
	"github.com/hupe1980/tokfilter/internal/output"
	"github.com/hupe1980/tokfilter/internal/pipeline"
	"github.com/hupe1980/tokfilter/internal/watch"
)

type watchOptions struct {
	debounce time.Duration
	dryRun   bool
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the filter pass whenever an input file changes",
		Long: `Watch runs the filter pass once, then monitors the split files and the
metadata file and runs it again after each change. Changes are debounced,
and writes to the filtered outputs never trigger a run.

Each run prints its report on stdout and a status line on stderr with the
change in token and removal counts since the previous run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), cmd, opts)
		},
	}

	f := cmd.Flags()
	f.DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "debounce interval for file changes")
	f.BoolVar(&opts.dryRun, "dry-run", false, "filter and report without writing any file")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, opts *watchOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	popts := pipeline.FromConfig(cfg)
	popts.DryRun = opts.dryRun
	popts.Logger = logger
	popts.OnReport = printReport(output.NewStdoutWriter(cmd.OutOrStdout()), cfg.ReportFormat)

	runFn := func(fnCtx context.Context) (*watch.RunResult, error) {
		res, err := pipeline.Run(fnCtx, popts)
		if err != nil {
			return nil, err
		}

		return &watch.RunResult{Report: res.Report, Outputs: res.Outputs}, nil
	}

	watchOpts := watch.Options{
		Inputs:   popts.Inputs(),
		Debounce: opts.debounce,
		Logger:   logger,
		Out:      cmd.ErrOrStderr(),
	}

	if err := watch.Run(ctx, watchOpts, runFn); err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	return nil
}
