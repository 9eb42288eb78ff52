// Package cli implements the cobra command tree for tokfilter.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/tokfilter/internal/config"
	"github.com/hupe1980/tokfilter/internal/logging"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it with the process arguments, and
// returns the exit code.
func Execute() int {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		return 1
	}

	return 0
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached. Run without a subcommand it performs the filter
// pass.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "tokfilter",
		Short: "Drop out-of-range token IDs from a tokenized dataset",
		Long: `tokfilter removes outlier tokens from a tokenized text dataset.

It reads each split (train.bin, val.bin) as a flat array of little-endian
uint16 token IDs, keeps only IDs at or below the threshold (60 by
default), prints the counts before and after, and writes the filtered
splits and an unchanged copy of meta.pkl next to the inputs:

  train_filtered.bin  val_filtered.bin  meta_filtered.pkl

Run without arguments in the dataset directory to reproduce the classic
pass. Flags, TOKFILTER_* environment variables and .tokfilter.yaml can
override the threshold, paths and split names.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			logger := logging.SetupWithWriter(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("configFile", cfg.ConfigFile),
				slog.Int("threshold", cfg.Threshold),
				slog.Any("splits", cfg.Splits),
			)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFilter(cmd, opts)
		},
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .tokfilter.yaml)")
	pf.String("log-level", config.LogLevelInfo, "log level: debug, info, warn, error")
	pf.String("log-format", config.LogFormatText, "log format: text, json")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")

	registerDatasetFlags(cmd)
	registerFlagCompletions(cmd)

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "filter and report without writing any file")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	cmd.AddCommand(
		newInspectCommand(),
		newWatchCommand(),
		newVersionCommand(),
		newCompletionCommand(),
	)

	return cmd
}
