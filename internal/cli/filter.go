package cli

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/tokfilter/internal/config"
	"github.com/hupe1980/tokfilter/internal/logging"
	"github.com/hupe1980/tokfilter/internal/output"
	"github.com/hupe1980/tokfilter/internal/pipeline"
	"github.com/hupe1980/tokfilter/internal/report"
)

type filterOptions struct {
	dryRun bool
}

// runFilter performs one pass and prints the report on stdout before any
// output file is written.
func runFilter(cmd *cobra.Command, opts *filterOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	popts := pipeline.FromConfig(cfg)
	popts.DryRun = opts.dryRun
	popts.Logger = logging.FromContext(ctx)
	popts.OnReport = printReport(output.NewStdoutWriter(cmd.OutOrStdout()), cfg.ReportFormat)

	if _, err := pipeline.Run(ctx, popts); err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	return nil
}

func printReport(w output.Writer, format string) pipeline.ReportFunc {
	return func(r *report.Report) error {
		data, err := report.Render(r, format)
		if err != nil {
			return err
		}

		return w.Write(data)
	}
}
