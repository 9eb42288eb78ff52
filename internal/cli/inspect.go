package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/tokfilter/internal/config"
	"github.com/hupe1980/tokfilter/internal/pipeline"
)

func newInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show token statistics for each split without filtering",
		Long: `Inspect loads every split and the metadata file and prints, per split,
the token count, smallest and largest ID, mean and standard deviation, the
number of distinct IDs and how many tokens lie above the threshold.

Nothing is written. The output format follows --report-format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)

			ins, err := pipeline.Inspect(ctx, pipeline.FromConfig(cfg))
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}

			return writeInspection(cmd.OutOrStdout(), ins, cfg.ReportFormat)
		},
	}

	return cmd
}

func writeInspection(w io.Writer, ins *pipeline.Inspection, format string) error {
	switch format {
	case config.ReportFormatJSON:
		data, err := json.MarshalIndent(ins, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling inspection: %w", err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	case config.ReportFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(ins); err != nil {
			return fmt.Errorf("marshaling inspection: %w", err)
		}

		return enc.Close()
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "SPLIT\tTOKENS\tMIN\tMAX\tMEAN\tSTDDEV\tDISTINCT\tABOVE %d\n", ins.Threshold)

	for _, s := range ins.Splits {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.2f\t%.2f\t%d\t%d\n",
			s.Name, s.Summary.Count, s.Summary.Min, s.Summary.Max,
			s.Summary.Mean, s.Summary.StdDev, s.Summary.Distinct, s.Summary.AboveThreshold)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nmetadata: %s\n", ins.MetaPath)

	if len(ins.MetaKeys) > 0 {
		fmt.Fprintf(w, "  keys: %s\n", strings.Join(ins.MetaKeys, ", "))
	}

	if ins.VocabSize != nil {
		fmt.Fprintf(w, "  vocab_size: %d\n", *ins.VocabSize)
	}

	return nil
}
