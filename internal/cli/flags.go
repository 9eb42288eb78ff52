package cli

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/tokfilter/internal/config"
)

// registerDatasetFlags adds the dataset location and filter flags as
// persistent flags so that every subcommand resolves the same inputs.
func registerDatasetFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.Int("threshold", config.DefaultThreshold, "largest token ID to keep")
	f.String("dir", ".", "directory holding <split>.bin and the metadata file")
	f.String("out-dir", "", "directory for filtered outputs (default: --dir)")
	f.StringSlice("splits", config.DefaultSplits(), "split names, processed and reported in order")
	f.String("meta", config.DefaultMetaFile, "metadata pickle file name inside --dir")
	f.String("suffix", config.DefaultSuffix, "suffix appended to output file names")
	f.String("report-format", config.ReportFormatText, "report format: text, json, yaml")
}

// registerFlagCompletions offers the fixed value sets of enum-like flags to
// shell completion.
func registerFlagCompletions(cmd *cobra.Command) {
	fixed := map[string][]string{
		"log-level":     {config.LogLevelDebug, config.LogLevelInfo, config.LogLevelWarn, config.LogLevelError},
		"log-format":    {config.LogFormatText, config.LogFormatJSON},
		"report-format": {config.ReportFormatText, config.ReportFormatJSON, config.ReportFormatYAML},
	}

	for name, values := range fixed {
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
}
