// Package pipeline runs the tokfilter pass: load every split and the
// metadata, filter the splits, report, then write the results. Steps run
// one after another on the calling goroutine; the first error aborts the
// run and files already written are left in place.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/hupe1980/tokfilter/internal/config"
	"github.com/hupe1980/tokfilter/internal/meta"
	"github.com/hupe1980/tokfilter/internal/output"
	"github.com/hupe1980/tokfilter/internal/report"
	"github.com/hupe1980/tokfilter/internal/tokens"
)

// TokenFileExt is the extension of split files.
const TokenFileExt = ".bin"

// ReportFunc receives the report after filtering and before any output is
// written. Returning an error aborts the run.
type ReportFunc func(r *report.Report) error

// Options configures a run.
type Options struct {
	// Dir holds <split>.bin and the metadata file.
	Dir string
	// OutDir receives the outputs. Empty means Dir.
	OutDir string
	// Splits are processed and reported in this order.
	Splits []string
	// Meta is the metadata file name relative to Dir.
	Meta string
	// Suffix is appended to each output file stem.
	Suffix string
	// Threshold is the largest token ID kept.
	Threshold uint16
	// DryRun skips every write.
	DryRun bool
	// OnReport is called between filtering and writing.
	OnReport ReportFunc
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// FromConfig maps the loaded configuration onto Options.
func FromConfig(cfg *config.Config) Options {
	return Options{
		Dir:       cfg.Dir,
		OutDir:    cfg.EffectiveOutDir(),
		Splits:    append([]string(nil), cfg.Splits...),
		Meta:      cfg.Meta,
		Suffix:    cfg.Suffix,
		Threshold: cfg.TokenThreshold(),
	}
}

// SplitInput returns the input path of split.
func (o Options) SplitInput(split string) string {
	return filepath.Join(o.Dir, split+TokenFileExt)
}

// SplitOutput returns the output path of split.
func (o Options) SplitOutput(split string) string {
	return filepath.Join(o.outDir(), split+o.Suffix+TokenFileExt)
}

// MetaInput returns the metadata input path.
func (o Options) MetaInput() string {
	return filepath.Join(o.Dir, o.Meta)
}

// MetaOutput returns the metadata output path: the suffix goes before the
// extension, so meta.pkl becomes meta_filtered.pkl.
func (o Options) MetaOutput() string {
	base := filepath.Base(o.Meta)
	ext := filepath.Ext(base)

	return filepath.Join(o.outDir(), strings.TrimSuffix(base, ext)+o.Suffix+ext)
}

// Inputs lists every file a run reads.
func (o Options) Inputs() []string {
	paths := make([]string, 0, len(o.Splits)+1)
	for _, s := range o.Splits {
		paths = append(paths, o.SplitInput(s))
	}

	return append(paths, o.MetaInput())
}

func (o Options) outDir() string {
	if o.OutDir == "" {
		return o.Dir
	}

	return o.OutDir
}

// Result is the outcome of a successful run.
type Result struct {
	Report  *report.Report
	Outputs []string
}

type loadedSplit struct {
	name string
	seq  tokens.Sequence
}

// Run executes the pass described by opts.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// 1. Load splits.
	loaded := make([]loadedSplit, 0, len(opts.Splits))

	for _, name := range opts.Splits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := opts.SplitInput(name)

		seq, err := tokens.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s split: %w", name, err)
		}

		logger.Debug("split loaded", slog.String("split", name), slog.String("path", path), slog.Int("tokens", len(seq)))

		loaded = append(loaded, loadedSplit{name: name, seq: seq})
	}

	// 2. Load metadata.
	md, err := meta.Load(opts.MetaInput())
	if err != nil {
		return nil, fmt.Errorf("loading metadata: %w", err)
	}

	rep := report.New(opts.Threshold)

	if size, ok := md.VocabSize(); ok {
		rep.SetVocabSize(size)

		if int64(opts.Threshold) >= size-1 {
			logger.Warn("threshold covers the whole vocabulary, no token can be removed",
				slog.Int("threshold", int(opts.Threshold)),
				slog.Int64("vocabSize", size),
			)
		}
	}

	// 3. Filter.
	filtered := make([]tokens.Sequence, len(loaded))

	for i, sp := range loaded {
		out, stats := tokens.FilterWithStats(sp.seq, opts.Threshold)
		filtered[i] = out
		rep.Add(sp.name, stats)

		logger.Debug("split filtered",
			slog.String("split", sp.name),
			slog.Int("original", stats.Original),
			slog.Int("kept", stats.Kept),
			slog.Any("droppedIds", stats.DroppedIDs()),
		)
	}

	// 4. Report.
	if opts.OnReport != nil {
		if err := opts.OnReport(rep); err != nil {
			return nil, fmt.Errorf("reporting: %w", err)
		}
	}

	// 5. Write splits, then metadata.
	result := &Result{Report: rep, Outputs: make([]string, 0, len(loaded)+1)}

	for i, sp := range loaded {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := opts.SplitOutput(sp.name)
		if err := tokens.Write(opts.writer(path, logger), filtered[i]); err != nil {
			return nil, fmt.Errorf("writing %s split: %w", sp.name, err)
		}

		result.Outputs = append(result.Outputs, path)
	}

	metaPath := opts.MetaOutput()
	if err := meta.Save(opts.writer(metaPath, logger), md); err != nil {
		return nil, fmt.Errorf("writing metadata: %w", err)
	}

	result.Outputs = append(result.Outputs, metaPath)

	logger.Info("filter pass complete",
		slog.Int("threshold", int(opts.Threshold)),
		slog.Int("removed", rep.TotalRemoved()),
		slog.Bool("dryRun", opts.DryRun),
	)

	return result, nil
}

func (o Options) writer(path string, logger *slog.Logger) output.Writer {
	if o.DryRun {
		return output.NewDryRunWriter(path, logger)
	}

	return output.NewFileWriter(path, output.WithLogger(logger))
}
