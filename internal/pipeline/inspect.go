package pipeline

import (
	"context"
	"fmt"

	"github.com/hupe1980/tokfilter/internal/meta"
	"github.com/hupe1980/tokfilter/internal/tokens"
)

// SplitSummary pairs a split with its statistics.
type SplitSummary struct {
	Name    string         `json:"name" yaml:"name"`
	Path    string         `json:"path" yaml:"path"`
	Summary tokens.Summary `json:"summary" yaml:"summary"`
}

// Inspection describes the inputs of a run without filtering them.
type Inspection struct {
	Threshold uint16         `json:"threshold" yaml:"threshold"`
	MetaPath  string         `json:"metaPath" yaml:"metaPath"`
	MetaKeys  []string       `json:"metaKeys" yaml:"metaKeys"`
	VocabSize *int64         `json:"vocabSize,omitempty" yaml:"vocabSize,omitempty"`
	Splits    []SplitSummary `json:"splits" yaml:"splits"`
}

// Inspect loads the inputs named by opts and summarizes them. Nothing is
// written.
func Inspect(ctx context.Context, opts Options) (*Inspection, error) {
	ins := &Inspection{
		Threshold: opts.Threshold,
		MetaPath:  opts.MetaInput(),
		Splits:    make([]SplitSummary, 0, len(opts.Splits)),
	}

	for _, name := range opts.Splits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := opts.SplitInput(name)

		seq, err := tokens.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s split: %w", name, err)
		}

		ins.Splits = append(ins.Splits, SplitSummary{
			Name:    name,
			Path:    path,
			Summary: tokens.Summarize(seq, opts.Threshold),
		})
	}

	md, err := meta.Load(ins.MetaPath)
	if err != nil {
		return nil, fmt.Errorf("loading metadata: %w", err)
	}

	ins.MetaKeys = md.Keys()

	if size, ok := md.VocabSize(); ok {
		ins.VocabSize = &size
	}

	return ins, nil
}
