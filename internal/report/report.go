// Package report renders the per-split counts of a filter run.
//
// The text form prints original sizes, then filtered sizes, then removed
// counts, one line per split in configuration order, with numbers grouped
// by thousands. The JSON and YAML forms carry the same counts plus the
// threshold and the distinct token IDs that were dropped.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/tokfilter/internal/tokens"
)

// Supported formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Split holds the counts for one dataset partition.
type Split struct {
	Name       string   `json:"name" yaml:"name"`
	Original   int      `json:"original" yaml:"original"`
	Filtered   int      `json:"filtered" yaml:"filtered"`
	Removed    int      `json:"removed" yaml:"removed"`
	DroppedIDs []uint16 `json:"droppedIds" yaml:"droppedIds,flow"`
}

// Report is the outcome of one run.
type Report struct {
	Threshold uint16  `json:"threshold" yaml:"threshold"`
	VocabSize *int64  `json:"vocabSize,omitempty" yaml:"vocabSize,omitempty"`
	Splits    []Split `json:"splits" yaml:"splits"`
}

// New returns an empty report for threshold.
func New(threshold uint16) *Report {
	return &Report{Threshold: threshold, Splits: []Split{}}
}

// Add appends the counts of one split.
func (r *Report) Add(name string, s tokens.Stats) {
	r.Splits = append(r.Splits, Split{
		Name:       name,
		Original:   s.Original,
		Filtered:   s.Kept,
		Removed:    s.Removed(),
		DroppedIDs: s.DroppedIDs(),
	})
}

// SetVocabSize records the vocabulary size found in the metadata.
func (r *Report) SetVocabSize(n int64) {
	r.VocabSize = &n
}

// TotalRemoved sums Removed over all splits.
func (r *Report) TotalRemoved() int {
	total := 0
	for _, s := range r.Splits {
		total += s.Removed
	}

	return total
}

// Render encodes r in the given format.
func Render(r *Report, format string) ([]byte, error) {
	switch format {
	case FormatText, "":
		return renderText(r), nil
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling report: %w", err)
		}

		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer

		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)

		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("marshaling report: %w", err)
		}

		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshaling report: %w", err)
		}

		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

func renderText(r *Report) []byte {
	var buf bytes.Buffer

	p := message.NewPrinter(language.English)

	for _, s := range r.Splits {
		p.Fprintf(&buf, "Original %s size: %d\n", s.Name, s.Original)
	}

	for _, s := range r.Splits {
		p.Fprintf(&buf, "Filtered %s size: %d\n", s.Name, s.Filtered)
	}

	for _, s := range r.Splits {
		p.Fprintf(&buf, "Removed %d outliers from %s\n", s.Removed, s.Name)
	}

	return buf.Bytes()
}
