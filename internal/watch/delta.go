package watch

import (
	"fmt"
	"strings"

	"github.com/hupe1980/tokfilter/internal/report"
)

// SplitDelta is the change in one split's counts between two runs.
type SplitDelta struct {
	Split    string
	Original int
	Removed  int
}

// Delta compares two reports split by split, in the order of curr. Splits
// absent from prev count as empty. Unchanged splits are omitted.
func Delta(prev, curr *report.Report) []SplitDelta {
	if curr == nil {
		return nil
	}

	before := make(map[string]report.Split)
	if prev != nil {
		for _, s := range prev.Splits {
			before[s.Name] = s
		}
	}

	var deltas []SplitDelta

	for _, s := range curr.Splits {
		p := before[s.Name]

		d := SplitDelta{
			Split:    s.Name,
			Original: s.Original - p.Original,
			Removed:  s.Removed - p.Removed,
		}

		if d.Original != 0 || d.Removed != 0 {
			deltas = append(deltas, d)
		}
	}

	return deltas
}

// DeltaSummary returns a human-readable one-line summary.
func DeltaSummary(deltas []SplitDelta) string {
	if len(deltas) == 0 {
		return "no changes"
	}

	parts := make([]string, 0, len(deltas))
	for _, d := range deltas {
		parts = append(parts, fmt.Sprintf("%s %+d tokens, %+d removed", d.Split, d.Original, d.Removed))
	}

	return strings.Join(parts, "; ")
}
