package tokens

import (
	"github.com/RoaringBitmap/roaring"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of a Sequence relative to a
// threshold. It backs the inspect command.
type Summary struct {
	Count          int     `json:"count" yaml:"count"`
	Min            uint16  `json:"min" yaml:"min"`
	Max            uint16  `json:"max" yaml:"max"`
	Mean           float64 `json:"mean" yaml:"mean"`
	StdDev         float64 `json:"stdDev" yaml:"stdDev"`
	Distinct       uint64  `json:"distinct" yaml:"distinct"`
	AboveThreshold int     `json:"aboveThreshold" yaml:"aboveThreshold"`
}

// Summarize computes a Summary of seq. An empty sequence yields the zero
// Summary.
func Summarize(seq Sequence, threshold uint16) Summary {
	if len(seq) == 0 {
		return Summary{}
	}

	s := Summary{Count: len(seq), Min: seq[0], Max: seq[0]}
	seen := roaring.New()
	xs := make([]float64, len(seq))

	for i, id := range seq {
		xs[i] = float64(id)
		seen.Add(uint32(id))

		s.Min = min(s.Min, id)
		s.Max = max(s.Max, id)

		if id > threshold {
			s.AboveThreshold++
		}
	}

	s.Distinct = seen.GetCardinality()

	if len(xs) == 1 {
		s.Mean = xs[0]
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)

	return s
}
