package tokens

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		name      string
		in        Sequence
		threshold uint16
		want      Sequence
	}{
		{"mixed", Sequence{5, 61, 12, 60, 200, 0}, 60, Sequence{5, 12, 60, 0}},
		{"empty", Sequence{}, 60, Sequence{}},
		{"nil", nil, 60, Sequence{}},
		{"all above", Sequence{61, 62, 65535}, 60, Sequence{}},
		{"none above", Sequence{0, 60, 1, 59}, 60, Sequence{0, 60, 1, 59}},
		{"zero threshold", Sequence{0, 1, 0, 2}, 0, Sequence{0, 0}},
		{"max threshold", Sequence{0, 65535}, 65535, Sequence{0, 65535}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tt.in, tt.threshold)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	in := Sequence{5, 61, 12, 60, 200, 0}
	orig := append(Sequence(nil), in...)

	out := Filter(in, 60)
	out[0] = 999

	assert.Equal(t, orig, in)
}

func TestFilter_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for range 50 {
		in := make(Sequence, rng.IntN(500))
		for i := range in {
			in[i] = uint16(rng.IntN(120)) //nolint:gosec // bounded
		}

		threshold := uint16(rng.IntN(120)) //nolint:gosec // bounded
		out := Filter(in, threshold)

		// Every kept element satisfies the predicate and order is preserved.
		var want Sequence
		for _, id := range in {
			if id <= threshold {
				want = append(want, id)
			}
		}

		if want == nil {
			want = Sequence{}
		}

		assert.Equal(t, want, out)
		assert.LessOrEqual(t, len(out), len(in))

		// Filtering again removes nothing.
		assert.Equal(t, out, Filter(out, threshold))
	}
}

func TestFilterWithStats(t *testing.T) {
	out, stats := FilterWithStats(Sequence{5, 61, 12, 60, 200, 0, 61}, 60)

	assert.Equal(t, Sequence{5, 12, 60, 0}, out)
	assert.Equal(t, 7, stats.Original)
	assert.Equal(t, 4, stats.Kept)
	assert.Equal(t, 3, stats.Removed())
	assert.Equal(t, []uint16{61, 200}, stats.DroppedIDs())
}

func TestFilterWithStats_Empty(t *testing.T) {
	out, stats := FilterWithStats(Sequence{}, 60)

	assert.Empty(t, out)
	assert.Zero(t, stats.Original)
	assert.Zero(t, stats.Kept)
	assert.Zero(t, stats.Removed())
	assert.Empty(t, stats.DroppedIDs())
}

func TestStats_DroppedIDsNilBitmap(t *testing.T) {
	assert.Equal(t, []uint16{}, Stats{}.DroppedIDs())
}
