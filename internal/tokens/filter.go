package tokens

import (
	"github.com/RoaringBitmap/roaring"
)

// Filter returns a new Sequence holding the elements of seq that are less
// than or equal to threshold, in their original order. The result never
// shares storage with seq and is empty, not nil, when nothing is kept.
func Filter(seq Sequence, threshold uint16) Sequence {
	kept := 0
	for _, id := range seq {
		if id <= threshold {
			kept++
		}
	}

	out := make(Sequence, 0, kept)
	for _, id := range seq {
		if id <= threshold {
			out = append(out, id)
		}
	}

	return out
}

// Stats describes the effect of one filter pass.
type Stats struct {
	// Original is the input length.
	Original int
	// Kept is the output length.
	Kept int
	// Dropped holds each distinct token ID that was removed.
	Dropped *roaring.Bitmap
}

// Removed returns Original - Kept.
func (s Stats) Removed() int {
	return s.Original - s.Kept
}

// DroppedIDs returns the distinct removed IDs in ascending order.
func (s Stats) DroppedIDs() []uint16 {
	if s.Dropped == nil {
		return []uint16{}
	}

	ids := make([]uint16, 0, s.Dropped.GetCardinality())

	it := s.Dropped.Iterator()
	for it.HasNext() {
		ids = append(ids, uint16(it.Next())) //nolint:gosec // only uint16 values are added
	}

	return ids
}

// FilterWithStats behaves like Filter and also records what was removed.
func FilterWithStats(seq Sequence, threshold uint16) (Sequence, Stats) {
	dropped := roaring.New()

	for _, id := range seq {
		if id > threshold {
			dropped.Add(uint32(id))
		}
	}

	out := Filter(seq, threshold)

	return out, Stats{
		Original: len(seq),
		Kept:     len(out),
		Dropped:  dropped,
	}
}
