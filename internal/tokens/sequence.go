// Package tokens reads, filters and writes flat binary token files.
//
// A token file is a headerless array of little-endian unsigned 16-bit
// integers; its length is implied by its size. The element width is fixed
// in code rather than taken from the host so files move between machines
// unchanged.
package tokens

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/hupe1980/tokfilter/internal/output"
)

// ElementWidth is the size in bytes of one encoded token ID.
const ElementWidth = 2

// ErrTruncated is returned when a token file's size is not a multiple of
// ElementWidth.
var ErrTruncated = errors.New("size is not a multiple of the element width")

// Sequence is an ordered run of token IDs. Operations in this package never
// modify a Sequence in place.
type Sequence []uint16

// Decode interprets data as little-endian token IDs.
func Decode(data []byte) (Sequence, error) {
	if len(data)%ElementWidth != 0 {
		return nil, fmt.Errorf("%d bytes: %w", len(data), ErrTruncated)
	}

	seq := make(Sequence, len(data)/ElementWidth)
	for i := range seq {
		seq[i] = binary.LittleEndian.Uint16(data[i*ElementWidth:])
	}

	return seq, nil
}

// Encode returns the little-endian byte form of s.
func (s Sequence) Encode() []byte {
	buf := make([]byte, len(s)*ElementWidth)
	for i, id := range s {
		binary.LittleEndian.PutUint16(buf[i*ElementWidth:], id)
	}

	return buf
}

// Load reads the token file at path.
func Load(path string) (Sequence, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return nil, err
	}

	seq, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return seq, nil
}

// Write encodes s and hands the bytes to w.
func Write(w output.Writer, s Sequence) error {
	return w.Write(s.Encode())
}
