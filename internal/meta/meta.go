// Package meta carries the dataset metadata file through tokfilter
// unchanged. The file is a Python pickle (typically a dict with
// vocab_size, stoi and itos entries); it is decoded into a generic value
// and encoded again without interpreting its schema.
package meta

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"

	pickle "github.com/kisielk/og-rek"

	"github.com/hupe1980/tokfilter/internal/output"
)

// Protocol is the pickle protocol used when encoding. Protocol 3 is the
// lowest that round-trips Go strings as Python 3 str.
const Protocol = 3

// VocabSizeKey is the conventional key holding the vocabulary size.
const VocabSizeKey = "vocab_size"

// ErrCorrupt is returned when the metadata cannot be decoded.
var ErrCorrupt = errors.New("corrupt metadata")

// Metadata is an opaque decoded pickle value.
type Metadata struct {
	value interface{}
}

// New wraps an already decoded value.
func New(value interface{}) *Metadata {
	return &Metadata{value: value}
}

// Value returns the decoded value. Dicts decode to
// map[interface{}]interface{}, str to string, int to int64 or *big.Int.
func (m *Metadata) Value() interface{} {
	return m.value
}

// Decode reads one pickled object from r.
func Decode(r io.Reader) (*Metadata, error) {
	v, err := pickle.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return &Metadata{value: v}, nil
}

// Encode pickles the value to w.
func (m *Metadata) Encode(w io.Writer) error {
	enc := pickle.NewEncoderWithConfig(w, &pickle.EncoderConfig{Protocol: Protocol})
	if err := enc.Encode(m.value); err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	return nil
}

// Bytes returns the pickled form of the value.
func (m *Metadata) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Load decodes the metadata file at path.
func Load(path string) (*Metadata, error) {
	f, err := os.Open(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return m, nil
}

// Save encodes m and hands the bytes to w.
func Save(w output.Writer, m *Metadata) error {
	data, err := m.Bytes()
	if err != nil {
		return err
	}

	return w.Write(data)
}

// Lookup returns the entry for key when the value is a dict with string keys.
func (m *Metadata) Lookup(key string) (interface{}, bool) {
	d, ok := m.value.(map[interface{}]interface{})
	if !ok {
		return nil, false
	}

	v, ok := d[key]

	return v, ok
}

// VocabSize returns the vocab_size entry when present and integral.
func (m *Metadata) VocabSize() (int64, bool) {
	v, ok := m.Lookup(VocabSizeKey)
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case *big.Int:
		if n.IsInt64() {
			return n.Int64(), true
		}
	}

	return 0, false
}

// Keys returns the top-level dict keys rendered with %v, sorted. It is nil
// when the value is not a dict.
func (m *Metadata) Keys() []string {
	d, ok := m.value.(map[interface{}]interface{})
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, fmt.Sprintf("%v", k))
	}

	sort.Strings(keys)

	return keys
}
