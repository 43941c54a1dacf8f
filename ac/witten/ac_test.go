package witten

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/fumin/ari/ac"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTableModel(t *testing.T) {
	uniform := func() ac.Model {
		freq := make([]ac.Border, ac.SymbolTotal+1)
		for i := range freq {
			freq[i] = 1
		}
		return &tableModel{Freq: freq}
	}
	testEncode(t, uniform)

	// Letters are much more probable than anything else.
	skewed := func() ac.Model {
		freq := make([]ac.Border, ac.SymbolTotal+1)
		for i := range freq {
			freq[i] = 1
		}
		for c := 'a'; c <= 'z'; c++ {
			freq[c] = 1000
		}
		freq[' '] = 3000
		return &tableModel{Freq: freq}
	}
	testEncode(t, skewed)

	// Test that the pending bits mechanism is working when symbols are nearly impossible.
	extreme := func() ac.Model {
		freq := make([]ac.Border, ac.SymbolTotal+1)
		for i := range freq {
			freq[i] = 1
		}
		freq['e'] = MaxDenominator - ac.SymbolTotal
		return &tableModel{Freq: freq}
	}
	testEncode(t, extreme)
}

func testEncode(t *testing.T, model func() ac.Model) {
	x, err := os.ReadFile("../../testdata/gettysburg.txt")
	require.NoError(t, err)

	// Encode
	buf := bytes.NewBuffer(nil)
	enc := NewEncoder(buf)
	m := model()
	for _, b := range x {
		require.NoError(t, enc.Encode(int(b), m))
	}
	require.NoError(t, enc.Encode(ac.SymbolTotal, m))
	w, err := enc.Finish()
	require.NoError(t, err)
	assert.Equal(t, buf, w)
	t.Logf("encoded bytes: %d, original bytes: %d", buf.Len(), len(x))

	// Decode
	dec := NewDecoder(bytes.NewReader(buf.Bytes()))
	m = model()
	decoded := []byte{}
	for {
		v, err := dec.Decode(m)
		require.NoError(t, err)
		if v == ac.SymbolTotal {
			break
		}
		decoded = append(decoded, byte(v))
	}
	assert.Equal(t, x, decoded)
}

func TestDecodeInsufficientBits(t *testing.T) {
	m := &tableModel{Freq: []ac.Border{1, 1, 1, 1}}
	dec := NewDecoder(bytes.NewReader(nil))
	_, err := dec.Decode(m)
	assert.Equal(t, ac.ErrDecodeInsufficientBits, err)

	// The error is sticky.
	_, err = dec.Decode(m)
	assert.Equal(t, ac.ErrDecodeInsufficientBits, err)
}

func TestDecodeTruncated(t *testing.T) {
	m := &tableModel{Freq: []ac.Border{1, 1, 1, 1}}
	buf := bytes.NewBuffer(nil)
	enc := NewEncoder(buf)
	for i := 0; i < 4096; i++ {
		require.NoError(t, enc.Encode(i%3, m))
	}
	require.NoError(t, enc.Encode(3, m))
	_, err := enc.Finish()
	require.NoError(t, err)

	dec := NewDecoder(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	n := 0
	for ; n <= 4096; n++ {
		v, err := dec.Decode(m)
		if err != nil {
			assert.Equal(t, ac.ErrDecodeInsufficientBits, err)
			break
		}
		if v == 3 {
			break
		}
	}
	assert.Less(t, n, 4096)
}

func TestEncodeEmptyRange(t *testing.T) {
	m := &tableModel{Freq: []ac.Border{1, 0, 1}}
	enc := NewEncoder(io.Discard)
	assert.Panics(t, func() { enc.Encode(1, m) })
}

func TestEncodeLargeDenominator(t *testing.T) {
	m := &tableModel{Freq: []ac.Border{1, MaxDenominator}}
	enc := NewEncoder(io.Discard)
	assert.Panics(t, func() { enc.Encode(0, m) })
}

var errBroken = errors.New("broken pipe")

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errBroken
}

func TestFinishWriteError(t *testing.T) {
	m := &tableModel{Freq: []ac.Border{1, 1}}
	enc := NewEncoder(brokenWriter{})
	require.NoError(t, enc.Encode(0, m))
	_, err := enc.Finish()
	require.Error(t, err)
	assert.Equal(t, errBroken, errors.Cause(err))
}

// tableModel is a static cumulative frequency model.
type tableModel struct {
	Freq []ac.Border
}

func (m *tableModel) Range(value int) (ac.Border, ac.Border) {
	lo := ac.Sum(m.Freq[:value])
	return lo, lo + m.Freq[value]
}

func (m *tableModel) Find(offset ac.Border) (int, ac.Border, ac.Border) {
	var lo ac.Border
	for v, f := range m.Freq {
		if offset < lo+f {
			return v, lo, lo + f
		}
		lo += f
	}
	panic("offset out of range")
}

func (m *tableModel) Denominator() ac.Border {
	return ac.Sum(m.Freq)
}
