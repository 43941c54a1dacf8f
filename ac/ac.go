// Package ac defines the interfaces the range coding algorithm requires.
// See its subpackages for particular finite precision realizations of the algorithm.
package ac

import (
	"fmt"
	"io"

	"golang.org/x/exp/constraints"
)

// Border is the integer type of cumulative frequencies, denominators and thresholds.
type Border uint32

const (
	// SymbolBits is the width of a literal symbol.
	SymbolBits = 8

	// SymbolTotal is the number of literal symbols.
	SymbolTotal = 1 << SymbolBits

	// RangeDefaultThreshold is the default precision threshold of a range coder.
	// Adaptive models conventionally cut their totals at a quarter of it,
	// which leaves room for a single adaptation step.
	RangeDefaultThreshold Border = 1 << 16
)

// ErrDecodeInsufficientBits is returned when there are insufficient bits sent to Decode to reconstruct the original data.
var ErrDecodeInsufficientBits = fmt.Errorf("insufficient bits sent to decoder")

// Sum adds up frequencies as a cumulative frequency.
func Sum[F constraints.Unsigned](freq []F) Border {
	var total Border
	for _, f := range freq {
		total += Border(f)
	}
	return total
}

// A Model is a cumulative frequency distribution over the values 0..n-1,
// as expected by the range coding algorithm.
type Model interface {
	// Range returns the half-open cumulative interval [lo, hi) assigned to value.
	Range(value int) (lo, hi Border)

	// Find returns the value whose interval contains offset, together with that interval.
	// The offset must be smaller than Denominator.
	Find(offset Border) (value int, lo, hi Border)

	// Denominator returns the sum of all frequencies.
	Denominator() Border
}

// An Encoder codes values against a Model into a byte sink.
type Encoder interface {
	Encode(value int, model Model) error
	Flush() error

	// Finish terminates the code stream and returns the sink.
	Finish() (io.Writer, error)
}

// A Decoder reads values coded by an Encoder using an identical sequence of Models.
type Decoder interface {
	Decode(model Model) (int, error)

	// Finish returns the source.
	Finish() (io.Reader, error)
}
