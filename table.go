// Package ari provides adaptive frequency table models for a range coder,
// and byte stream adapters that code whole bytes with an in-band terminator symbol.
//
// Below is an example of using this package to compress Lincoln's Gettysburg address:
//
//	go run compress/main.go testdata/gettysburg.txt > gettys.ari
//	cat gettys.ari | go run decompress/main.go > gettys.dari
//	diff testdata/gettysburg.txt gettys.dari
//
// The encoder and the decoder must adapt their models with exactly the same sequence of updates.
// The code stream carries no framing or checksum, so any divergence silently corrupts the rest of the output.
package ari

import (
	"fmt"

	"github.com/fumin/ari/ac"
	log "github.com/sirupsen/logrus"
)

// Frequency is the count of a single symbol.
type Frequency uint16

const (
	// MaxThreshold is the largest cut threshold of a Model.
	// A frequency below it plus the largest legal increment still fits a Frequency.
	MaxThreshold ac.Border = 1 << 14

	// MaxValues is the largest alphabet of a Model.
	MaxValues = 1 << 16

	defaultCutShift = 1
)

// A Model is an adaptive table of frequencies.
// Model implements the range coding Model interface.
type Model struct {
	total        ac.Border   // sum of frequencies
	table        []Frequency // value -> frequency
	cutThreshold ac.Border   // maximum allowed total, exclusive
	cutShift     uint        // number of bits to shift on cut
}

var _ ac.Model = (*Model)(nil)

// NewModel returns a table over numValues symbols whose frequencies are given by init.
// The table is downscaled until its total is below threshold.
func NewModel(numValues int, threshold ac.Border, init func(value int) Frequency) *Model {
	if numValues < 1 || numValues > MaxValues {
		panic(fmt.Sprintf("ari: %d values outside [1, %d]", numValues, MaxValues))
	}
	if threshold <= ac.Border(numValues) || threshold > MaxThreshold {
		panic(fmt.Sprintf("ari: threshold %d outside (%d, %d]", threshold, numValues, MaxThreshold))
	}

	table := make([]Frequency, numValues)
	for i := range table {
		table[i] = init(i)
	}
	m := &Model{
		total:        ac.Sum(table),
		table:        table,
		cutThreshold: threshold,
		cutShift:     defaultCutShift,
	}
	for m.total >= m.cutThreshold {
		m.Downscale()
	}
	return m
}

// NewFlatModel returns a table with all frequencies being equal.
func NewFlatModel(numValues int, threshold ac.Border) *Model {
	return NewModel(numValues, threshold, func(int) Frequency { return 1 })
}

// Reset returns the table to the flat state.
func (m *Model) Reset() {
	for i := range m.table {
		m.table[i] = 1
	}
	m.total = ac.Border(len(m.table))
}

// Update adapts the table in favor of value.
// The table grows by (total >> addLog) + addConst; the higher addLog is, the more conservative the adaptation.
// An increment of twice the cut threshold or more is a configuration error and panics.
func (m *Model) Update(value int, addLog uint, addConst ac.Border) {
	add := uint64(m.total>>addLog) + uint64(addConst)
	if add >= 2*uint64(m.cutThreshold) {
		panic(fmt.Sprintf("ari: increment %d too large for threshold %d", add, m.cutThreshold))
	}
	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("updating by adding %d to value %d", add, value)
	}
	m.table[value] += Frequency(add)
	m.total += ac.Border(add)
	for m.total >= m.cutThreshold {
		m.Downscale()
	}
}

// Downscale divides every frequency by 2^cutShift, rounding up.
// Non-zero frequencies remain positive.
func (m *Model) Downscale() {
	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("downscaling frequencies, total %d", m.total)
	}
	roundup := ac.Border(1)<<m.cutShift - 1
	m.total = 0
	for i, f := range m.table {
		f = Frequency((ac.Border(f) + roundup) >> m.cutShift)
		m.table[i] = f
		m.total += ac.Border(f)
	}
}

// Frequencies returns the table. Callers must not modify it.
func (m *Model) Frequencies() []Frequency {
	return m.table
}

// Threshold returns the cut threshold.
func (m *Model) Threshold() ac.Border {
	return m.cutThreshold
}

// CutShift returns the number of bits a downscale divides by.
func (m *Model) CutShift() uint {
	return m.cutShift
}

// SetCutShift sets the number of bits a downscale divides by.
func (m *Model) SetCutShift(shift uint) {
	if shift < 1 || shift > 15 {
		panic(fmt.Sprintf("ari: cut shift %d outside [1, 15]", shift))
	}
	m.cutShift = shift
}

// Range returns the cumulative interval of value.
// It costs time linear in value.
func (m *Model) Range(value int) (ac.Border, ac.Border) {
	lo := ac.Sum(m.table[:value])
	return lo, lo + ac.Border(m.table[value])
}

// Find returns the value whose interval contains offset.
func (m *Model) Find(offset ac.Border) (int, ac.Border, ac.Border) {
	if offset >= m.total {
		panic(fmt.Sprintf("ari: invalid frequency offset %d requested under total %d", offset, m.total))
	}
	value := 0
	lo := ac.Border(0)
	hi := lo + ac.Border(m.table[value])
	for hi <= offset {
		lo = hi
		value++
		hi = lo + ac.Border(m.table[value])
	}
	return value, lo, hi
}

// Denominator returns the sum of all frequencies.
func (m *Model) Denominator() ac.Border {
	return m.total
}
