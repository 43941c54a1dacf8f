package ari

import (
	"fmt"
	"math"

	"github.com/fumin/ari/ac"
)

// A SumProxy is a read-only model for the weighted sum of two frequency tables,
// using the equation (wa * A + wb * B) >> ws.
// It borrows both tables and must not outlive them.
type SumProxy struct {
	first   *Model
	second  *Model
	wFirst  uint64
	wSecond uint64
	wShift  uint
}

var _ ac.Model = (*SumProxy)(nil)

// NewSumProxy returns a proxy for (wa * fa + wb * fb) >> ws.
// Both tables must have the same number of values.
func NewSumProxy(wa ac.Border, fa *Model, wb ac.Border, fb *Model, ws uint) *SumProxy {
	if len(fa.table) != len(fb.table) {
		panic(fmt.Sprintf("ari: summing tables of %d and %d values", len(fa.table), len(fb.table)))
	}
	p := &SumProxy{
		first:   fa,
		second:  fb,
		wFirst:  uint64(wa),
		wSecond: uint64(wb),
		wShift:  ws,
	}
	if p.blend(uint64(fa.cutThreshold), uint64(fb.cutThreshold)) > math.MaxUint32 {
		panic(fmt.Sprintf("ari: weights %d and %d overflow the blended denominator", wa, wb))
	}
	return p
}

// blend is the only place the weights are applied; Range, Find and Denominator must agree bit for bit.
func (p *SumProxy) blend(a, b uint64) uint64 {
	return (p.wFirst*a + p.wSecond*b) >> p.wShift
}

// Range returns the blended cumulative interval of value.
func (p *SumProxy) Range(value int) (ac.Border, ac.Border) {
	lo0, hi0 := p.first.Range(value)
	lo1, hi1 := p.second.Range(value)
	return ac.Border(p.blend(uint64(lo0), uint64(lo1))), ac.Border(p.blend(uint64(hi0), uint64(hi1)))
}

// Find returns the value whose blended interval contains offset.
// Values with an empty blended interval are never returned.
func (p *SumProxy) Find(offset ac.Border) (int, ac.Border, ac.Border) {
	total := p.Denominator()
	if offset >= total {
		panic(fmt.Sprintf("ari: invalid frequency offset %d requested under total %d", offset, total))
	}
	fa, fb := p.first.table, p.second.table
	var cumA, cumB uint64
	value := 0
	lo := ac.Border(0)
	for {
		cumA += uint64(fa[value])
		cumB += uint64(fb[value])
		hi := ac.Border(p.blend(cumA, cumB))
		if hi > offset {
			return value, lo, hi
		}
		lo = hi
		value++
	}
}

// Denominator returns the blended sum of all frequencies.
func (p *SumProxy) Denominator() ac.Border {
	return ac.Border(p.blend(uint64(p.first.total), uint64(p.second.total)))
}
