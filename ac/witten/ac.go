// Package witten implements the arithmetic coding algorithm described in
// Witten, Ian H.; Neal, Radford M.; Cleary, John G. (June 1987). "Arithmetic Coding for Data Compression". Communications of the ACM 30 (6): 520–540.
//
// The coder works on multi-symbol cumulative frequency models and reads and writes bits through a byte stream.
package witten

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fumin/ari/ac"
	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

const (
	codeValueBits = 32
	topValue      = (uint64(1) << codeValueBits) - 1
	firstQtr      = topValue/4 + 1
	half          = 2 * firstQtr
	thirdQtr      = 3 * firstQtr

	// MaxDenominator is the largest model denominator the coder can narrow its interval with.
	MaxDenominator ac.Border = ac.Border(firstQtr)
)

func checkDenominator(total ac.Border) {
	if total == 0 || total > MaxDenominator {
		panic(fmt.Sprintf("witten: model denominator %d outside (0, %d]", total, MaxDenominator))
	}
}

// An Encoder carries the state required by an encoder.
type Encoder struct {
	w   io.Writer
	buf *bufio.Writer
	bw  *bitio.Writer

	low   uint64
	high  uint64
	fbits uint64

	err error
}

var _ ac.Encoder = (*Encoder)(nil)

// NewEncoder returns an Encoder that writes the code stream to w.
func NewEncoder(w io.Writer) *Encoder {
	buf := bufio.NewWriter(w)
	e := &Encoder{
		w:    w,
		buf:  buf,
		bw:   bitio.NewWriter(buf),
		high: topValue,
	}
	return e
}

func (e *Encoder) bitPlusFollow(bit bool) error {
	if err := e.bw.WriteBool(bit); err != nil {
		return errors.Wrap(err, "")
	}
	for e.fbits > 0 {
		if err := e.bw.WriteBool(!bit); err != nil {
			return errors.Wrap(err, "")
		}
		e.fbits -= 1
	}
	return nil
}

// Encode narrows the coding interval to the range model assigns to value.
// Encoding a value with an empty range is a programming error and panics.
func (e *Encoder) Encode(value int, model ac.Model) error {
	if e.err != nil {
		return e.err
	}
	total := model.Denominator()
	checkDenominator(total)
	lo, hi := model.Range(value)
	if lo >= hi || hi > total {
		panic(fmt.Sprintf("witten: value %d has range [%d, %d) under total %d", value, lo, hi, total))
	}

	arange := (e.high - e.low) + 1
	e.high = e.low + arange*uint64(hi)/uint64(total) - 1
	e.low = e.low + arange*uint64(lo)/uint64(total)

	for {
		if e.high < half {
			if err := e.bitPlusFollow(false); err != nil {
				e.err = err
				return err
			}
		} else if e.low >= half {
			if err := e.bitPlusFollow(true); err != nil {
				e.err = err
				return err
			}
			e.low -= half
			e.high -= half
		} else if e.low >= firstQtr && e.high < thirdQtr {
			e.fbits += 1
			e.low -= firstQtr
			e.high -= firstQtr
		} else {
			break
		}

		e.low = 2 * e.low
		e.high = 2*e.high + 1
	}
	return nil
}

// Flush writes all completed bytes to the underlying writer.
// Bits of a partially filled byte stay buffered until Finish.
func (e *Encoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	if err := e.buf.Flush(); err != nil {
		e.err = errors.Wrap(err, "")
	}
	return e.err
}

// Finish emits the bits that select the final interval, pads the last byte with zeros and flushes.
// It returns the underlying writer, which is not closed.
func (e *Encoder) Finish() (io.Writer, error) {
	if e.err == nil {
		e.fbits += 1
		e.err = e.bitPlusFollow(e.low >= firstQtr)
	}
	if err := e.bw.Close(); err != nil && e.err == nil {
		e.err = errors.Wrap(err, "")
	}
	if err := e.buf.Flush(); err != nil && e.err == nil {
		e.err = errors.Wrap(err, "")
	}
	return e.w, e.err
}

// A Decoder carries the state required by a decoder.
type Decoder struct {
	r  io.Reader
	br *bitio.Reader

	primed bool
	low    uint64
	high   uint64
	value  uint64

	garbageBits int
	err         error
}

var _ ac.Decoder = (*Decoder)(nil)

// NewDecoder returns a Decoder reading the code stream from r.
// Nothing is read from r until the first call to Decode.
func NewDecoder(r io.Reader) *Decoder {
	d := &Decoder{
		r:    r,
		br:   bitio.NewReader(r),
		high: topValue,
	}
	return d
}

func (d *Decoder) readDecBit() (uint64, error) {
	b, err := d.br.ReadBool()
	if err == nil {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	if err != io.EOF {
		return 0, errors.Wrap(err, "")
	}

	// The encoder tail leaves the decoder codeValueBits-2 bits short at most.
	d.garbageBits++
	if d.garbageBits > codeValueBits-2 {
		return 0, ac.ErrDecodeInsufficientBits
	}
	return 0, nil // the returned bit can actually be random
}

func (d *Decoder) prime() error {
	for i := 1; i <= codeValueBits; i++ {
		inb, err := d.readDecBit()
		if err != nil {
			return err
		}
		d.value = 2*d.value + inb
	}
	d.primed = true
	return nil
}

// Decode returns the next value, resolving the current code value with model.Find.
func (d *Decoder) Decode(model ac.Model) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	if !d.primed {
		if err := d.prime(); err != nil {
			d.err = err
			return 0, err
		}
	}
	total := model.Denominator()
	checkDenominator(total)

	arange := (d.high - d.low) + 1
	cum := ((d.value-d.low+1)*uint64(total) - 1) / arange
	value, lo, hi := model.Find(ac.Border(cum))

	// narrow range
	d.high = d.low + arange*uint64(hi)/uint64(total) - 1
	d.low = d.low + arange*uint64(lo)/uint64(total)

	// rescale interval
	for {
		if d.high < half {
			// do nothing
		} else if d.low >= half {
			d.value -= half
			d.low -= half
			d.high -= half
		} else if d.low >= firstQtr && d.high < thirdQtr {
			d.value -= firstQtr
			d.low -= firstQtr
			d.high -= firstQtr
		} else {
			break
		}

		d.low = 2 * d.low
		d.high = 2*d.high + 1
		inb, err := d.readDecBit()
		if err != nil {
			d.err = err
			return 0, err
		}
		d.value = 2*d.value + inb
	}
	return value, nil
}

// Finish returns the underlying reader.
// Bytes read ahead of the last decoded value are not given back.
// Errors have already been reported by Decode, so the returned error is always nil.
func (d *Decoder) Finish() (io.Reader, error) {
	return d.r, nil
}
