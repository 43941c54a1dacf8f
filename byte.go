package ari

import (
	"io"

	"github.com/fumin/ari/ac"
	"github.com/fumin/ari/ac/witten"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Terminator is the symbol that ends a byte stream. Literal bytes are the symbols below it.
const Terminator = ac.SymbolTotal

// ErrFinished is returned when a byte stream adapter is used after Finish.
var ErrFinished = errors.New("ari: stream already finished")

// A ByteEncoder codes bytes with an adaptive frequency table,
// ending the stream with the Terminator symbol.
type ByteEncoder struct {
	encoder  ac.Encoder
	freq     *streamModel
	written  int64
	finished bool
}

// NewByteEncoder returns an encoder writing to w.
func NewByteEncoder(w io.Writer, options *Options) *ByteEncoder {
	return NewByteEncoderCodec(witten.NewEncoder(w), options)
}

// NewByteEncoderCodec returns an encoder on top of a lower level encoder.
func NewByteEncoderCodec(enc ac.Encoder, options *Options) *ByteEncoder {
	return &ByteEncoder{
		encoder: enc,
		freq:    newStreamModel(NewOptions(options)),
	}
}

// Write encodes buf. On error, bytes before the failed one have already been coded and adapted to.
func (e *ByteEncoder) Write(buf []byte) (int, error) {
	if e.finished {
		return 0, ErrFinished
	}
	for i, b := range buf {
		value := int(b)
		if err := e.encoder.Encode(value, e.freq.code); err != nil {
			return i, err
		}
		e.freq.update(value)
		e.written++
	}
	return len(buf), nil
}

// Flush flushes the lower level encoder.
func (e *ByteEncoder) Flush() error {
	if e.finished {
		return ErrFinished
	}
	return e.encoder.Flush()
}

// Finish writes the terminator symbol and finishes the lower level encoder.
// It returns the underlying writer, together with the first error of either step.
func (e *ByteEncoder) Finish() (io.Writer, error) {
	if e.finished {
		return nil, ErrFinished
	}
	e.finished = true
	ret := e.encoder.Encode(Terminator, e.freq.code)
	w, err := e.encoder.Finish()
	if ret == nil {
		ret = err
	}
	log.Debugf("finished encoding %d bytes", e.written)
	return w, ret
}

// Close calls Finish and discards the writer.
func (e *ByteEncoder) Close() error {
	_, err := e.Finish()
	return err
}

// Model returns the frequency table. With mixing enabled it is the slow model.
func (e *ByteEncoder) Model() *Model {
	return e.freq.slow
}

// A ByteDecoder decodes bytes coded by a ByteEncoder.
// It expects the Terminator symbol at the end of the stream.
type ByteDecoder struct {
	decoder  ac.Decoder
	freq     *streamModel
	read     int64
	isEOF    bool
	finished bool
}

// NewByteDecoder returns a decoder reading from r.
func NewByteDecoder(r io.Reader, options *Options) *ByteDecoder {
	return NewByteDecoderCodec(witten.NewDecoder(r), options)
}

// NewByteDecoderCodec returns a decoder on top of a lower level decoder.
func NewByteDecoderCodec(dec ac.Decoder, options *Options) *ByteDecoder {
	return &ByteDecoder{
		decoder: dec,
		freq:    newStreamModel(NewOptions(options)),
	}
}

// Read decodes into dst until dst is full or the terminator is found.
// Once the terminator is found, Read returns 0, io.EOF without reading further.
func (d *ByteDecoder) Read(dst []byte) (int, error) {
	if d.finished {
		return 0, ErrFinished
	}
	if d.isEOF {
		return 0, io.EOF
	}
	amount := 0
	for amount < len(dst) {
		value, err := d.decoder.Decode(d.freq.code)
		if err != nil {
			return amount, err
		}
		if value == Terminator {
			d.isEOF = true
			log.Debugf("decoded %d bytes", d.read)
			break
		}
		d.freq.update(value)
		dst[amount] = byte(value)
		amount++
		d.read++
	}
	if amount == 0 && d.isEOF {
		return 0, io.EOF
	}
	return amount, nil
}

// EOF reports whether the terminator has been decoded.
func (d *ByteDecoder) EOF() bool {
	return d.isEOF
}

// Finish finishes the lower level decoder and returns the underlying reader.
func (d *ByteDecoder) Finish() (io.Reader, error) {
	if d.finished {
		return nil, ErrFinished
	}
	d.finished = true
	return d.decoder.Finish()
}

// Model returns the frequency table. With mixing enabled it is the slow model.
func (d *ByteDecoder) Model() *Model {
	return d.freq.slow
}
