package ari

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Compress encodes the file name and writes the code stream to w.
func Compress(w io.Writer, name string, options *Options) error {
	f, err := os.Open(name)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer f.Close()

	enc := NewByteEncoder(w, options)
	if _, err := io.Copy(enc, bufio.NewReader(f)); err != nil {
		if _, ferr := enc.Finish(); ferr != nil {
			return errors.Wrapf(err, "finish: %v", ferr)
		}
		return errors.Wrap(err, "")
	}
	if _, err := enc.Finish(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// Decompress decodes the code stream in r and writes the original bytes to w.
// Options must equal those given to Compress.
func Decompress(w io.Writer, r io.Reader, options *Options) error {
	bw := bufio.NewWriter(w)
	dec := NewByteDecoder(r, options)
	if _, err := io.Copy(bw, dec); err != nil {
		return errors.Wrap(err, "")
	}
	if _, err := dec.Finish(); err != nil {
		return errors.Wrap(err, "")
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
