package ari

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestCompress(t *testing.T) {
	const name = "testdata/gettysburg.txt"
	for _, options := range []*Options{nil, {Mix: DefaultMixOptions()}} {
		// Compress
		f, err := os.CreateTemp("", "ari.TestCompress.Compress")
		if err != nil {
			t.Fatalf("%v", err)
		}
		defer f.Close()
		defer os.Remove(f.Name())
		if err := Compress(f, name, options); err != nil {
			t.Fatalf("%+v", err)
		}

		// Decompress
		_, err = f.Seek(0, 0)
		if err != nil {
			t.Fatalf("%v", err)
		}
		df, err := os.CreateTemp("", "ari.TestCompress.Decompress")
		if err != nil {
			t.Fatalf("%v", err)
		}
		defer df.Close()
		defer os.Remove(df.Name())
		if err := Decompress(df, f, options); err != nil {
			t.Fatalf("%+v", err)
		}

		// Check if the decompressed result is the same as the original file
		_, err = df.Seek(0, 0)
		if err != nil {
			t.Fatalf("%v", err)
		}
		decom, err := io.ReadAll(df)
		if err != nil {
			t.Fatalf("%v", err)
		}
		gettys, err := os.ReadFile(name)
		if err != nil {
			t.Fatalf("%v", err)
		}
		if !bytes.Equal(gettys, decom) {
			t.Errorf("%v %v", gettys, decom)
		}

		info, err := f.Stat()
		if err != nil {
			t.Fatalf("%v", err)
		}
		if info.Size() >= int64(len(gettys)) {
			t.Errorf("compressed %d bytes into %d", len(gettys), info.Size())
		}
	}
}

func TestCompressMissingFile(t *testing.T) {
	if err := Compress(io.Discard, "testdata/does-not-exist", nil); err == nil {
		t.Errorf("expected an error")
	}
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errBroken
}

func TestCompressReadError(t *testing.T) {
	// Opening a directory succeeds, reading it fails.
	err := Compress(io.Discard, "testdata", nil)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if strings.Contains(err.Error(), "finish") {
		t.Errorf("unexpected finish error: %v", err)
	}

	// The read error is kept when finishing the stream fails too.
	err = Compress(brokenWriter{}, "testdata", nil)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), "finish: ") || !strings.Contains(err.Error(), errBroken.Error()) {
		t.Errorf("%v", err)
	}
	if errors.Cause(err) == errBroken {
		t.Errorf("read error replaced by finish error: %v", err)
	}
}
