// Command cluster prints the normalized compression distance between every pair of files in a directory.
package main

import (
	"bytes"
	"flag"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fumin/ari"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	intelligenceType = flag.String("i", "ari", "compressor: ari, ari-mix or zstd")
	dataDir          = flag.String("d", "mammals10", "data directory")
)

func main() {
	flag.Parse()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if err := run(*intelligenceType, *dataDir); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(intelligence, dir string) error {
	data, err := listFiles(dir)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if len(data) < 2 {
		return errors.Errorf("need at least two files in %s, got %d", dir, len(data))
	}
	distMat, err := distanceMatrix(intelligence, data)
	if err != nil {
		return errors.Wrap(err, "")
	}
	log.Infof("[%s]", strings.Join(labels(data), ","))
	log.Infof("[%s]", strings.Join(formatDistances(distMat), ","))
	return nil
}

// labels returns the quoted file names without extension.
func labels(data []string) []string {
	names := make([]string, 0, len(data))
	for _, fpath := range data {
		name := filepath.Base(fpath)
		names = append(names, strconv.Quote(strings.TrimSuffix(name, filepath.Ext(name))))
	}
	return names
}

func formatDistances(distMat []float64) []string {
	dists := make([]string, 0, len(distMat))
	for _, d := range distMat {
		dists = append(dists, strconv.FormatFloat(d, 'f', -1, 64))
	}
	return dists
}

func distance(cacher map[string]float64, intelligence, x, y string) (float64, error) {
	xy, err := os.CreateTemp("", filepath.Base(x)+filepath.Base(y))
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	defer os.Remove(xy.Name())
	err = concatFiles(xy, x, y)
	if cerr := xy.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return -1, errors.Wrap(err, "")
	}

	kxy, err := complexity(cacher, intelligence, xy.Name())
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	kx, err := complexity(cacher, intelligence, x)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	ky, err := complexity(cacher, intelligence, y)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}

	return ncd(kx, ky, kxy), nil
}

// ncd is the normalized compression distance of x and y given the compressed sizes of x, y and their concatenation.
func ncd(kx, ky, kxy float64) float64 {
	return (kxy - math.Min(kx, ky)) / math.Max(kx, ky)
}

func complexity(cacher map[string]float64, intelligence, x string) (float64, error) {
	switch intelligence {
	case "ari":
		return complexityAri(cacher, x, nil)
	case "ari-mix":
		return complexityAri(cacher, x, &ari.Options{Mix: ari.DefaultMixOptions()})
	default:
		return complexityZstd(x)
	}
}

func complexityAri(cacher map[string]float64, fpath string, options *ari.Options) (float64, error) {
	size, ok := cacher[fpath]
	if ok {
		return size, nil
	}

	buf := bytes.NewBuffer(nil)
	if err := ari.Compress(buf, fpath, options); err != nil {
		return -1, errors.Wrap(err, "")
	}
	size = float64(buf.Len())

	cacher[fpath] = size
	return size, nil
}

func complexityZstd(fpath string) (float64, error) {
	b, err := os.ReadFile(fpath)
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	defer enc.Close()
	return float64(len(enc.EncodeAll(b, nil))), nil
}

// concatFiles appends the contents of every file to w.
func concatFiles(w io.Writer, fs ...string) error {
	for _, fpath := range fs {
		if err := appendFile(w, fpath); err != nil {
			return errors.Wrap(err, "")
		}
	}
	return nil
}

func appendFile(w io.Writer, fpath string) error {
	f, err := os.Open(fpath)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return errors.Wrapf(err, "%s", fpath)
	}
	return nil
}

func distanceMatrix(intelligence string, data []string) ([]float64, error) {
	cacher := make(map[string]float64)

	n := len(data)
	mat := make([]float64, 0, n*(n-1)/2)
	for i, dx := range data[:n-1] {
		for _, dy := range data[i+1:] {
			dist, err := distance(cacher, intelligence, dx, dy)
			if err != nil {
				return nil, errors.Wrap(err, "")
			}
			mat = append(mat, dist)
			log.WithFields(log.Fields{"x": dx, "y": dy}).Infof("distance %f", dist)
		}
	}
	return mat, nil
}

// listFiles returns the regular files in dir, sorted by name.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	data := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		data = append(data, filepath.Join(dir, e.Name()))
	}
	return data, nil
}
