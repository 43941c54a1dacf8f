package main

import (
	"flag"
	"os"

	"github.com/fumin/ari"
	log "github.com/sirupsen/logrus"
)

var mix = flag.Bool("mix", false, "the stream was coded with -mix")
var verbose = flag.Bool("verbose", false, "verbosity")

func main() {
	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	options := &ari.Options{}
	if *mix {
		options.Mix = ari.DefaultMixOptions()
	}
	if err := ari.Decompress(os.Stdout, os.Stdin, options); err != nil {
		log.Fatalf("%+v", err)
	}
}
