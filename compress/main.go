package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fumin/ari"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
)

var mix = flag.Bool("mix", false, "code with a blend of a slow and a fast adapting model")
var verbose = flag.Bool("verbose", false, "verbosity")
var cpuprofile = flag.String("cpuprofile", "", "write a CPU profile to this directory")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] filename\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	name := flag.Arg(0)
	if name == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *cpuprofile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuprofile), profile.Quiet).Stop()
	}

	options := &ari.Options{}
	if *mix {
		options.Mix = ari.DefaultMixOptions()
	}
	if err := ari.Compress(os.Stdout, name, options); err != nil {
		log.Fatalf("%+v", err)
	}
}
