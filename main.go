// Copyright 2023 ProGFASTAGen authors.
// SPDX-License-Identifier: MIT

// progfastagen holds the post-search tools of the ProGFASTAGen workflow:
// query generation from spectrum files, target/decoy FDR estimation and
// the classification and export of identified PSMs.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Program name and version
const progName = "progfastagen"

var progVersion = `Unknown`

const (
	infoDefault = iota
	infoSilent
	infoVerbose
)

type command struct {
	name string
	run  func(args []string) error
	help string
}

var commands = []command{
	{"queries", runQueries, "generate precursor mass queries from MGF/mzML files"},
	{"optimize", runOptimize, "merge overlapping queries of a query CSV file"},
	{"fdr", runFDR, "estimate q-values of Comet (or Percolator) results"},
	{"mzid", runMzid, "estimate q-values of an mzIdentML file"},
	{"percolator", runPercolator, "convert Percolator XML output to TSV"},
	{"classify", runClassify, "count and separate unique/shared PSMs"},
	{"heatmap", runHeatmap, "export a peptide x source file PSM count matrix"},
}

func usage() {
	exeName := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr,
		`USAGE:
  %s <command> [options] [files]

COMMANDS:
`, exeName)
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-11s %s\n", c.name, c.help)
	}
	fmt.Fprintf(os.Stderr, `
Type %s <command> -help for the options of a command.
Type %s -version to show the software version.
`, exeName, exeName)
}

func printVersion() {
	if progVersion == `Unknown` {
		progVersion = `Unknown
Please build this program with -ldflags "-X main.progVersion=<version>" so that the version is shown here.`
	}
	fmt.Fprintf(os.Stderr, "%s version %s\n", progName, progVersion)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "help", "-help", "--help", "-h":
		usage()
		return
	case "version", "-version", "--version":
		printVersion()
		return
	}
	for _, c := range commands {
		if c.name == os.Args[1] {
			if err := c.run(os.Args[2:]); err != nil {
				log.Fatalf("%s: %v", c.name, err)
			}
			return
		}
	}
	fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
	usage()
	os.Exit(2)
}
