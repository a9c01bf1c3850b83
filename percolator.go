package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/percolator"
	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/psmtable"
)

// Command line parameters of the percolator command
type percolatorParams struct {
	poutXML   *string
	outTsv    *string
	verbosity int
}

func readPercolatorFile(path string) ([]percolator.PSM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	psms, err := percolator.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return psms, nil
}

func runPercolator(args []string) error {
	fs := newFlagSet("percolator", "",
		`Convert the PSMs of a Percolator XML output file to a tab separated
  table, which can be used as -perc_tsv of the fdr command.`)
	var par percolatorParams
	par.poutXML = fs.String("pout_xml", "",
		"Percolator XML `filename`")
	par.outTsv = fs.String("out_tsv", "",
		"`filename` for the PSM table")
	verbosity := verbosityFlags(fs)
	fs.Parse(args)
	if err := requireFlags(fs, "pout_xml", "out_tsv"); err != nil {
		fs.Usage()
		return err
	}
	par.verbosity = verbosity()
	p := progress{verbosity: par.verbosity}

	p.start("Reading Percolator results from %s", *par.poutXML)
	psms, err := readPercolatorFile(*par.poutXML)
	if err != nil {
		return err
	}
	p.done()
	p.info("PSMs: %d\n", len(psms))

	header, rows := percolator.Rows(psms)
	return writeFile(*par.outTsv, func(w io.Writer) error {
		return psmtable.Write(w, header, rows)
	})
}
