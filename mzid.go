package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/fdr"
	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/mzidentml"
	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/psmtable"
	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/report"
)

// Command line parameters of the mzid command
type mzidParams struct {
	mzIdentMlFilename *string
	score             *string
	useNHits          *int
	decoyString       *string
	fdr               *float64
	outTsv            *string
	verbosity         int
}

func readMzIdentMLFile(path string) (mzidentml.MzIdentML, error) {
	f, err := os.Open(path)
	if err != nil {
		return mzidentml.MzIdentML{}, err
	}
	defer f.Close()
	m, err := mzidentml.Read(f)
	if err != nil {
		return m, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func runMzid(args []string) error {
	fs := newFlagSet("mzid", "<mzIdentML file>",
		`Estimate q-values of the identifications in an mzIdentML file and
  write all PSMs with their q-value and decoy state.`)
	var par mzidParams
	par.score = fs.String("score", mzidentml.DefaultScore,
		"CV accession or name of the `score` to rank PSMs by (higher is better)")
	par.useNHits = fs.Int("use_n_hits", 1,
		"use hits up to this rank for the q-value computation")
	par.decoyString = fs.String("decoy_string", fdr.DefaultDecoyMarker,
		"decoy `marker` of the protein accessions")
	par.fdr = fs.Float64("fdr", defaultFDRCutoff,
		"q-value `cutoff` for the summary")
	par.outTsv = fs.String("out_tsv", "",
		"`filename` for the annotated PSMs")
	verbosity := verbosityFlags(fs)
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("%w: mzIdentML file", ErrMissingParam)
	}
	mzid := fs.Arg(0)
	par.mzIdentMlFilename = &mzid
	if err := requireFlags(fs, "out_tsv"); err != nil {
		fs.Usage()
		return err
	}
	if *par.useNHits < 1 {
		return fmt.Errorf("invalid value for -use_n_hits: %d", *par.useNHits)
	}
	par.verbosity = verbosity()
	p := progress{verbosity: par.verbosity}

	p.start("Reading identifications from %s", *par.mzIdentMlFilename)
	m, err := readMzIdentMLFile(*par.mzIdentMlFilename)
	if err != nil {
		return err
	}
	p.done()

	matches, err := m.Matches(*par.score, *par.decoyString)
	if err != nil {
		return err
	}
	fdr.SortByScore(matches)
	annotated := fdr.Estimate(matches, *par.decoyString, fdr.ConsiderRank(*par.useNHits))

	source := sourceName(*par.mzIdentMlFilename)
	header := append([]string{colSourceName}, mzidentml.Columns...)
	header = append(header, qvalueHeader...)
	rows := make([][]string, len(annotated))
	for i, a := range annotated {
		row := append([]string{source}, a.Row...)
		rows[i] = append(row, formatFloat(a.QValue), a.State.String(), joinAccessions(a.Accessions))
	}
	err = writeFile(*par.outTsv, func(w io.Writer) error {
		return psmtable.Write(w, header, rows)
	})
	if err != nil {
		return err
	}
	p.info("%s\n", report.FDR(fdr.Summarize(annotated, *par.fdr), *par.fdr))
	return nil
}
