package main

import (
	"io"

	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/heatmap"
)

// Command line parameters of the heatmap command
type heatmapParams struct {
	inTsv     *string
	outTsv    *string
	verbosity int
}

func runHeatmap(args []string) error {
	fs := newFlagSet("heatmap", "",
		`Count the PSMs of each peptide per source file. The input needs the
  columns "source_name", "plain_peptide" and "fasta_desc".`)
	var par heatmapParams
	par.inTsv = fs.String("in_psm_tsv", "",
		"PSM table `filename`")
	par.outTsv = fs.String("out_tsv", "",
		"`filename` for the peptide x source file matrix")
	verbosity := verbosityFlags(fs)
	fs.Parse(args)
	if err := requireFlags(fs, "in_psm_tsv", "out_tsv"); err != nil {
		fs.Usage()
		return err
	}
	par.verbosity = verbosity()
	p := progress{verbosity: par.verbosity}

	t, err := readTableFile(*par.inTsv, 0)
	if err != nil {
		return err
	}
	m, err := heatmap.Build(t)
	if err != nil {
		return err
	}
	p.info("Peptides: %d Source files: %d\n", len(m.Peptides), len(m.Sources))
	return writeFile(*par.outTsv, func(w io.Writer) error {
		return m.Write(w)
	})
}
