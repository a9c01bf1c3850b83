package main

import (
	"fmt"
	"io"
	"math"

	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/query"
)

const defaultMaxMassDa = 4500

// Command line parameters of the queries command
type queriesParams struct {
	ppm       *float64
	massRange *string
	minMass   float64
	maxMass   float64
	charge    *string
	rt        *string
	sel       query.Selection
	outCsv    *string
	verbosity int
	args      []string // spectrum files
}

func runQueries(args []string) error {
	fs := newFlagSet("queries", "<spectrum files>",
		`Generate the precursor mass queries for protein graphs from the MS2
  spectra of MGF and mzML files. Each query is a "low,high" mass window in Da.`)
	var par queriesParams
	par.ppm = fs.Float64("ppm", 5,
		"precursor mass tolerance (`ppm`), as used by the search engine")
	par.massRange = fs.String("mass", fmt.Sprintf("0:%d", defaultMaxMassDa),
		"`range` of masses (Da) for which queries are generated")
	par.charge = fs.String("charge", "1:",
		"`range` of precursor charges for which queries are generated")
	par.rt = fs.String("rt", "",
		"`range` of retention times (s); spectra without retention time are always used")
	par.outCsv = fs.String("out_csv", "",
		"`filename` for the queries, sorted from lowest to highest")
	verbosity := verbosityFlags(fs)
	fs.Parse(args)
	par.args = fs.Args()
	if len(par.args) == 0 {
		fs.Usage()
		return fmt.Errorf("%w: spectrum file", ErrMissingParam)
	}
	if err := requireFlags(fs, "out_csv"); err != nil {
		fs.Usage()
		return err
	}
	var err error
	par.minMass, par.maxMass, err = parseFloat64Range(*par.massRange, 0, math.MaxFloat64)
	if err != nil {
		return fmt.Errorf("-mass %q: %w", *par.massRange, err)
	}
	par.sel.MinCharge, par.sel.MaxCharge, err = parseIntRange(*par.charge, 1, math.MaxInt32)
	if err != nil {
		return fmt.Errorf("-charge %q: %w", *par.charge, err)
	}
	par.sel.MinRT, par.sel.MaxRT, err = parseFloat64Range(*par.rt, -math.MaxFloat64, math.MaxFloat64)
	if err != nil {
		return fmt.Errorf("-rt %q: %w", *par.rt, err)
	}
	if *par.ppm < 0 {
		return fmt.Errorf("invalid value for -ppm: %g", *par.ppm)
	}
	par.verbosity = verbosity()
	p := progress{verbosity: par.verbosity}

	p.start("Reading %d spectrum files", len(par.args))
	precursors, err := query.LoadAllPrecursors(par.args)
	if err != nil {
		return err
	}
	p.done()

	selected := query.Select(precursors, par.sel)
	windows := query.Windows(selected, *par.ppm, par.minMass, par.maxMass)
	mean, max := query.WidthStats(windows)
	p.info("Precursors: %d Selected: %d Queries: %d (mean width %.4f Da, max %.4f Da)\n",
		len(precursors), len(selected), len(windows), mean, max)

	return writeFile(*par.outCsv, func(w io.Writer) error {
		return query.WriteQueries(w, windows)
	})
}
