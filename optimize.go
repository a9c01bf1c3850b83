package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/query"
)

// Command line parameters of the optimize command
type optimizeParams struct {
	inCsv     *string
	outCsv    *string
	verbosity int
}

func readQueryFile(path string) ([]query.Interval, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	q, err := query.ReadQueries(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return q, nil
}

func runOptimize(args []string) error {
	fs := newFlagSet("optimize", "",
		`Merge overlapping queries, so that they can be looked up in protein
  graphs at once. Merged queries can be wider than the original tolerance.`)
	var par optimizeParams
	par.inCsv = fs.String("in_query_csv", "",
		"query `filename` to optimize")
	par.outCsv = fs.String("out_query_csv", "",
		"`filename` for the merged queries")
	verbosity := verbosityFlags(fs)
	fs.Parse(args)
	if err := requireFlags(fs, "in_query_csv", "out_query_csv"); err != nil {
		fs.Usage()
		return err
	}
	par.verbosity = verbosity()
	p := progress{verbosity: par.verbosity}

	queries, err := readQueryFile(*par.inCsv)
	if err != nil {
		return err
	}
	merged, reduction, err := query.Merge(queries)
	if err != nil {
		return err
	}
	p.info("%s\n", reduction)
	return writeFile(*par.outCsv, func(w io.Writer) error {
		return query.WriteQueries(w, merged)
	})
}
