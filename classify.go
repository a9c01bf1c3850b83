package main

import (
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/fdr"
	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/protein"
	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/psmtable"
	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/report"
)

// Command line parameters of the classify command
type classifyParams struct {
	inputTsv            *string
	outSummary          *string
	outUnique           *string
	outShared           *string
	outFtUnique         *string
	outFtShared         *string
	accessionHeader     *string
	sameProteinAsUnique *bool
	removeVarMods       *bool
	verbosity           int
}

var summaryHeader = []string{colSourceName, "count_idents", "count_unique", "count_shared",
	"count_unique_with_features", "count_shared_with_only_features"}

// classification holds the classified best hits, per category and per source
type classification struct {
	rows    map[protein.Category][][]string
	sources []report.SourceCounts
	index   map[string]int
}

func newClassification() *classification {
	return &classification{
		rows:  make(map[protein.Category][][]string),
		index: make(map[string]int),
	}
}

func (c *classification) add(source string, cat protein.Category, row []string) {
	if cat == protein.Unclassified {
		return
	}
	c.rows[cat] = append(c.rows[cat], row)
	i, ok := c.index[source]
	if !ok {
		i = len(c.sources)
		c.index[source] = i
		c.sources = append(c.sources, report.SourceCounts{
			Source: source,
			Counts: make(map[protein.Category]int),
		})
	}
	c.sources[i].Counts[cat]++
}

func (c *classification) writeSummary(w io.Writer) error {
	rows := make([][]string, len(c.sources))
	for i, s := range c.sources {
		total := 0
		for _, n := range s.Counts {
			total += n
		}
		rows[i] = []string{
			s.Source,
			strconv.Itoa(total),
			strconv.Itoa(s.Counts[protein.Unique]),
			strconv.Itoa(s.Counts[protein.Shared]),
			strconv.Itoa(s.Counts[protein.FeatureUnique]),
			strconv.Itoa(s.Counts[protein.FeatureShared]),
		}
	}
	return psmtable.Write(w, summaryHeader, rows)
}

// classifyTable sorts the best hits of t into categories
func classifyTable(t *psmtable.Table, column string, cl protein.Classifier) (*classification, error) {
	idx, err := t.Indices(column, colSourceName, colCometNum)
	if err != nil {
		return nil, err
	}
	refIdx, sourceIdx, numIdx := idx[0], idx[1], idx[2]
	c := newClassification()
	skipped := 0
	for _, row := range t.Rows {
		rank, err := fdr.ParseRank(psmtable.Cell(row, numIdx))
		if err != nil {
			skipped++
			continue
		}
		if rank != 1 {
			continue
		}
		cat := protein.Bucket(cl.Classify(psmtable.Cell(row, refIdx)))
		c.add(psmtable.Cell(row, sourceIdx), cat, row)
	}
	if skipped > 0 {
		log.Printf("Skipped %d PSMs with an invalid rank", skipped)
	}
	return c, nil
}

func runClassify(args []string) error {
	fs := newFlagSet("classify", "",
		`Classify the best hit of each spectrum as unique or shared (optionally
  only explained by protein features) and count them per source file.`)
	var par classifyParams
	par.inputTsv = fs.String("input_ident_tsv", "",
		"identification `filename`, as written by the fdr command")
	par.outSummary = fs.String("out_summary", "",
		"`filename` for the summary table")
	par.outUnique = fs.String("out_unique", "",
		"`filename` for unique PSMs")
	par.outShared = fs.String("out_shared", "",
		"`filename` for shared PSMs")
	par.outFtUnique = fs.String("out_ft_unique", "",
		"`filename` for unique PSMs that can only be explained by features")
	par.outFtShared = fs.String("out_ft_shared", "",
		"`filename` for shared PSMs that can only be explained by features")
	par.accessionHeader = fs.String("accession_header", colFastaAcc,
		`column holding the protein information: "fasta_acc" for normal
searches, "fasta_desc" for protein graph FASTA headers`)
	par.sameProteinAsUnique = fs.Bool("same_protein_as_unique", true,
		`count a peptide shared across a single protein as unique`)
	par.removeVarMods = fs.Bool("remove_varmods", true,
		`ignore variable modifications in protein graph headers, so that
references which only differ in a modification count as one`)
	verbosity := verbosityFlags(fs)
	fs.Parse(args)
	if err := requireFlags(fs, "input_ident_tsv", "out_summary"); err != nil {
		fs.Usage()
		return err
	}
	par.verbosity = verbosity()
	p := progress{verbosity: par.verbosity}

	var kind protein.Kind
	switch *par.accessionHeader {
	case colFastaAcc:
		kind = protein.Accessions
	case colFastaDesc:
		kind = protein.GraphHeaders
	default:
		return fmt.Errorf("invalid value for -accession_header: %q", *par.accessionHeader)
	}
	opts := protein.DefaultOptions()
	opts.SameProteinAsUnique = *par.sameProteinAsUnique
	opts.RemoveVariableMods = *par.removeVarMods

	p.start("Reading identifications from %s", *par.inputTsv)
	t, err := readTableFile(*par.inputTsv, 0)
	if err != nil {
		return err
	}
	p.done()

	p.start("Classifying %d PSMs", len(t.Rows))
	c, err := classifyTable(t, *par.accessionHeader, protein.New(kind, opts))
	if err != nil {
		return err
	}
	p.done()

	if err := writeFile(*par.outSummary, c.writeSummary); err != nil {
		return err
	}
	outputs := []struct {
		cat  protein.Category
		path string
	}{
		{protein.Unique, *par.outUnique},
		{protein.Shared, *par.outShared},
		{protein.FeatureUnique, *par.outFtUnique},
		{protein.FeatureShared, *par.outFtShared},
	}
	for _, o := range outputs {
		rows := c.rows[o.cat]
		if o.path == "" || len(rows) == 0 {
			continue
		}
		err := writeFile(o.path, func(w io.Writer) error {
			return psmtable.Write(w, t.Header, rows)
		})
		if err != nil {
			return err
		}
	}

	p.info("%s\n", report.Classification(c.sources))
	return nil
}
