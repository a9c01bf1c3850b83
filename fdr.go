package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/fasta"
	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/fdr"
	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/psmtable"
	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/query"
	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/report"
)

// Column names of Comet txt and Percolator tsv files
const (
	colCometScore     = "xcorr"
	colCometProtein   = "protein"
	colCometNum       = "num"
	colCometScan      = "scan"
	colCometCharge    = "charge"
	colCometRT        = "retention_time_sec"
	colCometMass      = "exp_neutral_mass"
	colPercScore      = "svm_score"
	colPercProtein    = "protein_id"
	colPercPsmID      = "psm_id"
	colSourceName     = "source_name"
	colFastaAcc       = "fasta_acc"
	colFastaDesc      = "fasta_desc"
	defaultFDRCutoff  = 0.01
	cometHeaderOffset = 1 // Comet writes a version line before the header
)

// Command line parameters of the fdr command
type fdrParams struct {
	cometTxt    *string
	percTsv     *string
	useNHits    *int
	fastaFile   *string
	decoyString *string
	fdr         *float64
	outAll      *string
	outNoDecoys *string
	outCutoff   *string
	verbosity   int
}

// psmDetails are the columns appended after the q-value columns
type psmDetails struct {
	ids             []string // scan, num and charge for Percolator input
	retentionTime   string
	expMassToCharge string
}

// fdrInput describes how to get scores, proteins and ranks from a table
type fdrInput struct {
	table      *psmtable.Table
	scoreIdx   int
	proteinIdx int
	rank       func(row []string) (int, error)
	idHeader   []string
	details    func(row []string) (psmDetails, error)
}

func readTableFile(path string, skipLines int) (*psmtable.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := psmtable.Read(f, skipLines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func cometInput(comet *psmtable.Table) (*fdrInput, error) {
	idx, err := comet.Indices(colCometScore, colCometProtein, colCometNum,
		colCometRT, colCometMass, colCometCharge)
	if err != nil {
		return nil, err
	}
	numIdx, rtIdx, massIdx, chargeIdx := idx[2], idx[3], idx[4], idx[5]
	return &fdrInput{
		table:      comet,
		scoreIdx:   idx[0],
		proteinIdx: idx[1],
		rank: func(row []string) (int, error) {
			return fdr.ParseRank(psmtable.Cell(row, numIdx))
		},
		details: func(row []string) (psmDetails, error) {
			mz, err := expMassToCharge(psmtable.Cell(row, massIdx), psmtable.Cell(row, chargeIdx))
			return psmDetails{
				retentionTime:   psmtable.Cell(row, rtIdx),
				expMassToCharge: mz,
			}, err
		},
	}, nil
}

func percolatorInput(perc, comet *psmtable.Table) (*fdrInput, error) {
	idx, err := perc.Indices(colPercScore, colPercProtein, colPercPsmID)
	if err != nil {
		return nil, err
	}
	psmIDIdx := idx[2]
	ci, err := newCometIndex(comet)
	if err != nil {
		return nil, err
	}
	return &fdrInput{
		table:      perc,
		scoreIdx:   idx[0],
		proteinIdx: idx[1],
		rank: func(row []string) (int, error) {
			id := psmtable.Cell(row, psmIDIdx)
			return fdr.ParseRank(id[strings.LastIndexByte(id, '_')+1:])
		},
		idHeader: []string{colCometScan, colCometNum, colCometCharge},
		details: func(row []string) (psmDetails, error) {
			var d psmDetails
			key, err := parsePsmID(psmtable.Cell(row, psmIDIdx))
			if err != nil {
				return d, err
			}
			d.ids = []string{strconv.Itoa(key.scan), strconv.Itoa(key.num), strconv.Itoa(key.charge)}
			cometRow, err := ci.lookup(key)
			if err != nil {
				return d, err
			}
			d.retentionTime = psmtable.Cell(cometRow, ci.rtIdx)
			d.expMassToCharge, err = expMassToCharge(psmtable.Cell(cometRow, ci.massIdx), strconv.Itoa(key.charge))
			return d, err
		},
	}, nil
}

// Key of a Comet PSM; num is 0 in the scan/charge fallback index
type cometKey struct {
	scan, charge, num int
}

// cometIndex finds Comet rows for Percolator PSMs
type cometIndex struct {
	rows         [][]string
	exact        map[cometKey]int
	byScanCharge map[cometKey]int
	rtIdx        int
	massIdx      int
}

func newCometIndex(comet *psmtable.Table) (*cometIndex, error) {
	idx, err := comet.Indices(colCometScan, colCometCharge, colCometNum, colCometRT, colCometMass)
	if err != nil {
		return nil, err
	}
	ci := &cometIndex{
		rows:         comet.Rows,
		exact:        make(map[cometKey]int, len(comet.Rows)),
		byScanCharge: make(map[cometKey]int),
		rtIdx:        idx[3],
		massIdx:      idx[4],
	}
	for i, row := range comet.Rows {
		var k cometKey
		var err1, err2, err3 error
		k.scan, err1 = strconv.Atoi(strings.TrimSpace(psmtable.Cell(row, idx[0])))
		k.charge, err2 = strconv.Atoi(strings.TrimSpace(psmtable.Cell(row, idx[1])))
		k.num, err3 = strconv.Atoi(strings.TrimSpace(psmtable.Cell(row, idx[2])))
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		if _, ok := ci.exact[k]; !ok {
			ci.exact[k] = i
		}
		k.num = 0
		if _, ok := ci.byScanCharge[k]; !ok {
			ci.byScanCharge[k] = i
		}
	}
	return ci, nil
}

// lookup returns the Comet row of key. Retention time and mass are the
// same for all hits of a spectrum, so any hit with the same scan and
// charge will do when the exact one is missing.
func (ci *cometIndex) lookup(key cometKey) ([]string, error) {
	if i, ok := ci.exact[key]; ok {
		return ci.rows[i], nil
	}
	key.num = 0
	if i, ok := ci.byScanCharge[key]; ok {
		return ci.rows[i], nil
	}
	return nil, fmt.Errorf("no Comet result for scan %d, charge %d", key.scan, key.charge)
}

// parsePsmID splits a Percolator PSM id "<name>_<scan>_<charge>_<num>"
func parsePsmID(id string) (cometKey, error) {
	var k cometKey
	parts := strings.Split(id, "_")
	if len(parts) < 3 {
		return k, fmt.Errorf("invalid psm_id %q", id)
	}
	parts = parts[len(parts)-3:]
	var err error
	if k.scan, err = strconv.Atoi(parts[0]); err != nil {
		return k, fmt.Errorf("invalid psm_id %q: %w", id, err)
	}
	if k.charge, err = strconv.Atoi(parts[1]); err != nil {
		return k, fmt.Errorf("invalid psm_id %q: %w", id, err)
	}
	if k.num, err = strconv.Atoi(parts[2]); err != nil {
		return k, fmt.Errorf("invalid psm_id %q: %w", id, err)
	}
	return k, nil
}

func expMassToCharge(mass, charge string) (string, error) {
	m, err := strconv.ParseFloat(strings.TrimSpace(mass), 64)
	if err != nil {
		return "", fmt.Errorf("invalid mass %q: %w", mass, err)
	}
	z, err := strconv.Atoi(strings.TrimSpace(charge))
	if err != nil || z < 1 {
		return "", fmt.Errorf("invalid charge %q", charge)
	}
	return formatFloat(query.MassToCharge(m, z)), nil
}

// matches converts the table rows to FDR matches. Rows with an invalid
// rank are skipped and counted.
func (in *fdrInput) matches() ([]fdr.Match, int, error) {
	matches := make([]fdr.Match, 0, len(in.table.Rows))
	skipped := 0
	for i, row := range in.table.Rows {
		rank, err := in.rank(row)
		if err != nil {
			skipped++
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(psmtable.Cell(row, in.scoreIdx)), 64)
		if err != nil {
			return nil, 0, fmt.Errorf("row %d: invalid score: %w", i+1, err)
		}
		matches = append(matches, fdr.Match{
			Score:    score,
			Rank:     rank,
			Proteins: psmtable.Cell(row, in.proteinIdx),
			Row:      row,
		})
	}
	return matches, skipped, nil
}

// loadDescriptions reads the FASTA descriptions of all accessions in
// annotated. Without FASTA file all descriptions are empty.
func loadDescriptions(path string, annotated []fdr.Annotated, decoyMarker string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	wanted := make(map[string]bool)
	for _, a := range annotated {
		for _, acc := range a.Accessions {
			wanted[acc] = true
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fasta.Descriptions(f, wanted, decoyMarker)
}

// qvalueHeader are the columns added by the estimation
var qvalueHeader = []string{"qvalue", "is_decoy", colFastaAcc}

func (in *fdrInput) outputHeader() []string {
	h := []string{colSourceName}
	h = append(h, in.table.Header...)
	h = append(h, qvalueHeader...)
	h = append(h, in.idHeader...)
	return append(h, colFastaDesc, "used_score", "retention_time", "exp_mass_to_charge")
}

func (in *fdrInput) outputRow(source string, a fdr.Annotated, desc map[string]string) ([]string, error) {
	d, err := in.details(a.Row)
	if err != nil {
		return nil, err
	}
	row := make([]string, 0, len(a.Row)+len(in.idHeader)+8)
	row = append(row, source)
	row = append(row, a.Row...)
	row = append(row, formatFloat(a.QValue), a.State.String(), joinAccessions(a.Accessions))
	row = append(row, d.ids...)
	return append(row,
		fasta.Describe(a.Accessions, desc),
		psmtable.Cell(a.Row, in.scoreIdx),
		d.retentionTime,
		d.expMassToCharge,
	), nil
}

func joinAccessions(acc []string) string {
	return strings.Join(acc, ",")
}

// writeAnnotated writes annotated to path, formatting each PSM with row
func writeAnnotated(path string, header []string, annotated []fdr.Annotated,
	row func(fdr.Annotated) ([]string, error)) error {
	if path == "" {
		return nil
	}
	rows := make([][]string, len(annotated))
	for i, a := range annotated {
		var err error
		if rows[i], err = row(a); err != nil {
			return err
		}
	}
	return writeFile(path, func(w io.Writer) error {
		return psmtable.Write(w, header, rows)
	})
}

func runFDR(args []string) error {
	fs := newFlagSet("fdr", "",
		`Estimate q-values of Comet results (or of Percolator results of a
  Comet search) with the target/decoy approach and write the annotated PSMs.`)
	var par fdrParams
	par.cometTxt = fs.String("comet_txt", "",
		"Comet txt output `filename` (always needed)")
	par.percTsv = fs.String("perc_tsv", "",
		"Percolator tsv output `filename`. If given, PSMs are taken from this file\n"+
			"and the Comet results supplement retention time and mass")
	par.useNHits = fs.Int("use_n_hits", 1,
		`use hits up to this rank for the q-value computation. Higher values
skew the FDR, since lower ranked hits may score better than best hits of
other spectra`)
	par.fastaFile = fs.String("fasta", "",
		"FASTA `filename` used for the search, to look up protein descriptions")
	par.decoyString = fs.String("decoy_string", fdr.DefaultDecoyMarker,
		"decoy `marker` used in the FASTA headers")
	par.fdr = fs.Float64("fdr", defaultFDRCutoff,
		"q-value `cutoff` for -out_fdr_cutoff_tsv")
	par.outAll = fs.String("out_all_tsv", "",
		"`filename` for all PSMs including decoys")
	par.outNoDecoys = fs.String("out_no_decoys_tsv", "",
		"`filename` for all PSMs except decoys")
	par.outCutoff = fs.String("out_fdr_cutoff_tsv", "",
		"`filename` for non-decoy PSMs with a q-value below the cutoff")
	verbosity := verbosityFlags(fs)
	fs.Parse(args)
	if err := requireFlags(fs, "comet_txt"); err != nil {
		fs.Usage()
		return err
	}
	if *par.useNHits < 1 {
		return fmt.Errorf("invalid value for -use_n_hits: %d", *par.useNHits)
	}
	par.verbosity = verbosity()
	p := progress{verbosity: par.verbosity}

	p.start("Reading Comet results from %s", *par.cometTxt)
	comet, err := readTableFile(*par.cometTxt, cometHeaderOffset)
	if err != nil {
		return err
	}
	p.done()

	var in *fdrInput
	if *par.percTsv == "" {
		in, err = cometInput(comet)
	} else {
		p.start("Reading Percolator results from %s", *par.percTsv)
		var perc *psmtable.Table
		perc, err = readTableFile(*par.percTsv, 0)
		if err == nil {
			in, err = percolatorInput(perc, comet)
		}
		p.done()
	}
	if err != nil {
		return err
	}

	matches, skipped, err := in.matches()
	if err != nil {
		return err
	}
	if skipped > 0 {
		log.Printf("Skipped %d PSMs with an invalid rank", skipped)
	}

	p.start("Estimating q-values of %d PSMs", len(matches))
	fdr.SortByScore(matches)
	annotated := fdr.Estimate(matches, *par.decoyString, fdr.ConsiderRank(*par.useNHits))
	p.done()

	p.start("Reading protein descriptions")
	desc, err := loadDescriptions(*par.fastaFile, annotated, *par.decoyString)
	if err != nil {
		return err
	}
	p.done()

	source := sourceName(*par.cometTxt)
	header := in.outputHeader()
	row := func(a fdr.Annotated) ([]string, error) {
		return in.outputRow(source, a, desc)
	}

	p.start("Writing results")
	if err := writeAnnotated(*par.outAll, header, annotated, row); err != nil {
		return err
	}
	if err := writeAnnotated(*par.outNoDecoys, header, fdr.NoDecoys(annotated), row); err != nil {
		return err
	}
	if err := writeAnnotated(*par.outCutoff, header, fdr.Filter(annotated, *par.fdr), row); err != nil {
		return err
	}
	p.done()

	p.info("%s\n", report.FDR(fdr.Summarize(annotated, *par.fdr), *par.fdr))
	return nil
}
