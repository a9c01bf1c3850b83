// Package heatmap builds a peptide by source file matrix of PSM counts
package heatmap

import (
	"errors"
	"io"
	"sort"
	"strconv"

	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/psmtable"
	"github.com/willf/bitset"
)

// Column names read from the PSM table
const (
	PeptideColumn     = "plain_peptide"
	SourceColumn      = "source_name"
	DescriptionColumn = "fasta_desc"
)

// ErrNoSources is returned when a matrix is built from a table without rows
var ErrNoSources = errors.New("no PSMs to build a heatmap from")

// Peptide is one row of the matrix
type Peptide struct {
	Sequence    string
	Description string
	PSMs        int
	Counts      []int // per source, index as in Matrix.Sources
	present     *bitset.BitSet
}

// SourceFiles returns the number of sources the peptide was identified in
func (p *Peptide) SourceFiles() int {
	return int(p.present.Count())
}

// Matrix holds PSM counts per peptide and source, peptides sorted by
// descending PSM count
type Matrix struct {
	Sources  []string
	Peptides []*Peptide
}

// Build groups the rows of t by peptide and counts PSMs per source
func Build(t *psmtable.Table) (*Matrix, error) {
	idx, err := t.Indices(PeptideColumn, SourceColumn)
	if err != nil {
		return nil, err
	}
	pepIdx, srcIdx := idx[0], idx[1]
	descIdx, err := t.Index(DescriptionColumn)
	if err != nil {
		descIdx = -1
	}
	if len(t.Rows) == 0 {
		return nil, ErrNoSources
	}

	sourceSet := make(map[string]bool)
	for _, row := range t.Rows {
		sourceSet[psmtable.Cell(row, srcIdx)] = true
	}
	m := &Matrix{}
	for s := range sourceSet {
		m.Sources = append(m.Sources, s)
	}
	sort.Strings(m.Sources)
	sourceIndex := make(map[string]int, len(m.Sources))
	for i, s := range m.Sources {
		sourceIndex[s] = i
	}

	byPeptide := make(map[string]*Peptide)
	for _, row := range t.Rows {
		seq := psmtable.Cell(row, pepIdx)
		p, ok := byPeptide[seq]
		if !ok {
			p = &Peptide{
				Sequence: seq,
				Counts:   make([]int, len(m.Sources)),
				present:  bitset.New(uint(len(m.Sources))),
			}
			if descIdx >= 0 {
				p.Description = psmtable.Cell(row, descIdx)
			}
			byPeptide[seq] = p
			m.Peptides = append(m.Peptides, p)
		}
		s := sourceIndex[psmtable.Cell(row, srcIdx)]
		p.PSMs++
		p.Counts[s]++
		p.present.Set(uint(s))
	}
	sort.SliceStable(m.Peptides, func(i, j int) bool {
		return m.Peptides[i].PSMs > m.Peptides[j].PSMs
	})
	return m, nil
}

// Write writes m as a tab separated table
func (m *Matrix) Write(w io.Writer) error {
	header := append([]string{"#PSMs", "#Source_files", PeptideColumn, DescriptionColumn}, m.Sources...)
	rows := make([][]string, len(m.Peptides))
	for i, p := range m.Peptides {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(p.PSMs), strconv.Itoa(p.SourceFiles()), p.Sequence, p.Description)
		for _, c := range p.Counts {
			row = append(row, strconv.Itoa(c))
		}
		rows[i] = row
	}
	return psmtable.Write(w, header, rows)
}
