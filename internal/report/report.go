// Package report renders run summaries as styled terminal tables
package report

import (
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/fdr"
	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/protein"
)

// SourceCounts holds the number of rank 1 identifications per category
// for one source file
type SourceCounts struct {
	Source string
	Counts map[protein.Category]int
}

var classificationColumns = []protein.Category{
	protein.Unique,
	protein.Shared,
	protein.FeatureUnique,
	protein.FeatureShared,
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers(headers...)
}

// Classification renders identification counts per source file and category
func Classification(sources []SourceCounts) string {
	headers := []string{"source"}
	for _, c := range classificationColumns {
		headers = append(headers, c.String())
	}
	t := newTable(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			}
			return numberStyle
		})
	for _, s := range sources {
		row := []string{s.Source}
		for _, c := range classificationColumns {
			row = append(row, strconv.Itoa(s.Counts[c]))
		}
		t.Row(row...)
	}
	return titleStyle.Render("Protein classification") + "\n" + t.Render()
}

// FDR renders an FDR summary for a q-value threshold
func FDR(s fdr.Summary, threshold float64) string {
	t := newTable("", "targets", "decoys").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return targetStyle
			case col == 2:
				return decoyStyle
			}
			return cellStyle
		}).
		Row("PSMs", strconv.Itoa(s.Targets), strconv.Itoa(s.Decoys)).
		Row("mean score", formatScore(s.MeanTargetScore), formatScore(s.MeanDecoyScore))

	title := titleStyle.Render("FDR estimation")
	lines := []string{
		title,
		t.Render(),
		"PSMs: " + strconv.Itoa(s.PSMs) + ", not considered: " + strconv.Itoa(s.NotConsidered),
		"accepted at q < " + strconv.FormatFloat(threshold, 'g', -1, 64) + ": " + strconv.Itoa(s.Accepted),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func formatScore(x float64) string {
	if math.IsNaN(x) {
		return "-"
	}
	return strconv.FormatFloat(x, 'f', 4, 64)
}
