package fdr

import (
	"gonum.org/v1/gonum/stat"
)

// Summary holds the outcome of a q-value estimation
type Summary struct {
	PSMs            int
	Targets         int
	Decoys          int
	NotConsidered   int
	Accepted        int     // Target PSMs below the FDR threshold
	MeanTargetScore float64 // NaN if there are no targets
	MeanDecoyScore  float64 // NaN if there are no decoys
}

// Summarize counts targets and decoys and the PSMs accepted at threshold
func Summarize(annotated []Annotated, threshold float64) Summary {
	var s Summary
	var targetScores, decoyScores []float64
	s.PSMs = len(annotated)
	for _, a := range annotated {
		switch a.State {
		case Target:
			s.Targets++
			targetScores = append(targetScores, a.Score)
		case Decoy:
			s.Decoys++
			decoyScores = append(decoyScores, a.Score)
		default:
			s.NotConsidered++
		}
		if Passes(a, threshold) {
			s.Accepted++
		}
	}
	s.MeanTargetScore = stat.Mean(targetScores, nil)
	s.MeanDecoyScore = stat.Mean(decoyScores, nil)
	return s
}
