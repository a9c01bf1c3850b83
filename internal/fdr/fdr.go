// Package fdr estimates q-values for a ranked list of peptide spectrum
// matches using the target/decoy approach.
package fdr

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// DefaultDecoyMarker is the prefix of decoy protein headers
const DefaultDecoyMarker = "DECOY_"

// DecoyState tells whether a PSM was counted as target or decoy
type DecoyState int8

const (
	NotConsidered DecoyState = iota // PSM did not take part in the tally
	Target
	Decoy
)

func (s DecoyState) String() string {
	switch s {
	case Target:
		return "False"
	case Decoy:
		return "True"
	}
	return ""
}

// Match is a single PSM as loaded from search engine output
type Match struct {
	Score    float64  // Higher is better
	Rank     int      // 1 is the best hit for its spectrum
	Proteins string   // Raw protein column, e.g. "sp|P68871|HBB_HUMAN,DECOY_sp|..."
	Row      []string // Original table row, carried along for output
	// Refs, if not nil, are the already resolved protein references and
	// take precedence over parsing Proteins
	Refs []ProteinRef
}

// Annotated is a Match with its estimated q-value
type Annotated struct {
	Match
	QValue     float64
	State      DecoyState
	Accessions []string
}

var (
	// ErrInconsistentRank means a rank token is not a positive integer
	ErrInconsistentRank = errors.New("fdr: rank is not a positive integer")
)

// ParseRank parses the rank ("num") of a PSM
func ParseRank(token string) (int, error) {
	rank, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil || rank < 1 {
		return 0, ErrInconsistentRank
	}
	return rank, nil
}

// ConsiderRank returns a predicate that accepts PSMs with rank <= maxRank
// for the target/decoy tally (the use_n_hits option).
func ConsiderRank(maxRank int) func(Match) bool {
	return func(m Match) bool {
		return m.Rank < maxRank+1
	}
}

// Estimate computes q-values for matches, which must be sorted by score,
// best first. Only matches accepted by consider change the decoy/target
// tally; the others get the q-value of the closest better considered match.
// The result has the same length and order as matches.
func Estimate(matches []Match, decoyMarker string, consider func(Match) bool) []Annotated {
	annotated := make([]Annotated, len(matches))

	var decoys, targets int
	// Matches before the first considered match have no tally yet,
	// the monotonicity pass below resolves them
	qValue := math.Inf(1)
	for i, m := range matches {
		refs := m.Refs
		if refs == nil {
			refs = ParseProteinRefs(m.Proteins, decoyMarker)
		}
		a := Annotated{
			Match:      m,
			Accessions: Accessions(refs),
		}
		if consider(m) {
			if AllDecoy(refs) {
				decoys++
				a.State = Decoy
			} else {
				targets++
				a.State = Target
			}
			qValue = float64(decoys) / float64(decoys+targets)
		}
		a.QValue = qValue
		annotated[i] = a
	}

	// A q-value is the lowest FDR at which a match is accepted, so walk
	// from the worst match to the best keeping the running minimum
	minQ := math.Inf(1)
	for i := len(annotated) - 1; i >= 0; i-- {
		if annotated[i].QValue > minQ {
			annotated[i].QValue = minQ
		} else {
			minQ = annotated[i].QValue
		}
	}
	// Nothing was considered at all
	if math.IsInf(minQ, 1) {
		for i := range annotated {
			annotated[i].QValue = 1
		}
	}
	return annotated
}

// Passes reports whether a PSM survives an FDR cut-off: it must not be
// a decoy and its q-value must be below threshold.
func Passes(a Annotated, threshold float64) bool {
	return a.State != Decoy && a.QValue < threshold
}

// Filter returns the PSMs that pass the FDR cut-off, in order
func Filter(annotated []Annotated, threshold float64) []Annotated {
	var passed []Annotated
	for _, a := range annotated {
		if Passes(a, threshold) {
			passed = append(passed, a)
		}
	}
	return passed
}

// NoDecoys returns all PSMs not flagged as decoy, in order
func NoDecoys(annotated []Annotated) []Annotated {
	var kept []Annotated
	for _, a := range annotated {
		if a.State != Decoy {
			kept = append(kept, a)
		}
	}
	return kept
}
