package fdr

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const target = "sp|P68871|HBB_HUMAN"
const decoy = "DECOY_sp|P68871|HBB_HUMAN"

func matchesFor(scores []float64, isDecoy []bool) []Match {
	m := make([]Match, len(scores))
	for i := range scores {
		m[i].Score = scores[i]
		m[i].Rank = 1
		m[i].Proteins = target
		if isDecoy[i] {
			m[i].Proteins = decoy
		}
	}
	return m
}

func qValues(a []Annotated) []float64 {
	q := make([]float64, len(a))
	for i := range a {
		q[i] = a[i].QValue
	}
	return q
}

func TestEstimateSmoothing(t *testing.T) {
	m := matchesFor([]float64{10, 9, 8, 7}, []bool{false, true, false, false})
	a := Estimate(m, DefaultDecoyMarker, ConsiderRank(1))

	// Raw ratios are 0, 1/2, 1/3, 1/4; the running minimum from the
	// bottom pulls the second entry down to 1/4
	want := []float64{0, 0.25, 0.25, 0.25}
	if diff := cmp.Diff(want, qValues(a), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("q-values mismatch (-want +got):\n%s", diff)
	}
	states := []DecoyState{Target, Decoy, Target, Target}
	for i, s := range states {
		if a[i].State != s {
			t.Errorf("PSM %d: state %v, expected %v", i, a[i].State, s)
		}
	}
}

func TestEstimateMonotone(t *testing.T) {
	isDecoy := []bool{false, false, true, false, true, true, false, false, true, false, true, false}
	scores := make([]float64, len(isDecoy))
	for i := range scores {
		scores[i] = float64(100 - i)
	}
	a := Estimate(matchesFor(scores, isDecoy), DefaultDecoyMarker, ConsiderRank(1))
	for i := 1; i < len(a); i++ {
		if a[i].QValue < a[i-1].QValue {
			t.Errorf("q-value decreases at %d: %f < %f", i, a[i].QValue, a[i-1].QValue)
		}
	}
	// The last q-value is the total decoy fraction
	last := a[len(a)-1].QValue
	if math.Abs(last-5.0/12.0) > 1e-12 {
		t.Errorf("last q-value %f, expected %f", last, 5.0/12.0)
	}
}

func TestEstimateDecoyRule(t *testing.T) {
	tests := []struct {
		name     string
		proteins string
		want     DecoyState
	}{
		{"all target", "sp|P1|A_HUMAN,tr|Q2|B_HUMAN", Target},
		{"all decoy", "DECOY_sp|P1|A_HUMAN,DECOY_tr|Q2|B_HUMAN", Decoy},
		{"mixed", "DECOY_sp|P1|A_HUMAN,sp|Q2|B_HUMAN", Target},
		{"mixed, decoy last", "sp|Q2|B_HUMAN,DECOY_sp|P1|A_HUMAN", Target},
		// Unparsable protein text is an empty reference set, which is
		// all-decoy by vacuous truth
		{"malformed", "no accession here", Decoy},
		{"empty", "", Decoy},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := Estimate([]Match{{Score: 1, Rank: 1, Proteins: tc.proteins}},
				DefaultDecoyMarker, ConsiderRank(1))
			if a[0].State != tc.want {
				t.Errorf("state %v, expected %v", a[0].State, tc.want)
			}
		})
	}
}

func TestEstimateResolvedRefs(t *testing.T) {
	// Resolved references win over the protein text, which does not
	// have to follow the FASTA header form then
	m := []Match{
		{Score: 2, Rank: 1, Proteins: "NP_000509.1",
			Refs: []ProteinRef{{Header: "lcl", Accession: "NP_000509.1"}}},
		{Score: 1, Rank: 1, Proteins: "sp|P1|A_HUMAN",
			Refs: []ProteinRef{{Header: "DECOY_lcl", Accession: "Q12345", Decoy: true}}},
	}
	a := Estimate(m, DefaultDecoyMarker, ConsiderRank(1))
	if a[0].State != Target || a[1].State != Decoy {
		t.Errorf("states are %v, %v, expected %v, %v", a[0].State, a[1].State, Target, Decoy)
	}
	if diff := cmp.Diff([]string{"NP_000509.1"}, a[0].Accessions); diff != "" {
		t.Errorf("accessions mismatch (-want +got):\n%s", diff)
	}
}

func TestDecoyStateString(t *testing.T) {
	for s, want := range map[DecoyState]string{Target: "False", Decoy: "True", NotConsidered: ""} {
		if got := s.String(); got != want {
			t.Errorf("DecoyState(%d).String() is %q, expected %q", s, got, want)
		}
	}
}

func TestEstimateNotConsidered(t *testing.T) {
	m := []Match{
		{Score: 10, Rank: 2, Proteins: decoy}, // leading, not considered
		{Score: 9, Rank: 1, Proteins: target},
		{Score: 8, Rank: 2, Proteins: decoy},
		{Score: 7, Rank: 1, Proteins: decoy},
		{Score: 6, Rank: 1, Proteins: target},
	}
	a := Estimate(m, DefaultDecoyMarker, ConsiderRank(1))
	want := []float64{0, 0, 0, 1.0 / 3.0, 1.0 / 3.0}
	if diff := cmp.Diff(want, qValues(a), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("q-values mismatch (-want +got):\n%s", diff)
	}
	if a[0].State != NotConsidered || a[2].State != NotConsidered {
		t.Errorf("rank 2 PSMs must not be considered: %v %v", a[0].State, a[2].State)
	}

	// With use_n_hits=2 all PSMs count
	a = Estimate(m, DefaultDecoyMarker, ConsiderRank(2))
	// Raw ratios 1, 1/2, 2/3, 3/4, 3/5
	want = []float64{0.5, 0.5, 0.6, 0.6, 0.6}
	if diff := cmp.Diff(want, qValues(a), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("q-values with rank 2 mismatch (-want +got):\n%s", diff)
	}
}

func TestEstimateNothingConsidered(t *testing.T) {
	m := []Match{{Score: 2, Rank: 3, Proteins: target}, {Score: 1, Rank: 3, Proteins: decoy}}
	a := Estimate(m, DefaultDecoyMarker, ConsiderRank(1))
	for i := range a {
		if a[i].QValue != 1 || a[i].State != NotConsidered {
			t.Errorf("PSM %d: q-value %f state %v", i, a[i].QValue, a[i].State)
		}
	}
}

func TestEstimateEmpty(t *testing.T) {
	a := Estimate(nil, DefaultDecoyMarker, ConsiderRank(1))
	if a == nil || len(a) != 0 {
		t.Errorf("expected empty result, got %v", a)
	}
}

func TestEstimateIndependentRuns(t *testing.T) {
	m := matchesFor([]float64{3, 2, 1}, []bool{true, false, false})
	first := Estimate(m, DefaultDecoyMarker, ConsiderRank(1))
	second := Estimate(m, DefaultDecoyMarker, ConsiderRank(1))
	if diff := cmp.Diff(qValues(first), qValues(second)); diff != "" {
		t.Errorf("repeated estimation differs (-first +second):\n%s", diff)
	}
}

func TestFilter(t *testing.T) {
	m := matchesFor([]float64{10, 9, 8, 7}, []bool{false, true, false, false})
	a := Estimate(m, DefaultDecoyMarker, ConsiderRank(1))
	passed := Filter(a, 0.05)
	if len(passed) != 1 || passed[0].Score != 10 {
		t.Errorf("expected only the best PSM to pass, got %+v", passed)
	}
	if n := len(NoDecoys(a)); n != 3 {
		t.Errorf("NoDecoys kept %d PSMs, expected 3", n)
	}
	if n := len(Filter(a, 1)); n != 3 {
		t.Errorf("Filter(1) kept %d PSMs, expected 3", n)
	}
}

func TestParseRank(t *testing.T) {
	for _, s := range []string{"0", "-1", "1.5", "x", ""} {
		if _, err := ParseRank(s); !errors.Is(err, ErrInconsistentRank) {
			t.Errorf("ParseRank(%q): error %v, expected ErrInconsistentRank", s, err)
		}
	}
	r, err := ParseRank(" 3 ")
	if err != nil || r != 3 {
		t.Errorf("ParseRank: %d, %v", r, err)
	}
}

func TestParseProteinRefs(t *testing.T) {
	refs := ParseProteinRefs("sp|P68871|HBB_HUMAN,DECOY_tr|A0A024R161|X_HUMAN,pg|ID_1|P1(1:10)", DefaultDecoyMarker)
	want := []ProteinRef{
		{Header: "sp", Accession: "P68871"},
		{Header: "DECOY_tr", Accession: "A0A024R161", Decoy: true},
		{Header: "pg", Accession: "ID_1"},
	}
	if diff := cmp.Diff(want, refs); diff != "" {
		t.Errorf("ParseProteinRefs mismatch (-want +got):\n%s", diff)
	}
	if refs := ParseProteinRefs("garbage", DefaultDecoyMarker); len(refs) != 0 {
		t.Errorf("expected no references, got %v", refs)
	}
}

func TestSortByScore(t *testing.T) {
	m := []Match{
		{Score: 1, Proteins: "a"},
		{Score: 5, Proteins: "b"},
		{Score: 3, Proteins: "c"},
		{Score: 5, Proteins: "d"},
	}
	SortByScore(m)
	var got string
	for _, x := range m {
		got += x.Proteins
	}
	if got != "bdca" {
		t.Errorf("sort order %s, expected bdca", got)
	}
}

func TestSummarize(t *testing.T) {
	m := matchesFor([]float64{10, 9, 8, 7}, []bool{false, true, false, false})
	s := Summarize(Estimate(m, DefaultDecoyMarker, ConsiderRank(1)), 0.3)
	want := Summary{PSMs: 4, Targets: 3, Decoys: 1, Accepted: 3,
		MeanTargetScore: 25.0 / 3.0, MeanDecoyScore: 9}
	if diff := cmp.Diff(want, s, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}
}
