package fdr

import (
	"sort"

	psort "github.com/exascience/pargo/sort"
)

// byScore orders matches best score first
type byScore []Match

func (s byScore) SequentialSort(i, j int) {
	m := s[i:j]
	sort.SliceStable(m, func(a, b int) bool { return m[a].Score > m[b].Score })
}

func (s byScore) NewTemp() psort.StableSorter {
	return byScore(make([]Match, len(s)))
}

func (s byScore) Len() int {
	return len(s)
}

func (s byScore) Less(i, j int) bool {
	return s[i].Score > s[j].Score
}

func (s byScore) Assign(source psort.StableSorter) func(i, j, len int) {
	dst, src := s, source.(byScore)
	return func(i, j, len int) {
		copy(dst[i:i+len], src[j:j+len])
	}
}

// SortByScore sorts matches by score, best first. Matches with equal
// scores keep their input order.
func SortByScore(matches []Match) {
	psort.StableSort(byScore(matches))
}
