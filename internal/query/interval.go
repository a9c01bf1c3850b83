// Package query builds the precursor mass windows used to query protein
// graphs and merges overlapping windows into fewer queries.
package query

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Interval is a precursor mass window in Da
type Interval struct {
	Low, High float64
}

// ErrInvalidInterval means an interval has Low > High or a bound that
// is not a finite number
var ErrInvalidInterval = errors.New("query: invalid interval")

// Reduction describes the effect of Merge
type Reduction struct {
	In  int // number of input intervals
	Out int // number of merged intervals
}

// Ratio returns Out/In, or 1 if there was no input
func (r Reduction) Ratio() float64 {
	if r.In == 0 {
		return 1
	}
	return float64(r.Out) / float64(r.In)
}

func (r Reduction) String() string {
	return fmt.Sprintf("#Queries reduced to: %g%%", r.Ratio()*100)
}

// Validate checks that iv is a proper interval
func (iv Interval) Validate() error {
	if math.IsNaN(iv.Low) || math.IsNaN(iv.High) ||
		math.IsInf(iv.Low, 0) || math.IsInf(iv.High, 0) || iv.Low > iv.High {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidInterval, iv.Low, iv.High)
	}
	return nil
}

// SortIntervals sorts intervals by Low, then by High
func SortIntervals(intervals []Interval) {
	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].Low != intervals[j].Low {
			return intervals[i].Low < intervals[j].Low
		}
		return intervals[i].High < intervals[j].High
	})
}

// Merge merges overlapping intervals. Two intervals overlap when the
// high bound of the first strictly exceeds the low bound of the second;
// windows that only touch stay separate. The result is sorted by Low.
// intervals is not modified.
func Merge(intervals []Interval) ([]Interval, Reduction, error) {
	red := Reduction{In: len(intervals)}
	for _, iv := range intervals {
		if err := iv.Validate(); err != nil {
			return nil, red, err
		}
	}
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	SortIntervals(sorted)

	merged := make([]Interval, 0, len(sorted))
	for _, iv := range sorted {
		last := len(merged) - 1
		if last >= 0 && merged[last].High > iv.Low {
			if iv.High > merged[last].High {
				merged[last].High = iv.High
			}
			continue
		}
		merged = append(merged, iv)
	}
	red.Out = len(merged)
	return merged, red, nil
}
