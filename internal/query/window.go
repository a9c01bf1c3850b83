package query

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	massHydrogen = float64(1.007825035)
	massH2O      = float64(18.0105647)
)

// Precursor is the measured precursor of an MS2 spectrum
type Precursor struct {
	Mz            float64
	Charge        int
	RetentionTime float64 // seconds, -1 if unknown
}

// Mass converts the precursor m/z to the uncharged mass in Da. The
// water mass is subtracted because protein graphs do not encode it.
func (p Precursor) Mass() float64 {
	z := float64(p.Charge)
	return p.Mz*z - massHydrogen*z - massH2O
}

// MassToCharge converts a neutral mass (as reported by Comet) to the
// m/z of the protonated ion with the given charge
func MassToCharge(mass float64, charge int) float64 {
	z := float64(charge)
	return (mass + massHydrogen*z) / z
}

// Selection restricts the precursors queries are generated for
type Selection struct {
	MinCharge, MaxCharge int
	MinRT, MaxRT         float64 // seconds
}

// Select returns the precursors with a charge and retention time inside
// sel. Precursors with unknown retention time are not filtered on it.
func Select(precursors []Precursor, sel Selection) []Precursor {
	var selected []Precursor
	for _, p := range precursors {
		if p.Charge < sel.MinCharge || p.Charge > sel.MaxCharge {
			continue
		}
		if p.RetentionTime >= 0 && (p.RetentionTime < sel.MinRT || p.RetentionTime > sel.MaxRT) {
			continue
		}
		selected = append(selected, p)
	}
	return selected
}

// Window returns the mass window of +/- ppm around mass
func Window(mass, ppm float64) Interval {
	d := mass / 1000000 * ppm
	return Interval{Low: mass - d, High: mass + d}
}

// Windows computes the query windows of the precursors, sorted by
// (Low, High). Windows with a low bound outside [minMass, maxMass) are
// dropped, as are precursors without charge.
func Windows(precursors []Precursor, ppm, minMass, maxMass float64) []Interval {
	windows := make([]Interval, 0, len(precursors))
	for _, p := range precursors {
		if p.Charge < 1 {
			continue
		}
		w := Window(p.Mass(), ppm)
		if w.Low >= minMass && w.Low < maxMass {
			windows = append(windows, w)
		}
	}
	SortIntervals(windows)
	return windows
}

// WidthStats returns the mean and the largest width of intervals
func WidthStats(intervals []Interval) (mean, max float64) {
	if len(intervals) == 0 {
		return 0, 0
	}
	widths := make([]float64, len(intervals))
	for i, iv := range intervals {
		widths[i] = iv.High - iv.Low
	}
	return stat.Mean(widths, nil), floats.Max(widths)
}
