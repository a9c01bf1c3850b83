package query

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/mzml"
)

// ReadMGF reads the precursors of all spectra in an MGF file. Spectra
// without PEPMASS or CHARGE are skipped, RTINSECONDS is optional.
func ReadMGF(r io.Reader) ([]Precursor, error) {
	var precursors []Precursor
	var p Precursor
	inEntry, hasMass, hasCharge := false, false, false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case strings.HasPrefix(line, "BEGIN IONS"):
			inEntry, hasMass, hasCharge = true, false, false
			p = Precursor{RetentionTime: -1}
		case strings.HasPrefix(line, "END IONS"):
			if inEntry && hasMass && hasCharge {
				precursors = append(precursors, p)
			}
			inEntry = false
		case inEntry && strings.HasPrefix(line, "PEPMASS="):
			fields := strings.Fields(line[len("PEPMASS="):])
			if len(fields) == 0 {
				return nil, fmt.Errorf("line %d: empty PEPMASS", lineNum)
			}
			mz, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			p.Mz = mz
			hasMass = true
		case inEntry && strings.HasPrefix(line, "CHARGE="):
			charge, err := parseCharge(line[len("CHARGE="):])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			p.Charge = charge
			hasCharge = true
		case inEntry && strings.HasPrefix(line, "RTINSECONDS="):
			rt, err := strconv.ParseFloat(strings.TrimSpace(line[len("RTINSECONDS="):]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			p.RetentionTime = rt
		}
	}
	return precursors, scanner.Err()
}

// parseCharge parses MGF charges like "2+" or "3"
func parseCharge(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(s, "+", "")))
}

// FromMzML returns the precursors of all MS2 spectra. Every MS2 spectrum
// must have exactly one precursor.
func FromMzML(f *mzml.MzML) ([]Precursor, error) {
	var precursors []Precursor
	for i := 0; i < f.NumSpecs(); i++ {
		msLevel, err := f.MSLevel(i)
		if err != nil {
			return nil, err
		}
		if msLevel != 2 {
			continue
		}
		precs, err := f.Precursors(i)
		if err != nil {
			return nil, err
		}
		if len(precs) != 1 {
			id, _ := f.ScanID(i)
			return nil, fmt.Errorf("%w: spectrum %s has %d", ErrPrecursorCount, id, len(precs))
		}
		rt, err := f.RetentionTime(i)
		if err != nil {
			return nil, err
		}
		precursors = append(precursors, Precursor{Mz: precs[0].Mz, Charge: precs[0].Charge, RetentionTime: rt})
	}
	return precursors, nil
}
