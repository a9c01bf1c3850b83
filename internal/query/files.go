package query

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/exascience/pargo/parallel"

	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/mzml"
)

var (
	// ErrPrecursorCount means an MS2 spectrum does not have exactly one precursor
	ErrPrecursorCount = errors.New("query: unexpected number of precursors in MS2 spectrum")
	// ErrFileType means the spectrum file extension is not supported
	ErrFileType = errors.New("query: file extension is not supported")
)

// LoadPrecursors reads the precursors of a .mgf or .mzML file
func LoadPrecursors(path string) ([]Precursor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext := filepath.Ext(path); strings.ToLower(ext) {
	case ".mgf":
		return ReadMGF(f)
	case ".mzml":
		m, err := mzml.Read(f)
		if err != nil {
			return nil, err
		}
		return FromMzML(&m)
	default:
		return nil, fmt.Errorf("%w: %s", ErrFileType, ext)
	}
}

// LoadAllPrecursors reads the precursors of several spectrum files in
// parallel. The result is in the order of paths.
func LoadAllPrecursors(paths []string) ([]Precursor, error) {
	perFile := make([][]Precursor, len(paths))
	errs := make([]error, len(paths))
	parallel.Range(0, len(paths), 0, func(low, high int) {
		for i := low; i < high; i++ {
			perFile[i], errs[i] = LoadPrecursors(paths[i])
		}
	})
	var all []Precursor
	for i, p := range perFile {
		if errs[i] != nil {
			return nil, fmt.Errorf("%s: %w", paths[i], errs[i])
		}
		all = append(all, p...)
	}
	return all, nil
}

// ReadQueries reads a query CSV file with one "low,high" line per query
func ReadQueries(r io.Reader) ([]Interval, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	var queries []Interval
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		low, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			return nil, err
		}
		high, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, err
		}
		queries = append(queries, Interval{Low: low, High: high})
	}
	return queries, nil
}

// WriteQueries writes queries as "low,high" lines
func WriteQueries(w io.Writer, queries []Interval) error {
	cw := csv.NewWriter(w)
	for _, q := range queries {
		err := cw.Write([]string{
			strconv.FormatFloat(q.Low, 'f', -1, 64),
			strconv.FormatFloat(q.High, 'f', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
