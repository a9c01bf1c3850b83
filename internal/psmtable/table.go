// Package psmtable reads and writes the tab separated PSM tables of
// Comet, Percolator and of this program.
package psmtable

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrMissingColumn means a required column is not in the table header
var ErrMissingColumn = errors.New("psmtable: missing column")

// Table is a tab separated table with a header row
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// Read reads a tab separated table. The first skipLines lines (e.g. the
// version line of Comet txt output) are skipped before the header.
func Read(r io.Reader, skipLines int) (*Table, error) {
	br := bufio.NewReader(r)
	for i := 0; i < skipLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("psmtable: no header found")
			}
			return nil, err
		}
	}
	cr := newReader(br)
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("psmtable: no header found")
		}
		return nil, err
	}
	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	// Comet writes trailing empty columns on some rows
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false
	return cr
}

// Index returns the column index of name
func (t *Table) Index(name string) (int, error) {
	if t.index == nil {
		t.index = make(map[string]int, len(t.Header))
		for i, h := range t.Header {
			if _, ok := t.index[h]; !ok {
				t.index[h] = i
			}
		}
	}
	i, ok := t.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return i, nil
}

// Indices returns the column indices of names
func (t *Table) Indices(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		var err error
		if idx[i], err = t.Index(n); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Cell returns column i of row, or "" if the row is too short
func Cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// Writer writes tab separated rows
type Writer struct {
	w *csv.Writer
}

// NewWriter returns a Writer that writes to w
func NewWriter(w io.Writer) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return &Writer{w: cw}
}

// Write writes a single row
func (w *Writer) Write(row []string) error {
	return w.w.Write(row)
}

// Flush flushes buffered rows and returns any write error
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

// Write writes header and rows to w
func Write(w io.Writer, header []string, rows [][]string) error {
	tw := NewWriter(w)
	if err := tw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tw.Write(r); err != nil {
			return err
		}
	}
	return tw.Flush()
}
