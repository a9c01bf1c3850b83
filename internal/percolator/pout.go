// Package percolator reads PSMs from Percolator XML (pout) files
package percolator

import (
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Columns collected from the sub-elements of a psm element
var textColumns = map[string]bool{
	"svm_score":  true,
	"q_value":    true,
	"pep":        true,
	"exp_mass":   true,
	"calc_mass":  true,
	"protein_id": true,
	"p_value":    true,
}

// PSM holds the values of one Percolator psm element. Columns are kept
// in the order in which they first appear.
type PSM struct {
	Columns []string
	Values  map[string][]string
}

func (p *PSM) add(column, value string) {
	if p.Values == nil {
		p.Values = make(map[string][]string)
	}
	if _, ok := p.Values[column]; !ok {
		p.Columns = append(p.Columns, column)
	}
	p.Values[column] = append(p.Values[column], value)
}

type xmlPSM struct {
	ID       string     `xml:"psm_id,attr"`
	Children []xmlChild `xml:",any"`
}

type xmlChild struct {
	XMLName xml.Name
	Seq     string `xml:"seq,attr"`
	Text    string `xml:",chardata"`
}

// Read reads all psm elements of a Percolator XML file
func Read(r io.Reader) ([]PSM, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel

	var psms []PSM
	for {
		t, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		se, ok := t.(xml.StartElement)
		if !ok || se.Name.Local != "psm" {
			continue
		}
		var x xmlPSM
		if err := d.DecodeElement(&x, &se); err != nil {
			return nil, err
		}
		var p PSM
		p.add("psm_id", x.ID)
		for _, c := range x.Children {
			switch name := c.XMLName.Local; {
			case textColumns[name]:
				p.add(name, strings.TrimSpace(c.Text))
			case name == "peptide_seq":
				p.add("peptide_seq", c.Seq)
				p.add("plain_peptide", PlainPeptide(c.Seq))
			}
		}
		psms = append(psms, p)
	}
	return psms, nil
}

// PlainPeptide removes bracketed modifications from a peptide sequence,
// e.g. "PEPM[15.9949]TIDE" becomes "PEPMTIDE"
func PlainPeptide(seq string) string {
	for {
		open := strings.IndexByte(seq, '[')
		if open < 0 {
			return seq
		}
		closing := strings.IndexByte(seq[open:], ']')
		if closing < 0 {
			return seq[:open]
		}
		seq = seq[:open] + seq[open+closing+1:]
	}
}

// Rows converts psms to a table. The header is taken from the first PSM,
// multiple values of one column are joined with ",".
func Rows(psms []PSM) ([]string, [][]string) {
	if len(psms) == 0 {
		return nil, nil
	}
	header := psms[0].Columns
	rows := make([][]string, len(psms))
	for i, p := range psms {
		row := make([]string, len(header))
		for j, h := range header {
			row[j] = strings.Join(p.Values[h], ",")
		}
		rows[i] = row
	}
	return header, rows
}
