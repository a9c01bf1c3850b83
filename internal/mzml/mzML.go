package mzml

import (
	"encoding/xml"
	"errors"
)

// MzML wraps the parts of an mzML file needed to derive precursor queries
type MzML struct {
	content  mzMLContent
	index2id []string
}

// Precursor is the selected ion of an MS2 spectrum
type Precursor struct {
	Mz     float64
	Charge int // 0 if the file does not report a charge state
}

// The mzML content that we read. Binary peak data is not needed for
// precursor queries and is not decoded at all.
type mzMLContent struct {
	XMLName xml.Name `xml:"http://psi.hupo.org/ms/mzml mzML"`
	Run     run      `xml:"run"`
}

type run struct {
	ID           string       `xml:"id,attr,omitempty"`
	SpectrumList spectrumList `xml:"spectrumList,omitempty"`
}

type spectrumList struct {
	Count    int        `xml:"count,attr,omitempty"`
	Spectrum []spectrum `xml:"spectrum,omitempty"`
}

type spectrum struct {
	Index         int             `xml:"index,attr"`
	ID            string          `xml:"id,attr"`
	CvPar         []CVParam       `xml:"cvParam,omitempty"`
	ScanList      scanList        `xml:"scanList"`
	PrecursorList []precursorList `xml:"precursorList,omitempty"`
}

type scanList struct {
	Count int       `xml:"count,attr,omitempty"`
	Scan  []scan    `xml:"scan"`
	CvPar []CVParam `xml:"cvParam,omitempty"`
}

type scan struct {
	CvPar []CVParam `xml:"cvParam,omitempty"`
}

type precursorList struct {
	Count     int            `xml:"count,attr,omitempty"`
	Precursor []xmlPrecursor `xml:"precursor"`
}

type xmlPrecursor struct {
	SpectrumRef     string          `xml:"spectrumRef,attr,omitempty"`
	SelectedIonList selectedIonList `xml:"selectedIonList"`
}

type selectedIonList struct {
	Count       int           `xml:"count,attr,omitempty"`
	SelectedIon []selectedIon `xml:"selectedIon"`
}

type selectedIon struct {
	CvPar []CVParam `xml:"cvParam,omitempty"`
}

// CVParam contains values and attributes of a mzML Controlled Vocabulary term
// (http://www.peptideatlas.org/tmp/mzML1.1.0.html)
type CVParam struct {
	Accession     string `xml:"accession,attr,omitempty"`
	Name          string `xml:"name,attr,omitempty"`
	Value         string `xml:"value,attr,omitempty"`
	UnitAccession string `xml:"unitAccession,attr,omitempty"`
}

var (
	// ErrInvalidScanIndex means an invalid scan index is supplied
	ErrInvalidScanIndex = errors.New("MzML: invalid scan index")
)
