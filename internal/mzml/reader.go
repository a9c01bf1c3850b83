package mzml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html/charset"
)

// CV terms used by the reader
const (
	cvMSLevel       = `MS:1000511`
	cvScanStartTime = `MS:1000016`
	cvSelectedIonMz = `MS:1000744`
	cvChargeState   = `MS:1000041`
)

// Read reads mzML file from an io.Reader
func Read(reader io.Reader) (MzML, error) {
	var mzML MzML

	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel

	// We are only interested in mzML content, so skip over indexedmzML
	// and everything else
	for {
		t, tokenErr := d.Token()
		if tokenErr != nil {
			if tokenErr == io.EOF {
				break
			}
			return mzML, tokenErr
		}
		switch t := t.(type) {
		case xml.StartElement:
			if t.Name.Local == "mzML" {
				if err := d.DecodeElement(&mzML.content, &t); err != nil {
					return mzML, err
				}
			}
		}
	}

	err := mzML.traverseScan()
	return mzML, err
}

// NumSpecs returns the number of spectra
func (f *MzML) NumSpecs() int {
	return len(f.content.Run.SpectrumList.Spectrum)
}

// RetentionTime returns the retention time of a spectrum in seconds,
// or -1 if it is not present
func (f *MzML) RetentionTime(scanIndex int) (float64, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return 0.0, ErrInvalidScanIndex
	}
	for _, scan := range f.content.Run.SpectrumList.Spectrum[scanIndex].ScanList.Scan {
		for _, cvParam := range scan.CvPar {
			if cvParam.Accession == cvScanStartTime {
				retentionTime, err := strconv.ParseFloat(cvParam.Value, 64)
				// Check if the retention time is in minutes, otherwise assume it's seconds
				if cvParam.UnitAccession == "UO:0000031" ||
					cvParam.UnitAccession == "MS:1000038" {
					retentionTime *= 60
				}
				return retentionTime, err
			}
		}
	}
	return -1.0, nil
}

// MSLevel returns the MS level of a scan
func (f *MzML) MSLevel(scanIndex int) (int, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return 0, ErrInvalidScanIndex
	}

	for _, cvParam := range f.content.Run.SpectrumList.Spectrum[scanIndex].CvPar {
		if cvParam.Accession == cvMSLevel {
			msLevel, err := strconv.ParseInt(cvParam.Value, 10, 64)
			return int(msLevel), err
		}
	}
	return 1, nil // If nothing else, guess it's MS1
}

// Precursors returns the selected ions of all precursors of a spectrum.
// Each precursor contributes its first selected ion.
func (f *MzML) Precursors(scanIndex int) ([]Precursor, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return nil, ErrInvalidScanIndex
	}
	var precursors []Precursor
	for _, pl := range f.content.Run.SpectrumList.Spectrum[scanIndex].PrecursorList {
		for _, xp := range pl.Precursor {
			if len(xp.SelectedIonList.SelectedIon) == 0 {
				continue
			}
			p, err := parseSelectedIon(xp.SelectedIonList.SelectedIon[0])
			if err != nil {
				return nil, fmt.Errorf("spectrum %d: %w", scanIndex, err)
			}
			precursors = append(precursors, p)
		}
	}
	return precursors, nil
}

func parseSelectedIon(ion selectedIon) (Precursor, error) {
	var p Precursor
	for _, cvParam := range ion.CvPar {
		switch cvParam.Accession {
		case cvSelectedIonMz:
			mz, err := strconv.ParseFloat(cvParam.Value, 64)
			if err != nil {
				return p, err
			}
			p.Mz = mz
		case cvChargeState:
			charge, err := strconv.Atoi(cvParam.Value)
			if err != nil {
				return p, err
			}
			p.Charge = charge
		}
	}
	return p, nil
}

// traverseScan checks the spectrum indices and records the scan
// identifiers, so that they can be used in messages
func (f *MzML) traverseScan() error {
	f.index2id = make([]string, f.NumSpecs())
	for i, spec := range f.content.Run.SpectrumList.Spectrum {
		if i != spec.Index {
			return ErrInvalidScanIndex
		}
		f.index2id[i] = spec.ID
	}
	return nil
}

// ScanID converts a scan index into a scan id (used in the mzML file)
func (f *MzML) ScanID(scanIndex int) (string, error) {
	if scanIndex >= 0 && scanIndex < f.NumSpecs() {
		return f.index2id[scanIndex], nil
	}
	return "", ErrInvalidScanIndex
}
