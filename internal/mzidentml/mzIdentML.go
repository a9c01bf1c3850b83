// Package mzidentml reads ranked peptide spectrum matches from mzIdentML
package mzidentml

import (
	"encoding/xml"
	"errors"
)

// MzIdentML holds the part of an mzIdentML file needed to rank and
// classify identifications
type MzIdentML struct {
	pepID2Idx      map[string]int
	evidenceID2Idx map[string]int
	dbSeqID2Idx    map[string]int
	identList      []identRef
	content        mzIdentMLContent
}

type identRef struct {
	resultIdx int // Index into SpectrumIdentificationResult
	itemIdx   int // Index into SpectrumIdentificationItem
}

// Identification is a single SpectrumIdentificationItem with the
// information of its result, peptide and protein references resolved
type Identification struct {
	SpecID          string
	Rank            int
	Charge          int
	ExpMassToCharge float64
	RetentionTime   float64 // seconds, -1 if not reported
	PepSeq          string
	ModMass         float64
	Accessions      []string // DBSequence accessions of the peptide evidences
	Decoy           []bool   // isDecoy of the same evidences
	Cv              []cvParam
}

type mzIdentMLContent struct {
	XMLName                      xml.Name                       `xml:"MzIdentML"`
	DBSequence                   []dbSequence                   `xml:"SequenceCollection>DBSequence"`
	Peptide                      []peptide                      `xml:"SequenceCollection>Peptide"`
	PeptideEvidence              []peptideEvidence              `xml:"SequenceCollection>PeptideEvidence"`
	SpectrumIdentificationResult []spectrumIdentificationResult `xml:"DataCollection>AnalysisData>SpectrumIdentificationList>SpectrumIdentificationResult"`
}

type dbSequence struct {
	ID        string `xml:"id,attr"`
	Accession string `xml:"accession,attr"`
}

type peptide struct {
	ID              string `xml:"id,attr"`
	PeptideSequence string
	Modification    []modification
}

type modification struct {
	MonoisotopicMassDelta float64 `xml:"monoisotopicMassDelta,attr"`
}

type peptideEvidence struct {
	ID            string `xml:"id,attr"`
	DBSequenceRef string `xml:"dBSequence_ref,attr"`
	PeptideRef    string `xml:"peptide_ref,attr"`
	IsDecoy       bool   `xml:"isDecoy,attr"`
}

type spectrumIdentificationResult struct {
	SpectrumID                 string `xml:"spectrumID,attr"`
	SpectrumIdentificationItem []spectrumIdentificationItem
	CvPar                      []cvParam `xml:"cvParam"`
}

type spectrumIdentificationItem struct {
	Rank                     int                  `xml:"rank,attr"`
	ChargeState              int                  `xml:"chargeState,attr"`
	ExperimentalMassToCharge float64              `xml:"experimentalMassToCharge,attr"`
	PeptideRef               string               `xml:"peptide_ref,attr"`
	PeptideEvidenceRef       []peptideEvidenceRef `xml:"PeptideEvidenceRef"`
	CvPar                    []cvParam            `xml:"cvParam"`
}

type peptideEvidenceRef struct {
	Ref string `xml:"peptideEvidence_ref,attr"`
}

type cvParam struct {
	Accession     string `xml:"accession,attr"`
	Name          string `xml:"name,attr"`
	Value         string `xml:"value,attr"`
	UnitAccession string `xml:"unitAccession,attr"`
}

var (
	ErrInvalidIdentIndex = errors.New("mzIdentML: invalid identification index")
	ErrScoreNotFound     = errors.New("mzIdentML: score not found")
	ErrInvalidRank       = errors.New("mzIdentML: invalid rank")
)
