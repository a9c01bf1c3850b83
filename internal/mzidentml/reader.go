package mzidentml

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/fdr"
	"golang.org/x/net/html/charset"
)

// DefaultScore is the Comet xcorr CV term
const DefaultScore = "MS:1002252"

// Columns are the names of the fields in fdr.Match.Row of Matches
var Columns = []string{
	"spectrum_id",
	"rank",
	"charge",
	"exp_mass_to_charge",
	"retention_time",
	"peptide",
	"mod_mass",
	"protein",
	"score",
}

// Read reads mzIdentML content from io.reader
func Read(reader io.Reader) (MzIdentML, error) {
	var mzIdentML MzIdentML
	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel
	err := d.Decode(&mzIdentML.content)
	if err != nil {
		return mzIdentML, err
	}
	mzIdentML.buildIndices()
	mzIdentML.buildIdentList()
	return mzIdentML, nil
}

func (m *MzIdentML) buildIndices() {
	m.pepID2Idx = make(map[string]int, len(m.content.Peptide))
	for i, p := range m.content.Peptide {
		m.pepID2Idx[p.ID] = i
	}
	m.evidenceID2Idx = make(map[string]int, len(m.content.PeptideEvidence))
	for i, e := range m.content.PeptideEvidence {
		m.evidenceID2Idx[e.ID] = i
	}
	m.dbSeqID2Idx = make(map[string]int, len(m.content.DBSequence))
	for i, s := range m.content.DBSequence {
		m.dbSeqID2Idx[s.ID] = i
	}
}

func (m *MzIdentML) buildIdentList() {
	for i := range m.content.SpectrumIdentificationResult {
		for j := range m.content.SpectrumIdentificationResult[i].SpectrumIdentificationItem {
			m.identList = append(m.identList, identRef{resultIdx: i, itemIdx: j})
		}
	}
}

// NumIdents returns the total number of identifications in the mzIdentML file.
// A spectrum may have several (ranked) identifications.
func (m *MzIdentML) NumIdents() int {
	return len(m.identList)
}

// Ident returns identification i, 0 <= i < NumIdents()
func (m *MzIdentML) Ident(i int) (Identification, error) {
	var ident Identification

	if i < 0 || i >= len(m.identList) {
		return ident, ErrInvalidIdentIndex
	}
	result := &m.content.SpectrumIdentificationResult[m.identList[i].resultIdx]
	item := &result.SpectrumIdentificationItem[m.identList[i].itemIdx]

	ident.SpecID = result.SpectrumID
	ident.Rank = item.Rank
	ident.Charge = item.ChargeState
	ident.ExpMassToCharge = item.ExperimentalMassToCharge
	if pepIdx, ok := m.pepID2Idx[item.PeptideRef]; ok {
		p := &m.content.Peptide[pepIdx]
		ident.PepSeq = p.PeptideSequence
		for _, mod := range p.Modification {
			ident.ModMass += mod.MonoisotopicMassDelta
		}
	}
	for _, ref := range item.PeptideEvidenceRef {
		evIdx, ok := m.evidenceID2Idx[ref.Ref]
		if !ok {
			continue
		}
		ev := &m.content.PeptideEvidence[evIdx]
		acc := ev.DBSequenceRef
		if seqIdx, ok := m.dbSeqID2Idx[ev.DBSequenceRef]; ok && m.content.DBSequence[seqIdx].Accession != "" {
			acc = m.content.DBSequence[seqIdx].Accession
		}
		ident.Accessions = append(ident.Accessions, acc)
		ident.Decoy = append(ident.Decoy, ev.IsDecoy)
	}

	rt, err := retentionTime(result.CvPar)
	if err != nil {
		return ident, err
	}
	ident.RetentionTime = rt
	ident.Cv = append(ident.Cv, item.CvPar...)
	return ident, nil
}

// retentionTime returns the retention time in seconds, or -1 if none
// of the known CV terms is present. In order of decreasing preference:
// MS:1000016 scan start time, MS:1000894 retention time,
// MS:1000826 elution time, MS:1001114 retention time (deprecated).
func retentionTime(cvs []cvParam) (float64, error) {
	rt := float64(-1)
	prio := math.MaxInt32
	for _, cv := range cvs {
		var p int
		switch cv.Accession {
		case "MS:1000016":
			p = 1
		case "MS:1000894":
			p = 2
		case "MS:1000826":
			p = 3
		case "MS:1001114":
			p = 4
		default:
			continue
		}
		if p >= prio {
			continue
		}
		t, err := strconv.ParseFloat(cv.Value, 64)
		if err != nil {
			return rt, fmt.Errorf("mzIdentML: retention time %q: %w", cv.Value, err)
		}
		// Minutes, otherwise seconds
		if cv.UnitAccession == "UO:0000031" || cv.UnitAccession == "MS:1000038" {
			t *= 60
		}
		prio = p
		rt = t
	}
	return rt, nil
}

// Score returns the value of the CV term of ident whose accession or
// name equals term
func (ident *Identification) Score(term string) (float64, error) {
	for _, cv := range ident.Cv {
		if cv.Accession == term || cv.Name == term {
			return strconv.ParseFloat(cv.Value, 64)
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrScoreNotFound, term)
}

// ProteinRefs resolves the accessions of ident into protein references.
// An evidence is a decoy if mzIdentML flags it with isDecoy or its
// accession starts with decoyMarker. Accessions in FASTA header form
// ("sp|P68871|HBB_HUMAN") are parsed like search engine protein columns,
// all others are kept verbatim as local ("lcl") accessions.
func (ident *Identification) ProteinRefs(decoyMarker string) []fdr.ProteinRef {
	if len(ident.Accessions) == 0 {
		return nil
	}
	refs := make([]fdr.ProteinRef, len(ident.Accessions))
	for i, acc := range ident.Accessions {
		refs[i] = proteinRef(acc, ident.Decoy[i], decoyMarker)
	}
	return refs
}

func proteinRef(acc string, isDecoy bool, decoyMarker string) fdr.ProteinRef {
	if strings.Contains(acc, "|") {
		if parsed := fdr.ParseProteinRefs(acc, decoyMarker); len(parsed) == 1 {
			ref := parsed[0]
			if isDecoy && !ref.Decoy {
				ref.Header = decoyMarker + ref.Header
				ref.Decoy = true
			}
			return ref
		}
	}
	ref := fdr.ProteinRef{
		Header:    "lcl",
		Accession: strings.TrimPrefix(acc, decoyMarker),
		Decoy:     isDecoy || strings.HasPrefix(acc, decoyMarker),
	}
	if ref.Decoy {
		ref.Header = decoyMarker + ref.Header
	}
	return ref
}

// ProteinText builds a protein column from the accessions of ident, in
// the "<db>|<accession>|" form of FASTA headers. The decoy marker is
// always part of the header token of decoy evidences.
func (ident *Identification) ProteinText(decoyMarker string) string {
	tokens := make([]string, len(ident.Accessions))
	for i, acc := range ident.Accessions {
		ref := proteinRef(acc, ident.Decoy[i], decoyMarker)
		switch {
		case !strings.Contains(acc, "|"):
			tokens[i] = ref.Header + "|" + ref.Accession + "|"
		case ref.Decoy && !strings.Contains(acc, decoyMarker):
			tokens[i] = decoyMarker + acc
		default:
			tokens[i] = acc
		}
	}
	return strings.Join(tokens, ",")
}

// Matches returns all identifications as FDR matches, scored by the CV
// term score. Row holds the values of Columns.
func (m *MzIdentML) Matches(score, decoyMarker string) ([]fdr.Match, error) {
	matches := make([]fdr.Match, 0, m.NumIdents())
	for i := 0; i < m.NumIdents(); i++ {
		ident, err := m.Ident(i)
		if err != nil {
			return nil, err
		}
		if ident.Rank < 1 {
			return nil, fmt.Errorf("%w: %d for spectrum %s", ErrInvalidRank, ident.Rank, ident.SpecID)
		}
		s, err := ident.Score(score)
		if err != nil {
			return nil, fmt.Errorf("spectrum %s: %w", ident.SpecID, err)
		}
		proteins := ident.ProteinText(decoyMarker)
		matches = append(matches, fdr.Match{
			Score:    s,
			Rank:     ident.Rank,
			Proteins: proteins,
			Refs:     ident.ProteinRefs(decoyMarker),
			Row: []string{
				ident.SpecID,
				strconv.Itoa(ident.Rank),
				strconv.Itoa(ident.Charge),
				strconv.FormatFloat(ident.ExpMassToCharge, 'f', -1, 64),
				strconv.FormatFloat(ident.RetentionTime, 'f', -1, 64),
				ident.PepSeq,
				strconv.FormatFloat(ident.ModMass, 'f', -1, 64),
				proteins,
				strconv.FormatFloat(s, 'f', -1, 64),
			},
		})
	}
	return matches, nil
}
