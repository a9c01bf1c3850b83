package mzidentml

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/fdr"
)

const testMzid = `<?xml version="1.0" encoding="UTF-8"?>
<MzIdentML xmlns="http://psidev.info/psi/pi/mzIdentML/1.1" id="test" version="1.1.0">
  <SequenceCollection>
    <DBSequence id="DBSeq1" accession="sp|P68871|HBB_HUMAN"/>
    <DBSequence id="DBSeq2" accession="Q12345"/>
    <Peptide id="PEP_1">
      <PeptideSequence>VHLTPEEK</PeptideSequence>
    </Peptide>
    <Peptide id="PEP_2">
      <PeptideSequence>MKEEPTLH</PeptideSequence>
      <Modification location="1" monoisotopicMassDelta="15.9949"/>
    </Peptide>
    <PeptideEvidence id="PE_1" dBSequence_ref="DBSeq1" peptide_ref="PEP_1" isDecoy="false"/>
    <PeptideEvidence id="PE_2" dBSequence_ref="DBSeq2" peptide_ref="PEP_2" isDecoy="true"/>
  </SequenceCollection>
  <DataCollection>
    <AnalysisData>
      <SpectrumIdentificationList id="SIL_1">
        <SpectrumIdentificationResult id="SIR_1" spectrumID="index=0">
          <SpectrumIdentificationItem id="SII_1_1" rank="1" chargeState="2" experimentalMassToCharge="476.7523" peptide_ref="PEP_1">
            <PeptideEvidenceRef peptideEvidence_ref="PE_1"/>
            <cvParam accession="MS:1002252" name="Comet:xcorr" value="3.21"/>
          </SpectrumIdentificationItem>
          <SpectrumIdentificationItem id="SII_1_2" rank="2" chargeState="2" experimentalMassToCharge="476.7523" peptide_ref="PEP_2">
            <PeptideEvidenceRef peptideEvidence_ref="PE_2"/>
            <cvParam accession="MS:1002252" name="Comet:xcorr" value="1.5"/>
          </SpectrumIdentificationItem>
          <cvParam accession="MS:1000894" name="retention time" value="12.5" unitAccession="UO:0000010"/>
          <cvParam accession="MS:1000016" name="scan start time" value="2" unitAccession="UO:0000031"/>
        </SpectrumIdentificationResult>
      </SpectrumIdentificationList>
    </AnalysisData>
  </DataCollection>
</MzIdentML>
`

func TestRead(t *testing.T) {
	f, err := Read(strings.NewReader(testMzid))
	if err != nil {
		t.Fatalf("Read: error return %v", err)
	}
	if n := f.NumIdents(); n != 2 {
		t.Errorf("NumIdents is %d, expected 2", n)
	}
	ident, err := f.Ident(1)
	if err != nil {
		t.Fatalf("Ident: error return %v", err)
	}
	if ident.Rank != 2 || ident.Charge != 2 || ident.PepSeq != "MKEEPTLH" {
		t.Errorf("Ident(1) = %+v", ident)
	}
	if ident.ModMass != 15.9949 {
		t.Errorf("ModMass is %v, expected 15.9949", ident.ModMass)
	}
	// scan start time in minutes is preferred over retention time
	if ident.RetentionTime != 120 {
		t.Errorf("RetentionTime is %v, expected 120", ident.RetentionTime)
	}
	if _, err := f.Ident(2); !errors.Is(err, ErrInvalidIdentIndex) {
		t.Errorf("Ident(2): got %v, expected %v", err, ErrInvalidIdentIndex)
	}
}

func TestMatches(t *testing.T) {
	f, err := Read(strings.NewReader(testMzid))
	if err != nil {
		t.Fatalf("Read: error return %v", err)
	}
	matches, err := f.Matches(DefaultScore, fdr.DefaultDecoyMarker)
	if err != nil {
		t.Fatalf("Matches: error return %v", err)
	}
	want := []fdr.Match{
		{Score: 3.21, Rank: 1, Proteins: "sp|P68871|HBB_HUMAN",
			Refs: []fdr.ProteinRef{{Header: "sp", Accession: "P68871"}},
			Row: []string{"index=0", "1", "2", "476.7523", "120", "VHLTPEEK", "0", "sp|P68871|HBB_HUMAN", "3.21"}},
		{Score: 1.5, Rank: 2, Proteins: "DECOY_lcl|Q12345|",
			Refs: []fdr.ProteinRef{{Header: "DECOY_lcl", Accession: "Q12345", Decoy: true}},
			Row: []string{"index=0", "2", "2", "476.7523", "120", "MKEEPTLH", "15.9949", "DECOY_lcl|Q12345|", "1.5"}},
	}
	if diff := cmp.Diff(want, matches); diff != "" {
		t.Errorf("Matches mismatch (-want +got):\n%s", diff)
	}

	annotated := fdr.Estimate(matches, fdr.DefaultDecoyMarker, fdr.ConsiderRank(2))
	if annotated[0].State != fdr.Target || annotated[1].State != fdr.Decoy {
		t.Errorf("decoy states are %v, %v", annotated[0].State, annotated[1].State)
	}

	if _, err := f.Matches("MS:0000000", fdr.DefaultDecoyMarker); !errors.Is(err, ErrScoreNotFound) {
		t.Errorf("unknown score: got %v, expected %v", err, ErrScoreNotFound)
	}
	byName, err := f.Matches("Comet:xcorr", fdr.DefaultDecoyMarker)
	if err != nil || byName[0].Score != 3.21 {
		t.Errorf("score by name: got %v, %v", byName, err)
	}
}

func TestProteinRefs(t *testing.T) {
	tests := []struct {
		name     string
		acc      string
		isDecoy  bool
		wantRef  fdr.ProteinRef
		wantText string
	}{
		{"plain target", "Q12345", false,
			fdr.ProteinRef{Header: "lcl", Accession: "Q12345"}, "lcl|Q12345|"},
		{"plain flagged decoy", "Q12345", true,
			fdr.ProteinRef{Header: "DECOY_lcl", Accession: "Q12345", Decoy: true}, "DECOY_lcl|Q12345|"},
		{"marked and flagged decoy", "DECOY_Q12345", true,
			fdr.ProteinRef{Header: "DECOY_lcl", Accession: "Q12345", Decoy: true}, "DECOY_lcl|Q12345|"},
		{"marked decoy without flag", "DECOY_Q12345", false,
			fdr.ProteinRef{Header: "DECOY_lcl", Accession: "Q12345", Decoy: true}, "DECOY_lcl|Q12345|"},
		{"versioned refseq target", "NP_000509.1", false,
			fdr.ProteinRef{Header: "lcl", Accession: "NP_000509.1"}, "lcl|NP_000509.1|"},
		{"header form target", "sp|P68871|HBB_HUMAN", false,
			fdr.ProteinRef{Header: "sp", Accession: "P68871"}, "sp|P68871|HBB_HUMAN"},
		{"header form flagged decoy", "sp|P68871|HBB_HUMAN", true,
			fdr.ProteinRef{Header: "DECOY_sp", Accession: "P68871", Decoy: true}, "DECOY_sp|P68871|HBB_HUMAN"},
		{"header form marked decoy", "DECOY_sp|P68871|HBB_HUMAN", true,
			fdr.ProteinRef{Header: "DECOY_sp", Accession: "P68871", Decoy: true}, "DECOY_sp|P68871|HBB_HUMAN"},
	}
	for _, tt := range tests {
		ident := Identification{Accessions: []string{tt.acc}, Decoy: []bool{tt.isDecoy}}
		refs := ident.ProteinRefs(fdr.DefaultDecoyMarker)
		if diff := cmp.Diff([]fdr.ProteinRef{tt.wantRef}, refs); diff != "" {
			t.Errorf("%s: ProteinRefs mismatch (-want +got):\n%s", tt.name, diff)
		}
		if got := ident.ProteinText(fdr.DefaultDecoyMarker); got != tt.wantText {
			t.Errorf("%s: ProteinText is %q, expected %q", tt.name, got, tt.wantText)
		}

		wantState := fdr.Target
		if tt.wantRef.Decoy {
			wantState = fdr.Decoy
		}
		m := fdr.Match{Score: 1, Rank: 1, Proteins: ident.ProteinText(fdr.DefaultDecoyMarker), Refs: refs}
		a := fdr.Estimate([]fdr.Match{m}, fdr.DefaultDecoyMarker, fdr.ConsiderRank(1))
		if a[0].State != wantState {
			t.Errorf("%s: counted as %v, expected %v", tt.name, a[0].State, wantState)
		}
		if diff := cmp.Diff([]string{tt.wantRef.Accession}, a[0].Accessions); diff != "" {
			t.Errorf("%s: accessions mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestProteinRefsMixed(t *testing.T) {
	ident := Identification{
		Accessions: []string{"DECOY_Q12345", "NP_000509.1"},
		Decoy:      []bool{true, false},
	}
	if fdr.AllDecoy(ident.ProteinRefs(fdr.DefaultDecoyMarker)) {
		t.Errorf("a shared target protein must make the PSM a target")
	}
	ident.Decoy[1] = true
	if !fdr.AllDecoy(ident.ProteinRefs(fdr.DefaultDecoyMarker)) {
		t.Errorf("only decoy evidences must make the PSM a decoy")
	}
	if refs := (&Identification{}).ProteinRefs(fdr.DefaultDecoyMarker); refs != nil {
		t.Errorf("no accessions gave %v, expected nil", refs)
	}
}
