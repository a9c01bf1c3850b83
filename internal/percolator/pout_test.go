package percolator

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testPout = `<?xml version="1.0" encoding="UTF-8"?>
<percolator_output xmlns="http://per-colator.com/percolator_out/15" xmlns:p="http://per-colator.com/percolator_out/15" p:majorVersion="3" p:minorVersion="05">
  <psms>
    <psm p:psm_id="sample_1_2_1" p:decoy="false">
      <svm_score>1.25</svm_score>
      <q_value>0.001</q_value>
      <pep>0.01</pep>
      <exp_mass>1000.5</exp_mass>
      <calc_mass>1000.49</calc_mass>
      <peptide_seq n="K" c="A" seq="PEPM[15.9949]TIDE"/>
      <protein_id>sp|P1|A_HUMAN</protein_id>
      <protein_id>sp|P2|B_HUMAN</protein_id>
      <p_value>0.0001</p_value>
    </psm>
    <psm p:psm_id="sample_2_3_1" p:decoy="true">
      <svm_score>-0.5</svm_score>
      <q_value>0.5</q_value>
      <pep>0.9</pep>
      <exp_mass>800.1</exp_mass>
      <calc_mass>800.2</calc_mass>
      <peptide_seq n="R" c="G" seq="DECOYK"/>
      <protein_id>DECOY_sp|P3|C_HUMAN</protein_id>
      <p_value>0.4</p_value>
    </psm>
  </psms>
  <peptides>
    <peptide p:peptide_id="PEPTIDE"><svm_score>1.0</svm_score></peptide>
  </peptides>
</percolator_output>
`

func TestRead(t *testing.T) {
	psms, err := Read(strings.NewReader(testPout))
	if err != nil {
		t.Fatalf("Read: error return %v", err)
	}
	header, rows := Rows(psms)
	wantHeader := []string{"psm_id", "svm_score", "q_value", "pep", "exp_mass", "calc_mass",
		"peptide_seq", "plain_peptide", "protein_id", "p_value"}
	if diff := cmp.Diff(wantHeader, header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	wantRows := [][]string{
		{"sample_1_2_1", "1.25", "0.001", "0.01", "1000.5", "1000.49", "PEPM[15.9949]TIDE", "PEPMTIDE", "sp|P1|A_HUMAN,sp|P2|B_HUMAN", "0.0001"},
		{"sample_2_3_1", "-0.5", "0.5", "0.9", "800.1", "800.2", "DECOYK", "DECOYK", "DECOY_sp|P3|C_HUMAN", "0.4"},
	}
	if diff := cmp.Diff(wantRows, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestPlainPeptide(t *testing.T) {
	tests := map[string]string{
		"PEPTIDE":              "PEPTIDE",
		"M[15.99]PEPC[57.02]K": "MPEPCK",
		"n[42.01]PEPTIDE":      "nPEPTIDE",
		"PEP[unterminated":     "PEP",
	}
	for in, want := range tests {
		if got := PlainPeptide(in); got != want {
			t.Errorf("PlainPeptide(%q) = %q, expected %q", in, got, want)
		}
	}
}
