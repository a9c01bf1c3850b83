package heatmap

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mpc-bioinformatics/ProGFASTAGen/internal/psmtable"
)

const testPSMs = "source_name\tplain_peptide\tfasta_desc\n" +
	"run_b\tPEPTIDE\tprotein one\n" +
	"run_a\tPEPTIDE\tprotein one\n" +
	"run_a\tOTHERK\tprotein two\n" +
	"run_b\tPEPTIDE\tprotein one\n" +
	"run_c\tLASTR\t\n" +
	"run_c\tOTHERK\tprotein two\n"

func TestBuild(t *testing.T) {
	tab, err := psmtable.Read(strings.NewReader(testPSMs), 0)
	if err != nil {
		t.Fatal(err)
	}
	m, err := Build(tab)
	if err != nil {
		t.Fatalf("Build: error return %v", err)
	}
	if diff := cmp.Diff([]string{"run_a", "run_b", "run_c"}, m.Sources); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}
	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatal(err)
	}
	want := "#PSMs\t#Source_files\tplain_peptide\tfasta_desc\trun_a\trun_b\trun_c\n" +
		"3\t2\tPEPTIDE\tprotein one\t1\t2\t0\n" +
		"2\t2\tOTHERK\tprotein two\t1\t0\t1\n" +
		"1\t1\tLASTR\t\t0\t0\t1\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildErrors(t *testing.T) {
	tab, _ := psmtable.Read(strings.NewReader("source_name\tplain_peptide\n"), 0)
	if _, err := Build(tab); !errors.Is(err, ErrNoSources) {
		t.Errorf("empty table: got %v, expected %v", err, ErrNoSources)
	}
	tab, _ = psmtable.Read(strings.NewReader("source_name\tpeptide\nx\tPEP\n"), 0)
	if _, err := Build(tab); !errors.Is(err, psmtable.ErrMissingColumn) {
		t.Errorf("missing column: got %v, expected %v", err, psmtable.ErrMissingColumn)
	}
}
