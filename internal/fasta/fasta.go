// Package fasta looks up protein descriptions in FASTA files
package fasta

import (
	"bufio"
	"io"
	"strings"
)

// Descriptions scans the headers of a FASTA file and returns the
// description for each wanted accession. Headers have the form
// ">db|accession|description"; decoy headers are skipped. Only headers
// are kept in memory.
func Descriptions(r io.Reader, wanted map[string]bool, decoyMarker string) (map[string]string, error) {
	desc := make(map[string]string, len(wanted))
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 && line[0] == '>' && !strings.HasPrefix(line, ">"+decoyMarker) {
			line = strings.TrimRight(line, "\r\n")
			parts := strings.SplitN(line, "|", 3)
			if len(parts) >= 2 && wanted[parts[1]] {
				desc[parts[1]] = parts[len(parts)-1]
			}
		}
		if err == io.EOF {
			return desc, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// Describe joins the descriptions of accessions with ",". Accessions
// without description contribute an empty string.
func Describe(accessions []string, desc map[string]string) string {
	d := make([]string, len(accessions))
	for i, acc := range accessions {
		d[i] = desc[acc]
	}
	return strings.Join(d, ",")
}
