package fdr

import (
	"regexp"
	"strings"
)

// fastaHeaderPattern locates "<db>|<accession>|" tokens in a protein
// column. The header token may not run across a comma, so the decoy
// marker of one reference never leaks into the next one.
var fastaHeaderPattern = regexp.MustCompile(`([^|,\s]*?[pg|tr|sp|lcl|ref])\|([a-zA-Z0-9\-_]+)\|`)

// ProteinRef is a single protein reference of a PSM
type ProteinRef struct {
	Header    string // Header token preceding the accession (e.g. "DECOY_sp")
	Accession string
	Decoy     bool // Header token carries the decoy marker
}

// ParseProteinRefs extracts all protein references from the protein
// text of a PSM. Text without any recognizable reference yields an
// empty (nil) slice.
func ParseProteinRefs(text string, decoyMarker string) []ProteinRef {
	matches := fastaHeaderPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	refs := make([]ProteinRef, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, ProteinRef{
			Header:    m[1],
			Accession: m[2],
			Decoy:     strings.Contains(m[1], decoyMarker),
		})
	}
	return refs
}

// AllDecoy reports whether every reference is a decoy reference.
// An empty set is all-decoy: a PSM without parsable proteins is
// counted as a decoy.
func AllDecoy(refs []ProteinRef) bool {
	for _, r := range refs {
		if !r.Decoy {
			return false
		}
	}
	return true
}

// Accessions returns the accessions of refs in order
func Accessions(refs []ProteinRef) []string {
	acc := make([]string, len(refs))
	for i, r := range refs {
		acc[i] = r.Accession
	}
	return acc
}
