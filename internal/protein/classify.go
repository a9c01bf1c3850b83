// Package protein classifies the protein set of a PSM as unique or shared.
//
// Two kinds of protein columns are supported. Plain searches report a
// comma separated list of accessions. Searches against protein graph
// FASTA files report headers like
//
//	P68871(42:60,mssclvg:0,),P68871(42:60,mssclvg:0,VARMOD[56:56,M:15.994915])
//
// where one physical protein may appear several times with different
// positional or modification details.
package protein

import (
	"regexp"
	"strings"
)

// Kind selects the classification strategy
type Kind int

const (
	Accessions Kind = iota // Column fasta_acc
	GraphHeaders           // Column fasta_desc of protein graph searches
)

// DefaultFeatureKeywords are the UniProt feature names that mark a
// protein graph header as explained by a feature
var DefaultFeatureKeywords = []string{"CONFLICT", "SIGNAL", "INIT_MET", "PROPEP",
	"PEPTIDE", "MUTAGEN", "VARIANT", "CHAIN"}

var (
	graphHeaderPattern = regexp.MustCompile(`[A-Z0-9\-_]+?\(.*?\)`)
	varModPattern      = regexp.MustCompile(`VARMOD\[.*?\],?`)
)

// Options configure the classification
type Options struct {
	// Count references to the same protein as one (a peptide can occur
	// more than once in a single protein)
	SameProteinAsUnique bool
	// Ignore variable modifications in graph headers, so that two
	// references that only differ in a VARMOD are one
	RemoveVariableMods bool
	FeatureKeywords    []string
}

// DefaultOptions returns the options used when nothing is specified
func DefaultOptions() Options {
	return Options{
		SameProteinAsUnique: true,
		RemoveVariableMods:  true,
		FeatureKeywords:     DefaultFeatureKeywords,
	}
}

// Result of classifying one protein set. For a non-empty set exactly
// one of Unique and Shared is true.
type Result struct {
	Unique        bool
	Shared        bool
	FeatureUnique bool
	FeatureShared bool
}

// Classifier classifies the protein column of a PSM
type Classifier interface {
	Classify(refs string) Result
}

// New returns the classifier for kind
func New(kind Kind, opts Options) Classifier {
	if kind == GraphHeaders {
		return HeaderClassifier{opts: opts}
	}
	return AccessionClassifier{opts: opts}
}

// AccessionClassifier classifies comma separated accession lists
type AccessionClassifier struct {
	opts Options
}

// Classify implements Classifier. Feature flags are always false.
func (c AccessionClassifier) Classify(refs string) Result {
	var accessions []string
	for _, acc := range strings.Split(refs, ",") {
		if acc = strings.TrimSpace(acc); acc != "" {
			accessions = append(accessions, acc)
		}
	}
	n := len(accessions)
	if c.opts.SameProteinAsUnique {
		n = countDistinct(accessions, func(s string) string { return s })
	}
	return Result{Unique: n == 1, Shared: n > 1}
}

// HeaderClassifier classifies protein graph headers
type HeaderClassifier struct {
	opts Options
}

// Classify implements Classifier
func (c HeaderClassifier) Classify(refs string) Result {
	entries := graphHeaderPattern.FindAllString(strings.ReplaceAll(refs, " ", ""), -1)

	n := len(entries)
	switch {
	case c.opts.SameProteinAsUnique:
		n = countDistinct(entries, accessionOf)
	case c.opts.RemoveVariableMods:
		n = countDistinct(entries, withoutVarMods)
	}

	var r Result
	r.Unique = n == 1
	r.Shared = n > 1
	if n > 0 && c.allFeatures(entries) {
		r.FeatureUnique = r.Unique
		r.FeatureShared = r.Shared
	}
	return r
}

// allFeatures reports whether every entry names at least one feature
func (c HeaderClassifier) allFeatures(entries []string) bool {
	for _, e := range entries {
		found := false
		for _, kw := range c.opts.FeatureKeywords {
			if strings.Contains(e, kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// accessionOf returns the accession of a graph header entry "ACC(...)"
func accessionOf(entry string) string {
	if i := strings.IndexByte(entry, '('); i >= 0 {
		return entry[:i]
	}
	return entry
}

func withoutVarMods(entry string) string {
	return strings.ReplaceAll(varModPattern.ReplaceAllString(entry, ""), ",", "")
}

func countDistinct(items []string, key func(string) string) int {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		seen[key(it)] = struct{}{}
	}
	return len(seen)
}
