package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrRangeSpec = errors.New("invalid range specified")

// ErrMissingParam is returned when a required option is not given
var ErrMissingParam = errors.New("missing required option")

var (
	intRangePattern   = regexp.MustCompile(`\s*(\-?\d*):(\-?\d*)`)
	floatRangePattern = regexp.MustCompile(`\s*([-+]?[0-9]*\.?[0-9]*([eE][-+]?[0-9]+)?):([-+]?[0-9]*\.?[0-9]*([eE][-+]?[0-9]+)?)`)
)

// Parse string like "-12:6" into 2 values, -12 and 6
// Parameters min and max are the "default" min/max values,
// when a value is not specified (e.g. "-12:"), the default is assigned
func parseIntRange(r string, min int, max int) (int, int, error) {
	m := intRangePattern.FindStringSubmatch(r)
	minOut := min
	maxOut := max
	if len(m) >= 2 && m[1] != "" {
		minOut, _ = strconv.Atoi(m[1])
		if minOut < min {
			minOut = min
		}
	}
	if len(m) >= 3 && m[2] != "" {
		maxOut, _ = strconv.Atoi(m[2])
		if maxOut > max {
			maxOut = max
		}
	}
	var err error
	if minOut > maxOut {
		err = ErrRangeSpec
		minOut = maxOut
	}
	return minOut, maxOut, err
}

// Parse string like "-12.01e1:+6" into 2 values, -120.1 and 6.0
// Parameters min and max are the "default" min/max values,
// when a value is not specified (e.g. "-12.01e1:"), the default is assigned
func parseFloat64Range(r string, min float64, max float64) (
	float64, float64, error) {
	m := floatRangePattern.FindStringSubmatch(r)
	minOut := min
	maxOut := max
	if len(m) >= 2 && m[1] != "" {
		minOut, _ = strconv.ParseFloat(m[1], 64)
		if minOut < min {
			minOut = min
		}
	}
	if len(m) >= 4 && m[3] != "" {
		maxOut, _ = strconv.ParseFloat(m[3], 64)
		if maxOut > max {
			maxOut = max
		}
	}
	var err error
	if minOut > maxOut {
		err = ErrRangeSpec
		minOut = maxOut
	}
	return minOut, maxOut, err
}

// verbosityFlags adds -verbose and -quiet to fs. The returned function
// gives the verbosity level after fs is parsed.
func verbosityFlags(fs *flag.FlagSet) func() int {
	verbose := fs.Bool("verbose", false,
		`Print more verbose progress information`)
	quiet := fs.Bool("quiet", false,
		`Don't print any output except for errors`)
	return func() int {
		switch {
		case *quiet:
			return infoSilent
		case *verbose:
			return infoVerbose
		}
		return infoDefault
	}
}

// newFlagSet returns a flag set for a sub-command with a usage message
// in the style of the main program
func newFlagSet(name, args, description string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		exeName := filepath.Base(os.Args[0])
		fmt.Fprintf(fs.Output(),
			`USAGE:
  %s %s [options] %s

  %s

OPTIONS:
`, exeName, name, args, description)
		fs.PrintDefaults()
	}
	return fs
}

// requireFlags checks that all named string options are set
func requireFlags(fs *flag.FlagSet, names ...string) error {
	for _, n := range names {
		f := fs.Lookup(n)
		if f == nil || f.Value.String() == "" {
			return fmt.Errorf("%w -%s", ErrMissingParam, n)
		}
	}
	return nil
}

// sourceName returns the base name of a file without its last extension,
// e.g. "/data/run_01.comet.txt" gives "run_01.comet"
func sourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// progress prints timing information to stderr, depending on verbosity
type progress struct {
	verbosity int
	t         time.Time
}

// start announces a processing step in verbose mode
func (p *progress) start(format string, a ...interface{}) {
	if p.verbosity == infoVerbose {
		p.t = time.Now()
		fmt.Fprintf(os.Stderr, format+": ", a...)
	}
}

// done ends a step started with start
func (p *progress) done() {
	if p.verbosity == infoVerbose {
		fmt.Fprintf(os.Stderr, "%s\n", time.Since(p.t))
	}
}

// info prints a message unless in silent mode
func (p *progress) info(format string, a ...interface{}) {
	if p.verbosity != infoSilent {
		fmt.Fprintf(os.Stderr, format, a...)
	}
}

// writeFile creates path and lets write fill it
func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
