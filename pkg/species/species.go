// Package species checks scientific names of species with a pool of
// gnparser instances. This is a pure package, parsing is computation,
// not I/O.
package species

import (
	"runtime"
	"strings"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
)

// Report is the result of a name check.
type Report struct {
	// Name is the checked name, trimmed.
	Name string

	// Parsed is false if the name is not recognized as a scientific name.
	Parsed bool

	// Canonical is the simple canonical form, for example "Mus musculus"
	// for "Mus musculus Linnaeus, 1758".
	Canonical string

	// Tail is the part of the name the parser could not interpret.
	Tail string

	// Quality is the parsing quality from 1 (best) to 4, 0 for
	// unparsed names.
	Quality int
}

// OK is true for names parsed completely.
func (r Report) OK() bool {
	return r.Parsed && r.Tail == ""
}

// Checker parses scientific names.
type Checker interface {
	// Check parses a name. Empty names return an empty Report.
	Check(name string) Report

	// Close releases parsers. The Checker must not be used afterwards.
	Close()
}

type pool struct {
	ch chan gnparser.GNparser
}

// New creates a Checker with the given number of parsers.
// If jobsNum is 0, it defaults to runtime.NumCPU(). Animal names
// follow the zoological code.
func New(jobsNum int) Checker {
	poolSize := jobsNum
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}

	cfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Zoological))
	return &pool{ch: gnparser.NewPool(cfg, poolSize)}
}

// Check is safe for concurrent use. It blocks while all parsers are
// busy.
func (p *pool) Check(name string) Report {
	res := Report{Name: strings.TrimSpace(name)}
	if res.Name == "" {
		return res
	}

	parser := <-p.ch
	parsed := parser.ParseName(res.Name)
	p.ch <- parser

	res.Parsed = parsed.Parsed
	res.Quality = parsed.ParseQuality
	res.Tail = strings.TrimSpace(parsed.Tail)
	if parsed.Canonical != nil {
		res.Canonical = parsed.Canonical.Simple
	}
	return res
}

func (p *pool) Close() {
	if p.ch == nil {
		return
	}
	close(p.ch)
	for range p.ch {
	}
	p.ch = nil
}
