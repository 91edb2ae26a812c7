package lifecycle

import (
	"context"
	"errors"

	"github.com/gnames/gnanimal/pkg/nwb"
)

var (
	// ErrNotFound is returned when a filter matches no record.
	ErrNotFound = errors.New("record not found")

	// ErrMultipleResults is returned when a filter that must identify one
	// record matches several.
	ErrMultipleResults = errors.New("multiple records found")
)

// Filter maps key attributes of a table to their values.
type Filter map[string]any

// Exporter converts subjects to NWB subject descriptors.
type Exporter interface {
	// SubjectToNWB exports one subject identified by the filter.
	// Zero or several matching subjects are errors that wrap ErrNotFound
	// or ErrMultipleResults.
	SubjectToNWB(ctx context.Context, filter Filter) (*nwb.Subject, error)

	// SubjectsToNWB exports several subjects concurrently. Results keep
	// the order of filters.
	SubjectsToNWB(ctx context.Context, filters []Filter) ([]*nwb.Subject, error)
}

// ImportStats summarizes an import.
type ImportStats struct {
	// Tables maps qualified table names to numbers of inserted rows.
	Tables map[string]int

	// Total is the number of inserted rows.
	Total int
}

// Importer loads rows into activated tables.
type Importer interface {
	// Import reads rows from a file and inserts them in one transaction.
	Import(ctx context.Context, path string) (*ImportStats, error)
}
