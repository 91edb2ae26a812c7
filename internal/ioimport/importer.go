// Package ioimport loads rows of activated tables from YAML files.
package ioimport

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnanimal/internal/iofs"
	"github.com/gnames/gnanimal/pkg/db"
	"github.com/gnames/gnanimal/pkg/lifecycle"
	"github.com/gnames/gnanimal/pkg/schema"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// BatchSize is the default maximum number of rows in one INSERT.
const BatchSize = 500

// Row maps column names to values.
type Row map[string]any

// Data maps qualified table names, like "subject.Subject.Line", to rows.
type Data map[string][]Row

type importer struct {
	op             db.Operator
	res            *schema.Resolved
	batchSize      int
	skipDuplicates bool
	showProgress   bool
}

// Option configures the importer.
type Option func(*importer)

// OptBatchSize sets the maximum number of rows in one INSERT.
func OptBatchSize(i int) Option {
	return func(imp *importer) {
		if i > 0 {
			imp.batchSize = i
		}
	}
}

// OptSkipDuplicates makes rows with existing primary keys to be
// ignored instead of failing the import.
func OptSkipDuplicates(b bool) Option {
	return func(i *importer) {
		i.skipDuplicates = b
	}
}

// OptProgress turns the progress bar on or off.
func OptProgress(b bool) Option {
	return func(i *importer) {
		i.showProgress = b
	}
}

// NewImporter creates an Importer for tables of activated modules.
func NewImporter(
	op db.Operator,
	res *schema.Resolved,
	opts ...Option,
) lifecycle.Importer {
	imp := &importer{
		op:           op,
		res:          res,
		batchSize:    BatchSize,
		showProgress: true,
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Import reads a YAML file and inserts its rows in one transaction.
func (i *importer) Import(
	ctx context.Context,
	path string,
) (*lifecycle.ImportStats, error) {
	bs, err := iofs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data Data
	if err = yaml.Unmarshal(bs, &data); err != nil {
		return nil, ReadFileError(path, err)
	}

	return i.importData(ctx, data)
}

// importData inserts rows in the creation order of their tables, so
// referenced rows come first.
func (i *importer) importData(
	ctx context.Context,
	data Data,
) (*lifecycle.ImportStats, error) {
	tables, err := i.validate(data)
	if err != nil {
		return nil, err
	}

	stats := &lifecycle.ImportStats{Tables: make(map[string]int)}
	var total int
	for _, t := range tables {
		total += len(data[t.QualifiedName()])
	}
	if total == 0 {
		slog.Warn("Nothing to import")
		return stats, nil
	}

	gormDB, err := i.op.GORM()
	if err != nil {
		return nil, err
	}

	var bar progress = noProgress{}
	if i.showProgress {
		bar = newProgressBar(total, "Importing rows: ")
	}
	defer bar.Finish()

	err = gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range tables {
			rows := data[t.QualifiedName()]
			n, err := i.insert(tx, t, rows, bar)
			if err != nil {
				return err
			}
			stats.Tables[t.QualifiedName()] = n
			stats.Total += n
			slog.Info("Imported rows",
				"table", t.QualifiedName(),
				"count", humanize.Comma(int64(n)),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Import is finished", "count", humanize.Comma(int64(stats.Total)))
	return stats, nil
}

// validate checks table and column names and returns the tables found
// in data in creation order.
func (i *importer) validate(data Data) ([]*schema.Table, error) {
	var res []*schema.Table
	for name, rows := range data {
		t, ok := i.res.Table(name)
		if !ok {
			return nil, UnknownTableError(name)
		}
		for n, row := range rows {
			if len(row) == 0 {
				return nil, EmptyRowError(name, n+1)
			}
			for col := range row {
				if _, ok := t.Column(col); !ok {
					return nil, UnknownColumnError(name, col, n+1)
				}
			}
		}
	}

	for _, t := range i.res.All() {
		if _, ok := data[t.QualifiedName()]; ok {
			res = append(res, t)
		}
	}
	return res, nil
}

// insert writes rows of one table. Consecutive rows with the same set of
// columns share an INSERT statement.
func (i *importer) insert(
	tx *gorm.DB,
	t *schema.Table,
	rows []Row,
	bar progress,
) (int, error) {
	var count int
	for start := 0; start < len(rows); {
		cols := rowColumns(rows[start])
		end := start + 1
		for end < len(rows) && end-start < i.batchSize &&
			slices.Equal(cols, rowColumns(rows[end])) {
			end++
		}

		q, args := i.insertSQL(t, cols, rows[start:end])
		res := tx.Exec(q, args...)
		if res.Error != nil {
			return 0, InsertError(t.QualifiedName(), res.Error)
		}
		count += int(res.RowsAffected)
		bar.Add(end - start)
		start = end
	}
	return count, nil
}

func (i *importer) insertSQL(
	t *schema.Table,
	cols []string,
	rows []Row,
) (string, []any) {
	quoted := make([]string, len(cols))
	for j, v := range cols {
		quoted[j] = schema.QuoteIdent(v)
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"

	tuples := make([]string, len(rows))
	args := make([]any, 0, len(cols)*len(rows))
	for j, row := range rows {
		tuples[j] = tuple
		for _, c := range cols {
			args = append(args, row[c])
		}
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		t.FullSQLName(),
		strings.Join(quoted, ", "),
		strings.Join(tuples, ", "),
	)
	if i.skipDuplicates {
		q += " ON CONFLICT DO NOTHING"
	}
	return q, args
}

func rowColumns(row Row) []string {
	res := make([]string, 0, len(row))
	for k := range row {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}
