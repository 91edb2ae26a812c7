// Package ioexport converts subjects stored in the database to NWB
// subject descriptors.
package ioexport

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/gnames/gnanimal/pkg/db"
	"github.com/gnames/gnanimal/pkg/lifecycle"
	"github.com/gnames/gnanimal/pkg/nwb"
	"github.com/gnames/gnanimal/pkg/schema"
	"github.com/gnames/gnanimal/pkg/species"
	"github.com/gnames/gnfmt"
	"golang.org/x/sync/errgroup"
)

// GenotypeSep joins alleles of a line.
const GenotypeSep = " x "

type exporter struct {
	op     db.Operator
	tables *subjectTables
	sp     species.Checker
	jobs   int
}

// NewExporter creates an Exporter for subjects of resolved tables. The
// subject module must be activated. Species names of lines are
// exported as stored, sp only reports names it cannot parse. Batch exports run up to jobs queries at a time, 0
// means runtime.NumCPU().
func NewExporter(
	op db.Operator,
	res *schema.Resolved,
	sp species.Checker,
	jobs int,
) (lifecycle.Exporter, error) {
	st, err := newSubjectTables(res)
	if err != nil {
		return nil, err
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return &exporter{op: op, tables: st, sp: sp, jobs: jobs}, nil
}

func (e *exporter) SubjectToNWB(
	ctx context.Context,
	filter lifecycle.Filter,
) (*nwb.Subject, error) {
	where, args, err := e.tables.where("s", filter)
	if err != nil {
		return nil, err
	}

	gormDB, err := e.op.GORM()
	if err != nil {
		return nil, err
	}
	gormDB = gormDB.WithContext(ctx)

	q := e.tables.subjectSQL(where)
	rows, err := gormDB.Raw(q, args...).Rows()
	if err != nil {
		return nil, QueryError(e.tables.subject.QualifiedName(), err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, QueryError(e.tables.subject.QualifiedName(), err)
	}

	var records []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err = rows.Scan(ptrs...); err != nil {
			return nil, QueryError(e.tables.subject.QualifiedName(), err)
		}
		rec := make(map[string]any, len(cols))
		for i, c := range cols {
			rec[c] = normalize(vals[i])
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(e.tables.subject.QualifiedName(), err)
	}

	switch len(records) {
	case 0:
		return nil, NotFoundError(filter)
	case 1:
	default:
		return nil, MultipleResultsError(filter)
	}
	rec := records[0]

	res, err := e.subject(rec)
	if err != nil {
		return nil, err
	}

	if line, _ := rec["line"].(string); line != "" {
		res.Species = strings.TrimSpace(str(rec[speciesAlias]))
		e.checkSpecies(res.SubjectID, res.Species)

		var alleles []string
		err = gormDB.Raw(e.tables.genotypeSQL(where), args...).
			Scan(&alleles).Error
		if err != nil {
			return nil, QueryError(e.tables.lineAllele.QualifiedName(), err)
		}
		res.Genotype = strings.Join(alleles, GenotypeSep)
	}

	slog.Debug("Exported subject", "subject", res.SubjectID)
	return res, nil
}

func (e *exporter) checkSpecies(subject, name string) {
	if name == "" {
		return
	}
	rep := e.sp.Check(name)
	switch {
	case !rep.Parsed:
		slog.Warn("Species is not a scientific name",
			"subject", subject, "species", name)
	case rep.Tail != "":
		slog.Warn("Species has unparsed tail",
			"subject", subject, "species", name, "tail", rep.Tail)
	}
}

func (e *exporter) SubjectsToNWB(
	ctx context.Context,
	filters []lifecycle.Filter,
) ([]*nwb.Subject, error) {
	res := make([]*nwb.Subject, len(filters))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs)
	for i, f := range filters {
		g.Go(func() error {
			subj, err := e.SubjectToNWB(ctx, f)
			if err != nil {
				return err
			}
			res[i] = subj
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	slog.Info("Exported subjects", "count", len(res))
	return res, nil
}

// subject fills the fields that come from the Subject record.
func (e *exporter) subject(rec map[string]any) (*nwb.Subject, error) {
	key := e.tables.subject.PrimaryKey[0]
	res := &nwb.Subject{
		SubjectID: str(rec[key]),
		Sex:       str(rec["sex"]),
	}
	if dob, ok := rec["subject_birth_date"].(time.Time); ok {
		res.DateOfBirth = time.Date(
			dob.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC,
		)
	}

	desc := make(map[string]any, len(rec))
	for k, v := range rec {
		if k == speciesAlias {
			continue
		}
		if t, ok := v.(time.Time); ok {
			v = t.Format(time.DateOnly)
		}
		desc[k] = v
	}

	enc := gnfmt.GNjson{}
	bs, err := enc.Encode(desc)
	if err != nil {
		return nil, EncodeError("json", err)
	}
	res.Description = string(bs)
	return res, nil
}

func normalize(v any) any {
	if bs, ok := v.([]byte); ok {
		return string(bs)
	}
	return v
}

func str(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
