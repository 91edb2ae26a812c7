package ioexport

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/gnanimal/pkg/lifecycle"
	"github.com/gnames/gnanimal/pkg/linking"
	"github.com/gnames/gnanimal/pkg/schema"
)

// speciesAlias names the species column of the joined Line record. It
// is not a part of the subject description.
const speciesAlias = "nwb_line_species"

// subjectTables are the tables export reads.
type subjectTables struct {
	subject *schema.Table
	// parts are left-joined with the subject: Line, Strain, Source.
	parts      []*schema.Table
	line       *schema.Table
	lineAllele *schema.Table
}

func newSubjectTables(res *schema.Resolved) (*subjectTables, error) {
	names := []string{
		"subject.Subject",
		"subject.Subject.Line",
		"subject.Subject.Strain",
		"subject.Subject.Source",
		"subject.Line",
		"subject.Line.Allele",
	}
	tables := make([]*schema.Table, len(names))
	for i, v := range names {
		t, ok := res.Table(v)
		if !ok {
			return nil, linking.ConfigurationError(
				fmt.Sprintf("table '%s' is not activated", v), nil,
			)
		}
		tables[i] = t
	}
	return &subjectTables{
		subject:    tables[0],
		parts:      tables[1:4],
		line:       tables[4],
		lineAllele: tables[5],
	}, nil
}

// where builds the WHERE clause for a filter on key columns of Subject.
// Keys are sorted so that arguments have a stable order.
func (st *subjectTables) where(alias string, f lifecycle.Filter) (string, []any, error) {
	if len(f) == 0 {
		return "", nil, linking.ConfigurationError(
			"subject filter is empty", nil,
		)
	}

	keys := make([]string, 0, len(f))
	for k := range f {
		if !slices.Contains(st.subject.PrimaryKey, k) {
			return "", nil, linking.ConfigurationError(
				fmt.Sprintf(
					"'%s' is not a key attribute of Subject, use one of: %s",
					k, strings.Join(st.subject.PrimaryKey, ", "),
				),
				nil,
			)
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	conds := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		conds[i] = fmt.Sprintf("%s.%s = ?", alias, schema.QuoteIdent(k))
		args[i] = f[k]
	}
	return strings.Join(conds, " AND "), args, nil
}

// subjectSQL selects the subject with its Line, Strain and Source parts
// and the species of its line. At most two rows are fetched, that is
// enough to tell one match from many.
func (st *subjectTables) subjectSQL(where string) string {
	var cols []string
	for _, c := range st.subject.Columns {
		cols = append(cols, "s."+schema.QuoteIdent(c.Name))
	}

	var joins []string
	var lineAlias string
	for i, p := range st.parts {
		alias := fmt.Sprintf("p%d", i+1)
		for _, c := range p.Columns {
			if !c.InKey {
				cols = append(cols, alias+"."+schema.QuoteIdent(c.Name))
			}
		}
		joins = append(joins, fmt.Sprintf(
			"LEFT JOIN %s %s ON %s",
			p.FullSQLName(), alias, keyJoin(alias, "s", st.subject.PrimaryKey),
		))
		if p == st.parts[0] {
			lineAlias = alias
		}
	}

	cols = append(cols, fmt.Sprintf("l.%s AS %s",
		schema.QuoteIdent("species"), schema.QuoteIdent(speciesAlias)))
	joins = append(joins, fmt.Sprintf(
		"LEFT JOIN %s l ON %s",
		st.line.FullSQLName(), st.refJoin(st.parts[0], lineAlias, "l"),
	))

	return fmt.Sprintf(
		"SELECT %s FROM %s s %s WHERE %s LIMIT 2",
		strings.Join(cols, ", "),
		st.subject.FullSQLName(),
		strings.Join(joins, " "),
		where,
	)
}

// genotypeSQL selects alleles of the line of a subject in the order of
// the Line.Allele primary key.
func (st *subjectTables) genotypeSQL(where string) string {
	order := make([]string, len(st.lineAllele.PrimaryKey))
	for i, v := range st.lineAllele.PrimaryKey {
		order[i] = "la." + schema.QuoteIdent(v)
	}
	lineKey := st.line.PrimaryKey

	return fmt.Sprintf(
		"SELECT la.%s FROM %s la JOIN %s sl ON %s JOIN %s s ON %s WHERE %s ORDER BY %s",
		schema.QuoteIdent("allele"),
		st.lineAllele.FullSQLName(),
		st.parts[0].FullSQLName(),
		keyJoin("la", "sl", lineKey),
		st.subject.FullSQLName(),
		keyJoin("sl", "s", st.subject.PrimaryKey),
		where,
		strings.Join(order, ", "),
	)
}

// refJoin joins a table with the target of its foreign key to Line.
func (st *subjectTables) refJoin(t *schema.Table, alias, refAlias string) string {
	for _, fk := range t.ForeignKeys {
		if fk.RefSchema != st.line.DBSchema || fk.RefTable != st.line.SQLName {
			continue
		}
		conds := make([]string, len(fk.Columns))
		for i := range fk.Columns {
			conds[i] = fmt.Sprintf("%s.%s = %s.%s",
				refAlias, schema.QuoteIdent(fk.RefColumns[i]),
				alias, schema.QuoteIdent(fk.Columns[i]))
		}
		return strings.Join(conds, " AND ")
	}
	return "FALSE"
}

func keyJoin(alias, other string, cols []string) string {
	conds := make([]string, len(cols))
	for i, v := range cols {
		q := schema.QuoteIdent(v)
		conds[i] = fmt.Sprintf("%s.%s = %s.%s", alias, q, other, q)
	}
	return strings.Join(conds, " AND ")
}
