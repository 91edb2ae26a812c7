// Package ioddl turns resolved tables into PostgreSQL DDL with the atlas
// planner.
package ioddl

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"github.com/gnames/gnanimal/pkg/entity"
	"github.com/gnames/gnanimal/pkg/schema"
)

// Table converts a resolved table to an atlas table. Referenced tables
// become stubs that carry only the referenced columns.
func Table(t *schema.Table) (*atlas.Table, error) {
	res := atlas.NewTable(t.SQLName).SetSchema(atlas.New(t.DBSchema))
	if t.Comment != "" {
		res.SetComment(t.Comment)
	}

	cols := make(map[string]*atlas.Column, len(t.Columns))
	for _, c := range t.Columns {
		col, err := column(c)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.QualifiedName(), err)
		}
		res.AddColumns(col)
		cols[c.Name] = col
		if c.Type.Kind == entity.EnumKind {
			res.AddChecks(enumCheck(t.SQLName, c))
		}
	}

	pk := make([]*atlas.Column, len(t.PrimaryKey))
	for i, v := range t.PrimaryKey {
		pk[i] = cols[v]
	}
	res.SetPrimaryKey(atlas.NewPrimaryKey(pk...))

	for _, fk := range t.ForeignKeys {
		ref, err := stub(fk)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.QualifiedName(), err)
		}
		afk := atlas.NewForeignKey(fk.Name).
			SetTable(res).
			SetRefTable(ref).
			SetOnUpdate(atlas.Cascade).
			SetOnDelete(atlas.Restrict)
		for i, v := range fk.Columns {
			afk.AddColumns(cols[v])
			afk.AddRefColumns(ref.Columns[i])
		}
		res.AddForeignKeys(afk)
	}
	return res, nil
}

// stub creates a table with only referenced columns of a foreign key.
func stub(fk schema.ForeignKey) (*atlas.Table, error) {
	res := atlas.NewTable(fk.RefTable).SetSchema(atlas.New(fk.RefSchema))
	for i, v := range fk.RefColumns {
		typ, err := columnType(fk.RefTypes[i])
		if err != nil {
			return nil, err
		}
		res.AddColumns(&atlas.Column{
			Name: v,
			Type: &atlas.ColumnType{Type: typ},
		})
	}
	return res, nil
}

func column(c schema.Column) (*atlas.Column, error) {
	typ, err := columnType(c.Type)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", c.Name, err)
	}
	res := &atlas.Column{
		Name: c.Name,
		Type: &atlas.ColumnType{Type: typ, Null: c.Nullable},
	}
	if c.HasDefault {
		res.SetDefault(&atlas.Literal{V: c.Default})
	}
	if c.Comment != "" {
		res.SetComment(c.Comment)
	}
	return res, nil
}

// columnType maps declared types to PostgreSQL ones. Enums are stored
// as varchar wide enough for the longest value and restricted by a
// CHECK constraint.
func columnType(t entity.Type) (atlas.Type, error) {
	switch t.Kind {
	case entity.VarcharKind:
		return &atlas.StringType{T: postgres.TypeCharVar, Size: t.Size}, nil
	case entity.EnumKind:
		var size int
		for _, v := range t.Values {
			size = max(size, len(v))
		}
		return &atlas.StringType{T: postgres.TypeCharVar, Size: size}, nil
	case entity.DateKind:
		return &atlas.TimeType{T: postgres.TypeDate}, nil
	case entity.DatetimeKind:
		return &atlas.TimeType{T: postgres.TypeTimestamp}, nil
	case entity.BoolKind:
		return &atlas.BoolType{T: postgres.TypeBoolean}, nil
	case entity.TinyIntKind:
		return &atlas.IntegerType{T: postgres.TypeSmallInt}, nil
	case entity.IntKind:
		return &atlas.IntegerType{T: postgres.TypeInteger}, nil
	case entity.FloatKind:
		return &atlas.FloatType{T: postgres.TypeReal}, nil
	case entity.DecimalKind:
		return &atlas.DecimalType{
			T:         postgres.TypeNumeric,
			Precision: t.Size,
			Scale:     t.Scale,
		}, nil
	}
	return nil, fmt.Errorf("%w: unsupported type %s", entity.ErrInvalid, t)
}

func enumCheck(table string, c schema.Column) *atlas.Check {
	vals := make([]string, len(c.Type.Values))
	for i, v := range c.Type.Values {
		vals[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	expr := fmt.Sprintf("%s IN (%s)",
		schema.QuoteIdent(c.Name), strings.Join(vals, ", "))
	return atlas.NewCheck().
		SetName(table + "_" + c.Name + "_check").
		SetExpr(expr)
}

// PlanSchema returns the statement that creates a database schema if it
// does not exist.
func PlanSchema(ctx context.Context, dbSchema string) ([]string, error) {
	change := &atlas.AddSchema{
		S:     atlas.New(dbSchema),
		Extra: []atlas.Clause{&atlas.IfNotExists{}},
	}
	return plan(ctx, "schema_"+dbSchema, change)
}

// PlanTable returns statements that create the table with its keys,
// constraints and comments if it does not exist.
func PlanTable(ctx context.Context, t *schema.Table) ([]string, error) {
	at, err := Table(t)
	if err != nil {
		return nil, PlanError(t.QualifiedName(), err)
	}
	change := &atlas.AddTable{
		T:     at,
		Extra: []atlas.Clause{&atlas.IfNotExists{}},
	}
	return plan(ctx, t.SQLName, change)
}

// PlanModules returns statements for schemas and tables of the given
// modules in activation order. Empty modules means all resolved modules.
func PlanModules(
	ctx context.Context,
	res *schema.Resolved,
	modules ...string,
) ([]string, error) {
	var stmts []string
	for _, m := range res.Order {
		if len(modules) > 0 && !slices.Contains(modules, m) {
			continue
		}
		sch, err := PlanSchema(ctx, res.Schemas[m])
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, sch...)
		for _, t := range res.Tables[m] {
			tbl, err := PlanTable(ctx, t)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, tbl...)
		}
	}
	return stmts, nil
}

func plan(ctx context.Context, name string, change atlas.Change) ([]string, error) {
	p, err := postgres.DefaultPlan.PlanChanges(ctx, name, []atlas.Change{change})
	if err != nil {
		return nil, PlanError(name, err)
	}
	res := make([]string, len(p.Changes))
	for i, v := range p.Changes {
		res[i] = v.Cmd
	}
	return res, nil
}
