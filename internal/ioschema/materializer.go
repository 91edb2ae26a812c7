// Package ioschema implements lifecycle.Materializer for PostgreSQL.
// This is an impure I/O package: statements come from the atlas planner
// in ioddl and run through GORM.
package ioschema

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gnames/gnanimal/internal/ioddl"
	"github.com/gnames/gnanimal/pkg/db"
	"github.com/gnames/gnanimal/pkg/lifecycle"
	"github.com/gnames/gnanimal/pkg/schema"
	"gorm.io/gorm"
)

// materializer implements the lifecycle.Materializer interface.
type materializer struct {
	operator db.Operator
}

// NewMaterializer creates a new Materializer.
func NewMaterializer(op db.Operator) lifecycle.Materializer {
	return &materializer{operator: op}
}

// SchemaExists checks if a database schema exists.
func (m *materializer) SchemaExists(
	ctx context.Context,
	dbSchema string,
) (bool, error) {
	return m.operator.SchemaExists(ctx, dbSchema)
}

// CreateSchema creates a database schema if it does not exist.
func (m *materializer) CreateSchema(
	ctx context.Context,
	dbSchema string,
) error {
	stmts, err := ioddl.PlanSchema(ctx, dbSchema)
	if err != nil {
		return err
	}

	gormDB, err := m.operator.GORM()
	if err != nil {
		return err
	}

	for _, v := range stmts {
		if err = gormDB.WithContext(ctx).Exec(v).Error; err != nil {
			return CreateSchemaError(dbSchema, err)
		}
	}
	return nil
}

// TableExists checks if a resolved table exists.
func (m *materializer) TableExists(
	ctx context.Context,
	t *schema.Table,
) (bool, error) {
	return m.operator.TableExists(ctx, t.DBSchema, t.SQLName)
}

// CreateTable creates the table with its keys, constraints and comments
// in one transaction.
func (m *materializer) CreateTable(
	ctx context.Context,
	t *schema.Table,
) error {
	stmts, err := ioddl.PlanTable(ctx, t)
	if err != nil {
		return err
	}

	gormDB, err := m.operator.GORM()
	if err != nil {
		return err
	}

	err = gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, v := range stmts {
			slog.Debug("executing DDL", "table", t.QualifiedName(), "sql", v)
			if err := tx.Exec(v).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return CreateTableError(t.QualifiedName(), err)
	}
	return nil
}

// SeedContents inserts lookup contents of a table. Rows with existing
// primary keys are skipped.
func (m *materializer) SeedContents(
	ctx context.Context,
	t *schema.Table,
) (int, error) {
	if len(t.Contents) == 0 {
		return 0, nil
	}

	gormDB, err := m.operator.GORM()
	if err != nil {
		return 0, err
	}

	q, args, err := seedSQL(t)
	if err != nil {
		return 0, SeedError(t.QualifiedName(), err)
	}

	res := gormDB.WithContext(ctx).Exec(q, args...)
	if res.Error != nil {
		return 0, SeedError(t.QualifiedName(), res.Error)
	}
	if res.RowsAffected > 0 {
		slog.Info("lookup contents are seeded",
			"table", t.QualifiedName(), "rows", res.RowsAffected)
	}
	return int(res.RowsAffected), nil
}

// seedSQL builds a multi-row INSERT that ignores conflicts on the
// primary key.
func seedSQL(t *schema.Table) (string, []any, error) {
	cols := t.ColumnNames()
	quoted := make([]string, len(cols))
	for i, v := range cols {
		quoted[i] = schema.QuoteIdent(v)
	}
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"

	rows := make([]string, len(t.Contents))
	args := make([]any, 0, len(cols)*len(t.Contents))
	for i, v := range t.Contents {
		if len(v) != len(cols) {
			return "", nil, fmt.Errorf(
				"row %d has %d values, table has %d columns",
				i+1, len(v), len(cols),
			)
		}
		rows[i] = row
		args = append(args, v...)
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s ON CONFLICT DO NOTHING",
		t.FullSQLName(),
		strings.Join(quoted, ", "),
		strings.Join(rows, ", "),
	)
	return q, args, nil
}
