package ioschema_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/internal/iodb"
	"github.com/gnames/gnanimal/internal/ioddl"
	"github.com/gnames/gnanimal/internal/ioschema"
	"github.com/gnames/gnanimal/internal/iotesting"
	"github.com/gnames/gnanimal/pkg/activation"
	"github.com/gnames/gnanimal/pkg/element"
	"github.com/gnames/gnanimal/pkg/entity"
	"github.com/gnames/gnanimal/pkg/errcode"
	"github.com/gnames/gnanimal/pkg/lifecycle"
	"github.com/gnames/gnanimal/pkg/linking"
	"github.com/gnames/gnanimal/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labTable(name, key string) *entity.Table {
	return &entity.Table{
		Name: name,
		Tier: entity.Manual,
		Key:  []entity.Field{entity.Attr(key, entity.Varchar(32))},
	}
}

func link(t *testing.T) *linking.Module {
	t.Helper()
	res, err := linking.NewBuilder().
		Lab("lab", labTable("Lab", "lab")).
		User("lab", labTable("User", "user")).
		Protocol("lab", labTable("Protocol", "protocol")).
		Source("lab", labTable("Source", "source")).
		Build()
	require.NoError(t, err)
	return res
}

func surgery(t *testing.T) *schema.Resolved {
	t.Helper()
	cat, err := element.Catalog()
	require.NoError(t, err)
	res, err := cat.Resolve("surgery", map[string]string{
		"subject": "subject",
		"surgery": "surgery",
	}, link(t))
	require.NoError(t, err)
	return res
}

func newMaterializer(t *testing.T) (lifecycle.Materializer, sqlmock.Sqlmock) {
	gormDB, mock := iotesting.MockDB(t)
	return ioschema.NewMaterializer(iodb.NewFromGORM(gormDB)), mock
}

func TestCreateSchema(t *testing.T) {
	m, mock := newMaterializer(t)
	mock.ExpectExec(regexp.QuoteMeta(`CREATE SCHEMA IF NOT EXISTS "surgery"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := m.CreateSchema(context.Background(), "surgery")
	assert.NoError(t, err)
}

func TestCreateSchemaError(t *testing.T) {
	m, mock := newMaterializer(t)
	dbErr := errors.New("permission denied")
	mock.ExpectExec(`CREATE SCHEMA`).WillReturnError(dbErr)

	err := m.CreateSchema(context.Background(), "surgery")
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.SchemaCreateError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, dbErr)
}

func TestTableExists(t *testing.T) {
	m, mock := newMaterializer(t)
	tbl, _ := surgery(t).Table("surgery.Hemisphere")

	mock.ExpectQuery(`information_schema\.tables`).
		WithArgs("surgery", "hemisphere").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	res, err := m.TableExists(context.Background(), tbl)
	require.NoError(t, err)
	assert.False(t, res)
}

func TestCreateTable(t *testing.T) {
	m, mock := newMaterializer(t)
	ctx := context.Background()
	tbl, ok := surgery(t).Table("surgery.Implantation")
	require.True(t, ok)

	stmts, err := ioddl.PlanTable(ctx, tbl)
	require.NoError(t, err)
	require.Greater(t, len(stmts), 1, "table and comments")

	mock.ExpectBegin()
	for _, v := range stmts {
		mock.ExpectExec(regexp.QuoteMeta(v)).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()

	assert.NoError(t, m.CreateTable(ctx, tbl))
}

func TestCreateTableRollback(t *testing.T) {
	m, mock := newMaterializer(t)
	tbl, _ := surgery(t).Table("surgery.Implantation")
	dbErr := errors.New(`relation "lab.user" does not exist`)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "surgery"."implantation"`).
		WillReturnError(dbErr)
	mock.ExpectRollback()

	err := m.CreateTable(context.Background(), tbl)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.SchemaCreateError, gnErr.Code)
	assert.Equal(t, []any{"surgery.Implantation"}, gnErr.Vars)
	assert.ErrorIs(t, gnErr.Err, dbErr)
}

func TestSeedContents(t *testing.T) {
	m, mock := newMaterializer(t)
	res := surgery(t)
	ctx := context.Background()

	hemi, _ := res.Table("surgery.Hemisphere")
	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO "surgery"."hemisphere" ("hemisphere") VALUES ($1), ($2), ($3) ON CONFLICT DO NOTHING`,
	)).
		WithArgs("left", "right", "middle").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := m.SeedContents(ctx, hemi)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	impl, _ := res.Table("surgery.ImplantationType")
	mock.ExpectExec(`INSERT INTO "surgery"."implantation_type" \("implant_type", "implant_description"\)`).
		WithArgs("ephys", "electophysiology", "fiber", "fiber photometry",
			"opto", "optogenetic pertubation").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err = m.SeedContents(ctx, impl)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// nothing to seed, no SQL
	region, _ := res.Table("surgery.BrainRegion")
	n, err = m.SeedContents(ctx, region)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSeedContentsError(t *testing.T) {
	m, mock := newMaterializer(t)
	hemi, _ := surgery(t).Table("surgery.Hemisphere")
	mock.ExpectExec(`INSERT INTO`).WillReturnError(errors.New("no table"))

	_, err := m.SeedContents(context.Background(), hemi)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.SchemaSeedError, gnErr.Code)
}

// TestActivateIntegration activates surgery with its upstream subject
// module in a real database. Linking tables are created first in the
// "lab" schema.
func TestActivateIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, iotesting.GetTestDatabaseConfig()))
	defer op.Close()

	gormDB, err := op.GORM()
	require.NoError(t, err)
	for _, v := range []string{
		`DROP SCHEMA IF EXISTS surgery CASCADE`,
		`DROP SCHEMA IF EXISTS subject CASCADE`,
		`CREATE SCHEMA IF NOT EXISTS lab`,
		`CREATE TABLE IF NOT EXISTS lab.lab (lab varchar(32) PRIMARY KEY)`,
		`CREATE TABLE IF NOT EXISTS lab.user ("user" varchar(32) PRIMARY KEY)`,
		`CREATE TABLE IF NOT EXISTS lab.protocol (protocol varchar(32) PRIMARY KEY)`,
		`CREATE TABLE IF NOT EXISTS lab.source (source varchar(32) PRIMARY KEY)`,
	} {
		require.NoError(t, gormDB.Exec(v).Error, v)
	}

	cat, err := element.Catalog()
	require.NoError(t, err)
	req := activation.Request{
		Schemas:      map[string]string{"subject": "subject", "surgery": "surgery"},
		CreateSchema: true,
		CreateTables: true,
		Linking:      link(t),
	}

	act := activation.New(cat, ioschema.NewMaterializer(op))
	h, err := act.Activate(ctx, "surgery", req)
	require.NoError(t, err)
	assert.True(t, h.Ready())
	assert.Equal(t, 6+3+3, h.Seeded)

	// a new activator finds everything in place
	req.CreateSchema, req.CreateTables = false, false
	h, err = activation.New(cat, ioschema.NewMaterializer(op)).
		Activate(ctx, "surgery", req)
	require.NoError(t, err)
	assert.True(t, h.Ready())
	assert.Empty(t, h.Created)
}
