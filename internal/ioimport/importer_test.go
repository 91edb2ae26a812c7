package ioimport_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/internal/iodb"
	"github.com/gnames/gnanimal/internal/ioimport"
	"github.com/gnames/gnanimal/internal/iotesting"
	"github.com/gnames/gnanimal/pkg/element"
	"github.com/gnames/gnanimal/pkg/entity"
	"github.com/gnames/gnanimal/pkg/errcode"
	"github.com/gnames/gnanimal/pkg/lifecycle"
	"github.com/gnames/gnanimal/pkg/linking"
	"github.com/gnames/gnanimal/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const subjects = `
subject.Subject.Line:
  - subject: S1
    line: L1
subject.Subject:
  - subject: S1
    sex: M
    subject_birth_date: "2020-01-02"
  - subject: S2
    sex: F
    subject_birth_date: "2020-02-03"
  - subject: S3
    sex: U
    subject_birth_date: "2020-03-04"
    subject_description: runt
`

func labTable(name, key string) *entity.Table {
	return &entity.Table{
		Name: name,
		Tier: entity.Manual,
		Key:  []entity.Field{entity.Attr(key, entity.Varchar(32))},
	}
}

func resolved(t *testing.T) *schema.Resolved {
	t.Helper()
	link, err := linking.NewBuilder().
		Lab("lab", labTable("Lab", "lab")).
		User("lab", labTable("User", "user")).
		Protocol("lab", labTable("Protocol", "protocol")).
		Source("lab", labTable("Source", "source")).
		Build()
	require.NoError(t, err)

	cat, err := element.Catalog()
	require.NoError(t, err)
	res, err := cat.Resolve("subject", map[string]string{"subject": "subject"}, link)
	require.NoError(t, err)
	return res
}

func newImporter(
	t *testing.T,
	opts ...ioimport.Option,
) (lifecycle.Importer, sqlmock.Sqlmock) {
	t.Helper()
	gormDB, mock := iotesting.MockDB(t)
	opts = append(opts, ioimport.OptProgress(false))
	return ioimport.NewImporter(iodb.NewFromGORM(gormDB), resolved(t), opts...), mock
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func assertCode(t *testing.T, err error, code gn.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "error should be *gn.Error")
	assert.Equal(t, code, gnErr.Code)
}

func TestImport(t *testing.T) {
	imp, mock := newImporter(t)

	insertPair := `INSERT INTO "subject"."subject" ` +
		`("sex", "subject", "subject_birth_date") ` +
		`VALUES ($1, $2, $3), ($4, $5, $6)`
	insertOne := `INSERT INTO "subject"."subject" ` +
		`("sex", "subject", "subject_birth_date", "subject_description") ` +
		`VALUES ($1, $2, $3, $4)`

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertPair)).
		WithArgs("M", "S1", "2020-01-02", "F", "S2", "2020-02-03").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(insertOne)).
		WithArgs("U", "S3", "2020-03-04", "runt").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO "subject"."subject__line" ("line", "subject") VALUES ($1, $2)`,
	)).
		WithArgs("L1", "S1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	stats, err := imp.Import(context.Background(), writeFile(t, subjects))
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, map[string]int{
		"subject.Subject":      3,
		"subject.Subject.Line": 1,
	}, stats.Tables)
}

func TestImportSkipDuplicates(t *testing.T) {
	imp, mock := newImporter(t, ioimport.OptSkipDuplicates(true))
	content := `
subject.Strain:
  - strain: C57BL6
`
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO "subject"."strain" ("strain") VALUES ($1) ON CONFLICT DO NOTHING`,
	)).
		WithArgs("C57BL6").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	stats, err := imp.Import(context.Background(), writeFile(t, content))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

func TestImportRollback(t *testing.T) {
	imp, mock := newImporter(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "subject"."subject"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO "subject"."subject"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "subject"."subject__line"`).
		WillReturnError(errors.New("violates foreign key constraint"))
	mock.ExpectRollback()

	_, err := imp.Import(context.Background(), writeFile(t, subjects))
	assertCode(t, err, errcode.ImportInsertError)
}

func TestImportBadInput(t *testing.T) {
	tests := []struct {
		msg     string
		content string
		code    gn.ErrorCode
	}{
		{
			"unknown table",
			"subject.Cage:\n  - cage: 1\n",
			errcode.ImportUnknownTableError,
		},
		{
			"table of not activated module",
			"surgery.Surgery:\n  - subject: S1\n",
			errcode.ImportUnknownTableError,
		},
		{
			"unknown column",
			"subject.Strain:\n  - strain: C57BL6\n    color: black\n",
			errcode.ImportUnknownColumnError,
		},
		{
			"empty row",
			"subject.Strain:\n  - strain: C57BL6\n  - {}\n",
			errcode.ImportEmptyRowError,
		},
		{
			"null row",
			"subject.Strain:\n  - strain: C57BL6\n  -\n",
			errcode.ImportEmptyRowError,
		},
		{
			"not yaml",
			"subject.Strain: [",
			errcode.ImportReadFileError,
		},
		{
			"not a map of tables",
			"- subject: S1\n",
			errcode.ImportReadFileError,
		},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			imp, _ := newImporter(t)
			_, err := imp.Import(context.Background(), writeFile(t, v.content))
			assertCode(t, err, v.code)
		})
	}
}

func TestImportMissingFile(t *testing.T) {
	imp, _ := newImporter(t)
	_, err := imp.Import(context.Background(), filepath.Join(t.TempDir(), "none.yaml"))
	assertCode(t, err, errcode.ReadFileError)
}

func TestImportEmpty(t *testing.T) {
	imp, _ := newImporter(t)
	stats, err := imp.Import(context.Background(), writeFile(t, "subject.Strain: []\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, stats.Tables)
}

func TestImportBatchSize(t *testing.T) {
	imp, mock := newImporter(t, ioimport.OptBatchSize(1))
	content := `
subject.Strain:
  - strain: C57BL6
  - strain: BALBc
`
	mock.ExpectBegin()
	for _, v := range []string{"C57BL6", "BALBc"} {
		mock.ExpectExec(regexp.QuoteMeta(
			`INSERT INTO "subject"."strain" ("strain") VALUES ($1)`,
		)).
			WithArgs(v).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	stats, err := imp.Import(context.Background(), writeFile(t, content))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
}
