package ioexport_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/internal/iodb"
	"github.com/gnames/gnanimal/internal/ioexport"
	"github.com/gnames/gnanimal/internal/iotesting"
	"github.com/gnames/gnanimal/pkg/element"
	"github.com/gnames/gnanimal/pkg/entity"
	"github.com/gnames/gnanimal/pkg/errcode"
	"github.com/gnames/gnanimal/pkg/lifecycle"
	"github.com/gnames/gnanimal/pkg/linking"
	"github.com/gnames/gnanimal/pkg/nwb"
	"github.com/gnames/gnanimal/pkg/schema"
	"github.com/gnames/gnanimal/pkg/species"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var subjectCols = []string{
	"subject", "sex", "subject_birth_date", "subject_description",
	"line", "strain", "source", "nwb_line_species",
}

// checker accepts binomials, the rest of a name is a tail.
type checker struct {
	mu      sync.Mutex
	checked []string
}

func (c *checker) Check(name string) species.Report {
	c.mu.Lock()
	c.checked = append(c.checked, name)
	c.mu.Unlock()

	words := strings.Fields(name)
	res := species.Report{Name: name, Parsed: len(words) >= 2}
	if res.Parsed {
		res.Canonical = strings.Join(words[:2], " ")
		res.Tail = strings.Join(words[2:], " ")
	}
	return res
}

func (c *checker) Close() {}

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

func newExporter(t *testing.T) (lifecycle.Exporter, sqlmock.Sqlmock) {
	t.Helper()
	return newExporterWith(t, &checker{})
}

func newExporterWith(
	t *testing.T,
	sp species.Checker,
) (lifecycle.Exporter, sqlmock.Sqlmock) {
	t.Helper()
	gormDB, mock := iotesting.MockDB(t)
	exp, err := ioexport.NewExporter(
		iodb.NewFromGORM(gormDB), resolved(t), sp, 1,
	)
	require.NoError(t, err)
	return exp, mock
}

func expectSubject(mock sqlmock.Sqlmock, id string, rows *sqlmock.Rows) {
	mock.ExpectQuery(`FROM "subject"."subject" s LEFT JOIN "subject"."subject__line" p1`).
		WithArgs(id).
		WillReturnRows(rows)
}

func expectGenotype(mock sqlmock.Sqlmock, id string, alleles ...string) {
	rows := sqlmock.NewRows([]string{"allele"})
	for _, v := range alleles {
		rows.AddRow(v)
	}
	mock.ExpectQuery(`SELECT la."allele" FROM "subject"."line__allele" la`).
		WithArgs(id).
		WillReturnRows(rows)
}

func TestSubjectToNWB(t *testing.T) {
	exp, mock := newExporter(t)
	dob := time.Date(2020, 1, 2, 15, 30, 0, 0, time.FixedZone("EST", -5*3600))

	expectSubject(mock, "S1", sqlmock.NewRows(subjectCols).AddRow(
		"S1", "M", dob, "", "L1", "C57BL6", "jax", "Mus musculus Linnaeus, 1758",
	))
	expectGenotype(mock, "S1", "A1", "A2")

	res, err := exp.SubjectToNWB(context.Background(), lifecycle.Filter{"subject": "S1"})
	require.NoError(t, err)

	assert.Equal(t, "S1", res.SubjectID)
	assert.Equal(t, "M", res.Sex)
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), res.DateOfBirth)
	assert.Equal(t, "Mus musculus Linnaeus, 1758", res.Species)
	assert.Equal(t, "A1 x A2", res.Genotype)
	assert.JSONEq(t, `{
		"subject": "S1",
		"sex": "M",
		"subject_birth_date": "2020-01-02",
		"subject_description": "",
		"line": "L1",
		"strain": "C57BL6",
		"source": "jax"
	}`, res.Description)
}

func TestSubjectToNWBSpeciesAsStored(t *testing.T) {
	tests := []struct {
		msg, stored, species string
	}{
		{"strain", "Danio rerio AB strain", "Danio rerio AB strain"},
		{"substrain", "Mus musculus C57BL/6J", "Mus musculus C57BL/6J"},
		{"hybrid", "Mus musculus x Mus spretus", "Mus musculus x Mus spretus"},
		{"trimmed", "  Rattus norvegicus ", "Rattus norvegicus"},
		{"not a name", "mouse", "mouse"},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			c := &checker{}
			exp, mock := newExporterWith(t, c)
			expectSubject(mock, "S1", sqlmock.NewRows(subjectCols).AddRow(
				"S1", "U", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
				"", "L1", "", "", v.stored,
			))
			expectGenotype(mock, "S1")

			res, err := exp.SubjectToNWB(
				context.Background(), lifecycle.Filter{"subject": "S1"},
			)
			require.NoError(t, err)
			assert.Equal(t, v.species, res.Species)
			assert.Equal(t, []string{v.species}, c.checked)
		})
	}
}

func TestSubjectToNWBNoLine(t *testing.T) {
	exp, mock := newExporter(t)

	expectSubject(mock, "S2", sqlmock.NewRows(subjectCols).AddRow(
		"S2", "F", time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
		[]byte("albino"), nil, nil, nil, nil,
	))

	res, err := exp.SubjectToNWB(context.Background(), lifecycle.Filter{"subject": "S2"})
	require.NoError(t, err)
	assert.Empty(t, res.Species)
	assert.Empty(t, res.Genotype)
	assert.Contains(t, res.Description, `"subject_description":"albino"`)
	assert.Contains(t, res.Description, `"line":null`)
}

func TestSubjectToNWBNotFound(t *testing.T) {
	exp, mock := newExporter(t)
	expectSubject(mock, "S404", sqlmock.NewRows(subjectCols))

	_, err := exp.SubjectToNWB(context.Background(), lifecycle.Filter{"subject": "S404"})
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ExportNotFoundError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, lifecycle.ErrNotFound)
}

func TestSubjectToNWBMultiple(t *testing.T) {
	exp, mock := newExporter(t)
	dob := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	expectSubject(mock, "S1", sqlmock.NewRows(subjectCols).
		AddRow("S1", "M", dob, "", "L1", nil, nil, "Mus musculus").
		AddRow("S1", "M", dob, "", "L2", nil, nil, "Mus musculus"))

	_, err := exp.SubjectToNWB(context.Background(), lifecycle.Filter{"subject": "S1"})
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ExportMultipleResultsError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, lifecycle.ErrMultipleResults)
}

func TestSubjectToNWBQueryError(t *testing.T) {
	exp, mock := newExporter(t)
	mock.ExpectQuery(`FROM "subject"."subject" s`).
		WithArgs("S1").
		WillReturnError(errors.New("connection reset"))

	_, err := exp.SubjectToNWB(context.Background(), lifecycle.Filter{"subject": "S1"})
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ExportQueryError, gnErr.Code)
}

func TestSubjectToNWBBadFilter(t *testing.T) {
	exp, _ := newExporter(t)

	tests := []struct {
		msg    string
		filter lifecycle.Filter
	}{
		{"empty", lifecycle.Filter{}},
		{"not a key", lifecycle.Filter{"sex": "M"}},
		{"unknown", lifecycle.Filter{"subject": "S1", "cage": 3}},
	}

	for _, v := range tests {
		_, err := exp.SubjectToNWB(context.Background(), v.filter)
		require.Error(t, err, v.msg)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, errcode.LinkingConfigurationError, gnErr.Code, v.msg)
		assert.ErrorIs(t, gnErr.Err, linking.ErrConfiguration, v.msg)
	}
}

func TestSubjectsToNWB(t *testing.T) {
	exp, mock := newExporter(t)
	dob := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

	expectSubject(mock, "S1", sqlmock.NewRows(subjectCols).
		AddRow("S1", "M", dob, "", "L1", nil, nil, "Mus musculus"))
	expectGenotype(mock, "S1", "Cre")
	expectSubject(mock, "S2", sqlmock.NewRows(subjectCols).
		AddRow("S2", "F", dob, "", nil, nil, nil, nil))

	res, err := exp.SubjectsToNWB(context.Background(), []lifecycle.Filter{
		{"subject": "S1"},
		{"subject": "S2"},
	})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "S1", res[0].SubjectID)
	assert.Equal(t, "Cre", res[0].Genotype)
	assert.Equal(t, "S2", res[1].SubjectID)
	assert.Empty(t, res[1].Genotype)
}

func TestSubjectsToNWBError(t *testing.T) {
	exp, mock := newExporter(t)
	expectSubject(mock, "S404", sqlmock.NewRows(subjectCols))

	_, err := exp.SubjectsToNWB(context.Background(), []lifecycle.Filter{
		{"subject": "S404"},
	})
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.ErrorIs(t, gnErr.Err, lifecycle.ErrNotFound)
}

func TestNewExporterNotActivated(t *testing.T) {
	_, err := ioexport.NewExporter(nil, &schema.Resolved{}, &checker{}, 0)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.LinkingConfigurationError, gnErr.Code)
}

func TestEncode(t *testing.T) {
	subjects := []*nwb.Subject{{
		SubjectID:   "S1",
		Sex:         "M",
		DateOfBirth: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		Species:     "Mus musculus",
		Genotype:    "A1 x A2",
	}}

	res, err := ioexport.Encode(subjects, "json")
	require.NoError(t, err)
	assert.Contains(t, string(res), `"genotype": "A1 x A2"`)
	assert.Contains(t, string(res), `"date_of_birth": "2020-01-02T00:00:00Z"`)

	res, err = ioexport.Encode(subjects, "yaml")
	require.NoError(t, err)
	assert.Contains(t, string(res), "subject_id: S1")
	assert.Contains(t, string(res), "species: Mus musculus")

	_, err = ioexport.Encode(subjects, "xml")
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ExportEncodeError, gnErr.Code)
}
