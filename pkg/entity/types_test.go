package entity_test

import (
	"testing"

	"github.com/gnames/gnanimal/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		msg string
		inp string
		res entity.Type
		str string
	}{
		{"varchar", "varchar(32)", entity.Varchar(32), "varchar(32)"},
		{"enum", "enum('M', 'F', 'U')", entity.Enum("M", "F", "U"),
			"enum('M', 'F', 'U')"},
		{"enum double quotes", `enum("Present","Absent")`,
			entity.Enum("Present", "Absent"), "enum('Present', 'Absent')"},
		{"enum upper type name", "ENUM('Left', 'right')",
			entity.Enum("Left", "right"), "enum('Left', 'right')"},
		{"varchar upper", "VARCHAR(8)", entity.Varchar(8), "varchar(8)"},
		{"date", "date", entity.Date(), "date"},
		{"datetime", "DateTime", entity.Datetime(), "datetime"},
		{"timestamp", "timestamp", entity.Datetime(), "datetime"},
		{"bool", "bool", entity.Bool(), "boolean"},
		{"tinyint", "tinyint", entity.TinyInt(), "tinyint"},
		{"int", "integer", entity.Int(), "int"},
		{"float", "float", entity.Float(), "float"},
		{"decimal", "decimal(6, 3)", entity.Decimal(6, 3), "decimal(6, 3)"},
		{"decimal no scale", "decimal(10)", entity.Decimal(10, 0),
			"decimal(10, 0)"},
	}

	for _, v := range tests {
		res, err := entity.ParseType(v.inp)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.res, res, v.msg)
		assert.Equal(t, v.str, res.String(), v.msg)
	}
}

func TestParseTypeErrors(t *testing.T) {
	tests := []struct {
		msg, inp string
	}{
		{"empty", ""},
		{"unknown", "blob"},
		{"bad size", "varchar(abc)"},
		{"zero size", "varchar(0)"},
		{"no closing paren", "varchar(32"},
		{"empty enum value", "enum('')"},
		{"bad decimal", "decimal(3, 5)"},
	}

	for _, v := range tests {
		_, err := entity.ParseType(v.inp)
		assert.Error(t, err, v.msg)
	}
}
