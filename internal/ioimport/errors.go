package ioimport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/pkg/errcode"
)

// ReadFileError creates an error for import files that are not valid
// YAML.
func ReadFileError(path string, err error) error {
	msg := `Cannot parse import file <em>%s</em>

<em>Expected format:</em>
  subject.Subject:
    - subject: S1
      sex: M
      subject_birth_date: 2020-01-02`

	return &gn.Error{
		Code: errcode.ImportReadFileError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("failed to parse %s: %w", path, err),
	}
}

// UnknownTableError creates an error for a table that is not a part of
// activated modules.
func UnknownTableError(table string) error {
	msg := `Table <em>%s</em> is not activated

<em>How to fix:</em>
  1. Use qualified names, like <em>subject.Subject.Line</em>
  2. Activate the module of the table with <em>--module</em>`

	return &gn.Error{
		Code: errcode.ImportUnknownTableError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("unknown table %s", table),
	}
}

// UnknownColumnError creates an error for a row field that is not a
// column of its table.
func UnknownColumnError(table, column string, row int) error {
	msg := "Table <em>%s</em> has no column <em>%s</em> (row %d)"

	return &gn.Error{
		Code: errcode.ImportUnknownColumnError,
		Msg:  msg,
		Vars: []any{table, column, row},
		Err:  fmt.Errorf("unknown column %s.%s in row %d", table, column, row),
	}
}

// EmptyRowError creates an error for a row without fields.
func EmptyRowError(table string, row int) error {
	msg := "Row %d of <em>%s</em> has no fields"

	return &gn.Error{
		Code: errcode.ImportEmptyRowError,
		Msg:  msg,
		Vars: []any{row, table},
		Err:  fmt.Errorf("empty row %d in %s", row, table),
	}
}

// InsertError creates an error for failed inserts. The import
// transaction is rolled back.
func InsertError(table string, err error) error {
	msg := "Cannot insert rows into <em>%s</em>, nothing is imported"

	return &gn.Error{
		Code: errcode.ImportInsertError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("failed to insert into %s: %w", table, err),
	}
}
