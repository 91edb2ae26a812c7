package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/pkg/errcode"
)

// CreateSchemaError creates an error for database schema creation
// failures.
func CreateSchemaError(dbSchema string, err error) error {
	msg := `Cannot create database schema <em>%s</em>

<em>Possible causes:</em>
  - Insufficient database permissions
  - Schema name is not valid

<em>How to fix:</em>
  1. Check database user has CREATE permission on the database
  2. Check database logs for details`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: []any{dbSchema},
		Err:  fmt.Errorf("failed to create schema %s: %w", dbSchema, err),
	}
}

// CreateTableError creates an error for table creation failures.
func CreateTableError(table string, err error) error {
	msg := `Cannot create table <em>%s</em>

<em>Possible causes:</em>
  - Insufficient database permissions
  - Referenced external table does not exist
  - Key columns of a linking table do not match its primary key

<em>How to fix:</em>
  1. Check the <em>linking</em> section of config.yaml
  2. Run <em>gnanimal ddl</em> to review generated statements
  3. Check database logs for details`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("failed to create table %s: %w", table, err),
	}
}

// SeedError creates an error for failures of lookup contents insertion.
func SeedError(table string, err error) error {
	msg := "Cannot insert lookup contents of <em>%s</em>"

	return &gn.Error{
		Code: errcode.SchemaSeedError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("failed to seed %s: %w", table, err),
	}
}
