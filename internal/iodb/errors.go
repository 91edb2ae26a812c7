package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/pkg/errcode"
)

// ConnectionError creates an error for database connection
// failures.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Could not connect to PostgreSQL database

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>

  2. Verify database exists:
     <em>psql -h %s -U %s -l</em>

  3. Check your configuration file:
     <em>~/.config/gnanimal/config.yaml</em>

  4. Review connection settings:
     Host: %s
     Port: %d
     Database: %s
     User: %s`

	vars := []any{
		host, port,
		host, user,
		host, port, database, user,
	}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"failed to connect to %s:%d/%s: %w",
			host, port, database, err,
		),
	}
}

// NotConnectedError creates an error for operations attempted
// without database connection.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// GORMConnectionError creates an error for GORM connection
// failures.
func GORMConnectionError(err error) error {
	msg := `Cannot connect to database with GORM

<em>Possible causes:</em>
  - Connection pool not initialized
  - Database configuration issue

<em>How to fix:</em>
  1. Ensure database operator is connected
  2. Check database configuration`

	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to connect with GORM: %w", err),
	}
}

// SchemaExistsCheckError creates an error for failures of
// database schema existence check.
func SchemaExistsCheckError(dbSchema string, err error) error {
	msg := "Cannot check if schema <em>%s</em> exists"

	return &gn.Error{
		Code: errcode.DBSchemaExistsCheckError,
		Msg:  msg,
		Vars: []any{dbSchema},
		Err: fmt.Errorf(
			"failed to check schema %s: %w", dbSchema, err,
		),
	}
}

// TableExistsCheckError creates an error for failures of
// table existence check.
func TableExistsCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"

	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: []any{table},
		Err: fmt.Errorf(
			"failed to check table %s: %w", table, err,
		),
	}
}
