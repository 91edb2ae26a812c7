// Package lifecycle defines contracts of the components that touch the
// database: materialization of activated modules, import of rows and
// export of subjects.
package lifecycle

import (
	"context"

	"github.com/gnames/gnanimal/pkg/schema"
)

// Materializer creates database schemas and tables of resolved modules.
// All methods must be safe to repeat: creating an existing object or
// seeding existing rows is not an error.
type Materializer interface {
	// SchemaExists checks if a database schema exists.
	SchemaExists(ctx context.Context, dbSchema string) (bool, error)

	// CreateSchema creates a database schema if it does not exist.
	CreateSchema(ctx context.Context, dbSchema string) error

	// TableExists checks if a resolved table exists.
	TableExists(ctx context.Context, t *schema.Table) (bool, error)

	// CreateTable creates a resolved table with its keys and constraints.
	CreateTable(ctx context.Context, t *schema.Table) error

	// SeedContents inserts predefined rows of a table, skipping rows that
	// already exist. It returns the number of inserted rows.
	SeedContents(ctx context.Context, t *schema.Table) (int, error)
}
