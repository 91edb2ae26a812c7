package db

import (
	"context"

	"github.com/gnames/gnanimal/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
)

// Operator defines the interface for basic database management operations.
// It provides connection lifecycle management and exposes the pool and a
// GORM handle for high-level lifecycle components (Materializer, Importer,
// Exporter) to execute their SQL internally.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool. It is nil for operators
	// created from an existing GORM handle.
	Pool() *pgxpool.Pool

	// GORM returns a GORM handle that shares connections of the operator.
	GORM() (*gorm.DB, error)

	// SchemaExists checks if a database schema exists.
	SchemaExists(ctx context.Context, dbSchema string) (bool, error)

	// TableExists checks if a table exists in a database schema.
	TableExists(ctx context.Context, dbSchema, table string) (bool, error)
}
