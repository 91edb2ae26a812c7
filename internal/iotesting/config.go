// Package iotesting provides shared test utilities: a sqlmock-backed GORM
// handle for SQL-level tests and configuration of PostgreSQL
// integration tests.
package iotesting

import (
	"os"
	"testing"

	"github.com/gnames/gnanimal/internal/ioconfig"
	"github.com/gnames/gnanimal/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "gnanimal_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// It loads config.yaml and GNANIMAL_* variables the same way the CLI
// does, and overrides the database name with TestDatabaseName.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	var cfg *config.Config
	home, err := os.UserHomeDir()
	if err == nil {
		cfg, err = ioconfig.Load(home)
	}
	if err != nil {
		cfg = config.New()
	}

	cfg.Update([]config.Option{
		config.OptDatabaseDatabase(TestDatabaseName),
	})
	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// SetupTempHome creates a temporary home directory for a test and points
// HOME to it, so tests never touch real ~/.config/gnanimal files. The
// directory is removed when the test finishes.
func SetupTempHome(t *testing.T) string {
	t.Helper()
	res := t.TempDir()
	t.Setenv("HOME", res)
	return res
}
