// Package config provides configuration management for gnanimal.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
//   - Default config (from New()) is always valid - no validation needed
//   - All mutations go through Option functions - the only way to modify Config
//   - Invalid options are rejected with gn.Warn() - config remains in valid state
//   - ToOptions() converts persistent fields (those in config.yaml)
//   - Environment variables match ToOptions() fields exactly, except linking
//     tables which are read only from config.yaml
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions and config.yaml):
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Log: level, format, destination
//   - Schemas: database schema names of subject, genotyping, surgery,
//     injection modules
//   - Linking: external Lab, User, Protocol, Source and Device tables
//   - Export: format
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Activate.CreateSchema, Activate.CreateTables (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNANIMAL_ prefix with underscores for nesting:
//
//	GNANIMAL_DATABASE_HOST=localhost
//	GNANIMAL_DATABASE_PORT=5432
//	GNANIMAL_SCHEMAS_SUBJECT=subject
//	GNANIMAL_LOG_LEVEL=info
//	GNANIMAL_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete gnanimal configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Schemas contains names of database schemas for every module.
	Schemas SchemasConfig `mapstructure:"schemas" yaml:"schemas"`

	// Linking describes external tables referenced by modules.
	Linking LinkingConfig `mapstructure:"linking" yaml:"linking"`

	// Activate contains settings of the activate command.
	Activate ActivateConfig `mapstructure:"activate" yaml:"-"`

	// Export contains settings of the export command.
	Export ExportConfig `mapstructure:"export" yaml:"export"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize is the number of rows sent in one insert statement
	// during import.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// SchemasConfig keeps database schema names of the modules.
type SchemasConfig struct {
	Subject    string `mapstructure:"subject"    yaml:"subject"`
	Genotyping string `mapstructure:"genotyping" yaml:"genotyping"`
	Surgery    string `mapstructure:"surgery"    yaml:"surgery"`
	Injection  string `mapstructure:"injection"  yaml:"injection"`
}

// Map returns schema names keyed by module name.
func (s SchemasConfig) Map() map[string]string {
	return map[string]string{
		"subject":    s.Subject,
		"genotyping": s.Genotyping,
		"surgery":    s.Surgery,
		"injection":  s.Injection,
	}
}

// LinkingConfig describes external tables. Device is optional.
type LinkingConfig struct {
	Lab      *ExternalTable `mapstructure:"lab"      yaml:"lab"`
	User     *ExternalTable `mapstructure:"user"     yaml:"user"`
	Protocol *ExternalTable `mapstructure:"protocol" yaml:"protocol"`
	Source   *ExternalTable `mapstructure:"source"   yaml:"source"`
	Device   *ExternalTable `mapstructure:"device"   yaml:"device,omitempty"`
}

// ExternalTable is a table defined outside of gnanimal.
type ExternalTable struct {
	// Schema is the database schema of the table.
	Schema string `mapstructure:"schema" yaml:"schema"`

	// Table is the name of the table.
	Table string `mapstructure:"table" yaml:"table"`

	// Key lists primary key columns of the table.
	Key []KeyColumn `mapstructure:"key" yaml:"key"`
}

// KeyColumn is a primary key column of an external table.
type KeyColumn struct {
	Name string `mapstructure:"name" yaml:"name"`

	// Type is a declaration like "varchar(32)" or "int".
	Type string `mapstructure:"type" yaml:"type"`
}

// ActivateConfig contains runtime settings of activation.
type ActivateConfig struct {
	// CreateSchema allows creation of missing database schemas.
	CreateSchema bool

	// CreateTables allows creation of missing tables and seeding of lookup
	// contents.
	CreateTables bool
}

// ExportConfig contains settings of NWB export.
type ExportConfig struct {
	// Format of the output: 'json' or 'yaml'.
	Format string `mapstructure:"format" yaml:"format"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "gnanimal",
			SSLMode:   "disable",
			BatchSize: 1_000,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		Schemas: SchemasConfig{
			Subject:    "subject",
			Genotyping: "genotyping",
			Surgery:    "surgery",
			Injection:  "injection",
		},
		Linking: LinkingConfig{
			Lab:      labTable("lab", "lab"),
			User:     labTable("user", "user"),
			Protocol: labTable("protocol", "protocol"),
			Source:   labTable("source", "source"),
		},
		Activate: ActivateConfig{
			CreateSchema: true,
			CreateTables: true,
		},
		Export: ExportConfig{
			Format: "json",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}

func labTable(table, key string) *ExternalTable {
	return &ExternalTable{
		Schema: "lab",
		Table:  table,
		Key:    []KeyColumn{{Name: key, Type: "varchar(32)"}},
	}
}
