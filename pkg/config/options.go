package config

import (
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/pkg/entity"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of rows per insert statement.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptSchemasSubject sets the database schema of the subject module.
func OptSchemasSubject(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidIdent("Schemas.Subject", s) {
			c.Schemas.Subject = s
		}
	}
}

// OptSchemasGenotyping sets the database schema of the genotyping module.
func OptSchemasGenotyping(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidIdent("Schemas.Genotyping", s) {
			c.Schemas.Genotyping = s
		}
	}
}

// OptSchemasSurgery sets the database schema of the surgery module.
func OptSchemasSurgery(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidIdent("Schemas.Surgery", s) {
			c.Schemas.Surgery = s
		}
	}
}

// OptSchemasInjection sets the database schema of the injection module.
func OptSchemasInjection(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidIdent("Schemas.Injection", s) {
			c.Schemas.Injection = s
		}
	}
}

// OptLinkingLab sets the external table of laboratories.
func OptLinkingLab(t *ExternalTable) Option {
	return func(c *Config) {
		if isValidExternal("Linking.Lab", t) {
			c.Linking.Lab = t
		}
	}
}

// OptLinkingUser sets the external table of users.
func OptLinkingUser(t *ExternalTable) Option {
	return func(c *Config) {
		if isValidExternal("Linking.User", t) {
			c.Linking.User = t
		}
	}
}

// OptLinkingProtocol sets the external table of protocols.
func OptLinkingProtocol(t *ExternalTable) Option {
	return func(c *Config) {
		if isValidExternal("Linking.Protocol", t) {
			c.Linking.Protocol = t
		}
	}
}

// OptLinkingSource sets the external table of sources.
func OptLinkingSource(t *ExternalTable) Option {
	return func(c *Config) {
		if isValidExternal("Linking.Source", t) {
			c.Linking.Source = t
		}
	}
}

// OptLinkingDevice sets the external table of devices. Device is optional,
// nil removes it.
func OptLinkingDevice(t *ExternalTable) Option {
	return func(c *Config) {
		if t == nil {
			c.Linking.Device = nil
			return
		}
		if isValidExternal("Linking.Device", t) {
			c.Linking.Device = t
		}
	}
}

// OptActivateCreateSchema allows activation to create missing schemas.
// Runtime-only field - not in ToOptions().
func OptActivateCreateSchema(b bool) Option {
	return func(c *Config) {
		c.Activate.CreateSchema = b
	}
}

// OptActivateCreateTables allows activation to create missing tables.
// Runtime-only field - not in ToOptions().
func OptActivateCreateTables(b bool) Option {
	return func(c *Config) {
		c.Activate.CreateTables = b
	}
}

// OptExportFormat sets the output format of export.
// Valid values: "json", "yaml".
func OptExportFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Export.Format", s) {
			c.Export.Format = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}

func isValidIdent(name, s string) bool {
	if !isValidString(name, s) {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			gn.Warn(
				"<em>%s</em> must contain lowercase letters, digits "+
					"and underscores, ignoring '%s'",
				name, s,
			)
			return false
		}
	}
	return true
}

func isValidExternal(name string, t *ExternalTable) bool {
	if t == nil {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
		return false
	}
	if !isValidIdent(name+".Schema", t.Schema) ||
		!isValidString(name+".Table", t.Table) {
		return false
	}
	if len(t.Key) == 0 {
		gn.Warn("<em>%s</em> needs at least one key column, ignoring", name)
		return false
	}
	for _, v := range t.Key {
		if !isValidString(name+".Key.Name", v.Name) {
			return false
		}
		if _, err := entity.ParseType(v.Type); err != nil {
			gn.Warn(
				"<em>%s</em> key column '%s' has bad type '%s', ignoring",
				name, v.Name, v.Type,
			)
			return false
		}
	}
	return true
}
