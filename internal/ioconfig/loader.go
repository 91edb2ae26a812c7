// Package ioconfig loads configuration from config.yaml and environment
// variables. This is an impure package that handles file system
// operations.
package ioconfig

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/gnames/gnanimal/internal/iofs"
	"github.com/gnames/gnanimal/pkg/config"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables.
const EnvPrefix = "GNANIMAL"

// Load reads config.yaml from the config directory under homeDir and
// applies GNANIMAL_* environment variables on top of it. Missing config
// file is not an error, defaults and environment are used instead.
// Precedence: env vars > config file > defaults.
func Load(homeDir string) (*config.Config, error) {
	cfgPath := config.ConfigFilePath(homeDir)
	v := viper.New()
	v.SetConfigType("yaml")
	initEnvVars(v)

	_, err := os.Stat(cfgPath)
	switch {
	case err == nil:
		v.SetConfigFile(cfgPath)
		if err = v.ReadInConfig(); err != nil {
			return nil, iofs.ReadFileError(cfgPath, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var fromViper config.Config
	if err = v.Unmarshal(&fromViper); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	res := config.New()
	res.Update(fromViper.ToOptions())
	res.Update([]config.Option{config.OptHomeDir(homeDir)})
	return res, nil
}

// initEnvVars binds environment variables explicitly so it is clear which
// of them are allowed. They match persistent fields of config.ToOptions(),
// except linking tables which come only from config.yaml.
func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "GNANIMAL_DATABASE_HOST")
	v.BindEnv("database.port", "GNANIMAL_DATABASE_PORT")
	v.BindEnv("database.user", "GNANIMAL_DATABASE_USER")
	v.BindEnv("database.password", "GNANIMAL_DATABASE_PASSWORD")
	v.BindEnv("database.database", "GNANIMAL_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "GNANIMAL_DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "GNANIMAL_DATABASE_BATCH_SIZE")

	// Database schemas of modules
	v.BindEnv("schemas.subject", "GNANIMAL_SCHEMAS_SUBJECT")
	v.BindEnv("schemas.genotyping", "GNANIMAL_SCHEMAS_GENOTYPING")
	v.BindEnv("schemas.surgery", "GNANIMAL_SCHEMAS_SURGERY")
	v.BindEnv("schemas.injection", "GNANIMAL_SCHEMAS_INJECTION")

	// Log configuration
	v.BindEnv("log.level", "GNANIMAL_LOG_LEVEL")
	v.BindEnv("log.format", "GNANIMAL_LOG_FORMAT")
	v.BindEnv("log.destination", "GNANIMAL_LOG_DESTINATION")

	v.BindEnv("export.format", "GNANIMAL_EXPORT_FORMAT")
	v.BindEnv("jobs_number", "GNANIMAL_JOBS_NUMBER")

	v.AutomaticEnv()
}
