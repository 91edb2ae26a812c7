package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	CreateFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBSchemaExistsCheckError
	DBTableExistsCheckError
	DBExecError

	// Linking and activation errors
	LinkingConfigurationError
	ActivationSchemaMissingError
	ActivationNotReadyError
	ActivationCycleError

	// Schema errors
	SchemaGORMConnectionError
	SchemaPlanError
	SchemaCreateError
	SchemaSeedError

	// Import errors
	ImportReadFileError
	ImportUnknownTableError
	ImportUnknownColumnError
	ImportEmptyRowError
	ImportInsertError

	// Export errors
	ExportNotFoundError
	ExportMultipleResultsError
	ExportQueryError
	ExportEncodeError
)
