package activation

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/pkg/errcode"
)

// SchemaMissingError creates an error for activation that needs to create
// tables in a database schema that does not exist and may not be created.
func SchemaMissingError(module, dbSchema string) error {
	msg := `Database schema <em>%s</em> of module <em>%s</em> does not exist

<em>How to fix:</em>
  1. Allow schema creation with <em>--create-schema</em>
  2. Or create the schema manually:
     <em>CREATE SCHEMA %s;</em>`

	return &gn.Error{
		Code: errcode.ActivationSchemaMissingError,
		Msg:  msg,
		Vars: []any{dbSchema, module, dbSchema},
		Err:  fmt.Errorf("schema %s of module %s does not exist", dbSchema, module),
	}
}

// NotReadyError creates an error for operations that need tables of a
// module that were not created yet.
func NotReadyError(module string, missing []string) error {
	msg := `Module <em>%s</em> is not ready, missing tables:
  %s

<em>How to fix:</em>
  <em>gnanimal activate %s</em>`

	return &gn.Error{
		Code: errcode.ActivationNotReadyError,
		Msg:  msg,
		Vars: []any{module, strings.Join(missing, "\n  "), module},
		Err:  fmt.Errorf("module %s misses %d tables", module, len(missing)),
	}
}
