package linking

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/pkg/errcode"
)

// ErrConfiguration is wrapped by every ConfigurationError.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError creates an error for an invalid or incomplete
// linking module. Such errors are raised before any database change.
func ConfigurationError(reason string, err error) error {
	msg := `Linking module is not valid: %s

<em>How to fix:</em>
  1. Provide Lab, User, Protocol and Source entities
  2. Provide Device entity if injection needs it
  3. Check the 'linking' section of the configuration file`

	cause := fmt.Errorf("%w: %s", ErrConfiguration, reason)
	if err != nil {
		cause = fmt.Errorf("%w: %s: %w", ErrConfiguration, reason, err)
	}

	return &gn.Error{
		Code: errcode.LinkingConfigurationError,
		Msg:  msg,
		Vars: []any{reason},
		Err:  cause,
	}
}
