package ioddl

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/pkg/errcode"
)

// PlanError creates an error for failures of DDL planning.
func PlanError(name string, err error) error {
	msg := "Cannot plan DDL for <em>%s</em>"

	return &gn.Error{
		Code: errcode.SchemaPlanError,
		Msg:  msg,
		Vars: []any{name},
		Err:  fmt.Errorf("failed to plan %s: %w", name, err),
	}
}
