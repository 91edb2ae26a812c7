package ioexport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/pkg/errcode"
	"github.com/gnames/gnanimal/pkg/lifecycle"
)

// NotFoundError creates an error for a filter that matches no subject.
func NotFoundError(filter lifecycle.Filter) error {
	msg := "No subject matches <em>%v</em>"

	return &gn.Error{
		Code: errcode.ExportNotFoundError,
		Msg:  msg,
		Vars: []any{map[string]any(filter)},
		Err:  fmt.Errorf("subject %v: %w", map[string]any(filter), lifecycle.ErrNotFound),
	}
}

// MultipleResultsError creates an error for a filter that matches
// several subjects.
func MultipleResultsError(filter lifecycle.Filter) error {
	msg := "More than one subject matches <em>%v</em>"

	return &gn.Error{
		Code: errcode.ExportMultipleResultsError,
		Msg:  msg,
		Vars: []any{map[string]any(filter)},
		Err: fmt.Errorf(
			"subject %v: %w", map[string]any(filter), lifecycle.ErrMultipleResults,
		),
	}
}

// QueryError creates an error for a failed export query.
func QueryError(table string, err error) error {
	msg := "Cannot read <em>%s</em>"

	return &gn.Error{
		Code: errcode.ExportQueryError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("failed to query %s: %w", table, err),
	}
}

// EncodeError creates an error for serialization failures.
func EncodeError(format string, err error) error {
	msg := "Cannot encode subjects as <em>%s</em>"

	return &gn.Error{
		Code: errcode.ExportEncodeError,
		Msg:  msg,
		Vars: []any{format},
		Err:  fmt.Errorf("failed to encode %s: %w", format, err),
	}
}
