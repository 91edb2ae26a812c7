package ioexport

import (
	"fmt"

	"github.com/gnames/gnanimal/pkg/nwb"
	"github.com/gnames/gnfmt"
	"gopkg.in/yaml.v3"
)

// Formats lists supported output formats.
var Formats = []string{"json", "yaml"}

// Encode serializes subjects to JSON or YAML.
func Encode(subjects []*nwb.Subject, format string) ([]byte, error) {
	switch format {
	case "", "json":
		enc := gnfmt.GNjson{Pretty: true}
		res, err := enc.Encode(subjects)
		if err != nil {
			return nil, EncodeError("json", err)
		}
		return res, nil
	case "yaml":
		res, err := yaml.Marshal(subjects)
		if err != nil {
			return nil, EncodeError("yaml", err)
		}
		return res, nil
	default:
		return nil, EncodeError(format,
			fmt.Errorf("unknown format %q, use one of %v", format, Formats))
	}
}
