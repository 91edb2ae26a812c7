package linking

import (
	"github.com/gnames/gnanimal/pkg/config"
	"github.com/gnames/gnanimal/pkg/entity"
)

// FromConfig builds a linking module from external tables of the
// configuration. Missing Device is allowed, other missing tables are left
// for activation to report.
func FromConfig(cfg config.LinkingConfig) (*Module, error) {
	b := NewBuilder()
	tables := []struct {
		name string
		ext  *config.ExternalTable
	}{
		{Lab, cfg.Lab},
		{User, cfg.User},
		{Protocol, cfg.Protocol},
		{Source, cfg.Source},
		{Device, cfg.Device},
	}

	for _, v := range tables {
		if v.ext == nil {
			continue
		}
		t, err := externalTable(v.name, v.ext)
		if err != nil {
			return nil, ConfigurationError("cannot read linking configuration", err)
		}
		b.With(v.name, v.ext.Schema, t)
	}
	return b.Build()
}

func externalTable(name string, ext *config.ExternalTable) (*entity.Table, error) {
	res := &entity.Table{
		Name:    name,
		Tier:    entity.Manual,
		SQLName: ext.Table,
	}
	for _, v := range ext.Key {
		typ, err := entity.ParseType(v.Type)
		if err != nil {
			return nil, err
		}
		res.Key = append(res.Key, entity.Attr(v.Name, typ))
	}
	return res, nil
}
