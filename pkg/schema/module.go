// Package schema organizes entity declarations into modules, orders
// modules by their dependencies and resolves references into concrete
// columns, primary keys and foreign keys of database tables.
package schema

import (
	"fmt"
	"strings"

	"github.com/gnames/gnanimal/pkg/entity"
)

// Module is a named group of tables that is activated in its own database
// schema.
type Module struct {
	// Name of the module, for example "subject".
	Name string

	// Comment describes the module.
	Comment string

	// Upstream modules must be activated before this one.
	Upstream []string

	// Requires lists names of linking entities the module references.
	Requires []string

	// Optional lists names of linking entities the module can reference
	// if they are provided.
	Optional []string

	// Tables of the module in declaration order.
	Tables []*entity.Table
}

// Table finds a table by its name. Part tables are found by
// "Master.Part" names.
func (m *Module) Table(name string) (*entity.Table, bool) {
	master, part, isPart := strings.Cut(name, ".")
	for _, t := range m.Tables {
		if t.Name != master {
			continue
		}
		if !isPart {
			return t, true
		}
		return t.Part(part)
	}
	return nil, false
}

// Validate checks every table and uniqueness of table names.
func (m *Module) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: module without name", entity.ErrInvalid)
	}
	names := make(map[string]struct{})
	sqlNames := make(map[string]struct{})
	for _, t := range m.Tables {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("module %s: %w", m.Name, err)
		}
		if _, ok := names[t.Name]; ok {
			return fmt.Errorf("%w: module %s has duplicate table %s",
				entity.ErrInvalid, m.Name, t.Name)
		}
		names[t.Name] = struct{}{}

		sqlNames[t.TableName()] = struct{}{}
		for _, p := range t.Parts {
			sqlNames[partSQLName(t, p)] = struct{}{}
		}
	}
	count := 0
	for _, t := range m.Tables {
		count += 1 + len(t.Parts)
	}
	if len(sqlNames) != count {
		return fmt.Errorf("%w: module %s has clashing table names",
			entity.ErrInvalid, m.Name)
	}
	return nil
}

func partSQLName(master, part *entity.Table) string {
	return master.TableName() + "__" + part.TableName()
}
