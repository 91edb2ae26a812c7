// Package linking describes entities that are referenced by the animal
// modules but defined elsewhere: Lab, User, Protocol, Source and
// optionally Device. A linking Module is built once and validated at
// construction, then passed explicitly to activation.
package linking

import (
	"fmt"
	"slices"
	"sort"

	"github.com/gnames/gnanimal/pkg/entity"
)

// Names of linking entities known to the animal modules.
const (
	Lab      = "Lab"
	User     = "User"
	Protocol = "Protocol"
	Source   = "Source"
	Device   = "Device"
)

// Entity is an externally defined table.
type Entity struct {
	// Schema is the database schema where the table lives.
	Schema string

	// Table is the definition of the table. Only its primary key is used
	// for resolution of references.
	Table *entity.Table
}

// Module is a validated set of linking entities.
type Module struct {
	entities map[string]Entity
}

// Entity returns a linking entity by name.
func (m *Module) Entity(name string) (Entity, bool) {
	if m == nil {
		return Entity{}, false
	}
	res, ok := m.entities[name]
	return res, ok
}

// Names returns sorted names of all entities of the module.
func (m *Module) Names() []string {
	if m == nil {
		return nil
	}
	res := make([]string, 0, len(m.entities))
	for k := range m.entities {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Require checks that the module provides every given name.
// It returns a ConfigurationError listing the missing names.
func (m *Module) Require(names ...string) error {
	if m == nil {
		return ConfigurationError("linking module is not provided", nil)
	}
	var missing []string
	for _, v := range names {
		if _, ok := m.entities[v]; !ok && !slices.Contains(missing, v) {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return ConfigurationError(
			fmt.Sprintf("linking module misses required entities %v", missing),
			nil,
		)
	}
	return nil
}

// Builder collects linking entities. Errors are accumulated and reported
// by Build.
type Builder struct {
	entities map[string]Entity
	errs     []error
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{entities: make(map[string]Entity)}
}

// Lab sets the table of laboratories.
func (b *Builder) Lab(dbSchema string, t *entity.Table) *Builder {
	return b.With(Lab, dbSchema, t)
}

// User sets the table of users.
func (b *Builder) User(dbSchema string, t *entity.Table) *Builder {
	return b.With(User, dbSchema, t)
}

// Protocol sets the table of protocols.
func (b *Builder) Protocol(dbSchema string, t *entity.Table) *Builder {
	return b.With(Protocol, dbSchema, t)
}

// Source sets the table of sources of animals and materials.
func (b *Builder) Source(dbSchema string, t *entity.Table) *Builder {
	return b.With(Source, dbSchema, t)
}

// Device sets the table of devices.
func (b *Builder) Device(dbSchema string, t *entity.Table) *Builder {
	return b.With(Device, dbSchema, t)
}

// With sets an entity under an arbitrary name.
func (b *Builder) With(name, dbSchema string, t *entity.Table) *Builder {
	if err := validate(name, dbSchema, t); err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	if _, ok := b.entities[name]; ok {
		b.errs = append(b.errs, fmt.Errorf("entity %s is set twice", name))
		return b
	}
	b.entities[name] = Entity{Schema: dbSchema, Table: t}
	return b
}

// Build returns the linking module or a ConfigurationError if any of the
// supplied entities is not a valid entity definition.
func (b *Builder) Build() (*Module, error) {
	if len(b.errs) > 0 {
		return nil, ConfigurationError(
			"linking module contains invalid entities", b.errs[0],
		)
	}
	res := &Module{entities: make(map[string]Entity, len(b.entities))}
	for k, v := range b.entities {
		res.entities[k] = v
	}
	return res, nil
}

func validate(name, dbSchema string, t *entity.Table) error {
	if name == "" {
		return fmt.Errorf("empty linking entity name")
	}
	if dbSchema == "" {
		return fmt.Errorf("entity %s has no database schema", name)
	}
	if t == nil {
		return fmt.Errorf("entity %s has no table definition", name)
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("entity %s: %w", name, err)
	}
	for _, f := range t.Key {
		if _, ok := f.(entity.Attribute); !ok {
			return fmt.Errorf(
				"entity %s: key must consist of attributes only", name,
			)
		}
	}
	return nil
}
