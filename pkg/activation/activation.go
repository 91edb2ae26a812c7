// Package activation binds modules to a linking module and materializes
// them in the order of their dependencies.
//
// Activation of a module always activates its upstream modules first.
// All validation happens before the first database change: a missing or
// invalid linking entity fails the whole call with a ConfigurationError
// and nothing is created.
package activation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/gnames/gnanimal/pkg/lifecycle"
	"github.com/gnames/gnanimal/pkg/linking"
	"github.com/gnames/gnanimal/pkg/schema"
)

// Request contains parameters of activation.
type Request struct {
	// Schemas maps module names to database schema names. It must cover
	// the module and all its upstream modules.
	Schemas map[string]string

	// CreateSchema allows creation of missing database schemas.
	CreateSchema bool

	// CreateTables allows creation of missing tables and seeding of
	// lookup contents.
	CreateTables bool

	// Linking provides external entities.
	Linking *linking.Module
}

// Handle is the result of activation. It carries bindings of activated
// modules and is passed explicitly to operations that need them.
type Handle struct {
	*schema.Resolved

	// Module is the activated module.
	Module string

	// Linking is the linking module used for activation.
	Linking *linking.Module

	// Created lists qualified names of tables created by this call.
	Created []string

	// Missing lists qualified names of tables that do not exist and were
	// not created.
	Missing []string

	// Seeded is the number of inserted lookup rows.
	Seeded int
}

// Ready returns true if all tables of the handle exist.
func (h *Handle) Ready() bool {
	return len(h.Missing) == 0
}

// Activator activates modules of a catalog. It materializes each module
// at most once, later activations only validate. Activator is safe for
// concurrent use.
type Activator struct {
	catalog *schema.Catalog
	mat     lifecycle.Materializer

	mu sync.Mutex
	// activated maps module names to their database schemas.
	activated map[string]string
}

// New creates an Activator.
func New(catalog *schema.Catalog, mat lifecycle.Materializer) *Activator {
	return &Activator{
		catalog:   catalog,
		mat:       mat,
		activated: make(map[string]string),
	}
}

// Order returns the activation order of the module.
func (a *Activator) Order(module string) ([]string, error) {
	return a.catalog.ActivationOrder(module)
}

// Activated returns modules materialized by the Activator with their
// database schemas.
func (a *Activator) Activated() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return maps.Clone(a.activated)
}

// Activate validates the linking module, resolves the module with its
// upstream modules and materializes them dependencies first.
func (a *Activator) Activate(
	ctx context.Context,
	module string,
	req Request,
) (*Handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	res, err := a.validate(module, req)
	if err != nil {
		return nil, err
	}

	h := &Handle{Resolved: res, Module: module, Linking: req.Linking}
	for _, m := range res.Order {
		if _, ok := a.activated[m]; ok {
			slog.Debug("module is already activated", "module", m)
			continue
		}

		missing, err := a.materialize(ctx, h, m, req)
		if err != nil {
			return nil, err
		}
		if missing {
			continue
		}
		a.activated[m] = res.Schemas[m]
		slog.Info("module is activated", "module", m, "schema", res.Schemas[m])
	}
	return h, nil
}

// Resolve validates the request and resolves the module without touching
// the database. The Activator may have a nil Materializer for this.
func (a *Activator) Resolve(module string, req Request) (*schema.Resolved, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.validate(module, req)
}

func (a *Activator) validate(module string, req Request) (*schema.Resolved, error) {
	requires, err := a.catalog.Requires(module)
	if err != nil {
		return nil, linking.ConfigurationError(
			fmt.Sprintf("cannot activate module '%s'", module), err)
	}

	if err = req.Linking.Require(requires...); err != nil {
		return nil, err
	}

	res, err := a.catalog.Resolve(module, req.Schemas, req.Linking)
	if err != nil {
		reason := "cannot resolve references"
		if errors.Is(err, schema.ErrSchemaName) {
			reason = "database schema name is missing"
		}
		return nil, linking.ConfigurationError(reason, err)
	}

	for _, m := range res.Order {
		prev, ok := a.activated[m]
		if ok && prev != res.Schemas[m] {
			return nil, linking.ConfigurationError(
				fmt.Sprintf(
					"module '%s' is already activated in schema '%s', not '%s'",
					m, prev, res.Schemas[m],
				),
				nil,
			)
		}
	}
	return res, nil
}

// materialize creates schema and tables of one module. It returns true
// if some tables are missing and could not be created.
func (a *Activator) materialize(
	ctx context.Context,
	h *Handle,
	module string,
	req Request,
) (bool, error) {
	dbSchema := h.Schemas[module]
	tables := h.Tables[module]

	exists, err := a.mat.SchemaExists(ctx, dbSchema)
	if err != nil {
		return false, err
	}
	if !exists {
		switch {
		case req.CreateSchema:
			if err = a.mat.CreateSchema(ctx, dbSchema); err != nil {
				return false, err
			}
			slog.Info("database schema is created", "schema", dbSchema)
		case req.CreateTables:
			return false, SchemaMissingError(module, dbSchema)
		default:
			for _, t := range tables {
				h.Missing = append(h.Missing, t.QualifiedName())
			}
			return true, nil
		}
	}

	var missing bool
	for _, t := range tables {
		exists, err = a.mat.TableExists(ctx, t)
		if err != nil {
			return false, err
		}
		if !exists {
			if !req.CreateTables {
				h.Missing = append(h.Missing, t.QualifiedName())
				missing = true
				continue
			}
			if err = a.mat.CreateTable(ctx, t); err != nil {
				return false, err
			}
			h.Created = append(h.Created, t.QualifiedName())
			slog.Info("table is created", "table", t.QualifiedName())
		}

		if req.CreateTables && len(t.Contents) > 0 {
			n, err := a.mat.SeedContents(ctx, t)
			if err != nil {
				return false, err
			}
			h.Seeded += n
		}
	}
	return missing, nil
}
