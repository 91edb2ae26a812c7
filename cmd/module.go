/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/internal/iodb"
	"github.com/gnames/gnanimal/internal/ioschema"
	"github.com/gnames/gnanimal/pkg/activation"
	"github.com/gnames/gnanimal/pkg/db"
	"github.com/gnames/gnanimal/pkg/element"
	"github.com/gnames/gnanimal/pkg/linking"
	"github.com/gnames/gnanimal/pkg/schema"
)

// request builds an activation request from the configuration.
func request(createSchema, createTables bool) (activation.Request, error) {
	link, err := linking.FromConfig(cfg.Linking)
	if err != nil {
		return activation.Request{}, err
	}
	return activation.Request{
		Schemas:      cfg.Schemas.Map(),
		CreateSchema: createSchema,
		CreateTables: createTables,
		Linking:      link,
	}, nil
}

// resolve resolves a module without a database connection.
func resolve(module string) (*schema.Resolved, error) {
	cat, err := element.Catalog()
	if err != nil {
		return nil, err
	}
	req, err := request(false, false)
	if err != nil {
		return nil, err
	}
	return activation.New(cat, nil).Resolve(module, req)
}

func connect(ctx context.Context) (db.Operator, error) {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)
	return op, nil
}

// activate activates a module. The caller closes the operator.
func activate(
	ctx context.Context,
	op db.Operator,
	module string,
	createSchema, createTables bool,
) (*activation.Handle, error) {
	cat, err := element.Catalog()
	if err != nil {
		return nil, err
	}
	req, err := request(createSchema, createTables)
	if err != nil {
		return nil, err
	}
	act := activation.New(cat, ioschema.NewMaterializer(op))
	return act.Activate(ctx, module, req)
}

// activateExisting activates a module whose tables must exist already.
func activateExisting(
	ctx context.Context,
	op db.Operator,
	module string,
) (*activation.Handle, error) {
	h, err := activate(ctx, op, module, false, false)
	if err != nil {
		return nil, err
	}
	if !h.Ready() {
		return nil, activation.NotReadyError(module, h.Missing)
	}
	return h, nil
}
