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
	"strings"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getActivateCmd returns the activate command.
func getActivateCmd() *cobra.Command {
	activateCmd := &cobra.Command{
		Use:   "activate <module>",
		Short: "Activate a module and create its tables",
		Long: `Activate binds a module to its database schema and to the lab tables
from the linking section of the configuration.

This command:
  1. Validates that all linking entities required by the module and its
     upstream modules are configured
  2. Activates upstream modules first (subject before surgery, etc.)
  3. Creates missing database schemas and tables
  4. Seeds lookup tables with their predefined contents

Repeated activation is safe, existing tables are left untouched.

Examples:
  gnanimal activate subject
  gnanimal activate injection
  gnanimal activate surgery --create-tables=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runActivate(cmd, args[0])
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	activateCmd.Flags().Bool("create-schema", true,
		"create missing database schemas")
	activateCmd.Flags().Bool("create-tables", true,
		"create missing tables and seed lookup contents")

	return activateCmd
}

func runActivate(cmd *cobra.Command, module string) error {
	ctx := context.Background()

	if opts := activateFlags(cmd); len(opts) > 0 {
		cfg.Update(opts)
	}

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	h, err := activate(
		ctx, op, module,
		cfg.Activate.CreateSchema, cfg.Activate.CreateTables,
	)
	if err != nil {
		return err
	}

	gn.Info("Activation order: <em>%s</em>", strings.Join(h.Order, " -> "))
	if len(h.Created) > 0 {
		gn.Info("Created %d tables", len(h.Created))
	}
	if h.Seeded > 0 {
		gn.Info("Seeded %d lookup rows", h.Seeded)
	}
	if !h.Ready() {
		gn.Warn("<warn>Missing tables:</warn>\n  %s", strings.Join(h.Missing, "\n  "))
		return nil
	}

	gn.Info("Module <em>%s</em> is activated", module)
	return nil
}
