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
	"fmt"
	"io"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/pkg/element"
	"github.com/gnames/gnanimal/pkg/schema"
	"github.com/spf13/cobra"
)

// getGraphCmd returns the graph command.
func getGraphCmd() *cobra.Command {
	graphCmd := &cobra.Command{
		Use:   "graph [module]",
		Short: "Show dependencies of modules and their tables",
		Long: `Graph prints the activation order of a module and its tables in
creation order. Without a module it prints dependency levels of all
modules. It does not connect to the database.

Examples:
  gnanimal graph
  gnanimal graph injection`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if len(args) == 0 {
				err = runGraphAll(cmd.OutOrStdout())
			} else {
				err = runGraph(cmd.OutOrStdout(), args[0])
			}
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	return graphCmd
}

func runGraphAll(w io.Writer) error {
	cat, err := element.Catalog()
	if err != nil {
		return err
	}
	levels, err := cat.Levels()
	if err != nil {
		return err
	}
	for i, v := range levels {
		fmt.Fprintf(w, "level %d: %s\n", i+1, strings.Join(v, ", "))
	}
	for _, v := range cat.Names() {
		req, err := cat.Requires(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s requires: %s\n", v, strings.Join(req, ", "))
	}
	return nil
}

func runGraph(w io.Writer, module string) error {
	res, err := resolve(module)
	if err != nil {
		return err
	}
	writeGraph(w, res)
	return nil
}

// writeGraph prints modules in activation order with their tables in
// creation order and foreign keys of every table.
func writeGraph(w io.Writer, res *schema.Resolved) {
	fmt.Fprintf(w, "activation order: %s\n", strings.Join(res.Order, " -> "))
	for _, m := range res.Order {
		fmt.Fprintf(w, "\n%s (schema %s)\n", m, res.Schemas[m])
		for _, t := range res.Tables[m] {
			fmt.Fprintf(w, "  %s [%s]\n", t.Name, t.Tier)
			for _, fk := range t.ForeignKeys {
				fmt.Fprintf(w, "    -> %s.%s (%s)\n",
					fk.RefSchema, fk.RefTable, strings.Join(fk.Columns, ", "))
			}
		}
	}
}
