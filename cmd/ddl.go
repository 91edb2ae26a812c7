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
	"fmt"
	"io"

	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/internal/ioddl"
	"github.com/spf13/cobra"
)

// getDDLCmd returns the ddl command.
func getDDLCmd() *cobra.Command {
	var all bool

	ddlCmd := &cobra.Command{
		Use:   "ddl <module>",
		Short: "Print SQL that creates tables of a module",
		Long: `DDL prints CREATE SCHEMA and CREATE TABLE statements of a module
without connecting to the database. By default only the tables of the
module itself are printed, use --all to include upstream modules.

Examples:
  gnanimal ddl subject
  gnanimal ddl surgery --all > surgery.sql`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runDDL(cmd.OutOrStdout(), args[0], all)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	ddlCmd.Flags().BoolVarP(&all, "all", "a", false,
		"include upstream modules")

	return ddlCmd
}

func runDDL(w io.Writer, module string, all bool) error {
	res, err := resolve(module)
	if err != nil {
		return err
	}

	var modules []string
	if !all {
		modules = []string{module}
	}
	stmts, err := ioddl.PlanModules(context.Background(), res, modules...)
	if err != nil {
		return err
	}
	for _, v := range stmts {
		fmt.Fprintf(w, "%s;\n", v)
	}
	return nil
}
