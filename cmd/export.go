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

	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/internal/ioexport"
	"github.com/gnames/gnanimal/internal/iofs"
	"github.com/gnames/gnanimal/pkg/config"
	"github.com/gnames/gnanimal/pkg/element"
	"github.com/gnames/gnanimal/pkg/lifecycle"
	"github.com/gnames/gnanimal/pkg/species"
	"github.com/spf13/cobra"
)

// getExportCmd returns the export command.
func getExportCmd() *cobra.Command {
	var output string

	exportCmd := &cobra.Command{
		Use:   "export <subject>...",
		Short: "Export subjects as NWB subject descriptors",
		Long: `Export reads subjects with their lines, strains and sources and
prints NWB subject fields: subject_id, sex, date_of_birth, species,
genotype and a JSON description with all known subject fields.

Species of lines are exported as stored, names gnparser cannot parse
produce a warning. Genotype lists alleles of the line joined by " x ".

Examples:
  gnanimal export S1
  gnanimal export S1 S2 S3 --format yaml
  gnanimal export S1 -o s1.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") {
				f, _ := cmd.Flags().GetString("format")
				cfg.Update([]config.Option{config.OptExportFormat(f)})
			}
			err := runExport(cmd, args, output)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	exportCmd.Flags().StringP("format", "f", "json",
		"output format: json or yaml")
	exportCmd.Flags().StringVarP(&output, "output", "o", "",
		"output file (default: STDOUT)")

	return exportCmd
}

func runExport(cmd *cobra.Command, subjects []string, output string) error {
	ctx := context.Background()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	h, err := activateExisting(ctx, op, element.SubjectModule)
	if err != nil {
		return err
	}

	sp := species.New(cfg.JobsNumber)
	defer sp.Close()

	exp, err := ioexport.NewExporter(op, h.Resolved, sp, cfg.JobsNumber)
	if err != nil {
		return err
	}

	subjTable, _ := h.Table(element.SubjectModule + ".Subject")
	key := subjTable.PrimaryKey[0]
	filters := make([]lifecycle.Filter, len(subjects))
	for i, v := range subjects {
		filters[i] = lifecycle.Filter{key: v}
	}

	res, err := exp.SubjectsToNWB(ctx, filters)
	if err != nil {
		return err
	}

	bs, err := ioexport.Encode(res, cfg.Export.Format)
	if err != nil {
		return err
	}

	if output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(bs))
		return nil
	}
	if err = iofs.WriteFile(output, bs); err != nil {
		return err
	}
	gn.Info("Exported %d subjects to <em>%s</em>", len(res), output)
	return nil
}
