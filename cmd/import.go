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

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/internal/ioimport"
	"github.com/spf13/cobra"
)

// getImportCmd returns the import command.
func getImportCmd() *cobra.Command {
	var (
		module         string
		skipDuplicates bool
	)

	importCmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import rows into activated tables",
		Long: `Import reads a YAML file with rows keyed by qualified table names and
inserts them in one transaction. Tables are filled in creation order, so
referenced rows are inserted first. Tables must exist, run
'gnanimal activate' first.

File format:
  subject.Subject:
    - subject: S1
      sex: M
      subject_birth_date: "2020-01-02"
  subject.Subject.Line:
    - subject: S1
      line: Ai14

Examples:
  gnanimal import subjects.yaml
  gnanimal import surgeries.yaml --module surgery --skip-duplicates`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runImport(args[0], module, skipDuplicates)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	importCmd.Flags().StringVarP(&module, "module", "m", "subject",
		"module of the imported tables")
	importCmd.Flags().BoolVarP(&skipDuplicates, "skip-duplicates", "s", false,
		"ignore rows with existing primary keys")

	return importCmd
}

func runImport(path, module string, skipDuplicates bool) error {
	ctx := context.Background()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	h, err := activateExisting(ctx, op, module)
	if err != nil {
		return err
	}

	imp := ioimport.NewImporter(op, h.Resolved,
		ioimport.OptBatchSize(cfg.Database.BatchSize),
		ioimport.OptSkipDuplicates(skipDuplicates),
	)
	stats, err := imp.Import(ctx, path)
	if err != nil {
		return err
	}

	gn.Info("Imported <em>%s</em> rows into %d tables",
		humanize.Comma(int64(stats.Total)), len(stats.Tables))
	return nil
}
