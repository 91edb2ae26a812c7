package cmd

import (
	"fmt"
	"os"

	app "github.com/gnames/gnanimal/pkg"
	"github.com/gnames/gnanimal/pkg/config"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", app.Version, app.Build)
		os.Exit(0)
	}
}

// activateFlags returns options from --create-schema and --create-tables
// flags that were set explicitly.
func activateFlags(cmd *cobra.Command) []config.Option {
	var res []config.Option
	if cmd.Flags().Changed("create-schema") {
		b, _ := cmd.Flags().GetBool("create-schema")
		res = append(res, config.OptActivateCreateSchema(b))
	}
	if cmd.Flags().Changed("create-tables") {
		b, _ := cmd.Flags().GetBool("create-tables")
		res = append(res, config.OptActivateCreateTables(b))
	}
	return res
}
