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
	"log/slog"
	"os"

	"github.com/gnames/gn"
	"github.com/gnames/gnanimal/internal/ioconfig"
	"github.com/gnames/gnanimal/internal/iofs"
	"github.com/gnames/gnanimal/internal/iologger"
	app "github.com/gnames/gnanimal/pkg"
	"github.com/gnames/gnanimal/pkg/config"
	"github.com/spf13/cobra"
)

var cfg *config.Config

// getRootCmd returns the root command with all subcommands.
// Extracted as a function to facilitate testing.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "gnanimal",
		Short:   "GNanimal manages animal schemas of neuroscience experiments",
		Long: `GNanimal creates and uses PostgreSQL schemas that describe experimental
animals: subjects, genotyping, implantations and virus injections.

Modules:
  - subject: subjects, strains, alleles, lines
  - genotyping: breeding pairs, litters, weaning, cages, genotype tests
  - surgery: brain regions, coordinate references, implantations
  - injection: viruses, injection devices and protocols, virus injections

Modules reference lab tables (Lab, User, Protocol, Source, Device) that
are described in the linking section of the configuration file.

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNANIMAL_*)
  3. Config file (~/.config/gnanimal/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host -> GNANIMAL_DATABASE_HOST).

  Examples:
    GNANIMAL_DATABASE_HOST          PostgreSQL host
    GNANIMAL_DATABASE_PORT          PostgreSQL port
    GNANIMAL_DATABASE_USER          PostgreSQL user
    GNANIMAL_DATABASE_PASSWORD      PostgreSQL password
    GNANIMAL_DATABASE_DATABASE      Database name
    GNANIMAL_SCHEMAS_SUBJECT        Database schema of the subject module
    GNANIMAL_LOG_LEVEL              Log level (debug/info/warn/error)`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "gnanimal version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gnanimal")
	rootCmd.PersistentFlags().IntP("jobs", "j", 0,
		"number of concurrent jobs (default: number of CPUs)")

	rootCmd.AddCommand(
		getActivateCmd(),
		getGraphCmd(),
		getDDLCmd(),
		getImportCmd(),
		getExportCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if cfg, err = ioconfig.Load(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if cmd.Flags().Changed("jobs") {
		jobs, _ := cmd.Flags().GetInt("jobs")
		cfg.Update([]config.Option{config.OptJobsNumber(jobs)})
	}

	// Reconfigure logging with user's settings
	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))
	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := getRootCmd().Execute()
	iologger.Close()
	if err != nil {
		os.Exit(1)
	}
}
