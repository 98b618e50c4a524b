package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the CLI.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fisheryctl",
		Short: "fisheryctl operates the fisheries trip-assembly and matrix pipeline",
		Long: `fisheryctl drives the fisheries data platform's batch operations:
ingesting raw ERS/landing records, assembling vessel trips, refreshing
the aggregation matrix cache, and resetting a vessel's assembled state.

Examples:
  fisheryctl ingest ers --file reports.csv
  fisheryctl ingest landings --file landings.csv
  fisheryctl assemble --vessel 123
  fisheryctl materialize --vessel 123
  fisheryctl enrich --vessel 123
  fisheryctl refresh --source hauls
  fisheryctl reset --vessel 123 --assembler ers
  fisheryctl query trips --vessel 123
  fisheryctl query matrix --source hauls --active gear_group
  fisheryctl serve`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: search standard locations)")

	rootCmd.AddCommand(NewIngestCommand())
	rootCmd.AddCommand(NewAssembleCommand())
	rootCmd.AddCommand(NewMaterializeCommand())
	rootCmd.AddCommand(NewEnrichCommand())
	rootCmd.AddCommand(NewRefreshCommand())
	rootCmd.AddCommand(NewResetCommand())
	rootCmd.AddCommand(NewQueryCommand())
	rootCmd.AddCommand(NewServeCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
