package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables set via ldflags.
var (
	version   = "0.1.0"
	commit    = ""
	buildDate = ""
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("graphmint version %s (commit: %s, built: %s)", version, commit, buildDate)
	}

	return fmt.Sprintf("graphmint version %s-dev", version)
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "graphmint",
		Short:        "Graphmint CLI — record-to-graph ingestion and schema inference",
		Version:      versionString(),
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newSchemaCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newDeleteCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
