package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		outputPath string
		classURI   string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "export <data-model-id>",
		Short: "Export the stored record graphs of a data model to a JSON file",
		Long: `Export writes all record graphs of the data model's record class, keyed
by record URI. The class defaults to the one recorded in the data model's
schema; pass --class to export a different one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dataModelID := args[0]

			rt, err := openRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			if classURI == "" {
				if err := rt.requireSchemas(); err != nil {
					return fmt.Errorf("no --class given and %w", err)
				}

				schema, err := rt.schemas.LoadSchema(ctx, dataModelID)
				if err != nil {
					return fmt.Errorf("resolving record class: %w", err)
				}

				if schema.RecordClass == nil {
					return fmt.Errorf("schema %s has no record class; pass --class", schema.ID)
				}

				classURI = schema.RecordClass.URI
			}

			records, err := rt.graphs.Read(ctx, dataModelID, classURI, limit)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			out, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return fmt.Errorf("marshalling export: %w", err)
			}

			if outputPath == "" {
				outputPath = fmt.Sprintf("graphmint-export-%s.json",
					time.Now().UTC().Format("20060102T150405Z"))
			}

			if outputPath == "-" {
				_, err = os.Stdout.Write(out)

				return err
			}

			if err := os.WriteFile(outputPath, out, 0o600); err != nil {
				return fmt.Errorf("writing export file: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Exported %d records to %s\n", len(records), outputPath)

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: graphmint-export-<timestamp>.json, use - for stdout)")
	cmd.Flags().StringVar(&classURI, "class", "", "Record class URI (default: the class of the data model's schema)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Cap the number of exported records (0 = all)")

	return cmd
}
