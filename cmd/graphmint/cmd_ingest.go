package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graphmint/graphmint/internal/encoder"
	"github.com/graphmint/graphmint/internal/service"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <data-model-id> <events.json>",
		Short: "Ingest a record event stream into a data model",
		Long: `Ingest encodes the events of the given file into record graphs, writes
them under the data model's namespace and reconciles the inferred schema.
The file is a JSON array of protocol events; each element has a "kind"
(startRecord, startEntity, literal, endEntity, endRecord) plus "name" and
"value" where the kind uses them.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dataModelID := args[0]

			rt, err := openRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.requireSchemas(); err != nil {
				return err
			}

			raw, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading event file: %w", err)
			}

			events, err := parseEvents(raw)
			if err != nil {
				return err
			}

			svc := service.NewIngestService(rt.graphs,
				service.NewSchemaReconciler(rt.schemas, rt.log), rt.cfg.BaseNamespace, rt.log)

			result, err := svc.Run(ctx, dataModelID, encoder.NewSliceReader(events))
			if err != nil {
				return fmt.Errorf("ingest failed: %w", err)
			}

			if result.Schema == nil {
				fmt.Fprintln(os.Stderr, "No records ingested.")

				return nil
			}

			fmt.Fprintf(os.Stderr, "Ingested %d records (%d statements); schema %s now has %d attribute paths\n",
				result.Records, result.Statements, result.Schema.ID, len(result.Schema.AttributePaths))

			return nil
		},
	}
}
