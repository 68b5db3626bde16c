package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var (
		classURI string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "search <data-model-id> <attribute-uri> <value>",
		Short: "Find records carrying an exact literal value",
		Args:  cobra.ExactArgs(3),
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

			records, err := rt.graphs.SearchRecords(ctx, dataModelID, classURI, args[1], args[2], limit)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			out, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return fmt.Errorf("marshalling results: %w", err)
			}

			fmt.Fprintln(os.Stdout, string(out))
			fmt.Fprintf(os.Stderr, "%d record(s) matched\n", len(records))

			return nil
		},
	}

	cmd.Flags().StringVar(&classURI, "class", "", "Record class URI (default: the class of the data model's schema)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Cap the number of results (0 = all)")

	return cmd
}
