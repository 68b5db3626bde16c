package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <data-model-id>",
		Short: "Print the inferred schema of a data model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := openRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.requireSchemas(); err != nil {
				return err
			}

			schema, err := rt.schemas.LoadSchema(ctx, args[0])
			if err != nil {
				return fmt.Errorf("loading schema: %w", err)
			}

			out, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("marshalling schema: %w", err)
			}

			fmt.Fprintln(os.Stdout, string(out))

			return nil
		},
	}
}
