package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <data-model-id>",
		Short: "Delete all stored record graphs of a data model",
		Long: `Delete removes the data model's whole graph namespace. The inferred
schema and its attribute paths are kept; re-ingesting grows them further.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := openRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.graphs.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("delete failed: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Deleted graph namespace of data model %s\n", args[0])

			return nil
		},
	}
}
