package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graphmint/graphmint/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := openRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			if rt.pool == nil {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			if err := db.RunMigrations(ctx, rt.pool, rt.log); err != nil {
				return err
			}

			fmt.Fprintln(os.Stderr, "Migrations applied.")

			return nil
		},
	}
}
