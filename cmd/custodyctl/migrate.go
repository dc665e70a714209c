package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ghuser/volunteerhub/pkg/migrator"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applied, err := migrator.RunMigrations(cmd.Context(), e.db)
			if err != nil {
				return err
			}
			version, err := migrator.Version(cmd.Context(), e.db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations, schema at version %d\n", len(applied), version)
			return nil
		},
	}
}
