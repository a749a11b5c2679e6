package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"eduforge-api/internal/wire"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:               "migrate",
	Short:             "Create or update the projects and wizard_sessions tables",
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		client, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		defer cleanup()

		if err := client.AutoMigrate(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migration completed")
		return nil
	},
}
