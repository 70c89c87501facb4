package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"yanote/internal/notes/db"
	"yanote/pkg/logger"
)

const LogMigrationsDone = "notes database migrations applied"

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Применить миграции схемы PostgreSQL",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cfg, _, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		if err := db.Migrate(ctx, &cfg.Postgres); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		logger.Log(ctx).Info(ctx, LogMigrationsDone)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
