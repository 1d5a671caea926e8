package main

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	migrations "github.com/dojotek/chatbot/db"
	"github.com/dojotek/chatbot/internal/db"
	"github.com/dojotek/chatbot/internal/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down [all]|version|force N]",
		Short: "Apply or roll back database migrations",
		Long:  "Apply pending schema migrations (up), roll back the latest one (down) or all of them (down all), report the schema version, or force the recorded version after a failed run.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			source, err := fs.Sub(migrations.MigrationsFS, "migrations")
			if err != nil {
				return fmt.Errorf("migrations fs: %w", err)
			}
			return db.RunMigrate(logger.L, cfg.Postgres, source, args[0], args[1:])
		},
	}
}
