package main

import (
	"fmt"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, zapLogger, err := bootstrap()
		if err != nil {
			return err
		}
		defer zapLogger.Sync()

		db, err := initDatabase(cfg.Database)
		if err != nil {
			return err
		}
		if err := entity.AutoMigrate(db); err != nil {
			zapLogger.Error("AutoMigrate failed", zap.Error(err))
			return fmt.Errorf("migrate: %w", err)
		}

		zapLogger.Info("schema migrated", zap.String("driver", cfg.Database.Driver))
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "database schema migrated (%s)\n", cfg.Database.Driver)
		return err
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
