package main

import (
	"fmt"

	"github.com/ndganesh6973/pdms-mcc/internal/pdms/entity"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/repository"
	"github.com/ndganesh6973/pdms-mcc/internal/pdms/service"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var importOperator string

// importCmd 离线导入原料台账，与 /materials/import-xlsx 同一事务语义
var importCmd = &cobra.Command{
	Use:   "import-materials <file.xlsx>",
	Short: "Import raw material intake from an xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, zapLogger, err := bootstrap()
		if err != nil {
			return err
		}
		defer zapLogger.Sync()

		f, err := excelize.OpenFile(args[0])
		if err != nil {
			return fmt.Errorf("open workbook: %w", err)
		}
		defer f.Close()

		db, err := initDatabase(cfg.Database)
		if err != nil {
			return err
		}
		if err := entity.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		services := service.NewServices(db, repository.NewRepositories(db), cfg, service.Infra{Logger: zapLogger})
		n, err := services.Material.ImportWorkbook(cmd.Context(), f, importOperator)
		if err != nil {
			zapLogger.Error("material import failed", zap.String("file", args[0]), zap.Error(err))
			return err
		}

		zapLogger.Info("material import finished", zap.String("file", args[0]), zap.Int("count", n))
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Successfully imported %d items\n", n)
		return err
	},
}

func init() {
	importCmd.Flags().StringVar(&importOperator, "operator", "Store_Keeper", "actor recorded in the activity log")
	rootCmd.AddCommand(importCmd)
}
