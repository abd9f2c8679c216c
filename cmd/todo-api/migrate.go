package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Vaidehi-Hirani/ToDo/internal/infra/migrate"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, zapLog := bootstrap()
			defer func() { _ = zapLog.Sync() }()
			_, sqlDB := openDB(cfg, zapLog)
			defer sqlDB.Close()

			if err := migrate.Up(sqlDB); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			return reportVersion(cmd, zapLog, sqlDB)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, zapLog := bootstrap()
			defer func() { _ = zapLog.Sync() }()
			_, sqlDB := openDB(cfg, zapLog)
			defer sqlDB.Close()

			if err := migrate.Down(sqlDB, steps); err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			return reportVersion(cmd, zapLog, sqlDB)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to revert, 0 reverts all")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, zapLog := bootstrap()
			defer func() { _ = zapLog.Sync() }()
			_, sqlDB := openDB(cfg, zapLog)
			defer sqlDB.Close()
			return reportVersion(cmd, zapLog, sqlDB)
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func reportVersion(cmd *cobra.Command, zapLog *zap.Logger, db *sql.DB) error {
	v, dirty, err := migrate.Version(db)
	if err != nil {
		return fmt.Errorf("schema version: %w", err)
	}
	zapLog.Info("schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
	fmt.Fprintf(cmd.OutOrStdout(), "version %d dirty=%t\n", v, dirty)
	return nil
}
