package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adrelay/internal/config"
	"adrelay/internal/repository"
)

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			db, err := repository.Open(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			if err := repository.Migrate(db); err != nil {
				return fmt.Errorf("migrating: %w", err)
			}
			fmt.Println("schema up to date")
			return nil
		},
	}
}
