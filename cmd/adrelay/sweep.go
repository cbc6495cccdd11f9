package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"adrelay/internal/cache"
	"adrelay/internal/config"
	"adrelay/internal/notify"
	"adrelay/internal/repository"
	"adrelay/internal/service"
)

// One-shot sweep for operators; the serve command runs the same sweep on its
// cron schedule.
func newSweepCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire elapsed messages once and exit",
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

			logger := newLogger(cfg.LogLevel)
			messages := service.NewMessageService(
				repository.NewSQLiteMessageRepository(db),
				repository.NewSQLiteLocationRepository(db),
				notify.NewSlogDispatcher(logger),
				cache.NewMemory(time.Minute, time.Minute),
				cfg.MuleFanOut, logger)

			n, err := messages.SweepExpired()
			if err != nil {
				return err
			}
			fmt.Printf("expired %d messages\n", n)
			return nil
		},
	}
}
