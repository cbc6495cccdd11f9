package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/spf13/cobra"

	"adrelay/internal/cache"
	"adrelay/internal/config"
	"adrelay/internal/handler"
	"adrelay/internal/notify"
	"adrelay/internal/repository"
	"adrelay/internal/scheduler"
	"adrelay/internal/service"
)

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and background sweeps",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel)

			db, err := repository.Open(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			if err := repository.Migrate(db); err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}

			cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
			c := cache.NewMemory(cacheTTL, 2*cacheTTL)
			dispatcher := notify.NewSlogDispatcher(logger)

			locationRepo := repository.NewSQLiteLocationRepository(db)
			messageRepo := repository.NewSQLiteMessageRepository(db)
			deliveryRepo := repository.NewSQLiteDeliveryRepository(db)
			muleRepo := repository.NewSQLiteMuleRepository(db)
			profileRepo := repository.NewSQLiteProfileRepository(db)
			auditRepo := repository.NewSQLiteAuditRepository(db)

			locationService := service.NewLocationService(locationRepo, c, cacheTTL, logger)
			messageService := service.NewMessageService(messageRepo, locationRepo, dispatcher, c, cfg.MuleFanOut, logger)
			deliveryService := service.NewDeliveryService(locationService, messageRepo, deliveryRepo, profileRepo, auditRepo, logger)
			muleService := service.NewMuleService(muleRepo, logger)

			sched := scheduler.New(logger)
			if err := sched.Register(cfg.SweepSpec, "expire-messages", func() error {
				_, err := messageService.SweepExpired()
				return err
			}); err != nil {
				return fmt.Errorf("registering sweep: %w", err)
			}
			sched.Start()
			defer sched.Stop()

			store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
			router := handler.NewRouter(store,
				handler.NewMessageHandler(messageService),
				handler.NewDeliveryHandler(deliveryService),
				handler.NewLocationHandler(locationService),
				handler.NewMuleHandler(muleService),
			)

			server := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
				Handler:      router,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", "addr", server.Addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}
