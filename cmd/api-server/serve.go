package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"procurement/db"
	"procurement/db/migrations"
	"procurement/internal/access"
	"procurement/internal/config"
	"procurement/internal/handlers"
	"procurement/internal/idempotency"
	"procurement/internal/tracing"
)

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply migrations before start")
	return cmd
}

func runServe(ctx context.Context, migrate bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Trace.Endpoint, cfg.Trace.ServiceName)
	if err != nil {
		return errors.Wrap(err, "setup tracing")
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown", slog.Any("error", err))
		}
	}()

	dbConn, err := connect(cfg)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if migrate {
		if err := migrations.Up(dbConn.DB); err != nil {
			return err
		}
	}

	var idemStore idempotency.Store = idempotency.NewMemoryStore(cfg.Idempotency.TTL)
	if cfg.Redis.Addr != "" {
		client := idempotency.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Wrap(err, "redis ping")
		}
		idemStore = idempotency.NewRedisStore(client)
		logger.Info("idempotency keys stored in redis", slog.String("addr", cfg.Redis.Addr))
	}

	store := db.NewStorage(dbConn)
	h := handlers.NewHandler(store, handlers.Options{
		Tokens:         access.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Logger:         logger,
		Idempotency:    idemStore,
		IdempotencyTTL: cfg.Idempotency.TTL,
		PollRate:       rate.Limit(cfg.Notifications.PollRate),
		PollBurst:      cfg.Notifications.PollBurst,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", cfg.Server.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
