package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"finproject/internal/cli"
	apphttp "finproject/internal/http"
	"finproject/internal/log"
	"finproject/internal/persistence"
	"finproject/internal/services"
	"finproject/internal/store"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	res := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	}()

	adapter := persistence.NewAdapter(res.Store, cfg.StorageKey, logger.WithComponent(log.ComponentPersistence).Slog())
	st := store.Open(ctx, adapter, logger.WithComponent(log.ComponentStore).Slog())

	// A nil *amqp.Client must not reach the interface as a typed nil.
	var publisher services.EventPublisher
	if res.Publisher != nil {
		publisher = res.Publisher
	}
	svc := services.NewTransactionService(st, publisher, logger.WithComponent(log.ComponentService).Slog(), services.Config{
		Locale: cfg.Locale(),
		TopN:   cfg.TopCategories,
	})

	srv := apphttp.NewServer(":"+cfg.Port, svc, logger, apphttp.Options{RateLimit: cfg.RateLimit})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting finproject server",
			log.FieldOperation, log.OpStartup,
			"port", cfg.Port,
			log.FieldBackend, cfg.StorageBackend,
			"transactions", st.Len(),
			"events", publisher != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		stop()
		_ = res.Cleanup()
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
