package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"moneymanager/internal/amqp"
	"moneymanager/internal/cli"
	apphttp "moneymanager/internal/http"
	"moneymanager/internal/log"
	"moneymanager/internal/scan"
	"moneymanager/internal/services"
	"moneymanager/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentApp)

	logger.Info("Starting moneymanager", "port", cfg.Port, "backend", cfg.DataBackend)

	bcfg, res := cli.InitBackend(context.Background(), logger, cfg)
	repo := storage.NewSnapshotRepository(res.Store, cfg.StorageKey)

	opts := []services.Option{}
	var amqpClient *amqp.Client
	if cfg.AMQPEnabled() {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// the ledger works without notifications; the worker catches up on its next sweep
			logger.Error("Failed to initialize AMQP client, change events disabled", log.FieldError, err.Error())
		} else {
			opts = append(opts, services.WithNotifier(amqpClient))
			logger.Info("AMQP change events enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	ledger := services.NewLedgerService(repo, opts...)
	scanner := scan.New(cfg.ScanDelay)

	srv, err := apphttp.NewServer(":"+cfg.Port, ledger, scanner, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger.WithComponent(log.ComponentHTTP),
	})
	if err != nil {
		logger.Error("Failed to create HTTP server", log.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", log.FieldError, err.Error())
			}
		}
		if res.Cleanup != nil {
			if err := res.Cleanup(); err != nil {
				logger.Warn("Backend cleanup error", log.FieldError, err.Error(), "backend", bcfg.Type)
			}
		}
	})

	ledger.Open(ctx)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
