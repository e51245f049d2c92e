package main

import (
	"context"
	"errors"
	"os"
	"time"

	"moneymanager/internal/amqp"
	"moneymanager/internal/backend"
	"moneymanager/internal/cli"
	"moneymanager/internal/log"
	"moneymanager/internal/storage"
	"moneymanager/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentWorker)

	logger.Info("Starting ledger-worker", "backend", cfg.DataBackend, "export_interval", cfg.ExportInterval.String())

	bcfg, res := cli.InitBackend(context.Background(), logger, cfg)
	if bcfg.Type == backend.MemoryBackend {
		logger.Warn("Memory backend is private to this process, the worker cannot see the server ledger")
	}
	repo := storage.NewSnapshotRepository(res.Store, cfg.StorageKey)

	exporter, err := backend.NewFactory(logger.WithComponent(log.ComponentExport).Logger).CreateExporter(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to initialize exporter", log.FieldError, err.Error())
		os.Exit(1)
	}
	exportWorker := worker.NewExportWorker(repo, exporter)

	var amqpClient *amqp.Client
	if cfg.AMQPEnabled() {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
			os.Exit(1)
		}
	} else {
		logger.Info("AMQP disabled, exporting on the periodic sweep only")
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", log.FieldError, err.Error())
			}
		}
		if res.Cleanup != nil {
			if err := res.Cleanup(); err != nil {
				logger.Warn("Backend cleanup error", log.FieldError, err.Error())
			}
		}
	})

	// Don't exit on failure, the sweep retries
	if err := exportWorker.StartupExport(ctx); err != nil {
		logger.Error("Startup export failed", log.FieldError, err.Error())
	}

	if amqpClient != nil {
		go func() {
			err := amqpClient.ConsumeLedgerChanged(ctx, exportWorker.HandleLedgerChanged)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", log.FieldError, err.Error())
			}
		}()
	}

	go func() {
		ticker := time.NewTicker(cfg.ExportInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := exportWorker.Export(ctx); err != nil {
					logger.Error("Periodic export failed", log.FieldError, err.Error())
				}
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
