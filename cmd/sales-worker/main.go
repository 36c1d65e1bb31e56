package main

import (
	"context"
	"errors"
	"os"
	"time"

	"computesales/internal/amqp"
	"computesales/internal/backend"
	"computesales/internal/cli"
	applog "computesales/internal/log"
	"computesales/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg).WithComponent(applog.ComponentWorker)

	logger.Info("Starting sales-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(cli.ExitFailure)
	}

	writer, err := backend.NewRunWriter(context.Background(), backend.TypeFor(cfg), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize export target", "error", err)
		os.Exit(cli.ExitFailure)
	}

	amqpClient, err := amqp.DialWithRetry(context.Background(), cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, 10)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(cli.ExitFailure)
	}

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func() {
		amqpClient.Close()
	})

	exporter := services.NewRunExporter(writer, logger)
	if err := amqpClient.ConsumeRunCompleted(ctx, exporter.HandleRunCompleted); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		amqpClient.Close()
		os.Exit(cli.ExitFailure)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("sales-worker stopped")
}
