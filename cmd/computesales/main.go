package main

import (
	"context"
	"os"

	"computesales/internal/cli"
	"computesales/internal/services"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	var history services.RunRecorder
	if repo := cli.OpenHistory(logger, cfg); repo != nil {
		defer repo.Close()
		history = repo
	}

	var publisher services.RunPublisher
	if client := cli.OpenPublisher(logger, cfg); client != nil {
		defer client.Close()
		publisher = client
	}

	svc := services.NewSalesService(cfg.ResultsPath, history, publisher, logger)
	return cli.Execute(context.Background(), os.Args[1:], os.Stdout, svc)
}
