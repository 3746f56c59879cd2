package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/nemanja-m/chunkstat/internal/remote"
	"github.com/nemanja-m/chunkstat/internal/shared/config"
	"github.com/nemanja-m/chunkstat/internal/shared/logging"
	"github.com/nemanja-m/chunkstat/pkg/local"
)

func main() {
	configPath := pflag.String("config", "", "path to config file")
	pflag.String("addr", "", "listen address (default :50051)")
	pflag.Int("year", 0, "year of the records (default current year)")
	pflag.Int("buffer-size", 0, "maximum line length in bytes (default 1MiB)")
	pflag.String("log-level", "", "log level (debug|info|warn|error)")
	pflag.String("log-format", "", "log format (text|json)")
	pflag.Parse()

	bootstrap := logging.NewSlogLogger(slog.LevelInfo)

	cfg, err := config.LoadWorker(*configPath, pflag.CommandLine)
	if err != nil {
		bootstrap.Fatal("Failed to load config", "error", err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		bootstrap.Fatal("Invalid log level", "error", err)
	}
	logger, err := logging.New(os.Stderr, level, cfg.Logging.Format)
	if err != nil {
		bootstrap.Fatal("Invalid log format", "error", err)
	}

	workerID := uuid.New()
	server := remote.NewServer(cfg.Server, local.NewWorker(cfg.Year, cfg.BufferSize), logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start chunk worker", "error", err)
		}
	}()

	logger.Info("Worker started",
		"worker_id", workerID.String(),
		"addr", cfg.Server.Addr,
		"year", cfg.Year,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker", "worker_id", workerID.String())
	server.Stop()
}
