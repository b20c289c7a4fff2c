package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agenthands/refinery/internal/api"
	"github.com/agenthands/refinery/internal/config"
	"github.com/agenthands/refinery/internal/extract"
	"github.com/agenthands/refinery/internal/llm"
	"github.com/agenthands/refinery/internal/pipeline"
	"github.com/agenthands/refinery/internal/schema"
	"github.com/agenthands/refinery/internal/server"
	"github.com/agenthands/refinery/internal/tier2"
	"github.com/agenthands/refinery/internal/worker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		logger.Fatal("llm client init failed", zap.Error(err))
	}
	limited := llm.NewRateLimitedClient(client, cfg.LLM.RequestsPerSecond)
	adapter := extract.NewLLMAdapter(limited, cfg.LLM.MaxOutputTokens, logger)

	registry := schema.NewRegistry()
	runner := tier2.NewRunner(nil, nil, logger)
	apiClient := api.NewClient(cfg.API.URL, cfg.API.Token, logger)
	pipe := pipeline.New(adapter, registry, runner, apiClient, logger)
	pool := worker.NewPool(apiClient, pipe, cfg.Worker, logger)

	srv := server.NewServer(cfg, adapter, logger)
	go func() {
		if err := srv.Run(ctx, cfg.Worker.HealthAddr); err != nil {
			logger.Warn("health server stopped", zap.Error(err))
		}
	}()

	logger.Info("worker starting",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("queue", cfg.Worker.QueueName),
		zap.Int("concurrency", cfg.Worker.Concurrency))

	if err := pool.Run(ctx); err != nil {
		logger.Fatal("worker pool failed", zap.Error(err))
	}
	logger.Info("worker stopped")
}
