package main

import (
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/nikhilbhutani/tubefilter/internal/config"
	"github.com/nikhilbhutani/tubefilter/internal/queue"
	"github.com/nikhilbhutani/tubefilter/internal/queue/workers"
	"github.com/nikhilbhutani/tubefilter/internal/webhook"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	srv := asynq.NewServer(
		queue.RedisOpt(cfg.Redis),
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	client := queue.NewClient(cfg.Redis)
	defer client.Close()

	dispatcher := webhook.NewDispatcher(cfg.Webhook.URLs, cfg.Webhook.Secret)
	webhookWorker := workers.NewWebhookWorker(dispatcher, client)

	registry := queue.NewHandlersRegistry()
	registry.RegisterFunc(queue.TypeConfigChanged, webhookWorker.ProcessConfigChanged)
	registry.RegisterFunc(queue.TypeWebhookDeliver, webhookWorker.ProcessDeliver)

	slog.Info("starting worker", "concurrency", cfg.Worker.Concurrency, "webhooks", len(cfg.Webhook.URLs))
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
