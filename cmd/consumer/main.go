package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/postpulse/postpulse/config"
	"github.com/postpulse/postpulse/internal/clients/kafka_client"
	"github.com/postpulse/postpulse/internal/consumers"
	"github.com/postpulse/postpulse/internal/db"
	"github.com/postpulse/postpulse/internal/logging"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		slog.Info("[Main] Shutdown signal received")
		cancel()
	}()

	db.InitDynamoDB()

	cfg := kafka_client.GetKafkaConfig()
	kafka_client.RegisterConsumer(kafka_client.KAFKA_TOPIC_ANALYSIS_AUDIT, consumers.StartAuditConsumer)

	if err := kafka_client.StartConsumer(ctx, cfg); err != nil {
		slog.Error("[Main] Failed to start consumer",
			slog.String("error", err.Error()))
	}
}
