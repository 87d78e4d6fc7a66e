package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/postpulse/postpulse/config"
	"github.com/postpulse/postpulse/internal/analysis"
	"github.com/postpulse/postpulse/internal/api"
	"github.com/postpulse/postpulse/internal/auth"
	"github.com/postpulse/postpulse/internal/clients"
	"github.com/postpulse/postpulse/internal/clients/kafka_client"
	"github.com/postpulse/postpulse/internal/db"
	"github.com/postpulse/postpulse/internal/generation"
	"github.com/postpulse/postpulse/internal/logging"
	"github.com/postpulse/postpulse/internal/monitoring"
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

	analyzer := analysis.NewAnalyzer(analysis.DefaultLexicon())
	generator := generation.NewGenerator(clients.GetOpenAIClient())
	tokens := auth.NewTokenStoreFromEnv()

	var cache api.AnalysisCache
	if os.Getenv("VALKEY_INIT_ADDRESS") != "" {
		cache = clients.InitValkey()
		defer clients.CloseValkey()
	} else {
		slog.Warn("[Main] VALKEY_INIT_ADDRESS not set, analysis cache disabled")
	}

	var publishAudit api.AuditPublisher
	cfg := kafka_client.GetKafkaConfig()
	if err := kafka_client.InitProducer(cfg); err != nil {
		slog.Warn("[Main] Kafka producer init failed, audit trail disabled",
			slog.String("error", err.Error()))
	} else {
		publishAudit = kafka_client.PublishAuditRecord
		defer kafka_client.CloseProducer()
	}

	providerHealthy := &atomic.Bool{}
	providerHealthy.Store(true)
	go monitoring.MonitorProviderHealth(ctx, providerHealthy)

	handlers := api.NewHandlers(
		analyzer,
		generator,
		cache,
		clients.AnalysisCacheKey,
		publishAudit,
		db.GetRecordsForUser,
		providerHealthy,
	)

	router := api.SetupRoutes(handlers, tokens, api.ParseOrigins(os.Getenv("CORS_ORIGINS")))

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := api.NewServer(addr, router)

	go func() {
		if err := server.Start(); err != nil {
			slog.Error("[Main] Server failed",
				slog.String("error", err.Error()))
			cancel()
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed",
			slog.String("error", err.Error()))
	}
}
