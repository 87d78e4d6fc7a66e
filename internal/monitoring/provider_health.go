package monitoring

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/postpulse/postpulse/internal/clients"
)

const (
	HEALTHCHECK_TIMER = 15 * time.Second

	providerModelsEndpoint = "https://api.openai.com/v1/models"
)

var healthClient = &http.Client{Timeout: 5 * time.Second}

// MonitorProviderHealth probes the generation provider on a ticker and
// flips the shared gate. The API server rejects improve/plan requests with
// 503 while the gate is down instead of burning billed calls.
func MonitorProviderHealth(ctx context.Context, healthy *atomic.Bool) {
	ticker := time.NewTicker(HEALTHCHECK_TIMER)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := probeProvider(ctx)
			healthy.Store(isHealthy)
			if !isHealthy {
				slog.Warn("[HealthCheck] Generation provider is unhealthy")
			}
		}
	}
}

func probeProvider(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, providerModelsEndpoint, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+os.Getenv("OPENAI_API_KEY"))
	req.Header.Set("User-Agent", clients.USER_AGENT)

	resp, err := healthClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < 500
}
