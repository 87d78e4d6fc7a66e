package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postpulse/postpulse/internal/analysis"
	"github.com/postpulse/postpulse/internal/auth"
	"github.com/postpulse/postpulse/internal/clients"
	"github.com/postpulse/postpulse/internal/generation"
	"github.com/postpulse/postpulse/internal/models"
)

type stubCompleter struct {
	response string
	err      error
}

func (s *stubCompleter) Complete(context.Context, string, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type memoryCache struct {
	store map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: make(map[string][]byte)}
}

func (c *memoryCache) GetCachedAnalysis(_ context.Context, key string) ([]byte, bool) {
	payload, ok := c.store[key]
	return payload, ok
}

func (c *memoryCache) CacheAnalysis(_ context.Context, key string, payload []byte) error {
	c.store[key] = payload
	return nil
}

func newTestHandlers(completer generation.ChatCompleter, cache AnalysisCache) *Handlers {
	healthy := &atomic.Bool{}
	healthy.Store(true)
	return NewHandlers(
		analysis.NewAnalyzer(analysis.DefaultLexicon()),
		generation.NewGenerator(completer),
		cache,
		clients.AnalysisCacheKey,
		nil,
		nil,
		healthy,
	)
}

func newTestRouter(h *Handlers) http.Handler {
	tokens := auth.NewTokenStore()
	tokens.Register("test-token", auth.Identity{UserID: "u-1", Email: "user@example.com"})
	return SetupRoutes(h, tokens, []string{"http://localhost:5173"})
}

func postJSON(t *testing.T, handler http.Handler, path string, body map[string]any, token string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpointReturnsScores(t *testing.T) {
	router := newTestRouter(newTestHandlers(&stubCompleter{}, nil))

	rec := postJSON(t, router, "/api/v1/analyze", map[string]any{
		"content": "We just shipped an amazing update! #launch 🚀",
	}, "test-token")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 8, resp.WordCount)
	assert.Equal(t, 1, resp.HashtagCount)
	assert.Equal(t, []string{"#launch"}, resp.Hashtags)
	assert.Equal(t, 1, resp.EmojiCount)
	assert.GreaterOrEqual(t, resp.Sentiment, 0.0)
	assert.NotEmpty(t, resp.SentimentLabel)
	assert.NotEmpty(t, resp.Feedback)
	assert.NotEmpty(t, resp.Strengths)
	assert.NotEmpty(t, resp.Improvements)
	assert.False(t, resp.Cached)
}

func TestAnalyzeEndpointAcceptsTextField(t *testing.T) {
	router := newTestRouter(newTestHandlers(&stubCompleter{}, nil))

	rec := postJSON(t, router, "/api/v1/analyze", map[string]any{"text": "Hello world!"}, "test-token")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.WordCount)
	assert.Equal(t, 12, resp.CharCount)
}

func TestAnalyzeEndpointRejectsEmptyText(t *testing.T) {
	router := newTestRouter(newTestHandlers(&stubCompleter{}, nil))

	rec := postJSON(t, router, "/api/v1/analyze", map[string]any{"content": "   "}, "test-token")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeEndpointServesFromCache(t *testing.T) {
	cache := newMemoryCache()
	router := newTestRouter(newTestHandlers(&stubCompleter{}, cache))
	body := map[string]any{"content": "Hello cache world."}

	first := postJSON(t, router, "/api/v1/analyze", body, "test-token")
	require.Equal(t, http.StatusOK, first.Code)

	second := postJSON(t, router, "/api/v1/analyze", body, "test-token")
	require.Equal(t, http.StatusOK, second.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.True(t, resp.Cached)
}

func TestAuthRequiredOnAPIRoutes(t *testing.T) {
	router := newTestRouter(newTestHandlers(&stubCompleter{}, nil))

	rec := postJSON(t, router, "/api/v1/analyze", map[string]any{"content": "hi"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(t, router, "/api/v1/analyze", map[string]any{"content": "hi"}, "wrong-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthzIsOpen(t *testing.T) {
	router := newTestRouter(newTestHandlers(&stubCompleter{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestImproveEndpointReturnsVariants(t *testing.T) {
	stub := &stubCompleter{
		response: `[{"text":"v1","rationale":"r1"},{"text":"v2","rationale":"r2"},{"text":"v3","rationale":"r3"}]`,
	}
	router := newTestRouter(newTestHandlers(stub, nil))

	rec := postJSON(t, router, "/api/v1/improve", map[string]any{
		"content": "original caption",
		"tone":    "casual",
	}, "test-token")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp VariantsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Variants, 3)
	assert.Equal(t, "v1", resp.Variants[0].Text)
	assert.NotEmpty(t, resp.Analysis.Feedback)
}

func TestImproveEndpointMapsMalformedResponseTo502(t *testing.T) {
	stub := &stubCompleter{response: "```json\n[{\"bad\":1}]\n```"}
	router := newTestRouter(newTestHandlers(stub, nil))

	rec := postJSON(t, router, "/api/v1/improve", map[string]any{
		"content": "original caption",
		"count":   1,
	}, "test-token")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestImproveEndpointMapsProviderFailureTo503(t *testing.T) {
	stub := &stubCompleter{err: errors.New("dial tcp: connection refused")}
	router := newTestRouter(newTestHandlers(stub, nil))

	rec := postJSON(t, router, "/api/v1/improve", map[string]any{
		"content": "original caption",
	}, "test-token")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestImproveGatedWhenProviderUnhealthy(t *testing.T) {
	h := newTestHandlers(&stubCompleter{}, nil)
	h.providerHealthy.Store(false)
	router := newTestRouter(h)

	rec := postJSON(t, router, "/api/v1/improve", map[string]any{
		"content": "original caption",
	}, "test-token")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPlanEndpointRequiresNiche(t *testing.T) {
	router := newTestRouter(newTestHandlers(&stubCompleter{}, nil))

	rec := postJSON(t, router, "/api/v1/plan", map[string]any{
		"content": "some notes",
	}, "test-token")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanEndpointReturnsIdeas(t *testing.T) {
	stub := &stubCompleter{
		response: `[{"text":"idea 1","rationale":"monday"},{"text":"idea 2","rationale":"thursday"}]`,
	}
	router := newTestRouter(newTestHandlers(stub, nil))

	rec := postJSON(t, router, "/api/v1/plan", map[string]any{
		"content": "notes about protein and training splits",
		"niche":   "fitness",
		"count":   2,
	}, "test-token")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp VariantsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Variants, 2)
}

func TestRecordsEndpointUsesCallerIdentity(t *testing.T) {
	h := newTestHandlers(&stubCompleter{}, nil)
	var gotUserID string
	h.fetchRecords = func(_ context.Context, userID string, _ int32) ([]models.AnalysisRecord, error) {
		gotUserID = userID
		return []models.AnalysisRecord{{RecordID: "r-1", UserID: userID}}, nil
	}
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", gotUserID)
}

func TestCountValidation(t *testing.T) {
	router := newTestRouter(newTestHandlers(&stubCompleter{}, nil))

	rec := postJSON(t, router, "/api/v1/improve", map[string]any{
		"content": "caption",
		"count":   25,
	}, "test-token")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
