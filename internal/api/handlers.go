package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/postpulse/postpulse/internal/analysis"
	"github.com/postpulse/postpulse/internal/auth"
	"github.com/postpulse/postpulse/internal/generation"
	"github.com/postpulse/postpulse/internal/models"
)

const defaultVariantCount = 3

// AnalysisCache is the read-through cache seam; valkey in production, nil
// to disable.
type AnalysisCache interface {
	GetCachedAnalysis(ctx context.Context, key string) ([]byte, bool)
	CacheAnalysis(ctx context.Context, key string, payload []byte) error
}

// CacheKeyFunc derives the cache key for a text+tone pair.
type CacheKeyFunc func(text, tone string) string

// AuditPublisher ships one audit record off the request path.
type AuditPublisher func(record models.AnalysisRecord) error

// RecordFetcher reads a user's audit trail back from the document store.
type RecordFetcher func(ctx context.Context, userID string, limit int32) ([]models.AnalysisRecord, error)

type Handlers struct {
	analyzer        *analysis.Analyzer
	generator       *generation.Generator
	cache           AnalysisCache
	cacheKey        CacheKeyFunc
	publishAudit    AuditPublisher
	fetchRecords    RecordFetcher
	providerHealthy *atomic.Bool
}

func NewHandlers(
	analyzer *analysis.Analyzer,
	generator *generation.Generator,
	cache AnalysisCache,
	cacheKey CacheKeyFunc,
	publishAudit AuditPublisher,
	fetchRecords RecordFetcher,
	providerHealthy *atomic.Bool,
) *Handlers {
	return &Handlers{
		analyzer:        analyzer,
		generator:       generator,
		cache:           cache,
		cacheKey:        cacheKey,
		publishAudit:    publishAudit,
		fetchRecords:    fetchRecords,
		providerHealthy: providerHealthy,
	}
}

type contentRequest struct {
	Content string `json:"content"`
	Text    string `json:"text"`
	Niche   string `json:"niche"`
	Tone    string `json:"tone"`
	Count   int    `json:"count"`
}

// text accepts either field name; the SPA sends "content", older clients
// send "text".
func (r contentRequest) text() string {
	if strings.TrimSpace(r.Text) != "" {
		return r.Text
	}
	return r.Content
}

func (r contentRequest) count() int {
	if r.Count == 0 {
		return defaultVariantCount
	}
	return r.Count
}

// AnalyzeResponse is the flat payload the SPA renders from.
type AnalyzeResponse struct {
	Sentiment      float64  `json:"sentiment"`
	Readability    float64  `json:"readability"`
	SentimentLabel string   `json:"sentiment_label"`
	WordCount      int      `json:"word_count"`
	CharCount      int      `json:"char_count"`
	HashtagCount   int      `json:"hashtag_count"`
	EmojiCount     int      `json:"emoji_count"`
	Hashtags       []string `json:"hashtags"`
	Feedback       string   `json:"feedback"`
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
	ViralPotential string   `json:"viral_potential"`
	VaderCompound  float64  `json:"vader_compound"`
	Confidence     float64  `json:"confidence"`
	Cached         bool     `json:"cached"`
}

type VariantsResponse struct {
	Analysis AnalyzeResponse  `json:"analysis"`
	Variants []models.Variant `json:"variants"`
}

func flattenAnalysis(a models.Analysis) AnalyzeResponse {
	return AnalyzeResponse{
		Sentiment:      a.Scores.Sentiment,
		Readability:    a.Scores.Readability,
		SentimentLabel: a.Recommendation.SentimentLabel,
		WordCount:      a.Features.WordCount,
		CharCount:      a.Features.CharCount,
		HashtagCount:   a.Features.HashtagCount,
		EmojiCount:     a.Features.EmojiCount,
		Hashtags:       a.Features.Hashtags,
		Feedback:       a.Recommendation.Feedback,
		Strengths:      a.Recommendation.Strengths,
		Improvements:   a.Recommendation.Improvements,
		ViralPotential: a.Recommendation.ViralPotential,
		VaderCompound:  a.Scores.VaderCompound,
		Confidence:     a.Scores.Confidence,
	}
}

// HandleAnalyze runs the scoring pipeline over the posted content. Results
// are served from cache when the same text+tone was scored within the TTL.
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	input := models.ContentInput{Text: req.text(), Niche: req.Niche, Tone: req.Tone}.Normalize()

	if h.cache != nil {
		key := h.cacheKey(input.Text, input.Tone)
		if payload, hit := h.cache.GetCachedAnalysis(r.Context(), key); hit {
			var cached AnalyzeResponse
			if err := json.Unmarshal(payload, &cached); err == nil {
				cached.Cached = true
				writeJSON(w, http.StatusOK, cached)
				return
			}
		}
	}

	result, err := h.analyzer.Analyze(input)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := flattenAnalysis(result)

	if h.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			key := h.cacheKey(input.Text, input.Tone)
			if err := h.cache.CacheAnalysis(r.Context(), key, payload); err != nil {
				slog.Warn("[API] Failed to cache analysis",
					slog.String("error", err.Error()))
			}
		}
	}

	h.audit(r.Context(), models.OperationAnalyze, input, result)
	writeJSON(w, http.StatusOK, resp)
}

// HandleImprove scores the content, then asks the provider for
// tone-targeted rewrites.
func (h *Handlers) HandleImprove(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	if !h.providerAvailable(w) {
		return
	}

	input := models.ContentInput{Text: req.text(), Tone: req.Tone}.Normalize()

	result, err := h.analyzer.Analyze(input)
	if err != nil {
		writeError(w, err)
		return
	}

	variants, err := h.generator.Improve(r.Context(), models.VariantRequest{
		Text:         input.Text,
		Tone:         input.Tone,
		DesiredCount: req.count(),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.audit(r.Context(), models.OperationImprove, input, result)
	writeJSON(w, http.StatusOK, VariantsResponse{
		Analysis: flattenAnalysis(result),
		Variants: variants.Variants,
	})
}

// HandlePlan turns free-form notes into calendar post ideas for a niche.
func (h *Handlers) HandlePlan(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Niche) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("niche is required for planning"))
		return
	}
	if !h.providerAvailable(w) {
		return
	}

	input := models.ContentInput{Text: req.text(), Niche: req.Niche, Tone: req.Tone}.Normalize()

	result, err := h.analyzer.Analyze(input)
	if err != nil {
		writeError(w, err)
		return
	}

	variants, err := h.generator.Plan(r.Context(), models.VariantRequest{
		Text:         input.Text,
		Niche:        input.Niche,
		DesiredCount: req.count(),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.audit(r.Context(), models.OperationPlan, input, result)
	writeJSON(w, http.StatusOK, VariantsResponse{
		Analysis: flattenAnalysis(result),
		Variants: variants.Variants,
	})
}

// HandleRecords returns the caller's audit trail, newest first.
func (h *Handlers) HandleRecords(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return
	}
	if h.fetchRecords == nil {
		writeJSON(w, http.StatusNotFound, errorBody("audit store not configured"))
		return
	}

	records, err := h.fetchRecords(r.Context(), identity.UserID, 50)
	if err != nil {
		slog.Error("[API] Failed to fetch audit records",
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to fetch records"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok"}
	if h.providerHealthy != nil {
		status["provider_healthy"] = h.providerHealthy.Load()
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handlers) providerAvailable(w http.ResponseWriter) bool {
	if h.providerHealthy != nil && !h.providerHealthy.Load() {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("generation provider is unavailable"))
		return false
	}
	return true
}

// audit publishes the snapshot off the request path; a broken audit trail
// never fails a user request.
func (h *Handlers) audit(ctx context.Context, operation string, input models.ContentInput, result models.Analysis) {
	if h.publishAudit == nil {
		return
	}
	identity, _ := auth.IdentityFromContext(ctx)

	record := models.AnalysisRecord{
		RecordID:  uuid.NewString(),
		UserID:    identity.UserID,
		Email:     identity.Email,
		Operation: operation,
		Niche:     input.Niche,
		Tone:      input.Tone,
		Text:      input.Text,
		Analysis:  result,
		CreatedAt: time.Now().Unix(),
	}

	go func() {
		if err := h.publishAudit(record); err != nil {
			slog.Warn("[API] Failed to publish audit record",
				slog.String("record_id", record.RecordID),
				slog.String("error", err.Error()))
		}
	}()
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (contentRequest, bool) {
	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return contentRequest{}, false
	}
	if strings.TrimSpace(req.text()) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody(models.ErrInvalidInput.Error()))
		return contentRequest{}, false
	}
	if req.Count < 0 || req.Count > generation.MaxVariantCount {
		writeJSON(w, http.StatusBadRequest, errorBody("count must be between 1 and 10"))
		return contentRequest{}, false
	}
	return req, true
}

// writeError maps the pipeline error taxonomy onto HTTP statuses:
// InvalidInput 400, MalformedModelResponse 502, ExternalServiceError 503.
func writeError(w http.ResponseWriter, err error) {
	var malformed *models.MalformedResponseError
	var external *models.ExternalServiceError

	switch {
	case errors.Is(err, models.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.As(err, &malformed):
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
	case errors.As(err, &external):
		writeJSON(w, http.StatusServiceUnavailable, errorBody(err.Error()))
	default:
		slog.Error("[API] Unexpected pipeline error",
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("[API] Failed to encode response",
			slog.String("error", err.Error()))
	}
}
