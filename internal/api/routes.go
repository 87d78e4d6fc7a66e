package api

import (
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/postpulse/postpulse/internal/auth"
)

// SetupRoutes builds the router: open health endpoint, everything under
// /api/v1 behind bearer auth.
func SetupRoutes(h *Handlers, tokens *auth.TokenStore, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.HandleHealthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(tokens.RequireAuth)
		r.Post("/analyze", h.HandleAnalyze)
		r.Post("/improve", h.HandleImprove)
		r.Post("/plan", h.HandlePlan)
		r.Get("/records", h.HandleRecords)
	})

	return r
}

// ParseOrigins splits a comma-separated CORS_ORIGINS value, defaulting to
// the local SPA dev server.
func ParseOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{"http://localhost:5173"}
	}
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
