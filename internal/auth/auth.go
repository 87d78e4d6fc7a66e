package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
)

// Identity is the caller the bearer token resolves to. The pipeline never
// inspects it; it only keys audit records.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type contextKey struct{}

var identityKey contextKey

// TokenStore maps bearer tokens to identities. Tokens come from the
// API_TOKENS env var as comma-separated token:uid:email triples.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]Identity
}

func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]Identity)}
}

// NewTokenStoreFromEnv parses API_TOKENS. Malformed entries are skipped
// with a warning rather than failing startup.
func NewTokenStoreFromEnv() *TokenStore {
	store := NewTokenStore()
	raw := os.Getenv("API_TOKENS")
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
			slog.Warn("[Auth] Skipping malformed API_TOKENS entry")
			continue
		}
		store.Register(parts[0], Identity{UserID: parts[1], Email: parts[2]})
	}
	slog.Info("[Auth] Token store initialized", slog.Int("tokens", store.Len()))
	return store
}

func (s *TokenStore) Register(token string, identity Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = identity
}

func (s *TokenStore) Lookup(token string) (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.tokens[token]
	return identity, ok
}

func (s *TokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

// RequireAuth verifies the Authorization bearer token and injects the
// resolved identity into the request context.
func (s *TokenStore) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			unauthorized(w)
			return
		}

		identity, found := s.Lookup(strings.TrimSpace(token))
		if !found {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "unauthorized",
	})
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the authenticated caller, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
