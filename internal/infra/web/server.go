package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-vip-subscription/internal/usecase"
)

// Server is the read-only admin API. A valid API key mints a short-lived JWT
// session; either the key or the session authorizes requests.
type Server struct {
	userUC     usecase.UserUseCase
	subUC      usecase.SubscriptionUseCase
	settingsUC usecase.SettingsUseCase
	auth       *AuthManager
	apiKey     string
	log        *zerolog.Logger
}

func NewServer(
	userUC usecase.UserUseCase,
	subUC usecase.SubscriptionUseCase,
	settingsUC usecase.SettingsUseCase,
	auth *AuthManager,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "AdminWeb").Logger()
	return &Server{
		userUC:     userUC,
		subUC:      subUC,
		settingsUC: settingsUC,
		auth:       auth,
		apiKey:     apiKey,
		log:        &l,
	}
}

// Router builds the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/v1/session", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Delete("/api/v1/session", s.handleLogout)
		r.Get("/api/v1/stats", s.handleStats)
		r.Get("/api/v1/users", s.handleUsersList)
		r.Get("/api/v1/users/{id}/subscriptions", s.handleUserSubscriptions)
		r.Get("/api/v1/subscriptions/active", s.handleActiveSubscriptions)
	})

	return r
}

// handleLogin exchanges the API key for a JWT session cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.apiKey == "" {
		s.log.Error().Msg("admin API key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.APIKey != s.apiKey {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleLogout drops the session cookie. The API key itself stays valid.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// authMiddleware accepts either the raw API key or a minted JWT.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if hdr := r.Header.Get("Authorization"); hdr == "Bearer "+s.apiKey {
			next.ServeHTTP(w, r)
			return
		}
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
