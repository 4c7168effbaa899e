package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/infra/metrics"
)

type userResponse struct {
	ID           string    `json:"id"`
	TelegramID   int64     `json:"telegram_id"`
	Username     string    `json:"username"`
	RegisteredAt time.Time `json:"registered_at"`
}

type subscriptionResponse struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
	Status  string    `json:"status"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:           u.ID,
		TelegramID:   u.TelegramID,
		Username:     u.Username,
		RegisteredAt: u.RegisteredAt,
	}
}

func toSubscriptionResponse(s *model.Subscription, now time.Time) subscriptionResponse {
	status := "expired"
	switch {
	case s.IsActiveAt(now):
		status = "active"
	case s.IsFutureAt(now):
		status = "future"
	}
	return subscriptionResponse{
		ID:      s.ID,
		UserID:  s.UserID,
		StartAt: s.StartAt,
		EndAt:   s.EndAt,
		Status:  status,
	}
}

// handleStats serves overall counters plus the current toggles.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := s.userUC.Count(ctx)
	if err != nil {
		http.Error(w, "Failed to get totals", http.StatusInternalServerError)
		return
	}
	active, err := s.subUC.CountActive(ctx)
	if err != nil {
		http.Error(w, "Failed to get totals", http.StatusInternalServerError)
		return
	}
	metrics.SetActiveSubscriptions(active)
	settings, err := s.settingsUC.Get(ctx)
	if err != nil {
		http.Error(w, "Failed to get settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_users":          users,
		"active_subscriptions": active,
		"settings":             settings,
	})
}

func (s *Server) handleUsersList(w http.ResponseWriter, r *http.Request) {
	users, err := s.userUC.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUserSubscriptions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := s.userUC.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get user", http.StatusInternalServerError)
		return
	}

	subs, err := s.subUC.List(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to list subscriptions", http.StatusInternalServerError)
		return
	}
	now := time.Now()
	out := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toSubscriptionResponse(sub, now))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":          toUserResponse(user),
		"subscriptions": out,
	})
}

func (s *Server) handleActiveSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.subUC.ListAllActive(r.Context())
	if err != nil {
		http.Error(w, "Failed to list subscriptions", http.StatusInternalServerError)
		return
	}
	now := time.Now()
	out := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toSubscriptionResponse(sub, now))
	}
	writeJSON(w, http.StatusOK, out)
}
