package notifications

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/serenatasalon/booking-api/internal/http/middleware"
	"github.com/serenatasalon/booking-api/pkg/logging"
)

// Handler serves the notification and announcement endpoints.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a notifications handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /notifications
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	notifs, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list notifications", "error", err, "user_id", userID)
		http.Error(w, "failed to load notifications", http.StatusServiceUnavailable)
		return
	}
	if notifs == nil {
		notifs = []Notification{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"notifications": notifs})
}

// MarkRead handles POST /notifications/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid notification id", http.StatusBadRequest)
		return
	}
	if err := h.repo.MarkRead(r.Context(), userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "notification not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to mark notification read", "error", err, "id", id)
		http.Error(w, "failed to update notification", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAnnouncements handles GET /announcements
func (h *Handler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	anns, err := h.repo.ListAnnouncements(r.Context())
	if err != nil {
		h.logger.Error("failed to list announcements", "error", err)
		http.Error(w, "failed to load announcements", http.StatusServiceUnavailable)
		return
	}
	if anns == nil {
		anns = []Announcement{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"announcements": anns})
}
