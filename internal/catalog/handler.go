package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/serenatasalon/booking-api/pkg/logging"
)

// Source is what the handler reads from: either a Cache or a bare
// Repository.
type Source interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoryDetail(ctx context.Context, slug string) (*CategoryDetail, error)
}

// Handler serves the read-only catalog endpoints.
type Handler struct {
	source Source
	logger *logging.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(source Source, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{source: source, logger: logger}
}

// ListCategories handles GET /catalog/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.source.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		if errors.Is(err, ErrStoreUnavailable) {
			http.Error(w, "catalog temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "failed to load catalog", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"categories": categories})
}

// GetCategory handles GET /catalog/categories/{slug}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	detail, err := h.source.GetCategoryDetail(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load category", "error", err, "slug", slug)
		if errors.Is(err, ErrStoreUnavailable) {
			http.Error(w, "catalog temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "failed to load catalog", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}
