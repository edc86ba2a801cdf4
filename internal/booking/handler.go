package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/serenatasalon/booking-api/internal/appointments"
	"github.com/serenatasalon/booking-api/internal/catalog"
	"github.com/serenatasalon/booking-api/internal/http/middleware"
	"github.com/serenatasalon/booking-api/internal/scheduling"
	"github.com/serenatasalon/booking-api/pkg/logging"
)

// Handler serves the booking endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// CreateRequest is the POST /bookings payload.
type CreateRequest struct {
	Category      string   `json:"category"`
	Services      []string `json:"services"`
	Date          string   `json:"date"`
	Hour          int      `json:"hour"`
	Minute        int      `json:"minute"`
	Period        string   `json:"period"`
	PaymentMethod string   `json:"payment_method"`
	Notes         string   `json:"notes,omitempty"`
}

// Slots handles GET /bookings/slots?date=&category=
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	_, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	date := r.URL.Query().Get("date")
	category := r.URL.Query().Get("category")
	occupied, err := h.service.OccupiedSlots(r.Context(), date, category)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"date":     date,
		"category": category,
		"occupied": occupied,
	})
}

// Create handles POST /bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	appt, err := h.service.Book(r.Context(), userID, Request{
		CategorySlug:  req.Category,
		ServiceNames:  req.Services,
		Date:          req.Date,
		Hour:          req.Hour,
		Minute:        req.Minute,
		Period:        scheduling.Period(req.Period),
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appt)
}

// List handles GET /bookings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	appts, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if appts == nil {
		appts = []appointments.Appointment{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"bookings": appts})
}

// Cancel handles POST /bookings/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid booking id", http.StatusBadRequest)
		return
	}
	if err := h.service.Cancel(r.Context(), userID, id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingDate),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrNoServices),
		errors.Is(err, ErrZeroTotal),
		errors.Is(err, ErrPaymentMethod),
		errors.Is(err, ErrUnknownService),
		errors.Is(err, scheduling.ErrSlotNotBookable),
		errors.Is(err, scheduling.ErrMalformedSlot):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, catalog.ErrEmptyCategory):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, scheduling.ErrSlotConflict),
		errors.Is(err, ErrNotCancellable):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, appointments.ErrNotFound):
		http.Error(w, "booking not found", http.StatusNotFound)
	case errors.Is(err, appointments.ErrStoreUnavailable),
		errors.Is(err, catalog.ErrStoreUnavailable):
		h.logger.Error("booking store unavailable", "error", err)
		http.Error(w, "service temporarily unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Error("booking request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
