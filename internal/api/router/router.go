package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/serenatasalon/booking-api/internal/accounts"
	"github.com/serenatasalon/booking-api/internal/booking"
	"github.com/serenatasalon/booking-api/internal/catalog"
	httpmiddleware "github.com/serenatasalon/booking-api/internal/http/middleware"
	"github.com/serenatasalon/booking-api/internal/notifications"
	"github.com/serenatasalon/booking-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger               *logging.Logger
	AccountsHandler      *accounts.Handler
	BookingHandler       *booking.Handler
	CatalogHandler       *catalog.Handler
	NotificationsHandler *notifications.Handler
	FeedHandler          http.Handler
	MetricsHandler       http.Handler
	JWTSecret            string
	CORSAllowedOrigins   []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.AccountsHandler != nil {
			public.Post("/auth/signup", cfg.AccountsHandler.SignUp)
			public.Post("/auth/login", cfg.AccountsHandler.LogIn)
		}
		if cfg.CatalogHandler != nil {
			public.Get("/catalog/categories", cfg.CatalogHandler.ListCategories)
			public.Get("/catalog/categories/{slug}", cfg.CatalogHandler.GetCategory)
		}
		if cfg.NotificationsHandler != nil {
			public.Get("/announcements", cfg.NotificationsHandler.ListAnnouncements)
		}
	})

	// Authenticated endpoints
	r.Group(func(authed chi.Router) {
		authed.Use(httpmiddleware.UserJWT(cfg.JWTSecret))
		if cfg.BookingHandler != nil {
			authed.Get("/bookings/slots", cfg.BookingHandler.Slots)
			authed.Post("/bookings", cfg.BookingHandler.Create)
			authed.Get("/bookings", cfg.BookingHandler.List)
			authed.Post("/bookings/{id}/cancel", cfg.BookingHandler.Cancel)
		}
		if cfg.NotificationsHandler != nil {
			authed.Get("/notifications", cfg.NotificationsHandler.List)
			authed.Post("/notifications/{id}/read", cfg.NotificationsHandler.MarkRead)
		}
		if cfg.AccountsHandler != nil {
			authed.Get("/me", cfg.AccountsHandler.Me)
			authed.Put("/me", cfg.AccountsHandler.UpdateMe)
			authed.Post("/auth/change-password", cfg.AccountsHandler.ChangePassword)
		}
		if cfg.FeedHandler != nil {
			authed.Handle("/ws", cfg.FeedHandler)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
