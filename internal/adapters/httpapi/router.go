package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cityplay/activity-booking-api/internal/app/activities"
	"github.com/cityplay/activity-booking-api/internal/app/auth"
	"github.com/cityplay/activity-booking-api/internal/app/bookings"
	"github.com/cityplay/activity-booking-api/internal/platform/logger"
	clockport "github.com/cityplay/activity-booking-api/internal/ports/out/clock"
	"github.com/cityplay/activity-booking-api/internal/ports/out/idempotency"
)

// RouterOptions carries everything the router needs wired in.
type RouterOptions struct {
	Auth       *auth.Service
	Activities *activities.Service
	Bookings   *bookings.Service

	// Connected is the store-connectivity probe. The health endpoint reports
	// it; every data-touching route refuses work while it is false.
	Connected func() bool

	// Idempotency, when set, enables Idempotency-Key replay on the
	// booking-create endpoints.
	Idempotency idempotency.Store
	Clock       clockport.Clock

	Logger         *logger.Logger
	AllowedOrigins []string
}

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: handlers decode and encode the JSON
// envelope and delegate every decision to the application services.
func NewRouter(opts RouterOptions) http.Handler {
	h := NewHandlers(opts.Auth, opts.Activities, opts.Bookings, opts.Logger, opts.Connected)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewRequestLogger(opts.Logger))
	r.Use(NewRecoverer(opts.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", idempotencyKeyHeader},
	}))

	requireAuth := NewAuthMiddleware(opts.Auth)
	requireStore := NewAvailabilityMiddleware(opts.Connected)

	book := h.BookActivity
	createBooking := h.CreateBooking
	if opts.Idempotency != nil {
		book = withIdempotency(opts.Idempotency, opts.Clock, opts.Logger, "POST /api/activities/{id}/book", h.BookActivity)
		createBooking = withIdempotency(opts.Idempotency, opts.Clock, opts.Logger, "POST /api/bookings", h.CreateBooking)
	}

	r.Route("/api", func(r chi.Router) {
		// Health stays reachable with the store down and without a token.
		r.Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			r.Use(requireStore)

			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)

			r.Get("/activities", h.ListActivities)
			r.Get("/activities/{id}", h.GetActivity)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)

				r.Get("/auth/me", h.Me)
				r.Post("/activities", h.CreateActivity)
				r.Post("/activities/{id}/book", book)
				r.Get("/bookings/me", h.MyBookings)
				r.Post("/bookings", createBooking)
			})
		})
	})

	return r
}
