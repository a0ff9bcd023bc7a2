package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tourvana/tour-booking-api/internal/domain"
	"github.com/tourvana/tour-booking-api/internal/middleware"
)

// hppWhitelist lists the query parameters that may legitimately repeat
// as multi-value filters. Everything else collapses to its last value.
var hppWhitelist = []string{
	"duration",
	"ratingsAverage",
	"ratingsQuantity",
	"maxGroupSize",
	"difficulty",
	"price",
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	if app.config.env == "dev" {
		r.Use(chimiddleware.Logger)
	}
	r.Use(app.recoverPanic)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.cors.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SecureHeaders)
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.CollapseQueryParams(hppWhitelist...))
	r.Use(middleware.SanitizeQuery)

	// The webhook must see the raw body for signature verification, so
	// it sits outside the API group and its session middleware.
	r.Post("/webhook-checkout", app.StripeWebhookHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(app.rateLimit)
		r.Use(app.sessionManager.LoadAndSave)

		r.Get("/healthcheck", app.GetHealth)

		r.Route("/tours", func(r chi.Router) {
			r.Get("/", app.ListTours)
			r.Get("/{tourID}", app.GetTour)

			r.With(app.requireRole(domain.RoleAdmin, domain.RoleLeadGuide)).Group(func(r chi.Router) {
				r.Post("/", app.CreateTour)
				r.Patch("/{tourID}", app.UpdateTour)
				r.Delete("/{tourID}", app.DeleteTour)
			})

			r.Get("/{tourID}/reviews", app.ListTourReviews)
			r.With(app.requireAuthentication).Post("/{tourID}/reviews", app.CreateReview)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/signup", app.RegisterUser)
			r.Post("/login", app.LoginUser)
			r.Post("/logout", app.LogoutUser)

			r.With(app.requireAuthentication).Route("/me", func(r chi.Router) {
				r.Get("/", app.GetCurrentUser)
				r.Patch("/", app.UpdateCurrentUser)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(app.requireAuthentication)

			r.Patch("/{reviewID}", app.UpdateReview)
			r.Delete("/{reviewID}", app.DeleteReview)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.With(app.requireAuthentication).Get("/checkout-session/{tourID}", app.CreateCheckoutSessionHandler)
			r.With(app.requireAuthentication).Get("/me", app.ListMyBookings)

			r.With(app.requireRole(domain.RoleAdmin, domain.RoleLeadGuide)).Group(func(r chi.Router) {
				r.Get("/", app.ListBookings)
				r.Get("/{bookingID}", app.GetBooking)
				r.Patch("/{bookingID}", app.UpdateBooking)
				r.Delete("/{bookingID}", app.DeleteBooking)
			})
		})
	})

	fileServer := http.FileServer(http.Dir("./public"))
	for _, prefix := range []string{"/js", "/css", "/img"} {
		r.Handle(prefix+"/*", fileServer)
	}

	return r
}
