package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ttravel/hospitality/internal/auth"
)

// SetupRoutes builds the router. Everything under /api/admin, the content
// bulk update and gallery uploads require an authenticated session.
func SetupRoutes(h *Handlers, am *auth.Manager, health *HealthChecker, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if health != nil {
		r.Get("/health", health.HandleHealth)
		r.Get("/health/ready", health.HandleReadiness)
	} else {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", am.HandleLogin)
			r.Post("/logout", am.HandleLogout)
			r.Get("/user", am.HandleUserInfo)
		})

		r.Get("/content", h.GetContent)
		r.Get("/destinations", h.ListDestinations)
		r.Get("/destinations/{type}", h.ListDestinationsByType)
		r.Get("/packages", h.ListPackages)
		r.Get("/packages/{id}", h.GetPublicPackage)
		r.Post("/contact", h.SubmitContact)
		r.Post("/newsletter", h.Subscribe)
		r.Delete("/newsletter", h.Unsubscribe)
		r.Get("/gallery", h.ListGallery)

		r.Group(func(r chi.Router) {
			r.Use(am.RequireAuth)

			r.Put("/content", h.UpdateContent)
			r.Post("/gallery", h.UploadGallery)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/content", h.ListContent)
				r.Put("/content", h.UpdateContent)

				r.Route("/destinations", func(r chi.Router) {
					r.Get("/", h.AdminListDestinations)
					r.Post("/", h.CreateDestination)
					r.Get("/{id}", h.GetDestination)
					r.Put("/{id}", h.UpdateDestination)
					r.Delete("/{id}", h.DeleteDestination)
				})

				r.Route("/packages", func(r chi.Router) {
					r.Get("/", h.AdminListPackages)
					r.Post("/", h.CreatePackage)
					r.Get("/{id}", h.GetPackage)
					r.Put("/{id}", h.UpdatePackage)
					r.Delete("/{id}", h.DeletePackage)
				})

				r.Get("/contact-submissions", h.ListSubmissions)
				r.Put("/contact-submissions/{id}/status", h.UpdateSubmissionStatus)
				r.Get("/newsletter", h.ListSubscribers)
				r.Get("/stats", h.Stats)
			})
		})
	})

	return r
}
