package routes

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"verwaltungsportal-backend/internal/handler"
	"verwaltungsportal-backend/internal/middleware"
)

// Handlers bündelt alle HTTP-Handler des Portals für die Registrierung.
type Handlers struct {
	Auth       *handler.AuthHandler
	Eintraege  *handler.EintragHandler
	Assistent  *handler.AssistentHandler
	Stammdaten *handler.StammdatenHandler
}

// Setup registriert globale Middleware und alle Portal-Endpunkte am Router.
func Setup(r chi.Router, h Handlers, logger *zap.Logger, rps float64, registry *prometheus.Registry) {
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(registry))
	r.Use(middleware.RateLimit(rps, logger))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", h.Auth.Login)
		r.Post("/register", h.Auth.Register)
		r.Post("/logout", h.Auth.Logout)
		r.Get("/me", h.Auth.Me)
	})

	r.Route("/api/benutzer", func(r chi.Router) {
		r.Get("/", h.Eintraege.List)
		r.Get("/{id}", h.Eintraege.Get)
		r.Delete("/{id}", h.Eintraege.Delete)
		r.Post("/{id}/status", h.Eintraege.ToggleStatus)
		r.Get("/{id}/berechtigungen", h.Eintraege.Berechtigungen)
	})

	r.Route("/api/assistent", func(r chi.Router) {
		r.Post("/", h.Assistent.Start)
		r.Route("/{sid}", func(r chi.Router) {
			r.Get("/", h.Assistent.Get)
			r.Delete("/", h.Assistent.Verwerfen)
			r.Post("/organisationen", h.Assistent.AddOrganisation)
			r.Delete("/organisationen/{index}", h.Assistent.RemoveOrganisation)
			r.Patch("/organisationen/{index}", h.Assistent.PatchOrganisation)
			r.Get("/organisationen/{index}/berechtigungen", h.Assistent.Berechtigungen)
			r.Put("/organisationen/{orgIndex}/einheiten/{einheitIndex}/rollen", h.Assistent.SetRollen)
			r.Patch("/person", h.Assistent.PatchPerson)
			r.Post("/weiter", h.Assistent.Weiter)
			r.Post("/zurueck", h.Assistent.Zurueck)
			r.Post("/speichern", h.Assistent.Speichern)
		})
	})

	r.Route("/api/stammdaten", func(r chi.Router) {
		r.Get("/organisationen", h.Stammdaten.Organisationen)
		r.Get("/rollen", h.Stammdaten.Rollen)
	})

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
