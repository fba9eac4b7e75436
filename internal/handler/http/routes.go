package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	router.Get("/healthz", h.healthz)

	// session endpoints
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/logout", h.logout)
	})

	// read routes: anonymous access allowed, identity attached when present
	router.Group(func(r chi.Router) {
		r.Use(h.identify)

		r.Get("/api/models", h.listModels)
		r.Get("/api/models/{modelID}", h.getModel)
		r.Get("/api/models/{modelID}/settings", h.getSettings)
		r.Get("/api/models/{modelID}/hotspots", h.listHotspots)
		r.Get("/api/models/{modelID}/embed", h.embedModel)
	})

	// routes requiring an authenticated session
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/auth/profile", h.getProfile)
		r.Put("/api/auth/profile", h.updateProfile)
		r.Put("/api/auth/password", h.changePassword)

		r.Get("/api/dashboard", h.dashboard)

		r.Post("/api/models", h.createModel)
		r.Put("/api/models/{modelID}", h.updateModel)
		r.Post("/api/models/{modelID}/delete", h.deleteModel)

		r.Post("/api/models/{modelID}/settings", h.saveSettings)

		r.Post("/api/models/{modelID}/hotspots", h.addHotspot)
		r.Put("/api/models/{modelID}/hotspots/{hotspotID}", h.updateHotspot)
		r.Delete("/api/models/{modelID}/hotspots/{hotspotID}", h.deleteHotspot)
	})

	// locally stored assets; absent when assets live in object storage
	if h.uploadDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.uploadDir)))
		router.Get("/uploads/*", fileServer.ServeHTTP)
	}

	return router
}
