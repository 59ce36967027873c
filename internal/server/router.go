// Package server wires HTTP routes and middleware.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/manualgrid/ingestd/internal/api"
	"github.com/manualgrid/ingestd/internal/api/handlers"
	"github.com/manualgrid/ingestd/internal/api/middleware"
)

type RouterConfig struct {
	StatusHandler     *handlers.StatusHandler
	EnrichmentHandler *handlers.EnrichmentHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", cfg.StatusHandler.Get)
		r.Post("/enrichment/run", cfg.EnrichmentHandler.Run)
	})

	return r
}
