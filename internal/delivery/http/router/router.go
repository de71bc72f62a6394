package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/varon-ai/sitecrawler/internal/delivery/http/handler"
	"github.com/varon-ai/sitecrawler/internal/delivery/http/middleware"
)

// New builds the API router. requestTimeout bounds every request and must
// exceed the crawl job timeout for synchronous extraction to finish.
func New(h *handler.Handler, logger *zap.Logger, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)
		r.Post("/extract", h.HandleExtract)
		r.Post("/jobs", h.HandleSubmitJob)
		r.Get("/jobs/{id}", h.HandleGetJob)
		r.Get("/failed-pages", h.HandleListFailedPages)
	})

	return r
}
