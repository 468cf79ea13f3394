package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CDrummond/essentia-api/internal/middleware"
)

// chiMiddleware adapts an http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler, so existing http.HandlerFunc-based
// middleware can sit alongside Chi-native middleware in r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router builds the complete HTTP handler for the similarity API.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter builds a Router over handler, using mwConfig to configure the
// ambient middleware (CORS, rate limiting).
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// SetupChi builds the route tree: /api/similar and /api/dump for the
// similarity service itself, /healthz and /readyz for liveness/readiness
// probes, and /metrics for Prometheus scraping.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(APISecurityHeaders())
	r.Use(chiMiddleware(middleware.Compression))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(router.chiMiddleware.RateLimit())

	r.Get("/healthz", router.handler.Healthz)
	r.Get("/readyz", router.handler.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/similar", router.handler.Similar)
		r.Post("/similar", router.handler.Similar)
		r.Get("/dump", router.handler.Dump)
		r.Post("/dump", router.handler.Dump)
	})

	return r
}
