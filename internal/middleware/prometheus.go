package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/CDrummond/essentia-api/internal/metrics"
)

// PrometheusMetrics records api_active_requests, api_requests_total, and
// api_request_duration_seconds for every request against /api/similar,
// /api/dump, and the health routes.
func PrometheusMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		wrapper := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(wrapper, r)

		metrics.RecordAPIRequest(r.Method, r.URL.Path, strconv.Itoa(wrapper.statusCode), time.Since(start))
	}
}

// metricsResponseWriter wraps http.ResponseWriter to capture the status
// code an earlier middleware stage would otherwise lose.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
