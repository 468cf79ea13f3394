/*
Package middleware provides HTTP middleware components for the similarity
API: request ID tracking, gzip compression, and Prometheus instrumentation.

Key Components:

  - Compression: gzip-encodes responses when the client advertises support
  - Request ID: UUID-based request tracking, shared with internal/api's error envelope
  - Prometheus Metrics: HTTP request/response instrumentation

Middleware Stack:

The typical middleware stack for an endpoint is:

	http.HandleFunc("/api/similar",
	    middleware.PrometheusMetrics(
	        middleware.Compression(
	            middleware.RequestID(
	                handler,
	            ),
	        ),
	    ),
	)

Usage Example - Compression:

	import "github.com/CDrummond/essentia-api/internal/middleware"

	http.HandleFunc("/api/similar",
	    middleware.Compression(handler),
	)

Usage Example - Request ID:

	http.HandleFunc("/api/similar",
	    middleware.RequestID(handler),
	)

	func handler(w http.ResponseWriter, r *http.Request) {
	    requestID := middleware.GetRequestID(r.Context())
	    log.Printf("[%s] processing request", requestID)
	}

Thread Safety:

All middleware components are thread-safe: compression uses per-request
gzip writers from a sync.Pool, request ID uses context.Context, and
Prometheus metrics use atomic operations.

See Also:

  - internal/api: HTTP handlers wrapped by this middleware
  - internal/metrics: Prometheus metric definitions
*/
package middleware
