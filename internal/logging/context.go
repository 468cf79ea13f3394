package logging

import "context"

type contextKey string

// requestIDKey is the context key used to carry the per-request ID set by
// internal/middleware.RequestID through to the error envelope in
// internal/api.
const requestIDKey contextKey = "request_id"

// ContextWithRequestID returns a new context carrying the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext retrieves the request ID from context, or "" if none
// was set.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
