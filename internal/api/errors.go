package api

import "errors"

// Request-local error kinds, mapped to HTTP status codes at the handler
// boundary via errors.Is. A dump request's unknown seed is reported
// through catalog.ErrTrackNotFound directly rather than a second sentinel
// here, since Index.Lookup already returns it.
var (
	// ErrNoUsableSeed means none of the requested track paths resolved to a
	// catalog entry.
	ErrNoUsableSeed = errors.New("no usable seed track")
	// ErrMalformedRequest means a required parameter was missing or a
	// numeric parameter could not be parsed.
	ErrMalformedRequest = errors.New("malformed request")
)
