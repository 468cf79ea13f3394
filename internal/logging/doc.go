// Package logging provides the similarity engine's global zerolog logger:
// JSON output for production, console output for local development, and a
// request-ID context key shared with internal/middleware and internal/api.
//
// # Quick Start
//
//	logging.Init(logging.DefaultConfig())
//	logging.Info().Str("addr", addr).Msg("server listening")
//	logging.Error().Err(err).Msg("request failed")
//
// Always terminate a chain with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // correct
//	logging.Info().Str("key", "value")                 // wrong — never emitted
//
// # Configuration
//
//	logging.Init(logging.Config{
//	    Level:     "debug",    // trace, debug, info, warn, error, fatal, panic
//	    Format:    "console",  // json or console
//	    Caller:    true,
//	    Timestamp: true,
//	    Output:    os.Stderr,
//	})
//
// cmd/server wires Level from the -log-level flag (config.Config.LogLevel
// is deliberately excluded from the koanf-bound fields, since it configures
// this package rather than the service); the rest stay at their defaults.
//
// # Request correlation
//
// internal/middleware.RequestID stamps each request's ID into its context
// via ContextWithRequestID; internal/api reads it back with
// RequestIDFromContext when building an error response, so a failed
// request's envelope and its log lines share an ID.
//
// # Testing
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
package logging
