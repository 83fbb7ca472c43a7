// Package middleware provides net/http middleware for the cosmos server.
//
// This package includes:
//   - OpenTelemetry tracing, one server span per request
//   - Prometheus request metrics labeled by chi route pattern
//   - Request logging and panic recovery on slog
//
// All middleware wrap the response writer with chi's WrapResponseWriter,
// which keeps http.Hijacker available for websocket upgrades.
//
//	r := chi.NewRouter()
//	r.Use(
//	    middleware.Recover(logger),
//	    middleware.Logger(logger),
//	    middleware.OpenTelemetry(),
//	    middleware.Prometheus(middleware.WithRegistry(reg)),
//	)
package middleware
