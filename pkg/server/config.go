package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/cosmos/pkg/proxies/reduxproxy"
)

// ServerConfig configures the preview server.
type ServerConfig struct {
	// Address is the listen address.
	// Default: "localhost:5000".
	Address string

	// MetricsPath serves Prometheus metrics. Empty disables the endpoint.
	// Default: "/metrics".
	MetricsPath string

	// ReduxOptions are applied to the store proxy of every loader.
	ReduxOptions []reduxproxy.Option

	// Registry receives the preview metrics and backs the metrics endpoint.
	// Default: a fresh prometheus.Registry per server.
	Registry *prometheus.Registry

	// CheckOrigin validates websocket origins.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// WriteTimeout bounds a single websocket write.
	// Default: 10s.
	WriteTimeout time.Duration

	// ClientBuffer is the number of events queued per websocket client before
	// the client is dropped.
	// Default: 64.
	ClientBuffer int

	// ReadHeaderTimeout for the HTTP server.
	// Default: 10s.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10s.
	ShutdownTimeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with defaults for local use.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           "localhost:5000",
		MetricsPath:       "/metrics",
		CheckOrigin:       SameOriginCheck,
		WriteTimeout:      10 * time.Second,
		ClientBuffer:      64,
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

// WithAddress returns a copy of the config with the listen address set.
func (c *ServerConfig) WithAddress(addr string) *ServerConfig {
	clone := *c
	clone.Address = addr
	return &clone
}

// WithMetricsPath returns a copy of the config with the metrics path set.
func (c *ServerConfig) WithMetricsPath(path string) *ServerConfig {
	clone := *c
	clone.MetricsPath = path
	return &clone
}

// WithReduxOptions returns a copy of the config with store proxy options set.
func (c *ServerConfig) WithReduxOptions(opts ...reduxproxy.Option) *ServerConfig {
	clone := *c
	clone.ReduxOptions = opts
	return &clone
}

// WithLogger returns a copy of the config with the logger set.
func (c *ServerConfig) WithLogger(logger *slog.Logger) *ServerConfig {
	clone := *c
	clone.Logger = logger
	return &clone
}

// fill sets every zero field to its default.
func (c *ServerConfig) fill() {
	d := DefaultServerConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = d.CheckOrigin
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.ClientBuffer <= 0 {
		c.ClientBuffer = d.ClientBuffer
	}
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.Registry == nil {
		c.Registry = prometheus.NewRegistry()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// SameOriginCheck accepts websocket requests without an Origin header or
// whose origin host matches the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
