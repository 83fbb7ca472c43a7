package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/cosmos/pkg/fixture"
	"github.com/vango-dev/cosmos/pkg/middleware"
	"github.com/vango-dev/cosmos/pkg/preview"
)

// Watcher reports fixture names whose source changed. fixture.DirSource
// implements it.
type Watcher interface {
	Watch(ctx context.Context, onChange func(name string)) error
}

// Server serves fixture previews over HTTP and streams loader events over
// websockets.
type Server struct {
	config   *ServerConfig
	source   fixture.Source
	registry *preview.Registry
	metrics  *preview.Metrics
	logger   *slog.Logger
	router   chi.Router
	upgrader websocket.Upgrader
	hub      *hub

	mu         sync.Mutex
	loaders    map[string]*entry
	httpServer *http.Server
}

// entry is a mounted loader and its hub subscription.
type entry struct {
	component   string
	loader      *preview.Loader
	unsubscribe func()
}

// New creates a server rendering fixtures from source with components from
// registry. A nil config uses DefaultServerConfig.
func New(source fixture.Source, registry *preview.Registry, config *ServerConfig) *Server {
	if config == nil {
		config = DefaultServerConfig()
	} else {
		c := *config
		config = &c
	}
	config.fill()

	s := &Server{
		config:   config,
		source:   source,
		registry: registry,
		metrics:  preview.NewMetrics(preview.WithRegistry(config.Registry)),
		logger:   config.Logger.With("component", "server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
		loaders: make(map[string]*entry),
	}
	s.hub = newHub(s.logger)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.Recover(s.logger),
		middleware.Logger(s.logger),
		middleware.OpenTelemetry(),
		middleware.Prometheus(middleware.WithRegistry(s.config.Registry)),
	)

	r.Get("/", s.handleIndex)
	r.Get("/api/fixtures", s.handleList)
	r.Get("/api/fixtures/{name}", s.handleFixture)
	r.Delete("/api/fixtures/{name}", s.handleInvalidate)
	r.Post("/api/fixtures/{name}/actions", s.handleAction)
	r.Get("/fixtures/{name}", s.handlePage)
	r.Get("/ws/{name}", s.handleWebSocket)

	if s.config.MetricsPath != "" {
		r.Method(http.MethodGet, s.config.MetricsPath, promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{
			Registry: s.config.Registry,
		}))
	}
	return r
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Loader returns the mounted loader for name, loading and mounting the
// fixture on first use.
func (s *Server) Loader(ctx context.Context, name string) (*preview.Loader, error) {
	e, err := s.entry(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.loader, nil
}

func (s *Server) entry(ctx context.Context, name string) (*entry, error) {
	s.mu.Lock()
	if e, ok := s.loaders[name]; ok {
		s.mu.Unlock()
		return e, nil
	}
	s.mu.Unlock()

	named, err := s.source.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	reg, err := s.registry.Lookup(named.Component)
	if err != nil {
		return nil, err
	}

	l := preview.NewLoader(preview.Options{
		Name:      name,
		Fixture:   named.Data,
		Component: reg.New(),
		Proxies:   reg.Proxies(s.config.ReduxOptions...),
		Logger:    s.config.Logger,
		Metrics:   s.metrics,
	})
	unsubscribe := l.Subscribe(func(e preview.Event) {
		s.hub.broadcast(name, e)
	})
	if _, err := l.Mount(ctx); err != nil {
		unsubscribe()
		return nil, err
	}

	s.mu.Lock()
	if existing, ok := s.loaders[name]; ok {
		s.mu.Unlock()
		unsubscribe()
		l.Unmount()
		return existing, nil
	}
	e := &entry{component: named.Component, loader: l, unsubscribe: unsubscribe}
	s.loaders[name] = e
	s.mu.Unlock()

	s.logger.Debug("loader created", "fixture", name, "component", named.Component)
	return e, nil
}

// Invalidate unmounts the loader for name, releasing its store. The next
// request builds a fresh loader from the source. It reports whether a loader
// was mounted.
func (s *Server) Invalidate(name string) bool {
	s.mu.Lock()
	e, ok := s.loaders[name]
	delete(s.loaders, name)
	s.mu.Unlock()
	if !ok {
		return false
	}

	e.loader.Unmount()
	e.unsubscribe()
	s.logger.Debug("loader invalidated", "fixture", name)
	return true
}

// Reload invalidates name and, when websocket clients are watching it,
// mounts it again so they receive the new render.
func (s *Server) Reload(ctx context.Context, name string) {
	s.Invalidate(name)
	if s.hub.count(name) == 0 {
		return
	}
	if _, err := s.entry(ctx, name); err != nil {
		s.logger.Warn("reload failed", "fixture", name, "error", err)
		s.hub.broadcast(name, preview.Event{Type: preview.EventError, Fixture: name, Error: err.Error()})
	}
}

// Watch reloads fixtures as w reports changes, until ctx is done.
func (s *Server) Watch(ctx context.Context, w Watcher) error {
	return w.Watch(ctx, func(name string) {
		s.logger.Info("fixture changed", "fixture", name)
		s.Reload(ctx, name)
	})
}

// Mounted returns the names of mounted fixtures, sorted.
func (s *Server) Mounted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.loaders))
	for name := range s.loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown disconnects websocket clients, unmounts every loader and stops
// the HTTP server if Run started one.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.hub.closeAll()
	for _, name := range s.Mounted() {
		s.Invalidate(name)
	}

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Config returns the server configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}
