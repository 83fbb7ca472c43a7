package preview

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/cosmos/internal/errors"
	"github.com/vango-dev/cosmos/pkg/fixture"
	"github.com/vango-dev/cosmos/pkg/proxies/reduxproxy"
	"github.com/vango-dev/cosmos/pkg/proxy"
	"github.com/vango-dev/cosmos/pkg/store"
)

const tracerName = "github.com/vango-dev/cosmos/pkg/preview"

// EventType identifies a loader event.
type EventType string

const (
	EventRendered       EventType = "rendered"
	EventFixtureUpdated EventType = "fixtureUpdated"
	EventError          EventType = "error"
	EventUnmounted      EventType = "unmounted"
)

// Event reports a change in a loader.
type Event struct {
	Type    EventType       `json:"type"`
	Fixture string          `json:"fixture"`
	Data    fixture.Fixture `json:"data,omitempty"`
	Update  fixture.Fixture `json:"update,omitempty"`
	Output  string          `json:"output,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Options configures a Loader.
type Options struct {
	// Name identifies the fixture in events, logs and metrics.
	Name string

	// Fixture is the initial fixture data.
	Fixture fixture.Fixture

	// Component is the component under preview.
	Component proxy.Component

	// Proxies is the chain rendered in front of the component.
	Proxies []*proxy.Type

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics may be nil.
	Metrics *Metrics

	// Tracer defaults to the global OpenTelemetry tracer provider.
	Tracer trace.Tracer
}

// Loader renders one fixture through a proxy chain and keeps the fixture in
// sync with what the proxies report through OnFixtureUpdate.
//
// Proxies must not call OnFixtureUpdate from inside Render.
type Loader struct {
	name      string
	component proxy.Component
	chain     *proxy.Chain
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer

	mu      sync.Mutex
	fixture fixture.Fixture
	host    *proxy.Host
	output  string
	mounted bool
	ref     proxy.Component

	subsMu  sync.Mutex
	subs    map[uint64]func(Event)
	nextSub uint64
}

// NewLoader creates a loader. Nothing is rendered until Mount.
func NewLoader(opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Loader{
		name:      opts.Name,
		component: opts.Component,
		chain:     proxy.NewChain(opts.Proxies...),
		logger:    logger.With("fixture", opts.Name),
		metrics:   opts.Metrics,
		tracer:    tracer,
		fixture:   opts.Fixture.Clone(),
		subs:      make(map[uint64]func(Event)),
	}
}

// Name returns the fixture name.
func (l *Loader) Name() string {
	return l.name
}

// Mount renders the fixture for the first time. Mounting a mounted loader
// returns the current output.
func (l *Loader) Mount(ctx context.Context) (string, error) {
	l.mu.Lock()
	if l.mounted {
		out := l.output
		l.mu.Unlock()
		return out, nil
	}

	l.host = proxy.NewHost(nil)
	out, err := l.render(ctx)
	if err != nil {
		l.host.Unmount()
		l.host = nil
		l.mu.Unlock()
		l.emit(Event{Type: EventError, Fixture: l.name, Error: err.Error()})
		return "", err
	}
	l.mounted = true
	data := l.fixture.Clone()
	l.mu.Unlock()

	l.metrics.mounted(1)
	l.logger.Debug("fixture mounted", "proxies", l.chain.Len())
	l.emit(Event{Type: EventRendered, Fixture: l.name, Data: data, Output: out})
	return out, nil
}

// render runs the chain with the current fixture. l.mu must be held.
func (l *Loader) render(ctx context.Context) (string, error) {
	_, span := l.tracer.Start(ctx, "cosmos.render",
		trace.WithAttributes(
			attribute.String("cosmos.fixture", l.name),
			attribute.Int("cosmos.proxies", l.chain.Len()),
		),
	)
	defer span.End()

	start := time.Now()
	out, err := l.host.Render(proxy.Props{
		Component:       l.component,
		Fixture:         l.fixture,
		NextProxy:       l.chain,
		OnComponentRef:  l.onComponentRef,
		OnFixtureUpdate: l.onFixtureUpdate,
	})
	l.metrics.recordRender(l.name, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.logger.Error("render failed", "error", err)
		return "", err
	}
	span.SetStatus(codes.Ok, "")
	l.output = out
	return out, nil
}

func (l *Loader) onComponentRef(ref proxy.Component) {
	// Called from inside Render with l.mu held.
	l.ref = ref
}

// onFixtureUpdate merges a partial fixture reported by a proxy and renders
// again. The proxy instances, and any store they own, are kept.
func (l *Loader) onFixtureUpdate(update fixture.Fixture) {
	l.mu.Lock()
	if !l.mounted {
		l.mu.Unlock()
		return
	}
	l.fixture = l.fixture.Merge(update)
	out, err := l.render(context.Background())
	data := l.fixture.Clone()
	l.mu.Unlock()

	l.metrics.recordUpdate(l.name, update.Keys())
	if err != nil {
		l.emit(Event{Type: EventError, Fixture: l.name, Update: update, Error: err.Error()})
		return
	}
	l.emit(Event{Type: EventFixtureUpdated, Fixture: l.name, Data: data, Update: update, Output: out})
}

// Dispatch sends an action to the store created for this fixture.
func (l *Loader) Dispatch(ctx context.Context, action store.Action) (err error) {
	ctx, span := l.tracer.Start(ctx, "cosmos.dispatch",
		trace.WithAttributes(
			attribute.String("cosmos.fixture", l.name),
			attribute.String("cosmos.action", action.Type),
		),
	)
	defer func() {
		l.metrics.recordDispatch(l.name, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	var s store.Store
	var ok bool
	if l.mounted {
		s, ok = reduxproxy.UseStore(l.host.Scope())
	}
	l.mu.Unlock()

	if !ok {
		return errors.New("E301").WithSubject(l.name)
	}
	d, ok := s.(store.Dispatcher)
	if !ok {
		return errors.New("E303").WithSubject(l.name)
	}

	// The store notifies synchronously; the resulting fixture update takes
	// l.mu, so it must not be held here.
	if err := d.Dispatch(action); err != nil {
		return errors.New("E400").WithSubject(l.name).Wrap(err)
	}
	l.logger.Debug("action dispatched", "action", action.Type)
	return nil
}

// Fixture returns a copy of the current fixture.
func (l *Loader) Fixture() fixture.Fixture {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fixture.Clone()
}

// Output returns the last rendered output.
func (l *Loader) Output() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.output
}

// ComponentRef returns the mounted component, or nil.
func (l *Loader) ComponentRef() proxy.Component {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ref
}

// Mounted reports whether the loader is mounted.
func (l *Loader) Mounted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mounted
}

// Subscribe registers fn for loader events and returns a function removing it.
func (l *Loader) Subscribe(fn func(Event)) func() {
	l.subsMu.Lock()
	l.nextSub++
	id := l.nextSub
	l.subs[id] = fn
	l.subsMu.Unlock()

	return func() {
		l.subsMu.Lock()
		delete(l.subs, id)
		l.subsMu.Unlock()
	}
}

func (l *Loader) emit(e Event) {
	l.subsMu.Lock()
	ids := make([]uint64, 0, len(l.subs))
	for id := range l.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.subs[id])
	}
	l.subsMu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Unmount tears down every proxy instance, releasing store subscriptions.
func (l *Loader) Unmount() {
	l.mu.Lock()
	if !l.mounted {
		l.mu.Unlock()
		return
	}
	l.host.Unmount()
	l.host = nil
	l.mounted = false
	l.ref = nil
	l.mu.Unlock()

	l.metrics.mounted(-1)
	l.logger.Debug("fixture unmounted")
	l.emit(Event{Type: EventUnmounted, Fixture: l.name})
}
