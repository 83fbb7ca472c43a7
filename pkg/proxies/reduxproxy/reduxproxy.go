package reduxproxy

import (
	"sync"

	"github.com/vango-dev/cosmos/internal/errors"
	"github.com/vango-dev/cosmos/pkg/fixture"
	"github.com/vango-dev/cosmos/pkg/proxy"
	"github.com/vango-dev/cosmos/pkg/store"
)

// StoreContext carries the store from the proxy to everything rendered
// below it.
var StoreContext = proxy.CreateContext[store.Store](nil)

// UseStore returns the store provided by the nearest store proxy above scope.
func UseStore(scope *proxy.Scope) (store.Store, bool) {
	return StoreContext.Lookup(scope)
}

// New returns a proxy type that backs the fixture slice under FixtureKey
// with a store.
//
// The store is created once, when the proxy is constructed, and only if the
// fixture holds a value under FixtureKey or AlwaysCreateStore is set. While
// mounted, every store change is reported upstream as
// {FixtureKey: store.GetState()}. Later fixtures never recreate the store.
func New(opts ...Option) *proxy.Type {
	cfg := Resolve(opts...)
	return &proxy.Type{
		Name: "redux",
		New: func(props proxy.Props, scope *proxy.Scope) proxy.Proxy {
			return newReduxProxy(cfg, props, scope)
		},
	}
}

// ReduxProxy is a mounted store proxy instance.
type ReduxProxy struct {
	cfg         Config
	store       store.Store
	unsubscribe func()

	// Stores may notify from any goroutine; props are swapped on render.
	mu    sync.Mutex
	props proxy.Props
}

func newReduxProxy(cfg Config, props proxy.Props, scope *proxy.Scope) *ReduxProxy {
	p := &ReduxProxy{cfg: cfg, props: props}

	initial := props.Fixture.Get(cfg.FixtureKey)
	if cfg.AlwaysCreateStore || props.Fixture.Has(cfg.FixtureKey) {
		if cfg.CreateStore == nil {
			panic(errors.New("E300").
				WithSubject(cfg.FixtureKey).
				WithSuggestion("configure reduxproxy.WithCreateStore"))
		}
		p.store = cfg.CreateStore(initial)
	}

	if p.store != nil {
		StoreContext.Provide(scope, p.store)
	}
	return p
}

// Store returns the store owned by this instance, or nil.
func (p *ReduxProxy) Store() store.Store {
	return p.store
}

// OnAttach subscribes to the store.
func (p *ReduxProxy) OnAttach() {
	if p.store != nil {
		p.unsubscribe = p.store.Subscribe(p.onStoreChange)
	}
}

// OnDetach releases the subscription.
func (p *ReduxProxy) OnDetach() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

func (p *ReduxProxy) onStoreChange() {
	p.mu.Lock()
	onFixtureUpdate := p.props.OnFixtureUpdate
	p.mu.Unlock()

	if onFixtureUpdate == nil {
		return
	}
	onFixtureUpdate(fixture.Fixture{
		p.cfg.FixtureKey: p.store.GetState(),
	})
}

// Render forwards props to the next proxy without the store-owned fixture
// slice.
func (p *ReduxProxy) Render(props proxy.Props) proxy.Node {
	p.mu.Lock()
	p.props = props
	p.mu.Unlock()

	next := props
	next.NextProxy = props.NextProxy.Next()
	next.Fixture = props.Fixture.Omit(p.cfg.FixtureKey)
	next.DisableLocalState = p.cfg.DisableLocalState && p.store != nil

	return &proxy.Element{Type: props.NextProxy.Value(), Props: next}
}
