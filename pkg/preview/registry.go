package preview

import (
	"sort"
	"sync"

	"github.com/vango-dev/cosmos/internal/errors"
	"github.com/vango-dev/cosmos/pkg/proxies/reduxproxy"
	"github.com/vango-dev/cosmos/pkg/proxies/stateproxy"
	"github.com/vango-dev/cosmos/pkg/proxy"
	"github.com/vango-dev/cosmos/pkg/store"
)

// Registration describes a previewable component.
type Registration struct {
	// New returns a fresh component instance for one loader.
	New func() proxy.Component

	// Reducer backs the store created for this component's fixtures.
	// Nil means fixtures of this component never get a store.
	Reducer store.Reducer
}

// Proxies returns the standard chain for this component: a store proxy
// backed by Reducer followed by the local-state proxy. opts are applied
// before the store factory.
func (r Registration) Proxies(opts ...reduxproxy.Option) []*proxy.Type {
	if r.Reducer != nil {
		opts = append(opts[:len(opts):len(opts)], reduxproxy.WithCreateStore(store.Factory(r.Reducer)))
	}
	return []*proxy.Type{reduxproxy.New(opts...), stateproxy.Type}
}

// Registry maps component names used in fixture files to registrations.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Registration)}
}

// Register adds or replaces a component.
func (r *Registry) Register(name string, reg Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = reg
}

// Lookup returns the registration for name. Unknown names report E202.
func (r *Registry) Lookup(name string) (Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[name]
	if !ok {
		return Registration{}, errors.New("E202").WithSubject(name)
	}
	return reg, nil
}

// Names returns the registered component names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
