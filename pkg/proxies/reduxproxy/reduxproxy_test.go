package reduxproxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/cosmos/internal/errors"
	"github.com/vango-dev/cosmos/pkg/fixture"
	"github.com/vango-dev/cosmos/pkg/proxy"
	"github.com/vango-dev/cosmos/pkg/store"
)

type mockStore struct {
	state        any
	listeners    map[int]func()
	nextID       int
	subscribes   int
	unsubscribes int
}

func newMockStore(state any) *mockStore {
	return &mockStore{state: state, listeners: map[int]func(){}}
}

func (m *mockStore) GetState() any { return m.state }

func (m *mockStore) Subscribe(fn func()) func() {
	m.subscribes++
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() {
		m.unsubscribes++
		delete(m.listeners, id)
	}
}

// set replaces the state and notifies listeners, as a store does after a
// dispatch.
func (m *mockStore) set(state any) {
	m.state = state
	for _, fn := range m.listeners {
		fn()
	}
}

// factory records every call to CreateStore.
type factory struct {
	calls    []any
	returned *mockStore
}

func (f *factory) create(initial any) store.Store {
	f.calls = append(f.calls, initial)
	f.returned = newMockStore(initial)
	return f.returned
}

// harness renders a single store proxy in front of a capturing proxy.
type harness struct {
	host     *proxy.Host
	props    proxy.Props
	captured *proxy.Props
	updates  []fixture.Fixture
}

func newHarness(t *testing.T, f fixture.Fixture, opts ...Option) *harness {
	t.Helper()
	h := &harness{host: proxy.NewHost(nil), captured: &proxy.Props{}}
	capture := &proxy.Type{Name: "capture", New: func(proxy.Props, *proxy.Scope) proxy.Proxy {
		return capturing{h.captured}
	}}
	h.props = proxy.Props{
		Component:       proxy.ComponentFunc(func(*proxy.Scope, fixture.Fixture) string { return "ok" }),
		Fixture:         f,
		NextProxy:       proxy.NewChain(New(opts...), capture),
		OnComponentRef:  func(proxy.Component) {},
		OnFixtureUpdate: func(u fixture.Fixture) { h.updates = append(h.updates, u) },
	}
	_, err := h.host.Render(h.props)
	require.NoError(t, err)
	return h
}

type capturing struct{ into *proxy.Props }

func (c capturing) Render(props proxy.Props) proxy.Node {
	*c.into = props
	return proxy.Text("captured")
}

func TestDefaults(t *testing.T) {
	cfg := Resolve()
	assert.Equal(t, "reduxState", cfg.FixtureKey)
	assert.False(t, cfg.AlwaysCreateStore)
	assert.True(t, cfg.DisableLocalState)
	assert.Nil(t, cfg.CreateStore)
}

func TestOptionsOverrideDefaults(t *testing.T) {
	cfg := Resolve(
		WithFixtureKey("store"),
		WithAlwaysCreateStore(true),
		WithDisableLocalState(false),
	)
	assert.Equal(t, "store", cfg.FixtureKey)
	assert.True(t, cfg.AlwaysCreateStore)
	assert.False(t, cfg.DisableLocalState)

	cfg = Resolve(WithConfig(Config{AlwaysCreateStore: true}))
	assert.Equal(t, DefaultFixtureKey, cfg.FixtureKey)
	assert.True(t, cfg.AlwaysCreateStore)
	assert.False(t, cfg.DisableLocalState)

	assert.Equal(t, DefaultFixtureKey, Resolve(WithFixtureKey("")).FixtureKey)
}

// No fixture slice and no forcing means no store and no subscription.
func TestNoStoreWithoutFixtureSlice(t *testing.T) {
	for _, f := range []fixture.Fixture{
		{"other": "x"},
		{"reduxState": nil},
		nil,
	} {
		fac := &factory{}
		h := newHarness(t, f, WithCreateStore(fac.create))

		assert.Empty(t, fac.calls)
		_, ok := UseStore(h.host.Scope())
		assert.False(t, ok)
		assert.False(t, h.captured.DisableLocalState)
	}
}

// AlwaysCreateStore creates a store even with no initial state.
func TestAlwaysCreateStore(t *testing.T) {
	fac := &factory{}
	h := newHarness(t, fixture.Fixture{"other": "x"},
		WithCreateStore(fac.create),
		WithAlwaysCreateStore(true),
	)

	require.Len(t, fac.calls, 1)
	assert.Nil(t, fac.calls[0])
	assert.Equal(t, 1, fac.returned.subscribes)
	assert.True(t, h.captured.DisableLocalState)
}

// Each change is relayed once, in order, with the latest state.
func TestRelaysStoreChanges(t *testing.T) {
	fac := &factory{}
	h := newHarness(t, fixture.Fixture{"reduxState": 0}, WithCreateStore(fac.create))

	for i := 1; i <= 3; i++ {
		fac.returned.set(i)
	}

	assert.Equal(t, []fixture.Fixture{
		{"reduxState": 1},
		{"reduxState": 2},
		{"reduxState": 3},
	}, h.updates)
}

func TestRelayUsesCustomKey(t *testing.T) {
	fac := &factory{}
	h := newHarness(t, fixture.Fixture{"appState": "a"},
		WithCreateStore(fac.create),
		WithFixtureKey("appState"),
	)

	fac.returned.set("b")

	assert.Equal(t, []any{"a"}, fac.calls)
	assert.Equal(t, []fixture.Fixture{{"appState": "b"}}, h.updates)
	assert.NotContains(t, h.captured.Fixture, "appState")
}

// Nothing is relayed after unmount.
func TestUnsubscribesOnUnmount(t *testing.T) {
	fac := &factory{}
	h := newHarness(t, fixture.Fixture{"reduxState": 0}, WithCreateStore(fac.create))

	h.host.Unmount()
	fac.returned.set(1)

	assert.Empty(t, h.updates)
	assert.Equal(t, 1, fac.returned.unsubscribes)

	h.host.Unmount()
	assert.Equal(t, 1, fac.returned.unsubscribes)
}

// The fixture forwarded downstream never carries the store key.
func TestStripsFixtureKey(t *testing.T) {
	fac := &factory{}
	input := fixture.Fixture{"reduxState": map[string]any{"count": 1}, "other": "x"}
	h := newHarness(t, input, WithCreateStore(fac.create))

	assert.Equal(t, fixture.Fixture{"other": "x"}, h.captured.Fixture)
	assert.Contains(t, input, "reduxState", "input fixture must not be mutated")

	h.props.Fixture = fixture.Fixture{"reduxState": 5, "more": true}
	_, err := h.host.Render(h.props)
	require.NoError(t, err)
	assert.Equal(t, fixture.Fixture{"more": true}, h.captured.Fixture)
}

// DisableLocalState downstream is configured flag AND store exists.
func TestDisableLocalStateComposition(t *testing.T) {
	tests := []struct {
		name      string
		configure bool
		withSlice bool
		want      bool
	}{
		{"enabled, no store", true, false, false},
		{"enabled, store", true, true, true},
		{"disabled, store", false, true, false},
		{"disabled, no store", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fixture.Fixture{"other": 1}
			if tt.withSlice {
				f["reduxState"] = 1
			}
			fac := &factory{}
			h := newHarness(t, f,
				WithCreateStore(fac.create),
				WithDisableLocalState(tt.configure),
			)
			assert.Equal(t, tt.want, h.captured.DisableLocalState)
		})
	}
}

func TestAdvancesChain(t *testing.T) {
	fac := &factory{}
	h := newHarness(t, fixture.Fixture{}, WithCreateStore(fac.create))

	assert.Same(t, proxy.ComponentType, h.captured.NextProxy.Value())
	assert.NotNil(t, h.captured.OnComponentRef)
	assert.NotNil(t, h.captured.Component)
}

func TestStoreCreatedOnce(t *testing.T) {
	fac := &factory{}
	h := newHarness(t, fixture.Fixture{"reduxState": 1}, WithCreateStore(fac.create))

	for i := 0; i < 3; i++ {
		h.props.Fixture = fixture.Fixture{"reduxState": i + 10}
		_, err := h.host.Render(h.props)
		require.NoError(t, err)
	}

	assert.Len(t, fac.calls, 1)
	assert.Equal(t, 1, fac.returned.subscribes)
}

func TestLaterFixtureSliceDoesNotCreateStore(t *testing.T) {
	fac := &factory{}
	h := newHarness(t, fixture.Fixture{"other": 1}, WithCreateStore(fac.create))

	h.props.Fixture = fixture.Fixture{"reduxState": 1}
	_, err := h.host.Render(h.props)
	require.NoError(t, err)

	assert.Empty(t, fac.calls)
}

func TestRelayUsesLatestCallback(t *testing.T) {
	fac := &factory{}
	h := newHarness(t, fixture.Fixture{"reduxState": 0}, WithCreateStore(fac.create))

	var latest []fixture.Fixture
	h.props.OnFixtureUpdate = func(u fixture.Fixture) { latest = append(latest, u) }
	_, err := h.host.Render(h.props)
	require.NoError(t, err)

	fac.returned.set(9)

	assert.Empty(t, h.updates)
	assert.Equal(t, []fixture.Fixture{{"reduxState": 9}}, latest)
}

func TestProvidesStoreToDescendants(t *testing.T) {
	fac := &factory{}
	var seen store.Store
	host := proxy.NewHost(nil)
	out, err := host.Render(proxy.Props{
		Component: proxy.ComponentFunc(func(scope *proxy.Scope, f fixture.Fixture) string {
			seen, _ = UseStore(scope)
			return "rendered"
		}),
		Fixture:   fixture.Fixture{"reduxState": 1},
		NextProxy: proxy.NewChain(New(WithCreateStore(fac.create))),
	})
	require.NoError(t, err)

	assert.Equal(t, "rendered", out)
	assert.Same(t, fac.returned, seen)
}

func TestMissingFactoryFailsAtConstruction(t *testing.T) {
	host := proxy.NewHost(nil)
	_, err := host.Render(proxy.Props{
		Fixture:   fixture.Fixture{"reduxState": 1},
		NextProxy: proxy.NewChain(New()),
	})

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, "E300"))
}

func TestMissingFactoryIgnoredWhenNoStoreNeeded(t *testing.T) {
	host := proxy.NewHost(nil)
	_, err := host.Render(proxy.Props{
		Fixture:   fixture.Fixture{"other": 1},
		NextProxy: proxy.NewChain(New()),
	})
	require.NoError(t, err)
}

func TestScenario(t *testing.T) {
	var created []any
	var mock *mockStore
	h := newHarness(t,
		fixture.Fixture{"reduxState": map[string]any{"count": 1}, "other": "x"},
		WithCreateStore(func(initial any) store.Store {
			created = append(created, initial)
			mock = newMockStore(map[string]any{"count": 1})
			return mock
		}),
	)

	assert.Equal(t, []any{map[string]any{"count": 1}}, created)
	assert.Equal(t, fixture.Fixture{"other": "x"}, h.captured.Fixture)
	assert.True(t, h.captured.DisableLocalState)

	mock.set(map[string]any{"count": 2})

	assert.Equal(t, []fixture.Fixture{
		{"reduxState": map[string]any{"count": 2}},
	}, h.updates)
}

func TestWithRealStore(t *testing.T) {
	reducer := func(state any, a store.Action) any {
		n, _ := state.(int)
		if a.Type == "increment" {
			return n + 1
		}
		return n
	}
	h := newHarness(t, fixture.Fixture{"reduxState": 1}, WithCreateStore(store.Factory(reducer)))

	s, ok := UseStore(h.host.Scope())
	require.True(t, ok)
	require.NoError(t, s.(store.Dispatcher).Dispatch(store.Action{Type: "increment"}))

	assert.Equal(t, []fixture.Fixture{{"reduxState": 2}}, h.updates)
}
