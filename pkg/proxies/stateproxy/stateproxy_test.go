package stateproxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/cosmos/pkg/fixture"
	"github.com/vango-dev/cosmos/pkg/proxy"
	"github.com/vango-dev/cosmos/pkg/proxies/reduxproxy"
	"github.com/vango-dev/cosmos/pkg/store"
)

type widget struct {
	state map[string]any
	seen  fixture.Fixture
}

func (w *widget) SetState(s map[string]any) { w.state = s }

func (w *widget) Render(scope *proxy.Scope, f fixture.Fixture) string {
	w.seen = f
	return "widget"
}

func render(t *testing.T, w *widget, f fixture.Fixture, chain *proxy.Chain) []proxy.Component {
	t.Helper()
	var refs []proxy.Component
	_, err := proxy.NewHost(nil).Render(proxy.Props{
		Component:      w,
		Fixture:        f,
		NextProxy:      chain,
		OnComponentRef: func(c proxy.Component) { refs = append(refs, c) },
	})
	require.NoError(t, err)
	return refs
}

func TestAppliesState(t *testing.T) {
	w := &widget{}
	refs := render(t, w, fixture.Fixture{"state": map[string]any{"open": true}, "title": "x"}, proxy.NewChain(Type))

	assert.Equal(t, map[string]any{"open": true}, w.state)
	assert.Equal(t, fixture.Fixture{"title": "x"}, w.seen)
	assert.Equal(t, []proxy.Component{w}, refs)
}

func TestNoStateSlice(t *testing.T) {
	w := &widget{}
	render(t, w, fixture.Fixture{"title": "x"}, proxy.NewChain(Type))
	assert.Nil(t, w.state)
}

func TestDisabledByStoreProxy(t *testing.T) {
	chain := proxy.NewChain(
		reduxproxy.New(reduxproxy.WithCreateStore(store.Factory(func(s any, _ store.Action) any { return s }))),
		Type,
	)

	w := &widget{}
	render(t, w, fixture.Fixture{
		"reduxState": map[string]any{"count": 1},
		"state":      map[string]any{"count": 5},
	}, chain)

	assert.Nil(t, w.state)
	assert.Empty(t, w.seen)
}

func TestEnabledWithoutStore(t *testing.T) {
	chain := proxy.NewChain(
		reduxproxy.New(reduxproxy.WithCreateStore(store.Factory(func(s any, _ store.Action) any { return s }))),
		Type,
	)

	w := &widget{}
	render(t, w, fixture.Fixture{"state": map[string]any{"count": 5}}, chain)

	assert.Equal(t, map[string]any{"count": 5}, w.state)
}
