package preview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/cosmos/internal/errors"
	"github.com/vango-dev/cosmos/pkg/fixture"
	"github.com/vango-dev/cosmos/pkg/proxies/reduxproxy"
	"github.com/vango-dev/cosmos/pkg/proxy"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("Counter", Registration{New: func() proxy.Component { return counter }, Reducer: counterReducer})
	r.Register("Alpha", Registration{New: func() proxy.Component { return counter }})

	reg, err := r.Lookup("Counter")
	require.NoError(t, err)
	assert.NotNil(t, reg.Reducer)
	assert.NotNil(t, reg.New())

	_, err = r.Lookup("Missing")
	assert.True(t, errors.HasCode(err, "E202"))

	assert.Equal(t, []string{"Alpha", "Counter"}, r.Names())
}

func TestRegistrationProxies(t *testing.T) {
	withStore := Registration{New: func() proxy.Component { return counter }, Reducer: counterReducer}
	chain := withStore.Proxies(reduxproxy.WithFixtureKey("appState"))
	require.Len(t, chain, 2)

	l := NewLoader(Options{
		Name:      "counter",
		Fixture:   fixture.Fixture{"label": "n", "appState": map[string]any{"count": 4}},
		Component: withStore.New(),
		Proxies:   chain,
	})
	out, err := l.Mount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "n: 4", out)

	plain := Registration{New: func() proxy.Component { return counter }}
	l = NewLoader(Options{
		Name:      "plain",
		Fixture:   fixture.Fixture{"reduxState": 1},
		Component: plain.New(),
		Proxies:   plain.Proxies(),
	})
	_, err = l.Mount(context.Background())
	assert.True(t, errors.HasCode(err, "E300"))
}
