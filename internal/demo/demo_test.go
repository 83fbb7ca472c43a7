package demo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/cosmos/pkg/fixture"
	"github.com/vango-dev/cosmos/pkg/preview"
	"github.com/vango-dev/cosmos/pkg/store"
)

func TestCounterReducer(t *testing.T) {
	tests := []struct {
		action store.Action
		from   any
		want   int
	}{
		{store.Action{Type: "increment"}, map[string]any{"count": 1}, 2},
		{store.Action{Type: "decrement"}, map[string]any{"count": float64(1)}, 0},
		{store.Action{Type: "add", Payload: float64(5)}, map[string]any{"count": 1}, 6},
		{store.Action{Type: "reset"}, map[string]any{"count": 9}, 0},
		{store.Action{Type: store.ActionInit}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.action.Type, func(t *testing.T) {
			got := CounterReducer(tt.from, tt.action).(map[string]any)
			assert.Equal(t, tt.want, got["count"])
		})
	}
}

func TestCounterReducerKeepsOtherKeys(t *testing.T) {
	got := CounterReducer(map[string]any{"count": 1, "step": 2}, store.Action{Type: "increment"})
	assert.Equal(t, map[string]any{"count": 2, "step": 2}, got)
}

func loader(t *testing.T, name string, f fixture.Fixture) *preview.Loader {
	t.Helper()
	r := preview.NewRegistry()
	Register(r)
	reg, err := r.Lookup(name)
	require.NoError(t, err)

	return preview.NewLoader(preview.Options{
		Name:      name,
		Fixture:   f,
		Component: reg.New(),
		Proxies:   reg.Proxies(),
	})
}

func TestCounterPreview(t *testing.T) {
	l := loader(t, "Counter", fixture.Fixture{"label": "<Clicks>", "reduxState": map[string]any{"count": 2}})
	out, err := l.Mount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `<div class="counter"><span>&lt;Clicks&gt;</span> <strong>2</strong></div>`, out)

	require.NoError(t, l.Dispatch(context.Background(), store.Action{Type: "increment"}))
	assert.Contains(t, l.Output(), "<strong>3</strong>")
}

func TestCounterWithoutStore(t *testing.T) {
	l := loader(t, "Counter", fixture.Fixture{})
	out, err := l.Mount(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out, "<span>Count</span> <strong>0</strong>")
}

func TestToggleLocalState(t *testing.T) {
	l := loader(t, "Toggle", fixture.Fixture{"label": "Wifi", "state": map[string]any{"on": true}})
	out, err := l.Mount(context.Background())
	require.NoError(t, err)

	assert.Equal(t, `<button class="toggle toggle-on">Wifi</button>`, out)
	assert.IsType(t, &Toggle{}, l.ComponentRef())
}
