// Package demo holds the components bundled with the cosmos CLI so fixtures
// can be previewed without a host application.
package demo

import (
	"fmt"
	"html"
	"sync"

	"github.com/vango-dev/cosmos/pkg/fixture"
	"github.com/vango-dev/cosmos/pkg/preview"
	"github.com/vango-dev/cosmos/pkg/proxies/reduxproxy"
	"github.com/vango-dev/cosmos/pkg/proxy"
	"github.com/vango-dev/cosmos/pkg/store"
)

// Register adds the demo components to r.
func Register(r *preview.Registry) {
	r.Register("Counter", preview.Registration{
		New:     func() proxy.Component { return proxy.ComponentFunc(renderCounter) },
		Reducer: CounterReducer,
	})
	r.Register("Toggle", preview.Registration{
		New: func() proxy.Component { return &Toggle{} },
	})
}

// CounterReducer handles increment, decrement, add and reset on a
// {"count": n} state.
func CounterReducer(state any, a store.Action) any {
	m, _ := state.(map[string]any)
	n := toInt(m["count"])

	switch a.Type {
	case "increment":
		n++
	case "decrement":
		n--
	case "add":
		n += toInt(a.Payload)
	case "reset":
		n = 0
	}

	next := make(map[string]any, len(m)+1)
	for k, v := range m {
		next[k] = v
	}
	next["count"] = n
	return next
}

func renderCounter(scope *proxy.Scope, f fixture.Fixture) string {
	label, _ := f.Get("label").(string)
	if label == "" {
		label = "Count"
	}

	count := 0
	if s, ok := reduxproxy.UseStore(scope); ok {
		state, _ := s.GetState().(map[string]any)
		count = toInt(state["count"])
	}
	return fmt.Sprintf(`<div class="counter"><span>%s</span> <strong>%d</strong></div>`,
		html.EscapeString(label), count)
}

// Toggle is a component with local state seeded by the "state" fixture key.
type Toggle struct {
	mu sync.Mutex
	on bool
}

// SetState implements stateproxy.Stateful.
func (t *Toggle) SetState(state map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	on, _ := state["on"].(bool)
	t.on = on
}

// Render implements proxy.Component.
func (t *Toggle) Render(scope *proxy.Scope, f fixture.Fixture) string {
	t.mu.Lock()
	on := t.on
	t.mu.Unlock()

	label, _ := f.Get("label").(string)
	status := "off"
	if on {
		status = "on"
	}
	return fmt.Sprintf(`<button class="toggle toggle-%s">%s</button>`, status, html.EscapeString(label))
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
