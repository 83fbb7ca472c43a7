// Package stateproxy applies fixture-defined local state to a component.
//
// The proxy owns the "state" fixture key. When the component reference
// arrives and local state is not disabled by an earlier proxy, the state map
// is handed to the component if it implements Stateful.
package stateproxy

import "github.com/vango-dev/cosmos/pkg/proxy"

// FixtureKey is the fixture key holding component state.
const FixtureKey = "state"

// Stateful is implemented by components whose local state can be seeded.
type Stateful interface {
	SetState(state map[string]any)
}

// Type is the local-state proxy.
var Type = &proxy.Type{
	Name: "state",
	New: func(props proxy.Props, scope *proxy.Scope) proxy.Proxy {
		return &stateProxy{}
	},
}

type stateProxy struct {
	state    map[string]any
	disabled bool
}

func (p *stateProxy) onComponentRef(ref proxy.Component) {
	if p.disabled || p.state == nil {
		return
	}
	if s, ok := ref.(Stateful); ok {
		s.SetState(p.state)
	}
}

func (p *stateProxy) Render(props proxy.Props) proxy.Node {
	p.disabled = props.DisableLocalState
	p.state, _ = props.Fixture.Get(FixtureKey).(map[string]any)

	upstream := props.OnComponentRef
	next := props
	next.NextProxy = props.NextProxy.Next()
	next.Fixture = props.Fixture.Omit(FixtureKey)
	next.DisableLocalState = false
	next.OnComponentRef = func(ref proxy.Component) {
		p.onComponentRef(ref)
		if upstream != nil {
			upstream(ref)
		}
	}
	return &proxy.Element{Type: props.NextProxy.Value(), Props: next}
}
