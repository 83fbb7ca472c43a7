package proxy

import "github.com/vango-dev/cosmos/pkg/fixture"

// Component is the unit being previewed. It renders to text using the
// fixture data left after every proxy has taken its share. Values provided
// by proxies are reachable through scope.
type Component interface {
	Render(scope *Scope, f fixture.Fixture) string
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(scope *Scope, f fixture.Fixture) string

// Render implements Component.
func (fn ComponentFunc) Render(scope *Scope, f fixture.Fixture) string {
	return fn(scope, f)
}

// ComponentType terminates every chain: it renders props.Component and
// reports it through OnComponentRef once mounted.
var ComponentType = &Type{
	Name: "component",
	New: func(props Props, scope *Scope) Proxy {
		return &componentProxy{scope: scope, props: props}
	},
}

type componentProxy struct {
	scope *Scope
	props Props
}

func (c *componentProxy) OnAttach() {
	if c.props.OnComponentRef != nil && c.props.Component != nil {
		c.props.OnComponentRef(c.props.Component)
	}
}

func (c *componentProxy) Render(props Props) Node {
	c.props = props
	if props.Component == nil {
		return Text("")
	}
	return Text(props.Component.Render(c.scope, props.Fixture))
}
