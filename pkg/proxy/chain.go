package proxy

import "github.com/vango-dev/cosmos/pkg/fixture"

// Props are passed down the proxy chain. Each proxy receives the props its
// predecessor rendered it with and forwards a (possibly modified) copy to the
// next one.
type Props struct {
	// Component is the component under preview.
	Component Component

	// Fixture is the fixture data still unclaimed by earlier proxies.
	Fixture fixture.Fixture

	// NextProxy is the remainder of the chain.
	NextProxy *Chain

	// OnComponentRef is called with the component once it is mounted.
	OnComponentRef func(ref Component)

	// OnFixtureUpdate reports a partial fixture to merge upstream.
	OnFixtureUpdate func(update fixture.Fixture)

	// DisableLocalState asks local-state proxies to stand down.
	DisableLocalState bool
}

// Proxy is one mounted link of the chain.
type Proxy interface {
	// Render returns either the next Element or the final Text.
	Render(props Props) Node
}

// Attacher is implemented by proxies that acquire resources when mounted.
// OnAttach runs once, right after construction and before the first Render.
type Attacher interface {
	OnAttach()
}

// Detacher is implemented by proxies that release resources when unmounted.
// OnDetach runs exactly once, however the instance leaves the tree.
type Detacher interface {
	OnDetach()
}

// Type describes a kind of proxy. Instances are matched across renders by
// *Type identity.
type Type struct {
	Name string

	// New constructs an instance for its first props. Values shared with
	// descendants are provided on scope.
	New func(props Props, scope *Scope) Proxy
}

// Node is the result of rendering a proxy.
type Node interface {
	isNode()
}

// Element asks the host to render Type with Props.
type Element struct {
	Type  *Type
	Props Props
}

// Text is the final output of the chain.
type Text string

func (*Element) isNode() {}
func (Text) isNode()     {}

// Chain is an immutable cursor over a list of proxy types. Past the last
// proxy, Value returns ComponentType so every chain ends by rendering the
// component.
type Chain struct {
	types []*Type
	pos   int
}

// NewChain creates a chain over types.
func NewChain(types ...*Type) *Chain {
	return &Chain{types: types}
}

// Value returns the proxy type at the cursor.
func (c *Chain) Value() *Type {
	if c == nil || c.pos >= len(c.types) {
		return ComponentType
	}
	return c.types[c.pos]
}

// Next returns the chain advanced by one step. The receiver is unchanged.
func (c *Chain) Next() *Chain {
	if c == nil {
		return nil
	}
	next := &Chain{types: c.types, pos: c.pos + 1}
	if next.pos > len(c.types) {
		next.pos = len(c.types)
	}
	return next
}

// Len returns the number of proxies remaining before the component.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.types) - c.pos
}

// Forward returns props advanced to the next proxy, otherwise unchanged.
func (p Props) Forward() *Element {
	next := p
	next.NextProxy = p.NextProxy.Next()
	return &Element{Type: p.NextProxy.Value(), Props: next}
}
