// Package proxy implements the preview chain a component is rendered through.
//
// A preview renders a component with a fixture. Between the two sits a chain
// of proxies, each owning a slice of the fixture: one may build a store from
// "reduxState", another may apply "state" to the component. Every proxy
// renders the next one with adjusted Props, and the chain always ends with
// ComponentType, which renders the component itself.
//
// Proxies are described by a *Type and mounted by a Host. Each mounted
// instance gets a Scope; proxies that implement Attacher and Detacher are
// told when they enter and leave the tree. Values meant for everything below
// a proxy are provided on its Scope through a typed Context:
//
//	var StoreContext = proxy.CreateContext[store.Store](nil)
//
//	func (p *myProxy) ... { StoreContext.Provide(scope, s) }
//
//	component := proxy.ComponentFunc(func(scope *proxy.Scope, f fixture.Fixture) string {
//	    s := StoreContext.Use(scope)
//	    ...
//	})
//
// Rendering a chain:
//
//	host := proxy.NewHost(nil)
//	out, err := host.Render(proxy.Props{
//	    Component:       component,
//	    Fixture:         f,
//	    NextProxy:       proxy.NewChain(reduxproxy.New(...), stateproxy.Type),
//	    OnComponentRef:  func(proxy.Component) {},
//	    OnFixtureUpdate: func(fixture.Fixture) {},
//	})
//	defer host.Unmount()
package proxy
