// Package preview loads a fixture into a proxy chain and keeps it live.
//
// A Loader plays the role of the fixture host: it renders a component
// through its proxies, merges the partial fixtures proxies report through
// OnFixtureUpdate back into its own copy, renders again, and tells
// subscribers. It also forwards actions to the store a store proxy provided,
// which is how a preview server drives a connected component:
//
//	l := preview.NewLoader(preview.Options{
//	    Name:      "counter",
//	    Fixture:   named.Data,
//	    Component: demo.Counter,
//	    Proxies:   []*proxy.Type{reduxproxy.New(...), stateproxy.Type},
//	})
//	out, err := l.Mount(ctx)
//	defer l.Unmount()
//
//	l.Dispatch(ctx, store.Action{Type: "increment"})
//
// Renders and dispatches are traced with OpenTelemetry and, when Metrics is
// set, counted in Prometheus.
package preview
