// Package reduxproxy connects a store to a preview chain.
//
// The proxy reads the initial store state from one fixture key, builds a
// store from it with a configured factory, and relays every later store
// change back upstream under the same key, so the fixture always reflects
// the live store. The component and every proxy after this one see the
// fixture without that key; they reach the store through the scope instead:
//
//	chain := proxy.NewChain(
//	    reduxproxy.New(reduxproxy.WithCreateStore(store.Factory(reducer))),
//	    stateproxy.Type,
//	)
//
//	counter := proxy.ComponentFunc(func(scope *proxy.Scope, f fixture.Fixture) string {
//	    s, _ := reduxproxy.UseStore(scope)
//	    ...
//	})
//
// When a store is active and DisableLocalState is set (the default), the
// proxy tells the next proxies to leave component state alone.
package reduxproxy
