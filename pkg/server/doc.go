// Package server is the cosmos preview server.
//
// Fixtures are loaded lazily from a fixture.Source the first time they are
// requested and rendered by a preview.Loader through the registered
// component's proxy chain. The loader, and the store its proxies created,
// live until Invalidate, Reload or Shutdown.
//
// Routes:
//
//	GET    /                             fixture index (HTML)
//	GET    /api/fixtures                 fixture list
//	GET    /api/fixtures/{name}          fixture data and rendered output
//	DELETE /api/fixtures/{name}          unmount a fixture
//	POST   /api/fixtures/{name}/actions  dispatch an action to the fixture store
//	GET    /fixtures/{name}              preview page (HTML)
//	GET    /ws/{name}                    websocket stream of loader events
//	GET    /metrics                      Prometheus metrics
//
// Errors are JSON ErrorResponse bodies carrying the cosmos error code.
package server
