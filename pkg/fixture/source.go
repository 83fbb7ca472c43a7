package fixture

import "context"

// Source lists and loads named fixtures.
type Source interface {
	// List returns the fixture names available in the source, sorted.
	List(ctx context.Context) ([]string, error)

	// Load returns the fixture with the given name. Missing fixtures
	// report error code E200.
	Load(ctx context.Context, name string) (Named, error)
}
