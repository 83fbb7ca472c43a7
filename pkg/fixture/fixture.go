package fixture

import "maps"

// Fixture maps fixture keys to arbitrary values.
type Fixture map[string]any

// Get returns the value stored under key, or nil.
func (f Fixture) Get(key string) any {
	if f == nil {
		return nil
	}
	return f[key]
}

// Has reports whether key is present with a non-nil value.
func (f Fixture) Has(key string) bool {
	if f == nil {
		return false
	}
	v, ok := f[key]
	return ok && v != nil
}

// Clone returns a shallow copy of f. A nil fixture clones to an empty one.
func (f Fixture) Clone() Fixture {
	out := make(Fixture, len(f))
	maps.Copy(out, f)
	return out
}

// Omit returns a copy of f without the given keys.
func (f Fixture) Omit(keys ...string) Fixture {
	out := f.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Merge returns a copy of f with the top-level keys of update applied on top.
func (f Fixture) Merge(update Fixture) Fixture {
	out := f.Clone()
	maps.Copy(out, update)
	return out
}

// Keys returns the keys of f in no particular order.
func (f Fixture) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	return keys
}

// Named is a fixture loaded from a source, together with the component it
// previews.
type Named struct {
	Name      string
	Component string
	Data      Fixture
}
