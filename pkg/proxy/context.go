package proxy

// Context passes a typed value from a proxy to every scope below it without
// threading it through Props. Consumers ask for it explicitly with the scope
// they were given.
//
// Example:
//
//	var ThemeContext = proxy.CreateContext("light")
//
//	// in a proxy constructor
//	ThemeContext.Provide(scope, "dark")
//
//	// in a component
//	theme := ThemeContext.Use(scope)
type Context[T any] struct {
	key          any
	defaultValue T
}

type contextKey[T any] struct {
	ctx *Context[T]
}

// CreateContext creates a context with the given default value.
func CreateContext[T any](defaultValue T) *Context[T] {
	c := &Context[T]{defaultValue: defaultValue}
	c.key = contextKey[T]{ctx: c}
	return c
}

// Provide makes value visible to scope and its descendants.
func (c *Context[T]) Provide(scope *Scope, value T) {
	scope.SetValue(c.key, value)
}

// Lookup returns the value provided by the nearest ancestor, and whether one
// was found.
func (c *Context[T]) Lookup(scope *Scope) (T, bool) {
	if scope != nil {
		if v, ok := scope.GetValue(c.key); ok {
			if typed, ok := v.(T); ok {
				return typed, true
			}
		}
	}
	return c.defaultValue, false
}

// Use returns the provided value or the default.
func (c *Context[T]) Use(scope *Scope) T {
	v, _ := c.Lookup(scope)
	return v
}

// Default returns the default value for this context.
func (c *Context[T]) Default() T {
	return c.defaultValue
}
