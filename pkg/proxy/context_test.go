package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextDefault(t *testing.T) {
	ctx := CreateContext("light")

	assert.Equal(t, "light", ctx.Use(nil))
	assert.Equal(t, "light", ctx.Use(NewScope(nil)))
	assert.Equal(t, "light", ctx.Default())

	_, ok := ctx.Lookup(NewScope(nil))
	assert.False(t, ok)
}

func TestContextProvideScoped(t *testing.T) {
	ctx := CreateContext("light")
	root := NewScope(nil)
	provider := NewScope(root)
	descendant := NewScope(NewScope(provider))
	sibling := NewScope(root)

	ctx.Provide(provider, "dark")

	v, ok := ctx.Lookup(descendant)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)
	assert.Equal(t, "light", ctx.Use(sibling))
	assert.Equal(t, "light", ctx.Use(root))
}

func TestContextsDoNotCollide(t *testing.T) {
	a := CreateContext(0)
	b := CreateContext(0)
	s := NewScope(nil)

	a.Provide(s, 1)
	b.Provide(s, 2)

	assert.Equal(t, 1, a.Use(s))
	assert.Equal(t, 2, b.Use(s))
}

type greeter interface{ Greet() string }

type english struct{}

func (english) Greet() string { return "hello" }

func TestContextInterfaceValue(t *testing.T) {
	ctx := CreateContext[greeter](nil)
	s := NewScope(nil)

	assert.Nil(t, ctx.Use(s))
	ctx.Provide(s, english{})
	assert.Equal(t, "hello", ctx.Use(NewScope(s)).Greet())
}
