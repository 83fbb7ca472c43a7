package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vango-dev/cosmos/pkg/fixture"
)

func TestChain(t *testing.T) {
	a := &Type{Name: "a"}
	b := &Type{Name: "b"}
	c := NewChain(a, b)

	assert.Same(t, a, c.Value())
	assert.Equal(t, 2, c.Len())

	next := c.Next()
	assert.Same(t, b, next.Value())
	assert.Same(t, a, c.Value(), "Next must not move the receiver")

	end := next.Next()
	assert.Same(t, ComponentType, end.Value())
	assert.Equal(t, 0, end.Len())
	assert.Same(t, ComponentType, end.Next().Value())
}

func TestNilChain(t *testing.T) {
	var c *Chain
	assert.Same(t, ComponentType, c.Value())
	assert.Nil(t, c.Next())
	assert.Equal(t, 0, c.Len())
}

func TestPropsForward(t *testing.T) {
	a := &Type{Name: "a"}
	props := Props{
		Fixture:           fixture.Fixture{"x": 1},
		NextProxy:         NewChain(a),
		DisableLocalState: true,
	}

	el := props.Forward()

	assert.Same(t, a, el.Type)
	assert.Same(t, ComponentType, el.Props.NextProxy.Value())
	assert.Equal(t, props.Fixture, el.Props.Fixture)
	assert.True(t, el.Props.DisableLocalState)
}
