package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIntPadAndScale(t *testing.T) {
	r := NewRectInt(10, 20, 15, 12)

	padded := r.Pad(5)
	assert.Equal(t, NewRectInt(5, 15, 25, 22), padded)
	assert.Equal(t, NewRectInt(20, 60, 100, 88), padded.Scale(4))
}

func TestRectIntClamp(t *testing.T) {
	r := NewRectInt(-8, 90, 40, 40)

	assert.Equal(t, NewRectInt(0, 90, 32, 10), r.Clamp(100, 100))
	assert.True(t, NewRectInt(200, 200, 5, 5).Clamp(100, 100).Empty())
}

func TestRectIntAspectRatio(t *testing.T) {
	assert.InDelta(t, 1.25, NewRectInt(0, 0, 50, 40).AspectRatio(), 1e-9)
	assert.Zero(t, NewRectInt(0, 0, 50, 0).AspectRatio())
}

func TestRectIntLess(t *testing.T) {
	a := NewRectInt(90, 10, 5, 5)
	b := NewRectInt(10, 50, 5, 5)
	c := NewRectInt(50, 50, 5, 5)

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(b))
}
