package mesh

import (
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"
)

func v(x, y, z float64) pt.Vector { return pt.Vector{X: x, Y: y, Z: z} }

func TestBoxBounds(t *testing.T) {
	assert := assert.New(t)

	m := NewBox(v(0, 0, 0), v(5, 4, 3))
	min, max := m.Bounds()
	assert.InDelta(0, min.X, 1e-9)
	assert.InDelta(0, min.Y, 1e-9)
	assert.InDelta(0, min.Z, 1e-9)
	assert.InDelta(5, max.X, 1e-9)
	assert.InDelta(4, max.Y, 1e-9)
	assert.InDelta(3, max.Z, 1e-9)
}

func TestContains(t *testing.T) {
	assert := assert.New(t)

	m := NewBox(v(0, 0, 0), v(5, 4, 3))

	assert.True(m.Contains(v(2.5, 2, 1.5)))
	assert.True(m.Contains(v(0.1, 0.1, 0.1)))

	assert.False(m.Contains(v(-1, 2, 1.5)))
	assert.False(m.Contains(v(2.5, 2, 5)))
	assert.False(m.Contains(v(6, 5, 4)))
}

func TestContainsOffsetRoom(t *testing.T) {
	assert := assert.New(t)

	m := NewBox(v(-10, -10, -10), v(-4, -6, -7))
	assert.True(m.Contains(v(-7, -8, -8.5)))
	assert.False(m.Contains(v(0, 0, 0)))
}
