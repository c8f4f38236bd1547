package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPixelToGeo(t *testing.T) {
	g := Georef{Transform: [6]float64{500000, 30, 0, 6000000, 0, -30}}

	x, y := g.PixelToGeo(0, 0)
	assert.Equal(t, float64(500000), x)
	assert.Equal(t, float64(6000000), y)

	x, y = g.PixelToGeo(10, 20)
	assert.Equal(t, float64(500300), x)
	assert.Equal(t, float64(5999400), y)
}

func TestSameGrid(t *testing.T) {
	a := Georef{Width: 10, Height: 10, Transform: [6]float64{0, 30, 0, 0, 0, -30}}

	b := a
	assert.True(t, a.SameGrid(b))

	// Band count and pixel type do not affect grid identity.
	b.Bands = 3
	b.DType = "Float32"
	assert.True(t, a.SameGrid(b))

	c := a
	c.Width = 12
	assert.False(t, a.SameGrid(c))

	d := a
	d.Transform[0] = 15
	assert.False(t, a.SameGrid(d))
}

func TestFloat32Grid(t *testing.T) {
	grid := Float32Grid([][]float32{{0.5, -1}, {0.25, 0}})

	assert.Equal(t, [][]float64{{0.5, -1}, {0.25, 0}}, grid)
	assert.Empty(t, Float32Grid(nil))
}
