package quicklook

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRampColor(t *testing.T) {
	r, g, b := rampColor(-1)
	assert.InDelta(t, 0.65, r, 1e-9)
	assert.InDelta(t, 0.45, g, 1e-9)
	assert.InDelta(t, 0.25, b, 1e-9)

	r, g, b = rampColor(1)
	assert.InDelta(t, 0, r, 1e-9)
	assert.InDelta(t, 0.65, g, 1e-9)
	assert.InDelta(t, 0, b, 1e-9)

	// Out-of-range values clamp to the ramp endpoints.
	r1, g1, b1 := rampColor(5)
	r2, g2, b2 := rampColor(1)
	assert.Equal(t, [3]float64{r2, g2, b2}, [3]float64{r1, g1, b1})
}

func TestRender(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "NDVI.png")
	grid := [][]float32{
		{-1, -0.5, 0},
		{0.25, 0.5, 1},
	}

	require.NoError(t, Render(grid, outPath))

	file, err := os.Open(outPath)
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
}

func TestRenderEmptyGrid(t *testing.T) {
	assert.Error(t, Render(nil, filepath.Join(t.TempDir(), "out.png")))
	assert.Error(t, Render([][]float32{{}}, filepath.Join(t.TempDir(), "out.png")))
}
