package index

import (
	"testing"

	"github.com/geoharvest/landsat-toolkit/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniform builds a 2x2 grid filled with one value.
func uniform(v float64) [][]float64 {
	return [][]float64{{v, v}, {v, v}}
}

// fullStack builds a 7-band positional stack where band n is filled with
// values[n]; missing entries default to 0.
func fullStack(values map[int]float64) [][][]float64 {
	stack := make([][][]float64, 7)
	for i := range stack {
		stack[i] = uniform(values[i+1])
	}
	return stack
}

func TestParse(t *testing.T) {
	for _, name := range []string{"NDVI", "ndwi", "Ndbi", "savi"} {
		got, err := Parse(name)
		require.NoError(t, err)
		assert.NotEmpty(t, got)
	}

	_, err := Parse("EVI")
	assert.ErrorIs(t, err, ErrUnsupportedIndexType)
}

func TestComputeNDVI(t *testing.T) {
	// Landsat 8: red is band 4, NIR is band 5.
	stack := fullStack(map[int]float64{4: 0.2, 5: 0.8})

	grid, err := Compute(stack, nil, NDVI, catalog.Landsat8)
	require.NoError(t, err)

	for _, row := range grid {
		for _, v := range row {
			assert.InDelta(t, 0.6/1.0, v, 1e-6)
		}
	}
}

func TestComputeNDVILandsat7Roles(t *testing.T) {
	// Landsat 7: red is band 3, NIR is band 4.
	stack := fullStack(map[int]float64{3: 0.2, 4: 0.8})

	grid, err := Compute(stack, nil, NDVI, catalog.Landsat7)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, float64(grid[0][0]), 1e-6)
}

func TestComputeNDWI(t *testing.T) {
	// Landsat 8: green is band 3, NIR is band 5.
	stack := fullStack(map[int]float64{3: 0.6, 5: 0.2})

	grid, err := Compute(stack, nil, NDWI, catalog.Landsat8)
	require.NoError(t, err)
	assert.InDelta(t, 0.4/0.8, float64(grid[1][1]), 1e-6)
}

func TestComputeNDBI(t *testing.T) {
	// Landsat 8: SWIR is band 6, NIR is band 5.
	stack := fullStack(map[int]float64{6: 0.5, 5: 0.3})

	grid, err := Compute(stack, nil, NDBI, catalog.Landsat8)
	require.NoError(t, err)
	assert.InDelta(t, 0.2/0.8, float64(grid[0][1]), 1e-6)
}

func TestNormalizedDifferenceZeroDenominator(t *testing.T) {
	a := [][]float64{{0, 0.5, -0.3}}
	b := [][]float64{{0, 0.5, 0.3}}

	grid := normalizedDifference(a, b)

	assert.Equal(t, float32(0), grid[0][0], "0+0 denominator yields 0")
	assert.Equal(t, float32(0), grid[0][1])
	assert.Equal(t, float32(0), grid[0][2], "-0.3+0.3 denominator yields 0")
}

func TestNormalizedDifferenceBounds(t *testing.T) {
	a := [][]float64{{0.9, 0.001, 0.5}}
	b := [][]float64{{0.1, 0.999, 0.5}}

	grid := normalizedDifference(a, b)
	for _, v := range grid[0] {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestComputeSAVI(t *testing.T) {
	tests := []struct {
		name     string
		nir, red float64
		want     float64
	}{
		{"equal bands", 0.3, 0.3, 0},
		{"vegetated", 0.8, 0.2, (0.6 / 1.5) * 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stack := fullStack(map[int]float64{4: tt.red, 5: tt.nir})
			grid, err := Compute(stack, nil, SAVI, catalog.Landsat8)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, float64(grid[0][0]), 1e-6)
		})
	}
}

func TestComputeSAVINonFiniteDenominator(t *testing.T) {
	// NIR + RED = -L makes the denominator exactly zero; the result must be
	// 0, not Inf.
	stack := fullStack(map[int]float64{4: -0.25, 5: -0.25})

	grid, err := Compute(stack, nil, SAVI, catalog.Landsat8)
	require.NoError(t, err)
	assert.Equal(t, float32(0), grid[0][0])
}

func TestComputeSAVISoilFactorRange(t *testing.T) {
	stack := fullStack(map[int]float64{4: 0.2, 5: 0.8})

	for _, l := range []float64{-0.1, 1.5} {
		_, err := ComputeWithSoilFactor(stack, nil, SAVI, catalog.Landsat8, l)
		assert.ErrorIs(t, err, ErrInvalidParameter, "L=%v", l)
	}

	grid, err := ComputeWithSoilFactor(stack, nil, SAVI, catalog.Landsat8, 0)
	require.NoError(t, err)
	// With L=0 SAVI degenerates to NDVI.
	assert.InDelta(t, 0.6, float64(grid[0][0]), 1e-6)
}

func TestComputeInsufficientBands(t *testing.T) {
	threeBands := [][][]float64{uniform(1), uniform(2), uniform(3)}

	_, err := Compute(threeBands, nil, NDBI, catalog.Landsat8)
	assert.ErrorIs(t, err, ErrInsufficientBands)

	_, err = Compute(threeBands, nil, NDVI, catalog.Landsat8)
	assert.ErrorIs(t, err, ErrInsufficientBands)
}

func TestComputeWithBandNumbers(t *testing.T) {
	// A partial stack of only B4 and B5 still supports NDVI when the stack
	// carries its band numbers.
	bands := [][][]float64{uniform(10), uniform(30)}
	numbers := []int{4, 5}

	grid, err := Compute(bands, numbers, NDVI, catalog.Landsat8)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, float64(grid[0][0]), 1e-6)

	// NDBI needs band 6, which this stack does not have.
	_, err = Compute(bands, numbers, NDBI, catalog.Landsat8)
	assert.ErrorIs(t, err, ErrInsufficientBands)
}

func TestComputeUnsupportedSatellite(t *testing.T) {
	stack := fullStack(nil)

	_, err := Compute(stack, nil, NDVI, catalog.Unknown)
	assert.ErrorIs(t, err, ErrUnsupportedSatellite)
}

func TestComputeUnsupportedIndexType(t *testing.T) {
	stack := fullStack(nil)

	_, err := Compute(stack, nil, Type("EVI"), catalog.Landsat8)
	assert.ErrorIs(t, err, ErrUnsupportedIndexType)
}

func TestComputeOutputShape(t *testing.T) {
	stack := fullStack(map[int]float64{4: 0.2, 5: 0.8})

	grid, err := Compute(stack, nil, NDVI, catalog.Landsat8)
	require.NoError(t, err)
	require.Len(t, grid, 2)
	require.Len(t, grid[0], 2)
}
