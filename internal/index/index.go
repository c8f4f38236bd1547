// Package index computes spectral indices (NDVI, NDWI, NDBI, SAVI) from
// stacked Landsat surface-reflectance bands.
package index

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/geoharvest/landsat-toolkit/internal/catalog"
)

var (
	ErrUnsupportedIndexType = errors.New("unsupported index type")
	ErrUnsupportedSatellite = errors.New("unsupported satellite type")
	ErrInsufficientBands    = errors.New("insufficient bands in stack")
	ErrInvalidParameter     = errors.New("invalid parameter")
)

type Type string

const (
	NDVI Type = "NDVI"
	NDWI Type = "NDWI"
	NDBI Type = "NDBI"
	SAVI Type = "SAVI"
)

// DefaultSoilFactor is the soil adjustment constant L for SAVI. Valid range
// is [0, 1].
const DefaultSoilFactor = 0.5

func All() []Type {
	return []Type{NDVI, NDWI, NDBI, SAVI}
}

func Parse(s string) (Type, error) {
	t := Type(strings.ToUpper(s))
	switch t {
	case NDVI, NDWI, NDBI, SAVI:
		return t, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedIndexType, s)
}

// roles maps logical band roles to zero-based positions within a complete
// band stack. Position i holds Landsat band i+1.
type roles struct {
	red, green, nir, swir int
}

var bandRoles = map[catalog.SatelliteType]roles{
	catalog.Landsat7: {red: 2, green: 1, nir: 3, swir: 4},
	catalog.Landsat8: {red: 3, green: 2, nir: 4, swir: 5},
	catalog.Landsat9: {red: 3, green: 2, nir: 4, swir: 5},
}

// Compute derives one index as a float32 grid. bands holds one 2-D grid per
// stacked band; numbers gives the Landsat band number of each grid and may
// be nil for a complete stack where position i is band i+1. Degenerate
// pixels (zero denominator) produce 0, never NaN or Inf.
func Compute(bands [][][]float64, numbers []int, t Type, sat catalog.SatelliteType) ([][]float32, error) {
	return ComputeWithSoilFactor(bands, numbers, t, sat, DefaultSoilFactor)
}

// ComputeWithSoilFactor is Compute with an explicit SAVI soil adjustment
// factor. L outside [0, 1] fails with ErrInvalidParameter.
func ComputeWithSoilFactor(bands [][][]float64, numbers []int, t Type, sat catalog.SatelliteType, l float64) ([][]float32, error) {
	r, ok := bandRoles[sat]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSatellite, sat)
	}

	pick := func(roleIdx int) ([][]float64, error) {
		return bandAt(bands, numbers, roleIdx+1)
	}

	switch t {
	case NDVI:
		nir, err := pick(r.nir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
		red, err := pick(r.red)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
		return normalizedDifference(nir, red), nil

	case NDWI:
		green, err := pick(r.green)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
		nir, err := pick(r.nir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
		return normalizedDifference(green, nir), nil

	case NDBI:
		swir, err := pick(r.swir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
		nir, err := pick(r.nir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
		return normalizedDifference(swir, nir), nil

	case SAVI:
		if l < 0 || l > 1 {
			return nil, fmt.Errorf("%w: soil adjustment factor %v outside [0, 1]", ErrInvalidParameter, l)
		}
		nir, err := pick(r.nir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
		red, err := pick(r.red)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t, err)
		}
		return savi(nir, red, l), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedIndexType, t)
}

// bandAt resolves a Landsat band number to its grid within the stack.
func bandAt(bands [][][]float64, numbers []int, bandNumber int) ([][]float64, error) {
	if numbers == nil {
		if bandNumber > len(bands) {
			return nil, fmt.Errorf("%w: need band %d, stack has %d bands",
				ErrInsufficientBands, bandNumber, len(bands))
		}
		return bands[bandNumber-1], nil
	}

	for i, n := range numbers {
		if n == bandNumber && i < len(bands) {
			return bands[i], nil
		}
	}
	return nil, fmt.Errorf("%w: band %d not present in stack", ErrInsufficientBands, bandNumber)
}

// normalizedDifference computes (a-b)/(a+b) per pixel, with 0 wherever the
// denominator is 0.
func normalizedDifference(a, b [][]float64) [][]float32 {
	result := make([][]float32, len(a))
	for y := range a {
		result[y] = make([]float32, len(a[y]))
		for x := range a[y] {
			denominator := a[y][x] + b[y][x]
			if denominator != 0 {
				result[y][x] = float32((a[y][x] - b[y][x]) / denominator)
			}
		}
	}
	return result
}

// savi computes ((nir-red)/(nir+red+l))*(1+l). The denominator is not
// zeroed up front; any non-finite pixel is replaced with 0 afterwards,
// matching the normalized-difference policy.
func savi(nir, red [][]float64, l float64) [][]float32 {
	result := make([][]float32, len(nir))
	for y := range nir {
		result[y] = make([]float32, len(nir[y]))
		for x := range nir[y] {
			v := ((nir[y][x] - red[y][x]) / (nir[y][x] + red[y][x] + l)) * (1 + l)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				v = 0
			}
			result[y][x] = float32(v)
		}
	}
	return result
}
