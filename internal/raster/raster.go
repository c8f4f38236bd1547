// Package raster defines the raster I/O contract the pipeline consumes and
// its GDAL-backed implementation. Every grid travels with a Georef so it can
// be written back with correct spatial referencing.
package raster

// Georef carries everything needed to place a grid in space, plus the
// non-spatial metadata that must survive a rewrite.
type Georef struct {
	CRS       string     // WKT or "EPSG:<code>"
	Transform [6]float64 // GDAL-order affine geotransform
	Width     int
	Height    int
	Bands     int
	DType     string // "Byte", "UInt16", "Float32", ...
	NoData    *float64
}

// PixelToGeo maps a pixel coordinate to projected coordinates using the
// affine transform. Pass fractional pixels (x+0.5, y+0.5) for cell centers.
func (g Georef) PixelToGeo(x, y float64) (float64, float64) {
	gt := g.Transform
	return gt[0] + gt[1]*x + gt[2]*y, gt[3] + gt[4]*x + gt[5]*y
}

// SameGrid reports whether two rasters share pixel geometry: identical
// dimensions and affine transform.
func (g Georef) SameGrid(other Georef) bool {
	return g.Width == other.Width &&
		g.Height == other.Height &&
		g.Transform == other.Transform
}

// Reader opens a raster long enough to answer one question and closes it
// again; no handles persist between calls.
type Reader interface {
	Georef(path string) (Georef, error)
	ReadBand(path string, band int) ([][]float64, error)
}

// Writer creates a raster at path with the given georeferencing and one 2-D
// grid per band. ref.DType selects the on-disk pixel type.
type Writer interface {
	Write(path string, ref Georef, bands [][][]float64) error
}

// Transformer converts projected coordinates to WGS84 longitude/latitude
// in place.
type Transformer interface {
	ToWGS84(crs string, xs, ys []float64) error
}

// Float32Grid converts an index grid to float64 rows for writing.
func Float32Grid(grid [][]float32) [][]float64 {
	out := make([][]float64, len(grid))
	for y, row := range grid {
		out[y] = make([]float64, len(row))
		for x, v := range row {
			out[y][x] = float64(v)
		}
	}
	return out
}
