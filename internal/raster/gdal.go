package raster

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/airbusgeo/godal"
)

// GDAL implements Reader, Writer and Transformer on top of godal. Datasets
// are opened and closed within each call.
type GDAL struct{}

// quietWarnings keeps GDAL warnings (stale .aux sidecars, slightly off
// GeoTIFF tags) from failing an otherwise readable dataset.
func quietWarnings(ec godal.ErrorCategory, code int, msg string) error {
	if ec <= godal.CE_Warning {
		return nil
	}
	return errors.New(msg)
}

func (GDAL) Georef(path string) (Georef, error) {
	ds, err := godal.Open(path, godal.ErrLogger(quietWarnings))
	if err != nil {
		return Georef{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer ds.Close()

	return georefOf(ds)
}

func georefOf(ds *godal.Dataset) (Georef, error) {
	structure := ds.Structure()

	gt, err := ds.GeoTransform()
	if err != nil {
		return Georef{}, fmt.Errorf("failed to read geotransform: %w", err)
	}

	ref := Georef{
		Transform: gt,
		Width:     structure.SizeX,
		Height:    structure.SizeY,
		Bands:     structure.NBands,
		DType:     structure.DataType.String(),
	}

	if sr := ds.SpatialRef(); sr != nil {
		wkt, err := sr.WKT()
		sr.Close()
		if err != nil {
			return Georef{}, fmt.Errorf("failed to export CRS: %w", err)
		}
		ref.CRS = wkt
	}

	if bands := ds.Bands(); len(bands) > 0 {
		if nodata, ok := bands[0].NoData(); ok {
			ref.NoData = &nodata
		}
	}

	return ref, nil
}

// ReadBand reads one band (1-based index) row by row into a 2-D grid,
// converting the pixel type to float64.
func (GDAL) ReadBand(path string, band int) ([][]float64, error) {
	ds, err := godal.Open(path, godal.ErrLogger(quietWarnings))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer ds.Close()

	bands := ds.Bands()
	if band < 1 || band > len(bands) {
		return nil, fmt.Errorf("band %d out of range for %s (%d bands)", band, path, len(bands))
	}

	width := ds.Structure().SizeX
	height := ds.Structure().SizeY
	grid := make([][]float64, height)
	for y := 0; y < height; y++ {
		grid[y] = make([]float64, width)
		if err := bands[band-1].Read(0, y, grid[y], width, 1); err != nil {
			return nil, fmt.Errorf("failed to read band %d of %s: %w", band, path, err)
		}
	}

	return grid, nil
}

// Write creates a GeoTIFF with one band per grid, georeferenced from ref.
func (GDAL) Write(path string, ref Georef, bands [][][]float64) error {
	if len(bands) == 0 {
		return errors.New("no bands to write")
	}

	dtype, err := dataTypeFromString(ref.DType)
	if err != nil {
		return err
	}

	ds, err := godal.Create(godal.GTiff, path, len(bands), dtype, ref.Width, ref.Height,
		godal.ErrLogger(quietWarnings))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := ds.SetGeoTransform(ref.Transform); err != nil {
		ds.Close()
		return fmt.Errorf("failed to set geotransform on %s: %w", path, err)
	}

	if ref.CRS != "" {
		sr, err := parseCRS(ref.CRS)
		if err != nil {
			ds.Close()
			return err
		}
		err = ds.SetSpatialRef(sr)
		sr.Close()
		if err != nil {
			ds.Close()
			return fmt.Errorf("failed to set CRS on %s: %w", path, err)
		}
	}

	for i, grid := range bands {
		band := ds.Bands()[i]
		if ref.NoData != nil {
			if err := band.SetNoData(*ref.NoData); err != nil {
				ds.Close()
				return fmt.Errorf("failed to set nodata on %s: %w", path, err)
			}
		}
		for y, row := range grid {
			if err := band.Write(0, y, row, len(row), 1); err != nil {
				ds.Close()
				return fmt.Errorf("failed to write band %d of %s: %w", i+1, path, err)
			}
		}
	}

	return ds.Close()
}

// ToWGS84 converts projected coordinates to longitude/latitude in place.
func (GDAL) ToWGS84(crs string, xs, ys []float64) error {
	src, err := parseCRS(crs)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := godal.NewSpatialRefFromEPSG(4326)
	if err != nil {
		return fmt.Errorf("failed to build WGS84 reference: %w", err)
	}
	defer dst.Close()

	tr, err := godal.NewTransform(src, dst)
	if err != nil {
		return fmt.Errorf("failed to build coordinate transform: %w", err)
	}
	defer tr.Close()

	if err := tr.TransformEx(xs, ys, nil, nil); err != nil {
		return fmt.Errorf("coordinate transform failed: %w", err)
	}
	return nil
}

func parseCRS(crs string) (*godal.SpatialRef, error) {
	if code, ok := epsgCode(crs); ok {
		sr, err := godal.NewSpatialRefFromEPSG(code)
		if err != nil {
			return nil, fmt.Errorf("invalid CRS %q: %w", crs, err)
		}
		return sr, nil
	}
	sr, err := godal.NewSpatialRefFromWKT(crs)
	if err != nil {
		return nil, fmt.Errorf("invalid CRS %q: %w", crs, err)
	}
	return sr, nil
}

func epsgCode(crs string) (int, bool) {
	const prefix = "EPSG:"
	if !strings.HasPrefix(strings.ToUpper(crs), prefix) {
		return 0, false
	}
	code, err := strconv.Atoi(crs[len(prefix):])
	if err != nil {
		return 0, false
	}
	return code, true
}

func dataTypeFromString(name string) (godal.DataType, error) {
	switch name {
	case "Byte":
		return godal.Byte, nil
	case "UInt16":
		return godal.UInt16, nil
	case "Int16":
		return godal.Int16, nil
	case "UInt32":
		return godal.UInt32, nil
	case "Int32":
		return godal.Int32, nil
	case "Float32", "":
		return godal.Float32, nil
	case "Float64":
		return godal.Float64, nil
	}
	return godal.Unknown, fmt.Errorf("unsupported pixel type %q", name)
}
