// Package reproject resamples raster files into a target CRS, computing a
// destination grid that covers the source extent at equivalent resolution.
package reproject

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/geoharvest/landsat-toolkit/internal/catalog"
	"github.com/geoharvest/landsat-toolkit/internal/raster"
)

var (
	ErrSceneNotFound    = errors.New("scene not found")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Resampling selects the warp kernel. Nearest is the default for backward
// compatibility; bilinear or cubic suit continuous reflectance data better.
type Resampling string

const (
	Nearest  Resampling = "nearest"
	Bilinear Resampling = "bilinear"
	Cubic    Resampling = "cubic"
)

func ParseResampling(s string) (Resampling, error) {
	if s == "" {
		return Nearest, nil
	}
	r := Resampling(strings.ToLower(s))
	switch r {
	case Nearest, Bilinear, Cubic:
		return r, nil
	}
	return "", fmt.Errorf("%w: unrecognized resampling method %q", ErrInvalidParameter, s)
}

type Options struct {
	TargetCRS  string
	Resampling Resampling
}

// Validate fails fast on a missing or malformed target CRS, before any file
// is touched.
func (o Options) Validate() error {
	if o.TargetCRS == "" {
		return fmt.Errorf("%w: target CRS must be specified (e.g. \"EPSG:32633\")", ErrInvalidParameter)
	}
	if upper := strings.ToUpper(o.TargetCRS); strings.HasPrefix(upper, "EPSG:") {
		code := strings.TrimPrefix(upper, "EPSG:")
		if code == "" || strings.TrimLeft(code, "0123456789") != "" {
			return fmt.Errorf("%w: malformed EPSG code %q", ErrInvalidParameter, o.TargetCRS)
		}
	}
	if o.Resampling == "" {
		return nil
	}
	if _, err := ParseResampling(string(o.Resampling)); err != nil {
		return err
	}
	return nil
}

// Warper reprojects one raster file into a target CRS, writing dstPath and
// returning its georeferencing. Non-spatial metadata (pixel type, band
// count, nodata) carries over from the source.
type Warper interface {
	Warp(srcPath, dstPath string, opts Options) (raster.Georef, error)
}

// rasterExtensions recognized when picking scene files to reproject or merge.
var rasterExtensions = []string{".tif", ".tiff", ".geotiff"}

// IsRasterFile reports whether a path has a recognized raster extension.
func IsRasterFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range rasterExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// Scene reprojects every raster file of a scene into outFolder, keeping
// original filenames. Per-file failures are skipped with a diagnostic and
// the rest of the scene continues.
func Scene(w Warper, scenes catalog.Scenes, sceneID, outFolder string, opts Options) ([]string, []catalog.Skip, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	files, ok := scenes[sceneID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrSceneNotFound, sceneID)
	}

	if err := os.MkdirAll(outFolder, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create output folder %s: %w", outFolder, err)
	}

	var outputs []string
	var skips []catalog.Skip
	for _, path := range files {
		if !IsRasterFile(path) {
			continue
		}

		dst := filepath.Join(outFolder, filepath.Base(path))
		if _, err := w.Warp(path, dst, opts); err != nil {
			skips = append(skips, catalog.Skip{Path: path, Reason: err.Error()})
			continue
		}
		outputs = append(outputs, dst)
	}

	return outputs, skips, nil
}
