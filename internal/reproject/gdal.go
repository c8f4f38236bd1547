package reproject

import (
	"errors"
	"fmt"

	"github.com/airbusgeo/godal"
	"github.com/geoharvest/landsat-toolkit/internal/raster"
)

// GDALWarper implements Warper with the GDAL warp machinery: the
// destination transform and grid size are computed so the output fully
// covers the reprojected source bounds at native-equivalent resolution.
type GDALWarper struct{}

func (GDALWarper) Warp(srcPath, dstPath string, opts Options) (raster.Georef, error) {
	src, err := godal.Open(srcPath, godal.ErrLogger(func(ec godal.ErrorCategory, code int, msg string) error {
		if ec <= godal.CE_Warning {
			return nil
		}
		return errors.New(msg)
	}))
	if err != nil {
		return raster.Georef{}, fmt.Errorf("failed to open %s: %w", srcPath, err)
	}
	defer src.Close()

	method := opts.Resampling
	if method == "" {
		method = Nearest
	}

	switches := []string{
		"-of", "GTiff",
		"-t_srs", opts.TargetCRS,
		"-r", gdalResampling(method),
	}

	dst, err := src.Warp(dstPath, switches)
	if err != nil {
		return raster.Georef{}, fmt.Errorf("failed to reproject %s to %s: %w", srcPath, opts.TargetCRS, err)
	}
	if err := dst.Close(); err != nil {
		return raster.Georef{}, fmt.Errorf("failed to finalize %s: %w", dstPath, err)
	}

	return raster.GDAL{}.Georef(dstPath)
}

func gdalResampling(r Resampling) string {
	if r == Nearest {
		return "near" // gdalwarp spells it differently
	}
	return string(r)
}
