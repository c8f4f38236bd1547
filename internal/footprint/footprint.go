// Package footprint derives per-scene WGS84 ground footprints and writes
// them as a GeoJSON FeatureCollection.
package footprint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/geoharvest/landsat-toolkit/internal/catalog"
	"github.com/geoharvest/landsat-toolkit/internal/raster"
	"github.com/geoharvest/landsat-toolkit/internal/reproject"
	"github.com/geoharvest/landsat-toolkit/internal/utils"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

var ErrNoFootprints = errors.New("no scene footprints could be derived")

// ForScenes writes one polygon feature per scene, taken from the bounds of
// the scene's first raster file. Scenes whose georeferencing cannot be read
// are skipped with a diagnostic.
func ForScenes(r raster.Reader, tr raster.Transformer, scenes catalog.Scenes, outPath string) ([]catalog.Skip, error) {
	fc := geojson.NewFeatureCollection()
	var skips []catalog.Skip

	for _, sceneID := range utils.SortedKeys(scenes) {
		feature, err := sceneFeature(r, tr, scenes, sceneID)
		if err != nil {
			skips = append(skips, catalog.Skip{Path: sceneID, Reason: err.Error()})
			continue
		}
		fc.Append(feature)
	}

	if len(fc.Features) == 0 {
		return skips, ErrNoFootprints
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return skips, fmt.Errorf("failed to encode footprints: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return skips, fmt.Errorf("failed to write footprints %s: %w", outPath, err)
	}

	return skips, nil
}

func sceneFeature(r raster.Reader, tr raster.Transformer, scenes catalog.Scenes, sceneID string) (*geojson.Feature, error) {
	var rasterFile string
	for _, path := range scenes[sceneID] {
		if reproject.IsRasterFile(path) {
			rasterFile = path
			break
		}
	}
	if rasterFile == "" {
		return nil, errors.New("scene has no raster files")
	}

	ref, err := r.Georef(rasterFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read georeferencing from %s: %w", filepath.Base(rasterFile), err)
	}

	// Grid corners, clockwise from the origin, closed.
	corners := [][2]float64{
		{0, 0},
		{float64(ref.Width), 0},
		{float64(ref.Width), float64(ref.Height)},
		{0, float64(ref.Height)},
		{0, 0},
	}

	xs := make([]float64, len(corners))
	ys := make([]float64, len(corners))
	for i, c := range corners {
		xs[i], ys[i] = ref.PixelToGeo(c[0], c[1])
	}
	if err := tr.ToWGS84(ref.CRS, xs, ys); err != nil {
		return nil, err
	}

	ring := make(orb.Ring, len(corners))
	for i := range corners {
		ring[i] = orb.Point{xs[i], ys[i]}
	}
	polygon := orb.Polygon{ring}

	feature := geojson.NewFeature(polygon)
	feature.Properties["scene_id"] = sceneID
	feature.Properties["satellite"] = scenes.Satellite(sceneID).String()

	if centroid, area := planar.CentroidArea(polygon); area != 0 {
		feature.Properties["centroid"] = []float64{centroid.X(), centroid.Y()}
	}

	return feature, nil
}
