// Package pipeline orchestrates batch runs over scene groupings: index
// products, reprojection, merging and metadata extraction. Batch operations
// are best-effort; a failing scene is reported and skipped while the rest of
// the batch continues.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/geoharvest/landsat-toolkit/internal/catalog"
	"github.com/geoharvest/landsat-toolkit/internal/footprint"
	"github.com/geoharvest/landsat-toolkit/internal/index"
	"github.com/geoharvest/landsat-toolkit/internal/merge"
	"github.com/geoharvest/landsat-toolkit/internal/metadata"
	"github.com/geoharvest/landsat-toolkit/internal/properties"
	"github.com/geoharvest/landsat-toolkit/internal/quicklook"
	"github.com/geoharvest/landsat-toolkit/internal/raster"
	"github.com/geoharvest/landsat-toolkit/internal/reproject"
	"github.com/geoharvest/landsat-toolkit/internal/stack"
	"github.com/geoharvest/landsat-toolkit/internal/utils"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// Pipeline bundles the providers every batch operation needs. Scenes share
// no state, so scene-level fan-out is safe.
type Pipeline struct {
	Reader      raster.Reader
	Writer      raster.Writer
	Warper      reproject.Warper
	Transformer raster.Transformer
	Workers     int
}

// New wires the GDAL-backed providers with a disk-backed georef cache.
func New() *Pipeline {
	gdal := raster.GDAL{}
	return &Pipeline{
		Reader:      raster.NewCachedReader(gdal),
		Writer:      gdal,
		Warper:      reproject.GDALWarper{},
		Transformer: gdal,
		Workers:     properties.Workers(),
	}
}

// Report collects what a batch produced and what it had to leave out.
type Report struct {
	mu      sync.Mutex
	Outputs []string
	Skips   []catalog.Skip
}

func (r *Report) addOutput(paths ...string) {
	r.mu.Lock()
	r.Outputs = append(r.Outputs, paths...)
	r.mu.Unlock()
}

func (r *Report) addSkip(skips ...catalog.Skip) {
	r.mu.Lock()
	r.Skips = append(r.Skips, skips...)
	r.mu.Unlock()
}

func (r *Report) skipScene(sceneID string, err error) {
	r.addSkip(catalog.Skip{Path: sceneID, Reason: err.Error()})
}

// DefaultOutputFolder builds the timestamped folder used when the caller
// does not name one, e.g. output_indice_20240716_153012.
func DefaultOutputFolder(kind string) string {
	return filepath.Join(".", fmt.Sprintf("output_%s_%s", kind, time.Now().Format("20060102_150405")))
}

// resolveScenes returns the requested scene IDs, or every scene in the
// grouping sorted for deterministic processing.
func resolveScenes(scenes catalog.Scenes, sceneIDs []string) []string {
	if len(sceneIDs) > 0 {
		return sceneIDs
	}
	return utils.SortedKeys(scenes)
}

// ProcessIndices builds each scene's band stack once and derives every
// requested index from it, writing one float32 GeoTIFF per index per scene
// (plus an optional PNG quicklook). Scenes run in parallel on a bounded
// worker pool.
func (p *Pipeline) ProcessIndices(inputFolder, outputFolder string, indices []index.Type, sceneIDs []string, quicklooks bool) (*Report, error) {
	scenes, err := catalog.GroupByScene(inputFolder)
	if err != nil {
		return nil, err
	}

	if outputFolder == "" {
		outputFolder = DefaultOutputFolder("indice")
	}
	if len(indices) == 0 {
		indices = index.All()
	}
	ids := resolveScenes(scenes, sceneIDs)

	report := &Report{}
	builder := stack.NewBuilder(p.Reader)
	bar := progressbar.Default(int64(len(ids)*len(indices)), "Calculating indices")
	wp := workerpool.New(p.workers())

	for _, sceneID := range ids {
		sceneID := sceneID
		wp.Submit(func() {
			defer bar.Add(len(indices))

			st, err := builder.Build(scenes, sceneID)
			if err != nil {
				report.skipScene(sceneID, err)
				return
			}
			report.addSkip(st.Skips...)

			sceneFolder := filepath.Join(outputFolder, sceneID)
			if err := os.MkdirAll(sceneFolder, 0755); err != nil {
				report.skipScene(sceneID, err)
				return
			}

			for _, idx := range indices {
				grid, err := index.Compute(st.Bands, st.Numbers, idx, st.Satellite)
				if err != nil {
					report.addSkip(catalog.Skip{
						Path:   sceneID,
						Reason: fmt.Sprintf("%s: %v", idx, err),
					})
					continue
				}

				ref := st.Ref
				ref.Bands = 1
				ref.DType = "Float32"
				ref.NoData = nil

				outPath := filepath.Join(sceneFolder, string(idx)+".tif")
				if err := p.Writer.Write(outPath, ref, [][][]float64{raster.Float32Grid(grid)}); err != nil {
					report.addSkip(catalog.Skip{Path: outPath, Reason: err.Error()})
					continue
				}
				report.addOutput(outPath)

				if quicklooks {
					pngPath := strings.TrimSuffix(outPath, ".tif") + ".png"
					if err := quicklook.Render(grid, pngPath); err != nil {
						report.addSkip(catalog.Skip{Path: pngPath, Reason: err.Error()})
					}
				}
			}
		})
	}

	wp.StopWait()
	bar.Finish()
	return report, nil
}

// ReprojectScenes warps every raster of the selected scenes into the target
// CRS, one output folder per scene. The target CRS is validated before any
// file is touched; per-scene and per-file failures are skipped.
func (p *Pipeline) ReprojectScenes(inputFolder, outputFolder string, opts reproject.Options, sceneIDs []string) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	scenes, err := catalog.GroupByScene(inputFolder)
	if err != nil {
		return nil, err
	}

	if outputFolder == "" {
		outputFolder = DefaultOutputFolder("reprojected")
	}
	ids := resolveScenes(scenes, sceneIDs)

	report := &Report{}
	bar := progressbar.Default(int64(len(ids)), "Reprojecting scenes")

	var g errgroup.Group
	g.SetLimit(p.workers())
	for _, sceneID := range ids {
		sceneID := sceneID
		g.Go(func() error {
			defer bar.Add(1)

			outputs, skips, err := reproject.Scene(p.Warper, scenes, sceneID, filepath.Join(outputFolder, sceneID), opts)
			if err != nil {
				report.skipScene(sceneID, err)
				return nil
			}
			report.addOutput(outputs...)
			report.addSkip(skips...)
			return nil
		})
	}

	_ = g.Wait() // workers report via skips, never an error
	bar.Finish()
	return report, nil
}

// MergeScenes stacks the selected band files of each scene into one
// multi-band raster named <sceneId>_merged.tif.
func (p *Pipeline) MergeScenes(inputFolder, outputFolder string, bandTokens []string, sceneIDs []string) (*Report, error) {
	scenes, err := catalog.GroupByScene(inputFolder)
	if err != nil {
		return nil, err
	}

	if outputFolder == "" {
		outputFolder = DefaultOutputFolder("merged")
	}
	if err := os.MkdirAll(outputFolder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output folder %s: %w", outputFolder, err)
	}
	ids := resolveScenes(scenes, sceneIDs)

	report := &Report{}
	merger := merge.NewMerger(p.Reader, p.Writer)
	bar := progressbar.Default(int64(len(ids)), "Merging bands")

	for _, sceneID := range ids {
		outPath := filepath.Join(outputFolder, sceneID+"_merged.tif")
		skips, err := merger.Merge(scenes, sceneID, bandTokens, outPath)
		report.addSkip(skips...)
		if err != nil {
			report.skipScene(sceneID, err)
		} else {
			report.addOutput(outPath)
		}
		bar.Add(1)
	}

	bar.Finish()
	return report, nil
}

// ExtractMetadata writes tabular and CSV metadata for each selected scene.
func (p *Pipeline) ExtractMetadata(inputFolder, outputFolder string, sceneIDs []string) (*Report, error) {
	scenes, err := catalog.GroupByScene(inputFolder)
	if err != nil {
		return nil, err
	}

	if outputFolder == "" {
		outputFolder = DefaultOutputFolder("metadata")
	}
	ids := resolveScenes(scenes, sceneIDs)

	report := &Report{}
	for _, sceneID := range ids {
		txtPath, err := metadata.ExtractScene(scenes, sceneID, outputFolder)
		if err != nil {
			report.skipScene(sceneID, err)
			continue
		}
		report.addOutput(txtPath)
	}

	return report, nil
}

// Footprints writes a GeoJSON FeatureCollection of scene ground footprints.
func (p *Pipeline) Footprints(inputFolder, outPath string) (*Report, error) {
	scenes, err := catalog.GroupByScene(inputFolder)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	skips, err := footprint.ForScenes(p.Reader, p.Transformer, scenes, outPath)
	report.addSkip(skips...)
	if err != nil {
		return report, err
	}
	report.addOutput(outPath)
	return report, nil
}

// Organize copies recognized files into a SATELLITE/sceneID folder layout.
func (p *Pipeline) Organize(inputFolder, outputFolder string) (*Report, error) {
	if outputFolder == "" {
		outputFolder = DefaultOutputFolder("organized")
	}

	report := &Report{}
	skips, err := catalog.Organize(inputFolder, outputFolder)
	report.addSkip(skips...)
	if err != nil {
		return report, err
	}
	report.addOutput(outputFolder)
	return report, nil
}

func (p *Pipeline) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return 1
}
