// Package merge stacks single-band rasters of a scene into one multi-band
// file.
package merge

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/geoharvest/landsat-toolkit/internal/catalog"
	"github.com/geoharvest/landsat-toolkit/internal/raster"
	"github.com/geoharvest/landsat-toolkit/internal/reproject"
)

var (
	ErrSceneNotFound    = errors.New("scene not found")
	ErrNoBandsSelected  = errors.New("no bands selected for merge")
	ErrGeometryMismatch = errors.New("band geometry mismatch")
)

type Merger struct {
	reader raster.Reader
	writer raster.Writer
}

func NewMerger(reader raster.Reader, writer raster.Writer) *Merger {
	return &Merger{reader: reader, writer: writer}
}

// Merge reads band 1 of every selected raster in the scene, in selection
// order, and writes them as one multi-band file georeferenced from the
// first band read. All inputs must share pixel geometry; a mismatch fails
// the merge rather than producing a misaligned product. Unreadable files
// are skipped with a diagnostic.
func (m *Merger) Merge(scenes catalog.Scenes, sceneID string, bandTokens []string, outPath string) ([]catalog.Skip, error) {
	files, ok := scenes[sceneID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, sceneID)
	}

	selected := selectFiles(files, bandTokens)
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w for scene %s", ErrNoBandsSelected, sceneID)
	}

	var skips []catalog.Skip
	var bands [][][]float64
	var ref raster.Georef
	haveRef := false

	for _, path := range selected {
		fileRef, err := m.reader.Georef(path)
		if err != nil {
			skips = append(skips, catalog.Skip{Path: path, Reason: err.Error()})
			continue
		}

		if haveRef && !ref.SameGrid(fileRef) {
			return skips, fmt.Errorf("%w: %s is %dx%d, expected %dx%d with matching transform",
				ErrGeometryMismatch, path, fileRef.Width, fileRef.Height, ref.Width, ref.Height)
		}

		grid, err := m.reader.ReadBand(path, 1)
		if err != nil {
			skips = append(skips, catalog.Skip{Path: path, Reason: err.Error()})
			continue
		}

		if !haveRef {
			ref = fileRef
			haveRef = true
		}
		bands = append(bands, grid)
	}

	if len(bands) == 0 {
		return skips, fmt.Errorf("%w for scene %s: no readable band files", ErrNoBandsSelected, sceneID)
	}

	ref.Bands = len(bands)
	if err := m.writer.Write(outPath, ref, bands); err != nil {
		return skips, fmt.Errorf("failed to write merged raster %s: %w", outPath, err)
	}

	return skips, nil
}

// selectFiles keeps raster files whose name contains any of the given
// band-suffix tokens; with no tokens, every raster file is selected.
func selectFiles(files []string, bandTokens []string) []string {
	var selected []string
	for _, path := range files {
		if !reproject.IsRasterFile(path) {
			continue
		}
		if len(bandTokens) == 0 {
			selected = append(selected, path)
			continue
		}

		name := strings.ToLower(filepath.Base(path))
		for _, token := range bandTokens {
			if strings.Contains(name, strings.ToLower(token)) {
				selected = append(selected, path)
				break
			}
		}
	}
	return selected
}
