// Package stack assembles per-scene band stacks from surface-reflectance
// band files.
package stack

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/geoharvest/landsat-toolkit/internal/catalog"
	"github.com/geoharvest/landsat-toolkit/internal/raster"
)

var (
	ErrSceneNotFound = errors.New("scene not found")
	ErrNoValidBands  = errors.New("no valid band files found")
)

// srBandPattern extracts the band number from the surface-reflectance
// marker, e.g. "..._SR_B5.TIF" -> 5.
var srBandPattern = regexp.MustCompile(`_sr_b(\d+)`)

// BandStack is a scene's surface-reflectance bands stacked along a leading
// axis, ordered by band number.
type BandStack struct {
	SceneID   string
	Satellite catalog.SatelliteType
	Bands     [][][]float64
	Numbers   []int // Landsat band number of each grid, aligned with Bands
	Files     []string
	Ref       raster.Georef // georeferencing for derived products
	Skips     []catalog.Skip
}

type Builder struct {
	reader raster.Reader
}

func NewBuilder(reader raster.Reader) *Builder {
	return &Builder{reader: reader}
}

// Build reads every surface-reflectance band file of a scene into a stack.
// Band files are sorted by their embedded band number before stacking, so
// the result does not depend on directory listing order. Unreadable band
// files are skipped with a diagnostic as long as at least one band succeeds.
func (b *Builder) Build(scenes catalog.Scenes, sceneID string) (*BandStack, error) {
	files, ok := scenes[sceneID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, sceneID)
	}

	selected := SelectBandFiles(files)
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w for scene %s", ErrNoValidBands, sceneID)
	}

	stack := &BandStack{
		SceneID:   sceneID,
		Satellite: scenes.Satellite(sceneID),
	}

	refFile := ""
	for _, f := range selected {
		grid, err := b.reader.ReadBand(f.Path, 1)
		if err != nil {
			stack.Skips = append(stack.Skips, catalog.Skip{Path: f.Path, Reason: err.Error()})
			continue
		}
		stack.Bands = append(stack.Bands, grid)
		stack.Numbers = append(stack.Numbers, f.Number)
		stack.Files = append(stack.Files, f.Path)

		// Band 4 is the conventional georeferencing source for index
		// products; fall back to the first readable band.
		if refFile == "" || f.Number == 4 {
			refFile = f.Path
		}
	}

	if len(stack.Bands) == 0 {
		return nil, fmt.Errorf("%w for scene %s: all band files unreadable", ErrNoValidBands, sceneID)
	}

	ref, err := b.reader.Georef(refFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read georeferencing from %s: %w", refFile, err)
	}
	stack.Ref = ref

	return stack, nil
}

// BandFile is a surface-reflectance band file and its parsed band number.
type BandFile struct {
	Path   string
	Number int
}

// SelectBandFiles filters a scene's files down to surface-reflectance bands
// and orders them by band number. Files whose band number cannot be parsed
// sort after the numbered ones, in their original order.
func SelectBandFiles(files []string) []BandFile {
	var selected []BandFile
	for _, path := range files {
		name := strings.ToLower(filepath.Base(path))
		if !strings.Contains(name, "_sr_b") {
			continue
		}
		selected = append(selected, BandFile{Path: path, Number: bandNumber(name)})
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Number < selected[j].Number
	})
	return selected
}

// unnumbered sorts unparseable band files after every real band number.
const unnumbered = int(^uint(0) >> 1)

func bandNumber(lowerName string) int {
	m := srBandPattern.FindStringSubmatch(lowerName)
	if m == nil {
		return unnumbered
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return unnumbered
	}
	return n
}
