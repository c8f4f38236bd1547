// Package catalog groups loose Landsat product files into scenes and
// classifies them by satellite from the filename convention
// <SENSOR>_<LEVEL>_<PATH_ROW>_<DATE>_<PROC_DATE>_<COLLECTION>_<TIER>_<SUFFIX>.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotFound = errors.New("input folder not found")

// SatelliteType is the closed set of platforms the toolkit recognizes. It is
// derived once per file and consumed everywhere else, so no other package
// re-parses filenames.
type SatelliteType int

const (
	Unknown SatelliteType = iota
	Landsat7
	Landsat8
	Landsat9
)

func (t SatelliteType) String() string {
	switch t {
	case Landsat7:
		return "landsat7"
	case Landsat8:
		return "landsat8"
	case Landsat9:
		return "landsat9"
	}
	return "unknown"
}

// sceneIDTokens is the number of underscore-delimited filename tokens that
// identify one acquisition.
const sceneIDTokens = 7

// Skip records a unit that a best-effort operation left out, with a
// human-readable reason. Callers decide how to surface them.
type Skip struct {
	Path   string
	Reason string
}

func (s Skip) String() string {
	return fmt.Sprintf("%s: %s", s.Path, s.Reason)
}

// Scenes maps a scene ID to the files that belong to that acquisition.
// Groupings are rebuilt on every scan and never persisted.
type Scenes map[string][]string

// Classify detects the satellite from marker tokens anywhere in the
// filename, case-insensitive. First match wins.
func Classify(fileName string) SatelliteType {
	name := strings.ToLower(fileName)

	switch {
	case strings.Contains(name, "le07"):
		return Landsat7
	case strings.Contains(name, "lc08"):
		return Landsat8
	case strings.Contains(name, "lc09"):
		return Landsat9
	}
	return Unknown
}

// SceneID derives the grouping key from the first seven underscore tokens of
// a filename. Shorter names yield all available tokens rejoined, which is
// degenerate but well defined.
func SceneID(fileName string) string {
	tokens := strings.Split(fileName, "_")
	if len(tokens) > sceneIDTokens {
		tokens = tokens[:sceneIDTokens]
	}
	return strings.Join(tokens, "_")
}

// GroupByScene scans a folder (non-recursively) and groups every recognized
// file by scene ID. Hidden files, directories and files of unknown satellite
// type are excluded.
func GroupByScene(folder string) (Scenes, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, folder)
		}
		return nil, fmt.Errorf("failed to list input folder %s: %w", folder, err)
	}

	scenes := make(Scenes)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if Classify(name) == Unknown {
			continue
		}
		id := SceneID(name)
		scenes[id] = append(scenes[id], filepath.Join(folder, name))
	}

	return scenes, nil
}

// Satellite reports the platform of a scene from its first file.
func (s Scenes) Satellite(sceneID string) SatelliteType {
	files := s[sceneID]
	if len(files) == 0 {
		return Unknown
	}
	return Classify(filepath.Base(files[0]))
}
