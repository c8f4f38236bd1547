// Package metadata parses Landsat MTL metadata files and exports them as
// tabular text or CSV.
package metadata

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/geoharvest/landsat-toolkit/internal/catalog"
	"github.com/gocarina/gocsv"
)

var ErrNoMetadataFile = errors.New("no metadata file found")

type Entry struct {
	Key   string
	Value string
}

type Group struct {
	Name    string
	Entries []Entry
}

// Document is a parsed MTL file: GROUP blocks of key-value pairs, in file
// order.
type Document struct {
	Groups []Group
}

// ParseMTL reads the GROUP = ... / END_GROUP structure of a Landsat MTL
// file. Values keep their textual form; surrounding quotes are stripped.
func ParseMTL(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file %s: %w", path, err)
	}
	defer file.Close()

	doc := &Document{}
	var current *Group

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "GROUP ="):
			doc.Groups = append(doc.Groups, Group{
				Name: strings.TrimSpace(strings.TrimPrefix(line, "GROUP =")),
			})
			current = &doc.Groups[len(doc.Groups)-1]
		case strings.HasPrefix(line, "END_GROUP"):
			current = nil
		case strings.Contains(line, "=") && current != nil:
			key, value, _ := strings.Cut(line, "=")
			current.Entries = append(current.Entries, Entry{
				Key:   strings.TrimSpace(key),
				Value: strings.Trim(strings.TrimSpace(value), `"`),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metadata file %s: %w", path, err)
	}

	return doc, nil
}

// WriteTabular saves the document as an aligned key/value text table, one
// section per GROUP.
func (d *Document) WriteTabular(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metadata output %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, group := range d.Groups {
		fmt.Fprintf(w, "### %s\n", group.Name)
		fmt.Fprintf(w, "%-40s %-60s\n", "Key", "Value")
		fmt.Fprintln(w, strings.Repeat("-", 100))
		for _, e := range group.Entries {
			fmt.Fprintf(w, "%-40s %-60s\n", e.Key, e.Value)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

type csvRow struct {
	Group string `csv:"group"`
	Key   string `csv:"key"`
	Value string `csv:"value"`
}

// WriteCSV saves the document as flat group/key/value rows.
func (d *Document) WriteCSV(path string) error {
	var rows []csvRow
	for _, group := range d.Groups {
		for _, e := range group.Entries {
			rows = append(rows, csvRow{Group: group.Name, Key: e.Key, Value: e.Value})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metadata CSV %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write metadata CSV %s: %w", path, err)
	}
	return nil
}

// ExtractScene locates a scene's MTL file, parses it, and writes
// <sceneId>_metadata.txt and <sceneId>_metadata.csv into outFolder. It
// returns the text file path.
func ExtractScene(scenes catalog.Scenes, sceneID, outFolder string) (string, error) {
	files, ok := scenes[sceneID]
	if !ok {
		return "", fmt.Errorf("scene not found: %s", sceneID)
	}

	mtlPath := ""
	for _, path := range files {
		if strings.HasSuffix(strings.ToLower(path), "_mtl.txt") {
			mtlPath = path
			break
		}
	}
	if mtlPath == "" {
		return "", fmt.Errorf("%w for scene %s", ErrNoMetadataFile, sceneID)
	}

	doc, err := ParseMTL(mtlPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outFolder, 0755); err != nil {
		return "", fmt.Errorf("failed to create output folder %s: %w", outFolder, err)
	}

	txtPath := filepath.Join(outFolder, sceneID+"_metadata.txt")
	if err := doc.WriteTabular(txtPath); err != nil {
		return "", err
	}
	if err := doc.WriteCSV(filepath.Join(outFolder, sceneID+"_metadata.csv")); err != nil {
		return "", err
	}

	return txtPath, nil
}
