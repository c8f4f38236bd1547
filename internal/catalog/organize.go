package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Organize copies every recognized file from inputFolder into
// <outputFolder>/<SATELLITE>/<sceneID>/. Unrecognized files are skipped with
// a diagnostic; a copy failure skips that file and the batch continues.
func Organize(inputFolder, outputFolder string) ([]Skip, error) {
	entries, err := os.ReadDir(inputFolder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, inputFolder)
		}
		return nil, fmt.Errorf("failed to list input folder %s: %w", inputFolder, err)
	}

	var skips []Skip
	copied := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		satellite := Classify(name)
		if satellite == Unknown {
			skips = append(skips, Skip{Path: name, Reason: "unrecognized satellite type"})
			continue
		}

		sceneFolder := filepath.Join(outputFolder, strings.ToUpper(satellite.String()), SceneID(name))
		if err := os.MkdirAll(sceneFolder, 0755); err != nil {
			return skips, fmt.Errorf("failed to create scene folder %s: %w", sceneFolder, err)
		}

		src := filepath.Join(inputFolder, name)
		dst := filepath.Join(sceneFolder, name)
		if err := copyFile(src, dst); err != nil {
			skips = append(skips, Skip{Path: src, Reason: err.Error()})
			continue
		}
		copied++
	}

	if copied == 0 {
		return skips, fmt.Errorf("no valid satellite files found in %s", inputFolder)
	}
	return skips, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
