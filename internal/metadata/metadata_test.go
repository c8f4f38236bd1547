package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/geoharvest/landsat-toolkit/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMTL = `GROUP = LANDSAT_METADATA_FILE
  GROUP = PRODUCT_CONTENTS
    ORIGIN = "Image courtesy of the U.S. Geological Survey"
    LANDSAT_PRODUCT_ID = "LC08_L2SP_192029_20240716_20240722_02_T1"
    PROCESSING_LEVEL = L2SP
  END_GROUP = PRODUCT_CONTENTS
  GROUP = IMAGE_ATTRIBUTES
    SPACECRAFT_ID = "LANDSAT_8"
    CLOUD_COVER = 12.47
  END_GROUP = IMAGE_ATTRIBUTES
END_GROUP = LANDSAT_METADATA_FILE
END
`

func writeSampleMTL(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "LC08_L2SP_192029_20240716_20240722_02_T1_MTL.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleMTL), 0644))
	return path
}

func TestParseMTL(t *testing.T) {
	doc, err := ParseMTL(writeSampleMTL(t))
	require.NoError(t, err)

	require.Len(t, doc.Groups, 3)
	assert.Equal(t, "LANDSAT_METADATA_FILE", doc.Groups[0].Name)

	contents := doc.Groups[1]
	assert.Equal(t, "PRODUCT_CONTENTS", contents.Name)
	require.Len(t, contents.Entries, 3)
	assert.Equal(t, Entry{Key: "ORIGIN", Value: "Image courtesy of the U.S. Geological Survey"}, contents.Entries[0])
	assert.Equal(t, Entry{Key: "PROCESSING_LEVEL", Value: "L2SP"}, contents.Entries[2])

	attrs := doc.Groups[2]
	assert.Equal(t, "IMAGE_ATTRIBUTES", attrs.Name)
	assert.Equal(t, Entry{Key: "CLOUD_COVER", Value: "12.47"}, attrs.Entries[1])
}

func TestParseMTLMissingFile(t *testing.T) {
	_, err := ParseMTL(filepath.Join(t.TempDir(), "nope_MTL.txt"))
	assert.Error(t, err)
}

func TestWriteTabular(t *testing.T) {
	doc, err := ParseMTL(writeSampleMTL(t))
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, doc.WriteTabular(outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "### PRODUCT_CONTENTS")
	assert.Contains(t, text, "### IMAGE_ATTRIBUTES")
	assert.Contains(t, text, "SPACECRAFT_ID")
	assert.Contains(t, text, "LANDSAT_8")
	assert.Contains(t, text, strings.Repeat("-", 100))
}

func TestWriteCSV(t *testing.T) {
	doc, err := ParseMTL(writeSampleMTL(t))
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, doc.WriteCSV(outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	assert.Equal(t, "group,key,value", lines[0])
	// 5 entries across the groups.
	assert.Len(t, lines, 6)
	assert.Contains(t, string(data), "IMAGE_ATTRIBUTES,CLOUD_COVER,12.47")
}

func TestExtractScene(t *testing.T) {
	mtlPath := writeSampleMTL(t)
	outFolder := filepath.Join(t.TempDir(), "metadata_out")
	sceneID := "LC08_L2SP_192029_20240716_20240722_02_T1"
	scenes := catalog.Scenes{
		sceneID: {"/in/" + sceneID + "_SR_B4.TIF", mtlPath},
	}

	txtPath, err := ExtractScene(scenes, sceneID, outFolder)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outFolder, sceneID+"_metadata.txt"), txtPath)
	_, err = os.Stat(txtPath)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(outFolder, sceneID+"_metadata.csv"))
	assert.NoError(t, err)
}

func TestExtractSceneNoMetadataFile(t *testing.T) {
	scenes := catalog.Scenes{"LC08_scene": {"/in/LC08_scene_SR_B4.TIF"}}

	_, err := ExtractScene(scenes, "LC08_scene", t.TempDir())
	assert.ErrorIs(t, err, ErrNoMetadataFile)
}
