package raster

import (
	"os"

	"github.com/geoharvest/landsat-toolkit/internal/cache"
)

// CachedReader memoizes Georef lookups on disk, keyed by path, size and
// mtime. The footprint and merge paths read the same headers the stack
// builder already opened; pixel reads always pass through.
type CachedReader struct {
	inner   Reader
	georefs *cache.FileCache[Georef]
}

func NewCachedReader(inner Reader) *CachedReader {
	return &CachedReader{
		inner:   inner,
		georefs: cache.NewFileCache[Georef]("georef"),
	}
}

func (c *CachedReader) Georef(path string) (Georef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return c.inner.Georef(path)
	}

	key := c.georefs.GenerateKey(path, info.Size(), info.ModTime().UnixNano())
	if ref, ok := c.georefs.Get(key); ok {
		return ref, nil
	}

	ref, err := c.inner.Georef(path)
	if err != nil {
		return Georef{}, err
	}
	// A cache write failure only costs a re-read next time.
	_ = c.georefs.Set(key, ref)
	return ref, nil
}

func (c *CachedReader) ReadBand(path string, band int) ([][]float64, error) {
	return c.inner.ReadBand(path, band)
}
