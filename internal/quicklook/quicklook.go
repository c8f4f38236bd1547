// Package quicklook renders index grids as PNG previews.
package quicklook

import (
	"errors"
	"fmt"

	"github.com/fogleman/gg"
)

// Render saves a PNG visualization of an index grid using a diverging
// brown-to-green ramp over [-1, 1]. Values outside the range are clamped.
func Render(grid [][]float32, outPath string) error {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return errors.New("empty grid")
	}

	height := len(grid)
	width := len(grid[0])

	dc := gg.NewContext(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width && x < len(grid[y]); x++ {
			r, g, b := rampColor(grid[y][x])
			dc.SetRGB(r, g, b)
			dc.SetPixel(x, y)
		}
	}

	if err := dc.SavePNG(outPath); err != nil {
		return fmt.Errorf("failed to save quicklook %s: %w", outPath, err)
	}
	return nil
}

// rampColor maps an index value to RGB: -1 renders brown, 0 pale, +1 green.
func rampColor(v float32) (float64, float64, float64) {
	t := (float64(v) + 1) / 2
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return 0.65 * (1 - t), 0.45*(1-t) + 0.65*t, 0.25 * (1 - t)
}
