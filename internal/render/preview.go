// Package render produces quick-look preview images of decoded grids:
// values are min/max stretched to 8-bit grayscale, with dummy cells
// rendered black.
package render

import (
	"image"
	"math"

	"github.com/evoconv/grd2geoscience/internal/grd"
)

// dummyThreshold separates real values from the NaN sentinels, which
// sit near -1e32.
const dummyThreshold = -9e31

// Image renders the grid as a grayscale image, one pixel per cell.
// Rows are drawn top-down in storage order.
func Image(g *grd.Grid) *image.Gray {
	rows := len(g.Data)
	cols := 0
	if rows > 0 {
		cols = len(g.Data[0])
	}
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	if rows == 0 || cols == 0 {
		return img
	}

	lo, hi := valueRange(g)
	span := hi - lo
	if span == 0 {
		span = 1
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := g.Data[r][c]
			if v <= dummyThreshold || math.IsNaN(v) {
				continue // stays black
			}
			level := (v - lo) / span * 255
			img.Pix[r*img.Stride+c] = uint8(clamp(level, 0, 255))
		}
	}
	return img
}

// valueRange finds the min and max over non-dummy cells.
func valueRange(g *grd.Grid) (lo, hi float64) {
	lo = math.Inf(1)
	hi = math.Inf(-1)
	for _, row := range g.Data {
		for _, v := range row {
			if v <= dummyThreshold || math.IsNaN(v) {
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
