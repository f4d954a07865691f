package dither

import (
	"runtime"

	"dungeon-art-studio/internal/models"

	"golang.org/x/sync/errgroup"
)

// thresholdMatrix is tiled across the image; pixel (x, y) is compared
// against thresholdMatrix[y%2][x%2].
var thresholdMatrix = [2][2]uint8{
	{0, 128},
	{192, 64},
}

// Threshold returns the ordered-dither threshold for pixel (x, y).
func Threshold(x, y int) uint8 {
	return thresholdMatrix[y&1][x&1]
}

// Pattern applies ordered dithering to the luminance of buf. A pixel below
// its threshold becomes 0, anything else (ties included) 255. Rows do not
// depend on each other and are processed concurrently in bands.
func Pattern(buf *models.PixelBuffer) *models.PixelBuffer {
	lum := buf.Luminance()
	width, height := lum.Width(), lum.Height()
	out := make([]uint8, width*height)

	workers := runtime.GOMAXPROCS(0)
	band := (height + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < height; start += band {
		start := start
		end := min(start+band, height)
		g.Go(func() error {
			for y := start; y < end; y++ {
				row := out[y*width : (y+1)*width]
				for x := range row {
					if lum.At(x, y, 0) >= Threshold(x, y) {
						row[x] = 255
					}
				}
			}
			return nil
		})
	}
	// Bands never fail; Wait only joins them.
	_ = g.Wait()

	return models.MustWrapPixels(width, height, 1, out)
}

// ExpandForDisplay replicates a dithered single-channel result into three
// identical channels.
func ExpandForDisplay(buf *models.PixelBuffer) *models.PixelBuffer {
	rgb, err := buf.ToChannels(3)
	if err != nil {
		return buf
	}
	return rgb
}
