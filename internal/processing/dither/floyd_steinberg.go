// Package dither reduces images to pure black and white, either by
// Floyd-Steinberg error diffusion or by a tiled 2x2 threshold pattern.
package dither

import "dungeon-art-studio/internal/models"

// Floyd-Steinberg weights for the four not-yet-visited neighbours.
const (
	weightRight      = 7.0 / 16.0
	weightBelowLeft  = 3.0 / 16.0
	weightBelow      = 5.0 / 16.0
	weightBelowRight = 1.0 / 16.0
)

// errorAccumulator holds quantization error pushed forward by pixels that
// were already visited. It is padded by one column on both sides and one row
// below so that diffusion never needs a bounds check; anything landing in
// the padding is dropped.
type errorAccumulator struct {
	stride int
	cells  []float64
}

func newErrorAccumulator(width, height int) *errorAccumulator {
	stride := width + 2
	return &errorAccumulator{
		stride: stride,
		cells:  make([]float64, (height+1)*stride),
	}
}

func (a *errorAccumulator) at(x, y int) float64 {
	return a.cells[y*a.stride+x+1]
}

func (a *errorAccumulator) add(x, y int, v float64) {
	a.cells[y*a.stride+x+1] += v
}

func (a *errorAccumulator) diffuse(x, y int, quantErr float64) {
	a.add(x+1, y, quantErr*weightRight)
	a.add(x-1, y+1, quantErr*weightBelowLeft)
	a.add(x, y+1, quantErr*weightBelow)
	a.add(x+1, y+1, quantErr*weightBelowRight)
}

// FloydSteinberg dithers the luminance of buf to a single-channel 0/255
// image of the same size. Pixels are visited once each in raster order.
func FloydSteinberg(buf *models.PixelBuffer) *models.PixelBuffer {
	lum := buf.Luminance()
	width, height := lum.Width(), lum.Height()

	acc := newErrorAccumulator(width, height)
	out := make([]uint8, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			old := float64(lum.At(x, y, 0))/255.0 + acc.at(x, y)

			quantized := quantize(old)
			if quantized == 1 {
				out[y*width+x] = 255
			}

			acc.diffuse(x, y, old-quantized)
		}
	}

	return models.MustWrapPixels(width, height, 1, out)
}

// quantize picks the nearest of {0, 1}. An exact 0.5 rounds to the even
// neighbour, 0.
func quantize(v float64) float64 {
	if v > 0.5 {
		return 1
	}
	return 0
}
