package filters

import (
	"math"

	"dungeon-art-studio/internal/models"

	"github.com/samber/lo"
)

var sepiaMatrix = [3][3]float64{
	{0.393, 0.769, 0.189},
	{0.349, 0.686, 0.168},
	{0.272, 0.534, 0.131},
}

// Sepia applies the classic sepia tone matrix to every pixel. Row sums
// exceed one, so bright pixels saturate at 255.
func Sepia(buf *models.PixelBuffer) (*models.PixelBuffer, error) {
	rgb, err := buf.ToChannels(3)
	if err != nil {
		return nil, err
	}

	width, height := rgb.Width(), rgb.Height()
	out := make([]uint8, width*height*3)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := float64(rgb.At(x, y, 0))
			g := float64(rgb.At(x, y, 1))
			b := float64(rgb.At(x, y, 2))

			i := (y*width + x) * 3
			for c, row := range sepiaMatrix {
				v := row[0]*r + row[1]*g + row[2]*b
				// Truncation matches an unsigned 8-bit cast of the clipped value.
				out[i+c] = uint8(math.Floor(lo.Clamp(v, 0, 255)))
			}
		}
	}

	return models.WrapPixels(width, height, 3, out)
}
