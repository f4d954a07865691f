package filters

import "dungeon-art-studio/internal/models"

// BlurRadius is the fixed Gaussian radius of the Blur filter.
const BlurRadius = 5.0

// Resampler resizes a buffer. It backs pixelation and preview scaling.
type Resampler interface {
	Resample(buf *models.PixelBuffer, width, height int, mode models.ResampleMode) (*models.PixelBuffer, error)
}

// Operations are the generic filters delegated to an image library.
// Implementations must not modify their input and should keep the channel
// count, except Grayscale which always returns three identical channels.
type Operations interface {
	Resampler
	Invert(buf *models.PixelBuffer) (*models.PixelBuffer, error)
	GaussianBlur(buf *models.PixelBuffer, radius float64) (*models.PixelBuffer, error)
	Contour(buf *models.PixelBuffer) (*models.PixelBuffer, error)
	Grayscale(buf *models.PixelBuffer) (*models.PixelBuffer, error)
	Name() string
}

// ContourKernel is the 3x3 edge kernel of the Contour filter; results are
// offset by ContourOffset so flat areas come out white.
var ContourKernel = [9]float64{
	-1, -1, -1,
	-1, 8, -1,
	-1, -1, -1,
}

const ContourOffset = 255.0
