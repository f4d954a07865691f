// Package ops implements the generic image operations on top of
// github.com/disintegration/imaging, in pure Go.
package ops

import (
	"fmt"
	"image"

	"dungeon-art-studio/internal/models"
	"dungeon-art-studio/internal/processing/filters"

	"github.com/disintegration/imaging"
)

// Imaging is the default Operations backend.
type Imaging struct{}

func NewImaging() *Imaging {
	return &Imaging{}
}

var _ filters.Operations = (*Imaging)(nil)

func (*Imaging) Name() string {
	return "imaging"
}

func (*Imaging) Invert(buf *models.PixelBuffer) (*models.PixelBuffer, error) {
	return fromNRGBA(imaging.Invert(buf.ToImage()), buf.Channels())
}

func (*Imaging) GaussianBlur(buf *models.PixelBuffer, radius float64) (*models.PixelBuffer, error) {
	if radius <= 0 {
		return buf, nil
	}
	return fromNRGBA(imaging.Blur(buf.ToImage(), radius), buf.Channels())
}

func (*Imaging) Contour(buf *models.PixelBuffer) (*models.PixelBuffer, error) {
	out := imaging.Convolve3x3(buf.ToImage(), filters.ContourKernel, &imaging.ConvolveOptions{
		Bias: int(filters.ContourOffset),
	})
	return fromNRGBA(out, buf.Channels())
}

func (*Imaging) Grayscale(buf *models.PixelBuffer) (*models.PixelBuffer, error) {
	return fromNRGBA(imaging.Grayscale(buf.ToImage()), 3)
}

func (*Imaging) Resample(buf *models.PixelBuffer, width, height int, mode models.ResampleMode) (*models.PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid resample target: %dx%d", width, height)
	}
	if width == buf.Width() && height == buf.Height() {
		return buf, nil
	}

	var filter imaging.ResampleFilter
	switch mode {
	case models.ResampleNearest:
		filter = imaging.NearestNeighbor
	case models.ResampleHighQuality:
		filter = imaging.Lanczos
	default:
		return nil, fmt.Errorf("unsupported resample mode: %s", mode)
	}

	return fromNRGBA(imaging.Resize(buf.ToImage(), width, height, filter), buf.Channels())
}

func fromNRGBA(img *image.NRGBA, channels int) (*models.PixelBuffer, error) {
	buf, err := models.FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert imaging result: %w", err)
	}
	return buf.ToChannels(channels)
}
