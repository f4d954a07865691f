// Package opencv implements the generic image operations on top of gocv.
package opencv

import (
	"fmt"
	"image"

	"dungeon-art-studio/internal/models"
	"dungeon-art-studio/internal/processing/filters"

	"gocv.io/x/gocv"
)

// Backend runs Operations through OpenCV. Mats never outlive a call.
type Backend struct {
	tracker matTracker
}

func NewBackend() *Backend {
	return &Backend{}
}

var _ filters.Operations = (*Backend)(nil)

func (*Backend) Name() string {
	return "opencv"
}

func (b *Backend) Stats() MatStats {
	return b.tracker.stats()
}

// apply converts buf to a Mat, runs op into a fresh destination and
// converts the result back. An op that fails leaves dst empty, which
// fromMat reports.
func (b *Backend) apply(buf *models.PixelBuffer, op func(src gocv.Mat, dst *gocv.Mat)) (*models.PixelBuffer, error) {
	src, err := b.tracker.toMat(buf)
	if err != nil {
		return nil, err
	}
	defer b.tracker.release(&src)

	dst := b.tracker.newMat()
	defer b.tracker.release(&dst)

	op(src, &dst)
	return fromMat(dst)
}

func (b *Backend) Invert(buf *models.PixelBuffer) (*models.PixelBuffer, error) {
	return b.apply(buf, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.BitwiseNot(src, dst)
	})
}

func (b *Backend) GaussianBlur(buf *models.PixelBuffer, radius float64) (*models.PixelBuffer, error) {
	if radius <= 0 {
		return buf, nil
	}
	return b.apply(buf, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.GaussianBlur(src, dst, image.Pt(0, 0), radius, radius, gocv.BorderReflect101)
	})
}

func (b *Backend) Contour(buf *models.PixelBuffer) (*models.PixelBuffer, error) {
	kernel := b.tracker.track(gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F))
	defer b.tracker.release(&kernel)

	for i, v := range filters.ContourKernel {
		kernel.SetFloatAt(i/3, i%3, float32(v))
	}

	return b.apply(buf, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.Filter2D(src, dst, -1, kernel, image.Pt(-1, -1), filters.ContourOffset, gocv.BorderReflect101)
	})
}

// Grayscale always answers with three identical channels, like the other
// backend, so the filter output shape does not depend on the backend.
func (b *Backend) Grayscale(buf *models.PixelBuffer) (*models.PixelBuffer, error) {
	return b.apply(buf, func(src gocv.Mat, dst *gocv.Mat) {
		if src.Channels() == 1 {
			gocv.CvtColor(src, dst, gocv.ColorGrayToRGB)
			return
		}

		gray := b.tracker.newMat()
		defer b.tracker.release(&gray)

		gocv.CvtColor(src, &gray, gocv.ColorRGBToGray)
		gocv.CvtColor(gray, dst, gocv.ColorGrayToRGB)
	})
}

func (b *Backend) Resample(buf *models.PixelBuffer, width, height int, mode models.ResampleMode) (*models.PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target dimensions: %dx%d", width, height)
	}

	var interp gocv.InterpolationFlags
	switch mode {
	case models.ResampleNearest:
		interp = gocv.InterpolationNearestNeighbor
	case models.ResampleHighQuality:
		interp = gocv.InterpolationLanczos4
	default:
		return nil, fmt.Errorf("unsupported resample mode: %v", mode)
	}

	if width == buf.Width() && height == buf.Height() {
		return buf, nil
	}

	return b.apply(buf, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.Resize(src, dst, image.Pt(width, height), 0, 0, interp)
	})
}
