package filters

import (
	"fmt"

	"dungeon-art-studio/internal/models"
	"dungeon-art-studio/internal/processing/chain"
	"dungeon-art-studio/internal/processing/dither"
)

// Selector dispatches a FilterKind to its implementation. Dithering and
// sepia run in-process; the rest go to the configured Operations backend.
type Selector struct {
	ops Operations
}

func NewSelector(ops Operations) *Selector {
	return &Selector{ops: ops}
}

// Apply runs the selected filter. It always returns a usable buffer: a
// failing filter yields its input together with a ProcessingError, and an
// unrecognised kind passes the input through without error.
func (s *Selector) Apply(buf *models.PixelBuffer, kind models.FilterKind) (*models.PixelBuffer, error) {
	fn := s.lookup(kind)
	if fn == nil {
		return buf, nil
	}
	return chain.Run(stageName(kind), buf, fn)
}

func (s *Selector) lookup(kind models.FilterKind) func(*models.PixelBuffer) (*models.PixelBuffer, error) {
	switch kind {
	case models.FilterFloydSteinberg:
		return func(in *models.PixelBuffer) (*models.PixelBuffer, error) {
			return dither.FloydSteinberg(in), nil
		}
	case models.FilterPatternDither:
		return func(in *models.PixelBuffer) (*models.PixelBuffer, error) {
			return dither.Pattern(in), nil
		}
	case models.FilterSepia:
		return Sepia
	case models.FilterInvert:
		return s.external(func(ops Operations, in *models.PixelBuffer) (*models.PixelBuffer, error) {
			return ops.Invert(in)
		})
	case models.FilterBlur:
		return s.external(func(ops Operations, in *models.PixelBuffer) (*models.PixelBuffer, error) {
			return ops.GaussianBlur(in, BlurRadius)
		})
	case models.FilterContour:
		return s.external(func(ops Operations, in *models.PixelBuffer) (*models.PixelBuffer, error) {
			return ops.Contour(in)
		})
	case models.FilterGrayscale:
		return s.external(func(ops Operations, in *models.PixelBuffer) (*models.PixelBuffer, error) {
			return ops.Grayscale(in)
		})
	default:
		return nil
	}
}

func (s *Selector) external(fn func(Operations, *models.PixelBuffer) (*models.PixelBuffer, error)) func(*models.PixelBuffer) (*models.PixelBuffer, error) {
	return func(in *models.PixelBuffer) (*models.PixelBuffer, error) {
		if s.ops == nil {
			return nil, fmt.Errorf("no image operations backend configured")
		}
		return fn(s.ops, in)
	}
}

// Names lists the selectable filters in display order.
func (s *Selector) Names() []string {
	return models.FilterNames()
}

func stageName(kind models.FilterKind) string {
	return "filter:" + kind.String()
}
