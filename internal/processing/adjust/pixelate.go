package adjust

import (
	"fmt"

	"dungeon-art-studio/internal/models"
	"dungeon-art-studio/internal/processing/filters"
)

// pixelationStep shrinks the image by the block size with nearest-neighbour
// sampling and blows it back up the same way, giving a mosaic. Sizes that
// are not multiples of the block size leave the border blocks stretched.
type pixelationStep struct {
	resampler filters.Resampler
}

func (*pixelationStep) Name() string { return "pixelation" }

func (*pixelationStep) ShouldExecute(p models.ProcessingParameters) bool {
	return p.Pixelation > 1
}

func (s *pixelationStep) Apply(in *models.PixelBuffer, p models.ProcessingParameters) (*models.PixelBuffer, error) {
	if s.resampler == nil {
		return nil, fmt.Errorf("no resampler configured")
	}

	width, height := in.Width(), in.Height()
	smallW := max(1, width/p.Pixelation)
	smallH := max(1, height/p.Pixelation)

	small, err := s.resampler.Resample(in, smallW, smallH, models.ResampleNearest)
	if err != nil {
		return nil, fmt.Errorf("downsample to %dx%d: %w", smallW, smallH, err)
	}

	out, err := s.resampler.Resample(small, width, height, models.ResampleNearest)
	if err != nil {
		return nil, fmt.Errorf("upsample to %dx%d: %w", width, height, err)
	}

	return out, nil
}
