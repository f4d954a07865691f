// Package adjust applies the four parametric adjustments in their fixed
// order: brightness, contrast, pixelation, saturation.
package adjust

import (
	"math"

	"dungeon-art-studio/internal/models"
	"dungeon-art-studio/internal/processing/chain"
	"dungeon-art-studio/internal/processing/filters"

	"github.com/samber/lo"
)

// midGray is the pivot of the contrast adjustment.
const midGray = 128.0

// Stage is the adjustment step of the render pipeline.
type Stage struct {
	chain *chain.ProcessingChain
}

// NewStage builds the adjustment chain. The order matters: contrast and
// saturation react to the brightness scaling before them.
func NewStage(resampler filters.Resampler) *Stage {
	return &Stage{
		chain: chain.NewProcessingChain(
			brightnessStep{},
			contrastStep{},
			&pixelationStep{resampler: resampler},
			saturationStep{},
		),
	}
}

// Apply returns the adjusted buffer. Parameters are clamped into range; a
// failing step leaves its input in place and is reported in the error.
func (s *Stage) Apply(buf *models.PixelBuffer, params models.ProcessingParameters) (*models.PixelBuffer, error) {
	return s.chain.Execute(buf, params.Clamped())
}

// StepNames lists the steps in execution order.
func (s *Stage) StepNames() []string {
	return s.chain.GetStepNames()
}

type brightnessStep struct{}

func (brightnessStep) Name() string { return "brightness" }

func (brightnessStep) ShouldExecute(p models.ProcessingParameters) bool {
	return p.Brightness != 1.0
}

func (brightnessStep) Apply(in *models.PixelBuffer, p models.ProcessingParameters) (*models.PixelBuffer, error) {
	return applyLUT(in, buildLUT(func(v float64) float64 {
		return v * p.Brightness
	}))
}

type contrastStep struct{}

func (contrastStep) Name() string { return "contrast" }

func (contrastStep) ShouldExecute(p models.ProcessingParameters) bool {
	return p.Contrast != 1.0
}

func (contrastStep) Apply(in *models.PixelBuffer, p models.ProcessingParameters) (*models.PixelBuffer, error) {
	return applyLUT(in, buildLUT(func(v float64) float64 {
		return midGray + (v-midGray)*p.Contrast
	}))
}

// buildLUT tabulates fn over every 8-bit input, rounded and clamped.
func buildLUT(fn func(float64) float64) *[256]uint8 {
	var lut [256]uint8
	for i := range lut {
		lut[i] = clampChannel(fn(float64(i)))
	}
	return &lut
}

func applyLUT(in *models.PixelBuffer, lut *[256]uint8) (*models.PixelBuffer, error) {
	pix := in.Pix()
	for i, v := range pix {
		pix[i] = lut[v]
	}
	return models.WrapPixels(in.Width(), in.Height(), in.Channels(), pix)
}

func clampChannel(v float64) uint8 {
	return uint8(lo.Clamp(math.Round(v), 0, 255))
}
