package adjust

import (
	"dungeon-art-studio/internal/models"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// saturationStep blends every pixel between its luminance gray and its
// colour: factor 0 is grayscale, 1 the original, above 1 oversaturated.
type saturationStep struct{}

func (saturationStep) Name() string { return "saturation" }

func (saturationStep) ShouldExecute(p models.ProcessingParameters) bool {
	return p.Saturation != 1.0
}

func (saturationStep) Apply(in *models.PixelBuffer, p models.ProcessingParameters) (*models.PixelBuffer, error) {
	// A gray image is its own luminance.
	if in.Channels() == 1 {
		return in, nil
	}

	pix := in.Pix()
	for i := 0; i < len(pix); i += 3 {
		r, g, b := pix[i], pix[i+1], pix[i+2]
		l := float64(models.Luminance(r, g, b)) / 255.0

		gray := colorful.Color{R: l, G: l, B: l}
		orig := colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}

		pix[i], pix[i+1], pix[i+2] = gray.BlendRgb(orig, p.Saturation).Clamped().RGB255()
	}

	return models.WrapPixels(in.Width(), in.Height(), 3, pix)
}
