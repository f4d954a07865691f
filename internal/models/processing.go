package models

import (
	"fmt"

	"github.com/samber/lo"
)

// FilterKind selects the stylistic filter applied after the adjustments.
type FilterKind int

const (
	// FilterNone passes the adjusted image through untouched.
	FilterNone FilterKind = iota
	FilterFloydSteinberg
	FilterPatternDither
	FilterSepia
	FilterInvert
	FilterBlur
	FilterContour
	FilterGrayscale
)

var filterNames = map[FilterKind]string{
	FilterFloydSteinberg: "Dithering - Floyd-Steinberg",
	FilterPatternDither:  "Dithering - Pattern",
	FilterSepia:          "Sepia",
	FilterInvert:         "Invert",
	FilterBlur:           "Blur",
	FilterContour:        "Contour",
	FilterGrayscale:      "Grayscale",
}

// SelectableFilters lists the filters in selector order.
var SelectableFilters = []FilterKind{
	FilterFloydSteinberg,
	FilterPatternDither,
	FilterSepia,
	FilterInvert,
	FilterBlur,
	FilterContour,
	FilterGrayscale,
}

func (k FilterKind) String() string {
	if name, ok := filterNames[k]; ok {
		return name
	}
	if k == FilterNone {
		return "None"
	}
	return fmt.Sprintf("FilterKind(%d)", int(k))
}

// FilterNames returns the display names in selector order.
func FilterNames() []string {
	return lo.Map(SelectableFilters, func(k FilterKind, _ int) string {
		return k.String()
	})
}

// ParseFilterKind maps a display name back to its kind. Unrecognised names
// yield FilterNone and false.
func ParseFilterKind(name string) (FilterKind, bool) {
	return lo.FindKey(filterNames, name)
}

// Soft ranges of the four controls.
const (
	MinBrightness = 0.1
	MaxBrightness = 3.0
	MinContrast   = 0.1
	MaxContrast   = 3.0
	MinPixelation = 0
	MaxPixelation = 50
	MinSaturation = 0.0
	MaxSaturation = 2.0
)

// ProcessingParameters is one consistent snapshot of the editor controls.
type ProcessingParameters struct {
	Brightness float64
	Contrast   float64
	Pixelation int
	Saturation float64
	Filter     FilterKind
}

// DefaultParameters matches the controls' initial positions.
func DefaultParameters() ProcessingParameters {
	return ProcessingParameters{
		Brightness: 1.0,
		Contrast:   1.0,
		Pixelation: 0,
		Saturation: 1.0,
		Filter:     FilterFloydSteinberg,
	}
}

// Clamped pulls every control into its range. Out-of-range values are
// never rejected.
func (p ProcessingParameters) Clamped() ProcessingParameters {
	p.Brightness = lo.Clamp(p.Brightness, MinBrightness, MaxBrightness)
	p.Contrast = lo.Clamp(p.Contrast, MinContrast, MaxContrast)
	p.Pixelation = lo.Clamp(p.Pixelation, MinPixelation, MaxPixelation)
	p.Saturation = lo.Clamp(p.Saturation, MinSaturation, MaxSaturation)
	return p
}

// Fields renders the snapshot as logger fields.
func (p ProcessingParameters) Fields() map[string]interface{} {
	return map[string]interface{}{
		"brightness": p.Brightness,
		"contrast":   p.Contrast,
		"pixelation": p.Pixelation,
		"saturation": p.Saturation,
		"filter":     p.Filter.String(),
	}
}

// ResampleMode picks the interpolation used by the external resampler.
type ResampleMode int

const (
	ResampleNearest ResampleMode = iota
	ResampleHighQuality
)

func (m ResampleMode) String() string {
	switch m {
	case ResampleNearest:
		return "nearest"
	case ResampleHighQuality:
		return "high_quality"
	default:
		return fmt.Sprintf("ResampleMode(%d)", int(m))
	}
}
