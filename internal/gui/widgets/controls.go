package widgets

import (
	"fmt"

	"dungeon-art-studio/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Controls holds the four adjustment sliders and the filter selector. Every
// change is reported as a full parameter snapshot.
type Controls struct {
	container *fyne.Container

	brightness *labeledSlider
	contrast   *labeledSlider
	pixelation *labeledSlider
	saturation *labeledSlider
	filter     *widget.Select

	changeHandler func(models.ProcessingParameters)
}

type labeledSlider struct {
	slider *widget.Slider
	value  *widget.Label
	format string
}

func newLabeledSlider(low, high, step, initial float64, format string, onChanged func()) *labeledSlider {
	ls := &labeledSlider{
		slider: widget.NewSlider(low, high),
		value:  widget.NewLabel(fmt.Sprintf(format, initial)),
		format: format,
	}
	ls.slider.Step = step
	ls.slider.Value = initial
	ls.slider.OnChanged = func(v float64) {
		ls.value.SetText(fmt.Sprintf(ls.format, v))
		onChanged()
	}
	return ls
}

func (ls *labeledSlider) row(title string) fyne.CanvasObject {
	return container.NewBorder(nil, nil, widget.NewLabel(title), ls.value, ls.slider)
}

func NewControls() *Controls {
	defaults := models.DefaultParameters()
	c := &Controls{}

	c.brightness = newLabeledSlider(models.MinBrightness, models.MaxBrightness, 0.1, defaults.Brightness, "%.1f", c.notify)
	c.contrast = newLabeledSlider(models.MinContrast, models.MaxContrast, 0.1, defaults.Contrast, "%.1f", c.notify)
	c.pixelation = newLabeledSlider(models.MinPixelation, models.MaxPixelation, 1, float64(defaults.Pixelation), "%.0f", c.notify)
	c.saturation = newLabeledSlider(models.MinSaturation, models.MaxSaturation, 0.1, defaults.Saturation, "%.1f", c.notify)

	c.filter = widget.NewSelect(models.FilterNames(), func(string) { c.notify() })
	c.filter.Selected = defaults.Filter.String()

	c.container = container.NewVBox(
		c.brightness.row("Brightness"),
		c.contrast.row("Contrast"),
		c.pixelation.row("Pixelation"),
		c.saturation.row("Saturation"),
		container.NewBorder(nil, nil, widget.NewLabel("Filter"), nil, c.filter),
	)

	return c
}

func (c *Controls) GetContainer() *fyne.Container {
	return c.container
}

func (c *Controls) SetChangeHandler(handler func(models.ProcessingParameters)) {
	c.changeHandler = handler
}

// Parameters reads the current control positions.
func (c *Controls) Parameters() models.ProcessingParameters {
	filter, ok := models.ParseFilterKind(c.filter.Selected)
	if !ok {
		filter = models.FilterNone
	}

	return models.ProcessingParameters{
		Brightness: c.brightness.slider.Value,
		Contrast:   c.contrast.slider.Value,
		Pixelation: int(c.pixelation.slider.Value),
		Saturation: c.saturation.slider.Value,
		Filter:     filter,
	}
}

func (c *Controls) notify() {
	if c.changeHandler != nil {
		c.changeHandler(c.Parameters())
	}
}
