package gui

import (
	"fmt"
	"os"

	"dungeon-art-studio/internal/logger"
	"dungeon-art-studio/internal/models"
	"dungeon-art-studio/internal/pipeline"
	"dungeon-art-studio/internal/processing/dither"

	"fyne.io/fyne/v2"
)

// Controller connects the view to the coordinator. Nothing here blocks the
// UI goroutine: loads and saves run on their own goroutines and renders
// report back through fyne.Do.
type Controller struct {
	view        *View
	coordinator *pipeline.Coordinator
	logger      logger.Logger
}

func NewController(coord *pipeline.Coordinator, log logger.Logger) *Controller {
	c := &Controller{
		coordinator: coord,
		logger:      log,
	}
	coord.SetRenderCallback(c.onRender)
	return c
}

func (c *Controller) SetView(view *View) {
	c.view = view
}

func (c *Controller) LoadImage() {
	c.view.ShowFileDialog(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			c.handleError("File selection error", err)
			return
		}
		if reader == nil {
			return
		}

		c.updateStatus("Loading image...")

		go func() {
			defer reader.Close()

			buf, loadErr := c.coordinator.LoadFromReader(reader, reader.URI().Path())

			fyne.Do(func() {
				if loadErr != nil {
					c.handleError("Image load error", loadErr)
					c.updateStatus("Ready")
					return
				}

				img := buf.ToImage()
				c.view.SetOriginalImage(img)
				c.view.SetProcessedImage(img)
				c.view.SetImageLoaded(true)
				c.updateStatus(fmt.Sprintf("Loaded %s (%dx%d)", reader.URI().Name(), buf.Width(), buf.Height()))
			})
		}()
	})
}

// ParametersChanged hands the snapshot over and returns at once. The
// coordinator debounces the render.
func (c *Controller) ParametersChanged(params models.ProcessingParameters) {
	c.coordinator.OnParameterChanged(params)
}

// ApplyEffects renders immediately, skipping the debounce.
func (c *Controller) ApplyEffects() {
	if c.coordinator.Source() == nil {
		c.handleError("Processing error", models.ErrNoImageLoaded)
		return
	}

	c.updateStatus("Applying effects...")
	go c.coordinator.ApplyNow()
}

func (c *Controller) SaveImage() {
	if c.coordinator.Result().FullBuffer() == nil {
		c.handleError("Save error", models.ErrNoImageLoaded)
		return
	}

	c.view.ShowSaveDialog(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			c.handleError("File save error", err)
			return
		}
		if writer == nil {
			return
		}

		requested := writer.URI().Path()
		writer.Close()

		c.updateStatus("Saving image...")

		go func() {
			saved, saveErr := c.coordinator.SaveImage(requested)
			if saved != requested {
				// The dialog already created an empty file under the bare name.
				os.Remove(requested)
			}

			fyne.Do(func() {
				if saveErr != nil {
					c.handleError("Image save error", saveErr)
					c.updateStatus("Save failed")
					return
				}
				c.updateStatus("Image saved")
				c.view.ShowInformation("Image saved", fmt.Sprintf("Saved to %s", saved))
			})
		}()
	})
}

func (c *Controller) onRender(kind models.RenderKind, output *models.RenderOutput) {
	if kind == models.RenderFull {
		fyne.Do(func() {
			c.updateStatus(fmt.Sprintf("Full resolution ready (%dx%d, %d ms)",
				output.Buffer.Width(), output.Buffer.Height(), output.Duration.Milliseconds()))
		})
		return
	}

	img := dither.ExpandForDisplay(output.Buffer).ToImage()
	fyne.Do(func() {
		c.view.SetProcessedImage(img)
		c.updateStatus(fmt.Sprintf("Preview updated (%s)", output.Parameters.Filter))
	})
}

// RefreshStats shows the coordinator counters in the toolbar.
func (c *Controller) RefreshStats() {
	stats := c.coordinator.Stats()
	text := fmt.Sprintf("renders: %d | avg full: %d ms", stats.FullRenders, stats.AverageFull.Milliseconds())
	fyne.Do(func() {
		c.view.SetStats(text)
	})
}

func (c *Controller) updateStatus(status string) {
	c.view.SetStatus(status)
}

func (c *Controller) handleError(title string, err error) {
	c.logger.Error("Controller", err, map[string]interface{}{
		"title": title,
	})
	c.view.ShowError(err)
}

func (c *Controller) Shutdown() {
	c.coordinator.SetRenderCallback(nil)
	c.logger.Info("Controller", "shutdown completed", nil)
}
