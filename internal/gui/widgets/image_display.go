package widgets

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	ImagePaneWidth  = 400
	ImagePaneHeight = 400
)

// ImageDisplay shows the source and the processed image side by side, each
// scaled to fit its pane.
type ImageDisplay struct {
	container      *fyne.Container
	originalImage  *canvas.Image
	processedImage *canvas.Image
}

func NewImageDisplay() *ImageDisplay {
	originalImage := newPaneImage()
	processedImage := newPaneImage()

	originalPane := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Original**"), nil, nil, nil,
		originalImage,
	)
	processedPane := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Processed**"), nil, nil, nil,
		processedImage,
	)

	return &ImageDisplay{
		container:      container.NewGridWithColumns(2, originalPane, processedPane),
		originalImage:  originalImage,
		processedImage: processedImage,
	}
}

func newPaneImage() *canvas.Image {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScalePixels
	img.SetMinSize(fyne.NewSize(ImagePaneWidth, ImagePaneHeight))
	return img
}

func (id *ImageDisplay) GetContainer() *fyne.Container {
	return id.container
}

func (id *ImageDisplay) SetOriginalImage(img image.Image) {
	if img == nil {
		return
	}
	id.originalImage.Image = img
	id.originalImage.Refresh()
}

func (id *ImageDisplay) SetProcessedImage(img image.Image) {
	if img == nil {
		return
	}
	id.processedImage.Image = img
	id.processedImage.Refresh()
}

func (id *ImageDisplay) ProcessedImage() image.Image {
	return id.processedImage.Image
}
