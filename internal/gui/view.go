package gui

import (
	"image"

	"dungeon-art-studio/internal/gui/widgets"
	"dungeon-art-studio/internal/pipeline"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// View owns the widgets and the window. All methods must run on the UI
// goroutine.
type View struct {
	window     fyne.Window
	controller *Controller

	toolbar       *widgets.Toolbar
	imageDisplay  *widgets.ImageDisplay
	controls      *widgets.Controls
	mainContainer *fyne.Container
}

func NewView(window fyne.Window) *View {
	view := &View{
		window: window,
	}

	view.setupComponents()
	view.setupLayout()

	return view
}

func (v *View) SetController(controller *Controller) {
	v.controller = controller
	v.setupEventHandlers()
}

func (v *View) setupComponents() {
	v.toolbar = widgets.NewToolbar()
	v.imageDisplay = widgets.NewImageDisplay()
	v.controls = widgets.NewControls()
}

func (v *View) setupLayout() {
	v.mainContainer = container.NewBorder(
		v.toolbar.GetContainer(),
		v.controls.GetContainer(),
		nil, nil,
		v.imageDisplay.GetContainer(),
	)
}

func (v *View) setupEventHandlers() {
	if v.controller == nil {
		return
	}

	v.toolbar.SetLoadHandler(v.controller.LoadImage)
	v.toolbar.SetApplyHandler(v.controller.ApplyEffects)
	v.toolbar.SetSaveHandler(v.controller.SaveImage)
	v.controls.SetChangeHandler(v.controller.ParametersChanged)
}

func (v *View) GetMainContainer() *fyne.Container {
	return v.mainContainer
}

func (v *View) SetOriginalImage(img image.Image) {
	v.imageDisplay.SetOriginalImage(img)
}

func (v *View) SetProcessedImage(img image.Image) {
	v.imageDisplay.SetProcessedImage(img)
}

func (v *View) SetImageLoaded(loaded bool) {
	v.toolbar.SetImageLoaded(loaded)
}

func (v *View) SetStatus(status string) {
	v.toolbar.SetStatus(status)
}

func (v *View) SetStats(stats string) {
	v.toolbar.SetStats(stats)
}

func (v *View) ShowError(err error) {
	dialog.ShowError(err, v.window)
}

func (v *View) ShowInformation(title, message string) {
	dialog.ShowInformation(title, message, v.window)
}

func (v *View) ShowFileDialog(callback func(fyne.URIReadCloser, error)) {
	open := dialog.NewFileOpen(callback, v.window)
	open.SetFilter(storage.NewExtensionFileFilter(pipeline.LoadFileTypes))
	open.Show()
}

func (v *View) ShowSaveDialog(callback func(fyne.URIWriteCloser, error)) {
	save := dialog.NewFileSave(callback, v.window)
	save.SetFileName("dungeon-art" + pipeline.DefaultSaveExtension)
	save.Show()
}

func (v *View) ShowConfirm(title, message string, callback func(bool)) {
	dialog.ShowConfirm(title, message, callback, v.window)
}

func (v *View) GetWindow() fyne.Window {
	return v.window
}

func (v *View) Show() {
	v.window.SetContent(v.mainContainer)
	v.window.Show()
}
