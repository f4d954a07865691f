package widgets

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type Toolbar struct {
	container   *fyne.Container
	loadButton  *widget.Button
	applyButton *widget.Button
	saveButton  *widget.Button
	statusLabel *widget.Label
	statsLabel  *widget.Label

	loadHandler  func()
	applyHandler func()
	saveHandler  func()
}

func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.loadButton = widget.NewButton("Load Image", t.onLoadClicked)
	t.loadButton.Importance = widget.HighImportance

	t.applyButton = widget.NewButton("Apply Effects", t.onApplyClicked)
	t.applyButton.Disable() // until an image is loaded

	t.saveButton = widget.NewButton("Save Image", t.onSaveClicked)
	t.saveButton.Importance = widget.HighImportance
	t.saveButton.Disable()

	t.statusLabel = widget.NewLabel("Ready")
	t.statsLabel = widget.NewLabel("")
}

func (t *Toolbar) buildLayout() {
	actions := container.NewHBox(
		t.loadButton,
		t.applyButton,
		widget.NewSeparator(),
		t.saveButton,
	)

	t.container = container.NewBorder(
		nil, nil,
		actions,
		t.statsLabel,
		t.statusLabel,
	)
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}

func (t *Toolbar) SetLoadHandler(handler func())  { t.loadHandler = handler }
func (t *Toolbar) SetApplyHandler(handler func()) { t.applyHandler = handler }
func (t *Toolbar) SetSaveHandler(handler func())  { t.saveHandler = handler }

// SetImageLoaded enables the actions that need a source image.
func (t *Toolbar) SetImageLoaded(loaded bool) {
	if loaded {
		t.applyButton.Enable()
		t.saveButton.Enable()
		return
	}
	t.applyButton.Disable()
	t.saveButton.Disable()
}

func (t *Toolbar) SetStatus(status string) {
	t.statusLabel.SetText(status)
}

func (t *Toolbar) SetStats(stats string) {
	t.statsLabel.SetText(stats)
}

func (t *Toolbar) onLoadClicked() {
	if t.loadHandler != nil {
		t.loadHandler()
	}
}

func (t *Toolbar) onApplyClicked() {
	if t.applyHandler != nil {
		t.applyHandler()
	}
}

func (t *Toolbar) onSaveClicked() {
	if t.saveHandler != nil {
		t.saveHandler()
	}
}
