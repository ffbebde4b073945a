package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	predictLabel = "Predict"
	busyLabel    = "Predicting..."
)

type toolbar struct {
	clear   *widget.Button
	predict *widget.Button
	export  *widget.Button
	root    fyne.CanvasObject
}

func newToolbar(onClear, onPredict, onExport func()) *toolbar {
	t := &toolbar{
		clear:   widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), onClear),
		predict: widget.NewButtonWithIcon(predictLabel, theme.ConfirmIcon(), onPredict),
		export:  widget.NewButtonWithIcon("Export PDF", theme.DocumentSaveIcon(), onExport),
	}
	t.predict.Importance = widget.HighImportance
	t.root = container.NewHBox(
		t.clear,
		t.predict,
		widget.NewSeparator(),
		t.export,
		layout.NewSpacer(),
	)
	return t
}

// setBusy disables Predict while a request is outstanding.
func (t *toolbar) setBusy(busy bool) {
	if busy {
		t.predict.SetText(busyLabel)
		t.predict.Disable()
		return
	}
	t.predict.SetText(predictLabel)
	t.predict.Enable()
}
