package ui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/gomap/internal/gesture"
)

const (
	measureOnText  = "Measure: on"
	measureOffText = "Measure: off"
)

// Panel is the side panel with the measurement readout and the view controls
type Panel struct {
	distanceLabel     *widget.Label
	azimuthLabel      *widget.Label
	mapInfoLabel      *widget.Label
	instructionsLabel *widget.Label

	zoomInButton  *widget.Button
	zoomOutButton *widget.Button
	resetButton   *widget.Button
	clearButton   *widget.Button
	measureButton *widget.Button
	openButton    *widget.Button

	content fyne.CanvasObject
}

// NewPanel builds the panel. do runs a control action, open shows the file dialog.
func NewPanel(do func(gesture.Action), open func()) *Panel {
	p := &Panel{
		distanceLabel:     widget.NewLabel("0 m"),
		azimuthLabel:      widget.NewLabel("0°"),
		mapInfoLabel:      widget.NewLabel(""),
		instructionsLabel: widget.NewLabel(""),
	}
	p.distanceLabel.TextStyle = fyne.TextStyle{Bold: true}
	p.azimuthLabel.TextStyle = fyne.TextStyle{Bold: true}
	p.instructionsLabel.Wrapping = fyne.TextWrapWord

	p.zoomInButton = widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() { do(gesture.ActionZoomIn) })
	p.zoomOutButton = widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() { do(gesture.ActionZoomOut) })
	p.resetButton = widget.NewButtonWithIcon("", theme.ZoomFitIcon(), func() { do(gesture.ActionReset) })
	p.clearButton = widget.NewButtonWithIcon("Clear points", theme.DeleteIcon(), func() { do(gesture.ActionClearPoints) })
	p.measureButton = widget.NewButton(measureOffText, func() { do(gesture.ActionToggleMode) })
	p.openButton = widget.NewButtonWithIcon("Open map", theme.FolderOpenIcon(), open)
	p.clearButton.Disable()

	panel := container.NewVBox(
		widget.NewLabel("Map:"),
		widget.NewSeparator(),
		p.mapInfoLabel,
		widget.NewSeparator(),
		widget.NewLabel("Distance:"),
		p.distanceLabel,
		widget.NewLabel("Azimuth:"),
		p.azimuthLabel,
		widget.NewSeparator(),
		container.NewGridWithColumns(3, p.zoomInButton, p.zoomOutButton, p.resetButton),
		p.measureButton,
		p.clearButton,
		widget.NewSeparator(),
		p.instructionsLabel,
		widget.NewSeparator(),
		p.openButton,
	)

	scroll := container.NewVScroll(panel)
	scroll.SetMinSize(fyne.NewSize(260, 0))
	// The map view does not clip, so the panel needs an opaque background.
	background := canvas.NewRectangle(theme.Color(theme.ColorNameBackground))
	p.content = container.NewStack(background, scroll)
	return p
}

// Content returns the panel's canvas object
func (p *Panel) Content() fyne.CanvasObject {
	return p.content
}

// SetMapInfo shows a short description of the loaded map
func (p *Panel) SetMapInfo(text string) {
	p.mapInfoLabel.SetText(text)
}

// Update reflects a controller frame in the readout and button states
func (p *Panel) Update(frame gesture.Frame) {
	p.distanceLabel.SetText(frame.DistanceText)
	p.azimuthLabel.SetText(frame.AzimuthText)

	if frame.ClearEnabled {
		p.clearButton.Enable()
	} else {
		p.clearButton.Disable()
	}

	if frame.ModeEnabled {
		p.measureButton.SetText(measureOnText)
		p.measureButton.Importance = widget.HighImportance
	} else {
		p.measureButton.SetText(measureOffText)
		p.measureButton.Importance = widget.MediumImportance
	}
	p.measureButton.Refresh()

	if len(frame.Instructions) == 0 {
		p.instructionsLabel.SetText("Drag to pan, scroll to zoom.\nTurn on measuring to place points.")
		return
	}
	p.instructionsLabel.SetText("• " + strings.Join(frame.Instructions, "\n• "))
}
