// Package ui is the fyne front end of the map viewer.
package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/gomap/internal/gesture"
	"github.com/philipparndt/gomap/pkg/geometry"
)

var (
	pointColors = []color.Color{
		color.NRGBA{R: 0x2e, G: 0xcc, B: 0x40, A: 0xff}, // A: green
		color.NRGBA{R: 0xff, G: 0x41, B: 0x36, A: 0xff}, // B: red
	}
	lineColor    = color.NRGBA{R: 0xff, G: 0xdc, B: 0x00, A: 0xff}
	labelColor   = color.White
	handleStroke = color.White
)

const handleSize = 16

// MapView displays a raster map and forwards pointer input to a gesture
// controller. It is the controller's presenter: every state change arrives
// as a Frame and is drawn on the next refresh.
type MapView struct {
	widget.BaseWidget

	controller *gesture.Controller
	raster     *canvas.Image
	imageSize  geometry.Size
	frame      gesture.Frame

	pressed  bool
	touch    bool
	lastDrag geometry.Vec2
	fitted   bool

	onFrame func(gesture.Frame)
}

// NewMapView creates an empty map view. Call SetController before showing it.
func NewMapView() *MapView {
	m := &MapView{}
	m.ExtendBaseWidget(m)
	return m
}

// SetController attaches the controller that interprets this view's input
func (m *MapView) SetController(c *gesture.Controller) {
	m.controller = c
}

// SetOnFrame sets the callback invoked after every presented frame
func (m *MapView) SetOnFrame(callback func(gesture.Frame)) {
	m.onFrame = callback
}

// SetImage shows a map image. keepView marks a rewritten version of the
// current map: the transform and points are kept when the size is unchanged.
// Otherwise the image is a different map and all points are dropped.
func (m *MapView) SetImage(img image.Image, keepView bool) {
	b := img.Bounds()
	size := geometry.NewSize(float64(b.Dx()), float64(b.Dy()))

	if m.raster == nil {
		m.raster = canvas.NewImageFromImage(img)
		m.raster.FillMode = canvas.ImageFillStretch
		m.raster.ScaleMode = canvas.ImageScaleSmooth
	} else {
		m.raster.Image = img
	}
	m.imageSize = size

	container := m.containerSize()
	m.fitted = !container.IsEmpty()
	if keepView {
		m.controller.Reload(size)
	} else {
		m.controller.Open(size, container)
	}
	m.raster.Refresh()
}

// ContainerBounds returns the view's absolute position and size
func (m *MapView) ContainerBounds() geometry.Rect {
	pos := fyne.NewPos(0, 0)
	if app := fyne.CurrentApp(); app != nil {
		pos = app.Driver().AbsolutePositionForObject(m)
	}
	size := m.Size()
	return geometry.NewRect(float64(pos.X), float64(pos.Y), float64(size.Width), float64(size.Height))
}

// Present stores the frame and redraws
func (m *MapView) Present(frame gesture.Frame) {
	m.frame = frame
	if m.onFrame != nil {
		m.onFrame(frame)
	}
	m.Refresh()
}

// Frame returns the last presented frame
func (m *MapView) Frame() gesture.Frame {
	return m.frame
}

// Resize updates the widget size and tells the controller about it. The
// first non-empty size after a load re-centers the image.
func (m *MapView) Resize(size fyne.Size) {
	m.BaseWidget.Resize(size)
	if m.controller == nil || m.raster == nil {
		return
	}
	container := m.containerSize()
	if !m.fitted && !container.IsEmpty() {
		m.fitted = true
		m.controller.Load(m.imageSize, container)
		return
	}
	m.controller.Resize(container)
}

// MouseDown starts a pan or point drag
func (m *MapView) MouseDown(event *desktop.MouseEvent) {
	if m.controller == nil {
		return
	}
	m.pressed = true
	m.touch = false
	m.controller.PointerDown(toVec(event.AbsolutePosition), toButton(event.Button))
}

// MouseUp ends a pan or point drag
func (m *MapView) MouseUp(event *desktop.MouseEvent) {
	if m.controller == nil {
		return
	}
	m.pressed = false
	m.controller.PointerUp(toVec(event.AbsolutePosition))
}

// Dragged moves the active drag. Without a preceding MouseDown (touch
// screens) the drag is started from the event's origin.
func (m *MapView) Dragged(event *fyne.DragEvent) {
	if m.controller == nil {
		return
	}
	pos := toVec(event.AbsolutePosition)
	if !m.pressed {
		origin := pos.Sub(geometry.NewVec2(float64(event.Dragged.DX), float64(event.Dragged.DY)))
		m.pressed = true
		m.touch = true
		m.controller.TouchStart([]geometry.Vec2{origin})
	}
	m.lastDrag = pos
	if m.touch {
		m.controller.TouchMove([]geometry.Vec2{pos})
		return
	}
	m.controller.PointerMove(pos)
}

// DragEnd is delivered even when the pointer was released outside the view
func (m *MapView) DragEnd() {
	if m.controller == nil {
		return
	}
	if m.touch {
		m.controller.TouchEnd()
	} else {
		m.controller.PointerUp(m.lastDrag)
	}
	m.pressed = false
	m.touch = false
}

// Tapped places a measurement point
func (m *MapView) Tapped(event *fyne.PointEvent) {
	if m.controller == nil {
		return
	}
	m.controller.Click(toVec(event.AbsolutePosition), false)
}

// Scrolled zooms around the pointer. fyne reports scrolling up as positive
// DY, which is the opposite of the controller's wheel convention.
func (m *MapView) Scrolled(event *fyne.ScrollEvent) {
	if m.controller == nil {
		return
	}
	m.controller.Wheel(toVec(event.AbsolutePosition), -float64(event.Scrolled.DY))
}

// Cursor returns the pointer shape for the current mode and drag state
func (m *MapView) Cursor() desktop.Cursor {
	switch m.frame.Cursor {
	case gesture.CursorCrosshair:
		return desktop.CrosshairCursor
	default:
		return desktop.DefaultCursor
	}
}

// CreateRenderer creates the renderer for the widget
func (m *MapView) CreateRenderer() fyne.WidgetRenderer {
	line := canvas.NewLine(lineColor)
	line.StrokeWidth = 3
	line.Hide()
	r := &mapViewRenderer{view: m, line: line}
	r.rebuild()
	return r
}

func (m *MapView) containerSize() geometry.Size {
	size := m.Size()
	return geometry.NewSize(float64(size.Width), float64(size.Height))
}

func toVec(p fyne.Position) geometry.Vec2 {
	return geometry.NewVec2(float64(p.X), float64(p.Y))
}

func toPos(v geometry.Vec2) fyne.Position {
	return fyne.NewPos(float32(v.X), float32(v.Y))
}

func toButton(b desktop.MouseButton) gesture.Button {
	switch b {
	case desktop.MouseButtonSecondary:
		return gesture.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return gesture.ButtonTertiary
	default:
		return gesture.ButtonPrimary
	}
}

// mapViewRenderer implements fyne.WidgetRenderer
type mapViewRenderer struct {
	view    *MapView
	line    *canvas.Line
	handles []*canvas.Circle
	labels  []*canvas.Text
	objects []fyne.CanvasObject
}

func (r *mapViewRenderer) Layout(_ fyne.Size) {
	frame := r.view.frame

	if raster := r.view.raster; raster != nil {
		t := frame.Transform
		raster.Move(toPos(t.Offset))
		raster.Resize(fyne.NewSize(
			float32(frame.ImageSize.Width*t.Scale),
			float32(frame.ImageSize.Height*t.Scale),
		))
	}

	if frame.Line != nil {
		r.line.Position1 = toPos(frame.Line.Start)
		r.line.Position2 = toPos(frame.Line.End)
		r.line.Show()
	} else {
		r.line.Hide()
	}

	for i, h := range frame.Handles {
		if i >= len(r.handles) {
			break
		}
		r.handles[i].Resize(fyne.NewSize(handleSize, handleSize))
		r.handles[i].Move(toPos(h.Screen).SubtractXY(handleSize/2, handleSize/2))
		r.labels[i].Move(toPos(h.Screen).AddXY(handleSize/2+2, -handleSize))
	}
}

func (r *mapViewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

func (r *mapViewRenderer) Refresh() {
	r.rebuild()
	r.Layout(r.view.Size())
	canvas.Refresh(r.view)
}

// rebuild syncs the handle objects with the frame
func (r *mapViewRenderer) rebuild() {
	frame := r.view.frame

	for len(r.handles) < len(frame.Handles) {
		i := len(r.handles)
		circle := canvas.NewCircle(pointColors[i%len(pointColors)])
		circle.StrokeColor = handleStroke
		circle.StrokeWidth = 2
		text := canvas.NewText("", labelColor)
		text.TextStyle = fyne.TextStyle{Bold: true}
		r.handles = append(r.handles, circle)
		r.labels = append(r.labels, text)
	}
	for i := range r.handles {
		visible := i < len(frame.Handles)
		if visible {
			r.labels[i].Text = frame.Handles[i].Label
			r.handles[i].Show()
			r.labels[i].Show()
		} else {
			r.handles[i].Hide()
			r.labels[i].Hide()
		}
	}

	r.objects = r.objects[:0]
	if r.view.raster != nil {
		r.objects = append(r.objects, r.view.raster)
	}
	r.objects = append(r.objects, r.line)
	for i := range r.handles {
		r.objects = append(r.objects, r.handles[i], r.labels[i])
	}
}

func (r *mapViewRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *mapViewRenderer) Destroy() {}
