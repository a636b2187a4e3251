// Package gesture turns pointer, wheel and touch input into viewport and
// measurement changes.
package gesture

import (
	"log/slog"
	"time"

	"github.com/philipparndt/gomap/internal/measurement"
	"github.com/philipparndt/gomap/pkg/geometry"
	"github.com/philipparndt/gomap/pkg/viewport"
)

const (
	// DefaultInitialScale is the zoom factor used when an image is loaded
	DefaultInitialScale = 0.4
	// DefaultZoomStep is the scale change of one wheel tick or zoom button press
	DefaultZoomStep = 0.2
	// DefaultDragSuppression is how long clicks are ignored after the view was panned
	DefaultDragSuppression = 500 * time.Millisecond
	// DefaultPointDragSuppression is how long clicks are ignored after a point drag ends
	DefaultPointDragSuppression = 50 * time.Millisecond
	// DefaultHandleRadius is the hit radius of a point handle in screen pixels
	DefaultHandleRadius = 10.0
)

// Button identifies a pointer button
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonTertiary
)

// Action is a control-button command
type Action int

const (
	ActionZoomIn Action = iota
	ActionZoomOut
	ActionReset
	ActionClearPoints
	ActionToggleMode
)

func (a Action) String() string {
	switch a {
	case ActionZoomIn:
		return "zoom-in"
	case ActionZoomOut:
		return "zoom-out"
	case ActionReset:
		return "reset"
	case ActionClearPoints:
		return "clear-points"
	case ActionToggleMode:
		return "toggle-measure"
	}
	return "unknown"
}

type dragKind int

const (
	dragNone dragKind = iota
	dragViewport
	dragPoint
)

// Options configures a Controller
type Options struct {
	InitialScale         float64
	Limits               viewport.Limits
	ZoomStep             float64
	DragSuppression      time.Duration
	PointDragSuppression time.Duration
	HandleRadius         float64
	Formatter            *measurement.Formatter
	Logger               *slog.Logger
	Now                  func() time.Time
}

// DefaultOptions returns the stock viewer behavior
func DefaultOptions() Options {
	return Options{
		InitialScale:         DefaultInitialScale,
		Limits:               viewport.DefaultLimits(),
		ZoomStep:             DefaultZoomStep,
		DragSuppression:      DefaultDragSuppression,
		PointDragSuppression: DefaultPointDragSuppression,
		HandleRadius:         DefaultHandleRadius,
	}
}

type pinchBaseline struct {
	distance  float64
	transform viewport.Transform
}

// Controller classifies raw input into pan, zoom, pinch, point placement and
// point drag, and applies the result to the transform and the measurement
// session. All methods must be called from the same goroutine.
//
// Pointer positions are client (absolute) coordinates; the controller
// converts them with the presenter's container bounds.
type Controller struct {
	opts      Options
	presenter Presenter
	logger    *slog.Logger

	transform viewport.Transform
	session   *measurement.Session
	image     geometry.Size
	container geometry.Size
	loaded    bool

	drag       dragKind
	dragAnchor geometry.Vec2 // Viewport drag: pointer minus offset at drag start
	dragStart  geometry.Vec2 // Point drag: pointer at drag start
	dragIndex  int
	dragOrigin geometry.Vec2 // Point drag: image position at drag start

	pinch *pinchBaseline

	panWindow   *Window
	pointWindow *Window
}

// NewController creates a controller. Input is ignored until Load is called.
func NewController(presenter Presenter, opts Options) *Controller {
	defaults := DefaultOptions()
	if opts.InitialScale <= 0 {
		opts.InitialScale = defaults.InitialScale
	}
	if opts.Limits.MinScale <= 0 || opts.Limits.MaxScale < opts.Limits.MinScale {
		opts.Limits = defaults.Limits
	}
	if opts.ZoomStep <= 0 {
		opts.ZoomStep = defaults.ZoomStep
	}
	if opts.HandleRadius <= 0 {
		opts.HandleRadius = defaults.HandleRadius
	}
	if opts.Formatter == nil {
		opts.Formatter = measurement.NewFormatter("en", "m", 1)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Controller{
		opts:        opts,
		presenter:   presenter,
		logger:      opts.Logger,
		transform:   viewport.New(opts.InitialScale, opts.Limits),
		session:     measurement.NewSession(geometry.Size{}, opts.Logger),
		panWindow:   NewWindow(opts.DragSuppression, opts.Now),
		pointWindow: NewWindow(opts.PointDragSuppression, opts.Now),
	}
}

// Open shows a different map: all points are dropped, then the view is set
// up as by Load.
func (c *Controller) Open(image, container geometry.Size) {
	c.session.Clear()
	c.Load(image, container)
}

// Load fits the current map into the container: the initial scale is
// restored and the image centered. Points survive only if the image size is
// unchanged, which is the case when the same map is re-fitted after the
// container got its first real size.
func (c *Controller) Load(image, container geometry.Size) {
	c.image = image
	c.container = container
	c.session.SetBounds(image)
	c.transform = viewport.New(c.opts.InitialScale, c.opts.Limits).CenterOn(container, image)
	c.loaded = true
	c.endGesture()

	c.logger.Info("image loaded",
		"width", image.Width, "height", image.Height,
		"container_width", container.Width, "container_height", container.Height,
		"transform", c.transform.String())
	c.notify()
}

// Reload swaps in a rewritten version of the current map. When the size is
// unchanged the transform and points are kept; otherwise the points are
// cleared and the image is re-centered as by Load.
func (c *Controller) Reload(image geometry.Size) {
	if c.loaded && image == c.image {
		c.notify()
		return
	}
	c.Load(image, c.container)
}

// Resize records a new container size. The transform is left alone.
func (c *Controller) Resize(container geometry.Size) {
	c.container = container
	if c.loaded {
		c.notify()
	}
}

// Transform returns the current transform
func (c *Controller) Transform() viewport.Transform {
	return c.transform
}

// Measurement returns the current measurement state
func (c *Controller) Measurement() measurement.State {
	return c.session.Snapshot()
}

// ImageSize returns the loaded image size
func (c *Controller) ImageSize() geometry.Size {
	return c.image
}

// Frame builds the presentation snapshot of the current state
func (c *Controller) Frame() Frame {
	return BuildFrame(c.transform, c.image, c.session.Snapshot(), c.opts.Formatter, c.drag != dragNone)
}

// ClickSuppressed reports whether a click arriving now would be swallowed
func (c *Controller) ClickSuppressed() bool {
	return c.drag == dragPoint || c.pointWindow.Active() || c.panWindow.Active()
}

// HandleAt returns the index of the point handle under a container-relative
// position, or -1. The most recently placed point wins on overlap.
func (c *Controller) HandleAt(local geometry.Vec2) int {
	state := c.session.Snapshot()
	for i := len(state.Points) - 1; i >= 0; i-- {
		screen := c.transform.ImageToScreen(state.Points[i].Position)
		if screen.Distance(local) <= c.opts.HandleRadius {
			return i
		}
	}
	return -1
}

// PointerDown starts a drag. In measurement mode a press on a point handle
// drags the point; otherwise a primary-button press pans the view.
func (c *Controller) PointerDown(client geometry.Vec2, button Button) {
	if !c.loaded || c.drag != dragNone {
		return
	}
	local := c.local(client)

	if c.session.ModeEnabled() {
		if index := c.HandleAt(local); index >= 0 {
			p, _ := c.session.Point(index)
			c.drag = dragPoint
			c.dragIndex = index
			c.dragStart = local
			c.dragOrigin = p.Position
			c.logger.Debug("point drag started", "role", p.Role.String())
			c.notify()
			return
		}
	}

	if button != ButtonPrimary {
		return
	}
	c.drag = dragViewport
	c.dragAnchor = local.Sub(c.transform.Offset)
	c.logger.Debug("pan started", "x", local.X, "y", local.Y)
	c.notify()
}

// PointerMove continues the active drag, if any
func (c *Controller) PointerMove(client geometry.Vec2) {
	local := c.local(client)

	switch c.drag {
	case dragViewport:
		c.transform = c.transform.WithOffset(local.Sub(c.dragAnchor))
		c.panWindow.Restart()
		c.notify()
	case dragPoint:
		delta := local.Sub(c.dragStart).Div(c.transform.Scale)
		c.session.DragPoint(c.dragIndex, c.dragOrigin.Add(delta))
		c.notify()
	}
}

// PointerUp ends the active drag. It must be delivered even when the pointer
// was released outside the viewer.
func (c *Controller) PointerUp(client geometry.Vec2) {
	switch c.drag {
	case dragNone:
		return
	case dragPoint:
		c.pointWindow.Restart()
		c.logger.Debug("point drag ended")
	case dragViewport:
		c.logger.Debug("pan ended", "transform", c.transform.String())
	}
	c.drag = dragNone
	c.notify()
}

// Click handles a click on the viewer. It places a point when measurement
// mode is on, no suppression window is open and the click did not come from
// a control button. Reports whether a point was placed.
func (c *Controller) Click(client geometry.Vec2, onControl bool) bool {
	if !c.loaded || onControl || !c.session.ModeEnabled() {
		return false
	}
	if c.ClickSuppressed() {
		c.logger.Debug("click suppressed after drag")
		return false
	}

	imagePoint := c.transform.ScreenToImage(c.local(client))
	if !c.session.PlacePoint(imagePoint) {
		return false
	}
	c.notify()
	return true
}

// Wheel zooms one step per event around the cursor. Positive deltaY scrolls
// down and zooms out.
func (c *Controller) Wheel(client geometry.Vec2, deltaY float64) {
	if !c.loaded || deltaY == 0 {
		return
	}
	step := c.opts.ZoomStep
	if deltaY > 0 {
		step = -step
	}
	c.transform = c.transform.ZoomAt(step, c.local(client))
	c.notify()
}

// TouchStart handles a change in the set of touches. The gesture kind is
// derived from the number of touches: one drags, two pinch.
func (c *Controller) TouchStart(touches []geometry.Vec2) {
	switch len(touches) {
	case 1:
		c.pinch = nil
		c.PointerDown(touches[0], ButtonPrimary)
	case 2:
		c.startPinch(touches)
	}
}

// TouchMove continues a touch gesture
func (c *Controller) TouchMove(touches []geometry.Vec2) {
	switch len(touches) {
	case 1:
		if c.pinch != nil || c.drag == dragNone {
			// A pinch lost a finger: continue as a fresh drag from here.
			c.pinch = nil
			c.PointerDown(touches[0], ButtonPrimary)
			return
		}
		c.PointerMove(touches[0])
	case 2:
		if c.pinch == nil {
			c.startPinch(touches)
			return
		}
		c.movePinch(touches)
	}
}

// TouchEnd ends any touch gesture
func (c *Controller) TouchEnd() {
	c.pinch = nil
	c.PointerUp(geometry.Vec2{})
}

// Do runs a control-button action
func (c *Controller) Do(action Action) {
	if !c.loaded {
		return
	}
	center := c.container.Center()

	switch action {
	case ActionZoomIn:
		c.transform = c.transform.ZoomAt(c.opts.ZoomStep, center)
	case ActionZoomOut:
		c.transform = c.transform.ZoomAt(-c.opts.ZoomStep, center)
	case ActionReset:
		c.transform = c.transform.Reset(c.container, c.image)
	case ActionClearPoints:
		c.session.Clear()
	case ActionToggleMode:
		enabled := c.session.ToggleMode()
		c.logger.Info("measurement mode changed", "enabled", enabled)
	default:
		return
	}
	c.logger.Debug("action", "name", action.String(), "transform", c.transform.String())
	c.notify()
}

func (c *Controller) startPinch(touches []geometry.Vec2) {
	if !c.loaded {
		return
	}
	// A second finger replaces whatever single-touch drag was running.
	if c.drag == dragPoint {
		c.pointWindow.Restart()
	}
	c.drag = dragNone

	c.pinch = &pinchBaseline{
		distance:  touches[0].Distance(touches[1]),
		transform: c.transform,
	}
	c.logger.Debug("pinch started", "distance", c.pinch.distance)
	c.notify()
}

func (c *Controller) movePinch(touches []geometry.Vec2) {
	if c.pinch.distance == 0 {
		return
	}
	ratio := touches[0].Distance(touches[1]) / c.pinch.distance
	center := c.local(touches[0].Midpoint(touches[1]))

	base := c.pinch.transform
	c.transform = base.SetScaleAbsolute(base.Scale*ratio, center)
	c.panWindow.Restart()
	c.notify()
}

func (c *Controller) endGesture() {
	c.drag = dragNone
	c.pinch = nil
	c.panWindow.Cancel()
	c.pointWindow.Cancel()
}

func (c *Controller) local(client geometry.Vec2) geometry.Vec2 {
	if c.presenter == nil {
		return client
	}
	return c.presenter.ContainerBounds().Local(client)
}

func (c *Controller) notify() {
	if c.presenter == nil {
		return
	}
	c.presenter.Present(c.Frame())
}
