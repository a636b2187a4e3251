package gesture

import (
	"math"
	"testing"
	"time"

	"github.com/philipparndt/gomap/internal/measurement"
	"github.com/philipparndt/gomap/pkg/geometry"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

type recordingPresenter struct {
	bounds geometry.Rect
	frames []Frame
}

func (p *recordingPresenter) ContainerBounds() geometry.Rect { return p.bounds }

func (p *recordingPresenter) Present(frame Frame) { p.frames = append(p.frames, frame) }

func (p *recordingPresenter) last() Frame { return p.frames[len(p.frames)-1] }

// newTestController returns a controller for a 1000x800 image shown in an
// 800x600 container whose top-left corner sits at (50, 20) on screen.
func newTestController(t *testing.T) (*Controller, *recordingPresenter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	presenter := &recordingPresenter{bounds: geometry.NewRect(50, 20, 800, 600)}

	opts := DefaultOptions()
	opts.Now = clock.Now
	c := NewController(presenter, opts)
	c.Load(geometry.NewSize(1000, 800), geometry.NewSize(800, 600))
	return c, presenter, clock
}

// client converts a container-relative position into client coordinates
func client(p *recordingPresenter, x, y float64) geometry.Vec2 {
	return p.bounds.Min.Add(geometry.NewVec2(x, y))
}

func requireVec(t *testing.T, want, got geometry.Vec2) {
	t.Helper()
	require.InDelta(t, want.X, got.X, eps, "x of %v", got)
	require.InDelta(t, want.Y, got.Y, eps, "y of %v", got)
}

func TestLoadCentersAtInitialScale(t *testing.T) {
	c, p, _ := newTestController(t)

	tr := c.Transform()
	require.InDelta(t, 0.4, tr.Scale, eps)
	requireVec(t, geometry.NewVec2(200, 140), tr.Offset)

	require.NotEmpty(t, p.frames)
	require.Equal(t, "0 m", p.last().DistanceText)
	require.Equal(t, "0°", p.last().AzimuthText)
	require.False(t, p.last().ClearEnabled)
}

func TestInputIgnoredBeforeLoad(t *testing.T) {
	p := &recordingPresenter{}
	c := NewController(p, DefaultOptions())

	c.Wheel(geometry.NewVec2(1, 1), -1)
	c.PointerDown(geometry.NewVec2(1, 1), ButtonPrimary)
	c.Do(ActionZoomIn)
	require.False(t, c.Click(geometry.NewVec2(1, 1), false))
	require.Empty(t, p.frames)
}

func TestPanDrag(t *testing.T) {
	c, p, _ := newTestController(t)
	start := c.Transform().Offset

	c.PointerDown(client(p, 100, 100), ButtonPrimary)
	require.True(t, p.last().Dragging)
	require.Equal(t, CursorGrabbing, p.last().Cursor)

	c.PointerMove(client(p, 130, 90))
	requireVec(t, start.Add(geometry.NewVec2(30, -10)), c.Transform().Offset)
	require.InDelta(t, 0.4, c.Transform().Scale, eps)

	c.PointerUp(client(p, 130, 90))
	require.False(t, p.last().Dragging)
	require.Equal(t, CursorGrab, p.last().Cursor)

	// Moves after release do nothing.
	c.PointerMove(client(p, 500, 500))
	requireVec(t, start.Add(geometry.NewVec2(30, -10)), c.Transform().Offset)
}

func TestNonPrimaryButtonDoesNotPan(t *testing.T) {
	c, p, _ := newTestController(t)
	start := c.Transform().Offset

	c.PointerDown(client(p, 100, 100), ButtonSecondary)
	c.PointerMove(client(p, 200, 200))
	requireVec(t, start, c.Transform().Offset)
}

func TestDragThenClickSuppressed(t *testing.T) {
	c, p, clock := newTestController(t)
	c.Do(ActionToggleMode)

	c.PointerDown(client(p, 400, 300), ButtonPrimary)
	c.PointerMove(client(p, 420, 300))
	c.PointerUp(client(p, 420, 300))

	clock.Advance(100 * time.Millisecond)
	require.True(t, c.ClickSuppressed())
	require.False(t, c.Click(client(p, 420, 300), false))
	require.Empty(t, c.Measurement().Points)

	clock.Advance(DefaultDragSuppression)
	require.False(t, c.ClickSuppressed())
	require.True(t, c.Click(client(p, 420, 300), false))
	require.Len(t, c.Measurement().Points, 1)
}

func TestPanMoveRestartsSuppressionWindow(t *testing.T) {
	c, p, clock := newTestController(t)
	c.Do(ActionToggleMode)

	c.PointerDown(client(p, 400, 300), ButtonPrimary)
	c.PointerMove(client(p, 410, 300))
	clock.Advance(400 * time.Millisecond)
	c.PointerMove(client(p, 420, 300))
	c.PointerUp(client(p, 420, 300))

	clock.Advance(400 * time.Millisecond)
	require.True(t, c.ClickSuppressed())
	clock.Advance(101 * time.Millisecond)
	require.False(t, c.ClickSuppressed())
}

func TestPressWithoutMoveDoesNotSuppressClick(t *testing.T) {
	c, p, _ := newTestController(t)
	c.Do(ActionToggleMode)

	c.PointerDown(client(p, 400, 300), ButtonPrimary)
	c.PointerUp(client(p, 400, 300))
	require.True(t, c.Click(client(p, 400, 300), false))
}

func TestClickRequiresMeasurementMode(t *testing.T) {
	c, p, _ := newTestController(t)

	require.False(t, c.Click(client(p, 400, 300), false))
	c.Do(ActionToggleMode)
	require.False(t, c.Click(client(p, 400, 300), true), "control-button clicks never place points")
	require.True(t, c.Click(client(p, 400, 300), false))
}

func TestClickOutsideImageIgnored(t *testing.T) {
	c, p, _ := newTestController(t)
	c.Do(ActionToggleMode)

	// The image spans 200..600 x 140..460 in the container at scale 0.4.
	require.False(t, c.Click(client(p, 10, 10), false))
	require.Empty(t, c.Measurement().Points)
}

func TestClickConvertsClientToImage(t *testing.T) {
	c, p, _ := newTestController(t)
	c.Do(ActionToggleMode)

	require.True(t, c.Click(client(p, 240, 180), false))
	pts := c.Measurement().Points
	require.Len(t, pts, 1)
	requireVec(t, geometry.NewVec2(100, 100), pts[0].Position)
	requireVec(t, geometry.NewVec2(240, 180), p.last().Handles[0].Screen)
}

func TestZoomThenMeasure(t *testing.T) {
	c, p, _ := newTestController(t)

	c.Do(ActionZoomIn)
	require.InDelta(t, 0.6, c.Transform().Scale, eps)
	c.Do(ActionZoomIn)
	require.InDelta(t, 0.8, c.Transform().Scale, eps)

	c.Do(ActionToggleMode)
	tr := c.Transform()
	a := tr.ImageToScreen(geometry.NewVec2(100, 100))
	b := tr.ImageToScreen(geometry.NewVec2(400, 100))
	require.True(t, c.Click(client(p, a.X, a.Y), false))
	require.True(t, c.Click(client(p, b.X, b.Y), false))

	r := c.Measurement().Result
	require.InDelta(t, 300, r.Distance, 1e-6)
	require.InDelta(t, 90, r.Azimuth, 1e-6)
	require.InDelta(t, 450, r.AzimuthScaled, 1e-6)

	frame := p.last()
	require.Equal(t, "300.0 m", frame.DistanceText)
	require.Equal(t, "90.0° = 450.0", frame.AzimuthText)
	require.True(t, frame.ClearEnabled)
	require.NotNil(t, frame.Line)
	require.InDelta(t, 300*0.8, frame.Line.Length, 1e-6)
}

func TestZoomButtonsAnchorAtContainerCenter(t *testing.T) {
	c, _, _ := newTestController(t)
	center := geometry.NewVec2(400, 300)
	imagePoint := c.Transform().ScreenToImage(center)

	c.Do(ActionZoomIn)
	requireVec(t, center, c.Transform().ImageToScreen(imagePoint))
	c.Do(ActionZoomOut)
	c.Do(ActionZoomOut)
	requireVec(t, center, c.Transform().ImageToScreen(imagePoint))
	require.InDelta(t, 0.2, c.Transform().Scale, eps)
}

func TestWheelZoomsAtCursor(t *testing.T) {
	c, p, _ := newTestController(t)
	cursor := geometry.NewVec2(300, 250)
	imagePoint := c.Transform().ScreenToImage(cursor)

	c.Wheel(client(p, cursor.X, cursor.Y), -120)
	require.InDelta(t, 0.6, c.Transform().Scale, eps)
	requireVec(t, cursor, c.Transform().ImageToScreen(imagePoint))

	c.Wheel(client(p, cursor.X, cursor.Y), 3)
	require.InDelta(t, 0.4, c.Transform().Scale, eps)
	requireVec(t, cursor, c.Transform().ImageToScreen(imagePoint))

	for i := 0; i < 10; i++ {
		c.Wheel(client(p, cursor.X, cursor.Y), 1)
	}
	require.InDelta(t, 0.1, c.Transform().Scale, eps)
	requireVec(t, cursor, c.Transform().ImageToScreen(imagePoint))
}

func TestResetKeepsMeasurement(t *testing.T) {
	c, p, _ := newTestController(t)
	c.Do(ActionToggleMode)
	c.Click(client(p, 240, 180), false)

	c.Do(ActionZoomIn)
	c.Do(ActionReset)

	require.Equal(t, 1.0, c.Transform().Scale)
	requireVec(t, geometry.NewVec2(-100, -100), c.Transform().Offset)
	require.Len(t, c.Measurement().Points, 1)
	requireVec(t, geometry.NewVec2(100, 100), c.Measurement().Points[0].Position)
	requireVec(t, geometry.NewVec2(0, 0), p.last().Handles[0].Screen)
}

func TestClearAction(t *testing.T) {
	c, p, _ := newTestController(t)
	c.Do(ActionToggleMode)
	c.Click(client(p, 240, 180), false)
	c.Click(client(p, 360, 180), false)

	c.Do(ActionClearPoints)
	require.Empty(t, c.Measurement().Points)
	require.Nil(t, p.last().Line)
	require.Equal(t, "0 m", p.last().DistanceText)
	require.True(t, c.Measurement().ModeEnabled)
}

func TestThirdClickRestarts(t *testing.T) {
	c, p, _ := newTestController(t)
	c.Do(ActionToggleMode)
	c.Click(client(p, 240, 180), false)
	c.Click(client(p, 360, 180), false)
	c.Click(client(p, 300, 300), false)

	pts := c.Measurement().Points
	require.Len(t, pts, 1)
	require.Equal(t, measurement.RoleFirst, pts[0].Role)
	require.False(t, c.Measurement().Result.Valid)
}

func TestPointDrag(t *testing.T) {
	c, p, clock := newTestController(t)
	c.Do(ActionToggleMode)
	c.Click(client(p, 240, 180), false) // image (100,100)
	c.Click(client(p, 360, 180), false) // image (400,100)

	c.PointerDown(client(p, 362, 181), ButtonPrimary)
	offsetBefore := c.Transform().Offset
	c.PointerMove(client(p, 362, 141)) // 40 px up = 100 image px at scale 0.4

	requireVec(t, offsetBefore, c.Transform().Offset)
	pts := c.Measurement().Points
	requireVec(t, geometry.NewVec2(400, 0), pts[1].Position)

	// Dragging past the image edge clamps.
	c.PointerMove(client(p, 362, 0))
	pts = c.Measurement().Points
	requireVec(t, geometry.NewVec2(400, 0), pts[1].Position)
	require.InDelta(t, math.Hypot(300, 100), c.Measurement().Result.Distance, 1e-6)

	require.True(t, c.ClickSuppressed())
	c.PointerUp(client(p, 362, 0))

	require.False(t, c.Click(client(p, 362, 0), false), "release click must not place a point")
	require.Len(t, c.Measurement().Points, 2)

	clock.Advance(DefaultPointDragSuppression + time.Millisecond)
	require.False(t, c.ClickSuppressed())
}

func TestPointHandleIgnoredOutsideMeasurementMode(t *testing.T) {
	c, p, _ := newTestController(t)
	c.Do(ActionToggleMode)
	c.Click(client(p, 240, 180), false)
	c.Do(ActionToggleMode)

	offset := c.Transform().Offset
	c.PointerDown(client(p, 240, 180), ButtonPrimary)
	c.PointerMove(client(p, 250, 190))

	requireVec(t, geometry.NewVec2(100, 100), c.Measurement().Points[0].Position)
	requireVec(t, offset.Add(geometry.NewVec2(10, 10)), c.Transform().Offset)
}

func TestHandlesFollowTransform(t *testing.T) {
	c, p, _ := newTestController(t)
	c.Do(ActionToggleMode)
	c.Click(client(p, 240, 180), false)

	c.PointerDown(client(p, 700, 500), ButtonPrimary)
	c.PointerMove(client(p, 650, 520))
	c.PointerUp(client(p, 650, 520))
	requireVec(t, geometry.NewVec2(190, 200), p.last().Handles[0].Screen)

	c.Wheel(client(p, 190, 200), -1)
	requireVec(t, geometry.NewVec2(190, 200), p.last().Handles[0].Screen)
}

func TestPinchKeepsCenterStable(t *testing.T) {
	c, p, _ := newTestController(t)
	center := geometry.NewVec2(350, 260)
	imageBefore := c.Transform().ScreenToImage(center)

	c.TouchStart([]geometry.Vec2{client(p, 330, 260), client(p, 370, 260)})
	c.TouchMove([]geometry.Vec2{client(p, 320, 260), client(p, 380, 260)})
	c.TouchMove([]geometry.Vec2{client(p, 310, 260), client(p, 390, 260)})

	require.InDelta(t, 0.8, c.Transform().Scale, eps)
	requireVec(t, imageBefore, c.Transform().ScreenToImage(center))

	c.TouchEnd()
	requireVec(t, imageBefore, c.Transform().ScreenToImage(center))
}

func TestPinchClampsScale(t *testing.T) {
	c, p, _ := newTestController(t)

	c.TouchStart([]geometry.Vec2{client(p, 399, 300), client(p, 401, 300)})
	c.TouchMove([]geometry.Vec2{client(p, 0, 300), client(p, 800, 300)})
	require.Equal(t, 5.0, c.Transform().Scale)
}

func TestPinchZeroDistanceBaselineIgnored(t *testing.T) {
	c, p, _ := newTestController(t)
	before := c.Transform()

	c.TouchStart([]geometry.Vec2{client(p, 300, 300), client(p, 300, 300)})
	c.TouchMove([]geometry.Vec2{client(p, 200, 300), client(p, 400, 300)})
	require.Equal(t, before, c.Transform())
}

func TestSecondTouchTakesOverDrag(t *testing.T) {
	c, p, _ := newTestController(t)

	c.TouchStart([]geometry.Vec2{client(p, 300, 300)})
	c.TouchMove([]geometry.Vec2{client(p, 310, 300)})
	offset := c.Transform().Offset

	// Second finger lands mid-drag: the gesture becomes a pinch.
	c.TouchMove([]geometry.Vec2{client(p, 310, 300), client(p, 350, 300)})
	c.TouchMove([]geometry.Vec2{client(p, 310, 300), client(p, 350, 300)})
	requireVec(t, offset, c.Transform().Offset)
	require.InDelta(t, 0.4, c.Transform().Scale, eps)

	// Back to one finger: a fresh drag starts without a jump.
	c.TouchMove([]geometry.Vec2{client(p, 310, 300)})
	requireVec(t, offset, c.Transform().Offset)
	c.TouchMove([]geometry.Vec2{client(p, 320, 300)})
	requireVec(t, offset.Add(geometry.NewVec2(10, 0)), c.Transform().Offset)
	c.TouchEnd()
}

func TestReloadKeepsStateForSameSize(t *testing.T) {
	c, p, _ := newTestController(t)
	c.Do(ActionToggleMode)
	c.Click(client(p, 240, 180), false)
	c.Do(ActionZoomIn)
	tr := c.Transform()

	c.Reload(geometry.NewSize(1000, 800))
	require.Equal(t, tr, c.Transform())
	require.Len(t, c.Measurement().Points, 1)

	c.Reload(geometry.NewSize(500, 400))
	require.Empty(t, c.Measurement().Points)
	require.InDelta(t, 0.4, c.Transform().Scale, eps)
	requireVec(t, geometry.NewVec2(300, 220), c.Transform().Offset)
}

func TestOpenSameSizeMapDropsPoints(t *testing.T) {
	c, p, _ := newTestController(t)
	c.Do(ActionToggleMode)
	c.Click(client(p, 240, 180), false)
	c.Click(client(p, 360, 180), false)
	require.True(t, c.Measurement().Result.Valid)
	c.Do(ActionZoomIn)

	c.Open(geometry.NewSize(1000, 800), geometry.NewSize(800, 600))

	state := c.Measurement()
	require.Empty(t, state.Points)
	require.False(t, state.Result.Valid)
	require.InDelta(t, 0.4, c.Transform().Scale, eps)
	requireVec(t, geometry.NewVec2(200, 140), c.Transform().Offset)
	require.Equal(t, "0 m", p.last().DistanceText)
	require.Nil(t, p.last().Line)
}

func TestLoadRefitKeepsPoints(t *testing.T) {
	c, p, _ := newTestController(t)
	c.Do(ActionToggleMode)
	c.Click(client(p, 240, 180), false)

	c.Load(geometry.NewSize(1000, 800), geometry.NewSize(1000, 700))
	require.Len(t, c.Measurement().Points, 1)
	requireVec(t, geometry.NewVec2(100, 100), c.Measurement().Points[0].Position)
	requireVec(t, geometry.NewVec2(300, 190), c.Transform().Offset)
}

func TestInstructionsOnlyInMeasurementMode(t *testing.T) {
	c, p, _ := newTestController(t)
	require.Empty(t, p.last().Instructions)

	c.Do(ActionToggleMode)
	require.Equal(t, CursorCrosshair, p.last().Cursor)
	require.Contains(t, p.last().Instructions, "Click to place the green point (A)")

	c.Click(client(p, 240, 180), false)
	require.Contains(t, p.last().Instructions, "Click to place the red point (B)")

	c.Click(client(p, 300, 180), false)
	require.Contains(t, p.last().Instructions, "Measurement active")
}
