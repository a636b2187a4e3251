package gesture

import (
	"math"

	"github.com/philipparndt/gomap/internal/measurement"
	"github.com/philipparndt/gomap/pkg/geometry"
	"github.com/philipparndt/gomap/pkg/viewport"
)

// Presenter renders controller state. The controller asks it for the
// container's absolute bounds when converting pointer coordinates, and hands
// it a complete Frame after every change.
type Presenter interface {
	ContainerBounds() geometry.Rect
	Present(frame Frame)
}

// Cursor is the pointer shape the viewer should show
type Cursor int

const (
	CursorGrab Cursor = iota
	CursorGrabbing
	CursorCrosshair
)

// Handle is the on-screen marker of a measurement point
type Handle struct {
	Role   measurement.Role
	Label  string
	Image  geometry.Vec2
	Screen geometry.Vec2
}

// Line is the measurement line between the two handles in screen space
type Line struct {
	Start  geometry.Vec2
	End    geometry.Vec2
	Length float64 // Screen pixels
	Angle  float64 // Radians, screen orientation
}

// Frame is everything a presenter needs to draw one state of the viewer.
// DistanceText, AzimuthText, ClearEnabled and ModeEnabled feed the distance
// display, azimuth display, clear button and mode button respectively.
type Frame struct {
	Transform    viewport.Transform
	ImageSize    geometry.Size
	Handles      []Handle
	Line         *Line
	Result       measurement.Result
	DistanceText string
	AzimuthText  string
	ClearEnabled bool
	ModeEnabled  bool
	Dragging     bool
	Cursor       Cursor
	Instructions []string
}

// BuildFrame projects a measurement state through a transform. Screen
// positions are always derived from the image-space points.
func BuildFrame(t viewport.Transform, image geometry.Size, state measurement.State, f *measurement.Formatter, dragging bool) Frame {
	frame := Frame{
		Transform:    t,
		ImageSize:    image,
		Handles:      make([]Handle, 0, len(state.Points)),
		Result:       state.Result,
		DistanceText: f.Distance(state.Result),
		AzimuthText:  f.Azimuth(state.Result),
		ClearEnabled: len(state.Points) > 0,
		ModeEnabled:  state.ModeEnabled,
		Dragging:     dragging,
	}

	for _, p := range state.Points {
		frame.Handles = append(frame.Handles, Handle{
			Role:   p.Role,
			Label:  p.Role.Label(),
			Image:  p.Position,
			Screen: t.ImageToScreen(p.Position),
		})
	}

	if len(frame.Handles) == 2 && state.Result.Valid {
		start, end := frame.Handles[0].Screen, frame.Handles[1].Screen
		d := end.Sub(start)
		frame.Line = &Line{
			Start:  start,
			End:    end,
			Length: state.Result.Distance * t.Scale,
			Angle:  math.Atan2(d.Y, d.X),
		}
	}

	switch {
	case state.ModeEnabled:
		frame.Cursor = CursorCrosshair
	case dragging:
		frame.Cursor = CursorGrabbing
	default:
		frame.Cursor = CursorGrab
	}

	if state.ModeEnabled {
		frame.Instructions = instructions(len(state.Points))
	}
	return frame
}

func instructions(points int) []string {
	next := "Click to place a new point (clears the current ones)"
	switch points {
	case 0:
		next = "Click to place the green point (A)"
	case 1:
		next = "Click to place the red point (B)"
	}

	status := "Measurement active"
	if points < 2 {
		status = "Place both points to measure"
	}

	return []string{
		"Turn measurement mode off to pan the map",
		next,
		"Drag points to fine-tune their position",
		status,
	}
}
