// Package measurement holds the two-point distance/azimuth tool.
package measurement

import (
	"log/slog"

	"github.com/philipparndt/gomap/pkg/geometry"
)

// Session owns up to two measurement points in image space and the
// measurement-mode flag. The point slice is never modified in place: each
// change builds a new slice, so snapshots handed out earlier stay valid.
type Session struct {
	bounds geometry.Size
	points []Point
	mode   bool
	result Result
	logger *slog.Logger
}

// NewSession creates an empty session for an image of the given size
func NewSession(bounds geometry.Size, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		bounds: bounds,
		points: make([]Point, 0, 2),
		logger: logger,
	}
}

// Bounds returns the image size points are constrained to
func (s *Session) Bounds() geometry.Size {
	return s.bounds
}

// SetBounds changes the image size. Points are cleared when the size differs
// because their coordinates no longer refer to the same pixels.
func (s *Session) SetBounds(bounds geometry.Size) {
	if bounds == s.bounds {
		return
	}
	s.bounds = bounds
	s.Clear()
}

// PlacePoint adds a point at an image-space position. Positions outside the
// image are rejected. With two points already placed the session restarts and
// the new point becomes Point A. Reports whether a point was placed.
func (s *Session) PlacePoint(p geometry.Vec2) bool {
	if !s.bounds.Contains(p) {
		s.logger.Debug("placement outside image rejected", "x", p.X, "y", p.Y)
		return false
	}

	current := s.points
	if len(current) >= 2 {
		current = nil
	}

	role := RoleFirst
	if len(current) == 1 {
		role = RoleSecond
	}

	next := make([]Point, len(current), 2)
	copy(next, current)
	next = append(next, Point{Position: p, Role: role})
	s.setPoints(next)

	s.logger.Debug("point placed", "role", role.String(), "x", p.X, "y", p.Y)
	return true
}

// DragPoint moves an existing point, clamping the position to the image.
// Reports false for an unknown index.
func (s *Session) DragPoint(index int, p geometry.Vec2) bool {
	if index < 0 || index >= len(s.points) {
		return false
	}

	next := make([]Point, len(s.points), 2)
	copy(next, s.points)
	next[index].Position = s.bounds.Clamp(p)
	s.setPoints(next)
	return true
}

// Clear removes all points. Calling it on an empty session is a no-op.
func (s *Session) Clear() {
	if len(s.points) == 0 {
		return
	}
	s.setPoints(make([]Point, 0, 2))
	s.logger.Debug("points cleared")
}

// ToggleMode flips measurement mode and returns the new value. Points are kept.
func (s *Session) ToggleMode() bool {
	s.mode = !s.mode
	return s.mode
}

// SetMode sets measurement mode explicitly
func (s *Session) SetMode(enabled bool) {
	s.mode = enabled
}

// ModeEnabled reports whether clicks place points
func (s *Session) ModeEnabled() bool {
	return s.mode
}

// Len returns the number of placed points
func (s *Session) Len() int {
	return len(s.points)
}

// Point returns the point at index
func (s *Session) Point(index int) (Point, bool) {
	if index < 0 || index >= len(s.points) {
		return Point{}, false
	}
	return s.points[index], true
}

// Result returns the current measurement
func (s *Session) Result() Result {
	return s.result
}

// Snapshot returns the current state. The returned slice is shared with the
// session but never written again.
func (s *Session) Snapshot() State {
	return State{
		Points:      s.points,
		ModeEnabled: s.mode,
		Result:      s.result,
	}
}

func (s *Session) setPoints(points []Point) {
	s.points = points
	s.result = computePoints(points)
}
