package measurement

import (
	"github.com/philipparndt/gomap/pkg/geometry"
)

// Role identifies a measurement point's position in the A→B pair
type Role int

const (
	RoleFirst  Role = iota // Point A, the origin of the measurement
	RoleSecond             // Point B, the target of the measurement
)

// Label returns the caption shown next to the point's handle
func (r Role) Label() string {
	if r == RoleSecond {
		return "Point B"
	}
	return "Point A"
}

func (r Role) String() string {
	if r == RoleSecond {
		return "second"
	}
	return "first"
}

// Point is a measurement point in image space
type Point struct {
	Position geometry.Vec2
	Role     Role
}

// Result holds the derived values of a complete A→B measurement
type Result struct {
	Valid         bool    // Set only when both points exist
	Distance      float64 // Image-space units
	Azimuth       float64 // Degrees in [0, 360), 0 = image up, clockwise
	AzimuthScaled float64 // Azimuth * AzimuthFactor
}

// State is an immutable snapshot of a session
type State struct {
	Points      []Point
	ModeEnabled bool
	Result      Result
}
