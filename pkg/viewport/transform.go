// Package viewport maps between image space and screen space for a pannable,
// zoomable raster view.
package viewport

import (
	"fmt"
	"math"

	"github.com/philipparndt/gomap/pkg/geometry"
)

const (
	// DefaultMinScale is the lowest zoom factor a transform accepts
	DefaultMinScale = 0.1
	// DefaultMaxScale is the highest zoom factor a transform accepts
	DefaultMaxScale = 5.0
	// ResetScale is the zoom factor restored by Reset
	ResetScale = 1.0
)

// Limits bounds the scale of a transform
type Limits struct {
	MinScale float64
	MaxScale float64
}

// DefaultLimits returns the [0.1, 5.0] zoom range
func DefaultLimits() Limits {
	return Limits{MinScale: DefaultMinScale, MaxScale: DefaultMaxScale}
}

// Clamp returns scale restricted to the limits
func (l Limits) Clamp(scale float64) float64 {
	if l.MinScale <= 0 && l.MaxScale <= 0 {
		l = DefaultLimits()
	}
	return math.Max(l.MinScale, math.Min(l.MaxScale, scale))
}

// Transform is an immutable image-to-screen mapping:
//
//	screen = image*Scale + Offset
//	image  = (screen - Offset) / Scale
//
// Offset is the screen position of the image origin. Every operation returns
// a new Transform, so a caller never observes a half-updated mapping.
type Transform struct {
	Scale  float64
	Offset geometry.Vec2
	Limits Limits
}

// New creates a transform with the given scale (clamped) and a zero offset
func New(scale float64, limits Limits) Transform {
	return Transform{
		Scale:  limits.Clamp(scale),
		Limits: limits,
	}
}

// ImageToScreen projects an image-space point into screen space
func (t Transform) ImageToScreen(p geometry.Vec2) geometry.Vec2 {
	return p.Mul(t.Scale).Add(t.Offset)
}

// ScreenToImage converts a screen-space point back into image space
func (t Transform) ScreenToImage(p geometry.Vec2) geometry.Vec2 {
	return p.Sub(t.Offset).Div(t.Scale)
}

// ZoomAt changes the scale by delta while keeping the image point under
// anchor fixed on screen. At a limit the clamped scale is used for the anchor.
func (t Transform) ZoomAt(delta float64, anchor geometry.Vec2) Transform {
	return t.SetScaleAbsolute(t.Scale+delta, anchor)
}

// SetScaleAbsolute sets the scale directly, anchored the same way as ZoomAt.
// The anchor's image point is taken from the receiver, so callers that hold a
// baseline transform (pinch) get a drift-free result.
func (t Transform) SetScaleAbsolute(scale float64, anchor geometry.Vec2) Transform {
	anchorImage := t.ScreenToImage(anchor)
	t.Scale = t.Limits.Clamp(scale)
	t.Offset = anchor.Sub(anchorImage.Mul(t.Scale))
	return t
}

// WithOffset returns the transform translated so the image origin sits at offset
func (t Transform) WithOffset(offset geometry.Vec2) Transform {
	t.Offset = offset
	return t
}

// Pan translates the transform by a screen-space delta
func (t Transform) Pan(delta geometry.Vec2) Transform {
	t.Offset = t.Offset.Add(delta)
	return t
}

// CenterOn places the image in the middle of the container at the current scale
func (t Transform) CenterOn(container, image geometry.Size) Transform {
	t.Offset = geometry.Vec2{
		X: (container.Width - image.Width*t.Scale) / 2,
		Y: (container.Height - image.Height*t.Scale) / 2,
	}
	return t
}

// Reset restores a scale of 1 and re-centers the image
func (t Transform) Reset(container, image geometry.Size) Transform {
	t.Scale = t.Limits.Clamp(ResetScale)
	return t.CenterOn(container, image)
}

// String formats the transform for logs
func (t Transform) String() string {
	return fmt.Sprintf("scale=%.3f offset=(%.1f, %.1f)", t.Scale, t.Offset.X, t.Offset.Y)
}
