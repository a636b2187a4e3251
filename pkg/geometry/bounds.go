package geometry

// Size is a width/height pair in the units of its coordinate space
type Size struct {
	Width, Height float64
}

// NewSize creates a new size
func NewSize(width, height float64) Size {
	return Size{Width: width, Height: height}
}

// Center returns the center of a box of this size anchored at the origin
func (s Size) Center() Vec2 {
	return Vec2{X: s.Width / 2, Y: s.Height / 2}
}

// Contains reports whether p lies in [0,Width]x[0,Height], edges included
func (s Size) Contains(p Vec2) bool {
	return p.X >= 0 && p.X <= s.Width && p.Y >= 0 && p.Y <= s.Height
}

// Clamp returns the point of [0,Width]x[0,Height] nearest to p
func (s Size) Clamp(p Vec2) Vec2 {
	return p.Max(Vec2{}).Min(Vec2{X: s.Width, Y: s.Height})
}

// IsEmpty reports whether the size has no area
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle given by its top-left corner and size
type Rect struct {
	Min  Vec2
	Size Size
}

// NewRect creates a rectangle from its top-left corner and dimensions
func NewRect(x, y, width, height float64) Rect {
	return Rect{Min: Vec2{X: x, Y: y}, Size: Size{Width: width, Height: height}}
}

// Center returns the center point of the rectangle
func (r Rect) Center() Vec2 {
	return r.Min.Add(r.Size.Center())
}

// Local converts an absolute point into coordinates relative to the rectangle's corner
func (r Rect) Local(p Vec2) Vec2 {
	return p.Sub(r.Min)
}

// Contains reports whether the absolute point p lies inside the rectangle
func (r Rect) Contains(p Vec2) bool {
	return r.Size.Contains(r.Local(p))
}
