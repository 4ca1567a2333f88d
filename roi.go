package roi

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// toRGBA converts to the 8-bit premultiplied form expected by ebiten.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// Vec2 is a 2D point or offset.
type Vec2 struct {
	X, Y float64
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Overlaps reports whether r and other share interior area.
// Rectangles that only touch along an edge do not overlap.
func (r Rect) Overlaps(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Handle identifies one of the four corner affordances used to resize a box.
type Handle uint8

const (
	HandleTopLeft     Handle = iota // moves x and y, keeps the bottom-right corner
	HandleTopRight                  // moves y and the right edge
	HandleBottomLeft                // moves x and the bottom edge
	HandleBottomRight               // moves the right and bottom edges only
)

var handleNames = [...]string{"top-left", "top-right", "bottom-left", "bottom-right"}

// String returns the kebab-case handle name.
func (h Handle) String() string {
	if int(h) < len(handleNames) {
		return handleNames[h]
	}
	return "unknown"
}

// handles lists every handle in hit-test order.
var handles = [...]Handle{HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight}

// corner returns the handle's corner of b.
func (h Handle) corner(b BoundingBox) Vec2 {
	switch h {
	case HandleTopLeft:
		return Vec2{b.X, b.Y}
	case HandleTopRight:
		return Vec2{b.X + b.Width, b.Y}
	case HandleBottomLeft:
		return Vec2{b.X, b.Y + b.Height}
	default:
		return Vec2{b.X + b.Width, b.Y + b.Height}
	}
}

// opposite returns the diagonally opposite handle.
func (h Handle) opposite() Handle {
	switch h {
	case HandleTopLeft:
		return HandleBottomRight
	case HandleTopRight:
		return HandleBottomLeft
	case HandleBottomLeft:
		return HandleTopRight
	default:
		return HandleTopLeft
	}
}

// BoxEventType identifies a committed box edit.
type BoxEventType uint8

const (
	BoxCreated   BoxEventType = iota // a drawing gesture produced a box
	BoxMoved                         // a move gesture finished
	BoxResized                       // a resize gesture finished with a usable box
	BoxDiscarded                     // a drawn or resized box was too small and dropped
	BoxDeleted                       // the active box was deleted explicitly
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
