package roi

import "math"

// DefaultFallbackHeight substitutes for a container height that has not been
// laid out yet.
const DefaultFallbackHeight = 400.0

// RenderGeometry describes where the image is drawn inside its container:
// the fitted pixel size and the letterbox (or pillarbox) offsets.
// The zero value means "not yet known".
type RenderGeometry struct {
	RenderedWidth  float64
	RenderedHeight float64
	OffsetX        float64
	OffsetY        float64
}

// Valid reports whether the geometry can be used for mapping.
func (g RenderGeometry) Valid() bool {
	return g.RenderedWidth > 0 && g.RenderedHeight > 0
}

// ImageRect returns the container-relative rectangle covered by the image.
func (g RenderGeometry) ImageRect() Rect {
	return Rect{X: g.OffsetX, Y: g.OffsetY, Width: g.RenderedWidth, Height: g.RenderedHeight}
}

// ComputeRenderGeometry fits an image of the given natural size inside the
// container, preserving aspect ratio and centering the leftover space.
//
// A container height below one pixel is replaced by fallbackHeight so early
// layouts stay stable. An unknown natural size or a zero-width container
// yields the zero geometry.
func ComputeRenderGeometry(container, natural Size, fallbackHeight float64) RenderGeometry {
	if natural.Width <= 0 || natural.Height <= 0 || container.Width <= 0 {
		return RenderGeometry{}
	}
	ch := container.Height
	if ch < 1 {
		ch = fallbackHeight
	}
	if ch <= 0 {
		return RenderGeometry{}
	}

	scale := math.Min(container.Width/natural.Width, ch/natural.Height)
	w := natural.Width * scale
	h := natural.Height * scale
	return RenderGeometry{
		RenderedWidth:  w,
		RenderedHeight: h,
		OffsetX:        (container.Width - w) / 2,
		OffsetY:        (ch - h) / 2,
	}
}

// ToNormalized converts a screen point to normalized image coordinates.
// origin is the container's screen position. Both axes are clamped to
// [0, 1], so points past the image edge saturate.
func ToNormalized(p Vec2, g RenderGeometry, origin Vec2) Vec2 {
	if !g.Valid() {
		return Vec2{}
	}
	x := (p.X - origin.X - g.OffsetX) / g.RenderedWidth
	y := (p.Y - origin.Y - g.OffsetY) / g.RenderedHeight
	return Vec2{X: clamp01(x), Y: clamp01(y)}
}

// ToScreenRect converts a normalized box to a container-relative pixel
// rectangle.
func ToScreenRect(b BoundingBox, g RenderGeometry) Rect {
	return Rect{
		X:      g.OffsetX + b.X*g.RenderedWidth,
		Y:      g.OffsetY + b.Y*g.RenderedHeight,
		Width:  b.Width * g.RenderedWidth,
		Height: b.Height * g.RenderedHeight,
	}
}
