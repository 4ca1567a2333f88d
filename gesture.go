package roi

// Gesture is the interaction state of the editor. Exactly one of Idle,
// Drawing, Moving or Resizing is live at a time; switch on the concrete type.
type Gesture interface {
	gesture()
}

// Idle means no pointer gesture is in progress.
type Idle struct{}

// Drawing is a new box being spanned from Anchor to the pointer.
type Drawing struct {
	BoxID  string
	Anchor Vec2
}

// Moving is an existing box being translated by the pointer delta from Anchor.
type Moving struct {
	BoxID    string
	Anchor   Vec2
	Original BoundingBox
}

// Resizing is an existing box being reshaped by dragging one corner handle.
type Resizing struct {
	BoxID    string
	Handle   Handle
	Anchor   Vec2
	Original BoundingBox
}

func (Idle) gesture()     {}
func (Drawing) gesture()  {}
func (Moving) gesture()   {}
func (Resizing) gesture() {}

// gestureName is used in debug output.
func gestureName(g Gesture) string {
	switch g.(type) {
	case Drawing:
		return "drawing"
	case Moving:
		return "moving"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// moveBox translates orig by d, keeping it fully inside [0, 1].
func moveBox(orig BoundingBox, d Vec2) BoundingBox {
	return BoundingBox{
		X:      clamp(orig.X+d.X, 0, 1-orig.Width),
		Y:      clamp(orig.Y+d.Y, 0, 1-orig.Height),
		Width:  orig.Width,
		Height: orig.Height,
	}
}

// resizeBox moves the handle's corner of orig by d and keeps the opposite
// corner fixed. Dragging past the opposite corner flips the rectangle
// instead of producing a negative extent.
func resizeBox(orig BoundingBox, h Handle, d Vec2) BoundingBox {
	fixed := h.opposite().corner(orig)
	c := h.corner(orig)
	moved := Vec2{X: clamp01(c.X + d.X), Y: clamp01(c.Y + d.Y)}
	return spanning(fixed, moved)
}
