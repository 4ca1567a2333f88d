package roi

import "math"

// PointerEvent is a mouse or touch sample in screen coordinates. Mouse is
// pointer 0; touches use ids 1 and up.
type PointerEvent struct {
	ID   int
	X, Y float64
}

// EntityStore receives committed box edits. Set one on an Editor (or
// Overlay) to mirror edits into another system, such as an ECS world.
type EntityStore interface {
	EmitEvent(event BoxEvent)
}

// BoxEvent describes one committed edit.
type BoxEvent struct {
	Type  BoxEventType
	BoxID string
	Box   BoundingBox
}

// Editor turns pointer gestures into box edits. It holds one Gesture at a
// time, so only one edit is ever live; a new gesture can only start from
// Idle. Every change goes through BoxStore.ReplaceAll.
type Editor struct {
	boxes   *BoxStore
	gesture Gesture
	pointer int
	active  string

	geometry RenderGeometry
	origin   Vec2
	editing  bool

	minSize    float64
	handleSize float64

	entities EntityStore
	logf     func(format string, args ...any)
}

// NewEditor creates an editor over boxes. Editing starts enabled; input is
// still ignored until SetGeometry supplies a valid geometry.
func NewEditor(boxes *BoxStore, cfg Config) *Editor {
	return &Editor{
		boxes:      boxes,
		gesture:    Idle{},
		editing:    true,
		minSize:    cfg.MinBoxSize,
		handleSize: cfg.HandleSize,
	}
}

// Gesture returns the current interaction state.
func (e *Editor) Gesture() Gesture {
	return e.gesture
}

// ActiveID returns the id of the selected box, or "".
func (e *Editor) ActiveID() string {
	return e.active
}

// Editing reports whether pointer input is accepted.
func (e *Editor) Editing() bool {
	return e.editing
}

// SetEntityStore sets the optional edit sink.
func (e *Editor) SetEntityStore(store EntityStore) {
	e.entities = store
}

// SetGeometry updates the render geometry and the container's screen origin
// used to map pointer positions.
func (e *Editor) SetGeometry(g RenderGeometry, origin Vec2) {
	e.geometry = g
	e.origin = origin
}

// SetEditing enables or disables editing. Disabling cancels any live gesture
// and clears the selection; while disabled the editor stays Idle.
func (e *Editor) SetEditing(enabled bool) {
	if !enabled && e.editing {
		e.finish(e.pointer)
		e.active = ""
	}
	e.editing = enabled
}

// PointerDown starts a gesture: resize when a handle of the active box is
// hit, move when a box body is hit, otherwise draw a new box at the pointer.
func (e *Editor) PointerDown(ev PointerEvent) {
	if !e.editing || !e.geometry.Valid() {
		return
	}
	if _, idle := e.gesture.(Idle); !idle {
		return
	}

	p := e.normalized(ev)
	local := Vec2{X: ev.X - e.origin.X, Y: ev.Y - e.origin.Y}
	box, handle, onHandle, hit := e.hitTest(local)

	switch {
	case hit && onHandle:
		e.gesture = Resizing{BoxID: box.ID, Handle: handle, Anchor: p, Original: box.BoundingBox}
		e.active = box.ID
	case hit:
		e.gesture = Moving{BoxID: box.ID, Anchor: p, Original: box.BoundingBox}
		e.active = box.ID
	default:
		b := Box{ID: NewBoxID(), BoundingBox: BoundingBox{X: p.X, Y: p.Y}}
		if !e.commit(append(e.boxes.Boxes(), b)) {
			return
		}
		e.gesture = Drawing{BoxID: b.ID, Anchor: p}
		e.active = b.ID
	}
	e.pointer = ev.ID
	e.debugf("pointer %d down: %s", ev.ID, gestureName(e.gesture))
}

// PointerMove updates the live gesture from the pointer position. Box
// geometry is derived from the gesture's anchor and original box, so
// dropped intermediate moves do not matter.
func (e *Editor) PointerMove(ev PointerEvent) {
	if !e.tracking(ev.ID) || !e.geometry.Valid() {
		return
	}
	p := e.normalized(ev)

	switch g := e.gesture.(type) {
	case Drawing:
		e.apply(g.BoxID, spanning(g.Anchor, p))
	case Moving:
		e.apply(g.BoxID, moveBox(g.Original, Vec2{X: p.X - g.Anchor.X, Y: p.Y - g.Anchor.Y}))
	case Resizing:
		e.apply(g.BoxID, resizeBox(g.Original, g.Handle, Vec2{X: p.X - g.Anchor.X, Y: p.Y - g.Anchor.Y}))
	case Idle:
	}
}

// PointerUp applies the release position and ends the gesture.
func (e *Editor) PointerUp(ev PointerEvent) {
	if !e.tracking(ev.ID) {
		return
	}
	e.PointerMove(ev)
	e.finish(ev.ID)
}

// PointerCancel ends the gesture without applying ev's position.
func (e *Editor) PointerCancel(ev PointerEvent) {
	e.finish(ev.ID)
}

// PointerLeave is a cancel caused by the pointer leaving the surface.
func (e *Editor) PointerLeave(ev PointerEvent) {
	e.finish(ev.ID)
}

// Delete removes the box with the given id. Only the active box can be
// deleted. It reports whether a box was removed.
func (e *Editor) Delete(id string) bool {
	if id == "" || id != e.active {
		return false
	}
	b, ok := e.boxes.Box(id)
	if !ok {
		e.active = ""
		return false
	}
	if !e.commit(e.boxes.without(id)) {
		return false
	}
	e.active = ""
	if gestureBoxID(e.gesture) == id {
		e.gesture = Idle{}
	}
	e.emit(BoxDeleted, id, b.BoundingBox)
	e.debugf("box %s deleted", id)
	return true
}

// finish returns to Idle. Drawn or resized boxes below the minimum size are
// dropped from the store.
func (e *Editor) finish(pointerID int) {
	if !e.tracking(pointerID) {
		return
	}
	g := e.gesture
	e.gesture = Idle{}

	id := gestureBoxID(g)
	b, ok := e.boxes.Box(id)
	if !ok {
		return
	}

	switch g.(type) {
	case Drawing, Resizing:
		if b.BoundingBox.TooSmall(e.minSize) {
			if e.commit(e.boxes.without(id)) {
				if e.active == id {
					e.active = ""
				}
				e.emit(BoxDiscarded, id, b.BoundingBox)
				e.debugf("box %s discarded (%.4f x %.4f)", id, b.BoundingBox.Width, b.BoundingBox.Height)
			}
			return
		}
		if _, drawing := g.(Drawing); drawing {
			e.emit(BoxCreated, id, b.BoundingBox)
		} else {
			e.emit(BoxResized, id, b.BoundingBox)
		}
	case Moving:
		e.emit(BoxMoved, id, b.BoundingBox)
	}
	e.debugf("pointer %d up: %s finished", pointerID, gestureName(g))
}

// tracking reports whether pointerID drives the live gesture.
func (e *Editor) tracking(pointerID int) bool {
	if _, idle := e.gesture.(Idle); idle {
		return false
	}
	return pointerID == e.pointer
}

// apply replaces the bounds of box id. A missing box aborts the gesture.
func (e *Editor) apply(id string, bb BoundingBox) {
	b, ok := e.boxes.Box(id)
	if !ok {
		e.debugf("box %s vanished during %s, aborting", id, gestureName(e.gesture))
		e.gesture = Idle{}
		return
	}
	if b.BoundingBox == bb {
		return
	}
	e.commit(e.boxes.replaced(b.withBounds(bb)))
}

func (e *Editor) commit(boxes []Box) bool {
	if err := e.boxes.ReplaceAll(boxes); err != nil {
		e.debugf("%v", err)
		return false
	}
	return true
}

func (e *Editor) normalized(ev PointerEvent) Vec2 {
	return ToNormalized(Vec2{X: ev.X, Y: ev.Y}, e.geometry, e.origin)
}

// hitTest finds the topmost box under the container-relative point. Only
// the active box shows corner handles, so only its handles are hit; they
// are checked before its body.
func (e *Editor) hitTest(local Vec2) (box Box, handle Handle, onHandle, hit bool) {
	boxes := e.boxes.boxes
	half := e.handleSize / 2
	for i := len(boxes) - 1; i >= 0; i-- {
		b := boxes[i]
		r := ToScreenRect(b.BoundingBox, e.geometry)
		if b.ID == e.active {
			for _, h := range handles {
				c := h.corner(BoundingBox{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height})
				if math.Abs(local.X-c.X) <= half && math.Abs(local.Y-c.Y) <= half {
					return b, h, true, true
				}
			}
		}
		if r.Contains(local.X, local.Y) {
			return b, 0, false, true
		}
	}
	return Box{}, 0, false, false
}

func (e *Editor) emit(t BoxEventType, id string, bb BoundingBox) {
	if e.entities == nil {
		return
	}
	e.entities.EmitEvent(BoxEvent{Type: t, BoxID: id, Box: bb})
}

func (e *Editor) debugf(format string, args ...any) {
	if e.logf != nil {
		e.logf(format, args...)
	}
}

func gestureBoxID(g Gesture) string {
	switch g := g.(type) {
	case Drawing:
		return g.BoxID
	case Moving:
		return g.BoxID
	case Resizing:
		return g.BoxID
	default:
		return ""
	}
}
