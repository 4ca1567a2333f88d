package roi

import "github.com/hajimehoshi/ebiten/v2"

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// pointerState tracks press transitions for one pointer slot.
type pointerState struct {
	down  bool
	lastX float64
	lastY float64
}

// inputState collapses mouse and touch into numbered pointer slots.
type inputState struct {
	pointers     [maxPointers]pointerState
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	injectQueue  []syntheticPointerEvent
}

// processInput is called from Overlay.Update to feed mouse and touch input
// to the editor. A queued synthetic event replaces real input for the frame.
func (o *Overlay) processInput() {
	if o.processInjectedInput() || o.ExternalInput {
		return
	}
	o.processMousePointer()
	o.processTouchPointers()
}

// processMousePointer handles the mouse (pointer 0). Only the left button
// edits boxes.
func (o *Overlay) processMousePointer() {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	o.processPointer(0, float64(mx), float64(my), pressed)
}

// processTouchPointers handles touch input (pointers 1-9).
func (o *Overlay) processTouchPointers() {
	in := &o.input
	touchIDs := ebiten.AppendTouchIDs(in.prevTouchIDs[:0])
	in.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		o.processPointer(slot, float64(tx), float64(ty), true)
	}

	// A touch that vanished was released at its last position.
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && !activeSlots[i] {
			ps := &in.pointers[i]
			if ps.down {
				o.processPointer(i, ps.lastX, ps.lastY, false)
			}
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (in *inputState) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer turns one pointer sample into editor calls. Presses outside
// the container are ignored; a held pointer that leaves the container
// cancels its gesture.
func (o *Overlay) processPointer(pointerID int, sx, sy float64, pressed bool) {
	ps := &o.input.pointers[pointerID]
	ev := PointerEvent{ID: pointerID, X: sx, Y: sy}
	inside := o.container.Contains(sx, sy)

	switch {
	case pressed && !ps.down:
		ps.down = true
		if inside {
			o.editor.PointerDown(ev)
		}
	case !pressed && ps.down:
		ps.down = false
		o.editor.PointerUp(ev)
	case pressed && ps.down:
		if sx != ps.lastX || sy != ps.lastY {
			if inside {
				o.editor.PointerMove(ev)
			} else {
				o.editor.PointerLeave(ev)
			}
		}
	}
	ps.lastX = sx
	ps.lastY = sy
}

// cancelPointer ends the pointer's gesture without a release position.
func (o *Overlay) cancelPointer(pointerID int) {
	ps := &o.input.pointers[pointerID]
	ps.down = false
	o.editor.PointerCancel(PointerEvent{ID: pointerID, X: ps.lastX, Y: ps.lastY})
}

// cancelHeldPointers ends the gesture of every pointer that is down. The
// pointers stay marked down, so a button or touch still held afterwards
// does not press again; its later moves and release reach an idle editor.
func (o *Overlay) cancelHeldPointers() {
	for i := range o.input.pointers {
		ps := &o.input.pointers[i]
		if ps.down {
			o.editor.PointerCancel(PointerEvent{ID: i, X: ps.lastX, Y: ps.lastY})
		}
	}
}
