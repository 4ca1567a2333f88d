package roi

// syntheticKind is the phase of an injected pointer event.
type syntheticKind uint8

const (
	syntheticPress syntheticKind = iota
	syntheticMove
	syntheticRelease
	syntheticCancel
)

// syntheticPointerEvent is a single injected mouse event in screen
// coordinates, processed exactly like real mouse input.
type syntheticPointerEvent struct {
	screenX, screenY float64
	kind             syntheticKind
}

// InjectPress queues a pointer press at the given screen coordinates. The
// event is consumed on the next Update.
func (o *Overlay) InjectPress(x, y float64) {
	o.input.injectQueue = append(o.input.injectQueue, syntheticPointerEvent{screenX: x, screenY: y, kind: syntheticPress})
}

// InjectMove queues a move with the pointer held down. Use it between
// InjectPress and InjectRelease to simulate a drag.
func (o *Overlay) InjectMove(x, y float64) {
	o.input.injectQueue = append(o.input.injectQueue, syntheticPointerEvent{screenX: x, screenY: y, kind: syntheticMove})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (o *Overlay) InjectRelease(x, y float64) {
	o.input.injectQueue = append(o.input.injectQueue, syntheticPointerEvent{screenX: x, screenY: y, kind: syntheticRelease})
}

// InjectCancel queues a cancel of the held pointer.
func (o *Overlay) InjectCancel() {
	o.input.injectQueue = append(o.input.injectQueue, syntheticPointerEvent{kind: syntheticCancel})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (o *Overlay) InjectClick(x, y float64) {
	o.InjectPress(x, y)
	o.InjectRelease(x, y)
}

// InjectDrag queues a full drag: press at (fromX, fromY), frames-2 linearly
// interpolated moves, and a release at (toX, toY). Minimum frames is 2.
func (o *Overlay) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	o.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		o.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	o.InjectRelease(toX, toY)
}

// processInjectedInput pops one queued event and feeds it through the mouse
// pointer. Returns true if an event was consumed.
func (o *Overlay) processInjectedInput() bool {
	q := o.input.injectQueue
	if len(q) == 0 {
		return false
	}
	evt := q[0]
	copy(q, q[1:])
	o.input.injectQueue = q[:len(q)-1]

	switch evt.kind {
	case syntheticPress, syntheticMove:
		o.processPointer(0, evt.screenX, evt.screenY, true)
	case syntheticRelease:
		o.processPointer(0, evt.screenX, evt.screenY, false)
	case syntheticCancel:
		o.cancelPointer(0)
	}
	return true
}
