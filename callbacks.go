package roi

// callbackKind identifies which list a CallbackHandle belongs to.
type callbackKind uint8

const (
	callbackBoxesChange callbackKind = iota
	callbackResize
)

type boxesHandler struct {
	id uint32
	fn func([]Box)
}

type resizeHandler struct {
	id uint32
	fn func(RenderGeometry)
}

type handlerRegistry struct {
	boxesChange []boxesHandler
	resize      []resizeHandler
	nextID      uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id   uint32
	reg  *handlerRegistry
	kind callbackKind
}

// Remove unregisters this callback so it no longer fires. Removing twice is
// harmless.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.kind {
	case callbackBoxesChange:
		h.reg.boxesChange = removeBoxesHandler(h.reg.boxesChange, h.id)
	case callbackResize:
		h.reg.resize = removeResizeHandler(h.reg.resize, h.id)
	}
}

func (r *handlerRegistry) addBoxesChange(fn func([]Box)) CallbackHandle {
	r.nextID++
	r.boxesChange = append(r.boxesChange, boxesHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r, kind: callbackBoxesChange}
}

func (r *handlerRegistry) addResize(fn func(RenderGeometry)) CallbackHandle {
	r.nextID++
	r.resize = append(r.resize, resizeHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r, kind: callbackResize}
}

func removeBoxesHandler(s []boxesHandler, id uint32) []boxesHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = boxesHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func removeResizeHandler(s []resizeHandler, id uint32) []resizeHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = resizeHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}
