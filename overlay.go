package roi

import (
	"image"
	"io"
	"os"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// BoxView is a box as it should be drawn this frame.
type BoxView struct {
	ID     string
	Rect   Rect // container-relative pixels
	Active bool
}

// LabelView is a positioned read-only label.
type LabelView struct {
	ID         string
	Text       string
	Rect       Rect // natural container-relative rectangle
	Offset     float64
	StackOrder int
}

// Overlay is the top-level object: it owns the box store, the editor, the
// label layout engine and the image, and implements ebiten.Game.
type Overlay struct {
	cfg    Config
	boxes  *BoxStore
	editor *Editor
	labels *LabelLayout
	font   LabelFont

	image     *ebiten.Image
	natural   Size
	container Rect
	geometry  RenderGeometry
	// fixedContainer is set once SetContainer is called; Layout then stops
	// resizing the container to the window.
	fixedContainer bool

	editing bool
	loading bool

	handlers handlerRegistry
	mounted  []CallbackHandle

	input inputState
	// ExternalInput stops Update from polling mouse and touch. Input then
	// arrives only through the Inject methods or Editor's pointer methods.
	ExternalInput bool

	debug    bool
	debugOut io.Writer

	// ClearColor fills the letterbox area.
	ClearColor Color
	showFPS    bool

	screenshotQueue []string
	testRunner      *TestRunner
}

// NewOverlay creates an overlay in editing mode with no image.
func NewOverlay(cfg Config) *Overlay {
	o := &Overlay{
		cfg:        cfg,
		boxes:      NewBoxStore(),
		font:       DefaultLabelFont(),
		editing:    true,
		debugOut:   os.Stderr,
		ClearColor: Color{R: 0.1, G: 0.1, B: 0.12, A: 1},
	}
	o.editor = NewEditor(o.boxes, cfg)
	o.labels = NewLabelLayout(cfg)
	o.editor.logf = o.debugf
	o.labels.logf = o.debugf
	o.debug = cfg.Debug
	o.mount()
	return o
}

// mount registers the overlay's own listeners. Close removes them.
func (o *Overlay) mount() {
	o.mounted = append(o.mounted,
		o.OnResize(func(g RenderGeometry) {
			o.editor.SetGeometry(g, Vec2{X: o.container.X, Y: o.container.Y})
		}),
		o.OnResize(func(RenderGeometry) {
			o.labels.Invalidate()
		}),
		o.boxes.OnChange(func(boxes []Box) {
			o.syncLabelTargets(boxes)
			o.labels.Invalidate()
		}),
	)
}

// Close unregisters every listener the overlay installed and drops label
// placements. Callbacks registered by the caller are left alone.
func (o *Overlay) Close() {
	for _, h := range o.mounted {
		h.Remove()
	}
	o.mounted = nil
	o.labels.Clear()
}

// Store returns the overlay's box store.
func (o *Overlay) Store() *BoxStore { return o.boxes }

// Editor returns the interaction state machine.
func (o *Overlay) Editor() *Editor { return o.editor }

// Labels returns the label layout engine.
func (o *Overlay) Labels() *LabelLayout { return o.labels }

// Geometry returns the current render geometry.
func (o *Overlay) Geometry() RenderGeometry { return o.geometry }

// SetFont replaces the label font.
func (o *Overlay) SetFont(f LabelFont) {
	o.font = f
	o.labels.Invalidate()
}

// SetImage sets the displayed image. Its bounds become the natural size.
func (o *Overlay) SetImage(img image.Image) {
	o.image = ebiten.NewImageFromImage(img)
	b := img.Bounds()
	o.SetNaturalSize(float64(b.Dx()), float64(b.Dy()))
}

// SetNaturalSize sets the image's natural pixel size without an image,
// for hosts that draw the image themselves.
func (o *Overlay) SetNaturalSize(w, h float64) {
	n := Size{Width: w, Height: h}
	if n == o.natural {
		return
	}
	o.natural = n
	o.relayout()
}

// SetContainer fixes the container's screen rectangle. Without it the
// container follows the window size reported to Layout.
func (o *Overlay) SetContainer(r Rect) {
	o.fixedContainer = true
	o.setContainer(r)
}

func (o *Overlay) setContainer(r Rect) {
	if r == o.container {
		return
	}
	o.container = r
	o.relayout()
}

// relayout recomputes the render geometry and notifies resize listeners.
func (o *Overlay) relayout() {
	size := Size{Width: o.container.Width, Height: o.container.Height}
	o.geometry = ComputeRenderGeometry(size, o.natural, o.cfg.FallbackHeight)
	for _, h := range o.handlers.resize {
		h.fn(o.geometry)
	}
}

// OnResize registers fn to run whenever the render geometry is recomputed.
func (o *Overlay) OnResize(fn func(RenderGeometry)) CallbackHandle {
	return o.handlers.addResize(fn)
}

// OnBoxesChange registers fn to receive the full box collection after every
// change, including the zero-size box that starts a drawing gesture.
func (o *Overlay) OnBoxesChange(fn func([]Box)) CallbackHandle {
	return o.boxes.OnChange(fn)
}

// SetBoxes replaces the collection, for example after identification.
func (o *Overlay) SetBoxes(boxes []Box) error {
	return o.boxes.ReplaceAll(boxes)
}

// Boxes returns a copy of the current collection.
func (o *Overlay) Boxes() []Box {
	return o.boxes.Boxes()
}

// SetEditing switches between editing and read-only display. Entering
// editing clears label placements; leaving it schedules a layout pass.
func (o *Overlay) SetEditing(editing bool) {
	if editing == o.editing {
		return
	}
	o.editing = editing
	o.editor.SetEditing(editing)
	if editing {
		o.labels.Clear()
	} else {
		o.labels.Invalidate()
	}
}

// Editing reports whether the overlay accepts edits.
func (o *Overlay) Editing() bool { return o.editing }

// SetLoading shows or hides the busy overlay. Pointer input is ignored and
// label layout is suspended while loading.
func (o *Overlay) SetLoading(loading bool) {
	if loading == o.loading {
		return
	}
	o.loading = loading
	if loading {
		o.cancelHeldPointers()
	}
	o.labels.Invalidate()
}

// Loading reports whether the busy overlay is shown.
func (o *Overlay) Loading() bool { return o.loading }

// DeleteActive removes the selected box, if any.
func (o *Overlay) DeleteActive() bool {
	return o.editor.Delete(o.editor.ActiveID())
}

// SetEntityStore sets the optional sink for committed box edits.
func (o *Overlay) SetEntityStore(store EntityStore) {
	o.editor.SetEntityStore(store)
}

// Update processes input and advances the label layout. It implements
// ebiten.Game.
func (o *Overlay) Update() error {
	o.update(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

func (o *Overlay) update(dt time.Duration) {
	if o.testRunner != nil {
		o.testRunner.step(o)
	}
	if !o.loading {
		o.processInput()
	}
	o.labels.Update(dt, LayoutInput{
		Boxes:   o.boxes.boxes,
		Editing: o.editing,
		Loading: o.loading,
	})
}

// Layout implements ebiten.Game. The window size is the container size
// unless SetContainer fixed it.
func (o *Overlay) Layout(outsideWidth, outsideHeight int) (int, int) {
	if !o.fixedContainer {
		o.setContainer(Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)})
	}
	return outsideWidth, outsideHeight
}

// BoxViews returns every box's screen rectangle in paint order. Rectangles
// are container-relative.
func (o *Overlay) BoxViews() []BoxView {
	if !o.geometry.Valid() {
		return nil
	}
	active := o.editor.ActiveID()
	views := make([]BoxView, 0, len(o.boxes.boxes))
	for _, b := range o.boxes.boxes {
		views = append(views, BoxView{
			ID:     b.ID,
			Rect:   ToScreenRect(b.BoundingBox, o.geometry),
			Active: o.editing && b.ID == active,
		})
	}
	return views
}

// LabelViews returns the read-only labels in draw order (lowest stack order
// first). It is empty while editing.
func (o *Overlay) LabelViews() []LabelView {
	if o.editing || !o.geometry.Valid() {
		return nil
	}
	var views []LabelView
	for _, b := range o.boxes.boxes {
		text := b.Label()
		if text == "" {
			continue
		}
		p := o.labels.Placement(b.ID)
		views = append(views, LabelView{
			ID:         b.ID,
			Text:       text,
			Rect:       labelRect(o.font, text, ToScreenRect(b.BoundingBox, o.geometry), o.geometry),
			Offset:     o.labels.DisplayOffset(b.ID),
			StackOrder: p.StackOrder,
		})
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].StackOrder < views[j].StackOrder
	})
	return views
}

// syncLabelTargets registers a measurement target for every labelled box
// and drops targets whose box is gone or unlabelled.
func (o *Overlay) syncLabelTargets(boxes []Box) {
	labelled := make(map[string]struct{}, len(boxes))
	for _, b := range boxes {
		if b.Label() == "" {
			continue
		}
		labelled[b.ID] = struct{}{}
		if !o.labels.Registered(b.ID) {
			o.labels.Register(b.ID, o.measureLabel(b.ID))
		}
	}
	for id := range o.labels.targets {
		if _, ok := labelled[id]; !ok {
			o.labels.Unregister(id)
		}
	}
}

// measureLabel returns a target that measures the label of box id against
// the geometry current at measurement time.
func (o *Overlay) measureLabel(id string) MeasureFunc {
	return func() (Rect, bool) {
		b, ok := o.boxes.Box(id)
		if !ok || !o.geometry.Valid() {
			return Rect{}, false
		}
		text := b.Label()
		if text == "" {
			return Rect{}, false
		}
		return labelRect(o.font, text, ToScreenRect(b.BoundingBox, o.geometry), o.geometry), true
	}
}
