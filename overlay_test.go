package roi

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

const frame = time.Second / 60

// newTestOverlay returns an overlay with a 1000x500 image fitted into a
// 1000x1000 container at the screen origin, so the image spans
// y = 250..750 and normalized (x, y) maps to (1000x, 250+500y).
func newTestOverlay(t *testing.T, cfg Config) *Overlay {
	t.Helper()
	o := NewOverlay(cfg)
	o.ExternalInput = true
	o.SetDebugOutput(nil)
	o.SetNaturalSize(1000, 500)
	o.SetContainer(Rect{Width: 1000, Height: 1000})
	t.Cleanup(o.Close)
	return o
}

func screenAt(x, y float64) (float64, float64) {
	return 1000 * x, 250 + 500*y
}

// runFrames advances the overlay by n frames.
func runFrames(o *Overlay, n int) {
	for i := 0; i < n; i++ {
		o.update(frame)
	}
}

func TestOverlayGeometry(t *testing.T) {
	o := newTestOverlay(t, DefaultConfig())
	want := RenderGeometry{RenderedWidth: 1000, RenderedHeight: 500, OffsetX: 0, OffsetY: 250}
	if o.Geometry() != want {
		t.Errorf("geometry = %+v, want %+v", o.Geometry(), want)
	}
	if o.Editor().geometry != want {
		t.Error("editor geometry not updated on resize")
	}
}

func TestOverlayNoImageIgnoresInput(t *testing.T) {
	o := NewOverlay(DefaultConfig())
	o.ExternalInput = true
	o.SetContainer(Rect{Width: 800, Height: 600})
	t.Cleanup(o.Close)

	o.InjectDrag(100, 100, 400, 400, 3)
	runFrames(o, 3)
	if len(o.Boxes()) != 0 {
		t.Errorf("boxes = %v, want none before the image size is known", o.Boxes())
	}
	if o.BoxViews() != nil {
		t.Error("BoxViews should be empty without geometry")
	}
}

func TestOverlayDrawThroughInjectedInput(t *testing.T) {
	o := newTestOverlay(t, DefaultConfig())
	var changes int
	o.OnBoxesChange(func([]Box) { changes++ })

	fx, fy := screenAt(0.2, 0.2)
	tx, ty := screenAt(0.5, 0.5)
	o.InjectDrag(fx, fy, tx, ty, 4)
	runFrames(o, 4)

	boxes := o.Boxes()
	if len(boxes) != 1 {
		t.Fatalf("boxes = %v, want one", boxes)
	}
	want := BoundingBox{X: 0.2, Y: 0.2, Width: 0.3, Height: 0.3}
	if !bboxApprox(boxes[0].BoundingBox, want) {
		t.Errorf("box = %+v, want %+v", boxes[0].BoundingBox, want)
	}
	if changes < 2 {
		t.Errorf("listener called %d times, want the zero-size box and later updates", changes)
	}

	views := o.BoxViews()
	if len(views) != 1 || !views[0].Active {
		t.Fatalf("views = %+v, want one active box", views)
	}
	r := views[0].Rect
	if !approxEqual(r.X, 200, 1e-6) || !approxEqual(r.Y, 350, 1e-6) ||
		!approxEqual(r.Width, 300, 1e-6) || !approxEqual(r.Height, 150, 1e-6) {
		t.Errorf("view rect = %+v", r)
	}
}

func TestOverlayContainerOffset(t *testing.T) {
	o := NewOverlay(DefaultConfig())
	o.ExternalInput = true
	o.SetNaturalSize(100, 100)
	o.SetContainer(Rect{X: 50, Y: 30, Width: 200, Height: 200})
	t.Cleanup(o.Close)

	// Press outside the container is ignored.
	o.InjectDrag(10, 10, 100, 100, 2)
	runFrames(o, 2)
	if len(o.Boxes()) != 0 {
		t.Fatalf("press outside the container created %v", o.Boxes())
	}

	o.InjectDrag(50+20, 30+40, 50+120, 30+140, 2)
	runFrames(o, 2)
	want := BoundingBox{X: 0.1, Y: 0.2, Width: 0.5, Height: 0.5}
	if got := o.Boxes(); len(got) != 1 || !bboxApprox(got[0].BoundingBox, want) {
		t.Errorf("boxes = %v, want %+v", got, want)
	}
}

func TestOverlayLeavingContainerEndsGesture(t *testing.T) {
	o := newTestOverlay(t, DefaultConfig())
	px, py := screenAt(0.2, 0.2)
	mx, my := screenAt(0.4, 0.4)
	o.InjectPress(px, py)
	o.InjectMove(mx, my)
	o.InjectMove(1500, 1500)
	runFrames(o, 3)

	if _, ok := o.Editor().Gesture().(Idle); !ok {
		t.Fatalf("gesture = %T, want Idle after leaving", o.Editor().Gesture())
	}
	want := BoundingBox{X: 0.2, Y: 0.2, Width: 0.2, Height: 0.2}
	if got := o.Boxes(); len(got) != 1 || !bboxApprox(got[0].BoundingBox, want) {
		t.Errorf("boxes = %v, want %+v", got, want)
	}
}

func TestOverlayLoadingBlocksInput(t *testing.T) {
	o := newTestOverlay(t, DefaultConfig())
	o.SetLoading(true)
	if !o.Loading() {
		t.Fatal("Loading() = false")
	}
	fx, fy := screenAt(0.2, 0.2)
	o.InjectDrag(fx, fy, fx+100, fy+100, 2)
	runFrames(o, 5)
	if len(o.Boxes()) != 0 {
		t.Error("input applied while loading")
	}

	o.SetLoading(false)
	runFrames(o, 2)
	if len(o.Boxes()) != 1 {
		t.Errorf("queued input should apply after loading, boxes = %v", o.Boxes())
	}
}

func TestOverlaySetLoadingCancelsGesture(t *testing.T) {
	o := newTestOverlay(t, DefaultConfig())
	fx, fy := screenAt(0.2, 0.2)
	o.InjectPress(fx, fy)
	runFrames(o, 1)
	if _, ok := o.Editor().Gesture().(Drawing); !ok {
		t.Fatalf("gesture = %T, want Drawing", o.Editor().Gesture())
	}
	o.SetLoading(true)
	if _, ok := o.Editor().Gesture().(Idle); !ok {
		t.Errorf("gesture = %T, want Idle", o.Editor().Gesture())
	}
	if len(o.Boxes()) != 0 {
		t.Errorf("zero-size box should be discarded, boxes = %v", o.Boxes())
	}
}

func TestOverlaySetLoadingCancelsHeldPointers(t *testing.T) {
	tests := []struct {
		name    string
		pointer int
	}{
		{"mouse", 0},
		{"touch slot", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOverlay(t, DefaultConfig())
			fx, fy := screenAt(0.2, 0.2)
			o.processPointer(tt.pointer, fx, fy, true)
			if _, ok := o.Editor().Gesture().(Drawing); !ok {
				t.Fatalf("gesture = %T, want Drawing", o.Editor().Gesture())
			}

			o.SetLoading(true)
			if _, ok := o.Editor().Gesture().(Idle); !ok {
				t.Fatalf("gesture = %T, want Idle", o.Editor().Gesture())
			}
			if len(o.Boxes()) != 0 {
				t.Fatalf("zero-size box kept: %v", o.Boxes())
			}
			o.SetLoading(false)

			// Still held after loading: no fresh press mid-drag.
			o.processPointer(tt.pointer, fx+200, fy+150, true)
			if _, ok := o.Editor().Gesture().(Idle); !ok {
				t.Errorf("held pointer started %T after loading", o.Editor().Gesture())
			}
			o.processPointer(tt.pointer, fx+200, fy+150, false)
			if len(o.Boxes()) != 0 {
				t.Errorf("boxes = %v, want none", o.Boxes())
			}

			// The next real press draws normally.
			o.processPointer(tt.pointer, fx, fy, true)
			if _, ok := o.Editor().Gesture().(Drawing); !ok {
				t.Errorf("gesture = %T after a fresh press, want Drawing", o.Editor().Gesture())
			}
		})
	}
}

func identifiedBoxes() []Box {
	return []Box{
		{ID: "a", BoundingBox: BoundingBox{X: 0.1, Y: 0.30, Width: 0.3, Height: 0.2}, Name: "Apple", Calories: intPtr(95)},
		{ID: "b", BoundingBox: BoundingBox{X: 0.1, Y: 0.31, Width: 0.3, Height: 0.2}, Name: "Bread", Calories: intPtr(80)},
		{ID: "c", BoundingBox: BoundingBox{X: 0.7, Y: 0.7, Width: 0.2, Height: 0.2}},
	}
}

func TestOverlayLabels(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LabelSlide = 0
	o := newTestOverlay(t, cfg)
	if err := o.SetBoxes(identifiedBoxes()); err != nil {
		t.Fatal(err)
	}

	runFrames(o, 20)
	if o.LabelViews() != nil {
		t.Fatal("labels shown while editing")
	}
	if len(o.Labels().Placements()) != 0 {
		t.Fatal("layout ran while editing")
	}

	o.SetEditing(false)
	runFrames(o, 20)

	views := o.LabelViews()
	if len(views) != 2 {
		t.Fatalf("label views = %+v, want two (c is unidentified)", views)
	}
	byID := map[string]LabelView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	if byID["a"].Text != "Apple - 95 kcal" {
		t.Errorf("label a text = %q", byID["a"].Text)
	}
	if byID["a"].Offset != 0 {
		t.Errorf("top-most label moved by %v", byID["a"].Offset)
	}
	b := byID["b"]
	if b.Offset >= 0 || b.StackOrder == 0 {
		t.Fatalf("label b = %+v, want shifted up", b)
	}
	if b.Rect.Translate(0, b.Offset).Overlaps(byID["a"].Rect) {
		t.Error("labels still overlap")
	}
	if views[len(views)-1].ID != "b" {
		t.Error("more displaced label should draw last")
	}

	// Back to editing drops every placement.
	o.SetEditing(true)
	if len(o.Labels().Placements()) != 0 {
		t.Error("placements kept after entering editing")
	}
}

func TestOverlayLabelsWaitForSettle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LabelSlide = 0
	cfg.LabelSettle = 100 * time.Millisecond
	o := newTestOverlay(t, cfg)
	o.SetEditing(false)
	_ = o.SetBoxes(identifiedBoxes())

	runFrames(o, 3) // 50ms
	if len(o.Labels().Placements()) != 0 {
		t.Fatal("pass ran before the settle delay")
	}
	// A resize restarts the delay.
	o.SetContainer(Rect{Width: 1000, Height: 1001})
	runFrames(o, 4)
	if len(o.Labels().Placements()) != 0 {
		t.Fatal("resize did not restart the delay")
	}
	runFrames(o, 4)
	if len(o.Labels().Placements()) == 0 {
		t.Error("pass never ran")
	}
}

func TestOverlayLabelTargetsFollowBoxes(t *testing.T) {
	o := newTestOverlay(t, DefaultConfig())
	_ = o.SetBoxes(identifiedBoxes())
	if !o.Labels().Registered("a") || !o.Labels().Registered("b") {
		t.Fatal("identified boxes were not registered")
	}
	if o.Labels().Registered("c") {
		t.Error("unidentified box registered")
	}

	_ = o.SetBoxes(identifiedBoxes()[1:])
	if o.Labels().Registered("a") {
		t.Error("removed box still registered")
	}
}

func TestOverlayDeleteActive(t *testing.T) {
	o := newTestOverlay(t, DefaultConfig())
	_ = o.SetBoxes([]Box{{ID: "a", BoundingBox: BoundingBox{X: 0.1, Y: 0.1, Width: 0.4, Height: 0.4}}})

	if o.DeleteActive() {
		t.Fatal("nothing is selected yet")
	}
	x, y := screenAt(0.3, 0.3)
	o.InjectClick(x, y)
	runFrames(o, 2)
	if !o.DeleteActive() {
		t.Fatal("DeleteActive failed after selecting")
	}
	if len(o.Boxes()) != 0 {
		t.Errorf("boxes = %v", o.Boxes())
	}
}

func TestOverlayCloseRemovesListeners(t *testing.T) {
	o := newTestOverlay(t, DefaultConfig())
	var resized int
	o.OnResize(func(RenderGeometry) { resized++ })

	o.Close()
	before := o.Editor().geometry
	o.SetContainer(Rect{Width: 500, Height: 500})

	if o.Editor().geometry != before {
		t.Error("overlay listener still active after Close")
	}
	if resized != 1 {
		t.Errorf("caller's resize listener fired %d times, want 1", resized)
	}
	_ = o.SetBoxes([]Box{{ID: "a", Name: "Apple"}})
	if o.Labels().Registered("a") {
		t.Error("box listener still active after Close")
	}
}

func TestOverlayLayoutFollowsWindow(t *testing.T) {
	o := NewOverlay(DefaultConfig())
	t.Cleanup(o.Close)
	o.SetNaturalSize(200, 100)
	w, h := o.Layout(400, 400)
	if w != 400 || h != 400 {
		t.Errorf("Layout = %d,%d", w, h)
	}
	want := RenderGeometry{RenderedWidth: 400, RenderedHeight: 200, OffsetX: 0, OffsetY: 100}
	if o.Geometry() != want {
		t.Errorf("geometry = %+v, want %+v", o.Geometry(), want)
	}

	o.SetContainer(Rect{Width: 100, Height: 100})
	o.Layout(800, 800)
	if o.Geometry().RenderedWidth != 100 {
		t.Error("fixed container should ignore the window size")
	}
}

func TestOverlayDebugOutput(t *testing.T) {
	var buf bytes.Buffer
	o := newTestOverlay(t, DefaultConfig())
	o.SetDebugOutput(&buf)

	x, y := screenAt(0.5, 0.5)
	o.InjectClick(x, y)
	runFrames(o, 2)
	if buf.Len() != 0 {
		t.Fatalf("debug output while disabled: %q", buf.String())
	}

	o.SetDebugMode(true)
	o.InjectClick(x, y)
	runFrames(o, 2)
	out := buf.String()
	if !strings.Contains(out, "[roi] pointer 0 down: drawing") {
		t.Errorf("missing gesture trace in %q", out)
	}
	if !strings.Contains(out, "discarded") {
		t.Errorf("missing discard trace in %q", out)
	}
}
