package roi

import (
	"sort"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Defaults for the label collision pass.
const (
	DefaultLabelStep        = 5.0
	DefaultLabelMaxAttempts = 30
	DefaultLabelSlide       = 120 * time.Millisecond
)

// LabelPlacement is the computed adjustment for one label. VerticalOffset is
// a screen-space dy in pixels; negative values move the label up. Labels
// with a higher StackOrder draw above labels with a lower one.
type LabelPlacement struct {
	VerticalOffset float64
	StackOrder     int
}

// MeasureFunc reports a label's current natural screen rectangle, or false
// when the label is not laid out yet.
type MeasureFunc func() (Rect, bool)

// LayoutInput is the state a layout pass depends on.
type LayoutInput struct {
	Boxes   []Box
	Editing bool
	Loading bool
}

// labelSlide eases a displayed offset toward its placement.
type labelSlide struct {
	tween *gween.Tween
	value float64
}

// LabelLayout resolves overlapping annotation labels in read-only mode.
//
// Labels are registered as measurement targets by whoever lays them out.
// Any change to the boxes, the geometry or the mode calls Invalidate, which
// restarts a short settle delay; the pass itself runs from Update once the
// delay expires.
type LabelLayout struct {
	targets    map[string]MeasureFunc
	placements map[string]LabelPlacement
	slides     map[string]*labelSlide

	settle      debouncer
	step        float64
	maxAttempts int
	slide       time.Duration
	passes      int

	logf func(format string, args ...any)
}

// NewLabelLayout creates a layout engine from cfg.
func NewLabelLayout(cfg Config) *LabelLayout {
	return &LabelLayout{
		targets:     make(map[string]MeasureFunc),
		placements:  make(map[string]LabelPlacement),
		slides:      make(map[string]*labelSlide),
		settle:      newDebouncer(cfg.LabelSettle),
		step:        cfg.LabelStep,
		maxAttempts: cfg.LabelMaxAttempts,
		slide:       cfg.LabelSlide,
	}
}

// Register makes the label for box id measurable. Registering again
// replaces the previous target.
func (l *LabelLayout) Register(id string, measure MeasureFunc) {
	l.targets[id] = measure
}

// Unregister removes the label for box id. Its placement is dropped.
func (l *LabelLayout) Unregister(id string) {
	delete(l.targets, id)
	delete(l.placements, id)
	delete(l.slides, id)
}

// Registered reports whether box id has a measurement target.
func (l *LabelLayout) Registered(id string) bool {
	_, ok := l.targets[id]
	return ok
}

// Invalidate schedules a new pass after the settle delay, replacing any
// pass already scheduled.
func (l *LabelLayout) Invalidate() {
	l.settle.Trigger()
}

// Clear drops every placement and any scheduled pass.
func (l *LabelLayout) Clear() {
	l.settle.Cancel()
	if len(l.placements) > 0 {
		l.placements = make(map[string]LabelPlacement)
	}
	if len(l.slides) > 0 {
		l.slides = make(map[string]*labelSlide)
	}
}

// Update advances the settle delay and the label slides. Placements are
// cleared while editing, while loading and when there are no boxes.
func (l *LabelLayout) Update(dt time.Duration, in LayoutInput) {
	if in.Editing || in.Loading || len(in.Boxes) == 0 {
		l.Clear()
		return
	}
	l.advanceSlides(dt)
	if l.settle.Advance(dt) {
		l.run(in.Boxes)
	}
}

// Placement returns the placement for box id. Labels that needed no shift
// have the zero placement.
func (l *LabelLayout) Placement(id string) LabelPlacement {
	return l.placements[id]
}

// Placements returns a copy of every non-zero placement.
func (l *LabelLayout) Placements() map[string]LabelPlacement {
	out := make(map[string]LabelPlacement, len(l.placements))
	for id, p := range l.placements {
		out[id] = p
	}
	return out
}

// DisplayOffset returns the offset to draw the label at this frame, which
// trails the placement while a slide is running.
func (l *LabelLayout) DisplayOffset(id string) float64 {
	if s, ok := l.slides[id]; ok {
		return s.value
	}
	return l.placements[id].VerticalOffset
}

// run measures every mounted label and computes new placements.
func (l *LabelLayout) run(boxes []Box) {
	rects := make(map[string]Rect, len(boxes))
	for _, b := range boxes {
		measure, ok := l.targets[b.ID]
		if !ok {
			continue
		}
		if r, ok := measure(); ok {
			rects[b.ID] = r
		}
	}

	next := PlaceLabels(boxes, rects, l.step, l.maxAttempts)
	l.startSlides(next)
	l.placements = next
	l.passes++
	if l.logf != nil {
		l.logf("label pass %d: %d measured, %d shifted", l.passes, len(rects), len(next))
	}
}

func (l *LabelLayout) startSlides(next map[string]LabelPlacement) {
	ids := make(map[string]struct{}, len(next)+len(l.placements))
	for id := range next {
		ids[id] = struct{}{}
	}
	for id := range l.placements {
		ids[id] = struct{}{}
	}

	for id := range ids {
		from := l.DisplayOffset(id)
		to := next[id].VerticalOffset
		if from == to || l.slide <= 0 {
			delete(l.slides, id)
			continue
		}
		l.slides[id] = &labelSlide{
			tween: gween.New(float32(from), float32(to), float32(l.slide.Seconds()), ease.OutQuad),
			value: from,
		}
	}
}

func (l *LabelLayout) advanceSlides(dt time.Duration) {
	for id, s := range l.slides {
		v, done := s.tween.Update(float32(dt.Seconds()))
		s.value = float64(v)
		if done {
			delete(l.slides, id)
		}
	}
}

// PlaceLabels runs the greedy collision pass. Boxes are taken top-most
// first (by normalized Y, ties in collection order); each label starts at
// its natural rectangle and moves up by step while it overlaps a label
// already placed, at most maxAttempts times. When attempts run out the
// label is placed anyway, so some overlap may remain.
//
// Boxes without an entry in rects are skipped. Only shifted labels get an
// entry in the result.
func PlaceLabels(boxes []Box, rects map[string]Rect, step float64, maxAttempts int) map[string]LabelPlacement {
	order := make([]Box, len(boxes))
	copy(order, boxes)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].BoundingBox.Y < order[j].BoundingBox.Y
	})

	placed := make([]Rect, 0, len(order))
	out := make(map[string]LabelPlacement)
	for _, b := range order {
		natural, ok := rects[b.ID]
		if !ok {
			continue
		}
		candidate := natural
		attempts := 0
		for attempts < maxAttempts && overlapsAny(candidate, placed) {
			candidate.Y -= step
			attempts++
		}
		placed = append(placed, candidate)
		if attempts > 0 {
			out[b.ID] = LabelPlacement{
				VerticalOffset: candidate.Y - natural.Y,
				StackOrder:     attempts,
			}
		}
	}
	return out
}

func overlapsAny(r Rect, placed []Rect) bool {
	for _, p := range placed {
		if r.Overlaps(p) {
			return true
		}
	}
	return false
}
