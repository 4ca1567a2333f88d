// Package roi is an interactive region-of-interest overlay for [Ebitengine].
//
// An [Overlay] displays one image letterboxed inside its container and lets
// the user draw, move, resize and delete rectangular boxes over it. Once
// editing ends and the boxes have been identified, it renders a read-only
// label for each box and moves overlapping labels apart.
//
// # Quick start
//
//	img, err := roi.LoadImage("plate.jpg")
//	if err != nil {
//		log.Fatal(err)
//	}
//	o := roi.NewOverlay(roi.DefaultConfig())
//	o.SetImage(img)
//	o.OnBoxesChange(func(boxes []roi.Box) { /* keep your copy */ })
//	roi.Run(o, roi.RunConfig{Title: "Boxes", Width: 960, Height: 720})
//
// # Coordinates
//
// Boxes are stored in normalized image coordinates ([BoundingBox], every
// field in [0, 1]). [ComputeRenderGeometry] fits the image into the
// container, [ToNormalized] maps pointer positions into image space and
// clamps them, and [ToScreenRect] maps boxes back to pixels for drawing.
//
// # Editing
//
// The [Editor] is a small state machine over a [Gesture]: [Idle],
// [Drawing], [Moving] or [Resizing]. Pointer-down on empty canvas starts a
// new box, on a box body moves it, on a corner handle resizes it. Drawn or
// resized boxes smaller than [Config.MinBoxSize] are discarded on release.
// All changes go through [BoxStore.ReplaceAll] and reach listeners as full
// collections.
//
// Mouse and touch are merged into one [PointerEvent] model. Hosts with their
// own input can set [Overlay.ExternalInput] and call the editor directly.
//
// # Labels
//
// In read-only mode the [LabelLayout] waits for a short settle delay after
// any change, measures each label and runs [PlaceLabels]: a greedy pass that
// shifts colliding labels upward in fixed steps, top-most box first.
//
// [Ebitengine]: https://ebitengine.org
package roi
