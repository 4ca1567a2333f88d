package roi

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func bboxApprox(a, b BoundingBox) bool {
	return approxEqual(a.X, b.X, epsilon) && approxEqual(a.Y, b.Y, epsilon) &&
		approxEqual(a.Width, b.Width, epsilon) && approxEqual(a.Height, b.Height, epsilon)
}

func TestComputeRenderGeometry(t *testing.T) {
	tests := []struct {
		name      string
		container Size
		natural   Size
		want      RenderGeometry
	}{
		{"letterbox", Size{800, 600}, Size{800, 400}, RenderGeometry{800, 400, 0, 100}},
		{"pillarbox", Size{800, 600}, Size{300, 600}, RenderGeometry{300, 600, 250, 0}},
		{"upscale", Size{400, 400}, Size{100, 50}, RenderGeometry{400, 200, 0, 100}},
		{"exact fit", Size{640, 480}, Size{640, 480}, RenderGeometry{640, 480, 0, 0}},
		{"fallback height", Size{800, 0}, Size{400, 400}, RenderGeometry{400, 400, 200, 0}},
		{"sub-pixel height uses fallback", Size{800, 0.5}, Size{400, 400}, RenderGeometry{400, 400, 200, 0}},
		{"no natural width", Size{800, 600}, Size{0, 400}, RenderGeometry{}},
		{"no natural height", Size{800, 600}, Size{400, -1}, RenderGeometry{}},
		{"zero width container", Size{0, 600}, Size{400, 400}, RenderGeometry{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRenderGeometry(tt.container, tt.natural, DefaultFallbackHeight)
			if !approxEqual(got.RenderedWidth, tt.want.RenderedWidth, epsilon) ||
				!approxEqual(got.RenderedHeight, tt.want.RenderedHeight, epsilon) ||
				!approxEqual(got.OffsetX, tt.want.OffsetX, epsilon) ||
				!approxEqual(got.OffsetY, tt.want.OffsetY, epsilon) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeRenderGeometryPreservesAspect(t *testing.T) {
	g := ComputeRenderGeometry(Size{1280, 720}, Size{3000, 2000}, DefaultFallbackHeight)
	if !approxEqual(g.RenderedWidth/g.RenderedHeight, 1.5, epsilon) {
		t.Errorf("aspect = %v, want 1.5", g.RenderedWidth/g.RenderedHeight)
	}
	if g.RenderedWidth > 1280+epsilon || g.RenderedHeight > 720+epsilon {
		t.Errorf("image %vx%v exceeds container", g.RenderedWidth, g.RenderedHeight)
	}
}

func TestComputeRenderGeometryIdempotent(t *testing.T) {
	a := ComputeRenderGeometry(Size{1024, 768}, Size{500, 900}, DefaultFallbackHeight)
	b := ComputeRenderGeometry(Size{1024, 768}, Size{500, 900}, DefaultFallbackHeight)
	if a != b {
		t.Errorf("repeated computation differs: %+v vs %+v", a, b)
	}
}

func TestRenderGeometryValid(t *testing.T) {
	if (RenderGeometry{}).Valid() {
		t.Error("zero geometry should be invalid")
	}
	if !(RenderGeometry{RenderedWidth: 1, RenderedHeight: 1}).Valid() {
		t.Error("positive geometry should be valid")
	}
}

func TestToNormalized(t *testing.T) {
	g := RenderGeometry{RenderedWidth: 800, RenderedHeight: 400, OffsetX: 0, OffsetY: 100}
	origin := Vec2{X: 10, Y: 20}

	tests := []struct {
		name string
		p    Vec2
		want Vec2
	}{
		{"center", Vec2{410, 320}, Vec2{0.5, 0.5}},
		{"image top-left", Vec2{10, 120}, Vec2{0, 0}},
		{"image bottom-right", Vec2{810, 520}, Vec2{1, 1}},
		{"letterbox above clamps", Vec2{410, 50}, Vec2{0.5, 0}},
		{"letterbox below clamps", Vec2{410, 600}, Vec2{0.5, 1}},
		{"left of container clamps", Vec2{-100, 320}, Vec2{0, 0.5}},
		{"far outside clamps", Vec2{5000, -5000}, Vec2{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToNormalized(tt.p, g, origin)
			if !approxEqual(got.X, tt.want.X, epsilon) || !approxEqual(got.Y, tt.want.Y, epsilon) {
				t.Errorf("ToNormalized(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestToNormalizedInvalidGeometry(t *testing.T) {
	if got := ToNormalized(Vec2{50, 50}, RenderGeometry{}, Vec2{}); got != (Vec2{}) {
		t.Errorf("got %v, want zero", got)
	}
}

func TestToNormalizedAlwaysInUnitSquare(t *testing.T) {
	g := ComputeRenderGeometry(Size{640, 480}, Size{300, 500}, DefaultFallbackHeight)
	for x := -100.0; x <= 800; x += 37 {
		for y := -100.0; y <= 600; y += 41 {
			p := ToNormalized(Vec2{x, y}, g, Vec2{})
			if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
				t.Fatalf("ToNormalized(%v, %v) = %v outside [0,1]", x, y, p)
			}
		}
	}
}

func TestToScreenRect(t *testing.T) {
	g := RenderGeometry{RenderedWidth: 800, RenderedHeight: 400, OffsetX: 0, OffsetY: 100}
	got := ToScreenRect(BoundingBox{X: 0.25, Y: 0.5, Width: 0.5, Height: 0.25}, g)
	want := Rect{X: 200, Y: 300, Width: 400, Height: 100}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestScreenRoundTrip(t *testing.T) {
	geoms := []RenderGeometry{
		ComputeRenderGeometry(Size{800, 600}, Size{800, 400}, DefaultFallbackHeight),
		ComputeRenderGeometry(Size{800, 600}, Size{300, 600}, DefaultFallbackHeight),
		ComputeRenderGeometry(Size{333, 777}, Size{1920, 1080}, DefaultFallbackHeight),
	}
	boxes := []BoundingBox{
		{X: 0, Y: 0, Width: 1, Height: 1},
		{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4},
		{X: 0.73, Y: 0.05, Width: 0.2, Height: 0.9},
	}
	origin := Vec2{X: 15, Y: 40}
	for _, g := range geoms {
		for _, b := range boxes {
			r := ToScreenRect(b, g)
			tl := ToNormalized(Vec2{origin.X + r.X, origin.Y + r.Y}, g, origin)
			br := ToNormalized(Vec2{origin.X + r.X + r.Width, origin.Y + r.Y + r.Height}, g, origin)
			back := spanning(tl, br)
			if !bboxApprox(back, b) {
				t.Errorf("geometry %+v: round trip of %+v gave %+v", g, b, back)
			}
			if r2 := ToScreenRect(back, g); !approxEqual(r2.X, r.X, 1e-6) || !approxEqual(r2.Width, r.Width, 1e-6) {
				t.Errorf("screen rect drifted: %+v vs %+v", r2, r)
			}
		}
	}
}
