package roi

import (
	"math"
	"strconv"

	"github.com/google/uuid"
)

// DefaultMinBoxSize is the smallest normalized width or height a drawn or
// resized box may have at the end of a gesture.
const DefaultMinBoxSize = 0.005

// BoundingBox is a rectangle normalized to the source image, with (X, Y) the
// top-left corner and every field in [0, 1].
type BoundingBox struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Right returns the normalized x of the right edge.
func (b BoundingBox) Right() float64 { return b.X + b.Width }

// Bottom returns the normalized y of the bottom edge.
func (b BoundingBox) Bottom() float64 { return b.Y + b.Height }

// TooSmall reports whether either extent is below min.
func (b BoundingBox) TooSmall(min float64) bool {
	return b.Width < min || b.Height < min
}

// spanning returns the positive rectangle with corners a and c.
func spanning(a, c Vec2) BoundingBox {
	return BoundingBox{
		X:      math.Min(a.X, c.X),
		Y:      math.Min(a.Y, c.Y),
		Width:  math.Abs(c.X - a.X),
		Height: math.Abs(c.Y - a.Y),
	}
}

// Box is one region of interest. Name and Calories stay empty until the
// identification step fills them in.
type Box struct {
	ID          string      `json:"id"`
	BoundingBox BoundingBox `json:"boundingBox"`
	Name        string      `json:"name,omitempty"`
	Calories    *int        `json:"calories,omitempty"`
}

// NewBoxID returns a fresh opaque box identifier.
func NewBoxID() string {
	return uuid.NewString()
}

// Label returns the annotation text shown in read-only mode, or "" when the
// box has not been identified.
func (b Box) Label() string {
	if b.Name == "" {
		return ""
	}
	if b.Calories == nil {
		return b.Name
	}
	return b.Name + " - " + strconv.Itoa(*b.Calories) + " kcal"
}

// withBounds returns a copy of b with a new bounding box.
func (b Box) withBounds(bb BoundingBox) Box {
	b.BoundingBox = bb
	return b
}
