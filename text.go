package roi

import (
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// LabelFont is the interface for label measurement and drawing.
type LabelFont interface {
	MeasureString(s string) (width, height float64)
	LineHeight() float64
	// Face returns the face used to draw the text.
	Face() text.Face
}

// labelPadding is the gap between label text and its background edge.
const labelPadding = 3.0

// basicFont is the built-in fixed 7x13 face from x/image.
type basicFont struct {
	xface font.Face
	face  text.Face
}

// DefaultLabelFont returns a LabelFont backed by basicfont.Face7x13.
func DefaultLabelFont() LabelFont {
	return &basicFont{xface: basicfont.Face7x13}
}

func (f *basicFont) MeasureString(s string) (float64, float64) {
	adv := font.MeasureString(f.xface, s)
	return float64(adv.Ceil()), f.LineHeight()
}

func (f *basicFont) LineHeight() float64 {
	return float64(f.xface.Metrics().Height.Ceil())
}

func (f *basicFont) Face() text.Face {
	if f.face == nil {
		f.face = text.NewGoXFace(f.xface)
	}
	return f.face
}

// labelRect returns the natural container-relative rectangle of a label for
// a box drawn at screen rect r. The label sits on top of the box's upper
// edge; if that would leave the image it is tucked inside the box instead.
func labelRect(fnt LabelFont, label string, r Rect, g RenderGeometry) Rect {
	w, h := fnt.MeasureString(label)
	lr := Rect{
		X:      r.X,
		Y:      r.Y - h - 2*labelPadding,
		Width:  w + 2*labelPadding,
		Height: h + 2*labelPadding,
	}
	if lr.Y < g.OffsetY {
		lr.Y = r.Y
	}
	return lr
}
