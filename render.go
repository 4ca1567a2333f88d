package roi

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	boxColor       = Color{R: 0.2, G: 0.8, B: 0.4, A: 1}
	activeBoxColor = Color{R: 1, G: 0.75, B: 0.2, A: 1}
	handleColor    = Color{R: 1, G: 1, B: 1, A: 1}
	labelBgColor   = Color{R: 0, G: 0, B: 0, A: 0.75}
	labelTextColor = Color{R: 1, G: 1, B: 1, A: 1}
	busyColor      = Color{R: 0, G: 0, B: 0, A: 0.5}
)

const boxStrokeWidth = 2

// Draw renders the image, the boxes and either the edit handles or the
// read-only labels. It implements ebiten.Game.
func (o *Overlay) Draw(screen *ebiten.Image) {
	screen.Fill(o.ClearColor.toRGBA())

	ox, oy := o.container.X, o.container.Y
	if o.image != nil && o.geometry.Valid() {
		b := o.image.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(o.geometry.RenderedWidth/float64(b.Dx()), o.geometry.RenderedHeight/float64(b.Dy()))
		op.GeoM.Translate(ox+o.geometry.OffsetX, oy+o.geometry.OffsetY)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(o.image, op)
	}

	for _, v := range o.BoxViews() {
		r := v.Rect.Translate(ox, oy)
		c := boxColor
		if v.Active {
			c = activeBoxColor
		}
		vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height),
			boxStrokeWidth, c.toRGBA(), false)
		if v.Active {
			o.drawHandles(screen, r)
		}
	}

	for _, l := range o.LabelViews() {
		o.drawLabel(screen, l.Text, l.Rect.Translate(ox, oy+l.Offset))
	}

	if o.loading {
		vector.DrawFilledRect(screen, float32(ox), float32(oy),
			float32(o.container.Width), float32(o.container.Height), busyColor.toRGBA(), false)
		ebitenutil.DebugPrintAt(screen, "Analyzing...", int(ox+o.container.Width/2)-36, int(oy+o.container.Height/2))
	}

	if o.showFPS {
		drawFPS(screen)
	}
	o.flushScreenshots(screen)
}

// drawHandles draws the four corner handles of a box at screen rect r.
func (o *Overlay) drawHandles(screen *ebiten.Image, r Rect) {
	s := o.cfg.HandleSize
	corners := BoundingBox{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
	for _, h := range handles {
		c := h.corner(corners)
		vector.DrawFilledRect(screen, float32(c.X-s/2), float32(c.Y-s/2), float32(s), float32(s),
			handleColor.toRGBA(), false)
	}
}

// drawLabel draws a label background and its text at screen rect r.
func (o *Overlay) drawLabel(screen *ebiten.Image, s string, r Rect) {
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height),
		labelBgColor.toRGBA(), false)
	op := &text.DrawOptions{}
	op.GeoM.Translate(r.X+labelPadding, r.Y+labelPadding)
	op.ColorScale.ScaleWithColor(labelTextColor.toRGBA())
	text.Draw(screen, s, o.font.Face(), op)
}
