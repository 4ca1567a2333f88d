package roi

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled capture of the next drawn frame. The PNG is
// written to Config.ScreenshotDir with a timestamped name.
func (o *Overlay) Screenshot(label string) {
	o.screenshotQueue = append(o.screenshotQueue, label)
}

// flushScreenshots writes every queued capture. Called at the end of Draw.
func (o *Overlay) flushScreenshots(screen *ebiten.Image) {
	if len(o.screenshotQueue) == 0 {
		return
	}
	defer func() { o.screenshotQueue = o.screenshotQueue[:0] }()

	dir := o.cfg.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		o.warnf("screenshot: mkdir %s: %v", dir, err)
		return
	}

	img := unpremultiply(screen)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range o.screenshotQueue {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := imaging.Save(img, path); err != nil {
			o.warnf("screenshot: %v", err)
		}
	}
}

// unpremultiply reads the screen and converts premultiplied RGBA to
// straight-alpha NRGBA.
func unpremultiply(screen *ebiten.Image) *image.NRGBA {
	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, bl, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			bl = uint8(min(int(bl)*255/int(a), 255))
		}
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, bl, a
	}
	return img
}

// warnf reports a failure on the debug writer regardless of debug mode.
func (o *Overlay) warnf(format string, args ...any) {
	if o.debugOut == nil {
		return
	}
	_, _ = fmt.Fprintf(o.debugOut, "[roi] "+format+"\n", args...)
}

// sanitizeLabel keeps file-name-safe characters and falls back to
// "unlabeled" for empty labels.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, label)
}
