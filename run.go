package roi

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Run opens a window and drives the overlay until the window closes. The
// overlay's listeners are removed when Run returns.
func Run(o *Overlay, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("run: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	defer o.Close()

	o.SetShowFPS(cfg.ShowFPS)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(o); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
