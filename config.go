package roi

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the overlay's tunables. Zero-valued fields in a loaded file
// keep their defaults.
type Config struct {
	// MinBoxSize is the normalized width/height below which a drawn or
	// resized box is discarded at the end of the gesture.
	MinBoxSize float64 `yaml:"min_box_size"`
	// FallbackHeight replaces a container height that has not been laid out.
	FallbackHeight float64 `yaml:"fallback_height"`
	// HandleSize is the side, in pixels, of the square hit area and drawn
	// marker of each corner handle.
	HandleSize float64 `yaml:"handle_size"`

	LabelStep        float64       `yaml:"label_step"`
	LabelMaxAttempts int           `yaml:"label_max_attempts"`
	LabelSettle      time.Duration `yaml:"label_settle"`
	LabelSlide       time.Duration `yaml:"label_slide"`

	// Debug enables [roi] diagnostics on stderr.
	Debug bool `yaml:"debug"`
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		MinBoxSize:       DefaultMinBoxSize,
		FallbackHeight:   DefaultFallbackHeight,
		HandleSize:       12,
		LabelStep:        DefaultLabelStep,
		LabelMaxAttempts: DefaultLabelMaxAttempts,
		LabelSettle:      DefaultLabelSettle,
		LabelSlide:       DefaultLabelSlide,
		ScreenshotDir:    "screenshots",
	}
}

// LoadConfig reads a YAML file and overlays it on DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML and overlays it on DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg := DefaultConfig().merge(file)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every field is usable.
func (c Config) Validate() error {
	var errs []error
	if c.MinBoxSize < 0 || c.MinBoxSize >= 1 {
		errs = append(errs, fmt.Errorf("min_box_size must be in [0, 1), got %v", c.MinBoxSize))
	}
	if c.FallbackHeight <= 0 {
		errs = append(errs, fmt.Errorf("fallback_height must be positive, got %v", c.FallbackHeight))
	}
	if c.HandleSize < 0 {
		errs = append(errs, fmt.Errorf("handle_size must not be negative, got %v", c.HandleSize))
	}
	if c.LabelStep <= 0 {
		errs = append(errs, fmt.Errorf("label_step must be positive, got %v", c.LabelStep))
	}
	if c.LabelMaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("label_max_attempts must not be negative, got %d", c.LabelMaxAttempts))
	}
	if c.LabelSettle < 0 || c.LabelSlide < 0 {
		errs = append(errs, errors.New("label_settle and label_slide must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// merge returns c with every non-zero field of o applied.
func (c Config) merge(o Config) Config {
	if o.MinBoxSize != 0 {
		c.MinBoxSize = o.MinBoxSize
	}
	if o.FallbackHeight != 0 {
		c.FallbackHeight = o.FallbackHeight
	}
	if o.HandleSize != 0 {
		c.HandleSize = o.HandleSize
	}
	if o.LabelStep != 0 {
		c.LabelStep = o.LabelStep
	}
	if o.LabelMaxAttempts != 0 {
		c.LabelMaxAttempts = o.LabelMaxAttempts
	}
	if o.LabelSettle != 0 {
		c.LabelSettle = o.LabelSettle
	}
	if o.LabelSlide != 0 {
		c.LabelSlide = o.LabelSlide
	}
	if o.ScreenshotDir != "" {
		c.ScreenshotDir = o.ScreenshotDir
	}
	c.Debug = c.Debug || o.Debug
	return c
}

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
}
