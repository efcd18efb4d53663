package lingolens

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config gathers every tunable of the placement pipeline. The zero value is
// not useful; start from DefaultConfig.
type Config struct {
	Layout    LayoutConfig    `yaml:"layout"`
	Sizing    SizingConfig    `yaml:"sizing"`
	Surface   SurfaceConfig   `yaml:"surface"`
	Raycast   RaycastConfig   `yaml:"raycast"`
	Placement PlacementConfig `yaml:"placement"`
	Log       LogConfig       `yaml:"log"`
}

// LayoutConfig mirrors LayoutOptions.
type LayoutConfig struct {
	MaxLines        int    `yaml:"max_lines" validate:"min=1,max=8"`
	MaxCharsPerLine int    `yaml:"max_chars_per_line" validate:"min=4,max=200"`
	Placeholder     string `yaml:"placeholder" validate:"required"`
}

// SizingConfig mirrors SizingOptions.
type SizingConfig struct {
	BaseWidth    float64 `yaml:"base_width" validate:"gte=0"`
	PerCharWidth float64 `yaml:"per_char_width" validate:"gte=0"`
	MinWidth     float64 `yaml:"min_width" validate:"gt=0"`
	MaxWidth     float64 `yaml:"max_width" validate:"gtefield=MinWidth"`
	Height       float64 `yaml:"height" validate:"gt=0"`
}

// SurfaceConfig mirrors SurfaceStyle with colors as hex strings.
type SurfaceConfig struct {
	Background     string  `yaml:"background" validate:"hexcolor"`
	Foreground     string  `yaml:"foreground" validate:"hexcolor"`
	CornerRadius   float64 `yaml:"corner_radius" validate:"gte=0"`
	Padding        float64 `yaml:"padding" validate:"gte=0"`
	FontSize       float64 `yaml:"font_size" validate:"gt=0"`
	LineSpacing    float64 `yaml:"line_spacing" validate:"gte=1"`
	PixelsPerMetre float64 `yaml:"pixels_per_metre" validate:"gte=100,lte=20000"`
	Chevron        bool    `yaml:"chevron"`
	Billboard      string  `yaml:"billboard" validate:"oneof=none yaw full"`
}

// RaycastConfig mirrors RaycastOptions.
type RaycastConfig struct {
	FeatureTolerance  float64 `yaml:"feature_tolerance" validate:"gt=0,lte=1"`
	ProjectedDistance float64 `yaml:"projected_distance" validate:"gt=0"`
}

// PlacementConfig tunes the store.
type PlacementConfig struct {
	// ErrorSeconds is how long the placement-failure banner stays up.
	ErrorSeconds float64 `yaml:"error_seconds" validate:"gt=0"`
	// InitialScale is the global label scale before any rescale.
	InitialScale float64 `yaml:"initial_scale" validate:"gt=0"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	lo := DefaultLayoutOptions()
	so := DefaultSizingOptions()
	return Config{
		Layout: LayoutConfig{
			MaxLines:        lo.MaxLines,
			MaxCharsPerLine: lo.MaxCharsPerLine,
			Placeholder:     lo.Placeholder,
		},
		Sizing: SizingConfig{
			BaseWidth:    so.BaseWidth,
			PerCharWidth: so.PerCharWidth,
			MinWidth:     so.MinWidth,
			MaxWidth:     so.MaxWidth,
			Height:       so.Height,
		},
		Surface: SurfaceConfig{
			Background:     "#1a1a1fe0",
			Foreground:     "#ffffff",
			CornerRadius:   0.014,
			Padding:        0.01,
			FontSize:       0.017,
			LineSpacing:    1.2,
			PixelsPerMetre: 2000,
			Chevron:        true,
			Billboard:      "yaw",
		},
		Raycast: RaycastConfig{
			FeatureTolerance:  DefaultFeatureTolerance,
			ProjectedDistance: DefaultProjectedDistance,
		},
		Placement: PlacementConfig{
			ErrorSeconds: DefaultErrorSeconds,
			InitialScale: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("lingolens: invalid config: %w", err)
	}
	return nil
}

// ParseConfig decodes YAML over DefaultConfig and validates the result, so a
// file only needs the keys it changes.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("lingolens: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("lingolens: read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// LayoutOptions converts the layout section.
func (c Config) LayoutOptions() LayoutOptions {
	return LayoutOptions{
		MaxLines:        c.Layout.MaxLines,
		MaxCharsPerLine: c.Layout.MaxCharsPerLine,
		Placeholder:     c.Layout.Placeholder,
	}
}

// SizingOptions converts the sizing section.
func (c Config) SizingOptions() SizingOptions {
	return SizingOptions(c.Sizing)
}

// RaycastOptions converts the raycast section.
func (c Config) RaycastOptions() RaycastOptions {
	return RaycastOptions(c.Raycast)
}

// StoreOptions converts the layout, raycast and placement sections.
func (c Config) StoreOptions(builder Builder) StoreOptions {
	return StoreOptions{
		Builder:      builder,
		Resolver:     DefaultResolver(c.RaycastOptions()),
		Layout:       c.LayoutOptions(),
		ErrorSeconds: c.Placement.ErrorSeconds,
		InitialScale: c.Placement.InitialScale,
	}
}

// SurfaceStyle converts the surface section.
func (c Config) SurfaceStyle() (SurfaceStyle, error) {
	bg, err := ParseHexColor(c.Surface.Background)
	if err != nil {
		return SurfaceStyle{}, err
	}
	fg, err := ParseHexColor(c.Surface.Foreground)
	if err != nil {
		return SurfaceStyle{}, err
	}
	return SurfaceStyle{
		Background:     bg,
		Foreground:     fg,
		CornerRadius:   c.Surface.CornerRadius,
		Padding:        c.Surface.Padding,
		FontSize:       c.Surface.FontSize,
		LineSpacing:    c.Surface.LineSpacing,
		PixelsPerMetre: c.Surface.PixelsPerMetre,
		Chevron:        c.Surface.Chevron,
	}, nil
}

// Billboard parses the surface billboard mode.
func (c Config) Billboard() (Billboard, error) {
	switch c.Surface.Billboard {
	case "", "yaw":
		return BillboardYaw, nil
	case "none":
		return BillboardNone, nil
	case "full":
		return BillboardFull, nil
	default:
		return BillboardYaw, fmt.Errorf("lingolens: unknown billboard mode %q", c.Surface.Billboard)
	}
}
