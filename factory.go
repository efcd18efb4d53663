package lingolens

import (
	"errors"
	"image"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Builder turns a laid-out label into a renderable node.
type Builder interface {
	Build(block TextBlock, label string) (*Node, error)
}

// BuilderFunc adapts a plain function to Builder.
type BuilderFunc func(block TextBlock, label string) (*Node, error)

// Build calls f.
func (f BuilderFunc) Build(block TextBlock, label string) (*Node, error) {
	return f(block, label)
}

// SizingOptions sizes the label plane. Width grows with the label length and
// is clamped; height is fixed. All values are metres.
type SizingOptions struct {
	BaseWidth    float64
	PerCharWidth float64
	MinWidth     float64
	MaxWidth     float64
	Height       float64
}

// DefaultSizingOptions returns sizes that read well at arm's length.
func DefaultSizingOptions() SizingOptions {
	return SizingOptions{
		BaseWidth:    0.06,
		PerCharWidth: 0.012,
		MinWidth:     0.12,
		MaxWidth:     0.36,
		Height:       0.08,
	}
}

// Width returns clamp(base + chars*perChar, min, max).
func (o SizingOptions) Width(chars int) float64 {
	w := o.BaseWidth + float64(chars)*o.PerCharWidth
	return max(o.MinWidth, min(w, o.MaxWidth))
}

// Factory builds annotation nodes: a thin plane textured with the rasterized
// label, held upright by a yaw-only billboard.
type Factory struct {
	sizing    SizingOptions
	raster    *SurfaceRasterizer
	billboard Billboard
}

var _ Builder = (*Factory)(nil)

// NewFactory creates a factory using the Go Regular font.
func NewFactory(cfg Config) (*Factory, error) {
	return NewFactoryWithFont(goregular.TTF, cfg)
}

// NewFactoryWithFont creates a factory that renders labels with fontData.
func NewFactoryWithFont(fontData []byte, cfg Config) (*Factory, error) {
	style, err := cfg.SurfaceStyle()
	if err != nil {
		return nil, err
	}
	raster, err := NewSurfaceRasterizer(fontData, style)
	if err != nil {
		return nil, err
	}
	billboard, err := cfg.Billboard()
	if err != nil {
		return nil, err
	}
	return &Factory{
		sizing:    cfg.SizingOptions(),
		raster:    raster,
		billboard: billboard,
	}, nil
}

// Size returns the plane size in metres for label.
func (f *Factory) Size(block TextBlock, label string) (width, height float64) {
	chars := utf8.RuneCountInString(strings.TrimSpace(label))
	if chars == 0 {
		chars = block.LongestLine()
	}
	return f.sizing.Width(chars), f.sizing.Height
}

// Rasterize paints the label surface on the CPU without creating a node.
func (f *Factory) Rasterize(block TextBlock, label string) *image.RGBA {
	w, h := f.Size(block, label)
	return f.raster.Rasterize(block, w, h)
}

// Build rasterizes the label and wraps it in a label node. The node has an
// identity transform; the caller positions it.
func (f *Factory) Build(block TextBlock, label string) (*Node, error) {
	if len(block.Lines) == 0 {
		return nil, errors.New("lingolens: cannot build a label with no lines")
	}
	w, h := f.Size(block, label)
	img := f.raster.Rasterize(block, w, h)
	if img.Bounds().Empty() {
		return nil, errors.New("lingolens: label surface is empty")
	}
	n := NewLabelNode("annotation", ebiten.NewImageFromImage(img), w, h)
	n.Billboard = f.billboard
	n.UserData = label
	return n, nil
}
