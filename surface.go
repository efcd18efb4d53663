package lingolens

import (
	"fmt"
	"image"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
)

const (
	mmPerMetre = 1000.0
	ptPerMm    = 72 / 25.4
)

// SurfaceStyle controls how a label surface is painted. Lengths are in metres
// so the texture stays proportional to the plane it is mapped onto.
type SurfaceStyle struct {
	Background     Color
	Foreground     Color
	CornerRadius   float64
	Padding        float64
	FontSize       float64
	LineSpacing    float64 // multiple of FontSize
	PixelsPerMetre float64
	// Chevron draws a trailing ">" to mark the label as tappable.
	Chevron bool
}

// DefaultSurfaceStyle returns a dark translucent pill with white text.
func DefaultSurfaceStyle() SurfaceStyle {
	return SurfaceStyle{
		Background:     Color{R: 0.1, G: 0.1, B: 0.12, A: 0.88},
		Foreground:     ColorWhite,
		CornerRadius:   0.014,
		Padding:        0.01,
		FontSize:       0.017,
		LineSpacing:    1.2,
		PixelsPerMetre: 2000,
		Chevron:        true,
	}
}

// SurfaceRasterizer paints label surfaces on the CPU. The canvas it draws on
// has its origin at the bottom-left with Y pointing up.
type SurfaceRasterizer struct {
	family *canvas.FontFamily
	style  SurfaceStyle
}

// NewSurfaceRasterizer loads fontData (TTF/OTF) for label text.
func NewSurfaceRasterizer(fontData []byte, style SurfaceStyle) (*SurfaceRasterizer, error) {
	family := canvas.NewFontFamily("label")
	if err := family.LoadFont(fontData, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("lingolens: failed to load label font: %w", err)
	}
	return &SurfaceRasterizer{family: family, style: style}, nil
}

// Style returns the style the rasterizer paints with.
func (r *SurfaceRasterizer) Style() SurfaceStyle {
	return r.style
}

// PixelSize returns the texture size for a plane of width × height metres.
func (r *SurfaceRasterizer) PixelSize(width, height float64) (int, int) {
	return int(width*r.style.PixelsPerMetre + 0.5), int(height*r.style.PixelsPerMetre + 0.5)
}

// Rasterize paints the rounded background, the centered lines of block and
// the chevron into a single image of width × height metres.
func (r *SurfaceRasterizer) Rasterize(block TextBlock, width, height float64) *image.RGBA {
	st := r.style
	w, h := width*mmPerMetre, height*mmPerMetre
	pad := st.Padding * mmPerMetre

	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)

	ctx.SetStrokeColor(canvas.Transparent)
	ctx.SetFillColor(st.Background.NRGBA())
	radius := min(st.CornerRadius*mmPerMetre, h/2)
	ctx.DrawPath(0, 0, canvas.RoundedRectangle(w, h, radius))

	var chevronReserve float64
	if st.Chevron {
		chevronReserve = h * 0.3
	}

	fontMM := st.FontSize * mmPerMetre
	face := r.family.Face(fontMM*ptPerMm, st.Foreground.NRGBA(), canvas.FontRegular, canvas.FontNormal)
	metrics := face.Metrics()
	lineH := fontMM * st.LineSpacing
	if lineH <= 0 {
		lineH = fontMM
	}

	// Y grows upward here, so slot 0 is the bottom line and the block has to
	// be emitted last line first.
	lines := block.RenderLines(true)
	blockH := lineH * float64(len(lines))
	bottom := (h - blockH) / 2
	centerX := (w - chevronReserve) / 2
	if centerX < pad {
		centerX = w / 2
	}
	for i, line := range lines {
		baseline := bottom + float64(i)*lineH + (lineH-fontMM)/2 + metrics.Descent
		ctx.DrawText(centerX, baseline, canvas.NewTextLine(face, line, canvas.Center))
	}

	if st.Chevron {
		size := h * 0.22
		p := &canvas.Path{}
		p.MoveTo(0, size)
		p.LineTo(size/2, size/2)
		p.LineTo(0, 0)
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(st.Foreground.NRGBA())
		ctx.SetStrokeWidth(size * 0.18)
		ctx.DrawPath(w-pad-size*0.75, h/2-size/2, p)
	}

	return rasterizer.Draw(c, canvas.DPMM(st.PixelsPerMetre/mmPerMetre), canvas.DefaultColorSpace)
}
