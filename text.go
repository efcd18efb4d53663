package lingolens

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// TTFFont wraps Ebitengine's text/v2 for screen-space HUD text: the
// placement banner and the annotation list.
type TTFFont struct {
	face       *text.GoTextFace
	size       float64
	lineHeight float64
}

// LoadTTFFont parses TTF or OTF bytes into a face of the given pixel size.
func LoadTTFFont(data []byte, size float64) (*TTFFont, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("lingolens: hud font: %w", err)
	}
	f := &TTFFont{face: &text.GoTextFace{Source: src, Size: size}, size: size}
	m := f.face.Metrics()
	f.lineHeight = m.HAscent + m.HDescent + m.HLineGap
	return f, nil
}

// DefaultHUDFont loads Go Regular at size.
func DefaultHUDFont(size float64) (*TTFFont, error) {
	return LoadTTFFont(goregular.TTF, size)
}

// MeasureString reports the pixel size of s, multi-line strings included.
func (f *TTFFont) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lineHeight)
}

// LineHeight is the baseline-to-baseline distance in pixels.
func (f *TTFFont) LineHeight() float64 {
	return f.lineHeight
}

// Face exposes the text/v2 face for callers drawing directly.
func (f *TTFFont) Face() *text.GoTextFace {
	return f.face
}

// DrawText draws s with its top-left corner at (x, y).
func DrawText(dst *ebiten.Image, f *TTFFont, s string, x, y float64, c Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c.NRGBA())
	op.LineSpacing = f.lineHeight
	text.Draw(dst, s, f.face, op)
}

// DrawBanner draws msg centered horizontally near the top of dst on a dark
// backing strip, faded by alpha. Nothing is drawn when alpha is zero.
func DrawBanner(dst *ebiten.Image, f *TTFFont, msg string, alpha float64) {
	if alpha <= 0 || msg == "" {
		return
	}
	b := dst.Bounds()
	w, h := f.MeasureString(msg)
	pad := f.size * 0.6
	x := float64(b.Dx())/2 - w/2
	y := f.size * 2
	bg := Color{R: 0.7, G: 0.1, B: 0.1, A: 0.85 * alpha}
	vector.DrawFilledRect(dst, float32(x-pad), float32(y-pad), float32(w+2*pad), float32(h+2*pad), bg.NRGBA(), true)
	DrawText(dst, f, msg, x, y, Color{R: 1, G: 1, B: 1, A: alpha})
}

// DrawAnnotationList draws a numbered list of annotation labels starting at
// (x, y), one per line, in placement order.
func DrawAnnotationList(dst *ebiten.Image, f *TTFFont, list []Annotation, x, y float64) {
	for i, a := range list {
		line := fmt.Sprintf("%d. %s (%s)", i, a.Label, a.Outcome)
		DrawText(dst, f, line, x, y+float64(i)*f.lineHeight, ColorWhite)
	}
}
