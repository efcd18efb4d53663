package lingolens

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const fpsRefreshSeconds = 0.5

// FPSMeter shows the current FPS and TPS in a corner of the HUD. The text is
// refreshed about twice a second so it stays readable.
type FPSMeter struct {
	elapsed float64
	text    string
	sample  func() (fps, tps float64)
}

// NewFPSMeter creates a meter that samples Ebitengine's actual rates.
func NewFPSMeter() *FPSMeter {
	return &FPSMeter{sample: func() (float64, float64) {
		return ebiten.ActualFPS(), ebiten.ActualTPS()
	}}
}

// Update advances the refresh timer by dt seconds.
func (m *FPSMeter) Update(dt float64) {
	m.elapsed += dt
	if m.text != "" && m.elapsed < fpsRefreshSeconds {
		return
	}
	m.elapsed = 0
	fps, tps := m.sample()
	m.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", fps, tps)
}

// Text returns the last sampled readout.
func (m *FPSMeter) Text() string {
	return m.text
}

// Draw prints the readout with its top-left corner at (x, y).
func (m *FPSMeter) Draw(dst *ebiten.Image, x, y int) {
	ebitenutil.DebugPrintAt(dst, m.text, x, y)
}
