package lingolens

import "testing"

func TestFPSMeterRefreshInterval(t *testing.T) {
	calls := 0
	m := &FPSMeter{sample: func() (float64, float64) {
		calls++
		return 60, 60
	}}
	m.Update(frameDT)
	if calls != 1 || m.Text() != "FPS: 60.0\nTPS: 60.0" {
		t.Fatalf("first update: calls = %d, text = %q", calls, m.Text())
	}
	for range 20 {
		m.Update(frameDT)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 before the refresh interval", calls)
	}
	for range 15 {
		m.Update(frameDT)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 after the refresh interval", calls)
	}
}
