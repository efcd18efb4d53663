package lingolens

import (
	"image/color"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}
	tests := []struct {
		x, y float64
		want bool
	}{
		{10, 20, true},
		{110, 70, true},
		{60, 45, true},
		{9.9, 45, false},
		{60, 70.1, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRectCenter(t *testing.T) {
	c := Rect{X: 100, Y: 50, Width: 200, Height: 100}.Center()
	if c != (Vec2{200, 100}) {
		t.Errorf("Center = %+v, want {200 100}", c)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ffffff", color.NRGBA{255, 255, 255, 255}},
		{"#000", color.NRGBA{0, 0, 0, 255}},
		{"#f008", color.NRGBA{255, 0, 0, 0x88}},
		{"#1a1a1fe0", color.NRGBA{0x1a, 0x1a, 0x1f, 0xe0}},
		{"  #00FF00 ", color.NRGBA{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		c, err := ParseHexColor(tt.in)
		if err != nil {
			t.Errorf("ParseHexColor(%q): %v", tt.in, err)
			continue
		}
		if got := c.NRGBA(); got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseHexColorInvalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#12345", "#gggggg", "#1234567890"} {
		if _, err := ParseHexColor(in); err == nil {
			t.Errorf("ParseHexColor(%q) should fail", in)
		}
	}
}

func TestColorNRGBAClamps(t *testing.T) {
	got := Color{R: 2, G: -1, B: 0.5, A: 1}.NRGBA()
	want := color.NRGBA{255, 0, 128, 255}
	if got != want {
		t.Errorf("NRGBA = %v, want %v", got, want)
	}
}

func TestBillboardString(t *testing.T) {
	tests := map[Billboard]string{
		BillboardNone: "none",
		BillboardYaw:  "yaw",
		BillboardFull: "full",
		Billboard(9):  "unknown",
	}
	for b, want := range tests {
		if got := b.String(); got != want {
			t.Errorf("Billboard(%d).String() = %q, want %q", b, got, want)
		}
	}
}
