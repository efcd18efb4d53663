package lingolens

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func newTestFactory(t *testing.T) *Factory {
	t.Helper()
	f, err := NewFactory(DefaultConfig())
	if err != nil {
		t.Fatalf("NewFactory: %v", err)
	}
	return f
}

func TestSizingWidthClamped(t *testing.T) {
	o := DefaultSizingOptions()
	tests := []struct {
		chars int
		want  float64
	}{
		{0, o.MinWidth},
		{3, o.MinWidth},
		{10, o.BaseWidth + 10*o.PerCharWidth},
		{40, o.MaxWidth},
		{500, o.MaxWidth},
	}
	for _, tt := range tests {
		assertNear(t, "Width", o.Width(tt.chars), tt.want)
	}
}

func TestSizingWidthMonotonic(t *testing.T) {
	o := DefaultSizingOptions()
	prev := 0.0
	for n := range 60 {
		w := o.Width(n)
		if w < prev {
			t.Fatalf("Width(%d) = %v < Width(%d) = %v", n, w, n-1, prev)
		}
		prev = w
	}
}

func TestFactorySizeUsesTrimmedLabel(t *testing.T) {
	f := newTestFactory(t)
	block := Layout("  espresso  ", DefaultLayoutOptions())
	w, h := f.Size(block, "  espresso  ")
	assertNear(t, "width", w, f.sizing.Width(len("espresso")))
	assertNear(t, "height", h, f.sizing.Height)
}

func TestFactoryRasterizeSingleSurface(t *testing.T) {
	f := newTestFactory(t)
	label := "Coffee mug"
	block := Layout(label, DefaultLayoutOptions())
	img := f.Rasterize(block, label)

	w, h := f.Size(block, label)
	pw, ph := f.raster.PixelSize(w, h)
	if img.Bounds().Dx() != pw || img.Bounds().Dy() != ph {
		t.Fatalf("surface = %v, want %dx%d", img.Bounds(), pw, ph)
	}
	// Rounded corners leave the extreme corner transparent.
	if a := img.RGBAAt(0, 0).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
	if a := img.RGBAAt(pw/2, 2).A; a == 0 {
		t.Error("top edge center should be painted by the background")
	}
}

func TestFactoryBuildNode(t *testing.T) {
	f := newTestFactory(t)
	label := "A very long label that will not fit on two lines at all"
	block := Layout(label, DefaultLayoutOptions())
	n, err := f.Build(block, label)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n.Type != NodeTypeLabel || n.Surface() == nil {
		t.Fatal("Build should return a textured label node")
	}
	if n.Billboard != BillboardYaw {
		t.Errorf("Billboard = %v, want yaw", n.Billboard)
	}
	assertNear(t, "width", n.Width, f.sizing.MaxWidth)
	if n.Transform != Mat4Identity() {
		t.Error("built node should have an identity transform")
	}
	n.Dispose()
	if n.Surface() != nil {
		t.Error("Dispose should release the surface")
	}
}

func TestFactoryBuildRejectsEmptyBlock(t *testing.T) {
	f := newTestFactory(t)
	if _, err := f.Build(TextBlock{}, ""); err == nil {
		t.Error("expected error for empty block")
	}
}

func TestNewFactoryBadFont(t *testing.T) {
	if _, err := NewFactoryWithFont([]byte("nope"), DefaultConfig()); err == nil {
		t.Error("expected error for invalid font data")
	}
}

func TestNewFactoryBillboardFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Surface.Billboard = "full"
	f, err := NewFactory(cfg)
	if err != nil {
		t.Fatalf("NewFactory: %v", err)
	}
	if f.billboard != BillboardFull {
		t.Errorf("billboard = %v, want full", f.billboard)
	}

	cfg.Surface.Billboard = "sideways"
	if _, err := NewFactory(cfg); err == nil {
		t.Error("expected error for unknown billboard mode")
	}
}

func TestSurfaceWithoutChevron(t *testing.T) {
	style := DefaultSurfaceStyle()
	style.Chevron = false
	r, err := NewSurfaceRasterizer(goregular.TTF, style)
	if err != nil {
		t.Fatalf("NewSurfaceRasterizer: %v", err)
	}
	if r.Style().Chevron {
		t.Error("Style should round-trip")
	}
	img := r.Rasterize(Layout("tea", DefaultLayoutOptions()), 0.12, 0.08)
	if img.Bounds().Dx() != 240 || img.Bounds().Dy() != 160 {
		t.Errorf("surface = %v, want 240x160", img.Bounds())
	}
}
