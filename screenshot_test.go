package lingolens

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestSanitizeLabel(t *testing.T) {
	tests := map[string]string{
		"after-rescale": "after-rescale",
		"tier.plane":    "tier.plane",
		"coffee mug":    "coffee_mug",
		"../escape":     ".._escape",
		`c:\temp`:       "c__temp",
		"café":          "caf_",
		"  padded  ":    "padded",
		"":              "unlabeled",
		"\t":            "unlabeled",
		"Frame42":       "Frame42",
	}
	for in, want := range tests {
		if got := sanitizeLabel(in); got != want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	s := NewScene(Rect{Width: 1, Height: 1})
	s.Screenshot("a")
	s.Screenshot("b")
	s.Screenshot("c")
	if s.PendingScreenshots() != 3 {
		t.Fatalf("pending = %d, want 3", s.PendingScreenshots())
	}
	if s.screenshotQueue[0] != "a" || s.screenshotQueue[2] != "c" {
		t.Errorf("queue = %v, want [a b c]", s.screenshotQueue)
	}
}

func TestFlushScreenshotsEmptyQueue(t *testing.T) {
	s := NewScene(Rect{Width: 1, Height: 1})
	s.ScreenshotDir = t.TempDir()
	// No ReadPixels happens without queued labels.
	s.flushScreenshots(ebiten.NewImage(1, 1))
	if s.PendingScreenshots() != 0 {
		t.Error("queue should stay empty")
	}
}
