package lingolens

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewScene(t *testing.T) {
	s := NewScene(Rect{Width: 640, Height: 480})
	if s.Root() == nil {
		t.Fatal("Root should not be nil")
	}
	if s.Root().Type != NodeTypeContainer {
		t.Error("Root should be a container")
	}
	if s.Camera() == nil {
		t.Fatal("Camera should not be nil")
	}
	if s.Camera().Viewport != (Rect{Width: 640, Height: 480}) {
		t.Errorf("Viewport = %+v", s.Camera().Viewport)
	}
	if s.ScreenshotDir != "screenshots" || s.ScreenshotExt != ".png" {
		t.Errorf("screenshot defaults = %q %q", s.ScreenshotDir, s.ScreenshotExt)
	}
}

func TestSceneRootStable(t *testing.T) {
	s := NewScene(Rect{Width: 1, Height: 1})
	if s.Root() != s.Root() {
		t.Error("Root should return the same node")
	}
}

func TestSceneSetDebugMode(t *testing.T) {
	s := NewScene(Rect{Width: 1, Height: 1})
	s.SetDebugMode(true)
	if !s.debug || !globalDebug {
		t.Error("debug should be enabled")
	}
	s.SetDebugMode(false)
	if s.debug || globalDebug {
		t.Error("debug should be disabled")
	}
}

func TestSceneSetLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	s := NewScene(Rect{Width: 1, Height: 1})
	s.SetLogger(zerolog.New(&buf))
	defer func() { debugLog = zerolog.Nop() }()

	s.debug = true
	s.logFrameStats(frameStats{labels: 3, drawCalls: 3})
	out := buf.String()
	if !strings.Contains(out, `"component":"scene"`) {
		t.Errorf("log line missing component: %s", out)
	}
	if !strings.Contains(out, `"draw_calls":3`) {
		t.Errorf("log line missing draw_calls: %s", out)
	}
}
