package lingolens

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func withDebug(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	globalDebug = true
	debugLog = zerolog.New(&buf)
	t.Cleanup(func() {
		globalDebug = false
		debugLog = zerolog.Nop()
	})
	return &buf
}

func TestDebugMode_DisposedParentPanics(t *testing.T) {
	withDebug(t)
	parent := NewContainer("parent")
	parent.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		msg, _ := r.(string)
		if !strings.Contains(msg, "parent") {
			t.Errorf("panic message %q should name the node", msg)
		}
	}()
	parent.AddChild(NewContainer("child"))
}

func TestReleaseMode_DisposedNodeNoPanic(t *testing.T) {
	globalDebug = false
	n := NewContainer("dead")
	n.Dispose()
	root := NewContainer("root")
	root.AddChild(n)
	if root.NumChildren() != 1 {
		t.Error("release mode should not guard disposed nodes")
	}
}

func TestDebugMode_ChildCountWarning(t *testing.T) {
	buf := withDebug(t)
	root := NewContainer("crowded")
	for range debugMaxChildCount + 1 {
		root.AddChild(NewContainer("c"))
	}
	out := buf.String()
	if !strings.Contains(out, "more than 256 children attached") || !strings.Contains(out, `"node":"crowded"`) {
		t.Errorf("expected child count warning, got %q", out)
	}
}

func TestDebugStats_SilentWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	s := NewScene(Rect{Width: 1, Height: 1})
	s.log = zerolog.New(&buf)
	s.logFrameStats(frameStats{labels: 1})
	if buf.Len() != 0 {
		t.Errorf("stats logged with debug off: %q", buf.String())
	}
}

func TestStopwatchZeroOutsideDebug(t *testing.T) {
	s := NewScene(Rect{Width: 1, Height: 1})
	lap := s.stopwatch()
	if d := lap(); d != 0 {
		t.Errorf("lap = %v, want 0 with debug off", d)
	}
	s.debug = true
	lap = s.stopwatch()
	if d := lap(); d < 0 {
		t.Errorf("lap = %v, want >= 0", d)
	}
}
