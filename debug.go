package lingolens

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// debugLog receives node-level debug warnings. Scene.SetLogger updates it.
var debugLog = zerolog.Nop()

// frameStats is filled by Scene.Draw and logged in debug mode.
type frameStats struct {
	collect, sort, submit time.Duration
	labels, drawCalls     int
}

// stopwatch returns a lap function reporting the time since the previous
// lap. Outside debug mode laps are always zero and the clock is never read.
func (s *Scene) stopwatch() func() time.Duration {
	if !s.debug {
		return func() time.Duration { return 0 }
	}
	last := time.Now()
	return func() time.Duration {
		now := time.Now()
		d := now.Sub(last)
		last = now
		return d
	}
}

func (s *Scene) logFrameStats(st frameStats) {
	if !s.debug {
		return
	}
	s.log.Debug().
		Dur("collect", st.collect).
		Dur("sort", st.sort).
		Dur("submit", st.submit).
		Int("labels", st.labels).
		Int("draw_calls", st.drawCalls).
		Msg("frame")
}

// debugCheckDisposed panics when a tree edit touches a disposed node.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("lingolens debug: %s on disposed node %q", op, n.Name))
	}
}

// Labels hang directly off the root, so this is a soft cap on live annotations.
const debugMaxChildCount = 256

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugLog.Warn().
			Str("node", n.Name).
			Int("children", len(n.children)).
			Msgf("more than %d children attached", debugMaxChildCount)
	}
}
