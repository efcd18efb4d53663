package lingolens

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultErrorSeconds is how long a placement failure stays on screen.
const DefaultErrorSeconds = 4.0

// Banner is a transient, self-clearing message. Its opacity follows an
// ease-in curve so it stays solid for most of its lifetime and fades at the
// end. Call Update(dt) once per frame.
//
// There is no global animation manager; the owner advances it.
type Banner struct {
	message string
	tween   *gween.Tween
	alpha   float64
}

// Show (re)starts the banner with msg for duration seconds.
func (b *Banner) Show(msg string, duration float64) {
	if duration <= 0 {
		duration = DefaultErrorSeconds
	}
	b.message = msg
	b.alpha = 1
	b.tween = gween.New(1, 0, float32(duration), ease.InExpo)
}

// Update advances the fade by dt seconds and clears the banner when it ends.
func (b *Banner) Update(dt float64) {
	if b.tween == nil {
		return
	}
	val, done := b.tween.Update(float32(dt))
	b.alpha = float64(val)
	if done {
		b.Clear()
	}
}

// Clear hides the banner immediately.
func (b *Banner) Clear() {
	b.message = ""
	b.alpha = 0
	b.tween = nil
}

// Visible reports whether a message is showing.
func (b *Banner) Visible() bool {
	return b.tween != nil
}

// Message returns the current message, or "".
func (b *Banner) Message() string {
	return b.message
}

// Alpha returns the current opacity in [0, 1].
func (b *Banner) Alpha() float64 {
	return b.alpha
}
