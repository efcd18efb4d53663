package lingolens

import (
	"fmt"
	"image"
	"image/draw"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/abhyas01/lingolens/preview"
)

// Screenshot asks the scene to save the next frame it draws. Files land in
// ScreenshotDir as <time>_<n>_<label><ScreenshotExt>.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// PendingScreenshots reports how many captures are waiting for a Draw.
func (s *Scene) PendingScreenshots() int {
	return len(s.screenshotQueue)
}

func (s *Scene) flushScreenshots(screen *ebiten.Image) {
	if len(s.screenshotQueue) == 0 {
		return
	}
	defer func() { s.screenshotQueue = s.screenshotQueue[:0] }()

	ext := s.ScreenshotExt
	if ext == "" {
		ext = ".png"
	}
	frame := readNRGBA(screen)
	prefix := time.Now().Format("20060102-150405")
	for n, label := range s.screenshotQueue {
		name := fmt.Sprintf("%s_%d_%s%s", prefix, n, sanitizeLabel(label), ext)
		path := filepath.Join(s.ScreenshotDir, name)
		if err := preview.Write(path, frame); err != nil {
			s.log.Error().Err(err).Str("path", path).Msg("screenshot")
			continue
		}
		s.log.Info().Str("path", path).Str("label", label).Msg("screenshot written")
	}
}

// readNRGBA copies the GPU image back to memory. ebiten hands out
// premultiplied RGBA; draw.Draw does the conversion to straight alpha.
func readNRGBA(src *ebiten.Image) *image.NRGBA {
	b := src.Bounds()
	premul := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	src.ReadPixels(premul.Pix)

	out := image.NewNRGBA(premul.Rect)
	draw.Draw(out, out.Rect, premul, image.Point{}, draw.Src)
	return out
}

// sanitizeLabel maps a screenshot label onto a safe file-name fragment.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r < 0x80 && (r == '-' || r == '.' || isAlnum(byte(r))) {
			return r
		}
		return '_'
	}, label)
}

func isAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
