package lingolens

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `yaml:"level" validate:"oneof=trace debug info warn error"`
	// Format is console (human readable) or json.
	Format string `yaml:"format" validate:"oneof=console json"`
}

// NewLogger builds a zerolog logger writing to w (stderr when nil).
func NewLogger(cfg LogConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
