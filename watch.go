package lingolens

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const configReloadDelay = 200 * time.Millisecond

// WatchConfig reloads the YAML file at path whenever it changes and passes
// each valid result to apply. Edits that fail to parse or validate are logged
// and skipped. Watching stops when ctx is done.
//
// apply runs on a timer goroutine; hosts hand the config to Store.Post.
func WatchConfig(ctx context.Context, path string, log zerolog.Logger, apply func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("lingolens: create config watcher: %w", err)
	}
	// Editors often replace the file instead of writing it in place, so
	// watch the directory and filter by name.
	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("lingolens: watch config %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("lingolens: watch config %s: %w", path, err)
	}

	log = log.With().Str("component", "config").Str("path", path).Logger()
	go processConfigEvents(ctx, watcher, abs, log, apply)
	log.Info().Msg("watching config")
	return nil
}

func processConfigEvents(ctx context.Context, watcher *fsnotify.Watcher, path string, log zerolog.Logger, apply func(Config)) {
	defer watcher.Close()

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reload := func() {
		cfg, err := LoadConfig(path)
		if err != nil {
			log.Warn().Err(err).Msg("config reload skipped")
			return
		}
		log.Info().Msg("config reloaded")
		apply(cfg)
	}

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug().Str("op", event.Op.String()).Msg("config changed")
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(configReloadDelay, reload)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("config watcher")
		}
	}
}
