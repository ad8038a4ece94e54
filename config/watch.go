package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events editors produce on save.
const reloadDelay = 200 * time.Millisecond

// Watch reloads the file at path whenever it is written or recreated and
// sends each successfully loaded configuration on the returned channel.
// Load errors are logged and skipped. The channel is closed when ctx is
// done. The parent directory is watched so atomic-rename saves are seen.
func Watch(ctx context.Context, path string, log *slog.Logger) (<-chan *Config, error) {
	if log == nil {
		log = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch config %s: %w", abs, err)
	}

	out := make(chan *Config, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if name, _ := filepath.Abs(event.Name); name != abs {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(reloadDelay)
				fire = timer.C
			case <-fire:
				fire = nil
				cfg, err := Load(abs)
				if err != nil {
					log.Warn("config reload failed", "path", abs, "err", err)
					continue
				}
				log.Info("config reloaded", "path", abs)
				// Keep only the newest pending config.
				select {
				case <-out:
				default:
				}
				select {
				case out <- cfg:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("config watcher error", "err", err)
			}
		}
	}()
	return out, nil
}
