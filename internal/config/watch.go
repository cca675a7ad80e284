package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mrz1836/skillreport/internal/errors"
)

// reloadOps are the file events that trigger a reload.
const reloadOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// ReloadFunc receives the outcome of each reload Watch performs.
// On failure cfg is nil and err is the pipeline error.
type ReloadFunc func(cfg *AppConfig, err error)

// Watch reloads the configuration whenever the project config file changes,
// until ctx is done. It watches the containing directory so that editors that
// replace the file by rename, and a file created after startup, are both seen.
// Bursts of events are coalesced into one reload after the debounce interval.
//
// Watch observes the operating system file system; it does not see files
// that only exist on an in-memory Fs. It returns nil when ctx is done.
func (m *Manager) Watch(ctx context.Context, onReload ReloadFunc) error {
	path, err := m.SourcePath()
	if err != nil {
		return err
	}
	target := filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrapf(errors.ErrWatchFailed, "create watcher: %v", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(errors.ErrWatchFailed, "watch %s: %v", filepath.Dir(target), err)
	}

	logger := m.loggerFor(ctx).With().Str("component", "config").Str("source", target).Logger()
	logger.Info().Msg("watching config source")

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("stopped watching config source")
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&reloadOps == 0 {
				continue
			}
			logger.Debug().Str("op", ev.Op.String()).Msg("config source changed")
			if timer == nil {
				timer = time.NewTimer(m.debounce)
			} else {
				timer.Reset(m.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			cfg, err := m.Reload(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("config reload failed")
			} else {
				logger.Info().Msg("config reloaded")
			}
			if onReload != nil {
				onReload(cfg, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("config watcher error")
		}
	}
}
