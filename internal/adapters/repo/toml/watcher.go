package toml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/pcg-autocatch/internal/domain"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const reloadDebounce = 150 * time.Millisecond

// Watch reloads the settings file whenever it changes and hands valid
// results to onChange. Invalid files are logged and skipped. The parent
// directory is watched so editors that replace the file are seen. Watch
// blocks until ctx is done.
func (r *Repository) Watch(ctx context.Context, logger zerolog.Logger, onChange func(domain.CatchSettings)) error {
	logger = logger.With().Str("component", "settings_watcher").Str("path", r.settingsPath).Logger()

	dir := filepath.Dir(r.settingsPath)
	if err := os.MkdirAll(dir, settingsDirMode); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch settings directory: %w", err)
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != r.settingsPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			debounce = time.After(reloadDebounce)
		case <-debounce:
			debounce = nil
			settings, err := r.Load(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("ignoring settings change")
				continue
			}
			logger.Info().Msg("settings reloaded")
			onChange(settings)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("settings watcher error")
		}
	}
}
