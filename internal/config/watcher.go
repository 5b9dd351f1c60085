package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch reloads the config whenever the file changes and sends the new
// value on the returned channel. Invalid edits are logged and skipped;
// the last good config stays in effect. The watcher stops when ctx is
// cancelled.
func Watch(ctx context.Context, path string, log zerolog.Logger) (<-chan AppConfig, error) {
	if path == "" {
		path = DefaultPath()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors replace files rather than writing in
	// place, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	out := make(chan AppConfig, 1)
	go func() {
		defer watcher.Close()
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					log.Warn().Err(err).Str("path", path).Msg("config reload failed, keeping previous")
					continue
				}
				select {
				case out <- cfg:
				default:
					// Drop if the consumer is behind; the next event
					// will carry a fresher config anyway.
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("config watcher error")
			}
		}
	}()
	return out, nil
}
