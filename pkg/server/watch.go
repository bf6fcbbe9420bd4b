package server

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	errs "github.com/matzehuels/chartwire/pkg/errors"
	"github.com/matzehuels/chartwire/pkg/spec"
)

// Watch reloads the spec directory whenever a spec file in it changes, and
// notifies connected pages. It blocks until ctx is canceled.
func (s *Server) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "create file watcher")
	}
	defer func() {
		_ = w.Close()
	}()
	if err := w.Add(s.opts.Dir); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "watch %s", s.opts.Dir)
	}
	s.logger.Debug("watching specs", "dir", s.opts.Dir)

	// Editors write files in several steps; reload once the burst settles.
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
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			s.logger.Debug("spec changed", "file", filepath.Base(ev.Name), "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(s.opts.Debounce)
			} else {
				timer.Reset(s.opts.Debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			s.reloadAndNotify(ctx)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", "err", err)
		}
	}
}

// relevant reports whether ev can change the loaded specs.
func relevant(ev fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(ev.Name), ".") || !spec.IsSpecFile(ev.Name) {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
