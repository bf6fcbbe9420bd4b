// Package server is the chartwire preview server.
//
// It serves every chart spec in a directory as live HTML pages, watches the
// directory for changes and tells open pages to reload over a websocket:
//
//	GET /                       page with every chart
//	GET /charts/{id}            page with one chart
//	GET /charts/{id}/document.js  the serialized chart document
//	GET /charts/{id}/source     highlighted document (?view=spec for the spec file)
//	GET /ws                     live-reload websocket
//	GET /healthz                status as JSON
//
// Rendering goes through a [pipeline.Runner], so documents and pages are
// cached by content hash; an in-memory [cache.LRUCache] is the usual choice.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/chartwire/pkg/errors"
	"github.com/matzehuels/chartwire/pkg/pipeline"
	"github.com/matzehuels/chartwire/pkg/spec"
)

const (
	// DefaultAddr is the listen address used when Options.Addr is empty.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultDebounce is how long the watcher waits for a burst of file
	// events to settle before reloading.
	DefaultDebounce = 100 * time.Millisecond

	// LiveReloadPath is the websocket route pages connect to.
	LiveReloadPath = "/ws"

	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	// Dir is the directory of spec files to serve.
	Dir string
	// Addr is the listen address.
	Addr string
	// Pipeline carries the page settings (Chart.js URL, plugins, hook source,
	// mutate, pretty). Formats and LiveReloadPath are set per request.
	Pipeline pipeline.Options
	// Debounce delays reloads after file events.
	Debounce time.Duration
	Logger   *log.Logger
}

// Server serves a directory of chart specs.
type Server struct {
	runner *pipeline.Runner
	opts   Options
	logger *log.Logger
	hub    *hub

	mu      sync.RWMutex
	files   []*spec.File
	byID    map[string]*spec.File
	loadErr error
	loaded  time.Time
}

// New creates a server for opts.Dir and loads its specs. A directory that
// fails to load is an error here; later reload failures keep the previous
// charts and are reported to open pages instead.
func New(ctx context.Context, runner *pipeline.Runner, opts Options) (*Server, error) {
	if opts.Dir == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "spec directory is required")
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	opts.Pipeline.Logger = opts.Logger

	s := &Server{
		runner: runner,
		opts:   opts,
		logger: opts.Logger,
		hub:    newHub(opts.Logger),
		byID:   make(map[string]*spec.File),
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload reads the spec directory again. An empty directory is not an error.
// On failure the previously loaded charts stay in place.
func (s *Server) Reload(ctx context.Context) error {
	paths, err := spec.ListDir(s.opts.Dir)
	var files []*spec.File
	if err == nil && len(paths) > 0 {
		files, err = pipeline.LoadFiles(ctx, paths)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
	if err != nil {
		return err
	}
	s.files = files
	s.byID = make(map[string]*spec.File, len(files))
	for _, f := range files {
		s.byID[f.ID] = f
	}
	s.loaded = time.Now()
	s.logger.Debug("loaded specs", "dir", s.opts.Dir, "charts", len(files))
	return nil
}

// Files returns the loaded specs in name order.
func (s *Server) Files() []*spec.File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*spec.File(nil), s.files...)
}

func (s *Server) file(id string) (*spec.File, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.byID[id]
	return f, ok
}

func (s *Server) status() (charts int, loadErr error, loaded time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files), s.loadErr, s.loaded
}

// reloadAndNotify reloads the directory and tells connected pages.
func (s *Server) reloadAndNotify(ctx context.Context) {
	if err := s.Reload(ctx); err != nil {
		s.logger.Error("reload failed", "dir", s.opts.Dir, "err", err)
		s.hub.broadcast(message{Type: messageError, Error: errs.UserMessage(err)})
		return
	}
	files := s.Files()
	ids := make([]string, len(files))
	for i, f := range files {
		ids[i] = f.ID
	}
	s.logger.Info("reloaded charts", "charts", len(ids), "clients", s.hub.len())
	s.hub.broadcast(message{Type: messageReload, Charts: ids})
}

// ListenAndServe serves HTTP on opts.Addr and watches the spec directory
// until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 2)
	go func() {
		if err := s.Watch(ctx); err != nil {
			errCh <- err
		}
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errs.Wrap(errs.ErrCodeNetwork, err, "listen on %s", s.opts.Addr)
		}
	}()
	s.logger.Info("serving charts", "url", "http://"+s.opts.Addr, "dir", s.opts.Dir)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	s.hub.close()
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
