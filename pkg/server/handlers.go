package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/chartwire/pkg/buildinfo"
	errs "github.com/matzehuels/chartwire/pkg/errors"
	"github.com/matzehuels/chartwire/pkg/observability"
	"github.com/matzehuels/chartwire/pkg/pipeline"
	"github.com/matzehuels/chartwire/pkg/spec"
)

// sourceStyle is the chroma style of the source view.
const sourceStyle = "github"

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get(LiveReloadPath, s.hub.serveWS)
	r.Route("/charts/{id}", func(r chi.Router) {
		r.Get("/", s.handleChart)
		r.Get("/document.js", s.handleDocument)
		r.Get("/source", s.handleSource)
	})
	return r
}

// observe reports every request to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", time.Since(start))
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, s.Files(), s.opts.Pipeline.Title)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	title := f.Title
	if title == "" {
		title = f.ID
	}
	s.writePage(w, r, []*spec.File{f}, title)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, files []*spec.File, title string) {
	opts := s.opts.Pipeline
	opts.Formats = []string{pipeline.FormatHTML}
	opts.Title = title
	opts.LiveReloadPath = LiveReloadPath

	result, err := s.runner.Execute(r.Context(), files, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(result.Artifacts[pipeline.HTMLFile])
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}
	c, _, err := s.runner.SerializeWithCacheInfo(r.Context(), f, s.opts.Pipeline)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	_, _ = w.Write([]byte(c.Text))
}

func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	f, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var source, language string
	switch view := r.URL.Query().Get("view"); view {
	case "", "document":
		opts := s.opts.Pipeline
		opts.Pretty = true
		c, _, err := s.runner.SerializeWithCacheInfo(r.Context(), f, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		source, language = c.Text, "javascript"
	case "spec":
		data, err := os.ReadFile(f.Path)
		if err != nil {
			s.writeError(w, r, errs.Wrap(errs.ErrCodeNotFound, err, "read %s", f.Name()))
			return
		}
		source, language = string(data), specLanguage(f.Format)
	default:
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "unknown view %q (use document or spec)", view))
		return
	}

	var buf bytes.Buffer
	if err := highlight(&buf, source, language); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "highlight %s", f.ID))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

type health struct {
	Status   string    `json:"status"`
	Version  string    `json:"version"`
	Charts   int       `json:"charts"`
	Clients  int       `json:"clients"`
	LoadedAt time.Time `json:"loaded_at"`
	Error    string    `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	charts, loadErr, loaded := s.status()
	h := health{
		Status:   "ok",
		Version:  buildinfo.Get().Short(),
		Charts:   charts,
		Clients:  s.hub.len(),
		LoadedAt: loaded,
	}
	if loadErr != nil {
		h.Status = "degraded"
		h.Error = errs.UserMessage(loadErr)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h)
}

// lookup resolves the {id} URL parameter, writing an error response when the
// chart does not exist.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*spec.File, bool) {
	id := chi.URLParam(r, "id")
	if err := errs.ValidateChartID(id); err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	f, ok := s.file(id)
	if !ok {
		s.writeError(w, r, errs.New(errs.ErrCodeNotFound, "chart %q not found", id))
		return nil, false
	}
	return f, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	route := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		route = rctx.RoutePattern()
	}
	observability.HTTP().OnError(r.Context(), r.Method, route, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	http.Error(w, errs.UserMessage(err), status)
}

func statusFor(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidChartID:
		return http.StatusBadRequest
	case errs.ErrCodeInvalidSpec, errs.ErrCodeInvalidChartType, errs.ErrCodeInvalidArgumentName,
		errs.ErrCodeDuplicateArgument, errs.ErrCodeEmbedding, errs.ErrCodeHook:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// highlight writes source as a standalone HTML page.
func highlight(buf *bytes.Buffer, source, language string) error {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(sourceStyle)
	if style == nil {
		style = styles.Fallback
	}
	formatter := html.New(html.Standalone(true), html.WithLineNumbers(true), html.TabWidth(2))
	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return err
	}
	return formatter.Format(buf, style, iterator)
}

func specLanguage(format spec.Format) string {
	switch format {
	case spec.FormatTOML:
		return "toml"
	case spec.FormatYAML:
		return "yaml"
	default:
		return "json"
	}
}
