package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartwire/pkg/document"
	errs "github.com/matzehuels/chartwire/pkg/errors"
	"github.com/matzehuels/chartwire/pkg/observability"
)

// Renderer serializes chart configurations and hands them to a host.
// It holds no per-chart state and is safe for concurrent use if the host is.
type Renderer struct {
	host   Host
	logger *log.Logger
}

// NewRenderer returns a renderer for host. A nil logger discards output.
func NewRenderer(host Host, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Renderer{host: host, logger: logger}
}

// Host returns the renderer's host.
func (r *Renderer) Host() Host {
	return r.host
}

// Render serializes cfg and constructs the chart without a mutation step.
func (r *Renderer) Render(ctx context.Context, cfg Config) error {
	return r.handoff(ctx, cfg, ModeRender, func(doc *document.Document) error {
		return r.host.Construct(ctx, doc.ID(), doc)
	})
}

// RenderMutate serializes cfg, lets the host's mutation hook rewrite the
// document, and constructs the chart from the result. A missing hook is not an
// error: the document is constructed unchanged.
func (r *Renderer) RenderMutate(ctx context.Context, cfg Config) error {
	return r.handoff(ctx, cfg, ModeMutate, func(doc *document.Document) error {
		id := doc.ID()
		if dm, ok := r.host.(DeferredMutator); ok {
			r.logger.Debug("deferring mutation hook to host", "chart", id, "hook", HookName)
			return dm.ConstructMutated(ctx, id, doc, HookName)
		}
		final, err := r.Mutate(ctx, doc)
		if err != nil {
			return err
		}
		return r.host.Construct(ctx, id, final)
	})
}

// Update serializes cfg and updates the existing chart with the same id. Hosts
// that cannot update in place construct the chart again.
func (r *Renderer) Update(ctx context.Context, cfg Config) error {
	return r.handoff(ctx, cfg, ModeUpdate, func(doc *document.Document) error {
		if u, ok := r.host.(Updater); ok {
			return u.Update(ctx, doc.ID(), doc)
		}
		return r.host.Construct(ctx, doc.ID(), doc)
	})
}

// Mutate applies the host's Go mutation hook to a copy of doc and returns the
// result. It returns doc itself when the host has no hook.
func (r *Renderer) Mutate(ctx context.Context, doc *document.Document) (*document.Document, error) {
	id := doc.ID()
	resolver, ok := r.host.(HookResolver)
	if !ok {
		observability.Pipeline().OnMutate(ctx, id, HookName, false)
		return doc, nil
	}
	hook, ok := resolver.LookupHook(HookName)
	if !ok || hook == nil {
		r.logger.Debug("no mutation hook, passing through", "chart", id)
		observability.Pipeline().OnMutate(ctx, id, HookName, false)
		return doc, nil
	}

	in := doc.Clone()
	out, err := hook(ctx, in)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeHook, err, "%s failed for chart %q", HookName, id)
	}
	if out == nil {
		// nil keeps the hook's copy, including edits it made in place.
		out = in
	}
	if got := out.ID(); got != id {
		return nil, errs.New(errs.ErrCodeHook, "%s changed the chart id from %q to %q", HookName, id, got)
	}
	// The hook may have added functions; they must embed as safely as the
	// originals.
	if err := document.Check(out.Root()); err != nil {
		return nil, err
	}
	observability.Pipeline().OnMutate(ctx, id, HookName, true)
	r.logger.Debug("applied mutation hook", "chart", id)
	return out, nil
}

// Serialize builds and checks the document for cfg.
func (r *Renderer) Serialize(ctx context.Context, cfg Config) (*document.Document, error) {
	id := cfg.ChartID()
	hooks := observability.Pipeline()
	hooks.OnSerializeStart(ctx, id)
	start := time.Now()

	doc, err := cfg.Document()
	size := 0
	if err == nil {
		var text []byte
		text, err = doc.Bytes()
		size = len(text)
	}
	hooks.OnSerializeComplete(ctx, id, size, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *Renderer) handoff(ctx context.Context, cfg Config, mode string, fn func(*document.Document) error) error {
	doc, err := r.Serialize(ctx, cfg)
	if err != nil {
		return err
	}
	id := doc.ID()

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, id, mode)
	start := time.Now()
	err = fn(doc)
	hooks.OnRenderComplete(ctx, id, mode, time.Since(start), err)
	if err != nil {
		if _, ok := err.(*errs.Error); ok {
			return err
		}
		return fmt.Errorf("%s chart %q: %w", mode, id, err)
	}
	r.logger.Debug("handed off chart", "chart", id, "mode", mode)
	return nil
}
