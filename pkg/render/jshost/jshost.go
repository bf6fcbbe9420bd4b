//go:build js && wasm

package jshost

import (
	"context"
	"syscall/js"

	"github.com/matzehuels/chartwire/pkg/document"
	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// Host constructs charts in the current JavaScript realm.
type Host struct {
	global js.Value
}

// New returns a host bound to globalThis.
func New() *Host {
	return &Host{global: js.Global()}
}

// Construct implements render.Host.
func (h *Host) Construct(ctx context.Context, id string, doc *document.Document) error {
	return h.construct(ctx, id, doc, "")
}

// ConstructMutated implements render.DeferredMutator.
func (h *Host) ConstructMutated(ctx context.Context, id string, doc *document.Document, hookName string) error {
	return h.construct(ctx, id, doc, hookName)
}

// Update implements render.Updater using Chart.getChart(id).
func (h *Host) Update(ctx context.Context, id string, doc *document.Document) (err error) {
	defer recoverJSError(&err, id)
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg, err := h.object(doc)
	if err != nil {
		return err
	}
	existing := h.global.Get("Chart").Call("getChart", id)
	if existing.IsUndefined() || existing.IsNull() {
		return errs.New(errs.ErrCodeNotFound, "no chart %q to update", id)
	}
	existing.Set("data", cfg.Get("data"))
	if opts := cfg.Get("options"); !opts.IsUndefined() {
		existing.Set("options", opts)
	}
	existing.Call("update")
	return nil
}

func (h *Host) construct(ctx context.Context, id string, doc *document.Document, hookName string) (err error) {
	defer recoverJSError(&err, id)
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg, err := h.object(doc)
	if err != nil {
		return err
	}
	if hookName != "" {
		if hook := h.global.Get(hookName); hook.Type() == js.TypeFunction {
			mutated := hook.Invoke(cfg)
			if !mutated.IsUndefined() && !mutated.IsNull() {
				cfg = mutated
			}
		}
	}
	canvas := h.global.Get("document").Call("getElementById", id)
	if canvas.IsNull() {
		return errs.New(errs.ErrCodeNotFound, "no element with id %q", id)
	}
	h.global.Get("Chart").New(canvas, cfg)
	return nil
}

// object evaluates the document text into a JavaScript object.
func (h *Host) object(doc *document.Document) (js.Value, error) {
	text, err := doc.Bytes()
	if err != nil {
		return js.Value{}, err
	}
	fn := h.global.Get("Function").New("return " + string(text))
	return fn.Invoke(), nil
}

// recoverJSError turns a thrown JavaScript exception into an error. syscall/js
// reports exceptions as panics of type js.Error. The js.Error is wrapped
// as-is, so errors.As still reaches the thrown value.
func recoverJSError(err *error, id string) {
	r := recover()
	if r == nil {
		return
	}
	if jsErr, ok := r.(js.Error); ok {
		*err = errs.Wrap(errs.ErrCodeConstruct, jsErr, "chart %q", id)
		return
	}
	panic(r)
}
