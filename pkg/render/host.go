package render

import (
	"context"

	"github.com/matzehuels/chartwire/pkg/document"
)

// HookName is the name under which hosts look up the mutation hook. In a
// browser it is a property of window (globalThis).
const HookName = "mutate_chart_object"

// Handoff modes, as reported to observability hooks and recorded by MemoryHost.
const (
	ModeRender = "render"
	ModeMutate = "render_mutate"
	ModeUpdate = "update"
)

// Config is a chart configuration that can be serialized to a document.
// *chartjs.Chart implements it.
type Config interface {
	ChartID() string
	Document() (*document.Document, error)
}

// Host constructs charts from documents.
type Host interface {
	Construct(ctx context.Context, id string, doc *document.Document) error
}

// HostFunc adapts a function to the Host interface.
type HostFunc func(ctx context.Context, id string, doc *document.Document) error

// Construct calls f.
func (f HostFunc) Construct(ctx context.Context, id string, doc *document.Document) error {
	return f(ctx, id, doc)
}

// Hook rewrites a document before construction. It may modify doc in place,
// return a different document, or return nil to keep doc as it now stands,
// in-place edits included. The returned document must keep the same id.
type Hook func(ctx context.Context, doc *document.Document) (*document.Document, error)

// HookResolver is implemented by hosts that keep Go hooks.
type HookResolver interface {
	LookupHook(name string) (Hook, bool)
}

// DeferredMutator is implemented by hosts that resolve the hook themselves
// when the chart is constructed. The host must pass the document through
// unchanged when no hook named hookName exists.
type DeferredMutator interface {
	ConstructMutated(ctx context.Context, id string, doc *document.Document, hookName string) error
}

// Updater is implemented by hosts that can update an existing chart in place.
type Updater interface {
	Update(ctx context.Context, id string, doc *document.Document) error
}

// ChainHooks returns a hook that applies hooks in order, each one receiving
// the previous result.
func ChainHooks(hooks ...Hook) Hook {
	return func(ctx context.Context, doc *document.Document) (*document.Document, error) {
		for _, h := range hooks {
			out, err := h(ctx, doc)
			if err != nil {
				return nil, err
			}
			if out != nil {
				doc = out
			}
		}
		return doc, nil
	}
}
