package render

import (
	"context"
	"sync"

	"github.com/matzehuels/chartwire/pkg/document"
	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// Handoff is one call received by a MemoryHost.
type Handoff struct {
	Mode string // ModeRender for Construct, ModeUpdate for Update
	ID   string
	Doc  *document.Document
}

// MemoryHost is an in-process host. It keeps the latest document per chart
// id, records every handoff, and resolves Go hooks registered by name.
type MemoryHost struct {
	mu       sync.Mutex
	hooks    map[string]Hook
	charts   map[string]*document.Document
	handoffs []Handoff
}

// NewMemoryHost returns an empty host.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{
		hooks:  make(map[string]Hook),
		charts: make(map[string]*document.Document),
	}
}

// RegisterHook installs hook under name, replacing any previous one.
func (h *MemoryHost) RegisterHook(name string, hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks[name] = hook
}

// RemoveHook uninstalls the hook registered under name.
func (h *MemoryHost) RemoveHook(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.hooks, name)
}

// LookupHook implements HookResolver.
func (h *MemoryHost) LookupHook(name string) (Hook, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hook, ok := h.hooks[name]
	return hook, ok
}

// Construct implements Host. A chart with the same id is replaced.
func (h *MemoryHost) Construct(ctx context.Context, id string, doc *document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record(ModeRender, id, doc)
	return nil
}

// Update implements Updater. The chart must exist.
func (h *MemoryHost) Update(ctx context.Context, id string, doc *document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.charts[id]; !ok {
		return errs.New(errs.ErrCodeNotFound, "no chart %q to update", id)
	}
	h.record(ModeUpdate, id, doc)
	return nil
}

func (h *MemoryHost) record(mode, id string, doc *document.Document) {
	cp := doc.Clone()
	h.charts[id] = cp
	h.handoffs = append(h.handoffs, Handoff{Mode: mode, ID: id, Doc: cp})
}

// Chart returns the current document for id.
func (h *MemoryHost) Chart(id string) (*document.Document, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc, ok := h.charts[id]
	return doc, ok
}

// Charts returns the current documents in the order they were first
// constructed.
func (h *MemoryHost) Charts() []*document.Document {
	h.mu.Lock()
	defer h.mu.Unlock()
	seen := make(map[string]bool, len(h.charts))
	out := make([]*document.Document, 0, len(h.charts))
	for _, ho := range h.handoffs {
		if seen[ho.ID] {
			continue
		}
		seen[ho.ID] = true
		out = append(out, h.charts[ho.ID])
	}
	return out
}

// Handoffs returns every recorded handoff in order.
func (h *MemoryHost) Handoffs() []Handoff {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Handoff(nil), h.handoffs...)
}

// Reset forgets all charts and handoffs. Hooks stay registered.
func (h *MemoryHost) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.charts = make(map[string]*document.Document)
	h.handoffs = nil
}
