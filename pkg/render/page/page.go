// Package page is a render host that writes charts into an HTML page.
//
// Each constructed chart gets a <canvas> element and a script block that
// calls new Chart(canvas, config). The config is the document text itself, so
// function leaves become live functions when the browser parses the script.
//
// Charts handed over with RenderMutate resolve window.mutate_chart_object when
// the page runs. If the page defines no such function the document is used
// unchanged.
package page

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"

	"github.com/matzehuels/chartwire/pkg/document"
	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// DefaultChartJSURL is the Chart.js bundle loaded when Options.ChartJSURL is empty.
const DefaultChartJSURL = "https://cdn.jsdelivr.net/npm/chart.js@4"

// Options configures the generated page.
type Options struct {
	Title      string
	ChartJSURL string
	// PluginURLs are loaded after Chart.js, in order.
	PluginURLs []string
	// HookSource is inline JavaScript placed before the charts, typically the
	// definition of window.mutate_chart_object.
	HookSource string
	// LiveReloadPath, when set, adds a websocket client that reloads the page
	// on a {"type":"reload"} message from that path.
	LiveReloadPath string
	// Pretty indents the embedded documents.
	Pretty bool
}

// Chart is one chart on the page.
type Chart struct {
	ID          string
	Title       string
	Description template.HTML
	// HookName is set for charts handed over with RenderMutate.
	HookName string
	// Update makes the script update an existing chart with this id instead
	// of creating a new one.
	Update bool
	text   string
}

// Text returns the document text embedded for the chart.
func (c Chart) Text() string { return c.text }

// Host collects charts and writes them out as a page or a script.
type Host struct {
	mu     sync.Mutex
	opts   Options
	charts []*Chart
	byID   map[string]*Chart
	meta   map[string]Chart
}

// New returns an empty page host.
func New(opts Options) *Host {
	if opts.ChartJSURL == "" {
		opts.ChartJSURL = DefaultChartJSURL
	}
	return &Host{opts: opts, byID: make(map[string]*Chart), meta: make(map[string]Chart)}
}

// Describe sets the heading and description shown above the chart with the
// given id. It may be called before or after the chart is constructed.
func (h *Host) Describe(id, title string, description template.HTML) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.meta[id] = Chart{Title: title, Description: description}
	if c, ok := h.byID[id]; ok {
		c.Title, c.Description = title, description
	}
}

// Construct implements render.Host.
func (h *Host) Construct(ctx context.Context, id string, doc *document.Document) error {
	return h.add(ctx, id, doc, "", false)
}

// ConstructMutated implements render.DeferredMutator.
func (h *Host) ConstructMutated(ctx context.Context, id string, doc *document.Document, hookName string) error {
	return h.add(ctx, id, doc, hookName, false)
}

// Update implements render.Updater. The chart must have been constructed on
// this page.
func (h *Host) Update(ctx context.Context, id string, doc *document.Document) error {
	h.mu.Lock()
	_, ok := h.byID[id]
	h.mu.Unlock()
	if !ok {
		return errs.New(errs.ErrCodeNotFound, "no chart %q on this page", id)
	}
	return h.add(ctx, id, doc, "", true)
}

func (h *Host) add(ctx context.Context, id string, doc *document.Document, hookName string, update bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := errs.ValidateChartID(id); err != nil {
		return err
	}
	text, err := h.encode(doc)
	if err != nil {
		return err
	}
	h.store(id, text, hookName, update)
	return nil
}

// ConstructText adds a chart from document text written earlier by
// document.Encode or EncodeIndent, for example one read back from a cache.
// The text is embedded as given; it must still be safe inside a script block.
// hookName is empty for a plain render.
func (h *Host) ConstructText(ctx context.Context, id, text, hookName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := errs.ValidateChartID(id); err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return errs.New(errs.ErrCodeInvalidInput, "chart %q has no document text", id)
	}
	if err := checkScriptSafe(text); err != nil {
		return errs.Wrap(errs.ErrCodeEmbedding, err, "chart %q cannot be placed in a script block", id)
	}
	h.store(id, text, hookName, false)
	return nil
}

func (h *Host) store(id, text, hookName string, update bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.byID[id]
	if !ok {
		c = &Chart{ID: id}
		h.charts = append(h.charts, c)
		h.byID[id] = c
	}
	if m, ok := h.meta[id]; ok {
		c.Title, c.Description = m.Title, m.Description
	}
	c.text = text
	c.HookName = hookName
	c.Update = update && ok
}

func (h *Host) encode(doc *document.Document) (string, error) {
	var buf bytes.Buffer
	var err error
	if h.opts.Pretty {
		err = doc.EncodeIndent(&buf, "  ")
	} else {
		err = doc.Encode(&buf)
	}
	if err != nil {
		return "", err
	}
	text := buf.String()
	if err := checkScriptSafe(text); err != nil {
		return "", errs.Wrap(errs.ErrCodeEmbedding, err, "chart %q cannot be placed in a script block", doc.ID())
	}
	return text, nil
}

// checkScriptSafe rejects text that would end or confuse an inline <script>
// element. Quoted strings are already escaped by the encoder; this catches
// function bodies, which are written verbatim.
func checkScriptSafe(text string) error {
	lower := strings.ToLower(text)
	for _, bad := range []string{"</script", "<!--", "<script"} {
		if strings.Contains(lower, bad) {
			return errs.New(errs.ErrCodeEmbedding, "contains %q", bad)
		}
	}
	return nil
}

// Charts returns the collected charts in page order.
func (h *Host) Charts() []Chart {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Chart, len(h.charts))
	for i, c := range h.charts {
		out[i] = *c
	}
	return out
}

// Len returns the number of charts.
func (h *Host) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.charts)
}

// WriteScript writes the standalone JavaScript that constructs every chart.
// The page it runs in must provide Chart and a canvas per chart id.
func (h *Host) WriteScript(w io.Writer) error {
	script, err := h.script()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, script)
	return err
}

// WriteHTML writes a complete page.
func (h *Host) WriteHTML(w io.Writer) error {
	script, err := h.script()
	if err != nil {
		return err
	}
	if err := checkScriptSafe(h.opts.HookSource); err != nil {
		return errs.Wrap(errs.ErrCodeEmbedding, err, "hook source cannot be placed in a script block")
	}
	data := pageData{
		Title:          h.opts.Title,
		ChartJSURL:     h.opts.ChartJSURL,
		PluginURLs:     h.opts.PluginURLs,
		HookSource:     template.JS(h.opts.HookSource),
		Script:         template.JS(script),
		LiveReloadPath: h.opts.LiveReloadPath,
		Charts:         h.Charts(),
	}
	return pageTemplate.Execute(w, data)
}

func (h *Host) script() (string, error) {
	charts := h.Charts()
	var b strings.Builder
	for _, c := range charts {
		id, err := json.Marshal(c.ID)
		if err != nil {
			return "", err
		}
		b.WriteString("(function () {\n")
		fmt.Fprintf(&b, "  var config = %s;\n", c.text)
		if c.HookName != "" {
			hook, _ := json.Marshal(c.HookName)
			fmt.Fprintf(&b, "  var hook = globalThis[%s];\n", hook)
			b.WriteString("  if (typeof hook === \"function\") {\n")
			b.WriteString("    var mutated = hook(config);\n")
			b.WriteString("    if (mutated !== undefined && mutated !== null) config = mutated;\n")
			b.WriteString("  }\n")
		}
		if c.Update {
			fmt.Fprintf(&b, "  var existing = Chart.getChart(%s);\n", id)
			b.WriteString("  if (existing) {\n")
			b.WriteString("    existing.data = config.data;\n")
			b.WriteString("    existing.options = config.options || {};\n")
			b.WriteString("    existing.update();\n")
			b.WriteString("    return;\n")
			b.WriteString("  }\n")
		}
		fmt.Fprintf(&b, "  new Chart(document.getElementById(%s), config);\n", id)
		b.WriteString("})();\n")
	}
	return b.String(), nil
}
