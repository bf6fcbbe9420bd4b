package pipeline

import (
	"bytes"
	"context"
	"html/template"

	"github.com/matzehuels/chartwire/pkg/document"
	errs "github.com/matzehuels/chartwire/pkg/errors"
	"github.com/matzehuels/chartwire/pkg/render"
	"github.com/matzehuels/chartwire/pkg/spec"
)

// Chart is one serialized chart. It is what the document stage caches.
type Chart struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Title       string        `json:"title,omitempty"`
	Description template.HTML `json:"description,omitempty"`
	// Text is the document, indented when Options.Pretty is set.
	Text string `json:"text"`
	// Patched is set when spec patches were applied.
	Patched bool `json:"patched,omitempty"`
	// Source is the spec file name. It is not cached.
	Source string `json:"-"`
}

// Serialize builds the chart described by f and encodes its document. Spec
// patches are applied by a mutation hook registered under render.HookName.
func Serialize(ctx context.Context, f *spec.File, opts Options) (*Chart, error) {
	opts.SetDefaults()
	cfg, err := spec.Build(f)
	if err != nil {
		return nil, err
	}

	host := render.NewMemoryHost()
	renderer := render.NewRenderer(host, opts.Logger)
	patched := spec.HasPatches(f)
	if patched {
		host.RegisterHook(render.HookName, spec.PatchHook(f))
		err = renderer.RenderMutate(ctx, cfg)
	} else {
		err = renderer.Render(ctx, cfg)
	}
	if err != nil {
		return nil, err
	}
	doc, ok := host.Chart(cfg.ChartID())
	if !ok {
		return nil, errs.New(errs.ErrCodeInternal, "chart %q was not constructed", cfg.ChartID())
	}

	text, err := encodeDocument(doc, opts.Pretty)
	if err != nil {
		return nil, err
	}
	desc, err := f.DescriptionHTML()
	if err != nil {
		return nil, err
	}
	return &Chart{
		ID:          doc.ID(),
		Type:        string(cfg.ChartType()),
		Title:       f.Title,
		Description: desc,
		Text:        text,
		Patched:     patched,
		Source:      f.Name(),
	}, nil
}

func encodeDocument(doc *document.Document, pretty bool) (string, error) {
	var buf bytes.Buffer
	var err error
	if pretty {
		err = doc.EncodeIndent(&buf, "  ")
	} else {
		err = doc.Encode(&buf)
	}
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
