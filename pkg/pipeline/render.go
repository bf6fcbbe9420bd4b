package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/chartwire/pkg/render"
	"github.com/matzehuels/chartwire/pkg/render/page"
)

// pageFormats are the formats rendered through the page host and cached as
// artifacts. Document and manifest outputs are cheap copies of the
// serialized charts.
var pageFormats = map[string]string{
	FormatHTML: HTMLFile,
	FormatJS:   ScriptFile,
}

// Manifest lists the charts of a pipeline run.
type Manifest struct {
	Title  string          `json:"title"`
	Charts []ManifestChart `json:"charts"`
}

// ManifestChart is one chart in a Manifest.
type ManifestChart struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Source   string `json:"source,omitempty"`
	Document string `json:"document"`
	Bytes    int    `json:"bytes"`
	Patched  bool   `json:"patched,omitempty"`
}

// Render generates output artifacts for the requested formats, keyed by
// file name.
func Render(ctx context.Context, charts []*Chart, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		switch format {
		case FormatHTML, FormatJS:
			data, err := renderPage(ctx, charts, format, opts)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", format, err)
			}
			artifacts[pageFormats[format]] = data
		case FormatDoc:
			for _, c := range charts {
				artifacts[DocumentFile(c.ID)] = []byte(c.Text)
			}
		case FormatJSON:
			data, err := renderManifest(charts, opts)
			if err != nil {
				return nil, fmt.Errorf("render %s: %w", format, err)
			}
			artifacts[ManifestFile] = data
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
	}
	return artifacts, nil
}

func renderPage(ctx context.Context, charts []*Chart, format string, opts Options) ([]byte, error) {
	host := page.New(opts.PageOptions())
	hookName := ""
	if opts.Mutate {
		hookName = render.HookName
	}
	for _, c := range charts {
		host.Describe(c.ID, c.Title, c.Description)
		if err := host.ConstructText(ctx, c.ID, c.Text, hookName); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	var err error
	if format == FormatHTML {
		err = host.WriteHTML(&buf)
	} else {
		err = host.WriteScript(&buf)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderManifest(charts []*Chart, opts Options) ([]byte, error) {
	m := Manifest{Title: opts.Title, Charts: make([]ManifestChart, len(charts))}
	for i, c := range charts {
		m.Charts[i] = ManifestChart{
			ID:       c.ID,
			Type:     c.Type,
			Title:    c.Title,
			Source:   c.Source,
			Document: DocumentFile(c.ID),
			Bytes:    len(c.Text),
			Patched:  c.Patched,
		}
	}
	return json.MarshalIndent(m, "", "  ")
}
