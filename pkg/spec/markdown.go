package spec

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	errs "github.com/matzehuels/chartwire/pkg/errors"
)

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
)

func markdownRenderer() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdown
}

// DescriptionHTML renders the markdown description. Raw HTML in the source
// is dropped by the renderer.
func (f *File) DescriptionHTML() (template.HTML, error) {
	if f.Description == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdownRenderer().Convert([]byte(f.Description), &buf); err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidSpec, err, "chart %q: description", f.ID)
	}
	return template.HTML(buf.String()), nil
}
