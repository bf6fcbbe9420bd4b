package spec

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/chartwire/pkg/chartjs"
	"github.com/matzehuels/chartwire/pkg/document"
	errs "github.com/matzehuels/chartwire/pkg/errors"
	"github.com/matzehuels/chartwire/pkg/render"
)

// Patch edits one document path after serialization. Exactly one of Value,
// Function or Delete is set.
type Patch struct {
	Path     string                 `json:"path" jsonschema:"description=Dotted document path such as options.plugins.legend.display"`
	Value    json.RawMessage        `json:"value,omitempty" jsonschema:"description=Any JSON value"`
	Function *chartjs.FunctionValue `json:"function,omitempty" jsonschema:"description=A function emitted unquoted"`
	Delete   bool                   `json:"delete,omitempty" jsonschema:"description=Remove the path instead of setting it"`
}

func (p *Patch) validate() error {
	if err := errs.ValidateDocumentPath(p.Path); err != nil {
		return err
	}
	if p.Path == document.IDKey {
		return errs.New(errs.ErrCodeInvalidSpec, "patches cannot change the chart id")
	}
	set := 0
	if !isNullJSON(p.Value) {
		set++
	}
	if p.Function != nil {
		set++
	}
	if p.Delete {
		set++
	}
	if set != 1 {
		return errs.New(errs.ErrCodeInvalidSpec, "patch %q must set exactly one of value, function or delete", p.Path)
	}
	return nil
}

// Node returns the document node the patch writes. It returns nil for a
// delete patch.
func (p *Patch) Node() (document.Node, error) {
	if p.Delete {
		return nil, nil
	}
	if p.Function != nil {
		if err := p.Function.Check(); err != nil {
			return nil, err
		}
		n, ok, err := p.Function.DocumentValue()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidSpec, "patch %q has an empty function", p.Path)
		}
		return n, nil
	}
	n, err := document.ParseJSON(p.Value)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidSpec, err, "patch %q value", p.Path)
	}
	return n, nil
}

// Apply applies the patch to doc.
func (p *Patch) Apply(doc *document.Document) error {
	if p.Delete {
		_, err := doc.Delete(p.Path)
		return err
	}
	n, err := p.Node()
	if err != nil {
		return err
	}
	return doc.Set(p.Path, n)
}

// PatchHook returns a mutation hook that applies each file's patches to the
// document with the file's chart id. Documents of other charts pass through
// unchanged.
func PatchHook(files ...*File) render.Hook {
	byID := make(map[string][]Patch, len(files))
	for _, f := range files {
		if len(f.Patches) > 0 {
			byID[f.ID] = append(byID[f.ID], f.Patches...)
		}
	}
	return func(ctx context.Context, doc *document.Document) (*document.Document, error) {
		patches := byID[doc.ID()]
		if len(patches) == 0 {
			return nil, nil
		}
		for i := range patches {
			if err := patches[i].Apply(doc); err != nil {
				return nil, errs.Annotate(err, errs.ErrCodeHook, "patch %q", patches[i].Path)
			}
		}
		return doc, nil
	}
}

// HasPatches reports whether any file carries patches.
func HasPatches(files ...*File) bool {
	for _, f := range files {
		if len(f.Patches) > 0 {
			return true
		}
	}
	return false
}
