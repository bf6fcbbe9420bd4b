package pipeline

import (
	"context"
	"os"
	"time"

	errs "github.com/matzehuels/chartwire/pkg/errors"
	"github.com/matzehuels/chartwire/pkg/observability"
	"github.com/matzehuels/chartwire/pkg/spec"
)

// LoadFiles loads spec files. Each path may be a file or a directory, whose
// spec files are loaded in name order. Chart ids must be unique across all
// loaded files.
func LoadFiles(ctx context.Context, paths []string) ([]*spec.File, error) {
	var expanded []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errs.Wrap(errs.ErrCodeNotFound, err, "%s not found", p)
			}
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "stat %s", p)
		}
		if !info.IsDir() {
			expanded = append(expanded, p)
			continue
		}
		found, err := spec.ListDir(p)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, found...)
	}
	if len(expanded) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no spec files found")
	}

	hooks := observability.Pipeline()
	files := make([]*spec.File, 0, len(expanded))
	for _, p := range expanded {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hooks.OnLoadStart(ctx, p)
		start := time.Now()
		f, err := spec.Load(p)
		id := ""
		if f != nil {
			id = f.ID
		}
		hooks.OnLoadComplete(ctx, p, id, time.Since(start), err)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if err := spec.CheckUniqueIDs(files); err != nil {
		return nil, err
	}
	return files, nil
}
