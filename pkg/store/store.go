// Package store keeps chart spec files under their chart id.
//
// Two backends are provided:
//   - file: JSON envelopes in the user config directory, for the CLI
//   - mongo: a MongoDB collection, for teams sharing one chart library
//
// # Usage
//
//	st, err := store.NewFileStore("") // ~/.config/chartwire/charts/
//	if err != nil {
//	    return err
//	}
//	entry, err := store.NewEntry("revenue.toml", data)
//	if err != nil {
//	    return err
//	}
//	err = st.Put(ctx, entry)
//
// Entries keep the spec source verbatim, comments included, so a chart can be
// fetched back into an editable file.
package store

import (
	"context"
	"time"

	errs "github.com/matzehuels/chartwire/pkg/errors"
	"github.com/matzehuels/chartwire/pkg/spec"
)

// Entry is a stored spec file.
type Entry struct {
	ID        string      `json:"id" bson:"_id"`
	Type      string      `json:"type" bson:"type"`
	Title     string      `json:"title,omitempty" bson:"title,omitempty"`
	Format    spec.Format `json:"format" bson:"format"`
	Source    string      `json:"source" bson:"source"`
	Hash      string      `json:"hash" bson:"hash"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

// NewEntry parses a spec file's content and wraps it for storage. The format
// is taken from name's extension. Specs without an id cannot be stored, since
// the id is the storage key.
func NewEntry(name string, data []byte) (*Entry, error) {
	format, err := spec.FormatFromPath(name)
	if err != nil {
		return nil, err
	}
	f, err := spec.Parse(data, format)
	if err != nil {
		return nil, err
	}
	if f.GeneratedID {
		return nil, errs.New(errs.ErrCodeInvalidSpec, "%s has no id; set one before storing it", name)
	}
	return &Entry{
		ID:        f.ID,
		Type:      f.Type,
		Title:     f.Title,
		Format:    format,
		Source:    string(data),
		Hash:      f.Hash,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// File parses the stored source.
func (e *Entry) File() (*spec.File, error) {
	return spec.Parse([]byte(e.Source), e.Format)
}

// FileName returns a file name for writing the source back to disk.
func (e *Entry) FileName() string {
	return e.ID + "." + string(e.Format)
}

// Store persists entries by chart id.
type Store interface {
	// Get returns the entry with the given id, or an ErrCodeNotFound error.
	Get(ctx context.Context, id string) (*Entry, error)

	// Put creates or replaces the entry with e.ID.
	Put(ctx context.Context, e *Entry) error

	// List returns every entry, sorted by id.
	List(ctx context.Context) ([]*Entry, error)

	// Delete removes the entry with the given id. Deleting a missing entry
	// is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases resources held by the store.
	Close() error
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeNotFound, "chart %q is not in the store", id)
}
