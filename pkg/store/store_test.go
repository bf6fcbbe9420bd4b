package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	errs "github.com/matzehuels/chartwire/pkg/errors"
	"github.com/matzehuels/chartwire/pkg/spec"
)

const revenueSpec = `# quarterly revenue
id = "revenue"
type = "bar"
title = "Revenue"

[data]
labels = ["Q1"]
[[data.datasets]]
data = [1]
`

func TestNewEntry(t *testing.T) {
	e, err := NewEntry("revenue.toml", []byte(revenueSpec))
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	if e.ID != "revenue" || e.Type != "bar" || e.Title != "Revenue" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.Format != spec.FormatTOML {
		t.Errorf("Format = %q", e.Format)
	}
	if e.Source != revenueSpec {
		t.Error("source should be kept verbatim")
	}
	if e.FileName() != "revenue.toml" {
		t.Errorf("FileName = %q", e.FileName())
	}

	f, err := e.File()
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if f.ID != "revenue" {
		t.Errorf("parsed id = %q", f.ID)
	}
}

func TestNewEntryRequiresID(t *testing.T) {
	_, err := NewEntry("x.json", []byte(`{"type":"bar","data":{}}`))
	if !errs.Is(err, errs.ErrCodeInvalidSpec) {
		t.Errorf("spec without id should fail with INVALID_SPEC, got %v", err)
	}

	_, err = NewEntry("x.txt", []byte(revenueSpec))
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("unknown extension should fail with INVALID_FORMAT, got %v", err)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "charts")
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer st.Close()
	if st.Path() != dir {
		t.Errorf("Path = %q", st.Path())
	}

	if _, err := st.Get(ctx, "revenue"); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("Get missing should be NOT_FOUND, got %v", err)
	}

	e, err := NewEntry("revenue.toml", []byte(revenueSpec))
	if err != nil {
		t.Fatal(err)
	}
	e.UpdatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := st.Put(ctx, e); err != nil {
		t.Fatalf("Put: %v", err)
	}
	other, err := NewEntry("costs.json", []byte(`{"id":"costs","type":"pie","data":{"datasets":[]}}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Put(ctx, other); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := st.Get(ctx, "revenue")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Source != revenueSpec || !got.UpdatedAt.Equal(e.UpdatedAt) {
		t.Errorf("round trip changed the entry: %+v", got)
	}

	list, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "costs" || list[1].ID != "revenue" {
		t.Errorf("List should be sorted by id, got %d entries", len(list))
	}

	if err := st.Delete(ctx, "revenue"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := st.Delete(ctx, "revenue"); err != nil {
		t.Errorf("Delete of missing entry should succeed: %v", err)
	}
	if _, err := st.Get(ctx, "revenue"); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("deleted entry should be gone, got %v", err)
	}
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"../escape", "a/b", ""} {
		if _, err := st.Get(context.Background(), id); !errs.Is(err, errs.ErrCodeInvalidChartID) {
			t.Errorf("Get(%q) should fail with INVALID_CHART_ID, got %v", id, err)
		}
	}
}

func TestFileStoreListSkipsJunk(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0600)
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600)

	list, err := st.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no entries, got %d", len(list))
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("CHARTWIRE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("CHARTWIRE_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "chartwire_test"})
	if err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}
	defer st.Close()

	e, err := NewEntry("revenue.toml", []byte(revenueSpec))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Delete(context.Background(), e.ID)

	if err := st.Put(ctx, e); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := st.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Source != e.Source {
		t.Error("source changed in round trip")
	}
	if _, err := st.Get(ctx, "no-such-chart"); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("missing chart should be NOT_FOUND, got %v", err)
	}
}

func TestNewMongoStoreRequiresURI(t *testing.T) {
	if _, err := NewMongoStore(context.Background(), MongoConfig{}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("empty uri should fail with INVALID_INPUT, got %v", err)
	}
}
