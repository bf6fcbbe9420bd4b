package spec

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/matzehuels/chartwire/pkg/cache"
	"github.com/matzehuels/chartwire/pkg/chartjs"
	errs "github.com/matzehuels/chartwire/pkg/errors"
)

// GeneratedIDPrefix starts every id generated for a spec without one.
const GeneratedIDPrefix = "chart-"

// idNamespace seeds generated ids so the same spec always gets the same id.
var idNamespace = uuid.MustParse("5b0d6a4e-3f43-4b8e-9d55-2a8f0c1e7d21")

// File is a parsed chart spec.
type File struct {
	Schema      string          `json:"$schema,omitempty" jsonschema:"description=Location of this schema for editor support"`
	ID          string          `json:"id,omitempty" jsonschema:"description=Chart id. Generated when empty."`
	Type        string          `json:"type" jsonschema:"description=Chart.js chart type"`
	Title       string          `json:"title,omitempty" jsonschema:"description=Heading shown above the chart"`
	Description string          `json:"description,omitempty" jsonschema:"description=Markdown shown below the heading"`
	Data        json.RawMessage `json:"data"`
	Options     json.RawMessage `json:"options,omitempty"`
	Patches     []Patch         `json:"patches,omitempty" jsonschema:"description=Document edits applied by the mutation hook"`

	// Path is the file the spec was loaded from, if any.
	Path string `json:"-"`
	// Format is the encoding the spec was parsed from.
	Format Format `json:"-"`
	// Hash is the SHA-256 of the raw source.
	Hash string `json:"-"`
	// GeneratedID is set when ID was not given in the source.
	GeneratedID bool `json:"-"`
}

// Load reads and parses the spec file at path.
func Load(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeNotFound, err, "spec file %s not found", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read spec file %s", path)
	}
	f, err := parse(data, format, path)
	if err != nil {
		return nil, errs.Annotate(err, errs.ErrCodeInvalidSpec, "%s", path)
	}
	f.Path = path
	return f, nil
}

// LoadDir loads every spec file directly inside dir, sorted by file name.
// Files with other extensions are skipped.
func LoadDir(dir string) ([]*File, error) {
	paths, err := ListDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]*File, 0, len(paths))
	for _, path := range paths {
		f, err := Load(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if err := CheckUniqueIDs(files); err != nil {
		return nil, err
	}
	return files, nil
}

// ListDir returns the paths of the spec files directly inside dir, sorted.
// Hidden files are skipped.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read spec directory %s", dir)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !IsSpecFile(e.Name()) {
			continue
		}
		if errs.ValidateSpecFilename(e.Name()) != nil {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

// Parse decodes a spec in the given format and validates its structure.
// Data and options are not decoded until Build.
func Parse(data []byte, format Format) (*File, error) {
	return parse(data, format, "")
}

func parse(data []byte, format Format, path string) (*File, error) {
	raw, err := toJSON(data, format)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidSpec, err, "decode %s spec", format)
	}
	var f File
	if err := decodeStrict(raw, &f); err != nil {
		return nil, specError(err, "decode %s spec", format)
	}
	f.Format = format
	f.Hash = cache.Hash(data)

	if f.Type == "" {
		return nil, errs.New(errs.ErrCodeInvalidSpec, "spec has no type")
	}
	if _, err := chartjs.ParseChartType(f.Type); err != nil {
		return nil, err
	}
	if isNullJSON(f.Data) {
		return nil, errs.New(errs.ErrCodeInvalidSpec, "spec has no data")
	}
	if f.ID == "" {
		// The path is part of the seed so identical files in one directory
		// still get distinct ids.
		seed := append([]byte(path+"\x00"), data...)
		f.ID = GeneratedIDPrefix + uuid.NewSHA1(idNamespace, seed).String()
		f.GeneratedID = true
	}
	if err := errs.ValidateChartID(f.ID); err != nil {
		return nil, err
	}
	for i := range f.Patches {
		if err := f.Patches[i].validate(); err != nil {
			return nil, errs.Annotate(err, errs.ErrCodeInvalidSpec, "patch %d", i)
		}
	}
	return &f, nil
}

// Name returns a short label for log lines: the file name when loaded from
// disk, otherwise the chart id.
func (f *File) Name() string {
	if f.Path != "" {
		return filepath.Base(f.Path)
	}
	return f.ID
}

// CheckUniqueIDs fails if two specs declare the same chart id.
func CheckUniqueIDs(files []*File) error {
	seen := make(map[string]string, len(files))
	for _, f := range files {
		if prev, ok := seen[f.ID]; ok {
			return errs.New(errs.ErrCodeInvalidSpec, "chart id %q is used by both %s and %s", f.ID, prev, f.Name())
		}
		seen[f.ID] = f.Name()
	}
	return nil
}

// specError wraps err, keeping the code of a chartwire error raised while
// decoding (an invalid function argument, for example) and using
// ErrCodeInvalidSpec otherwise.
func specError(err error, format string, args ...any) error {
	return errs.Annotate(err, errs.ErrCodeInvalidSpec, format, args...)
}

func isNullJSON(raw json.RawMessage) bool {
	s := string(raw)
	return len(raw) == 0 || s == "null"
}
