// Package pipeline provides the spec → document → artifact pipeline used by
// the CLI and the preview server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read spec files (TOML, YAML, JSON, JSONC) from disk
//  2. Serialize: Build each chart's typed configuration, encode it as a
//     document and apply spec patches through the mutation hook
//  3. Render: Place the documents in an HTML page or a standalone script,
//     or write them out individually
//
// The serialize and render stages are cached. Documents are keyed by the
// hash of their spec file; page artifacts by the hash of every document on
// the page.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	files, err := pipeline.LoadFiles(ctx, []string{"charts/"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, files, pipeline.Options{
//	    Formats: []string{pipeline.FormatHTML},
//	    Title:   "Quarterly report",
//	})
//	page := result.Artifacts["index.html"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartwire/pkg/cache"
	errs "github.com/matzehuels/chartwire/pkg/errors"
	"github.com/matzehuels/chartwire/pkg/render/page"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultTitle is the page title used when Options.Title is empty.
const DefaultTitle = "Charts"

// Format constants for output formats.
const (
	// FormatHTML is a complete page with every chart ("index.html").
	FormatHTML = "html"
	// FormatJS is the script that constructs every chart ("charts.js").
	FormatJS = "js"
	// FormatDoc is one document per chart ("<id>.js").
	FormatDoc = "doc"
	// FormatJSON is a manifest describing the rendered charts ("charts.json").
	FormatJSON = "json"
)

// Artifact file names.
const (
	HTMLFile     = "index.html"
	ScriptFile   = "charts.js"
	ManifestFile = "charts.json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatJS:   true,
	FormatDoc:  true,
	FormatJSON: true,
}

// DocumentFile returns the artifact name of a chart's document.
func DocumentFile(id string) string {
	return id + ".js"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	Formats    []string `json:"formats,omitempty"`
	Title      string   `json:"title,omitempty"`
	ChartJSURL string   `json:"chartjs_url,omitempty"`
	PluginURLs []string `json:"plugin_urls,omitempty"`

	// HookSource is inline JavaScript placed before the charts, typically a
	// definition of window.mutate_chart_object.
	HookSource string `json:"hook_source,omitempty"`

	// Mutate hands charts over with render_mutate, so the page resolves the
	// mutation hook when it runs. Spec patches are applied either way.
	Mutate bool `json:"mutate,omitempty"`

	// Pretty indents the documents.
	Pretty bool `json:"pretty,omitempty"`

	// Refresh bypasses cached documents and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// LiveReloadPath adds a websocket reload client to the HTML page.
	LiveReloadPath string `json:"live_reload_path,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Charts holds one entry per spec, in input order.
	Charts []*Chart

	// DocumentHash is the content hash of every document, used as the
	// artifact cache key.
	DocumentHash string

	// Artifacts contains rendered outputs keyed by file name.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ChartCount    int
	DocumentBytes int
	SerializeTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DocumentHits int  // Number of documents that came from cache
	RenderHit    bool // Whether all page artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: html, js, doc, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errs.ValidateURL(o.ChartJSURL); err != nil {
		return fmt.Errorf("chartjs url: %w", err)
	}
	for _, u := range o.PluginURLs {
		if err := errs.ValidateURL(u); err != nil {
			return fmt.Errorf("plugin url %q: %w", u, err)
		}
	}
	o.validated = true
	return nil
}

// SetDefaults sets default values for unset fields.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.ChartJSURL == "" {
		o.ChartJSURL = page.DefaultChartJSURL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// DocumentKeyOpts returns cache key options for document serialization.
func (o *Options) DocumentKeyOpts() cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{Pretty: o.Pretty}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:     format,
		Title:      o.Title,
		ChartJSURL: o.ChartJSURL,
		PluginURLs: o.PluginURLs,
		Mutate:     o.Mutate,
		LiveReload: o.LiveReloadPath,
	}
	if o.HookSource != "" {
		opts.HookHash = cache.Hash([]byte(o.HookSource))
	}
	return opts
}

// PageOptions returns the page host options.
func (o *Options) PageOptions() page.Options {
	return page.Options{
		Title:          o.Title,
		ChartJSURL:     o.ChartJSURL,
		PluginURLs:     o.PluginURLs,
		HookSource:     o.HookSource,
		LiveReloadPath: o.LiveReloadPath,
		Pretty:         o.Pretty,
	}
}
