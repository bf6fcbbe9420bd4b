package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/chartwire/pkg/errors"
	"github.com/matzehuels/chartwire/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		refresh    bool
		flags      pageFlags
	)

	cmd := &cobra.Command{
		Use:   "render [spec files or directories...]",
		Short: "Render chart specs to HTML, JavaScript and documents",
		Long: `Render chart specs to HTML, JavaScript and documents.

Each argument is a spec file (.toml, .yaml, .yml, .json, .jsonc) or a directory
of them. The output formats are:

  html   index.html with every chart
  js     charts.js, the script that constructs every chart
  doc    <id>.js, one Chart.js config per chart
  json   charts.json, a manifest of the rendered charts

Documents and pages are cached; use --refresh to rebuild them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(flags)
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(formatsStr)
			opts.Refresh = refresh
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): html (default), js, doc, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")
	flags.register(cmd)

	return cmd
}

// runRender loads the specs, runs the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, paths []string, opts pipeline.Options, output string, noCache bool) error {
	files, err := pipeline.LoadFiles(ctx, paths)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", plural(len(files), "chart")))
	spinner.Start()

	result, err := runner.Execute(ctx, files, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("Rendered "+plural(result.Stats.ChartCount, "chart"), "doc_hits", result.CacheInfo.DocumentHits)

	cached := result.CacheInfo.DocumentHits == len(files) && (result.CacheInfo.RenderHit || !hasPageFormat(opts.Formats))
	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		dir:       output,
		charts:    result.Stats.ChartCount,
		docBytes:  result.Stats.DocumentBytes,
		cacheHit:  cached,
	})
}

func hasPageFormat(formats []string) bool {
	for _, f := range formats {
		if f == pipeline.FormatHTML || f == pipeline.FormatJS {
			return true
		}
	}
	return false
}

type artifactWriteParams struct {
	artifacts map[string][]byte
	dir       string
	charts    int
	docBytes  int
	cacheHit  bool
}

// writeArtifacts writes every artifact into dir, in name order.
func writeArtifacts(p artifactWriteParams) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "create output directory %s", p.dir)
	}

	names := make([]string, 0, len(p.artifacts))
	for name := range p.artifacts {
		names = append(names, name)
	}
	sort.Strings(names)

	printSuccess("Render complete")
	for _, name := range names {
		path := filepath.Join(p.dir, name)
		if err := os.WriteFile(path, p.artifacts[name], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(p.charts, p.docBytes, p.cacheHit)

	if _, ok := p.artifacts[pipeline.HTMLFile]; ok {
		printNewline()
		printNextStep("Preview with live reload", appName+" serve <spec dir>")
	}
	return nil
}
