package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/chartwire/pkg/errors"
	"github.com/matzehuels/chartwire/pkg/pipeline"
	"github.com/matzehuels/chartwire/pkg/publish"
)

// publishCommand renders specs and uploads the artifacts to S3.
func (c *CLI) publishCommand() *cobra.Command {
	var (
		name       string
		formatsStr string
		noCache    bool
		flags      pageFlags
	)

	cmd := &cobra.Command{
		Use:   "publish [spec files or directories...]",
		Short: "Render chart specs and upload them to S3-compatible storage",
		Long: `Render chart specs and upload them to S3-compatible storage.

Artifacts are stored as <prefix>/<name>/<file>. The bucket is created if it
does not exist. Connection settings come from CHARTWIRE_S3_* variables or the
[s3] table of the config file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(flags)
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if name == "" {
				name = publishName(args[0])
			}
			if err := errs.ValidateChartID(name); err != nil {
				return fmt.Errorf("--name: %w", err)
			}
			return c.runPublish(cmd.Context(), args, name, opts, noCache)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "object name under the prefix (default: first argument's base name)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): html (default), js, doc, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runPublish(ctx context.Context, paths []string, name string, opts pipeline.Options, noCache bool) error {
	s3 := c.Config.S3
	publisher, err := publish.NewS3Publisher(publish.S3Config{
		Endpoint:  s3.Endpoint,
		Region:    s3.Region,
		AccessKey: s3.AccessKey,
		SecretKey: s3.SecretKey,
		Bucket:    s3.Bucket,
		Prefix:    s3.Prefix,
		UseSSL:    s3.UseSSL,
	}, c.Logger)
	if err != nil {
		return err
	}

	files, err := pipeline.LoadFiles(ctx, paths)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, files, opts)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Uploading %s...", plural(len(result.Artifacts), "file")))
	spinner.Start()
	uploads, err := publisher.Publish(ctx, name, result.Artifacts)
	if err != nil {
		spinner.StopWithError("Publish failed")
		return err
	}
	spinner.Stop()
	prog.done("Uploaded " + plural(len(uploads), "file"))

	printSuccess("Published %s", StyleHighlight.Render(name))
	for _, u := range uploads {
		printKeyValue(formatBytes(u.Size), StyleLink.Render(u.URL))
	}
	return nil
}

// publishName derives an object name from a spec path: the base name without
// its extension.
func publishName(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	base := filepath.Base(abs)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
