package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartwire/pkg/cache"
	"github.com/matzehuels/chartwire/pkg/pipeline"
	"github.com/matzehuels/chartwire/pkg/server"
)

// serveCommand creates the serve command for the live preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		flags pageFlags
	)

	cmd := &cobra.Command{
		Use:   "serve [spec dir]",
		Short: "Preview a directory of chart specs with live reload",
		Long: `Preview a directory of chart specs with live reload.

Every spec in the directory is served at /, each chart at /charts/<id>. Pages
reload when a spec file changes. Documents and pages are cached in memory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if addr == "" {
				addr = c.Config.Addr
			}
			opts, err := c.pipelineOptions(flags)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), dir, addr, opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: CHARTWIRE_ADDR or "+server.DefaultAddr+")")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, dir, addr string, opts pipeline.Options) error {
	lru, err := cache.NewLRUCache(defaultServeCacheSize)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(lru, c.keyer(), c.Logger)
	defer runner.Close()

	srv, err := server.New(ctx, runner, server.Options{
		Dir:      dir,
		Addr:     addr,
		Pipeline: opts,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}

	printSuccess("Serving %s", plural(len(srv.Files()), "chart"))
	printKeyValue("URL", StyleLink.Render(fmt.Sprintf("http://%s/", addr)))
	printKeyValue("Directory", dir)
	printNewline()

	return srv.ListenAndServe(ctx)
}
