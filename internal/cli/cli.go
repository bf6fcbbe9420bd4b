package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartwire/pkg/buildinfo"
	"github.com/matzehuels/chartwire/pkg/cache"
	"github.com/matzehuels/chartwire/pkg/config"
	errs "github.com/matzehuels/chartwire/pkg/errors"
	"github.com/matzehuels/chartwire/pkg/observability"
	"github.com/matzehuels/chartwire/pkg/pipeline"
	"github.com/matzehuels/chartwire/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "chartwire"

	// defaultServeCacheSize is the number of cached documents and pages kept
	// in memory by the preview server.
	defaultServeCacheSize = 1024
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config     *config.Config
	configPath string
	verbose    bool
	errOut     io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		errOut: w,
		Config: &config.Config{Cache: config.CacheFile, Store: config.StoreFile},
	}
}

// SetLogLevel updates the logger's level. At debug level the observability
// hooks log every load, serialize, cache and request event.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	build := buildinfo.Get()
	root := &cobra.Command{
		Use:   appName,
		Short: "chartwire turns chart specs into Chart.js configs",
		Long: `chartwire builds Chart.js configurations from TOML, YAML or JSON chart specs,
including JavaScript callbacks, and renders them to pages, scripts and documents.`,
		Version:       build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(build.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML config file (overrides CHARTWIRE_* variables)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.schemaCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.publishCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the command line with args and returns the process exit code:
// 0 on success, 130 when interrupted, 1 otherwise. Errors are printed to the
// writer given to New.
func (c *CLI) Execute(ctx context.Context, args []string) int {
	root := c.RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	}
	fmt.Fprintln(c.errOut, styleIconError.Render(iconError)+" Error: "+errs.UserMessage(err))
	if code := errs.GetCode(err); code != "" {
		c.Logger.Debug("command failed", "code", code)
	}
	return 1
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, c.keyer(), c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, c.Config.RedisURL)
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

func (c *CLI) keyer() cache.Keyer {
	return cache.WithPrefix(nil, c.Config.CachePrefix)
}

// =============================================================================
// Store Factory
// =============================================================================

func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	switch c.Config.Store {
	case config.StoreMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        c.Config.MongoURI,
			Database:   c.Config.MongoDatabase,
			Collection: c.Config.MongoCollection,
		})
	default:
		dir := c.Config.StoreDir
		if dir == "" {
			var err error
			if dir, err = store.DefaultDir(); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInternal, err, "locate store directory")
			}
		}
		return store.NewFileStore(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the user cache
// directory (~/.cache/chartwire/ on Linux).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.CacheDir != "" {
		return c.Config.CacheDir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// pageFlags are the page settings shared by render, serve and publish.
type pageFlags struct {
	title      string
	chartJSURL string
	plugins    []string
	hookFile   string
	mutate     bool
	pretty     bool
}

func (f *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "page title")
	cmd.Flags().StringVar(&f.chartJSURL, "chartjs-url", "", "Chart.js bundle URL (default: jsDelivr chart.js@4)")
	cmd.Flags().StringSliceVar(&f.plugins, "plugin", nil, "plugin script URL, loaded after Chart.js (repeatable)")
	cmd.Flags().StringVar(&f.hookFile, "hook", "", "JavaScript file defining window.mutate_chart_object")
	cmd.Flags().BoolVar(&f.mutate, "mutate", false, "hand charts to the page's mutation hook")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "indent chart documents")
}

// pipelineOptions merges the flags over the configuration. Flags win.
func (c *CLI) pipelineOptions(f pageFlags) (pipeline.Options, error) {
	opts := pipeline.Options{
		Title:      f.title,
		ChartJSURL: c.Config.ChartJSURL,
		PluginURLs: c.Config.PluginURLs,
		Mutate:     f.mutate,
		Pretty:     f.pretty,
		Logger:     c.Logger,
	}
	if f.chartJSURL != "" {
		opts.ChartJSURL = f.chartJSURL
	}
	if len(f.plugins) > 0 {
		opts.PluginURLs = f.plugins
	}

	cfg := *c.Config
	if f.hookFile != "" {
		cfg.HookFile = f.hookFile
	}
	hook, err := cfg.HookSource()
	if err != nil {
		return opts, err
	}
	opts.HookSource = hook
	return opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatHTML}
	}
	formats := strings.Split(s, ",")
	for i := range formats {
		formats[i] = strings.TrimSpace(formats[i])
	}
	return formats
}

// installLogHooks routes observability events to the debug log.
func installLogHooks(logger *log.Logger) {
	h := &logHooks{logger: logger}
	observability.Register(observability.Hooks{Pipeline: h, Cache: h, HTTP: h})
}
