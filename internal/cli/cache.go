package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartwire/pkg/cache"
	"github.com/matzehuels/chartwire/pkg/config"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the document and page cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := c.cacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show how many entries the file cache holds",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := c.cacheDir()
				if err != nil {
					return err
				}
				u := scanCache(dir)
				fmt.Fprintf(cmd.OutOrStdout(), "backend: %s\ndir: %s\nentries: %d\nsize: %s\n",
					c.Config.Cache, dir, u.entries, formatBytes(int(u.bytes)))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached document and page",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return c.clearCache()
			},
		},
	)
	return cmd
}

func (c *CLI) clearCache() error {
	if c.Config.Cache != config.CacheFile {
		printWarning("Cache backend is %q; only the file cache can be cleared here", c.Config.Cache)
		return nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return err
	}
	u := scanCache(dir)
	if u.entries == 0 {
		printInfo("Cache is empty")
		return nil
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	if err := fc.Clear(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	printSuccess("Cleared %s (%s)", plural(u.entries, "cache file"), formatBytes(int(u.bytes)))
	printDetail("Directory: %s", dir)
	return nil
}

type cacheUsage struct {
	entries int
	bytes   int64
}

// scanCache totals the entries under dir. Half-written ".entry-*" temp files
// are not counted and a missing dir reads as empty.
func scanCache(dir string) cacheUsage {
	var u cacheUsage
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || strings.HasPrefix(d.Name(), ".entry-") {
			return nil
		}
		if info, err := d.Info(); err == nil {
			u.entries++
			u.bytes += info.Size()
		}
		return nil
	})
	return u
}
