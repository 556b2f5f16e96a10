package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/reviewtour/internal/cache"
	"github.com/dshills/reviewtour/internal/config"
)

var flagCacheJSON bool

// configuredCache opens the cache described by the config file. Maintenance
// commands pass force to reach the directory even when caching is off.
func configuredCache(force bool) (*cache.Cache, error) {
	cfg, err := config.Load(nil)
	if err != nil {
		return nil, err
	}
	c, err := cache.New(force || cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return c, nil
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the parsed commit diff cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached commit diff",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := configuredCache(true)
		if err != nil {
			return err
		}
		if err := c.Clear(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired and outdated cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := configuredCache(true)
		if err != nil {
			return err
		}
		n, err := c.Prune()
		if err != nil {
			return fmt.Errorf("pruning cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache entries.\n", n)
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := configuredCache(false)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !c.Enabled() {
			fmt.Fprintln(out, "Cache is disabled.")
			return nil
		}
		stats, err := c.GetStats()
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}
		return writeCacheStats(out, stats, flagCacheJSON)
	},
}

func writeCacheStats(w io.Writer, stats cache.Stats, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	fmt.Fprintf(w, "Directory: %s\n", stats.Dir)
	fmt.Fprintf(w, "Entries:   %d (%d commits, %d bytes)\n", stats.Entries, stats.Commits, stats.TotalBytes)
	if stats.Expired > 0 || stats.Stale > 0 {
		fmt.Fprintf(w, "Prunable:  %d expired, %d outdated (run `reviewtour cache prune`)\n", stats.Expired, stats.Stale)
	}
	return nil
}

func init() {
	cacheShowCmd.Flags().BoolVar(&flagCacheJSON, "json", false, "Print statistics as JSON")

	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheShowCmd)
}
