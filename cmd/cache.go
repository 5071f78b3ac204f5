package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spiffcs/maintkit/config"
)

// NewCmdCache creates the cache command with subcommands.
func NewCmdCache() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the package index release cache",
	}

	cmd.AddCommand(newCmdCacheClear())
	cmd.AddCommand(newCmdCacheStats())

	return cmd
}

// newCmdCacheClear creates the cache clear subcommand.
func newCmdCacheClear() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the package index release cache",
		RunE:  runCacheClear,
	}
}

// newCmdCacheStats creates the cache stats subcommand.
func newCmdCacheStats() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE:  runCacheStats,
	}
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c, err := openCache(cfg)
	if err != nil {
		return fmt.Errorf("failed to access cache: %w", err)
	}
	defer c.Close()

	if err := c.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
	return nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c, err := openCache(cfg)
	if err != nil {
		return fmt.Errorf("failed to access cache: %w", err)
	}
	defer c.Close()

	total, valid, err := c.Stats()
	if err != nil {
		return fmt.Errorf("failed to get cache stats: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Cache statistics:\n")
	fmt.Fprintf(out, "  Release listings (TTL: %s):\n", cfg.CacheTTL)
	fmt.Fprintf(out, "    Total: %d\n", total)
	fmt.Fprintf(out, "    Valid: %d\n", valid)
	fmt.Fprintf(out, "    Expired: %d\n", total-valid)
	return nil
}
