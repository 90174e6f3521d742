package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cacheOlderThan time.Duration

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the image cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and size",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached images",
	Long: `Remove cached images. With --older-than only entries fetched before
that age are removed.

Examples:
  docket cache clear
  docket cache clear --older-than 720h`,
	Args: cobra.NoArgs,
	RunE: runCacheClear,
}

func init() {
	cacheClearCmd.Flags().DurationVar(&cacheOlderThan, "older-than", 0, "only remove entries older than this")
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheInfo(cmd *cobra.Command, _ []string) error {
	if resourceCache == nil {
		return errors.New("cache is disabled (cache.enabled = false)")
	}

	stats, err := resourceCache.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}
	cmd.Printf("Path:    %s\n", resourceCache.Path())
	cmd.Printf("Entries: %d\n", stats.Entries)
	cmd.Printf("Size:    %s\n", formatBytes(stats.Bytes))
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	if resourceCache == nil {
		return errors.New("cache is disabled (cache.enabled = false)")
	}
	if cacheOlderThan < 0 {
		return fmt.Errorf("--older-than must not be negative, got %s", cacheOlderThan)
	}

	removed, err := resourceCache.Prune(cmd.Context(), cacheOlderThan)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	cmd.Printf("Removed %d cached images.\n", removed)
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
