package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lllkojlhuk/sushikub/config"
	"github.com/lllkojlhuk/sushikub/filestore"
)

// NewCacheCmd creates the cache command
func NewCacheCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Derived-image cache management commands",
	}

	cmd.AddCommand(
		newCacheSweepCmd(cfg),
		newCacheClearCmd(cfg),
	)

	return cmd
}

func newCacheSweepCmd(cfg *config.Config) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete cached image derivatives older than the retention period",
		Run: func(cmd *cobra.Command, args []string) {
			cache, err := openImageCache(cfg)
			if err != nil {
				cmd.PrintErrf("%v\n", err)
				return
			}

			retention := days
			if retention <= 0 {
				retention = cfg.CacheRetentionDays
			}

			removed, err := cache.Sweep("", time.Duration(retention)*24*time.Hour)
			if err != nil {
				cmd.PrintErrf("Sweep failed: %v\n", err)
				return
			}
			cmd.Printf("Removed %d derivatives older than %d days\n", removed, retention)
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Retention in days (defaults to the configured value)")
	return cmd
}

func newCacheClearCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached image derivative",
		Run: func(cmd *cobra.Command, args []string) {
			cache, err := openImageCache(cfg)
			if err != nil {
				cmd.PrintErrf("%v\n", err)
				return
			}

			removed, err := cache.Clear("")
			if err != nil {
				cmd.PrintErrf("Clear failed: %v\n", err)
				return
			}
			cmd.Printf("Removed %d derivatives\n", removed)
		},
	}
}

func openImageCache(cfg *config.Config) (*filestore.ImageCache, error) {
	storageConfig, err := filestore.ParseStorageConfigFromEnv(cfg.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse storage configuration: %w", err)
	}
	if err := storageConfig.Validate(); err != nil {
		return nil, fmt.Errorf("Invalid storage configuration: %w", err)
	}
	backend, err := storageConfig.CreateBackend()
	if err != nil {
		return nil, fmt.Errorf("Failed to create storage backend: %w", err)
	}
	return filestore.NewImageCache(backend), nil
}
