// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/source-linker/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the reference cache",
	Long: `Computed reference maps are cached in a SQLite database under the
cache directory, keyed by the document text, the key points and the
linker settings. Entries expire after cache.ttl.`,
}

// --- clear subcommand ---

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached reference map",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openDiskCache()
		if err != nil {
			return err
		}
		defer c.Close()

		n, err := c.Len()
		if err != nil {
			return err
		}
		if err := c.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", n)
		return nil
	},
}

// --- purge subcommand ---

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired reference maps",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openDiskCache()
		if err != nil {
			return err
		}
		defer c.Close()

		n, err := c.Purge()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired entries\n", n)
		return nil
	},
}

func openDiskCache() (*cache.SQLiteCache, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dir, err := cacheDir(cfg.Cache)
	if err != nil {
		return nil, err
	}
	return cache.NewSQLiteCache(dir, cfg.Cache.TTL)
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePurgeCmd)

	rootCmd.AddCommand(cacheCmd)
}
