package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nfscript/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the token cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached token stream",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withCache(func(cache *driver.TokenCache) error {
			n := cache.Len()
			if err := cache.Clear(); err != nil {
				return err
			}
			if !quiet(cmd) {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries from %s\n", n, cache.Path())
			}
			return nil
		})
	},
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the cache location and size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withCache(func(cache *driver.TokenCache) error {
			fmt.Fprintf(cmd.OutOrStdout(), "path: %s\nentries: %d\n", cache.Path(), cache.Len())
			return nil
		})
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
}

func withCache(fn func(*driver.TokenCache) error) error {
	dir, err := driver.DefaultCacheDir("nf")
	if err != nil {
		return err
	}
	cache, err := driver.OpenTokenCache(dir)
	if err != nil {
		return fmt.Errorf("open token cache: %w", err)
	}
	defer cache.Close()
	return fn(cache)
}
