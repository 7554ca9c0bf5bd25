package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"reeldiary/internal/postercache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the poster URL cache",
	}
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func withPosterCache(cmd *cobra.Command, ctx *commandContext, fn func(*postercache.Cache) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	if !cfg.PosterCache.Enabled {
		fmt.Fprintln(cmd.ErrOrStderr(), "Note: poster_cache.enabled is false; grid runs do not use this cache")
	}
	if _, err := os.Stat(cfg.PosterCache.Path); os.IsNotExist(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "No poster cache at %s\n", cfg.PosterCache.Path)
		return nil
	}
	cache, err := postercache.Open(cmd.Context(), cfg.PosterCache.Path, logger)
	if err != nil {
		return fmt.Errorf("open poster cache: %w", err)
	}
	defer cache.Close()
	return fn(cache)
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached poster URLs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPosterCache(cmd, ctx, func(cache *postercache.Cache) error {
				entries, err := cache.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, entries)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Poster cache is empty")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{entry.Slug, entry.Title, entry.Year, humanize.Time(entry.CachedAt)})
				}
				footer := []string{humanize.Comma(int64(len(entries))) + " entries"}
				if info, err := os.Stat(cache.Path()); err == nil {
					footer = append(footer, "", "", humanize.Bytes(uint64(info.Size()))+" on disk")
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Slug", "Title", "Year", "Cached"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
					footer...,
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached poster URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPosterCache(cmd, ctx, func(cache *postercache.Cache) error {
				removed, err := cache.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s cached posters\n", humanize.Comma(removed))
				return nil
			})
		},
	}
}
