package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCacheCommand groups cover cache maintenance subcommands.
func newCacheCommand(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the cover image cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache entry count and TTL",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := app.pipe.Cache()
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Path:    %s\n", app.cfg.Cache.Path)
			_, _ = fmt.Fprintf(out, "Entries: %d\n", store.Len())
			_, _ = fmt.Fprintf(out, "TTL:     %s\n", store.TTL())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sweep",
		Short: "Remove expired cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed := app.pipe.Cache().SweepExpired()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries\n", removed)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.pipe.Cache().Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
			return nil
		},
	})

	return cmd
}
