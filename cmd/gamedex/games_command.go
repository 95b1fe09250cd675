package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gamedex/internal/catalog"
)

// newGamesCommand prints a human-readable table of the catalog.
func newGamesCommand(app *appContext) *cobra.Command {
	var bySource string

	cmd := &cobra.Command{
		Use:   "games",
		Short: "Show the catalog as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := app.pipe.Run(cmd.Context())

			rows := make([][]string, 0, len(snap.Games))
			for _, g := range snap.Games {
				if bySource != "" && g.Source != bySource {
					continue
				}
				rows = append(rows, []string{
					markFavorite(g),
					g.Source,
					g.Category,
					formatPlaytime(g.Playtime),
					formatLastPlayed(g.LastPlayed),
				})
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, renderTable(
				[]string{"Name", "Source", "Category", "Playtime", "Last Played"},
				rows,
			))
			_, _ = fmt.Fprintf(out, "%d games\n", len(rows))

			app.reportMetrics(cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.Flags().StringVar(&bySource, "source", "", "Only show games from one source")
	return cmd
}

func markFavorite(g catalog.Game) string {
	if g.Favorite {
		return "★ " + g.Name
	}
	return g.Name
}

func formatPlaytime(minutes int64) string {
	if minutes <= 0 {
		return "-"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func formatLastPlayed(ts int64) string {
	if ts <= 0 {
		return "never"
	}
	return time.Unix(ts, 0).Format("2006-01-02")
}
