package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// newListCommand emits the full catalog snapshot as JSON on stdout,
// the machine interface consumed by launcher frontends. Logs go to
// stderr so the stream stays parseable.
func newListCommand(app *appContext) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the catalog snapshot as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := app.pipe.Run(cmd.Context())

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(snap); err != nil {
				return err
			}

			app.reportMetrics(cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Emit compact JSON without indentation")
	return cmd
}
