package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(app *appContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gamedex",
		Short:         "Unified catalog of installed games from Steam, Heroic, Lutris and more",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&app.configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&app.metricsFlag, "metrics", false, "Dump run metrics to stderr after the command")

	rootCmd.AddCommand(newListCommand(app))
	rootCmd.AddCommand(newGamesCommand(app))
	rootCmd.AddCommand(newCacheCommand(app))

	return rootCmd
}
