package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "lumo",
		Short:         "Lumo desktop host",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().String("data-dir", "", "Application data directory (default: per-user app data)")

	rootCmd.AddCommand(newRunCommand(&configFlag))
	rootCmd.AddCommand(newLogPathCommand(&configFlag))

	return rootCmd
}
