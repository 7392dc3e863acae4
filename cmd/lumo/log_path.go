package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumo-app/lumo/internal/applog"
)

func newLogPathCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "log-path",
		Short: "Print the path of the application log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag, cmd.Flags())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), applog.PathFor(cfg.dataDir()))
			return err
		},
	}
}
