package main

import (
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lumo-app/lumo"
	"github.com/lumo-app/lumo/internal/applog"
)

func newRunCommand(configFlag *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the host and supervise the server sidecar until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configFlag, cmd.Flags())
			if err != nil {
				return err
			}
			opts, err := cfg.options()
			if err != nil {
				return err
			}

			appLog := applog.InitEarly(applog.Config{Level: applog.ParseLevel(cfg.LogLevel)})
			defer func() { _ = appLog.Close() }()

			log := appLog.Logger()
			lumo.SetLogger(log.With("component", "lumo"))
			log.Info("starting lumo",
				"os", runtime.GOOS, "arch", runtime.GOARCH,
				"debug_build", isDebugBuild, "log_path", appLog.Path())

			sup := lumo.NewSupervisor(append(opts, lumo.WithLogReinit(appLog.Reinit))...)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := sup.OnStart(ctx); err != nil {
				return err
			}
			log.Info("host ready", "data_dir", sup.DataDir())

			<-ctx.Done()
			log.Info("exit requested")
			sup.OnShutdown()
			return nil
		},
	}

	cmd.Flags().String("spawn-policy", "", "When to spawn the sidecar: unless-debug, always or never")
	cmd.Flags().String("sidecar-path", "", "Path to the lumo-server executable")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn or error")

	return cmd
}
