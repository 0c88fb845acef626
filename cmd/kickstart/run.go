package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/xraph/kickstart"
	"github.com/xraph/kickstart/engine"
	"github.com/xraph/kickstart/installer"
	"github.com/xraph/kickstart/observability"
)

func runCmd() *cobra.Command {
	var configPath string

	run := &cobra.Command{
		Use:     "run [flags]",
		Short:   "Run a demo bootstrap and report the checkpoints it reached",
		Args:    cobra.NoArgs,
		Example: "  kickstart run --config kickstart.toml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := kickstart.DefaultConfig()
			cfg.Name = "kickstart-demo"
			kickstart.ApplyEnv(&cfg)
			if configPath != "" {
				loaded, err := kickstart.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			gin.SetMode(gin.ReleaseMode)
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))
			debug := observability.NewDebugListener(logger)

			eng, err := engine.New(
				engine.WithConfig(cfg),
				engine.WithLogger(logger),
				engine.WithInstallers(installer.Defaults()...),
				engine.WithConfigurators(greetingConfigurator()),
				engine.WithListener(debug),
			)
			if err != nil {
				return err
			}

			boot := kickstart.NewBootstrap(cfg.Name)
			boot.AddBundle(&demoBundle{})

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			runErr := eng.Start(ctx, boot)
			if stopErr := eng.Stop(ctx); stopErr != nil {
				logger.Error("stop failed", slog.String("error", stopErr.Error()))
			}

			out := cmd.OutOrStdout()
			if err := debug.WriteReport(out); err != nil {
				return err
			}
			if c := eng.Container(); c != nil {
				fmt.Fprintf(out, "routes: %v\n", c.Routes())
			}
			return runErr
		},
	}

	run.Flags().StringVarP(&configPath, "config", "c", "", "Path to a TOML config file")
	return run
}
