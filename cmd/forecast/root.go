package main

import (
	"github.com/spf13/cobra"
	"github.com/warp/personnel-forecast/config"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		app        config.Application
	)

	cmd := &cobra.Command{
		Use:           "forecast",
		Short:         "Monthly personnel expense forecast",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := loaded.ApplyLogLevel(); err != nil {
				return err
			}
			app = loaded
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Config file (YAML, optional)")

	cmd.AddCommand(newRunCmd(&app), newServeCmd(&app))
	return cmd
}
