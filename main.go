package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"room-service/internal/config"
	"room-service/internal/logging"
)

var (
	envFiles []string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "room-service",
	Short:         "Room listing registration service and terminal client",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(envFiles...); err != nil {
			return err
		}
		return logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	},
}

func main() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, ".env files to load (default .env)")
	rootCmd.AddCommand(serveCmd, wizardCmd, searchCmd)

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("room-service failed")
		os.Exit(1)
	}
}
