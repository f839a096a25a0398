package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/qxcheng/fiberrt/internal/rtlog"
)

var (
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fiberdemo",
		Short: "fiberdemo runs small cooperative-scheduler scenarios",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = rtlog.New(rtlog.ParseLevel(flagLogLevel), flagLogFormat)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newPingPongCmd(),
		newFanoutCmd(),
		newSleepOrderCmd(),
		newSemaStressCmd(),
		newShutdownDrainCmd(),
		newMigrationCmd(),
	)

	return root
}
