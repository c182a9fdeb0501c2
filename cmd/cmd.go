package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/totemlabs/totems-engine/internal/config"
	"github.com/totemlabs/totems-engine/pkg/logger"
	"github.com/totemlabs/totems-engine/pkg/logger/slogx"
)

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "totems-engine",
		Long: `Totems Engine: a modular token protocol with pluggable lifecycle mods`,
	}

	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g. `./config.yaml`")

	// Initialize configuration and logger on command start
	cobra.OnInitialize(func() {
		conf := config.Parse(configFile)

		if err := logger.Init(conf.Logger); err != nil {
			logger.Panic("Failed to initialize logger", slogx.Error(err), slog.Any("config", conf.Logger))
		}
	})

	cmd.AddCommand(
		NewRunCommand(),
		NewMigrateCommand(),
		NewVersionCommand(),
	)

	return cmd
}

func Execute(ctx context.Context) {
	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Panic("Failed to execute root command", slogx.Error(err))
	}
}
